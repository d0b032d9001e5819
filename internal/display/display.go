package display

import (
	"fmt"
	"log"
	"time"

	humanize "github.com/dustin/go-humanize"
	"github.com/fatih/color"
	progressbar "github.com/schollz/progressbar/v3"
)

var (
	magenta    = color.New(color.FgMagenta).SprintFunc()
	yellow     = color.New(color.FgYellow).SprintFunc()
	success    = color.New(color.FgGreen).SprintFunc()
	label      = color.New(color.FgCyan).SprintFunc()
	highlight  = color.New(color.FgHiWhite).SprintFunc()
	errorColor = color.New(color.FgRed).SprintFunc()
	white      = fmt.Sprint
)

// Summary describes a torrent about to be generated, as reported by the
// pre-hashing scan.
type Summary struct {
	Path      string
	Name      string
	TotalSize int64
	PieceSize int64
	Pieces    int
	Files     int
	Trackers  []string
	WebSeeds  []string
	Private   bool
	Source    string
	Comment   string
	MD5       bool
}

type Display struct {
	formatter *Formatter
	bar       *progressbar.ProgressBar
	quiet     bool
}

func NewDisplay(formatter *Formatter) *Display {
	return &Display{formatter: formatter}
}

// SetQuiet suppresses everything except errors and warnings.
func (d *Display) SetQuiet(quiet bool) {
	d.quiet = quiet
}

func (d *Display) ShowProgress(total int) {
	if d.quiet {
		return
	}
	fmt.Println()
	d.bar = progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][bold]Hashing pieces...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (d *Display) UpdateProgress(completed int) {
	if d.bar != nil {
		if err := d.bar.Set(completed); err != nil {
			log.Printf("failed to update progress bar: %v", err)
		}
	}
}

func (d *Display) FinishProgress() {
	if d.bar != nil {
		if err := d.bar.Finish(); err != nil {
			log.Printf("failed to finish progress bar: %v", err)
		}
		fmt.Println()
	}
}

func (d *Display) ShowTorrentSummary(s *Summary) {
	if d.quiet {
		return
	}
	fmt.Printf("\n%s\n", magenta("Creating torrent:"))
	fmt.Printf("  %-13s %s\n", label("Input:"), s.Path)
	fmt.Printf("  %-13s %s\n", label("Name:"), s.Name)
	fmt.Printf("  %-13s %s\n", label("Size:"), humanize.IBytes(uint64(s.TotalSize)))
	fmt.Printf("  %-13s %s\n", label("Piece size:"), d.formatter.FormatPieceSize(s.PieceSize))
	fmt.Printf("  %-13s %d\n", label("Pieces:"), s.Pieces)
	if s.Files > 1 {
		fmt.Printf("  %-13s %d\n", label("Files:"), s.Files)
	}
	for _, tracker := range s.Trackers {
		fmt.Printf("  %-13s %s\n", label("Tracker:"), success(tracker))
	}
	for _, seed := range s.WebSeeds {
		fmt.Printf("  %-13s %s\n", label("Web seed:"), highlight(seed))
	}
	if s.Private {
		fmt.Printf("  %-13s yes\n", label("Private:"))
	}
	if s.Source != "" {
		fmt.Printf("  %-13s %s\n", label("Source:"), s.Source)
	}
	if s.Comment != "" {
		fmt.Printf("  %-13s %s\n", label("Comment:"), s.Comment)
	}
	if s.MD5 {
		fmt.Printf("  %-13s yes\n", label("MD5 hashing:"))
	}
}

func (d *Display) ShowInfoHash(hexHash, magnet string) {
	if d.quiet {
		return
	}
	fmt.Printf("\n  %-13s %s\n", label("Info hash:"), highlight(hexHash))
	if magnet != "" {
		fmt.Printf("  %-13s %s\n", label("Magnet:"), magnet)
	}
}

func (d *Display) ShowOutputPathWithTime(path string, duration time.Duration) {
	if d.quiet {
		fmt.Println(path)
		return
	}
	fmt.Printf("\n%s %s (%s)\n",
		success("Wrote"),
		white(path),
		magenta(d.formatter.FormatDuration(duration)))
}

func (d *Display) ShowMessage(msg string) {
	if d.quiet {
		return
	}
	fmt.Printf("%s %s\n", success("Info:"), msg)
}

func (d *Display) ShowWarning(msg string) {
	fmt.Printf("%s %s\n", yellow("Warning:"), msg)
}

func (d *Display) ShowError(msg string) {
	fmt.Println(errorColor(msg))
}

type Formatter struct {
	verbose bool
}

func NewFormatter(verbose bool) *Formatter {
	return &Formatter{verbose: verbose}
}

func (f *Formatter) FormatBytes(bytes int64) string {
	return humanize.IBytes(uint64(bytes))
}

// FormatPieceSize renders a power-of-two piece size, using KiB below
// one MiB and MiB above.
func (f *Formatter) FormatPieceSize(size int64) string {
	kib := size >> 10
	if kib >= 1024 {
		return fmt.Sprintf("%d MiB", kib/1024)
	}
	return fmt.Sprintf("%d KiB", kib)
}

func (f *Formatter) FormatDuration(dur time.Duration) string {
	if dur < time.Second {
		return fmt.Sprintf("elapsed %dms", dur.Milliseconds())
	}
	return fmt.Sprintf("elapsed %.2fs", dur.Seconds())
}
