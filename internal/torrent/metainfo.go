package torrent

import (
	"encoding/base32"
	"fmt"
	"io"
	"math/rand"
	"path/filepath"
	"strings"

	"github.com/anacrolix/torrent/bencode"
	"github.com/anacrolix/torrent/metainfo"
)

// Version is stamped by the build; the default creator string embeds it.
var Version = "dev"

// DefaultCreator identifies the tool in the "created by" field when the
// caller does not supply one.
func DefaultCreator() string {
	return fmt.Sprintf("mktorr/%s (https://github.com/autobrr/mktorr)", Version)
}

// buildDocument assembles the canonical ordered metainfo map. Key order
// is fixed by insertion: the info hash depends on byte-exact encoding,
// so the order below must never change.
func (t *Torrent) buildDocument(pieces []byte) *Dict {
	doc := NewDict()
	if len(t.trackers) > 0 {
		doc.Set("announce", t.trackers[0])
		if len(t.trackers) > 1 {
			// one tracker per tier, input order preserved
			tiers := make([][]string, 0, len(t.trackers))
			for _, tracker := range t.trackers {
				tiers = append(tiers, []string{tracker})
			}
			doc.Set("announce-list", tiers)
		}
	}
	if t.comment != "" {
		doc.Set("comment", t.comment)
	}
	if t.createdBy != "" {
		doc.Set("created by", t.createdBy)
	} else {
		doc.Set("created by", DefaultCreator())
	}
	if !t.creationDate.IsZero() {
		doc.Set("creation date", t.creationDate.Unix())
	}
	if len(t.webSeeds) > 0 {
		doc.Set("url-list", t.webSeeds)
	}

	info := NewDict()
	if t.singleFile {
		fe := t.files[0]
		info.Set("length", fe.length)
		if t.includeMD5 {
			info.Set("md5sum", fe.md5sum)
		}
		info.Set("name", filepath.Base(fe.path))
	} else {
		list := make([]interface{}, 0, len(t.files))
		for _, fe := range t.files {
			fd := NewDict()
			fd.Set("length", fe.length)
			if t.includeMD5 {
				fd.Set("md5sum", fe.md5sum)
			}
			rel, _ := filepath.Rel(t.path, fe.path)
			fd.Set("path", strings.Split(filepath.ToSlash(rel), "/"))
			list = append(list, fd)
		}
		info.Set("files", list)
		info.Set("name", filepath.Base(t.path))
	}
	info.Set("pieces", pieces)
	info.Set("piece length", t.pieceLen)
	info.Set("private", boolToInt(t.private))
	if t.source != "" {
		info.Set("source", t.source)
	}
	if t.entropy {
		info.Set("entropy", rand.Int63n(4_000_000_001)-2_000_000_000)
	}
	doc.Set("info", info)
	return doc
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Document returns the assembled metainfo map. Generate must have
// completed successfully first.
func (t *Torrent) Document() (*Dict, error) {
	if t.doc == nil {
		return nil, ErrNotGenerated
	}
	return t.doc, nil
}

// InfoBytes returns the bencoding of the info dictionary alone.
func (t *Torrent) InfoBytes() ([]byte, error) {
	if t.doc == nil {
		return nil, ErrNotGenerated
	}
	info, _ := t.doc.Get("info")
	return bencode.Marshal(info)
}

// InfoHash returns the SHA-1 digest of the bencoded info dictionary,
// the torrent's content identity.
func (t *Torrent) InfoHash() (metainfo.Hash, error) {
	infoBytes, err := t.InfoBytes()
	if err != nil {
		return metainfo.Hash{}, err
	}
	return metainfo.HashBytes(infoBytes), nil
}

// InfoHashBase32 returns the base-32 rendering of the info hash, as
// used in magnet links.
func (t *Torrent) InfoHashBase32() (string, error) {
	h, err := t.InfoHash()
	if err != nil {
		return "", err
	}
	return base32.StdEncoding.EncodeToString(h.Bytes()), nil
}

// Magnet returns a magnet URI for the generated torrent.
func (t *Torrent) Magnet() (string, error) {
	h, err := t.InfoHash()
	if err != nil {
		return "", err
	}
	m := metainfo.Magnet{
		InfoHash:    h,
		DisplayName: t.Name(),
		Trackers:    t.Trackers(),
	}
	return m.String(), nil
}

// Bytes returns the full bencoded torrent file content.
func (t *Torrent) Bytes() ([]byte, error) {
	if t.doc == nil {
		return nil, ErrNotGenerated
	}
	return bencode.Marshal(t.doc)
}

// Save writes the bencoded torrent to w.
func (t *Torrent) Save(w io.Writer) error {
	data, err := t.Bytes()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
