package preset

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the YAML configuration for torrent creation presets.
type Config struct {
	Version int                `yaml:"version"`
	Default *Options           `yaml:"default"`
	Presets map[string]Options `yaml:"presets"`
}

// Options represents the options for a single preset. Pointer fields
// distinguish "not set" from an explicit false when merging with the
// defaults block.
type Options struct {
	Trackers   []string `yaml:"trackers"`
	WebSeeds   []string `yaml:"webseeds"`
	Private    *bool    `yaml:"private"`
	PieceSize  int64    `yaml:"piece_size"`
	Comment    string   `yaml:"comment"`
	Source     string   `yaml:"source"`
	NoDate     *bool    `yaml:"no_date"`
	IncludeMD5 *bool    `yaml:"md5"`
	Entropy    *bool    `yaml:"entropy"`
	Exclude    []string `yaml:"exclude"`
}

// FindPresetFile searches for a preset file in known locations.
func FindPresetFile(explicitPath string) (string, error) {
	locations := []string{
		explicitPath,   // explicitly specified file
		"presets.yaml", // current directory
	}

	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations,
			filepath.Join(home, ".config", "mktorr", "presets.yaml"),
			filepath.Join(home, ".mktorr", "presets.yaml"),
		)
	}

	for _, loc := range locations {
		if loc == "" {
			continue
		}
		if _, err := os.Stat(loc); err == nil {
			return loc, nil
		}
	}

	return "", fmt.Errorf("could not find preset file in known locations")
}

// Load loads presets from a config file.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("could not read preset config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("could not parse preset config: %w", err)
	}

	if config.Version != 1 {
		return nil, fmt.Errorf("unsupported preset config version: %d", config.Version)
	}

	if len(config.Presets) == 0 {
		return nil, fmt.Errorf("no presets defined in config")
	}

	return &config, nil
}

// GetPreset returns a preset by name, merged with default settings.
func (c *Config) GetPreset(name string) (*Options, error) {
	preset, ok := c.Presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found", name)
	}

	if c.Default == nil {
		return &preset, nil
	}

	merged := *c.Default
	if len(preset.Trackers) > 0 {
		merged.Trackers = preset.Trackers
	}
	if len(preset.WebSeeds) > 0 {
		merged.WebSeeds = preset.WebSeeds
	}
	if preset.PieceSize != 0 {
		merged.PieceSize = preset.PieceSize
	}
	if preset.Comment != "" {
		merged.Comment = preset.Comment
	}
	if preset.Source != "" {
		merged.Source = preset.Source
	}
	if len(preset.Exclude) > 0 {
		merged.Exclude = preset.Exclude
	}
	if preset.Private != nil {
		merged.Private = preset.Private
	}
	if preset.NoDate != nil {
		merged.NoDate = preset.NoDate
	}
	if preset.IncludeMD5 != nil {
		merged.IncludeMD5 = preset.IncludeMD5
	}
	if preset.Entropy != nil {
		merged.Entropy = preset.Entropy
	}

	return &merged, nil
}
