// Package config provides configuration helpers and file parsing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileConfig represents the configuration file.
type FileConfig struct {
	Practice PracticeConfig `toml:"practice" yaml:"practice"`
	Log      LogConfig      `toml:"log" yaml:"log"`
	Storage  StorageConfig  `toml:"storage" yaml:"storage"`
}

// PracticeConfig maps practice-related settings. Unset fields are nil so
// that command-line flags can tell them apart from zero values.
type PracticeConfig struct {
	Difficulty *int     `toml:"difficulty" yaml:"difficulty"`
	TextID     *string  `toml:"id" yaml:"id"`
	File       *string  `toml:"file" yaml:"file"`
	Words      *int     `toml:"words" yaml:"words"`
	WordList   *string  `toml:"wordlist" yaml:"wordlist"`
	CapsPct    *float64 `toml:"caps" yaml:"caps"`
	PunctPct   *float64 `toml:"punct" yaml:"punct"`
	PunctSet   *string  `toml:"punct-set" yaml:"punct-set"`
}

// LogConfig maps the log file settings.
type LogConfig struct {
	Level      *string `toml:"level" yaml:"level"`
	File       *string `toml:"file" yaml:"file"`
	MaxSizeMB  *int    `toml:"max-size" yaml:"max-size"`
	MaxBackups *int    `toml:"max-backups" yaml:"max-backups"`
	MaxAgeDays *int    `toml:"max-age" yaml:"max-age"`
	Compress   *bool   `toml:"compress" yaml:"compress"`
}

// StorageConfig maps the database location.
type StorageConfig struct {
	DB *string `toml:"db" yaml:"db"`
}

// LoadConfig reads a TOML or YAML config from the given path, picking the
// decoder by extension. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to read config: %w", err)
	}
	var cfg FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	return cfg, nil
}

// FindConfig returns the first existing config file in dir, preferring TOML.
// When none exists the TOML path is returned.
func FindConfig(dir string) string {
	for _, name := range []string{"config.toml", "config.yaml", "config.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "config.toml")
}

// DefaultTemplate is written by `retype config` when no file exists.
const DefaultTemplate = `# retype configuration

[practice]
# difficulty = 3        # 1..5, 0 picks at random
# id = "12"             # corpus text ID
# file = "/path/to/text.txt"
# words = 30            # generated text length when using a word list
# wordlist = "/path/to/words.txt"
# caps = 0.0
# punct = 0.0
# punct-set = ".,;:!?"

[log]
# level = "info"
# file = ""
# max-size = 10
# max-backups = 3
# max-age = 28
# compress = false

[storage]
# db = ""
`
