package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/dataconv/internal/csvcodec"
	"github.com/mcncl/dataconv/internal/xmlcodec"
)

// Config represents the complete configuration for dataconv
type Config struct {
	CSV    CSVConfig    `yaml:"csv"`
	XML    XMLConfig    `yaml:"xml"`
	Output OutputConfig `yaml:"output"`
	Dev    DevConfig    `yaml:"dev"`
}

// CSVConfig controls reading and writing delimited text
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	Enclosure string `yaml:"enclosure"`
	Header    bool   `yaml:"header"`
}

// XMLConfig controls XML document generation
type XMLConfig struct {
	RootNode string `yaml:"root_node"`
	PrevKey  string `yaml:"prev_key"`
	TagCase  string `yaml:"tag_case"`
}

// OutputConfig controls how JSON and XML text is laid out
type OutputConfig struct {
	Indent string `yaml:"indent"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// Overrides holds command-line values. Zero values leave the loaded config alone.
type Overrides struct {
	Delimiter string
	Enclosure string
	NoHeader  bool
	RootNode  string
	PrevKey   string
	TagCase   string
	Indent    string
	Debug     bool
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		CSV: CSVConfig{
			Delimiter: string(csvcodec.DefaultDelimiter),
			Enclosure: string(csvcodec.DefaultEnclosure),
			Header:    true,
		},
		XML: XMLConfig{
			RootNode: xmlcodec.DefaultRootNode,
			PrevKey:  xmlcodec.DefaultPrevKey,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".dataconv.yml", ".dataconv.yaml", "dataconv.yml", "dataconv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that the values can drive the codecs
func (c *Config) Validate() error {
	delimiter, err := singleRune("csv.delimiter", c.CSV.Delimiter)
	if err != nil {
		return err
	}
	enclosure, err := singleRune("csv.enclosure", c.CSV.Enclosure)
	if err != nil {
		return err
	}
	if delimiter == enclosure {
		return fmt.Errorf("csv.delimiter and csv.enclosure are both %q", c.CSV.Delimiter)
	}
	if delimiter == '\n' || delimiter == '\r' || enclosure == '\n' || enclosure == '\r' {
		return fmt.Errorf("csv.delimiter and csv.enclosure cannot be line breaks")
	}

	if c.XML.RootNode == "" {
		return fmt.Errorf("xml.root_node cannot be empty")
	}
	if !xmlcodec.IsValidName(c.XML.RootNode) {
		return fmt.Errorf("xml.root_node %q is not a valid XML name", c.XML.RootNode)
	}
	if c.XML.PrevKey == "" {
		return fmt.Errorf("xml.prev_key cannot be empty")
	}
	if _, err := xmlcodec.ParseTagCase(c.XML.TagCase); err != nil {
		return fmt.Errorf("xml.tag_case: %w", err)
	}
	return nil
}

// CSVOptions returns the codec options for the configured CSV dialect.
// Call Validate first; malformed values fall back to the codec defaults.
func (c *Config) CSVOptions() csvcodec.Options {
	opts := csvcodec.DefaultOptions()
	if r, err := singleRune("", c.CSV.Delimiter); err == nil {
		opts.Delimiter = r
	}
	if r, err := singleRune("", c.CSV.Enclosure); err == nil {
		opts.Enclosure = r
	}
	opts.HeaderMode = c.CSV.Header
	return opts
}

// XMLOptions returns the encoder options for the configured tag case
func (c *Config) XMLOptions() xmlcodec.Options {
	tc, err := xmlcodec.ParseTagCase(c.XML.TagCase)
	if err != nil {
		tc = xmlcodec.TagCaseAsIs
	}
	return xmlcodec.Options{TagCase: tc}
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%s must be a single character, got %q", field, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Delimiter != "" {
		cfg.CSV.Delimiter = cli.Delimiter
	}
	if cli.Enclosure != "" {
		cfg.CSV.Enclosure = cli.Enclosure
	}
	if cli.NoHeader {
		cfg.CSV.Header = false
	}
	if cli.RootNode != "" {
		cfg.XML.RootNode = cli.RootNode
	}
	if cli.PrevKey != "" {
		cfg.XML.PrevKey = cli.PrevKey
	}
	if cli.TagCase != "" {
		cfg.XML.TagCase = cli.TagCase
	}
	if cli.Indent != "" {
		cfg.Output.Indent = cli.Indent
	}
	// Boolean flags can only switch debugging on
	if cli.Debug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
