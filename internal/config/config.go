package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is not given
const DefaultConfigFile = ".dupfind.yaml"

var (
	// ErrInvalidConfig wraps every validation failure
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidSize is returned for a size string that cannot be parsed
	ErrInvalidSize = errors.New("invalid size format")
)

// OutputConfig lists the optional report files. Empty means not requested.
type OutputConfig struct {
	// Text is a plain-text report with one path per line
	Text string `yaml:"text"`

	// CSV is a size,hash,file_path report
	CSV string `yaml:"csv"`

	// JSON is an array of duplicate sets
	JSON string `yaml:"json"`

	// SQLite is a database holding the scan and its sets
	SQLite string `yaml:"sqlite"`
}

// Config represents dupfind configuration options
type Config struct {
	// Dir is the root directory to scan
	Dir string `yaml:"dir"`

	// Pattern is a glob matched against file base names
	Pattern string `yaml:"pattern"`

	// Recursive walks the whole subtree; false limits the scan to Dir itself
	Recursive bool `yaml:"recursive"`

	// CheckContents confirms size matches with a content hash
	CheckContents bool `yaml:"check_contents"`

	// MinFileSize is the minimum size to consider (e.g. "10MB", "1.5GB")
	MinFileSize string `yaml:"min_filesize"`

	// Exclude drops files whose absolute path contains any of these keywords
	Exclude []string `yaml:"exclude"`

	// Quiet suppresses per-match console lines
	Quiet bool `yaml:"quiet"`

	// Verbose lowers the log level to debug
	Verbose bool `yaml:"verbose"`

	// Workers bounds concurrent hashing
	Workers int `yaml:"workers"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogFile additionally appends log lines to this file when set
	LogFile string `yaml:"log_file"`

	// Progress shows a progress bar while hashing
	Progress bool `yaml:"progress"`

	// Outputs contains the requested report files
	Outputs OutputConfig `yaml:"outputs"`

	minSize int64
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Dir:           ".",
		Pattern:       "*",
		Recursive:     true,
		CheckContents: false,
		MinFileSize:   "0B",
		Exclude:       []string{},
		Workers:       runtime.NumCPU(),
		LogLevel:      "info",
		Progress:      true,
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Pointer fields tell an explicit false/zero apart from an absent key
	type yamlConfig struct {
		Dir           *string      `yaml:"dir"`
		Pattern       *string      `yaml:"pattern"`
		Recursive     *bool        `yaml:"recursive"`
		CheckContents *bool        `yaml:"check_contents"`
		MinFileSize   *string      `yaml:"min_filesize"`
		Exclude       []string     `yaml:"exclude"`
		Quiet         *bool        `yaml:"quiet"`
		Verbose       *bool        `yaml:"verbose"`
		Workers       *int         `yaml:"workers"`
		LogLevel      *string      `yaml:"log_level"`
		LogFile       *string      `yaml:"log_file"`
		Progress      *bool        `yaml:"progress"`
		Outputs       OutputConfig `yaml:"outputs"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.Dir != nil {
		cfg.Dir = *yamlCfg.Dir
	}
	if yamlCfg.Pattern != nil {
		cfg.Pattern = *yamlCfg.Pattern
	}
	if yamlCfg.Recursive != nil {
		cfg.Recursive = *yamlCfg.Recursive
	}
	if yamlCfg.CheckContents != nil {
		cfg.CheckContents = *yamlCfg.CheckContents
	}
	if yamlCfg.MinFileSize != nil {
		cfg.MinFileSize = *yamlCfg.MinFileSize
	}
	if yamlCfg.Exclude != nil {
		cfg.Exclude = yamlCfg.Exclude
	}
	if yamlCfg.Quiet != nil {
		cfg.Quiet = *yamlCfg.Quiet
	}
	if yamlCfg.Verbose != nil {
		cfg.Verbose = *yamlCfg.Verbose
	}
	if yamlCfg.Workers != nil {
		cfg.Workers = *yamlCfg.Workers
	}
	if yamlCfg.LogLevel != nil {
		cfg.LogLevel = *yamlCfg.LogLevel
	}
	if yamlCfg.LogFile != nil {
		cfg.LogFile = *yamlCfg.LogFile
	}
	if yamlCfg.Progress != nil {
		cfg.Progress = *yamlCfg.Progress
	}
	cfg.Outputs = yamlCfg.Outputs

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .dupfind.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, DefaultConfigFile))
}

// Overrides carries CLI flag values. Nil fields leave the configuration untouched.
type Overrides struct {
	Dir           *string
	Pattern       *string
	Recursive     *bool
	CheckContents *bool
	MinFileSize   *string
	Exclude       *string // comma-separated, as typed on the command line
	Quiet         *bool
	Verbose       *bool
	Workers       *int
	LogLevel      *string
	LogFile       *string
	Progress      *bool
	TextOutput    *string
	CSVOutput     *string
	JSONOutput    *string
	SQLiteOutput  *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(o Overrides) {
	if o.Dir != nil {
		c.Dir = *o.Dir
	}
	if o.Pattern != nil {
		c.Pattern = *o.Pattern
	}
	if o.Recursive != nil {
		c.Recursive = *o.Recursive
	}
	if o.CheckContents != nil {
		c.CheckContents = *o.CheckContents
	}
	if o.MinFileSize != nil {
		c.MinFileSize = *o.MinFileSize
	}
	if o.Exclude != nil {
		c.Exclude = ParseExcludeKeywords(*o.Exclude)
	}
	if o.Quiet != nil {
		c.Quiet = *o.Quiet
	}
	if o.Verbose != nil {
		c.Verbose = *o.Verbose
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.LogFile != nil {
		c.LogFile = *o.LogFile
	}
	if o.Progress != nil {
		c.Progress = *o.Progress
	}
	if o.TextOutput != nil {
		c.Outputs.Text = *o.TextOutput
	}
	if o.CSVOutput != nil {
		c.Outputs.CSV = *o.CSVOutput
	}
	if o.JSONOutput != nil {
		c.Outputs.JSON = *o.JSONOutput
	}
	if o.SQLiteOutput != nil {
		c.Outputs.SQLite = *o.SQLiteOutput
	}
}

// Validate validates the configuration values and resolves MinSize.
// Returns an error wrapping ErrInvalidConfig if any values are invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Dir) == "" {
		return fmt.Errorf("%w: dir cannot be empty", ErrInvalidConfig)
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("%w: invalid log_level %q, must be one of: trace, debug, info, warn, error", ErrInvalidConfig, c.LogLevel)
	}

	size, err := ParseSize(c.MinFileSize)
	if err != nil {
		return fmt.Errorf("%w: min_filesize: %w", ErrInvalidConfig, err)
	}
	c.minSize = size

	cleaned := make([]string, 0, len(c.Exclude))
	for _, k := range c.Exclude {
		if k = strings.TrimSpace(k); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	c.Exclude = cleaned

	return nil
}

// MinSize returns the parsed minimum file size. Valid after Validate.
func (c *Config) MinSize() int64 {
	return c.minSize
}

// EffectiveLogLevel returns debug when verbose is set. Quiet raises the
// default info level to warn so only problems reach the console.
func (c *Config) EffectiveLogLevel() string {
	level := strings.ToLower(c.LogLevel)
	if c.Verbose {
		return "debug"
	}
	if c.Quiet && level == "info" {
		return "warn"
	}
	return level
}

// ParseSize converts a human size such as "10MB" or "1.5 GB" into bytes.
// KB, MB, GB and TB are binary multiples (1KB = 1024 bytes). A bare number is bytes.
// An empty string is zero.
func ParseSize(s string) (int64, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == "" {
		return 0, nil
	}

	for _, unit := range []string{"KB", "MB", "GB", "TB"} {
		if strings.HasSuffix(normalized, unit) {
			normalized = strings.TrimSuffix(normalized, unit) + unit[:1] + "IB"
			break
		}
	}
	if last := normalized[len(normalized)-1]; strings.IndexByte("KMGT", last) >= 0 {
		normalized += "IB"
	}

	n, err := humanize.ParseBytes(normalized)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidSize, s, err)
	}
	if n > math.MaxInt64 {
		return 0, fmt.Errorf("%w %q: value too large", ErrInvalidSize, s)
	}
	return int64(n), nil
}

// ParseExcludeKeywords splits a comma-separated list, trimming blanks and dropping empty items
func ParseExcludeKeywords(raw string) []string {
	keywords := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if k := strings.TrimSpace(part); k != "" {
			keywords = append(keywords, k)
		}
	}
	return keywords
}
