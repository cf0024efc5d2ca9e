package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tabprof/internal/table"
)

// Global configuration structure.
type Global struct {
	SampleSize   int    `mapstructure:"sample_size" yaml:"sample_size" validate:"min=0"`
	MaxRows      int    `mapstructure:"max_rows" yaml:"max_rows" validate:"min=0"`
	Workers      int    `mapstructure:"workers" yaml:"workers" validate:"min=0"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=markdown md json yaml yml"`

	// CSV parsing
	Delimiter          string   `mapstructure:"delimiter" yaml:"delimiter" validate:"separator"`
	NullValues         []string `mapstructure:"null_values" yaml:"null_values"`
	DecimalSeparator   string   `mapstructure:"decimal_separator" yaml:"decimal_separator" validate:"separator"`
	ThousandsSeparator string   `mapstructure:"thousands_separator" yaml:"thousands_separator" validate:"separator"`
	CSVEngine          string   `mapstructure:"csv_engine" yaml:"csv_engine" validate:"oneof=native gota"`

	LogLevel      string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	WorkspacesDir string `mapstructure:"workspaces_dir" yaml:"workspaces_dir"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"sample_size", "max_rows", "workers", "output_format",
	"delimiter", "null_values", "decimal_separator", "thousands_separator", "csv_engine",
	"log_level", "workspaces_dir",
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	return &Global{
		SampleSize:   5,
		OutputFormat: "markdown",
		NullValues:   []string{},
		CSVEngine:    "native",
		LogLevel:     "info",
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("separator", func(fl validator.FieldLevel) bool {
		_, err := singleRune(fl.Field().String())
		return err == nil
	})
	// Report yaml key names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes enum values to lower case and checks every field.
func (c *Global) Validate() error {
	c.OutputFormat = strings.ToLower(strings.TrimSpace(c.OutputFormat))
	c.CSVEngine = strings.ToLower(strings.TrimSpace(c.CSVEngine))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s=%s", fe.Field(), fe.Value(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s=%v fails %s", fe.Field(), fe.Value(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".tabprof"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tabprof/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABPROF")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sample_size", 5)
	v.SetDefault("max_rows", 0)
	v.SetDefault("workers", 0)
	v.SetDefault("output_format", "markdown")
	v.SetDefault("delimiter", "")
	v.SetDefault("null_values", []string{})
	v.SetDefault("decimal_separator", "")
	v.SetDefault("thousands_separator", "")
	v.SetDefault("csv_engine", "native")
	v.SetDefault("log_level", "info")
	v.SetDefault("workspaces_dir", "")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	// Resolve workspaces_dir default: ~/.tabprof/workspaces
	if c.WorkspacesDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.WorkspacesDir = filepath.Join(dir, "workspaces")
	}
	return &c, nil
}

// Get returns the display value of a key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "sample_size":
		return strconv.Itoa(c.SampleSize), nil
	case "max_rows":
		return strconv.Itoa(c.MaxRows), nil
	case "workers":
		return strconv.Itoa(c.Workers), nil
	case "output_format":
		return c.OutputFormat, nil
	case "delimiter":
		return strconv.Quote(c.Delimiter), nil
	case "null_values":
		return strings.Join(c.NullValues, ","), nil
	case "decimal_separator":
		return strconv.Quote(c.DecimalSeparator), nil
	case "thousands_separator":
		return strconv.Quote(c.ThousandsSeparator), nil
	case "csv_engine":
		return c.CSVEngine, nil
	case "log_level":
		return c.LogLevel, nil
	case "workspaces_dir":
		return c.WorkspacesDir, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

// Set validates and assigns one key. c is unchanged on error.
func (c *Global) Set(key, val string) error {
	next := *c
	switch key {
	case "sample_size", "max_rows", "workers":
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		switch key {
		case "sample_size":
			next.SampleSize = i
		case "max_rows":
			next.MaxRows = i
		default:
			next.Workers = i
		}
	case "output_format":
		next.OutputFormat = val
	case "delimiter":
		next.Delimiter = val
	case "null_values":
		next.NullValues = splitList(val)
	case "decimal_separator":
		next.DecimalSeparator = val
	case "thousands_separator":
		next.ThousandsSeparator = val
	case "csv_engine":
		next.CSVEngine = val
	case "log_level":
		next.LogLevel = val
	case "workspaces_dir":
		next.WorkspacesDir = val
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// ParseOptions maps the CSV settings onto table parsing options.
func (c *Global) ParseOptions() (table.ParseOptions, error) {
	opt := table.ParseOptions{NullValues: c.NullValues, MaxRows: c.MaxRows}
	var err error
	if opt.DecimalSeparator, err = singleRune(c.DecimalSeparator); err != nil {
		return opt, fmt.Errorf("decimal_separator: %w", err)
	}
	if opt.ThousandsSeparator, err = singleRune(c.ThousandsSeparator); err != nil {
		return opt, fmt.Errorf("thousands_separator: %w", err)
	}
	return opt, nil
}

// DelimiterRune returns the configured CSV delimiter, or 0 for auto.
func (c *Global) DelimiterRune() (rune, error) {
	return singleRune(c.Delimiter)
}

// singleRune accepts "" (unset), one character, or a name such as "tab" or "comma".
func singleRune(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "dot":
		return '.', nil
	case "semicolon":
		return ';', nil
	case "space":
		return ' ', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
