package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/KaramelBytes/finclean-cli/internal/parser"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Cleaning
	MinFillRatio         float64  `mapstructure:"min_fill_ratio" yaml:"min_fill_ratio" validate:"gte=0,lte=1"`
	ExtraCurrencySymbols []string `mapstructure:"extra_currency_symbols" yaml:"extra_currency_symbols"`

	// Input
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter" validate:"delimiter"`
	Encoding  string `mapstructure:"encoding" yaml:"encoding" validate:"encoding"`

	// Batch output
	OutputDir    string `mapstructure:"output_dir" yaml:"output_dir" validate:"required"`
	Workers      int    `mapstructure:"workers" yaml:"workers" validate:"gte=1"`
	WriteReports bool   `mapstructure:"write_reports" yaml:"write_reports"`

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"min_fill_ratio",
	"extra_currency_symbols",
	"delimiter",
	"encoding",
	"output_dir",
	"workers",
	"write_reports",
	"log_level",
	"log_format",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("delimiter", isDelimiter); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("encoding", isEncoding); err != nil {
		panic(err)
	}
	return v
}

// isDelimiter accepts an empty value (auto-detect) or one of the sniffed separators.
func isDelimiter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", ",", ";", "|", "tab", `\t`, "\t":
		return true
	}
	return false
}

// isEncoding accepts any source encoding name the CSV reader can decode.
func isEncoding(fl validator.FieldLevel) bool {
	_, ok := parser.CanonicalEncoding(fl.Field().String())
	return ok
}

// Validate checks value ranges. The returned error names every offending key.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, formatFieldError(fe))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(fe validator.FieldError) string {
	field := yamlKey(fe.StructField())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "delimiter":
		return fmt.Sprintf("%s must be empty (auto) or one of: \",\", \";\", \"|\", tab", field)
	case "encoding":
		return fmt.Sprintf("%s must be one of: utf-8, windows-1252, macintosh (or an alias such as cp1252)", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func yamlKey(structField string) string {
	switch structField {
	case "MinFillRatio":
		return "min_fill_ratio"
	case "ExtraCurrencySymbols":
		return "extra_currency_symbols"
	case "OutputDir":
		return "output_dir"
	case "WriteReports":
		return "write_reports"
	case "LogLevel":
		return "log_level"
	case "LogFormat":
		return "log_format"
	default:
		return strings.ToLower(structField)
	}
}

// DefaultPath returns ~/.finclean/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".finclean", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.finclean/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
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
// Precedence: flags (applied by the caller) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("FINCLEAN")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("min_fill_ratio", 0.6)
	v.SetDefault("extra_currency_symbols", []string{})
	v.SetDefault("delimiter", "")
	v.SetDefault("encoding", "utf-8")
	v.SetDefault("output_dir", "cleaned_data")
	v.SetDefault("workers", runtime.NumCPU())
	v.SetDefault("write_reports", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if enc, ok := parser.CanonicalEncoding(c.Encoding); ok {
		c.Encoding = enc
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Set assigns one key from its string form, as given on the command line.
// On error c is left unchanged.
func (c *Global) Set(key, value string) error {
	prev := *c
	if err := c.set(key, value); err != nil {
		*c = prev
		return err
	}
	if err := c.Validate(); err != nil {
		*c = prev
		return err
	}
	return nil
}

func (c *Global) set(key, value string) error {
	switch key {
	case "min_fill_ratio":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.MinFillRatio = f
	case "extra_currency_symbols":
		var syms []string
		for _, s := range strings.Split(value, ",") {
			if s = strings.TrimSpace(s); s != "" {
				syms = append(syms, s)
			}
		}
		c.ExtraCurrencySymbols = syms
	case "delimiter":
		c.Delimiter = value
	case "encoding":
		c.Encoding = value
		if enc, ok := parser.CanonicalEncoding(value); ok {
			c.Encoding = enc
		}
	case "output_dir":
		c.OutputDir = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Workers = n
	case "write_reports":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.WriteReports = b
	case "log_level":
		c.LogLevel = value
	case "log_format":
		c.LogFormat = value
	default:
		return fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "min_fill_ratio":
		return strconv.FormatFloat(c.MinFillRatio, 'g', -1, 64), nil
	case "extra_currency_symbols":
		return strings.Join(c.ExtraCurrencySymbols, ","), nil
	case "delimiter":
		return c.Delimiter, nil
	case "encoding":
		return c.Encoding, nil
	case "output_dir":
		return c.OutputDir, nil
	case "workers":
		return strconv.Itoa(c.Workers), nil
	case "write_reports":
		return strconv.FormatBool(c.WriteReports), nil
	case "log_level":
		return c.LogLevel, nil
	case "log_format":
		return c.LogFormat, nil
	}
	return "", fmt.Errorf("unknown key %q (valid: %s)", key, strings.Join(Keys, ", "))
}

// DelimiterRune maps the configured delimiter to a rune; 0 means auto-detect.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case "tab", `\t`:
		return '\t'
	default:
		return []rune(c.Delimiter)[0]
	}
}
