package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is prepended to every environment variable the config layer reads.
const EnvPrefix = "MYPL_"

// Config holds every tunable of the mypl tools.
type Config struct {
	Log    LogConfig    `yaml:"log" toml:"log"`
	Parser ParserConfig `yaml:"parser" toml:"parser"`
	Server ServerConfig `yaml:"server" toml:"server"`
	Output OutputConfig `yaml:"output" toml:"output"`
}

type LogConfig struct {
	Verbosity   int  `yaml:"verbosity" toml:"verbosity"`
	Development bool `yaml:"development" toml:"development"`
}

type ParserConfig struct {
	// MaxDepth bounds the number of simultaneously active grammar rules. 0 is unlimited.
	MaxDepth int  `yaml:"max_depth" toml:"max_depth"`
	Trace    bool `yaml:"trace" toml:"trace"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" toml:"addr"`

	// RateLimit is the sustained requests/second allowed per client. 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit" toml:"rate_limit"`
	Burst     int     `yaml:"burst" toml:"burst"`

	// MaxBody is an echo body-limit size such as "512K" or "2M".
	MaxBody string `yaml:"max_body" toml:"max_body"`
}

type OutputConfig struct {
	Format string `yaml:"format" toml:"format"`
}

var outputFormats = map[string]struct{}{"text": {}, "json": {}, "yaml": {}}

func Default() *Config {
	return &Config{
		Parser: ParserConfig{MaxDepth: 10000},
		Server: ServerConfig{
			Addr:      ":8080",
			RateLimit: 20,
			Burst:     40,
			MaxBody:   "1M",
		},
		Output: OutputConfig{Format: "text"},
	}
}

// Load reads the config file at path on top of the defaults. An empty path yields the defaults.
// The decoder is chosen by extension: .yaml/.yml or .toml.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(content, cfg)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(content), cfg)
		if err == nil {
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				err = fmt.Errorf("unknown keys: %v", undecoded)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding config file %s: %w", path, err)
	}
	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file. A missing file is not an error.
// Variables already present in the environment take precedence.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// ApplyEnv overrides fields from MYPL_* environment variables, e.g. MYPL_PARSER_MAX_DEPTH.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, key := range Keys() {
		val, ok := lookup(EnvName(key))
		if !ok {
			continue
		}
		if err := c.Set(key, val); err != nil {
			return fmt.Errorf("environment variable %s: %w", EnvName(key), err)
		}
	}
	return nil
}

// ApplyOverrides applies comma-separated key=value pairs such as "log.verbosity=2,parser.trace=true".
func (c *Config) ApplyOverrides(input string) error {
	pairs, err := ParseKeyValuePairs(input)
	if err != nil {
		return err
	}
	for _, kv := range pairs {
		if err := c.Set(kv.Key, kv.Value); err != nil {
			return err
		}
	}
	return nil
}

type setter func(c *Config, val string) error

var setters = map[string]setter{
	"log.verbosity":    intField(func(c *Config) *int { return &c.Log.Verbosity }),
	"log.development":  boolField(func(c *Config) *bool { return &c.Log.Development }),
	"parser.max_depth": intField(func(c *Config) *int { return &c.Parser.MaxDepth }),
	"parser.trace":     boolField(func(c *Config) *bool { return &c.Parser.Trace }),
	"server.addr":      stringField(func(c *Config) *string { return &c.Server.Addr }),
	"server.burst":     intField(func(c *Config) *int { return &c.Server.Burst }),
	"server.max_body":  stringField(func(c *Config) *string { return &c.Server.MaxBody }),
	"output.format":    stringField(func(c *Config) *string { return &c.Output.Format }),
	"server.rate_limit": func(c *Config, val string) error {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return err
		}
		c.Server.RateLimit = f
		return nil
	},
}

// Keys lists every settable key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EnvName maps a dotted key to its environment variable name.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Set assigns a single dotted key from its string form.
func (c *Config) Set(key, val string) error {
	fn, ok := setters[key]
	if !ok {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := fn(c, val); err != nil {
		return fmt.Errorf("invalid value %q for %s: %w", val, key, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Log.Verbosity < 0 {
		return errors.New("log.verbosity must not be negative")
	}
	if c.Parser.MaxDepth < 0 {
		return errors.New("parser.max_depth must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	if c.Server.RateLimit > 0 && c.Server.Burst < 1 {
		return errors.New("server.burst must be positive when rate limiting is enabled")
	}
	if _, ok := outputFormats[c.Output.Format]; !ok {
		return fmt.Errorf("output.format must be one of text, json, yaml (got %q)", c.Output.Format)
	}
	return nil
}

func intField(field func(*Config) *int) setter {
	return func(c *Config, val string) error {
		n, err := strconv.Atoi(val)
		if err != nil {
			return err
		}
		*field(c) = n
		return nil
	}
}

func boolField(field func(*Config) *bool) setter {
	return func(c *Config, val string) error {
		if val == "" {
			*field(c) = true
			return nil
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return err
		}
		*field(c) = b
		return nil
	}
}

func stringField(field func(*Config) *string) setter {
	return func(c *Config, val string) error {
		*field(c) = val
		return nil
	}
}
