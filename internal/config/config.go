// Package config loads service settings from a config file, HRDOCS_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	hrdocs "github.com/lvillar/hrdocs"
)

// EnvPrefix prefixes every environment override, e.g. HRDOCS_DATABASE_DSN.
const EnvPrefix = "HRDOCS"

// Config is the resolved service configuration.
type Config struct {
	Log        Log      `mapstructure:"log"`
	HTTP       HTTP     `mapstructure:"http"`
	Database   Database `mapstructure:"database"`
	Fonts      Fonts    `mapstructure:"fonts"`
	Photos     Photos   `mapstructure:"photos"`
	PDF        PDF      `mapstructure:"pdf"`
	Letterhead string   `mapstructure:"letterhead"`
	// LetterheadPage is the 1-based stationery page drawn behind reports.
	LetterheadPage int    `mapstructure:"letterhead_page"`
	Watermark      string `mapstructure:"watermark"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

type HTTP struct {
	Listen     string        `mapstructure:"listen"`
	PreviewTTL time.Duration `mapstructure:"preview_ttl"`
}

type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

// Fonts names a UTF-8 body family. Relative face paths resolve against Dir.
type Fonts struct {
	Dir     string `mapstructure:"dir"`
	Family  string `mapstructure:"family"`
	Regular string `mapstructure:"regular"`
	Bold    string `mapstructure:"bold"`
}

type Photos struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	Concurrency int           `mapstructure:"concurrency"`
	DPI         float64       `mapstructure:"dpi"`
	S3          S3            `mapstructure:"s3"`
}

type S3 struct {
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

type PDF struct {
	Compress bool `mapstructure:"compress"`
}

// SetDefaults registers every key so environment overrides apply to
// Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("http.listen", ":8080")
	v.SetDefault("http.preview_ttl", 15*time.Minute)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "hrdocs.db")
	v.SetDefault("fonts.dir", "")
	v.SetDefault("fonts.family", "")
	v.SetDefault("fonts.regular", "")
	v.SetDefault("fonts.bold", "")
	v.SetDefault("photos.timeout", 10*time.Second)
	v.SetDefault("photos.concurrency", 4)
	v.SetDefault("photos.dpi", 150.0)
	v.SetDefault("photos.s3.region", "")
	v.SetDefault("photos.s3.endpoint", "")
	v.SetDefault("pdf.compress", true)
	v.SetDefault("letterhead", "")
	v.SetDefault("letterhead_page", 1)
	v.SetDefault("watermark", "")
}

// New returns a viper instance with defaults, environment binding and the
// config file search path set up. An explicit path must exist.
func New(explicitPath string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
		return v
	}
	v.SetConfigName("hrdocs")
	for _, dir := range searchDirs() {
		v.AddConfigPath(dir)
	}
	return v
}

func searchDirs() []string {
	dirs := []string{"."}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, filepath.Join(xdg, "hrdocs"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config", "hrdocs"))
	}
	return append(dirs, "/etc/hrdocs")
}

// Load reads the config file, if any, binds flags and decodes the result.
// Flags are bound by their dotted key names, e.g. --database.dsn.
func Load(v *viper.Viper, flags *pflag.FlagSet, strict bool) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strict {
			return Config{}, fmt.Errorf("config: reading %s: %w", v.ConfigFileUsed(), err)
		}
	}
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("config: binding flags: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("config: decoding: %w", err)
	}
	return c, nil
}

// FontFiles returns the configured body font, or false when none is set.
func (f Fonts) FontFiles() (hrdocs.FontFiles, bool) {
	if f.Family == "" || f.Regular == "" {
		return hrdocs.FontFiles{}, false
	}
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) || f.Dir == "" {
			return p
		}
		return filepath.Join(f.Dir, p)
	}
	return hrdocs.FontFiles{Family: f.Family, Regular: resolve(f.Regular), Bold: resolve(f.Bold)}, true
}

// ReadFilters decodes a YAML mapping of filter values.
func ReadFilters(path string) (hrdocs.Filters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading filters: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("config: parsing filters %s: %w", path, err)
	}
	f := make(hrdocs.Filters, len(m))
	for k, v := range m {
		f[k] = v
	}
	return f, nil
}

// ParseFilters parses key=value pairs. Later pairs override earlier ones.
func ParseFilters(pairs []string) (hrdocs.Filters, error) {
	f := make(hrdocs.Filters, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: filter %q is not key=value", hrdocs.ErrInvalidParam, p)
		}
		f[k] = strings.TrimSpace(v)
	}
	return f, nil
}
