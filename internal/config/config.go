package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/matheuskafuri/devtimeline/internal/article"
	"github.com/matheuskafuri/devtimeline/internal/chart"
	"github.com/matheuskafuri/devtimeline/internal/interact"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Feed struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

type Margin struct {
	Top    float64 `yaml:"top"`
	Right  float64 `yaml:"right"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
}

type Layout struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Margin     Margin  `yaml:"margin"`
	TickLength float64 `yaml:"tick_length"`
	MinStroke  float64 `yaml:"min_stroke"`
	StrokeFill float64 `yaml:"stroke_fill"`
}

type Colors struct {
	Mark      string `yaml:"mark"`
	Highlight string `yaml:"highlight"`
}

type Server struct {
	Addr        string `yaml:"addr"`
	ReadTimeout string `yaml:"read_timeout"`
}

type Log struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Import struct {
	Workers   int    `yaml:"workers"`
	FetchBody bool   `yaml:"fetch_body"`
	Timeout   string `yaml:"timeout"`
}

type Archive struct {
	Retention string `yaml:"retention"`
}

type Config struct {
	Dataset    string  `yaml:"dataset"`
	Validation string  `yaml:"validation"`
	Layout     Layout  `yaml:"layout"`
	Colors     Colors  `yaml:"colors"`
	Server     Server  `yaml:"server"`
	Log        Log     `yaml:"log"`
	Import     Import  `yaml:"import"`
	Archive    Archive `yaml:"archive"`
	Feeds      []Feed  `yaml:"feeds"`
}

// ChartLayout converts the layout section into chart geometry. Label
// placement is fixed.
func (c *Config) ChartLayout() chart.Layout {
	l := chart.DefaultLayout()
	l.Width = c.Layout.Width
	l.Height = c.Layout.Height
	l.Margin = chart.Margin{
		Top:    c.Layout.Margin.Top,
		Right:  c.Layout.Margin.Right,
		Bottom: c.Layout.Margin.Bottom,
		Left:   c.Layout.Margin.Left,
	}
	l.TickLength = c.Layout.TickLength
	l.MinStroke = c.Layout.MinStroke
	l.StrokeFill = c.Layout.StrokeFill
	return l
}

func (c *Config) ChartColors() interact.Colors {
	return interact.Colors{Mark: c.Colors.Mark, Highlight: c.Colors.Highlight}
}

// ValidationMode returns the configured load mode. validate has already
// rejected unknown values.
func (c *Config) ValidationMode() article.Mode {
	m, err := article.ParseMode(c.Validation)
	if err != nil {
		return article.Strict
	}
	return m
}

func (c *Config) ReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 10*time.Second)
}

func (c *Config) ImportTimeout() time.Duration {
	return parseDuration(c.Import.Timeout, 30*time.Second)
}

func (c *Config) ImportWorkers() int {
	if c.Import.Workers <= 0 {
		return 4
	}
	return c.Import.Workers
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Archive.Retention == "" {
		return 90 * 24 * time.Hour
	}
	// Support "Nd" day syntax
	if d, ok := parseDays(c.Archive.Retention); ok {
		return d
	}
	return parseDuration(c.Archive.Retention, 90*24*time.Hour)
}

func (c *Config) EnabledFeeds() []Feed {
	var out []Feed
	for _, f := range c.Feeds {
		if f.Enabled {
			out = append(out, f)
		}
	}
	return out
}

func (c *Config) FeedURLs() []string {
	var urls []string
	for _, f := range c.EnabledFeeds() {
		urls = append(urls, f.URL)
	}
	return urls
}

func parseDays(s string) (time.Duration, bool) {
	if len(s) < 2 || s[len(s)-1] != 'd' {
		return 0, false
	}
	var days int
	if _, err := fmt.Sscanf(s, "%dd", &days); err != nil || days < 0 {
		return 0, false
	}
	return time.Duration(days) * 24 * time.Hour, true
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "devtimeline", "config.yaml")
}

func ArchivePath() string {
	return filepath.Join(xdg.DataHome, "devtimeline", "archive.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (DefaultConfigPath when empty) over the
// embedded defaults. A missing file is created from the defaults.
func Load(path string) (*Config, error) {
	cfg, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: the embedded defaults are used either way
			_ = writeDefaults(path)
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	defaultFeeds := cfg.Feeds
	cfg.Feeds = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Feeds == nil {
		cfg.Feeds = defaultFeeds
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if _, err := article.ParseMode(cfg.Validation); err != nil {
		return err
	}

	l := cfg.ChartLayout()
	if l.PlotWidth() <= 0 || l.PlotHeight() <= 0 {
		return fmt.Errorf("layout: margins leave no room for the plot (%gx%g)", l.Width, l.Height)
	}
	if l.MinStroke <= 0 {
		return fmt.Errorf("layout: min_stroke must be positive, got %g", l.MinStroke)
	}
	if l.StrokeFill <= 0 || l.StrokeFill > 1 {
		return fmt.Errorf("layout: stroke_fill must be in (0, 1], got %g", l.StrokeFill)
	}
	if cfg.Colors.Mark == "" || cfg.Colors.Highlight == "" {
		return fmt.Errorf("colors: mark and highlight are required")
	}

	validTypes := map[string]bool{"rss": true, "atom": true}
	for i, f := range cfg.Feeds {
		if f.Name == "" {
			return fmt.Errorf("feed %d: name is required", i)
		}
		if f.URL == "" {
			return fmt.Errorf("feed %q: url is required", f.Name)
		}
		u, err := url.Parse(f.URL)
		if err != nil {
			return fmt.Errorf("feed %q: invalid url: %w", f.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %q: url scheme must be http or https, got %q", f.Name, u.Scheme)
		}
		if !validTypes[f.Type] {
			return fmt.Errorf("feed %q: unknown type %q (valid: rss, atom)", f.Name, f.Type)
		}
	}
	return nil
}
