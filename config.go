package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"git.sr.ht/~whereswaldon/livechart/backend"
)

// EnvPrefix namespaces the environment variables read by the viewer.
const EnvPrefix = "LIVECHART_"

// Config is the full viewer configuration. Sources are the positional
// arguments; everything else may also come from a YAML file or the environment.
type Config struct {
	Title        string        `koanf:"title"`
	XField       int           `koanf:"x_field" validate:"min=-1"`
	YFields      []int         `koanf:"y_fields" validate:"required,min=1,dive,min=0"`
	Separator    string        `koanf:"separator" validate:"required"`
	Average      int           `koanf:"average" validate:"min=0"`
	Width        int           `koanf:"width" validate:"min=1"`
	Height       int           `koanf:"height" validate:"min=1"`
	PollInterval time.Duration `koanf:"poll_interval" validate:"min=0"`
	LogLevel     string        `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	LogFormat    string        `koanf:"log_format" validate:"oneof=json console"`
	MetricsAddr  string        `koanf:"metrics_addr"`
	Files        []string      `koanf:"files"`
}

func defaultConfig() Config {
	return Config{
		XField:       -1,
		YFields:      []int{1},
		Separator:    ",",
		Width:        800,
		Height:       700,
		PollInterval: backend.DefaultPollInterval,
		LogLevel:     "info",
		LogFormat:    "console",
	}
}

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"title":         "title",
	"x":             "x_field",
	"y":             "y_fields",
	"separator":     "separator",
	"average":       "average",
	"width":         "width",
	"height":        "height",
	"poll-interval": "poll_interval",
	"log-level":     "log_level",
	"log-format":    "log_format",
	"metrics-addr":  "metrics_addr",
}

// sliceKeys are parsed from comma separated strings when they come from the
// environment.
var sliceKeys = []string{"y_fields", "files"}

func bindFlags(fs *pflag.FlagSet) {
	def := defaultConfig()
	fs.StringP("title", "t", def.Title, "chart title drawn in the top right corner")
	fs.IntP("x", "x", def.XField, "field used as the x value (-1 plots against the line number)")
	fs.IntSliceP("y", "y", def.YFields, "field plotted as a line (repeatable)")
	fs.StringP("separator", "s", def.Separator, `field separator ("\t" for tab)`)
	fs.IntP("average", "a", def.Average, "sum each line over a moving window of this many records (0 disables)")
	fs.Int("width", def.Width, "initial window width")
	fs.Int("height", def.Height, "initial window height")
	fs.Duration("poll-interval", def.PollInterval, "how often sources are checked when no change is reported")
	fs.String("log-level", def.LogLevel, "log level (trace, debug, info, warn, error)")
	fs.String("log-format", def.LogFormat, "log format (json or console)")
	fs.String("metrics-addr", def.MetricsAddr, "serve prometheus metrics on this address when set")
	fs.String("config", "", "optional YAML configuration file")
}

// loadConfig layers defaults, the optional config file, the environment and
// explicitly set flags, in increasing priority.
func loadConfig(fs *pflag.FlagSet, args []string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}
	if path, _ := fs.GetString("config"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	envProvider := env.Provider(EnvPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("failed to load environment variables: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return Config{}, err
	}
	var setErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || setErr != nil {
			return
		}
		var value any = f.Value.String()
		if f.Value.Type() == "intSlice" {
			value, _ = fs.GetIntSlice(f.Name)
		}
		setErr = k.Set(key, value)
	})
	if setErr != nil {
		return Config{}, fmt.Errorf("failed to apply flags: %w", setErr)
	}
	if len(args) > 0 {
		if err := k.Set("files", args); err != nil {
			return Config{}, fmt.Errorf("failed to set files: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceKeys {
		str, ok := k.Get(path).(string)
		if !ok || str == "" {
			continue
		}
		parts := strings.Split(str, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks c, including the chart settings derived from it.
func (c Config) Validate() error {
	if len(c.Files) == 0 {
		return backend.ErrNoSources
	}
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid configuration: %s failed %q", verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, path := range c.Files {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("invalid configuration: empty file name")
		}
	}
	return c.Chart().Validate()
}

// Chart returns the part of c consumed by the chart pipeline.
func (c Config) Chart() backend.ChartConfig {
	chart := backend.ChartConfig{
		YFields:      c.YFields,
		Separator:    separator(c.Separator),
		MovingWindow: c.Average,
		Title:        c.Title,
	}
	if c.XField >= 0 {
		x := c.XField
		chart.XField = &x
	}
	return chart
}

// separator turns the escaped forms a shell user is likely to type into the
// actual character.
func separator(s string) string {
	switch s {
	case `\t`, "tab":
		return "\t"
	}
	return s
}

func sourceOptions(cfg Config, monitor *backend.Monitor) []backend.FileSourceOption {
	opts := []backend.FileSourceOption{backend.WithMonitor(monitor)}
	if cfg.PollInterval > 0 {
		opts = append(opts, backend.WithPollInterval(cfg.PollInterval))
	}
	return opts
}
