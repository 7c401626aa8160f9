package main

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"git.sr.ht/~whereswaldon/livechart/backend"
)

func parseFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("livechart", pflag.ContinueOnError)
	bindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("failed parsing %v: %v", args, err)
	}
	return fs
}

func TestLoadConfigDefaults(t *testing.T) {
	fs := parseFlags(t, "data.csv")
	cfg, err := loadConfig(fs, fs.Args())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(cfg.Files, []string{"data.csv"}) {
		t.Errorf("expected files [data.csv], got %v", cfg.Files)
	}
	chart := cfg.Chart()
	if chart.XField != nil {
		t.Errorf("expected no x field, got %d", *chart.XField)
	}
	if !slices.Equal(chart.YFields, []int{1}) {
		t.Errorf("expected y fields [1], got %v", chart.YFields)
	}
	if chart.Separator != "," {
		t.Errorf("expected separator \",\", got %q", chart.Separator)
	}
	if chart.MovingWindow != 0 {
		t.Errorf("expected no moving window, got %d", chart.MovingWindow)
	}
	if cfg.Width != 800 || cfg.Height != 700 {
		t.Errorf("expected 800x700, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	fs := parseFlags(t, "-t", "load", "-x", "0", "-y", "2", "-y", "3", `-s`, `\t`, "-a", "5", "--poll-interval", "250ms", "a.tsv", "b.tsv")
	cfg, err := loadConfig(fs, fs.Args())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	chart := cfg.Chart()
	if chart.Title != "load" {
		t.Errorf("expected title load, got %q", chart.Title)
	}
	if chart.XField == nil || *chart.XField != 0 {
		t.Errorf("expected x field 0, got %v", chart.XField)
	}
	if !slices.Equal(chart.YFields, []int{2, 3}) {
		t.Errorf("expected y fields [2 3], got %v", chart.YFields)
	}
	if chart.Separator != "\t" {
		t.Errorf("expected tab separator, got %q", chart.Separator)
	}
	if chart.MovingWindow != 5 {
		t.Errorf("expected moving window 5, got %d", chart.MovingWindow)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Errorf("expected poll interval 250ms, got %v", cfg.PollInterval)
	}
	if !slices.Equal(cfg.Files, []string{"a.tsv", "b.tsv"}) {
		t.Errorf("expected two files, got %v", cfg.Files)
	}
}

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "livechart.yaml")
	yaml := "title: from-file\nseparator: \";\"\ny_fields: [4, 5]\naverage: 2\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LIVECHART_TITLE", "from-env")
	t.Setenv("LIVECHART_Y_FIELDS", "6,7")

	fs := parseFlags(t, "--config", path, "-a", "3", "data.csv")
	cfg, err := loadConfig(fs, fs.Args())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Separator != ";" {
		t.Errorf("expected separator from file, got %q", cfg.Separator)
	}
	if cfg.Title != "from-env" {
		t.Errorf("expected environment to override file, got %q", cfg.Title)
	}
	if !slices.Equal(cfg.YFields, []int{6, 7}) {
		t.Errorf("expected y fields [6 7] from environment, got %v", cfg.YFields)
	}
	if cfg.Average != 3 {
		t.Errorf("expected flag to override file, got %d", cfg.Average)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		is   error
	}{
		{name: "no files", args: nil, is: backend.ErrNoSources},
		{name: "negative window", args: []string{"-a", "-1", "data.csv"}},
		{name: "negative y", args: []string{"-y", "-2", "data.csv"}},
		{name: "bad log format", args: []string{"--log-format", "xml", "data.csv"}},
		{name: "missing config file", args: []string{"--config", "/nonexistent/livechart.yaml", "data.csv"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fs := parseFlags(t, tc.args...)
			_, err := loadConfig(fs, fs.Args())
			if err == nil {
				t.Fatalf("expected an error")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("expected %v, got %v", tc.is, err)
			}
		})
	}
}

func TestSeparator(t *testing.T) {
	tests := map[string]string{
		`\t`:  "\t",
		"tab": "\t",
		",":   ",",
		";":   ";",
	}
	for in, expected := range tests {
		if got := separator(in); got != expected {
			t.Errorf("separator(%q): expected %q, got %q", in, expected, got)
		}
	}
}
