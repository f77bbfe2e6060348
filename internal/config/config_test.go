package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/pflag"

	"github.com/aligator/fat16"
	"github.com/aligator/fat16/internal/fat16test"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LogLevel != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.LogLevel)
	}
	if cfg.Format != "text" {
		t.Errorf("expected format text, got %s", cfg.Format)
	}
	if cfg.MaxDepth != fat16.DefaultMaxDepth {
		t.Errorf("expected max depth %d, got %d", fat16.DefaultMaxDepth, cfg.MaxDepth)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected the defaults to be valid, got %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fat16.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    *Config
		wantErr string
	}{
		{
			name: "full file",
			content: `
log_level: debug
format: yaml
max_depth: 8
strict_end_marker: true
strict_boot_sector: true
extract:
  extensions: [".mp3", ".wav"]
  flatten: true
`,
			want: &Config{
				LogLevel:         "debug",
				Format:           "yaml",
				MaxDepth:         8,
				StrictEndMarker:  true,
				StrictBootSector: true,
				Extract: Extract{
					Extensions: []string{".mp3", ".wav"},
					Flatten:    true,
				},
			},
		},
		{
			name:    "partial file keeps the defaults",
			content: "format: json\n",
			want: &Config{
				LogLevel: "warn",
				Format:   "json",
				MaxDepth: fat16.DefaultMaxDepth,
			},
		},
		{
			name:    "invalid yaml",
			content: "format: [json\n",
			wantErr: "parse config",
		},
		{
			name:    "invalid format",
			content: "format: xml\n",
			wantErr: "unsupported format",
		},
		{
			name:    "negative depth",
			content: "max_depth: -1\n",
			wantErr: "negative",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeConfig(t, tt.content))
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Load() error = %v, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_noPath(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !os.IsNotExist(err) {
		t.Errorf("Load() error = %v, want not exist", err)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    Config
		wantErr bool
	}{
		{
			name: "nothing set keeps the file values",
			args: nil,
			want: Config{LogLevel: "info", Format: "text", MaxDepth: 3, StrictEndMarker: true},
		},
		{
			name: "flags override",
			args: []string{"--log-level=debug", "--max-depth=0", "--strict-end-marker=false", "--strict-boot-sector"},
			want: Config{LogLevel: "debug", Format: "text", MaxDepth: 0, StrictBootSector: true},
		},
		{
			name:    "invalid level",
			args:    []string{"--log-level=loud"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
			RegisterFlags(flags)
			if err := flags.Parse(tt.args); err != nil {
				t.Fatal(err)
			}

			cfg := &Config{LogLevel: "info", Format: "text", MaxDepth: 3, StrictEndMarker: true}
			err := cfg.ApplyFlags(flags)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyFlags() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, *cfg); diff != "" {
				t.Errorf("ApplyFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderOptions(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want []string
	}{
		{
			name: "defaults follow the chain after an end marker",
			cfg:  DefaultConfig(),
			want: []string{"TRACK01.MP3", "TRACK02.MP3", "LIVE"},
		},
		{
			name: "strict end marker",
			cfg:  &Config{LogLevel: "warn", Format: "text", StrictEndMarker: true},
			want: []string{"TRACK01.MP3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := fat16.New(fat16test.Sample().Reader(), tt.cfg.ReaderOptions()...)
			if err != nil {
				t.Fatalf("fat16.New() error = %v", err)
			}

			entries, err := fs.List(4)
			if err != nil {
				t.Fatalf("Fs.List() error = %v", err)
			}
			var got []string
			for _, e := range entries {
				got = append(got, e.Name)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("listing mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReaderOptions_depth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxDepth = 1

	fs, err := fat16.New(fat16test.Sample().Reader(), cfg.ReaderOptions()...)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fs.WalkAll(); err == nil {
		t.Error("expected max depth 1 to stop the walk at MUSIC/LIVE")
	}
}
