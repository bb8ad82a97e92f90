package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batparse.yaml")
	content := `
format: cbor
color: never
output: tree.bin
warnings: true
watch:
  debounce: 250ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, &Config{
		Format:   FormatCBOR,
		Color:    ColorNever,
		Output:   "tree.bin",
		Warnings: true,
		Watch:    WatchConfig{Debounce: 250 * time.Millisecond},
	}, cfg)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("warnings: true\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	want := DefaultConfig()
	want.Warnings = true
	assert.Equal(t, want, cfg)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, ColorAuto, cfg.Color)
	assert.Equal(t, 100*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorContains(t, err, "failed to read configuration file")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateReportsAllProblems(t *testing.T) {
	err := Validate(&Config{Format: "xml", Color: "rainbow", Watch: WatchConfig{Debounce: -time.Second}})
	require.Error(t, err)

	assert.Contains(t, err.Error(), `format: must be one of text, json, cbor (got "xml")`)
	assert.Contains(t, err.Error(), `color: must be one of auto, always, never (got "rainbow")`)
	assert.Contains(t, err.Error(), "watch.debounce: must not be negative")
}

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    func(*Config)
		wantErr string
	}{
		{
			name: "no environment",
			want: func(*Config) {},
		},
		{
			name: "format and color",
			env:  map[string]string{"BATPARSE_FORMAT": "json", "BATPARSE_COLOR": "always"},
			want: func(c *Config) { c.Format = FormatJSON; c.Color = ColorAlways },
		},
		{
			name: "NO_COLOR wins over BATPARSE_COLOR",
			env:  map[string]string{"BATPARSE_COLOR": "always", "NO_COLOR": "1"},
			want: func(c *Config) { c.Color = ColorNever },
		},
		{
			name: "warnings",
			env:  map[string]string{"BATPARSE_WARNINGS": "1"},
			want: func(c *Config) { c.Warnings = true },
		},
		{
			name:    "unparsable warnings reported",
			env:     map[string]string{"BATPARSE_WARNINGS": "maybe"},
			want:    func(*Config) {},
			wantErr: `BATPARSE_WARNINGS: must be a boolean (got "maybe")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			err := applyEnvOverrides(cfg, func(k string) string { return tt.env[k] })
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			want := DefaultConfig()
			tt.want(want)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestResolveConfigExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("format: json\n"), 0o644))

	cfg, err := resolveConfig(path, func(k string) string {
		if k == "BATPARSE_FORMAT" {
			return "cbor"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, FormatCBOR, cfg.Format, "environment overrides the file")
}
