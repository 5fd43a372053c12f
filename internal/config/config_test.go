package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/thoreinstein/ueb/internal/backup"
	"github.com/thoreinstein/ueb/internal/errors"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInit(t *testing.T) {
	v := viper.New()
	Init(v, t.TempDir())

	if v.GetInt(KeyVersion) != 1 {
		t.Errorf("expected version default 1, got %d", v.GetInt(KeyVersion))
	}
	if v.GetString(KeyIgnoreFile) != ".backupignore" {
		t.Errorf("ignore_file default = %q, want .backupignore", v.GetString(KeyIgnoreFile))
	}
	if v.GetDuration(KeyMtimeTolerance) != time.Second {
		t.Errorf("mtime_tolerance default = %v, want 1s", v.GetDuration(KeyMtimeTolerance))
	}
}

func TestLoadFrom_NoConfigFile(t *testing.T) {
	v := viper.New()
	Init(v, t.TempDir())

	cfg, err := LoadFrom(v, "")
	if err != nil {
		t.Fatalf("LoadFrom() with no config file should not error: %v", err)
	}
	if cfg.Version != 1 || cfg.IncludeSaved || cfg.SizeSummary {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if Used(v) != "" {
		t.Errorf("Used() = %q, want empty", Used(v))
	}
}

func TestLoadFrom_SearchPath(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "include_saved: true\nexcludes:\n  - \"*.psd\"\n  - /Content/Movies/\nmtime_tolerance: 2s\n")

	v := viper.New()
	Init(v, dir)

	cfg, err := LoadFrom(v, "")
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if !cfg.IncludeSaved {
		t.Error("include_saved not read")
	}
	if len(cfg.Excludes) != 2 || cfg.Excludes[1] != "/Content/Movies/" {
		t.Errorf("excludes = %v", cfg.Excludes)
	}
	if cfg.MtimeTolerance != 2*time.Second {
		t.Errorf("mtime_tolerance = %v, want 2s", cfg.MtimeTolerance)
	}
	if Used(v) != path {
		t.Errorf("Used() = %q, want %q", Used(v), path)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "size_summary: true\nignore_file: .uebignore\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.SizeSummary {
		t.Error("size_summary not read")
	}
	if cfg.IgnoreFile != ".uebignore" {
		t.Errorf("ignore_file = %q", cfg.IgnoreFile)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("UEB_INCLUDE_BUILD", "true")
	path := writeConfig(t, t.TempDir(), "version: 1\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.IncludeBuild {
		t.Error("UEB_INCLUDE_BUILD did not override the config")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() with non-existent explicit path should error")
	}
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version too low", "version: 0\n"},
		{"negative tolerance", "mtime_tolerance: -1s\n"},
		{"bad pattern", "excludes:\n  - \"[\"\n"},
		{"ignore file with separator", "ignore_file: sub/.backupignore\n"},
		{"malformed yaml", "excludes: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)

			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if !errors.Is(err, errors.ErrInvalidConfig) {
				t.Errorf("Load() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	if errs := Validate(Default()); len(errs) != 0 {
		t.Errorf("Validate(Default()) = %v, want none", errs)
	}
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}

	cfg := Default()
	cfg.Excludes = []string{"*.psd", "["}
	errs := Validate(cfg)
	if len(errs) != 1 {
		t.Fatalf("Validate() = %v, want one error", errs)
	}
	var fe *FieldError
	if !errors.As(errs[0], &fe) {
		t.Fatalf("error %T is not a FieldError", errs[0])
	}
	if fe.Field != "excludes" || fe.Index != 2 {
		t.Errorf("FieldError = %+v, want excludes[2]", fe)
	}
}

func TestConfig_Apply(t *testing.T) {
	cfg := Default()
	cfg.IncludeSaved = true
	cfg.SizeSummary = true
	cfg.Excludes = []string{"*.psd"}

	opts := backup.Options{Excludes: []string{"*.tmp"}}
	cfg.Apply(&opts)

	if !opts.Rules.IncludeSaved || opts.Rules.IncludeBuild {
		t.Errorf("rule options = %+v", opts.Rules)
	}
	if !opts.SizeSummary {
		t.Error("size summary not applied")
	}
	if len(opts.Excludes) != 2 {
		t.Errorf("excludes = %v, want config patterns appended", opts.Excludes)
	}
	if opts.Tolerance != time.Second {
		t.Errorf("tolerance = %v", opts.Tolerance)
	}
}
