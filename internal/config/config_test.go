package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" || cfg.API.Timeout != 10*time.Second {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Presets.Backend != BackendFile || cfg.Generate.Concurrency != 1 || cfg.Generate.Capacity != 4 {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Generate.CourseSection != "Main Course" || cfg.Log.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "teesheet.yaml")
	yaml := `api:
  base_url: http://golf.internal:9000
  timeout: 3s
presets:
  backend: redis
redis:
  addr: cache:6379
  db: 2
generate:
  concurrency: 4
  capacity: 2
timezone: UTC
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TEESHEET_GENERATE_COURSE_SECTION", "Back Nine")
	t.Setenv("TEESHEET_REDIS_DB", "3")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.API.BaseURL != "http://golf.internal:9000" || cfg.API.Timeout != 3*time.Second {
		t.Fatalf("unexpected api config %+v", cfg.API)
	}
	if cfg.Presets.Backend != BackendRedis || cfg.Redis.Addr != "cache:6379" || cfg.Redis.DB != 3 {
		t.Fatalf("unexpected store config %+v %+v", cfg.Presets, cfg.Redis)
	}
	if cfg.Generate.CourseSection != "Back Nine" || cfg.Generate.Concurrency != 4 || cfg.Generate.Capacity != 2 {
		t.Fatalf("unexpected generate config %+v", cfg.Generate)
	}
	if loc, _ := cfg.Location(); loc != time.UTC {
		t.Fatalf("location = %v", loc)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			API:      APIConfig{BaseURL: "http://localhost:8000", Timeout: time.Second},
			Presets:  PresetsConfig{Backend: BackendFile, Dir: "/tmp/presets"},
			Generate: GenerateConfig{Concurrency: 1, Capacity: 4},
			Timezone: "Local",
		}
	}

	tests := []struct {
		name string
		edit func(c *Config)
	}{
		{name: "blank url", edit: func(c *Config) { c.API.BaseURL = " " }},
		{name: "zero timeout", edit: func(c *Config) { c.API.Timeout = 0 }},
		{name: "unknown backend", edit: func(c *Config) { c.Presets.Backend = "sqlite" }},
		{name: "redis without addr", edit: func(c *Config) { c.Presets.Backend = BackendRedis }},
		{name: "too much concurrency", edit: func(c *Config) { c.Generate.Concurrency = 17 }},
		{name: "negative rate", edit: func(c *Config) { c.Generate.RatePerSecond = -1 }},
		{name: "capacity too large", edit: func(c *Config) { c.Generate.Capacity = 5 }},
		{name: "bad timezone", edit: func(c *Config) { c.Timezone = "Mars/Olympus_Mons" }},
	}

	good := base()
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.edit(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
