// Package config loads the lead tracker settings from an optional
// leadtracker.yaml (or .toml/.json), LEADTRACKER_* environment variables and a .env file.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides, e.g.
// LEADTRACKER_IMPORT_MAX_UPLOAD_MB.
const EnvPrefix = "LEADTRACKER"

// Config holds the tunable application settings.
type Config struct {
	MaxUploadMB  int
	SheetName    string
	Context      string
	UpcomingDays int
	Aliases      map[string]string
}

type aliasEntry struct {
	Header string `mapstructure:"header"`
	Field  string `mapstructure:"field"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		MaxUploadMB:  10,
		SheetName:    "Leads",
		Context:      "all",
		UpcomingDays: 7,
		Aliases:      map[string]string{},
	}
}

// MaxUploadBytes is the upload limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// Load reads settings from dir. Missing files are not an error; defaults and
// environment variables still apply.
func Load(dir string) (Config, error) {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	def := Default()
	v := viper.New()
	v.SetConfigName("leadtracker")
	v.AddConfigPath(dir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("import.max_upload_mb", def.MaxUploadMB)
	v.SetDefault("export.sheet_name", def.SheetName)
	v.SetDefault("export.context", def.Context)
	v.SetDefault("followup.upcoming_days", def.UpcomingDays)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read leadtracker config: %w", err)
		}
		log.Printf("config: no leadtracker.{yaml,toml,json} in %s, using defaults and env vars", dir)
	} else {
		log.Printf("config: loaded %s", v.ConfigFileUsed())
	}

	cfg := Config{
		MaxUploadMB:  v.GetInt("import.max_upload_mb"),
		SheetName:    strings.TrimSpace(v.GetString("export.sheet_name")),
		Context:      strings.TrimSpace(v.GetString("export.context")),
		UpcomingDays: v.GetInt("followup.upcoming_days"),
		Aliases:      map[string]string{},
	}

	// aliases is a list of {header, field} entries; headers may contain dots.
	var aliases []aliasEntry
	if err := v.UnmarshalKey("aliases", &aliases); err != nil {
		return Config{}, fmt.Errorf("config: decode aliases: %w", err)
	}
	for _, a := range aliases {
		header, field := strings.TrimSpace(a.Header), strings.TrimSpace(a.Field)
		if header == "" || field == "" {
			return Config{}, fmt.Errorf("config: alias entries need both header and field, got %q -> %q", a.Header, a.Field)
		}
		cfg.Aliases[header] = field
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.MaxUploadMB <= 0:
		return fmt.Errorf("config: import.max_upload_mb must be positive, got %d", c.MaxUploadMB)
	case c.SheetName == "":
		return errors.New("config: export.sheet_name must not be empty")
	case c.UpcomingDays < 1:
		return fmt.Errorf("config: followup.upcoming_days must be at least 1, got %d", c.UpcomingDays)
	}
	return nil
}
