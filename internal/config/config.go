package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// upload service
	HTTPAddr    string   `yaml:"http_addr"`
	DBDriver    string   `yaml:"db_driver"` // sqlite|postgres
	DBDSN       string   `yaml:"db_dsn"`
	CORSOrigins []string `yaml:"cors_origins"`
	SiteID      string   `yaml:"site_id"`

	// authoring client
	ServerURL string `yaml:"server_url"`
	DraftDir  string `yaml:"draft_dir"` // empty, including DRAFT_DIR="", keeps the draft in memory only
	DraftKey  string `yaml:"draft_key"`
}

// Defaults are used for anything neither the config file nor the
// environment sets.
func Defaults() Config {
	return Config{
		HTTPAddr:    ":3000",
		DBDriver:    "sqlite",
		CORSOrigins: []string{"*"},
		SiteID:      "local",
		ServerURL:   "http://localhost:3000",
		DraftDir:    "./data",
		DraftKey:    "mockTestData",
	}
}

// Load reads an optional .env file, then the YAML file named by CONFIG_FILE
// (if any), then applies environment overrides.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	base := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		fc, err := FromFile(path, base)
		if err != nil {
			return Config{}, err
		}
		base = fc
	}
	return FromEnv(base), nil
}

// FromFile overlays the YAML file at path onto base.
func FromFile(path string, base Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	cfg := base
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromEnv overlays environment variables onto base.
func FromEnv(base Config) Config {
	return Config{
		HTTPAddr:    envOr("HTTP_ADDR", base.HTTPAddr),
		DBDriver:    envOr("DB_DRIVER", base.DBDriver),
		DBDSN:       envOr("DB_DSN", base.DBDSN),
		CORSOrigins: csvOr("CORS_ORIGINS", base.CORSOrigins),
		SiteID:      envOr("SITE_ID", base.SiteID),
		ServerURL:   envOr("SERVER_URL", base.ServerURL),
		DraftDir:    envSetOr("DRAFT_DIR", base.DraftDir),
		DraftKey:    envOr("DRAFT_KEY", base.DraftKey),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

// envSetOr is envOr for keys where an explicit empty value means something.
func envSetOr(k, def string) string {
	if v, ok := os.LookupEnv(k); ok {
		return v
	}
	return def
}

func csvOr(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
