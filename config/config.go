package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// HistoryDisabled como history_dsn desactiva el histórico de fetches.
const HistoryDisabled = "none"

// Config es la configuración completa de fetch + build.
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Build   BuildConfig   `yaml:"build"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

// FetchConfig controla la ingesta desde DefiLlama.
type FetchConfig struct {
	APIURL         string `yaml:"api_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	TopN           int    `yaml:"top_n"` // filas en consola y pools por run en el histórico

	// Umbrales como punteros: nil = default, 0 es un valor válido.
	MinTVLUsd *float64 `yaml:"min_tvl_usd"`
	MaxAPY    *float64 `yaml:"max_apy"` // por encima se considera spam o error de datos
}

// BuildConfig controla la generación del sitio.
type BuildConfig struct {
	BaseURL     string `yaml:"base_url"`
	TemplateDir string `yaml:"template_dir"` // vacío = templates embebidos
	OutputDir   string `yaml:"output_dir"`
	RecentStart int    `yaml:"recent_start"`
	RecentEnd   int    `yaml:"recent_end"`
	Neighbors   int    `yaml:"neighbors"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DataFile     string `yaml:"data_file"`
	ReferralFile string `yaml:"referral_file"`
	HistoryDSN   string `yaml:"history_dsn"` // archivo SQLite, ":memory:" o "none"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// envOverrides son las variables de entorno que pisan el YAML. Vacías se ignoran.
type envOverrides struct {
	APIURL       string `env:"YIELDSITE_API_URL"`
	BaseURL      string `env:"YIELDSITE_BASE_URL"`
	OutputDir    string `env:"YIELDSITE_OUTPUT_DIR"`
	DataFile     string `env:"YIELDSITE_DATA_FILE"`
	ReferralFile string `env:"YIELDSITE_REFERRAL_FILE"`
	HistoryDSN   string `env:"YIELDSITE_HISTORY_DSN"`
	LogLevel     string `env:"LOG_LEVEL"`
	LogFormat    string `env:"LOG_FORMAT"`
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Si el YAML no existe se usan solo defaults + entorno, así los binarios corren sin argumentos.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Timeout devuelve el timeout del request a la API como time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// HistoryEnabled indica si hay que abrir el histórico SQLite.
func (c *Config) HistoryEnabled() bool {
	return c.Storage.HistoryDSN != HistoryDisabled
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.Fetch.APIURL, ov.APIURL)
	set(&cfg.Build.BaseURL, ov.BaseURL)
	set(&cfg.Build.OutputDir, ov.OutputDir)
	set(&cfg.Storage.DataFile, ov.DataFile)
	set(&cfg.Storage.ReferralFile, ov.ReferralFile)
	set(&cfg.Storage.HistoryDSN, ov.HistoryDSN)
	set(&cfg.Log.Level, ov.LogLevel)
	set(&cfg.Log.Format, ov.LogFormat)
	return nil
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Fetch.APIURL == "" {
		cfg.Fetch.APIURL = "https://yields.llama.fi/pools"
	}
	if cfg.Fetch.TimeoutSeconds <= 0 {
		cfg.Fetch.TimeoutSeconds = 30
	}
	if cfg.Fetch.MinTVLUsd == nil {
		cfg.Fetch.MinTVLUsd = ptr(1_000_000.0)
	}
	if cfg.Fetch.MaxAPY == nil {
		cfg.Fetch.MaxAPY = ptr(1_000.0)
	}
	if cfg.Fetch.TopN <= 0 {
		cfg.Fetch.TopN = 10
	}
	if cfg.Build.BaseURL == "" {
		cfg.Build.BaseURL = "https://defi-yields.example.com"
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = "output"
	}
	// recent_start 0 es válido; solo se completa la ventana si falta entera
	if cfg.Build.RecentStart == 0 && cfg.Build.RecentEnd == 0 {
		cfg.Build.RecentStart = 20
		cfg.Build.RecentEnd = 70
	}
	if cfg.Build.Neighbors <= 0 {
		cfg.Build.Neighbors = 5
	}
	if cfg.Storage.DataFile == "" {
		cfg.Storage.DataFile = "data/yields.json"
	}
	if cfg.Storage.ReferralFile == "" {
		cfg.Storage.ReferralFile = "data/referrals.json"
	}
	if cfg.Storage.HistoryDSN == "" {
		cfg.Storage.HistoryDSN = "data/history.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

func ptr[T any](v T) *T { return &v }
