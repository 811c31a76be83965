// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs" mapstructure:"inputs"`
	Outputs  OutputsConfig  `yaml:"outputs" mapstructure:"outputs"`
	Geocode  GeocodeConfig  `yaml:"geocode" mapstructure:"geocode"`
	Cache    CacheConfig    `yaml:"cache" mapstructure:"cache"`
	Validate ValidateConfig `yaml:"validate" mapstructure:"validate"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// InputsConfig names the input datasets.
type InputsConfig struct {
	Contacts   string `yaml:"contacts" mapstructure:"contacts"`
	Facilities string `yaml:"facilities" mapstructure:"facilities"`
	CoordTable string `yaml:"coord_table" mapstructure:"coord_table"`
	AreaCodes  string `yaml:"area_codes" mapstructure:"area_codes"`
}

// OutputsConfig names the output artifacts.
type OutputsConfig struct {
	GeoJSON         string `yaml:"geojson" mapstructure:"geojson"`
	ResolvedAudit   string `yaml:"resolved_audit" mapstructure:"resolved_audit"`
	UnresolvedAudit string `yaml:"unresolved_audit" mapstructure:"unresolved_audit"`
	Report          string `yaml:"report" mapstructure:"report"`
}

// GeocodeConfig configures the remote geocoding client.
type GeocodeConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	Token       string `yaml:"token" mapstructure:"token"`
	TokenDir    string `yaml:"token_dir" mapstructure:"token_dir"`
	RateDelayMS int    `yaml:"rate_delay_ms" mapstructure:"rate_delay_ms"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ResultLimit int    `yaml:"result_limit" mapstructure:"result_limit"`
	Country     string `yaml:"country" mapstructure:"country"`
}

// CacheConfig configures geocode cache persistence.
type CacheConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	ImportJSON  string `yaml:"import_json" mapstructure:"import_json"`
}

// ValidateConfig configures the coordinate sanity band.
type ValidateConfig struct {
	ConusBand bool `yaml:"conus_band" mapstructure:"conus_band"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from config.yaml and AGROUTE_* environment
// variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AGROUTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("inputs.contacts", "data/kingpins.xlsx")
	v.SetDefault("inputs.facilities", "data/retailers.geojson")
	v.SetDefault("outputs.geojson", "public/data/kingpins.geojson")
	v.SetDefault("outputs.resolved_audit", "data/kingpins_resolved.xlsx")
	v.SetDefault("outputs.unresolved_audit", "data/kingpins_unresolved.xlsx")
	v.SetDefault("outputs.report", "data/run_report.yaml")
	v.SetDefault("geocode.enabled", false)
	v.SetDefault("geocode.token_dir", "data")
	v.SetDefault("geocode.rate_delay_ms", 250)
	v.SetDefault("geocode.timeout_secs", 20)
	v.SetDefault("geocode.result_limit", 1)
	v.SetDefault("geocode.country", "US")
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "data/geocode_cache.db")
	v.SetDefault("validate.conus_band", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
