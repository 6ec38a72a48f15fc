package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/impact-yield-explorer/internal/domain"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Source datasets: local paths or http(s) URLs.
	ImpactSource   string
	YieldSource    string
	SourceTimeout  time.Duration
	ImpactColumns  domain.ImpactColumns
	YieldColumns   domain.YieldColumns
	DefaultYear    int
	ReloadInterval time.Duration

	// Mapbox country bounds configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka snapshot publishing. Disabled when KafkaBrokers is empty.
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// columnsFile is the YAML layout read from COLUMNS_FILE.
type columnsFile struct {
	Impact domain.ImpactColumns `yaml:"impact"`
	Yield  domain.YieldColumns  `yaml:"yield"`
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sourceTimeout, err := parsePositiveDuration("SOURCE_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	reloadInterval, err := time.ParseDuration(sharedcfg.EnvOrDefault("RELOAD_INTERVAL", "0s"))
	if err != nil || reloadInterval < 0 {
		return nil, errors.New("invalid RELOAD_INTERVAL")
	}

	defaultYear, err := strconv.Atoi(sharedcfg.EnvOrDefault("DEFAULT_YEAR", "1985"))
	if err != nil || !domain.ValidYear(defaultYear) {
		return nil, errors.New("invalid DEFAULT_YEAR")
	}

	impactCols, yieldCols, err := loadColumns(os.Getenv("COLUMNS_FILE"))
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ImpactSource:   sharedcfg.EnvOrDefault("IMPACT_SOURCE", "data/meteorite-landings.csv"),
		YieldSource:    sharedcfg.EnvOrDefault("YIELD_SOURCE", "data/wheat-yield.csv"),
		SourceTimeout:  sourceTimeout,
		ImpactColumns:  impactCols,
		YieldColumns:   yieldCols,
		DefaultYear:    defaultYear,
		ReloadInterval: reloadInterval,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaBrokers:       brokers,
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "impact-yield-snapshots"),
	}

	if cfg.ImpactSource == "" {
		return nil, errors.New("IMPACT_SOURCE is required")
	}
	if cfg.YieldSource == "" {
		return nil, errors.New("YIELD_SOURCE is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSnapshotTopic == "" {
		return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// KafkaEnabled reports whether snapshot publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

// loadColumns returns the default column names overlaid with any non-empty
// names from the YAML file at path. An empty path means defaults only.
func loadColumns(path string) (domain.ImpactColumns, domain.YieldColumns, error) {
	impact := domain.DefaultImpactColumns()
	yield := domain.DefaultYieldColumns()
	if path == "" {
		return impact, yield, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return impact, yield, fmt.Errorf("read COLUMNS_FILE: %w", err)
	}
	var file columnsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return impact, yield, fmt.Errorf("decode COLUMNS_FILE: %w", err)
	}

	overlay(&impact.Category, file.Impact.Category)
	overlay(&impact.Lat, file.Impact.Lat)
	overlay(&impact.Lon, file.Impact.Lon)
	overlay(&impact.Date, file.Impact.Date)
	overlay(&impact.Label, file.Impact.Label)
	overlay(&yield.Country, file.Yield.Country)
	overlay(&yield.Year, file.Yield.Year)
	overlay(&yield.Value, file.Yield.Value)
	return impact, yield, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
