package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds the settings shared by both commands, populated from
// environment variables.
type Config struct {
	LogLevel    string
	LogFormat   string
	HTTPTimeout time.Duration

	// Bounds metrics export and sink flushing after the run.
	ShutdownTimeout time.Duration

	// Output artifacts.
	OutputDir  string
	OpenOutput bool

	// Optional Kafka sink; disabled when KafkaBrokers is empty.
	KafkaBrokers []string
	KafkaTopic   string

	// Optional run metrics export.
	PushgatewayURL  string
	MetricsTextfile string
}

// CensusConfig configures the census command.
type CensusConfig struct {
	Config

	CensusAPIKey  string
	CensusAPIURL  string
	RegionMapFile string
}

// OverpassConfig configures the amenities command.
type OverpassConfig struct {
	Config

	OverpassURL          string
	City                 string
	OverpassQueryTimeout int

	// The map is always centered here, regardless of City.
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
}

// LoadCensus reads the census command configuration.
func LoadCensus() (*CensusConfig, error) {
	base, err := load("census-states")
	if err != nil {
		return nil, err
	}

	cfg := &CensusConfig{
		Config:        *base,
		CensusAPIKey:  os.Getenv("CENSUS_API_KEY"),
		CensusAPIURL:  sharedcfg.EnvOrDefault("CENSUS_API_URL", "https://api.census.gov/data/2021/acs/acs5"),
		RegionMapFile: os.Getenv("REGION_MAP_FILE"),
	}

	if cfg.CensusAPIKey == "" {
		return nil, errors.New("CENSUS_API_KEY is required")
	}
	if cfg.CensusAPIURL == "" {
		return nil, errors.New("CENSUS_API_URL is required")
	}
	return cfg, nil
}

// LoadOverpass reads the amenities command configuration.
func LoadOverpass() (*OverpassConfig, error) {
	base, err := load("osm-amenities")
	if err != nil {
		return nil, err
	}

	queryTimeout, err := parsePositiveInt("OVERPASS_QUERY_TIMEOUT", 25)
	if err != nil {
		return nil, err
	}
	zoom, err := parsePositiveInt("MAP_ZOOM", 13)
	if err != nil {
		return nil, err
	}
	lat, err := parseFloat("MAP_CENTER_LAT", 41.7637, 90)
	if err != nil {
		return nil, err
	}
	lon, err := parseFloat("MAP_CENTER_LON", -72.6851, 180)
	if err != nil {
		return nil, err
	}

	cfg := &OverpassConfig{
		Config:               *base,
		OverpassURL:          sharedcfg.EnvOrDefault("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
		City:                 strings.TrimSpace(sharedcfg.EnvOrDefault("OVERPASS_CITY", "Hartford")),
		OverpassQueryTimeout: queryTimeout,
		MapCenterLat:         lat,
		MapCenterLon:         lon,
		MapZoom:              zoom,
	}

	if cfg.City == "" {
		return nil, errors.New("OVERPASS_CITY is required")
	}
	if strings.ContainsAny(cfg.City, `/\`) {
		return nil, errors.New("OVERPASS_CITY must not contain path separators")
	}
	return cfg, nil
}

func load(defaultTopic string) (*Config, error) {
	timeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("HTTP_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	openOutput := true
	if v := os.Getenv("OPEN_OUTPUT"); v != "" {
		openOutput, err = strconv.ParseBool(v)
		if err != nil {
			return nil, errors.New("invalid OPEN_OUTPUT")
		}
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		HTTPTimeout:     timeout,
		ShutdownTimeout: shutdownTimeout,
		OutputDir:       sharedcfg.EnvOrDefault("OUTPUT_DIR", "."),
		OpenOutput:      openOutput,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_TOPIC", defaultTopic),
		PushgatewayURL:  os.Getenv("PUSHGATEWAY_URL"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	if cfg.KafkaEnabled() && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return cfg, nil
}

// KafkaEnabled reports whether records should be published to Kafka.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseFloat(key string, def, limit float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < -limit || f > limit {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}
