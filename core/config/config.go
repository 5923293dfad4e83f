package config

import (
	"reflect"
	"strings"
	"time"

	"sheet-diff/core/database"
	"sheet-diff/core/diff"
	"sheet-diff/core/logger"
	"sheet-diff/core/server"
	"sheet-diff/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage holding snapshots.
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the optional table source connection.
	Database database.Config `mapstructure:"database"`
	// Compare holds comparison defaults.
	Compare CompareConfig `mapstructure:"compare"`
}

// CompareConfig holds the default comparison options and snapshot settings.
// Command flags and request fields override the option defaults.
type CompareConfig struct {
	IgnoreCase         bool `mapstructure:"ignore_case" default:"false"`
	IgnoreWhitespace   bool `mapstructure:"ignore_whitespace" default:"false"`
	TreatReorderAsSame bool `mapstructure:"reorder_as_same" default:"true"`
	TypeAware          bool `mapstructure:"type_aware" default:"false"`
	StrictKeys         bool `mapstructure:"strict_keys" default:"false"`
	// ShowMoved lists moved rows separately in reports and exports.
	ShowMoved bool `mapstructure:"show_moved" default:"false"`
	// SnapshotPrefix is the object prefix snapshots are stored under.
	SnapshotPrefix string `mapstructure:"snapshot_prefix" default:"snapshots"`
	// CacheTTLSeconds is how long loaded snapshots are cached. Zero disables caching.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds" default:"300"`
}

// Options returns the configured default comparison options.
func (c CompareConfig) Options() diff.Options {
	return diff.Options{
		IgnoreCase:         c.IgnoreCase,
		IgnoreWhitespace:   c.IgnoreWhitespace,
		TreatReorderAsSame: c.TreatReorderAsSame,
		TypeAware:          c.TypeAware,
		StrictKeys:         c.StrictKeys,
	}
}

// CacheTTL returns the snapshot cache TTL.
func (c CompareConfig) CacheTTL() time.Duration {
	if c.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. COMPARE_TYPE_AWARE -> compare.type_aware)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
