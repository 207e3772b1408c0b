package config

import (
	"fmt"
	"reflect"
	"strings"

	"area-reconciler/core/database"
	"area-reconciler/core/fsys"
	"area-reconciler/core/inventory"
	"area-reconciler/core/logger"
	"area-reconciler/core/reconcile"
	"area-reconciler/core/server"
	"area-reconciler/core/storage"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration of the server and the CLI, one section per
// core concern.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the row store.
	Database database.Config `mapstructure:"database"`
	// Files selects where area documents, extracts and cached reports live.
	Files fsys.Config `mapstructure:"files"`
	// Inventory selects where reconciliation reads OSM and reference rows from.
	Inventory inventory.Config `mapstructure:"inventory"`
	// Reconcile holds normalizer limits and the street collation locale.
	Reconcile reconcile.Config `mapstructure:"reconcile"`
}

var validate = validator.New()

// LoadConfig reads <path>/.env, then the environment, over the struct-tag
// defaults. Keys map to variables by section, e.g. files.cache_dir is
// FILES_CACHE_DIR.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// The .env file is optional.
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// bindValues registers every leaf key of iface with its `default` tag. Keys
// must be registered for AutomaticEnv to see them during Unmarshal.
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

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
