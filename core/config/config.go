package config

import (
	"errors"
	"reflect"
	"strings"

	"loan-sync/core/database"
	"loan-sync/core/logger"
	"loan-sync/core/server"
	"loan-sync/core/storage"
	"loan-sync/feature/loans/account"
	"loan-sync/feature/loans/api"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the snapshot archive (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the registry database.
	Database database.Config `mapstructure:"database"`
	// Library holds the library API endpoint settings.
	Library api.Config `mapstructure:"library"`
	// Account is a single account configured through the environment.
	Account account.Config `mapstructure:"account"`
	// AccountList holds accounts listed in config.yaml.
	AccountList []account.Config `mapstructure:"accounts"`
}

// Accounts returns the environment account, when set, followed by the
// accounts from the config file.
func (c *Config) Accounts() []account.Config {
	out := make([]account.Config, 0, len(c.AccountList)+1)
	if c.Account.IsSet() {
		out = append(out, c.Account)
	}
	return append(out, c.AccountList...)
}

// LoadConfig loads configuration from config.yaml, environment variables
// and the .env file in path.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	// Map environment variables to nested keys (e.g. SERVER_PORT -> server.port)
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

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		case reflect.Slice:
			// Lists of sections only come from the config file.
			if field.Type.Elem().Kind() == reflect.Struct {
				continue
			}
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
