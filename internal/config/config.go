package config

import (
	"errors"
	"io/fs"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverMongo  = "mongo"
	DriverMemory = "memory" // in-process, data is lost on exit
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Mirror   MirrorConfig   `mapstructure:"mirror"`
	Recipes  RecipesConfig  `mapstructure:"recipes"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Mode    string `mapstructure:"mode"` // gin mode: debug, release, test
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

// MirrorConfig controls the local SQLite copy of tracker records.
type MirrorConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type RecipesConfig struct {
	// CacheTTL bounds how old the recipe cache may get before a read
	// triggers a refresh. Zero disables age-based refreshes.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type AuthConfig struct {
	// AdminEmails register with the admin role.
	AdminEmails []string `mapstructure:"admin_emails"`
}

// LoadConfig reads <path>/config.yaml, then environment variables, on top
// of built-in defaults. A <path>/.env file, when present, is loaded into the
// environment first. Nested keys map to variables with "." replaced by "_",
// e.g. jwt.expiration -> JWT_EXPIRATION.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()

	if err = godotenv.Load(filepath.Join(path, ".env")); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return config, err
		}
		err = nil
	} else {
		log.Println("INFO: Loaded environment from .env")
	}

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", DriverMongo)
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "recipe_planner")
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.path", "tracker_mirror.db")
	v.SetDefault("recipes.cache_ttl", "5m")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "recipe-images")
	// AutomaticEnv only sees keys viper already knows about.
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("auth.admin_emails", []string{})

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// defaults and environment only
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	switch config.Database.Driver {
	case DriverMongo, DriverMemory:
	default:
		return config, errors.New("database.driver must be \"mongo\" or \"memory\"")
	}
	return config, nil
}
