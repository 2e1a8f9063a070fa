// server/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// --- Sub-structs mirroring the YAML layout ---

type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	DBName     string `mapstructure:"dbName"`
	Collection string `mapstructure:"collection"`
}

type SeedConfig struct {
	// Source is a file path or an s3://bucket/key location of the permit CSV.
	Source string `mapstructure:"source"`
}

type S3Config struct {
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
}

type SearchConfig struct {
	CacheSize int `mapstructure:"cacheSize"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// --- Root config ---

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Seed   SeedConfig   `mapstructure:"seed"`
	S3     S3Config     `mapstructure:"s3"`
	Search SearchConfig `mapstructure:"search"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Log    LogConfig    `mapstructure:"log"`
}

// InMemory reports whether the dataset is served straight from the CSV
// without a Mongo store.
func (c Config) InMemory() bool {
	return c.Mongo.URI == ""
}

// LoadConfig reads config.yaml from path and overrides it with environment
// variables. A .env file in the working directory is loaded first if present.
// A missing config file is not an error; defaults and env are used instead.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("mongo.dbName", "foodfacilities")
	v.SetDefault("mongo.collection", "food_facilities")
	v.SetDefault("seed.source", "data/Mobile_Food_Facility_Permit.csv")
	v.SetDefault("search.cacheSize", 256)
	v.SetDefault("cors.allowedOrigins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Each key is bound explicitly, e.g. "mongo.uri" <- MONGO_URI.
	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return config, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("unmarshal config: %w", err)
	}
	return config, nil
}

var envBindings = map[string]string{
	"server.port":            "SERVER_PORT",
	"server.shutdownTimeout": "SERVER_SHUTDOWN_TIMEOUT",
	"mongo.uri":              "MONGO_URI",
	"mongo.dbName":           "MONGO_DBNAME",
	"mongo.collection":       "MONGO_COLLECTION",
	"seed.source":            "SEED_SOURCE",
	"s3.region":              "S3_REGION",
	"s3.accessKeyID":         "S3_ACCESS_KEY_ID",
	"s3.secretAccessKey":     "S3_SECRET_ACCESS_KEY",
	"search.cacheSize":       "SEARCH_CACHE_SIZE",
	"cors.allowedOrigins":    "CORS_ALLOWED_ORIGINS",
	"log.level":              "LOG_LEVEL",
	"log.format":             "LOG_FORMAT",
}
