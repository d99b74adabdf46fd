package config

import (
	"github.com/spf13/viper"
)

const (
	DefaultPort         = "5000"
	DefaultMongoURI     = "mongodb://127.0.0.1:27017"
	DefaultDatabaseName = "cinema"
	DefaultBodyLimit    = 100 * 1024
)

/*
Config holds the process configuration resolved at startup.

Fields:
- Port: listening port, kept as a string and handed to the listen call as is
- MongoURI: connection string for the document database
- DatabaseName: database holding the movies collection
- BodyLimit: maximum accepted request body size in bytes
*/
type Config struct {
	Port         string
	MongoURI     string
	DatabaseName string
	BodyLimit    int64
}

// Load resolves the configuration from the environment. Empty variables
// fall back to their defaults.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("MONGODB_URI", DefaultMongoURI)
	v.SetDefault("MONGODB_DB", DefaultDatabaseName)
	v.SetDefault("BODY_LIMIT", DefaultBodyLimit)

	bodyLimit := v.GetInt64("BODY_LIMIT")
	if bodyLimit <= 0 {
		bodyLimit = DefaultBodyLimit
	}

	return Config{
		Port:         v.GetString("PORT"),
		MongoURI:     v.GetString("MONGODB_URI"),
		DatabaseName: v.GetString("MONGODB_DB"),
		BodyLimit:    bodyLimit,
	}
}
