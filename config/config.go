package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Pinecone     Pinecone
	GeminiApiKey string
	// Storage selects the persistence backend: "postgres" or "memory".
	// The memory backend also switches the vector retriever to its in-memory
	// implementation so the whole stack can run without external services.
	Storage string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Pinecone struct {
	ApiKey    string
	IndexName string
	IndexHost string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("STORAGE_BACKEND", "postgres")

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	config.Pinecone.ApiKey = viper.GetString("PINECONE_API_KEY")
	config.Pinecone.IndexName = viper.GetString("PINECONE_INDEX_NAME")
	config.Pinecone.IndexHost = viper.GetString("PINECONE_INDEX_HOST")

	config.Storage = viper.GetString("STORAGE_BACKEND")

	log.Info().Str("port", config.Server.Port).Str("storage", config.Storage).Msg("Config loaded")
	return &config, nil
}
