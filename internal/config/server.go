package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string   `env:"ADMIN_API_KEY"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
	SeedSellers []string `env:"SEED_SELLERS" envSeparator:","`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
