package config

import "github.com/caarlos0/env/v11"

type StoreConfig struct {
	Backend     string `env:"SNAPSHOT_BACKEND" envDefault:"file"`
	Dir         string `env:"SNAPSHOT_DIR" envDefault:"./data"`
	PostgresDSN string `env:"POSTGRES_DSN"`
	SQLitePath  string `env:"SQLITE_PATH" envDefault:"./data/snapshots.db"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"reputation-bot:snapshot"`
}

func LoadStore() (StoreConfig, error) {
	var cfg StoreConfig
	err := env.Parse(&cfg)
	return cfg, err
}
