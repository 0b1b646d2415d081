package config

import (
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	Service     string `env:"LOG_SERVICE" envDefault:"reputation-bot"`
	// File is an explicit log path. Otherwise Dir holds <Service>.log.
	File  string `env:"LOG_FILE"`
	Dir   string `env:"LOG_DIR"`
	MaxMB int    `env:"LOG_MAX_MB" envDefault:"10"`
	Keep  int    `env:"LOG_KEEP" envDefault:"3"`
}

// FilePath returns where file logs go, or "" for stdout only.
func (c LogConfig) FilePath() string {
	if c.File != "" {
		return c.File
	}
	if c.Dir == "" {
		return ""
	}
	name := strings.TrimSpace(c.Service)
	if name == "" {
		name = "reputation-bot"
	}
	return filepath.Join(c.Dir, name+".log")
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}
