package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	Token       string `env:"TELEGRAM_TOKEN,required,notEmpty"`
	AdminChatID string `env:"ADMIN_CHAT_ID,required,notEmpty"`
	GroupChatID string `env:"GROUP_CHAT_ID,required,notEmpty"`
	Timezone    string `env:"TIMEZONE" envDefault:"Europe/Vilnius"`
	Debug       bool   `env:"BOT_DEBUG" envDefault:"false"`

	SendRatePerSec float64 `env:"SEND_RATE_PER_SEC" envDefault:"20"`
	DefaultPrompt  string  `env:"DEFAULT_PROMPT" envDefault:"Pick the seller you want to vote for:"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}

// Location resolves Timezone; all calendar-day bookkeeping uses it.
func (c BotConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// AdminID is the moderator's Telegram user id.
func (c BotConfig) AdminID() (int64, error) {
	return parseChatID("ADMIN_CHAT_ID", c.AdminChatID)
}

// GroupID is the only group chat the bot serves.
func (c BotConfig) GroupID() (int64, error) {
	return parseChatID("GROUP_CHAT_ID", c.GroupChatID)
}

func parseChatID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", name, raw, err)
	}
	return id, nil
}
