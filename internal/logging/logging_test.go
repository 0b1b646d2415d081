package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reputation-bot/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInitWritesToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	Init(config.LogConfig{Level: "debug", File: path, MaxMB: 1, Service: "test-bot"})
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	log.Info().Str("seller", "@Vendor1").Msg("vote accepted")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(b)
	if !strings.Contains(line, `"service":"test-bot"`) {
		t.Fatalf("log line missing service field: %s", line)
	}
	if !strings.Contains(line, `"seller":"@Vendor1"`) {
		t.Fatalf("log line missing seller field: %s", line)
	}
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	Init(config.LogConfig{Level: "chatty"})
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("GlobalLevel() = %v, want info", got)
	}
	if Writer() == nil {
		t.Fatal("Writer() = nil")
	}
}

func TestInitNamesFileAfterService(t *testing.T) {
	dir := t.TempDir()
	Init(config.LogConfig{Level: "info", Dir: dir, Service: "vendor-bot", MaxMB: 1, Keep: 1})
	t.Cleanup(func() { Init(config.LogConfig{Level: "info"}) })

	log.Info().Int64("user_id", 42).Msg("message counted")

	line := string(mustRead(t, filepath.Join(dir, "vendor-bot.log")))
	if !strings.Contains(line, `"service":"vendor-bot"`) || !strings.Contains(line, `"user_id":42`) {
		t.Fatalf("log line = %s", line)
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return b
}
