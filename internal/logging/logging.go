package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"reputation-bot/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	writerMu sync.RWMutex
	sink     io.Writer = os.Stdout
)

func Init(cfg config.LogConfig) {
	level := zerolog.InfoLevel
	if v := strings.TrimSpace(cfg.Level); v != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(v)); err == nil {
			level = parsed
		}
	}

	var output io.Writer = os.Stdout
	if path := cfg.FilePath(); path != "" {
		fw, err := newRotatingWriter(path, int64(cfg.MaxMB)<<20, cfg.Keep)
		if err != nil {
			log.Error().Err(err).Str("path", path).Msg("open log file failed, logging to stdout only")
		} else {
			output = io.MultiWriter(os.Stdout, fw)
		}
	}
	setWriter(output)

	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	zerolog.SetGlobalLevel(level)
	ctx := zerolog.New(output).With().Timestamp()
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	logger := ctx.Logger()
	if cfg.SampleEvery > 1 {
		logger = logger.Sample(&zerolog.BasicSampler{N: uint32(cfg.SampleEvery)})
	}
	log.Logger = logger
}

// Writer is the raw sink behind the global logger, for libraries that log
// through log/slog.
func Writer() io.Writer {
	writerMu.RLock()
	defer writerMu.RUnlock()
	return sink
}

func setWriter(w io.Writer) {
	writerMu.Lock()
	defer writerMu.Unlock()
	sink = w
}
