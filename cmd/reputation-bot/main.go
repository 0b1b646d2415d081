package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reputation-bot/internal/config"
	"reputation-bot/internal/engine"
	"reputation-bot/internal/feed"
	"reputation-bot/internal/logging"
	"reputation-bot/internal/metrics"
	"reputation-bot/internal/notify"
	"reputation-bot/internal/schedule"
	"reputation-bot/internal/store"
	httptransport "reputation-bot/internal/transport/http"
	"reputation-bot/internal/transport/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jonboulle/clockwork"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	envErr := godotenv.Load()
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)
	if envErr != nil {
		log.Debug().Msg(".env file not found, using process environment")
	}

	loc, err := cfg.Bot.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid timezone")
	}
	adminID, err := cfg.Bot.AdminID()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid admin chat id")
	}
	groupID, err := cfg.Bot.GroupID()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid group chat id")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("snapshot store init failed")
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("snapshot store close failed")
		}
	}()

	reg := metrics.NewRegistry()
	engineMetrics := metrics.NewEngineMetrics(reg)
	notifyMetrics := metrics.NewNotifyMetrics(reg)
	httpMetrics := metrics.NewHTTPMetrics(reg)

	// The writer outlives ctx so the final snapshots land after shutdown starts.
	flushCtx, stopFlusher := context.WithCancel(context.Background())
	flusher := store.NewFlusher(st, engineMetrics.SnapshotSaved)
	flusher.Start(flushCtx)

	clock := clockwork.NewRealClock()
	eng := engine.New(engine.Options{
		Clock:         clock,
		Location:      loc,
		AdminID:       adminID,
		Flusher:       flusher,
		Metrics:       engineMetrics,
		DefaultPrompt: cfg.Bot.DefaultPrompt,
	})
	eng.Load(ctx, st)
	eng.SeedSellers(cfg.Server.SeedSellers)

	notifyCfg, err := notify.ConfigFromEnv(cfg.Notify)
	if err != nil {
		log.Fatal().Err(err).Msg("notify config invalid")
	}
	notifyMgr := notify.NewManager(notifyCfg, notifyMetrics)
	if err := notifyMgr.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("notify manager start failed")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		log.Fatal().Err(err).Msg("telegram bot init failed")
	}
	api.Debug = cfg.Bot.Debug
	log.Info().Str("username", api.Self.UserName).Int64("group_id", groupID).Msg("telegram bot authorized")

	bot := telegram.New(api, eng, telegram.Options{GroupID: groupID, SendRatePerSec: cfg.Bot.SendRatePerSec})
	feedBuf := feed.NewBuffer(200, clock)
	eng.SetNotifier(engine.Notifiers{bot, notifyMgr, feedBuf})
	bot.Start(ctx)

	sched := schedule.New(clock, loc)
	sched.OnRun(engineMetrics.Job)
	jobs := eng.Jobs()
	sched.Daily(engine.JobDailyAward, 0, 0, jobs[engine.JobDailyAward])
	sched.Weekly(engine.JobWeeklyRecap, time.Sunday, 23, 0, jobs[engine.JobWeeklyRecap])
	sched.Weekly(engine.JobResetVotes, time.Monday, 0, 0, jobs[engine.JobResetVotes])
	sched.Start(ctx)

	pinger, _ := st.(httptransport.Pinger)
	router := httptransport.NewRouter(httptransport.Deps{
		Engine:      eng,
		Scheduler:   sched,
		Pinger:      pinger,
		Registry:    reg,
		HTTPMetrics: httpMetrics,
		Feed:        feedBuf,
	}, cfg.Server)
	httptransport.LogRoutes(router)
	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	u.AllowedUpdates = []string{"message", "callback_query"}
	updates := api.GetUpdatesChan(u)
	log.Info().Msg("bot is running")
	bot.Run(ctx, updates)

	log.Info().Msg("shutdown signal received, cleaning up")
	api.StopReceivingUpdates()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	// streaming handlers only return once the feed is closed
	feedBuf.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown failed")
	}
	sched.Wait()
	eng.Close()
	bot.Wait()
	notifyMgr.Wait()

	eng.PersistAll()
	stopFlusher()
	select {
	case <-flusher.Done():
	case <-shutdownCtx.Done():
		log.Warn().Msg("snapshot flush timed out")
	}
	log.Info().Msg("shutdown complete")
}
