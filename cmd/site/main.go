package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"coalition_site/internal/bot"
	"coalition_site/internal/cms"
	"coalition_site/internal/config"
	"coalition_site/internal/scheduler"
	"coalition_site/internal/site"
	"coalition_site/internal/storage"
	"coalition_site/internal/web"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	httpClient := &http.Client{Timeout: cfg.FetchTimeout}
	client, err := cms.NewClient(httpClient, cms.Config{
		Repository:  cfg.CMSRepository,
		AccessToken: cfg.CMSAccessToken,
		Endpoint:    cfg.CMSEndpoint,
	})
	if err != nil {
		log.Error("create cms client", "error", err)
		os.Exit(1)
	}

	var source cms.Source = client
	if cfg.NewsFeedURL != "" {
		source = cms.NewFeedSource(client, httpClient, cfg.NewsFeedURL)
		log.Info("news served from feed", "url", cfg.NewsFeedURL)
	}

	pages := site.New(source, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Workers must return before the deferred store.Close runs.
	var jobs []func(context.Context)
	if cfg.BotEnabled() {
		store, err := openStore(ctx, cfg.DatabasePath)
		if err != nil {
			log.Error("open database", "path", cfg.DatabasePath, "error", err)
			os.Exit(1)
		}
		defer func() { _ = store.Close() }()

		b, err := bot.New(cfg.TelegramBotToken, store, pages, cfg, log)
		if err != nil {
			log.Error("create bot", "error", err)
			os.Exit(1)
		}

		sched := scheduler.New(store, b, log)

		log.Info("starting bot")
		jobs = append(jobs, sched.Run, b.Run)
	}
	wait := runWorkers(ctx, jobs...)

	srv := web.New(pages, log).NewHTTPServer(cfg.HTTPAddr)
	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown http server", "error", err)
		}
	}()

	log.Info("starting http server", "addr", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server", "error", err)
		cancel()
		wait()
		os.Exit(1)
	}

	wait()

	log.Info("site stopped")
}

// runWorkers starts every job in its own goroutine. The returned function
// blocks until all of them have returned.
func runWorkers(ctx context.Context, jobs ...func(context.Context)) (wait func()) {
	var wg sync.WaitGroup
	for _, job := range jobs {
		wg.Go(func() { job(ctx) })
	}
	return wg.Wait
}

func openStore(ctx context.Context, path string) (*storage.SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, err
		}
	}
	return storage.NewSQLite(ctx, path)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
