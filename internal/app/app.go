package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/igray-umney/telegram-bot-server/internal/config"
	"github.com/igray-umney/telegram-bot-server/internal/httpapi"
	"github.com/igray-umney/telegram-bot-server/internal/scheduler"
	"github.com/igray-umney/telegram-bot-server/internal/store"
	"github.com/igray-umney/telegram-bot-server/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	repo    store.Repo
	queue   *telegram.DeleteQueue
	router  *telegram.Router
	sched   *scheduler.Scheduler
	httpSrv *http.Server
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	repo, err := store.OpenFile(cfg.DataPath, log)
	if err != nil {
		return nil, err
	}

	queue := telegram.NewDeleteQueue(bot, log)
	router := telegram.NewRouter(bot, log, repo, queue, cfg.WebAppURL)
	sched := scheduler.New(repo, log, router)
	api := httpapi.New(repo, log, router)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      api.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return &App{
		cfg:     cfg,
		log:     log,
		bot:     bot,
		repo:    repo,
		queue:   queue,
		router:  router,
		sched:   sched,
		httpSrv: srv,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting razvivaika bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("data", a.cfg.DataPath),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	wg := conc.NewWaitGroup()
	wg.Go(func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	})
	wg.Go(func() { a.queue.Run(ctx) })
	wg.Go(func() {
		if err := a.sched.Run(ctx); err != nil {
			a.log.Error("scheduler error", zap.Error(err))
		}
	})

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			wg.Wait()
			if err := a.repo.Close(); err != nil {
				a.log.Warn("store close error", zap.Error(err))
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
