package cmd

import (
	"context"
	"log"
	httpNet "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/delivery/http"
	"github.com/ekant1999/StrategyEvolve/internal/delivery/telegram"
	"github.com/ekant1999/StrategyEvolve/internal/repository"
	"github.com/ekant1999/StrategyEvolve/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the StrategyEvolve API and evolution scheduler",
	Run:   Start,
}

func Start(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}

	repo, err := repository.NewRepository(ctx, appDep.cfg, appDep.db.DB, appDep.cache, appDep.log)
	if err != nil {
		appDep.log.Fatal("Failed to create repository", zap.Error(err))
	}

	services, err := service.NewService(
		appDep.cfg,
		appDep.log,
		repo,
		appDep.cache,
		appDep.notifier,
	)
	if err != nil {
		appDep.log.Fatal("Failed to create services", zap.Error(err))
	}
	httpHandler := http.NewHttpAPIHandler(ctx, appDep.cfg, appDep.log, appDep.echo, appDep.validator, services)

	telegramHandler := telegram.NewTelegramBotHandler(
		ctx,
		appDep.cfg,
		appDep.log,
		appDep.bot,
		appDep.echo,
		services,
	)
	telegramHandler.Start()

	if err := services.SchedulerService.Start(ctx); err != nil {
		appDep.log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	apiServer := NewHTTPServer(ctx, appDep, httpHandler)
	go func() {
		if err := apiServer.Start(); err != nil && err != httpNet.ErrServerClosed {
			appDep.log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appDep.log.Info("Shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	services.SchedulerService.Stop(stopCtx)
	telegramHandler.Stop()

	if err := apiServer.Stop(); err != nil {
		appDep.log.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if err := appDep.Close(); err != nil {
		log.Fatalf("Failed to close app dependency: %v", err)
	}
}
