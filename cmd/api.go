package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ekant1999/StrategyEvolve/internal/delivery/http"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type HTTPServer struct {
	ctx     context.Context
	appDep  *AppDependency
	handler *http.HttpAPIHandler
}

func NewHTTPServer(ctx context.Context, appDep *AppDependency, handler *http.HttpAPIHandler) *HTTPServer {
	return &HTTPServer{
		ctx:     ctx,
		appDep:  appDep,
		handler: handler,
	}
}

func (s *HTTPServer) Start() error {
	s.appDep.log.Info("Starting HTTP server", zap.Int("port", s.appDep.cfg.API.Port))
	address := fmt.Sprintf(":%d", s.appDep.cfg.API.Port)

	s.appDep.echo.Use(middleware.Recover())
	if s.appDep.cfg.API.RequestTimeout > 0 {
		s.appDep.echo.Use(middleware.ContextTimeout(s.appDep.cfg.API.RequestTimeout))
	}
	s.SetupRoutes()

	return s.appDep.echo.Start(address)
}

func (s *HTTPServer) Stop() error {
	s.appDep.log.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stopDone := make(chan error, 1)
	go func() {
		stopDone <- s.appDep.echo.Shutdown(ctx)
	}()

	select {
	case err := <-stopDone:
		if err != nil {
			s.appDep.log.Error("Error When Stop HTTP server", zap.Error(err))
			return err
		}
		s.appDep.log.Info("HTTP server stopped successfully")
	case <-ctx.Done():
		s.appDep.log.Warn("Timeout while stopping HTTP server, forcing shutdown")
	}
	return nil
}

func (s *HTTPServer) SetupRoutes() {
	s.handler.SetupRoutes()
}
