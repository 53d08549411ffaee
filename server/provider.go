package server

import (
	"context"
	"errors"
	"net/http"

	"urbandict/config"
	"urbandict/services/logging"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func ProvideServer(cfg *config.Config) *Server {
	return New(cfg)
}

func RunServer(lc fx.Lifecycle, srv *Server, logger *logging.Service) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("starting server", zap.String("addr", srv.Addr()))
			go func() {
				if err := srv.Echo().Start(srv.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Echo().Shutdown(ctx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(ProvideServer),
)
