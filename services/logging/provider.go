package logging

import (
	"urbandict/config"

	"go.uber.org/fx"
)

func ProvideLogging(cfg *config.Config) (*Service, error) {
	return NewService(cfg.Log)
}

var Module = fx.Options(
	fx.Provide(ProvideLogging),
)
