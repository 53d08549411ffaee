package mail

import (
	"urbandict/config"
	"urbandict/services/logging"

	"go.uber.org/fx"
)

func ProvideMailService(cfg *config.Config, logger *logging.Service) (Sender, error) {
	return NewService(&cfg.Mail, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideMailService),
)
