package posts

import (
	"urbandict/config"
	"urbandict/services/logging"
	"urbandict/services/mail"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvidePostService(cfg *config.Config, db *gorm.DB, mailer mail.Sender, logger *logging.Service) *Service {
	return NewService(cfg, db, mailer, logger)
}

var Module = fx.Options(
	fx.Provide(ProvidePostService),
)
