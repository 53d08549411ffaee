package reactions

import (
	"urbandict/services/logging"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

func ProvideReactionService(db *gorm.DB, logger *logging.Service) *Service {
	return NewService(db, logger)
}

var Module = fx.Options(
	fx.Provide(ProvideReactionService),
)
