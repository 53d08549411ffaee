package templates

import (
	"urbandict/config"

	"go.uber.org/fx"
)

func ProvideTemplates(cfg *config.Config) (*Service, error) {
	svc := New(cfg.Templates)
	if err := svc.LoadTemplates(); err != nil {
		return nil, err
	}
	return svc, nil
}

var Module = fx.Options(
	fx.Provide(ProvideTemplates),
)
