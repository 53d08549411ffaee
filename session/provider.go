package session

import (
	"fmt"
	"net/http"

	"urbandict/config"

	"github.com/alexedwards/scs/v2"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Manager struct {
	*scs.SessionManager
	config config.SessionConfig
}

func NewManager(cfg config.SessionConfig, store scs.Store) *Manager {
	sessionManager := scs.New()
	sessionManager.Store = store
	sessionManager.Lifetime = cfg.MaxAge
	sessionManager.IdleTimeout = cfg.MaxAge
	sessionManager.Cookie.Name = cfg.Name
	sessionManager.Cookie.Path = cfg.Path
	sessionManager.Cookie.Domain = cfg.Domain
	sessionManager.Cookie.Secure = cfg.Secure
	sessionManager.Cookie.HttpOnly = cfg.HttpOnly

	switch cfg.SameSite {
	case "strict":
		sessionManager.Cookie.SameSite = http.SameSiteStrictMode
	case "none":
		sessionManager.Cookie.SameSite = http.SameSiteNoneMode
	default:
		sessionManager.Cookie.SameSite = http.SameSiteLaxMode
	}

	return &Manager{
		SessionManager: sessionManager,
		config:         cfg,
	}
}

func ProvideSessionManager(cfg *config.Config, db *gorm.DB) (*Manager, error) {
	var store scs.Store
	var err error

	switch cfg.Session.Store {
	case "memory":
		store = NewMemoryStore()
	case "database":
		store, err = NewDatabaseStore(db)
		if err != nil {
			return nil, fmt.Errorf("failed to create database session store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.Session.Store)
	}

	return NewManager(cfg.Session, store), nil
}

func ProvideSessionService(db *gorm.DB, manager *Manager) (SessionService, error) {
	if err := db.AutoMigrate(&UserSession{}); err != nil {
		return nil, fmt.Errorf("failed to migrate user sessions: %w", err)
	}
	return NewSessionService(db, manager), nil
}

var Module = fx.Options(
	fx.Provide(ProvideSessionManager),
	fx.Provide(ProvideSessionService),
)
