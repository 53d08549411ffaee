package testutils

import (
	"testing"
	"time"

	"urbandict/config"
	"urbandict/models"
	"urbandict/session"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.UnverifiedPost{},
		&models.VerificationToken{},
		&models.Reaction{},
		&session.UserSession{},
	)
	require.NoError(t, err)

	return db
}

// TestConfig returns a config suitable for service tests: low bcrypt cost,
// in-memory sessions, small pages.
func TestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Urban Dictionary",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			BcryptCost:        4,
			MinPasswordLength: 8,
		},
		Posts: config.PostsConfig{
			PerPage:     10,
			TitleMaxLen: 255,
			TextMaxLen:  10000,
			SearchLimit: 500,
		},
		Session: config.SessionConfig{
			Store:    "memory",
			Name:     "test_session",
			MaxAge:   time.Hour,
			Path:     "/",
			HttpOnly: true,
			SameSite: "lax",
		},
	}
}
