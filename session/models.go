package session

import (
	"time"
)

// UserSession is one tracked login. Rows are created on login, shown on the
// account page and removed on logout or when another session revokes them.
type UserSession struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:255;not null"`
	IPAddress string    `json:"ip_address" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:500"`
	Current   bool      `json:"current" gorm:"-"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (UserSession) TableName() string {
	return "user_sessions"
}

type SessionService interface {
	TrackSession(userID uint, token, ipAddress, userAgent string, expiresAt time.Time) error

	GetUserSessions(userID uint, currentToken string) ([]UserSession, error)

	// RevokeAllOtherSessions destroys every session of the user except the
	// one identified by currentToken, both in the scs store and in the
	// tracking table.
	RevokeAllOtherSessions(userID uint, currentToken string) error

	RemoveSessionByToken(token string) error

	CleanupExpiredSessions() error
}
