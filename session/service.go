package session

import (
	"time"

	"github.com/mileusna/useragent"
	"gorm.io/gorm"
)

type sessionService struct {
	db      *gorm.DB
	manager *Manager
}

func NewSessionService(db *gorm.DB, manager *Manager) SessionService {
	return &sessionService{
		db:      db,
		manager: manager,
	}
}

func (s *sessionService) TrackSession(userID uint, token, ipAddress, userAgent string, expiresAt time.Time) error {
	session := UserSession{
		UserID:    userID,
		Token:     token,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
		ExpiresAt: expiresAt,
	}

	return s.db.Create(&session).Error
}

func (s *sessionService) GetUserSessions(userID uint, currentToken string) ([]UserSession, error) {
	var sessions []UserSession

	err := s.db.Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Order("last_used DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		if sessions[i].Token == currentToken {
			sessions[i].Current = true
		}
	}

	return sessions, nil
}

func (s *sessionService) RevokeAllOtherSessions(userID uint, currentToken string) error {
	var sessions []UserSession
	err := s.db.Where("user_id = ? AND token != ?", userID, currentToken).Find(&sessions).Error
	if err != nil {
		return err
	}

	for _, session := range sessions {
		if s.manager != nil && s.manager.Store != nil {
			if err := s.manager.Store.Delete(session.Token); err != nil {
				return err
			}
		}
	}

	return s.db.Where("user_id = ? AND token != ?", userID, currentToken).Delete(&UserSession{}).Error
}

func (s *sessionService) RemoveSessionByToken(token string) error {
	return s.db.Where("token = ?", token).Delete(&UserSession{}).Error
}

func (s *sessionService) CleanupExpiredSessions() error {
	return s.db.Where("expires_at < ?", time.Now()).Delete(&UserSession{}).Error
}

// GetBrowserInfo condenses a User-Agent header for the account page.
func GetBrowserInfo(userAgentString string) string {
	if userAgentString == "" {
		return "Unknown Browser"
	}

	ua := useragent.Parse(userAgentString)

	if ua.Name != "" {
		if ua.Version != "" {
			return ua.Name + " " + ua.Version
		}
		return ua.Name
	}

	return "Unknown Browser"
}
