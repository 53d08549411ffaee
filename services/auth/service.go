package auth

import (
	"errors"
	"fmt"

	"urbandict/config"
	"urbandict/metrics"
	"urbandict/models"
	"urbandict/services/logging"
	"urbandict/services/mail"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPasswordHashingFailed = errors.New("failed to hash password")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrVerificationPending   = errors.New("account is awaiting email verification")
	ErrEmailInUse            = errors.New("email is already used by an active account")
	ErrUsernameTaken         = errors.New("username is already used by another account")
	ErrTokenInvalid          = errors.New("invalid or already used verification token")
	ErrMailDelivery          = errors.New("failed to send verification email")
)

type Service struct {
	config *config.Config
	db     *gorm.DB
	mailer mail.Sender
	logger *logging.Service
}

func NewService(cfg *config.Config, db *gorm.DB, mailer mail.Sender, logger *logging.Service) *Service {
	if cfg.Auth.BcryptCost < bcrypt.MinCost || cfg.Auth.BcryptCost > bcrypt.MaxCost {
		cfg.Auth.BcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		config: cfg,
		db:     db,
		mailer: mailer,
		logger: logger,
	}
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", s.config.Auth.MinPasswordLength)
	}
	return nil
}

func (s *Service) HashPassword(password string) (string, error) {
	if err := s.ValidatePassword(password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.config.Auth.BcryptCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return "", ErrPasswordHashingFailed
	}
	return string(hash), nil
}

func (s *Service) VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// IsEmailActive reports whether an active account already uses the email.
// Inactive accounts (abandoned registrations, guest placeholders) do not
// block re-registration.
func (s *Service) IsEmailActive(email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("email = ? AND is_active = ?", email, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return count > 0, nil
}

// IsUsernameTaken reports whether a different account holds the username.
// The caller's own account, matched by email, does not count: re-registering
// a pending email keeps its username without tripping the unique index.
func (s *Service) IsUsernameTaken(username, email string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).
		Where("username = ? AND email <> ?", username, email).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return count > 0, nil
}

// Register sends the verification mail first and only commits user and token
// state once delivery succeeded. All validation runs before dispatch so a
// rejected registration has no side effects. An inactive account holding the
// email (from an earlier registration or a guest submission) is reused: its
// username and password are replaced and a fresh token bound to it.
func (s *Service) Register(username, email, password string) error {
	s.logger.Info("registration requested", zap.String("email", email))

	active, err := s.IsEmailActive(email)
	if err != nil {
		return err
	}
	if active {
		return ErrEmailInUse
	}

	taken, err := s.IsUsernameTaken(username, email)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	verificationURL := fmt.Sprintf("%s/posts/verify_user/%s", s.config.App.URL, token)

	subject := fmt.Sprintf("Overenie registracie - %s", s.config.App.Name)
	body := fmt.Sprintf("Pre overenie uctu kliknite na link: %s", verificationURL)
	if err := s.mailer.Send(email, subject, body); err != nil {
		s.logger.Error("verification mail dispatch failed", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		switch {
		case err == nil:
			user.Username = username
			user.Password = hash
			if err := tx.Save(&user).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Username: username,
				Email:    email,
				Password: hash,
				IsActive: false,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up user: %w", err)
		}

		var existing models.VerificationToken
		err = tx.Where("user_id = ?", user.ID).First(&existing).Error
		switch {
		case err == nil:
			existing.Value = token
			if err := tx.Save(&existing).Error; err != nil {
				return fmt.Errorf("failed to update verification token: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := models.VerificationToken{UserID: user.ID, Value: token}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create verification token: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up verification token: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.RegistrationsTotal.Inc()
	s.logger.Info("verification mail sent", zap.String("email", email))
	return nil
}

// Authenticate resolves credentials to a user. An inactive account reports
// ErrVerificationPending before the password is checked, matching the
// user-facing hint that the activation link is still in their inbox.
func (s *Service) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrVerificationPending
	}

	if err := s.VerifyPassword(user.Password, password); err != nil {
		return nil, err
	}

	return &user, nil
}

// VerifyUser consumes an activation token. The delete is keyed on the token
// value so a concurrent verifier observes zero affected rows and gets
// ErrTokenInvalid instead of a second activation.
func (s *Service) VerifyUser(token string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var record models.VerificationToken
		if err := tx.Where("value = ?", token).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenInvalid
			}
			return fmt.Errorf("failed to look up verification token: %w", err)
		}

		result := tx.Where("value = ?", token).Delete(&models.VerificationToken{})
		if result.Error != nil {
			return fmt.Errorf("failed to consume verification token: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTokenInvalid
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", record.UserID).
			Update("is_active", true).Error; err != nil {
			return fmt.Errorf("failed to activate user: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.ActivationsTotal.Inc()
	s.logger.Info("user activated via verification link")
	return nil
}

func (s *Service) GetUser(userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	return &user, nil
}

func (s *Service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetUser(userID)
	if err != nil {
		return err
	}

	if err := s.VerifyPassword(user.Password, oldPassword); err != nil {
		return err
	}

	hash, err := s.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.db.Model(user).Update("password", hash).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", zap.Uint("user_id", userID))
	return nil
}
