package auth

import (
	"testing"

	"urbandict/models"
	"urbandict/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *testutils.MockMailer) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	mailer := &testutils.MockMailer{}
	return NewService(testutils.TestConfig(), db, mailer, nil), mailer
}

func TestRegister_FreshEmail(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", "newuser@example.com", mock.Anything, mock.Anything).Return(nil)

	err := svc.Register("newuser", "newuser@example.com", "newpass123")
	require.NoError(t, err)

	var user models.User
	require.NoError(t, svc.db.Where("email = ?", "newuser@example.com").First(&user).Error)
	assert.Equal(t, "newuser", user.Username)
	assert.False(t, user.IsActive)
	assert.NoError(t, svc.VerifyPassword(user.Password, "newpass123"))

	var tokens []models.VerificationToken
	require.NoError(t, svc.db.Where("user_id = ?", user.ID).Find(&tokens).Error)
	assert.Len(t, tokens, 1)

	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestRegister_ActiveEmailRejected(t *testing.T) {
	svc, mailer := newTestService(t)
	require.NoError(t, svc.db.Create(&models.User{
		Username: "taken",
		Email:    "taken@example.com",
		IsActive: true,
	}).Error)

	err := svc.Register("somebody", "taken@example.com", "newpass123")
	assert.ErrorIs(t, err, ErrEmailInUse)
	mailer.AssertNumberOfCalls(t, "Send", 0)
}

func TestRegister_TakenUsernameRejected(t *testing.T) {
	svc, mailer := newTestService(t)
	require.NoError(t, svc.db.Create(&models.User{
		Username: "taken",
		Email:    "a@example.com",
		IsActive: true,
	}).Error)

	err := svc.Register("taken", "b@example.com", "newpass123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
	mailer.AssertNumberOfCalls(t, "Send", 0)

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_RetryKeepsOwnUsername(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Register("first", "pending@example.com", "newpass123"))

	// the pending account's own username does not block its re-registration
	require.NoError(t, svc.Register("first", "pending@example.com", "newpass123"))

	var count int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_ReusesInactiveGuestAccount(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	guest := models.User{Username: "Anon_1", Email: "guest@example.com", IsActive: false}
	require.NoError(t, svc.db.Create(&guest).Error)

	err := svc.Register("realname", "guest@example.com", "newpass123")
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, svc.db.Where("email = ?", "guest@example.com").Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, guest.ID, users[0].ID)
	assert.Equal(t, "realname", users[0].Username)
	assert.False(t, users[0].IsActive)

	var count int64
	require.NoError(t, svc.db.Model(&models.VerificationToken{}).Where("user_id = ?", guest.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegister_ReissuesTokenForPendingRegistration(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Register("first", "pending@example.com", "newpass123"))

	var before models.VerificationToken
	require.NoError(t, svc.db.First(&before).Error)

	require.NoError(t, svc.Register("second", "pending@example.com", "otherpass123"))

	var tokens []models.VerificationToken
	require.NoError(t, svc.db.Find(&tokens).Error)
	require.Len(t, tokens, 1)
	assert.NotEqual(t, before.Value, tokens[0].Value)
}

func TestRegister_MailFailureCommitsNothing(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.Register("newuser", "newuser@example.com", "newpass123")
	assert.ErrorIs(t, err, ErrMailDelivery)

	var userCount, tokenCount int64
	require.NoError(t, svc.db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, svc.db.Model(&models.VerificationToken{}).Count(&tokenCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, tokenCount)
}

func TestVerifyUser_SingleUse(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Register("newuser", "newuser@example.com", "newpass123"))

	var token models.VerificationToken
	require.NoError(t, svc.db.First(&token).Error)

	require.NoError(t, svc.VerifyUser(token.Value))

	var user models.User
	require.NoError(t, svc.db.First(&user, token.UserID).Error)
	assert.True(t, user.IsActive)

	var count int64
	require.NoError(t, svc.db.Model(&models.VerificationToken{}).Count(&count).Error)
	assert.Zero(t, count)

	// second attempt with the same value reports not-found, user unchanged
	err := svc.VerifyUser(token.Value)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, svc.db.First(&user, token.UserID).Error)
	assert.True(t, user.IsActive)
}

func TestVerifyUser_UnknownToken(t *testing.T) {
	svc, _ := newTestService(t)
	assert.ErrorIs(t, svc.VerifyUser("no-such-token"), ErrTokenInvalid)
}

func TestAuthenticate(t *testing.T) {
	svc, mailer := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Register("newuser", "newuser@example.com", "newpass123"))

	_, err := svc.Authenticate("newuser", "newpass123")
	assert.ErrorIs(t, err, ErrVerificationPending)

	var token models.VerificationToken
	require.NoError(t, svc.db.First(&token).Error)
	require.NoError(t, svc.VerifyUser(token.Value))

	user, err := svc.Authenticate("newuser", "newpass123")
	require.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)

	_, err = svc.Authenticate("newuser", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody", "newpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestService(t)

	hash, err := svc.HashPassword("oldpass123")
	require.NoError(t, err)
	user := models.User{Username: "u", Email: "u@example.com", Password: hash, IsActive: true}
	require.NoError(t, svc.db.Create(&user).Error)

	assert.ErrorIs(t, svc.ChangePassword(user.ID, "wrongpass", "freshpass123"), ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(user.ID, "oldpass123", "freshpass123"))

	_, err = svc.Authenticate("u", "freshpass123")
	assert.NoError(t, err)
	_, err = svc.Authenticate("u", "oldpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidatePassword_MinLength(t *testing.T) {
	svc, _ := newTestService(t)
	assert.Error(t, svc.ValidatePassword("short"))
	assert.NoError(t, svc.ValidatePassword("longenough"))
}
