package posts

import (
	"fmt"
	"testing"
	"time"

	"urbandict/models"
	"urbandict/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *testutils.MockMailer, *gorm.DB) {
	t.Helper()
	db := testutils.SetupTestDB(t)
	mailer := &testutils.MockMailer{}
	return NewService(testutils.TestConfig(), db, mailer, nil), mailer, db
}

func createAuthor(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{Username: "author", Email: "author@example.com", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestCreate(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	post, err := svc.Create(author.ID, "gg", "good game", "gg wp")
	require.NoError(t, err)
	assert.Equal(t, "gg", post.Title)
	assert.Equal(t, author.ID, post.AuthorID)
	assert.WithinDuration(t, time.Now(), post.PublishDate, 5*time.Second)

	var stored models.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, "good game", stored.Text)
}

func TestCreate_StripsMarkup(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	post, err := svc.Create(author.ID, "<b>gg</b>", "good <script>alert(1)</script> game", "gg")
	require.NoError(t, err)
	assert.Equal(t, "gg", post.Title)
	assert.NotContains(t, post.Text, "<script>")
	assert.Contains(t, post.Text, "good")
	assert.Contains(t, post.Text, "game")
}

func TestCreate_MarkupOnlyContentRejected(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	tests := []struct {
		name                 string
		title, text, example string
	}{
		{"empty title", "<b></b>", "good game", "gg wp"},
		{"empty text", "gg", "<script>alert(1)</script>", "gg wp"},
		{"whitespace example", "gg", "good game", "   "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(author.ID, tt.title, tt.text, tt.example)
			assert.ErrorIs(t, err, ErrEmptyContent)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitGuest_NewEmail(t *testing.T) {
	svc, mailer, db := newTestService(t)
	mailer.On("Send", "guest@example.com", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.SubmitGuest("guest@example.com", "gg", "good game", "gg wp"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "guest@example.com").First(&user).Error)
	assert.False(t, user.IsActive)
	assert.Equal(t, fmt.Sprintf("%s%d", models.AnonPrefix, user.ID), user.Username)

	var pending models.UnverifiedPost
	require.NoError(t, db.First(&pending).Error)
	require.NotNil(t, pending.AuthorID)
	assert.Equal(t, user.ID, *pending.AuthorID)
	assert.Equal(t, "gg", pending.Title)
	assert.NotEmpty(t, pending.Token)

	var count int64
	require.NoError(t, db.Model(&models.Post{}).Count(&count).Error)
	assert.Zero(t, count)

	mailer.AssertNumberOfCalls(t, "Send", 1)
}

func TestSubmitGuest_SupersedesPendingSubmission(t *testing.T) {
	svc, mailer, db := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.SubmitGuest("guest@example.com", "first", "t", "e"))
	require.NoError(t, svc.SubmitGuest("guest@example.com", "second", "t", "e"))

	var pending []models.UnverifiedPost
	require.NoError(t, db.Find(&pending).Error)
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Title)

	var userCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	assert.EqualValues(t, 1, userCount)
}

func TestSubmitGuest_MarkupOnlyContentSendsNoMail(t *testing.T) {
	svc, mailer, db := newTestService(t)

	err := svc.SubmitGuest("guest@example.com", "<b></b>", "good game", "gg wp")
	assert.ErrorIs(t, err, ErrEmptyContent)
	mailer.AssertNumberOfCalls(t, "Send", 0)

	var userCount, pendingCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.UnverifiedPost{}).Count(&pendingCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, pendingCount)
}

func TestSubmitGuest_MailFailureCommitsNothing(t *testing.T) {
	svc, mailer, db := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	err := svc.SubmitGuest("guest@example.com", "gg", "t", "e")
	assert.ErrorIs(t, err, ErrMailDelivery)

	var userCount, pendingCount int64
	require.NoError(t, db.Model(&models.User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&models.UnverifiedPost{}).Count(&pendingCount).Error)
	assert.Zero(t, userCount)
	assert.Zero(t, pendingCount)
}

func TestPromote_SingleUse(t *testing.T) {
	svc, mailer, db := newTestService(t)
	mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.SubmitGuest("guest@example.com", "gg", "good game", "gg wp"))

	var pending models.UnverifiedPost
	require.NoError(t, db.First(&pending).Error)

	post, err := svc.Promote(pending.Token)
	require.NoError(t, err)
	assert.Equal(t, "gg", post.Title)
	assert.Equal(t, "good game", post.Text)
	assert.Equal(t, *pending.AuthorID, post.AuthorID)

	var pendingCount int64
	require.NoError(t, db.Model(&models.UnverifiedPost{}).Count(&pendingCount).Error)
	assert.Zero(t, pendingCount)

	_, err = svc.Promote(pending.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	var postCount int64
	require.NoError(t, db.Model(&models.Post{}).Count(&postCount).Error)
	assert.EqualValues(t, 1, postCount)
}

func TestPromote_UnknownToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Promote("no-such-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func seedPosts(t *testing.T, svc *Service, db *gorm.DB, n int) *models.User {
	t.Helper()
	author := createAuthor(t, db)
	base := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		post := models.Post{
			Title:       fmt.Sprintf("term %d", i),
			Text:        "definition",
			Example:     "example",
			AuthorID:    author.ID,
			PublishDate: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&post).Error)
	}
	return author
}

func TestFeed_OrderAndPagination(t *testing.T) {
	svc, _, db := newTestService(t)
	seedPosts(t, svc, db, 25)

	page, err := svc.Feed(1)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 25, page.TotalCount)
	require.Len(t, page.Posts, 10)
	assert.Equal(t, "term 24", page.Posts[0].Title)
	assert.Equal(t, "author", page.Posts[0].Author.Username)

	last, err := svc.Feed(3)
	require.NoError(t, err)
	assert.Len(t, last.Posts, 5)
	assert.Equal(t, "term 0", last.Posts[4].Title)
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())
}

func TestFeed_PageClamping(t *testing.T) {
	svc, _, db := newTestService(t)
	seedPosts(t, svc, db, 12)

	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"zero clamps to first", 0, 1},
		{"negative clamps to first", -3, 1},
		{"past end clamps to last", 99, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := svc.Feed(tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Number)
			assert.NotEmpty(t, page.Posts)
		})
	}
}

func TestFeed_Empty(t *testing.T) {
	svc, _, _ := newTestService(t)

	page, err := svc.Feed(1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.TotalPages)
}

func TestUserPosts_FiltersByAuthor(t *testing.T) {
	svc, _, db := newTestService(t)
	author := seedPosts(t, svc, db, 3)

	other := models.User{Username: "other", Email: "other@example.com", IsActive: true}
	require.NoError(t, db.Create(&other).Error)
	_, err := svc.Create(other.ID, "theirs", "t", "e")
	require.NoError(t, err)

	page, err := svc.UserPosts(author.ID, 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 3)
	for _, post := range page.Posts {
		assert.Equal(t, author.ID, post.AuthorID)
	}
}

func TestRandom(t *testing.T) {
	svc, _, db := newTestService(t)

	_, err := svc.Random()
	assert.ErrorIs(t, err, ErrNoPosts)

	seedPosts(t, svc, db, 5)

	for i := 0; i < 20; i++ {
		post, err := svc.Random()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, post.ID, uint(1))
		assert.Equal(t, "author", post.Author.Username)
	}
}

func TestSearch(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	seed := []models.Post{
		{Title: "yeet", Text: "to throw with force", Example: "he yeeted it, a proper yeet", AuthorID: author.ID, PublishDate: time.Now().Add(-3 * time.Minute)},
		{Title: "throw shade", Text: "subtle insult", Example: "she threw shade", AuthorID: author.ID, PublishDate: time.Now().Add(-2 * time.Minute)},
		{Title: "salty", Text: "bitter about a loss", Example: "he got salty", AuthorID: author.ID, PublishDate: time.Now().Add(-time.Minute)},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	page, err := svc.Search("yeet", 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "yeet", page.Posts[0].Title)

	// multi-term query ranks by total hit count across all fields
	page, err = svc.Search("throw yeet", 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "yeet", page.Posts[0].Title)
	assert.Equal(t, "throw shade", page.Posts[1].Title)

	page, err = svc.Search("SALTY", 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "salty", page.Posts[0].Title)

	page, err = svc.Search("nomatchanywhere", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)

	page, err = svc.Search("   ", 1)
	require.NoError(t, err)
	assert.Empty(t, page.Posts)
	assert.Equal(t, 1, page.TotalPages)
}

func TestSearch_RankTieBreaksOnRecency(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	older := models.Post{Title: "vibe", Text: "a mood", Example: "", AuthorID: author.ID, PublishDate: time.Now().Add(-time.Hour)}
	newer := models.Post{Title: "vibe check", Text: "a mood", Example: "", AuthorID: author.ID, PublishDate: time.Now()}
	require.NoError(t, db.Create(&older).Error)
	require.NoError(t, db.Create(&newer).Error)

	page, err := svc.Search("mood", 1)
	require.NoError(t, err)
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "vibe check", page.Posts[0].Title)
}

func TestGetPost(t *testing.T) {
	svc, _, db := newTestService(t)
	author := createAuthor(t, db)

	created, err := svc.Create(author.ID, "gg", "good game", "gg wp")
	require.NoError(t, err)

	post, err := svc.GetPost(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "gg", post.Title)
	assert.Equal(t, "author", post.Author.Username)

	_, err = svc.GetPost(9999)
	assert.ErrorIs(t, err, ErrNoPosts)
}
