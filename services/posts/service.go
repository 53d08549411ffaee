package posts

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"urbandict/config"
	"urbandict/metrics"
	"urbandict/models"
	"urbandict/services/logging"
	"urbandict/services/mail"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrTokenInvalid = errors.New("invalid or already used post verification token")
	ErrMailDelivery = errors.New("failed to send verification email")
	ErrNoPosts      = errors.New("no posts exist")
	ErrEmptyContent = errors.New("post fields are empty after sanitizing")
)

type Service struct {
	config    *config.Config
	db        *gorm.DB
	mailer    mail.Sender
	logger    *logging.Service
	sanitizer *bluemonday.Policy
}

func NewService(cfg *config.Config, db *gorm.DB, mailer mail.Sender, logger *logging.Service) *Service {
	return &Service{
		config:    cfg,
		db:        db,
		mailer:    mailer,
		logger:    logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *Service) sanitize(value string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(value))
}

// Create publishes a post directly for an authenticated author. Markup-only
// input that sanitizes down to nothing is rejected rather than stored empty.
func (s *Service) Create(authorID uint, title, text, example string) (*models.Post, error) {
	title = s.sanitize(title)
	text = s.sanitize(text)
	example = s.sanitize(example)
	if title == "" || text == "" || example == "" {
		return nil, ErrEmptyContent
	}

	post := models.Post{
		Title:       title,
		Text:        text,
		Example:     example,
		AuthorID:    authorID,
		PublishDate: time.Now(),
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	metrics.PostsCreatedTotal.Inc()
	s.logger.Info("post created", zap.Uint("post_id", post.ID), zap.Uint("author_id", authorID))
	return &post, nil
}

// SubmitGuest holds a guest submission pending email verification. The mail
// goes out first; nothing is persisted when dispatch fails. A pre-existing
// user for the email has any earlier pending submissions discarded, so only
// the newest pending post per email survives. A brand new guest gets an
// inactive placeholder account: the username starts as the token (unique by
// construction) and is rewritten to Anon_<id> once the row id is known.
func (s *Service) SubmitGuest(email, title, text, example string) error {
	title = s.sanitize(title)
	text = s.sanitize(text)
	example = s.sanitize(example)
	if title == "" || text == "" || example == "" {
		return ErrEmptyContent
	}

	token := uuid.NewString()
	verificationURL := fmt.Sprintf("%s/posts/verify_post/%s", s.config.App.URL, token)

	subject := fmt.Sprintf("Vytvorenie prispevku - %s", s.config.App.Name)
	body := fmt.Sprintf("Vytvorte prispevok kliknutim na link: %s", verificationURL)
	if err := s.mailer.Send(email, subject, body); err != nil {
		s.logger.Error("guest verification mail dispatch failed", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Where("email = ?", email).First(&user).Error
		switch {
		case err == nil:
			if err := tx.Where("author_id = ?", user.ID).Delete(&models.UnverifiedPost{}).Error; err != nil {
				return fmt.Errorf("failed to discard pending posts: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user = models.User{
				Username: token,
				Email:    email,
				IsActive: false,
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("failed to create guest user: %w", err)
			}
			user.Username = fmt.Sprintf("%s%d", models.AnonPrefix, user.ID)
			if err := tx.Save(&user).Error; err != nil {
				return fmt.Errorf("failed to assign guest username: %w", err)
			}
		default:
			return fmt.Errorf("failed to look up user: %w", err)
		}

		pending := models.UnverifiedPost{
			Title:    title,
			Text:     text,
			Example:  example,
			Token:    token,
			AuthorID: &user.ID,
		}
		if err := tx.Create(&pending).Error; err != nil {
			return fmt.Errorf("failed to create unverified post: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	metrics.GuestSubmissionsTotal.Inc()
	s.logger.Info("guest submission held for verification", zap.String("email", email))
	return nil
}

// Promote converts a pending submission into a published post. Copy and
// delete run in one transaction, and the delete is keyed on the token value
// so of two concurrent verifiers exactly one succeeds.
func (s *Service) Promote(token string) (*models.Post, error) {
	var post models.Post

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var pending models.UnverifiedPost
		if err := tx.Where("token = ?", token).First(&pending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTokenInvalid
			}
			return fmt.Errorf("failed to look up unverified post: %w", err)
		}

		if pending.AuthorID == nil {
			return fmt.Errorf("unverified post %d has no author", pending.ID)
		}

		result := tx.Where("token = ?", token).Delete(&models.UnverifiedPost{})
		if result.Error != nil {
			return fmt.Errorf("failed to consume unverified post: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrTokenInvalid
		}

		post = models.Post{
			Title:       pending.Title,
			Text:        pending.Text,
			Example:     pending.Example,
			AuthorID:    *pending.AuthorID,
			PublishDate: time.Now(),
		}
		if err := tx.Create(&post).Error; err != nil {
			return fmt.Errorf("failed to create post: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PromotionsTotal.Inc()
	s.logger.Info("guest post promoted", zap.Uint("post_id", post.ID))
	return &post, nil
}

// Feed returns all posts, newest first, clamped to a valid page.
func (s *Service) Feed(page int) (*Page, error) {
	query := s.db.Model(&models.Post{}).Order("publish_date DESC")
	return s.paginate(query, page)
}

// UserPosts returns the posts of one author, newest first.
func (s *Service) UserPosts(authorID uint, page int) (*Page, error) {
	query := s.db.Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Order("publish_date DESC")
	return s.paginate(query, page)
}

// Random picks a uniform id in [1, max_id] and returns the first post at or
// above it. Deletions leave gaps, so the pick is biased toward rows that
// immediately follow a gap; that probing policy is intentional.
func (s *Service) Random() (*models.Post, error) {
	var maxID int64
	err := s.db.Model(&models.Post{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find max post id: %w", err)
	}
	if maxID == 0 {
		return nil, ErrNoPosts
	}

	randomID := rand.Int64N(maxID) + 1

	var post models.Post
	err = s.db.Preload("Author").
		Where("id >= ?", randomID).
		Order("id ASC").
		First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPosts
		}
		return nil, fmt.Errorf("failed to pick random post: %w", err)
	}

	return &post, nil
}

// Search ranks posts over title, text and example by total term-hit count.
// Only strictly positive ranks are returned, ordered by rank descending with
// publish date as the tie break.
func (s *Service) Search(query string, page int) (*Page, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return emptyPage(s.config.Posts.PerPage), nil
	}

	tx := s.db.Model(&models.Post{}).Preload("Author")
	for i, term := range terms {
		pattern := "%" + term + "%"
		clause := "(LOWER(title) LIKE ? OR LOWER(text) LIKE ? OR LOWER(example) LIKE ?)"
		if i == 0 {
			tx = tx.Where(clause, pattern, pattern, pattern)
		} else {
			tx = tx.Or(clause, pattern, pattern, pattern)
		}
	}

	var candidates []models.Post
	if err := tx.Limit(s.config.Posts.SearchLimit).Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}

	type ranked struct {
		post models.Post
		rank int
	}

	results := make([]ranked, 0, len(candidates))
	for _, post := range candidates {
		haystack := strings.ToLower(post.Title + " " + post.Text + " " + post.Example)
		rank := 0
		for _, term := range terms {
			rank += strings.Count(haystack, term)
		}
		if rank > 0 {
			results = append(results, ranked{post: post, rank: rank})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].rank != results[j].rank {
			return results[i].rank > results[j].rank
		}
		return results[i].post.PublishDate.After(results[j].post.PublishDate)
	})

	ordered := make([]models.Post, len(results))
	for i, r := range results {
		ordered[i] = r.post
	}

	return pageOfSlice(ordered, page, s.config.Posts.PerPage), nil
}

// GetPost loads one post with its author.
func (s *Service) GetPost(postID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Author").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoPosts
		}
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	return &post, nil
}
