package reactions

import (
	"errors"
	"fmt"

	"urbandict/metrics"
	"urbandict/models"
	"urbandict/services/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidKind  = errors.New("reaction type must be like or dislike")
)

// Result carries the counter totals and the caller's reaction state after a
// toggle, mirroring what the feed buttons render.
type Result struct {
	Likes    uint   `json:"likes"`
	Dislikes uint   `json:"dislikes"`
	State    string `json:"state"`
}

type Service struct {
	db     *gorm.DB
	logger *logging.Service
}

func NewService(db *gorm.DB, logger *logging.Service) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Toggle applies one reaction press: same kind clears, opposite kind
// switches, none sets. Post existence is checked before the kind is
// validated. Reaction row and counter moves share one transaction so the
// stored totals always equal the reaction rows.
func (s *Service) Toggle(userID, postID uint, kind models.ReactionKind) (*Result, error) {
	state := "none"

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPostNotFound
			}
			return fmt.Errorf("failed to look up post: %w", err)
		}

		if !kind.Valid() {
			return ErrInvalidKind
		}

		var reaction models.Reaction
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&reaction).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			reaction = models.Reaction{UserID: userID, PostID: postID, Kind: kind}
			if err := tx.Create(&reaction).Error; err != nil {
				return fmt.Errorf("failed to create reaction: %w", err)
			}
			if err := moveCounter(tx, postID, kind, +1); err != nil {
				return err
			}
			state = string(kind)

		case err != nil:
			return fmt.Errorf("failed to look up reaction: %w", err)

		case reaction.Kind == kind:
			if err := tx.Delete(&reaction).Error; err != nil {
				return fmt.Errorf("failed to clear reaction: %w", err)
			}
			if err := moveCounter(tx, postID, kind, -1); err != nil {
				return err
			}
			state = "none"

		default:
			previous := reaction.Kind
			if err := tx.Model(&reaction).Update("kind", kind).Error; err != nil {
				return fmt.Errorf("failed to switch reaction: %w", err)
			}
			if err := moveCounter(tx, postID, previous, -1); err != nil {
				return err
			}
			if err := moveCounter(tx, postID, kind, +1); err != nil {
				return err
			}
			state = string(kind)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := s.db.Select("upvotes", "downvotes").First(&post, postID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload counters: %w", err)
	}

	metrics.ReactionsTotal.WithLabelValues(state).Inc()
	s.logger.Debug("reaction toggled",
		zap.Uint("user_id", userID),
		zap.Uint("post_id", postID),
		zap.String("state", state))

	return &Result{
		Likes:    post.Upvotes,
		Dislikes: post.Downvotes,
		State:    state,
	}, nil
}

// GetUserReaction reports the caller's current state on a post, "none" when
// no row exists.
func (s *Service) GetUserReaction(userID, postID uint) (string, error) {
	var reaction models.Reaction
	err := s.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "none", nil
		}
		return "", fmt.Errorf("failed to look up reaction: %w", err)
	}
	return string(reaction.Kind), nil
}

func moveCounter(tx *gorm.DB, postID uint, kind models.ReactionKind, delta int) error {
	column := "upvotes"
	if kind == models.ReactionDislike {
		column = "downvotes"
	}

	err := tx.Model(&models.Post{}).
		Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to move %s counter: %w", column, err)
	}
	return nil
}
