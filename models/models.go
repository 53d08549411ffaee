package models

import "time"

// User is a site account. Accounts start inactive and are activated by
// consuming an emailed verification token. Guest submissions materialize an
// inactive placeholder account whose username is assigned as "Anon_<id>".
type User struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Username  string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string `json:"email" gorm:"index;size:254;not null"`
	Password  string `json:"-" gorm:"size:255"`
	IsActive  bool   `json:"is_active" gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AnonPrefix is reserved for auto-generated guest usernames. Registration
// rejects usernames starting with it.
const AnonPrefix = "Anon_"

type Post struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Text        string    `json:"text" gorm:"size:10000;not null"`
	Example     string    `json:"example" gorm:"size:10000;not null"`
	AuthorID    uint      `json:"author_id" gorm:"not null;index"`
	Author      User      `json:"author" gorm:"foreignKey:AuthorID"`
	PublishDate time.Time `json:"publish_date" gorm:"index;not null"`
	Upvotes     uint      `json:"upvotes" gorm:"not null;default:0"`
	Downvotes   uint      `json:"downvotes" gorm:"not null;default:0"`
}

// UnverifiedPost holds a guest submission until its token is consumed, at
// which point the content is copied into a Post and the row deleted.
type UnverifiedPost struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Title     string `json:"title" gorm:"size:255;not null"`
	Text      string `json:"text" gorm:"size:10000;not null"`
	Example   string `json:"example" gorm:"size:10000;not null"`
	Token     string `json:"-" gorm:"uniqueIndex;size:64;not null"`
	AuthorID  *uint  `json:"author_id" gorm:"index"`
	CreatedAt time.Time
}

// VerificationToken activates exactly one user and is deleted on use.
type VerificationToken struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	UserID    uint   `json:"user_id" gorm:"not null;index"`
	User      User   `json:"-" gorm:"foreignKey:UserID"`
	Value     string `json:"-" gorm:"uniqueIndex;size:64;not null"`
	CreatedAt time.Time
}

type ReactionKind string

const (
	ReactionLike    ReactionKind = "like"
	ReactionDislike ReactionKind = "dislike"
)

func (k ReactionKind) Valid() bool {
	return k == ReactionLike || k == ReactionDislike
}

// Reaction is a user's like/dislike state on one post. At most one row per
// (user, post); Post.Upvotes/Downvotes are aggregates over these rows.
type Reaction struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	UserID    uint         `json:"user_id" gorm:"not null;uniqueIndex:idx_reactions_user_post"`
	PostID    uint         `json:"post_id" gorm:"not null;uniqueIndex:idx_reactions_user_post"`
	Kind      ReactionKind `json:"kind" gorm:"size:10;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
