package models

import (
	"time"
)

const (
	MaxPostLength     = 140
	MaxNewsLength     = 1000
	MaxAboutMeLength  = 140
	MaxUsernameLength = 64
	MaxChatNameLength = 64

	// DirectChatPrefix marks synthesized direct-message chat names.
	DirectChatPrefix = "dm:"
)

const (
	ChatKindGroup  = "group"
	ChatKindDirect = "direct"

	PostKindMessage = "message"
	PostKindSystem  = "system"
)

type User struct {
	ID                     string    `json:"id" db:"id"`
	Username               string    `json:"username" db:"username"`
	Email                  string    `json:"email" db:"email"`
	PasswordHash           string    `json:"-" db:"password_hash"`
	AboutMe                string    `json:"aboutMe" db:"about_me"`
	AvatarURL              string    `json:"avatarUrl" db:"avatar_url"`
	LastSeen               time.Time `json:"lastSeen" db:"last_seen"`
	RefreshToken           string    `json:"-" db:"refresh_token"`
	RefreshTokenExpiryTime time.Time `json:"-" db:"refresh_token_expiry_time"`
}

type Chat struct {
	ID           string     `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Kind         string     `json:"kind" db:"kind"`
	DirectLowID  *string    `json:"-" db:"direct_low_id"`
	DirectHighID *string    `json:"-" db:"direct_high_id"`
	ImageURL     string     `json:"imageUrl" db:"image_url"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	LastActivity *time.Time `json:"lastActivity,omitempty" db:"last_activity"`
	Members      []User     `json:"members,omitempty" db:"-"`
}

// Post is a chat message or a news comment. Exactly one of ChatID and
// NewsID is set.
type Post struct {
	ID             string    `json:"id" db:"id"`
	Body           string    `json:"body" db:"body"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	UserID         string    `json:"authorId" db:"user_id"`
	AuthorUsername string    `json:"author" db:"author_username"`
	ChatID         *string   `json:"chatId,omitempty" db:"chat_id"`
	NewsID         *string   `json:"newsId,omitempty" db:"news_id"`
	Kind           string    `json:"kind" db:"kind"`
}

type News struct {
	ID             string    `json:"id" db:"id"`
	Body           string    `json:"body" db:"body"`
	Timestamp      time.Time `json:"timestamp" db:"timestamp"`
	UserID         string    `json:"authorId" db:"user_id"`
	AuthorUsername string    `json:"author" db:"author_username"`
	ImageURL       string    `json:"imageUrl" db:"image_url"`
	Likes          int       `json:"likes" db:"likes"`
}

type Invitation struct {
	ID              string    `json:"id" db:"id"`
	UserID          string    `json:"userId" db:"user_id"`
	ChatID          string    `json:"chatId" db:"chat_id"`
	InviterID       *string   `json:"inviterId,omitempty" db:"inviter_id"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	ChatName        string    `json:"chatName,omitempty" db:"chat_name"`
	InviterUsername *string   `json:"inviter,omitempty" db:"inviter_username"`
}

// Friends holds the two disjoint halves of a friends list. A user who
// follows back is listed only under Followers.
type Friends struct {
	Followers []User `json:"followers"`
	Following []User `json:"following"`
}

// MessagePage is one window of a chat history ordered oldest first.
// Next and Prev are nil at the respective ends.
type MessagePage struct {
	Posts   []Post `json:"posts"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
	Total   int    `json:"total"`
	Pages   int    `json:"pages"`
	Next    *int   `json:"next"`
	Prev    *int   `json:"prev"`
}

// Image is an uploaded binary as handed over by the upload layer.
type Image struct {
	Data        []byte
	FileName    string
	ContentType string
}
