package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPostEmpty    = errors.New("post content cannot be empty")
	ErrPostTooLong  = errors.New("post content is too long (max 2000 chars)")
	ErrMessageEmpty = errors.New("message cannot be empty")
	ErrInvalidEmail = errors.New("please enter a valid email address")
)

const (
	MaxPostLen              = 2000
	ReportTypeComprehensive = "comprehensive"
)

type CommunityPost struct {
	ID      string    `json:"id"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

func NewCommunityPost(content string, now time.Time) (*CommunityPost, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrPostEmpty
	}
	if len(content) > MaxPostLen {
		return nil, ErrPostTooLong
	}

	return &CommunityPost{
		ID:      uuid.NewString(),
		Content: content,
		Date:    now.UTC(),
	}, nil
}

type AIConversation struct {
	User string    `json:"user"`
	AI   string    `json:"ai"`
	Date time.Time `json:"date"`
}

type TherapistShare struct {
	Email      string    `json:"email"`
	Date       time.Time `json:"date"`
	ReportType string    `json:"reportType"`
}

func NewTherapistShare(email string, now time.Time) (*TherapistShare, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return nil, ErrInvalidEmail
	}

	return &TherapistShare{
		Email:      strings.ToLower(email),
		Date:       now.UTC(),
		ReportType: ReportTypeComprehensive,
	}, nil
}
