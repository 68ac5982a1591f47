package dto

import (
	"time"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
)

// ListRequest is the create and update payload for lists.
type ListRequest struct {
	Title   string   `json:"title" validate:"required"`
	Type    string   `json:"type" validate:"required"`
	Genre   string   `json:"genre" validate:"required"`
	Content []string `json:"content"`
}

// ListResponse is the public shape of a list.
type ListResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Genre     string    `json:"genre"`
	Content   []string  `json:"content"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewListResponse maps a domain list.
func NewListResponse(l *domain.List) ListResponse {
	content := l.Content
	if content == nil {
		content = []string{}
	}
	return ListResponse{
		ID:        l.ID,
		Title:     l.Title,
		Type:      l.Type,
		Genre:     l.Genre,
		Content:   content,
		Creator:   l.CreatorID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// Apply copies the payload onto a list.
func (r ListRequest) Apply(l *domain.List) {
	l.Title = r.Title
	l.Type = r.Type
	l.Genre = r.Genre
	l.Content = r.Content
}
