package dto

import (
	"time"

	"github.com/winkingcatstudios/video-streaming-backend/internal/domain"
)

// VideoRequest is the create and update payload for videos. Multipart forms
// use the same field names; the image file arrives separately.
type VideoRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Description string `json:"description" form:"description" validate:"min=5,max=500"`
	Image       string `json:"image" form:"-"`
	ImageTitle  string `json:"imageTitle" form:"imageTitle"`
	ImageThumb  string `json:"imageThumb" form:"imageThumb"`
	Trailer     string `json:"trailer" form:"trailer"`
	Video       string `json:"video" form:"video"`
	Year        string `json:"year" form:"year" validate:"required"`
	AgeLimit    int    `json:"ageLimit" form:"ageLimit" validate:"gte=0"`
	Genre       string `json:"genre" form:"genre" validate:"required"`
	IsSeries    bool   `json:"isSeries" form:"isSeries"`
}

// VideoResponse is the public shape of a video.
type VideoResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	ImageTitle  string    `json:"imageTitle"`
	ImageThumb  string    `json:"imageThumb"`
	Trailer     string    `json:"trailer"`
	Video       string    `json:"video"`
	Year        string    `json:"year"`
	AgeLimit    int       `json:"ageLimit"`
	Genre       string    `json:"genre"`
	IsSeries    bool      `json:"isSeries"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewVideoResponse maps a domain video.
func NewVideoResponse(v *domain.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID,
		Title:       v.Title,
		Description: v.Description,
		Image:       v.Image,
		ImageTitle:  v.ImageTitle,
		ImageThumb:  v.ImageThumb,
		Trailer:     v.Trailer,
		Video:       v.Video,
		Year:        v.Year,
		AgeLimit:    v.AgeLimit,
		Genre:       v.Genre,
		IsSeries:    v.IsSeries,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

// Apply overwrites every editable field. An empty Image keeps the stored one.
func (r VideoRequest) Apply(v *domain.Video) {
	v.Title = r.Title
	v.Description = r.Description
	if r.Image != "" {
		v.Image = r.Image
	}
	v.ImageTitle = r.ImageTitle
	v.ImageThumb = r.ImageThumb
	v.Trailer = r.Trailer
	v.Video = r.Video
	v.Year = r.Year
	v.AgeLimit = r.AgeLimit
	v.Genre = r.Genre
	v.IsSeries = r.IsSeries
}
