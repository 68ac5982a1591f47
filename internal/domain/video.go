package domain

import "time"

// Video is a catalog entry: a movie or a series.
type Video struct {
	ID          string
	Title       string
	Description string
	Image       string
	ImageTitle  string
	ImageThumb  string
	Trailer     string
	Video       string
	Year        string
	AgeLimit    int
	Genre       string
	IsSeries    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (v *Video) RecordID() string     { return v.ID }
func (v *Video) OwnerID() string      { return "" }
func (v *Video) UploadedFile() string { return v.Image }
