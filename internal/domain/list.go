package domain

import "time"

// List is a curated collection of videos created by a user.
type List struct {
	ID        string
	Title     string
	Type      string
	Genre     string
	Content   []string
	CreatorID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (l *List) RecordID() string     { return l.ID }
func (l *List) OwnerID() string      { return l.CreatorID }
func (l *List) UploadedFile() string { return "" }
