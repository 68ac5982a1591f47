package domain

import "time"

// User is an account that can sign in and own lists.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Image        string
	IsAdmin      bool
	ListIDs      []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) RecordID() string     { return u.ID }
func (u *User) OwnerID() string      { return "" }
func (u *User) UploadedFile() string { return u.Image }

// MonthlySignups counts accounts created in one calendar month.
type MonthlySignups struct {
	Month int
	Total int
}
