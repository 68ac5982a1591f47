package domain

// Identity is the caller derived from a verified token. It lives for one request.
type Identity struct {
	UserID  string
	Email   string
	IsAdmin bool
}
