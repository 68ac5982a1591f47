package dto

// MessageResponse is the body of every error and of delete confirmations.
type MessageResponse struct {
	Message string `json:"message"`
}

// Map applies fn to every element.
func Map[T any, R any](items []T, fn func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, fn(item))
	}
	return out
}
