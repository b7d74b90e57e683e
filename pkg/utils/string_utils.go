package utils

// NewNullString returns a pointer to s, or nil when s is empty. Handy for
// optional fields that should map to NULL in the database.
func NewNullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
