// Package b declares a User that collides by name with package a.
package b

// User is a backup contact.
type User struct {
	Email string `json:"email"`
}
