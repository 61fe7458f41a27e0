// Package a declares a User that collides by name with package b.
package a

// User owns accounts.
type User struct {
	Name string `json:"name"`
}
