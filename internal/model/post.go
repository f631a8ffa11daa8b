// Package model defines data structure.
package model

// Post is a single entry on the board.
type Post struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}
