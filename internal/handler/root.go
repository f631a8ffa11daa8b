package handler

import "net/http"

// ServeRoot sends visitors to the post listing.
func ServeRoot() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/posts", http.StatusFound)
	}
}
