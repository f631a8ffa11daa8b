// Package post renders the board's HTML pages.
package post

//go:generate templ generate

import (
	"net/url"

	"github.com/hardiksrivastavaa/IG-CRUD/internal/model"
)

func postPath(p model.Post) string {
	return "/posts/" + url.PathEscape(p.ID)
}
