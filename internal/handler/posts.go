package handler

import (
	"errors"
	"log"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	viewPost "github.com/hardiksrivastavaa/IG-CRUD/components/post"
	"github.com/hardiksrivastavaa/IG-CRUD/internal/store"
)

// ListPosts renders every post in insertion order.
func ListPosts(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, viewPost.Index(s.List()))
	}
}

// ServeNewPostForm renders the form for creating a post.
func ServeNewPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, r, viewPost.New())
	}
}

// SubmitNewPost creates a post from the username and content form fields.
func SubmitNewPost(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			log.Printf("failed to parse form values: %v", err)
			return
		}

		p := s.Create(r.PostFormValue("username"), r.PostFormValue("content"))

		slog.InfoContext(r.Context(), "post created",
			slog.String("id", p.ID),
			slog.String("username", p.Username),
			slog.Int("total", s.Len()))

		redirectToPosts(w, r)
	}
}

// ShowPost renders a single post, or 404 when the id is unknown.
func ShowPost(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.FindByID(chi.URLParam(r, "id"))
		if !ok {
			postNotFound(w)
			return
		}

		render(w, r, viewPost.Show(p))
	}
}

// ServeEditPostForm renders the edit form, or 404 when the id is unknown.
func ServeEditPostForm(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := s.FindByID(chi.URLParam(r, "id"))
		if !ok {
			postNotFound(w)
			return
		}

		render(w, r, viewPost.Edit(p))
	}
}

// SubmitPostUpdate replaces a post's content. The username is never touched.
func SubmitPostUpdate(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data.", http.StatusBadRequest)
			log.Printf("failed to parse form values: %v", err)
			return
		}

		id := chi.URLParam(r, "id")
		err := s.UpdateContent(id, r.PostFormValue("content"))
		if errors.Is(err, store.ErrNotFound) {
			postNotFound(w)
			return
		}
		if err != nil {
			http.Error(w, "Server error.", http.StatusInternalServerError)
			log.Printf("failed to update post %s: %v", id, err)
			return
		}

		slog.InfoContext(r.Context(), "post updated", slog.String("id", id))

		redirectToPosts(w, r)
	}
}

// SubmitPostDelete removes a post. Unknown ids still redirect.
func SubmitPostDelete(s *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s.Delete(id)

		slog.InfoContext(r.Context(), "post deleted",
			slog.String("id", id),
			slog.Int("total", s.Len()))

		redirectToPosts(w, r)
	}
}
