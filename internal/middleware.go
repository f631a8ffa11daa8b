// Package internal wires the post board's HTTP surface together.
package internal

import (
	"log"
	"net/http"
	"strings"
)

// MethodOverrideParam names the query parameter or form field that carries
// the intended verb of a browser form submission.
const MethodOverrideParam = "_method"

// MethodOverride rewrites a POST into PATCH, PUT or DELETE when the request
// asks for it through MethodOverrideParam. The query string wins over the
// form body, and a body that cannot be parsed is rejected with 400. It must
// run before route matching.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			// ParseForm only reports a body error once, so check it here
			// before handlers see an empty form.
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Invalid form data.", http.StatusBadRequest)
				log.Printf("failed to parse form values: %v", err)
				return
			}

			method := r.URL.Query().Get(MethodOverrideParam)
			if method == "" {
				method = r.PostForm.Get(MethodOverrideParam)
			}

			switch method = strings.ToUpper(method); method {
			case http.MethodPatch, http.MethodPut, http.MethodDelete:
				r.Method = method
			}
		}

		next.ServeHTTP(w, r)
	})
}
