package handler

import (
	"net/http"
	"strings"
)

// parseForm parses a request body that may be either multipart (with an
// image field) or plain url-encoded, capping it at the upload limit.
func parseForm(w http.ResponseWriter, r *http.Request, maxSize int64) error {
	// Leave headroom for the text fields beside the file
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(512<<10))

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return r.ParseMultipartForm(maxSize)
	}

	return r.ParseForm()
}

// formValue returns a pointer to the form field's value, or nil when the
// field was not part of the request. The distinction drives partial
// update semantics.
func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// firstOf returns the first non-empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
