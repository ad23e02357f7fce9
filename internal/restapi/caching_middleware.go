package restapi

import (
	"fmt"
	"net/http"
)

const noStore = "no-cache, no-store, must-revalidate"

// CacheControlMiddleware marks successful GET responses cacheable for
// maxAgeSeconds. Errors, writes and a zero max age are never cached.
func CacheControlMiddleware(maxAgeSeconds int, next http.Handler) http.Handler {
	cacheable := noStore
	if maxAgeSeconds > 0 {
		cacheable = fmt.Sprintf("public, max-age=%d", maxAgeSeconds)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		value := cacheable
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			value = noStore
		}
		next.ServeHTTP(&cacheControlWriter{ResponseWriter: w, successValue: value}, r)
	})
}

type cacheControlWriter struct {
	http.ResponseWriter
	successValue string
	decided      bool
}

func (w *cacheControlWriter) WriteHeader(code int) {
	if !w.decided {
		w.decided = true
		value := noStore
		if code >= 200 && code < 300 {
			value = w.successValue
		}
		w.ResponseWriter.Header().Set("Cache-Control", value)
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheControlWriter) Write(b []byte) (int, error) {
	if !w.decided {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *cacheControlWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
