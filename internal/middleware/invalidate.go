package middleware

import "net/http"

// InvalidateOnWrite calls purge after every successful non-GET request.
// Admin mutations use it to drop cached public pages.
func InvalidateOnWrite(purge func()) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}

			writer := &logWriter{code: http.StatusOK, ResponseWriter: w}
			next.ServeHTTP(writer, r)

			if writer.code < http.StatusBadRequest {
				purge()
			}
		})
	}
}
