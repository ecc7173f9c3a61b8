package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantmind-br/repocontext/internal/domain"
)

// Server is an httptest server answering registered routes. Unregistered
// paths get the mux's 404.
type Server struct {
	*httptest.Server
	mux *http.ServeMux
}

// NewServer starts a Server that shuts down with the test
func NewServer(t testing.TB) *Server {
	t.Helper()
	mux := http.NewServeMux()
	s := &Server{Server: httptest.NewServer(mux), mux: mux}
	t.Cleanup(s.Close)
	return s
}

// Route answers pattern with fn
func (s *Server) Route(pattern string, fn http.HandlerFunc) {
	s.mux.HandleFunc(pattern, fn)
}

// Text answers pattern with a 200 and body
func (s *Server) Text(pattern, contentType, body string) {
	s.Route(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write([]byte(body))
	})
}

// Status answers pattern with an empty body and code
func (s *Server) Status(pattern string, code int) {
	s.Route(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(code)
	})
}

// CannedResponse builds the domain.Response a Fetcher mock hands back
func CannedResponse(status int, contentType, body string) *domain.Response {
	h := make(http.Header)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &domain.Response{StatusCode: status, Body: []byte(body), Headers: h, ContentType: contentType}
}
