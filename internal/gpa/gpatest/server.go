// Package gpatest provides an in-process fake of the GPA API.
package gpatest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"price-crawler/internal/models"
)

const notFoundBody = `{"status":"error","message":"not found","code":404}`

// Server serves canned bodies keyed by request URI. Unknown URIs get a
// 404 envelope.
type Server struct {
	t      testing.TB
	server *httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	status map[string]int
	hits   map[string]int
}

// NewServer starts a fake closed at the end of the test
func NewServer(t testing.TB) *Server {
	s := &Server{
		t:      t,
		bodies: make(map[string]string),
		status: make(map[string]int),
		hits:   make(map[string]int),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.server.Close)
	return s
}

func (s *Server) URL() string {
	return s.server.URL
}

func (s *Server) Close() {
	s.server.Close()
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	uri := r.URL.RequestURI()
	s.hits[uri]++
	body, ok := s.bodies[uri]
	status := s.status[uri]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFoundBody))
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// Handle answers uri with body and HTTP 200
func (s *Server) Handle(uri, body string) {
	s.HandleStatus(uri, http.StatusOK, body)
}

// HandleStatus answers uri with body and the given HTTP status
func (s *Server) HandleStatus(uri string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bodies[uri] = body
	s.status[uri] = status
}

// Success answers uri with a success envelope around content
func (s *Server) Success(uri string, content interface{}) {
	raw, err := json.Marshal(map[string]interface{}{
		"status":  "success",
		"message": "ok",
		"code":    200,
		"content": content,
	})
	if err != nil {
		s.t.Fatalf("failed to marshal content: %v", err)
	}
	s.Handle(uri, string(raw))
}

// Hits returns how many times uri was requested
func (s *Server) Hits(uri string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[uri]
}

func CatalogURI(brand models.Brand) string {
	return fmt.Sprintf("/%s/v2/delivery/ecom/driveThru", brand)
}

func PriceURI(brand models.Brand, productID, storeID int64) string {
	return fmt.Sprintf("/%s/v4/products/ecom/%d/bestPrices?storeId=%d&sellType=&isClienteMais=true",
		brand, productID, storeID)
}
