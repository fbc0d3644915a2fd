package gpa

import (
	"testing"
	"time"

	"price-crawler/internal/cache"
	"price-crawler/internal/gpa/gpatest"
)

var (
	f64        = gpatest.F64
	testStore  = gpatest.Store
	inStock    = gpatest.InStock
	promo      = gpatest.Promo
	product    = gpatest.Product
	catalogURI = gpatest.CatalogURI
	priceURI   = gpatest.PriceURI
)

type fakeGPA struct {
	*gpatest.Server
}

func newFakeGPA(t *testing.T) *fakeGPA {
	return &fakeGPA{Server: gpatest.NewServer(t)}
}

func (f *fakeGPA) client() *Client {
	return NewClient(f.URL(), cache.NewMemoryCache(), 5*time.Second, false)
}

func (f *fakeGPA) success(uri string, content interface{}) { f.Success(uri, content) }

func (f *fakeGPA) handle(uri, body string) { f.Handle(uri, body) }

func (f *fakeGPA) handleStatus(uri string, status int, body string) { f.HandleStatus(uri, status, body) }

func (f *fakeGPA) hitCount(uri string) int { return f.Hits(uri) }
