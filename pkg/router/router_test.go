package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestNamedRouteLookup(t *testing.T) {
	r := New()
	r.Get("/order/{trackingCode}", "orders.show", ok)

	path, found := r.Path("orders.show")
	require.True(t, found)
	assert.Equal(t, "/order/{trackingCode}", path)

	_, found = r.Path("orders.missing")
	assert.False(t, found)
}

func TestURLSubstitutesParams(t *testing.T) {
	r := New()
	r.Get("/order/{trackingCode}", "orders.show", ok)

	url, err := r.URL("orders.show", map[string]string{"trackingCode": "1234"})
	require.NoError(t, err)
	assert.Equal(t, "/order/1234", url)

	_, err = r.URL("orders.show", nil)
	assert.Error(t, err, "unfilled params must be rejected")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixAndMiddlewareOrder(t *testing.T) {
	var trace []string
	tag := func(label string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trace = append(trace, label)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	admin := r.Group("/admin", tag("outer"))
	admin.Post("/products", "admin.products.store", ok, tag("inner"))

	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"outer", "inner"}, trace)

	path, found := r.Path("admin.products.store")
	require.True(t, found)
	assert.Equal(t, "/admin/products", path)
}

func TestNestedGroupsJoinPrefixes(t *testing.T) {
	r := New()
	api := r.Group("/api")
	v1 := api.Group("/v1")
	v1.Get("/schools", "schools.index", ok)

	path, found := r.Path("schools.index")
	require.True(t, found)
	assert.Equal(t, "/api/v1/schools", path)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schools", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoutesAreSortedForListing(t *testing.T) {
	r := New()
	r.Post("/b", "b.post", ok)
	r.Get("/b", "b.get", ok)
	r.Get("/a", "a.get", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/a", routes[0].Path)
	assert.Equal(t, http.MethodGet, routes[1].Method)
	assert.Equal(t, http.MethodPost, routes[2].Method)
}

func TestUnnamedRouteStillServes(t *testing.T) {
	r := New()
	r.Get("/healthz", "", ok)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, r.Routes())
}
