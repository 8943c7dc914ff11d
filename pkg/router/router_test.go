package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchPattern(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"/api/v1/syncs", "/api/v1/syncs", true},
		{"/api/v1/syncs/abc", "/api/v1/syncs/*", true},
		{"/api/v1/syncs/abc/errors", "/api/v1/syncs/*/errors", true},
		{"/api/v1/syncs/abc/errors", "/api/v1/syncs/*", true}, // trailing wildcard swallows the rest
		{"/api/v1/syncs/abc/logs", "/api/v1/syncs/*/errors", false},
		{"/api/v1/other", "/api/v1/syncs", false},
		{"/swagger/index.html", "/swagger/*", true},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, matchPattern(tc.path, tc.pattern), "%s vs %s", tc.path, tc.pattern)
	}
}

func TestRouterDispatch(t *testing.T) {
	r := New()
	r.GET("/api/v1/syncs/*/errors", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("errors"))
	})
	r.GET("/api/v1/syncs/*", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("detail"))
	})
	r.POST("/api/v1/syncs", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/v1/syncs/run-1/errors")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Registration order decides: the specific route wins over the generic one.
	resp, err = http.Get(srv.URL + "/api/v1/syncs/run-1")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRouterNotFoundAndMethodNotAllowed(t *testing.T) {
	r := New()
	r.GET("/api/v1/syncs", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/v1/syncs", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
