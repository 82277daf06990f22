package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibyanalytics/nfl-gateway/internal/registry"
	"github.com/ibyanalytics/nfl-gateway/internal/resource"
)

func testEndpoint(url string, timeout time.Duration) registry.Endpoint {
	return registry.Endpoint{
		Provider:    "test",
		URLTemplate: url,
		Timeout:     timeout,
	}
}

func TestExecuteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	e := New(6000, nil)
	res := e.Execute(context.Background(), testEndpoint(srv.URL, time.Second), nil)

	require.True(t, res.Succeeded)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.JSONEq(t, `{"ok":true}`, string(res.Body))
	assert.Equal(t, KindNone, res.ErrorKind)
}

func TestExecuteSendsEndpointHeaders(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Rapidapi-Key")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	ep := testEndpoint(srv.URL, time.Second)
	ep.Headers = map[string]string{"x-rapidapi-key": "secret", "x-empty": ""}

	e := New(6000, nil)
	res := e.Execute(context.Background(), ep, nil)

	require.True(t, res.Succeeded)
	assert.Equal(t, "secret", gotKey)
}

func TestExecuteInvalidURLMakesNoNetworkCall(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	e := New(6000, nil)

	for _, url := range []string{
		srv.URL + "/games?week={week}",
		srv.URL + "/teams/undefined/roster",
		srv.URL + "/games?team=null",
	} {
		res := e.Execute(context.Background(), testEndpoint(url, time.Second), nil)
		assert.False(t, res.Succeeded)
		assert.Equal(t, KindInvalidURL, res.ErrorKind, url)
	}
	assert.Equal(t, int32(0), calls.Load(), "invalid URLs must never reach the network")
}

func TestExecuteAppendsSecretQuery(t *testing.T) {
	var gotKey, gotRegions string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apiKey")
		gotRegions = r.URL.Query().Get("regions")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	ep := testEndpoint(srv.URL+"/odds?regions={regions}", time.Second)
	ep.Query = map[string]string{"apiKey": "sekret", "unset": ""}

	e := New(6000, nil)
	res := e.Execute(context.Background(), ep, resource.Params{"regions": "us"})

	require.True(t, res.Succeeded)
	assert.Equal(t, "sekret", gotKey)
	assert.Equal(t, "us", gotRegions)
}

func TestExecuteRedactsSecretQueryFromErrors(t *testing.T) {
	ep := testEndpoint("http://127.0.0.1:1/odds", time.Second)
	ep.Query = map[string]string{"apiKey": "sekret"}

	e := New(6000, nil)
	res := e.Execute(context.Background(), ep, nil)

	require.False(t, res.Succeeded)
	require.Error(t, res.Err)
	assert.NotContains(t, res.Err.Error(), "sekret", "API key must never appear in attempt errors")
	assert.Contains(t, res.Err.Error(), "REDACTED")
}

func TestExecuteNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := New(6000, nil)
	res := e.Execute(context.Background(), testEndpoint(srv.URL, time.Second), nil)

	assert.False(t, res.Succeeded)
	assert.Equal(t, KindHTTP, res.ErrorKind)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
}

func TestExecuteTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	e := New(6000, nil)
	res := e.Execute(context.Background(), testEndpoint(srv.URL, 30*time.Millisecond), nil)

	assert.False(t, res.Succeeded)
	assert.Equal(t, KindTimeout, res.ErrorKind)
}

func TestExecuteNetworkError(t *testing.T) {
	e := New(6000, nil)
	// Nothing listens on port 1.
	res := e.Execute(context.Background(), testEndpoint("http://127.0.0.1:1/", time.Second), nil)

	assert.False(t, res.Succeeded)
	assert.Equal(t, KindNetwork, res.ErrorKind)
}

func TestExecuteParamsSubstitution(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	e := New(6000, nil)
	res := e.Execute(context.Background(),
		testEndpoint(srv.URL+"/games?season={season}", time.Second),
		resource.Params{"season": "2025"})

	require.True(t, res.Succeeded)
	assert.Equal(t, "/games?season=2025", gotPath)
}
