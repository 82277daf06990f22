package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibyanalytics/nfl-gateway/internal/config"
)

func TestRegisterRejectsUndeclaredPlaceholder(t *testing.T) {
	r := New()
	err := r.Register("games", []string{"season"},
		Endpoint{Provider: "espn", URLTemplate: "https://x.example/games?week={week}"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "undeclared parameter")
	assert.Contains(t, err.Error(), "week")
}

func TestRegisterRejectsUnbalancedTemplate(t *testing.T) {
	r := New()
	err := r.Register("games", []string{"week"},
		Endpoint{Provider: "espn", URLTemplate: "https://x.example/games?week={week"},
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unbalanced")
}

func TestResolveOrdersByPriority(t *testing.T) {
	r := New()
	require.NoError(t, r.Register("games", nil,
		Endpoint{Provider: "c", URLTemplate: "https://c.example/", Priority: 3},
		Endpoint{Provider: "a", URLTemplate: "https://a.example/", Priority: 1},
		Endpoint{Provider: "b", URLTemplate: "https://b.example/", Priority: 2},
	))

	endpoints, err := r.Resolve("games")
	require.NoError(t, err)
	require.Len(t, endpoints, 3)
	assert.Equal(t, "a", endpoints[0].Provider)
	assert.Equal(t, "b", endpoints[1].Provider)
	assert.Equal(t, "c", endpoints[2].Provider)
}

func TestResolveUnknownResource(t *testing.T) {
	r := New()
	_, err := r.Resolve("nope")
	require.ErrorIs(t, err, ErrUnknownResource)
}

func TestDefaultsCoverEveryResource(t *testing.T) {
	cfg := &config.Config{
		RequestTimeout:         10 * time.Second,
		SleeperTimeout:         30 * time.Second,
		MaxAttemptsPerEndpoint: 2,
		RetryBackoff:           500 * time.Millisecond,
	}
	r := Defaults(cfg)

	for _, name := range r.Resources() {
		endpoints, err := r.Resolve(name)
		require.NoError(t, err, name)
		require.NotEmpty(t, endpoints, name)
		for i := 1; i < len(endpoints); i++ {
			assert.LessOrEqual(t, endpoints[i-1].Priority, endpoints[i].Priority,
				"%s endpoints not priority-sorted", name)
		}
	}
}
