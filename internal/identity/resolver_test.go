package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Gopher0727/Messenger/pkg/errors"
)

func TestHTTPResolverResolveUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/internal/v1/users/42":
			json.NewEncoder(w).Encode(Profile{ID: 42, Username: "alice", Nickname: "Alice"})
		case "/internal/v1/users/99":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	resolver := NewHTTPResolver(srv.URL, srv.Client())

	t.Run("resolves existing user", func(t *testing.T) {
		profile, err := resolver.ResolveUser(context.Background(), 42)
		require.NoError(t, err)
		assert.Equal(t, uint(42), profile.ID)
		assert.Equal(t, "alice", profile.Username)
	})

	t.Run("unknown user fails with resolution error", func(t *testing.T) {
		_, err := resolver.ResolveUser(context.Background(), 99)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeUnresolved, apperrors.CodeOf(err))
	})
}

func TestHTTPResolverDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	resolver := NewHTTPResolver(srv.URL, srv.Client())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := resolver.ResolveUser(ctx, 1)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnresolved, apperrors.CodeOf(err))
	assert.Less(t, time.Since(start), time.Second, "call must respect the caller-supplied deadline")
}

func TestStaticResolver(t *testing.T) {
	resolver := NewStaticResolver(map[uint]Profile{
		7: {ID: 7, Username: "bob"},
	})

	profile, err := resolver.ResolveUser(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)

	_, err = resolver.ResolveUser(context.Background(), 8)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeUnresolved, apperrors.CodeOf(err))
}
