package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/Gopher0727/Messenger/pkg/errors"
)

// Profile is the user-facing view of a numeric user id, owned by the
// identity service.
type Profile struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Nickname  string `json:"nickname"`
	AvatarURL string `json:"avatar_url"`
}

// Resolver turns a numeric user id into a profile. Implementations must
// honor the deadline carried by ctx and make exactly one attempt; retry
// policy, if any, lives behind this interface, not in callers.
type Resolver interface {
	ResolveUser(ctx context.Context, userID uint) (*Profile, error)
}

// HTTPResolver resolves profiles against the identity service over its
// internal JSON API.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

func NewHTTPResolver(baseURL string, client *http.Client) *HTTPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPResolver{baseURL: baseURL, client: client}
}

func (r *HTTPResolver) ResolveUser(ctx context.Context, userID uint) (*Profile, error) {
	url := fmt.Sprintf("%s/internal/v1/users/%d", r.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperrors.Unresolved("build identity request", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, apperrors.Unresolved(fmt.Sprintf("resolve user %d", userID), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Unresolved(
			fmt.Sprintf("resolve user %d: identity service returned %d", userID, resp.StatusCode), nil)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, apperrors.Unresolved(fmt.Sprintf("decode profile of user %d", userID), err)
	}
	return &profile, nil
}

// StaticResolver serves profiles from a fixed map. Used in tests and
// local development.
type StaticResolver struct {
	profiles map[uint]Profile
}

func NewStaticResolver(profiles map[uint]Profile) *StaticResolver {
	return &StaticResolver{profiles: profiles}
}

func (r *StaticResolver) ResolveUser(_ context.Context, userID uint) (*Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, apperrors.Unresolved(fmt.Sprintf("resolve user %d: unknown user", userID), nil)
	}
	return &profile, nil
}
