// Package identity adapts the external identity provider. The API server only
// needs two things from it: the subject baked into session tokens (handled by
// the auth middleware) and the role claim resolved here.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"server/internal/domain"
)

// RoleResolver resolves the role claim for a user. Implementations may be
// slow or networked; callers must treat failures as distinct from an
// unauthenticated request.
type RoleResolver interface {
	RoleOf(ctx context.Context, userID string) (domain.Role, error)
}

// StaticResolver returns the same role for every user. Useful for tests and
// single-tenant deployments without a management API.
type StaticResolver struct {
	Role domain.Role
}

func (s StaticResolver) RoleOf(context.Context, string) (domain.Role, error) {
	if s.Role == "" {
		return domain.RoleMember, nil
	}
	return s.Role, nil
}

type cachedRole struct {
	role    domain.Role
	fetched time.Time
}

// ProviderClient resolves roles from the identity provider's management API
// (GET {base}/v1/users/{id} with a bearer API key), reading the role claim out
// of the user's public metadata. Lookups are cached per user with a TTL so the
// hot path does not hit the network on every admin request.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	ttl        time.Duration
	httpClient *http.Client

	mu    sync.RWMutex
	cache map[string]cachedRole
}

// NewProviderClient creates a resolver against the given management API base
// URL. ttl <= 0 disables caching.
func NewProviderClient(baseURL, apiKey string, ttl time.Duration) *ProviderClient {
	return &ProviderClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		ttl:        ttl,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      make(map[string]cachedRole),
	}
}

type providerUser struct {
	ID             string `json:"id"`
	PublicMetadata struct {
		Role string `json:"role"`
	} `json:"public_metadata"`
}

// RoleOf returns the stored role claim for the user, defaulting to member when
// the claim is absent or the provider does not know the user. Transport and
// provider-side failures surface as domain.ErrUpstreamUnavailable.
func (c *ProviderClient) RoleOf(ctx context.Context, userID string) (domain.Role, error) {
	if role, ok := c.cached(userID); ok {
		return role, nil
	}

	url := fmt.Sprintf("%s/v1/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("identity: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", fmt.Errorf("%w: identity provider: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		// Unknown to the provider: treat as an ordinary member.
		c.store(userID, domain.RoleMember)
		return domain.RoleMember, nil
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: identity provider status %d", domain.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var user providerUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return "", fmt.Errorf("%w: identity provider payload: %v", domain.ErrUpstreamUnavailable, err)
	}

	role := domain.RoleMember
	if user.PublicMetadata.Role == string(domain.RoleAdmin) {
		role = domain.RoleAdmin
	}
	c.store(userID, role)
	return role, nil
}

func (c *ProviderClient) cached(userID string) (domain.Role, bool) {
	if c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.cache[userID]
	if !ok || time.Since(entry.fetched) > c.ttl {
		return "", false
	}
	return entry.role, true
}

func (c *ProviderClient) store(userID string, role domain.Role) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.cache[userID] = cachedRole{role: role, fetched: time.Now()}
	c.mu.Unlock()
}
