// Package identity resolves opaque subject ids to display names through the
// identity provider's user directory. Lookups are best-effort: admin listings
// degrade to "unknown" rather than fail when the directory is unreachable.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Unknown is the display name used when a subject cannot be resolved.
const Unknown = "unknown"

// Directory resolves subject ids to display names. Missing ids are simply
// absent from the result map.
type Directory interface {
	Lookup(ctx context.Context, ids []string) (map[string]string, error)
}

// HTTPDirectory queries the identity provider's user endpoint:
// GET {BaseURL}/users?ids=a,b,c → [{"id": "...", "name": "...", "email": "..."}].
type HTTPDirectory struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHTTPDirectory creates a directory client with a bounded request timeout.
func NewHTTPDirectory(baseURL, token string) *HTTPDirectory {
	return &HTTPDirectory{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type directoryUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Lookup performs a single batch request for all ids.
func (d *HTTPDirectory) Lookup(ctx context.Context, ids []string) (map[string]string, error) {
	if len(ids) == 0 {
		return map[string]string{}, nil
	}

	reqURL := d.BaseURL + "/users?ids=" + url.QueryEscape(strings.Join(ids, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building directory request: %w", err)
	}
	if d.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.Token)
	}

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("directory returned status %d", resp.StatusCode)
	}

	var users []directoryUser
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, fmt.Errorf("decoding directory response: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		name := strings.TrimSpace(u.Name)
		if name == "" {
			name = u.Email
		}
		if name != "" {
			names[u.ID] = name
		}
	}
	return names, nil
}

// Static is a fixed in-memory directory, used in tests and deployments
// without a reachable user endpoint.
type Static map[string]string

// Lookup returns the subset of ids present in the map.
func (s Static) Lookup(_ context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string)
	for _, id := range ids {
		if name, ok := s[id]; ok {
			names[id] = name
		}
	}
	return names, nil
}
