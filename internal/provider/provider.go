package provider

import "context"

// Profile is the normalized user profile returned by a provider.
// It contains facts only, no decisions.
type Profile struct {
	NickName string
	Gender   string
	Avatar   string
	Province string
	City     string
}

// Client defines the contract every federated identity provider must
// implement. Implementations return identity facts only and must not
// perform account creation, linking, or session management.
type Client interface {
	// Name returns the provider identifier (e.g. "qq").
	Name() string

	// AuthCodeURL returns the provider authorization URL for the
	// given CSRF state.
	AuthCodeURL(state string) string

	// ExchangeCode exchanges the authorization code for an access token.
	ExchangeCode(ctx context.Context, code string) (accessToken string, err error)

	// FetchOpenID resolves the provider-scoped user identifier for
	// the access token.
	FetchOpenID(ctx context.Context, accessToken string) (string, error)

	// FetchProfile fetches the user profile for the token and open id.
	FetchProfile(ctx context.Context, accessToken, openID string) (*Profile, error)
}
