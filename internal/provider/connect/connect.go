// Package connect implements the QQ Connect identity provider.
//
// The flow is three sequentially dependent remote calls: exchange the
// authorization code for an access token, resolve the token's open id,
// then fetch the profile for that open id. QQ Connect is plain OAuth2
// without OIDC: there is no id_token, the openid lookup is its own
// endpoint, and API calls carry the token as a query parameter.
package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"github.com/WilliamDu1981/angular2club/internal/provider"
)

const providerName = "qq"

type Client struct {
	oauthConfig *oauth2.Config
	appID       string
	graphURL    string
	httpClient  *http.Client
}

// New configures a QQ Connect client. graphURL is the API origin
// (https://graph.qq.com in production, an httptest server in tests).
func New(appID, appSecret, redirectURL, graphURL string) (*Client, error) {
	if appID == "" || appSecret == "" || redirectURL == "" || graphURL == "" {
		return nil, errors.New("qq connect config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     appID,
		ClientSecret: appSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:  graphURL + "/oauth2.0/authorize",
			TokenURL: graphURL + "/oauth2.0/token",
		},
		Scopes: []string{"get_user_info"},
	}

	return &Client{
		oauthConfig: oauthCfg,
		appID:       appID,
		graphURL:    graphURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Name returns the provider identifier used by the registry.
func (c *Client) Name() string {
	return providerName
}

// AuthCodeURL builds the authorization URL for the given CSRF state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauthConfig.AuthCodeURL(state)
}

// ExchangeCode exchanges the authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("qq token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", errors.New("qq token exchange returned empty access token")
	}
	return token.AccessToken, nil
}

// FetchOpenID resolves the provider-scoped user id for the token.
func (c *Client) FetchOpenID(ctx context.Context, accessToken string) (string, error) {
	query := url.Values{
		"access_token": {accessToken},
		"fmt":          {"json"},
	}

	var payload struct {
		OpenID string `json:"openid"`
		Error  int    `json:"error"`
		Desc   string `json:"error_description"`
	}
	if err := c.getJSON(ctx, "/oauth2.0/me", query, &payload); err != nil {
		return "", fmt.Errorf("qq openid fetch failed: %w", err)
	}
	if payload.OpenID == "" {
		return "", fmt.Errorf("qq openid fetch failed: %s", payload.Desc)
	}
	return payload.OpenID, nil
}

// FetchProfile fetches the user profile for the token and open id.
func (c *Client) FetchProfile(ctx context.Context, accessToken, openID string) (*provider.Profile, error) {
	query := url.Values{
		"access_token":       {accessToken},
		"oauth_consumer_key": {c.appID},
		"openid":             {openID},
	}

	var payload struct {
		Ret      int    `json:"ret"`
		Msg      string `json:"msg"`
		NickName string `json:"nickname"`
		Gender   string `json:"gender"`
		Figure   string `json:"figureurl_qq_1"`
		Province string `json:"province"`
		City     string `json:"city"`
	}
	if err := c.getJSON(ctx, "/user/get_user_info", query, &payload); err != nil {
		return nil, fmt.Errorf("qq profile fetch failed: %w", err)
	}
	if payload.Ret != 0 {
		return nil, fmt.Errorf("qq profile fetch failed: ret=%d msg=%s", payload.Ret, payload.Msg)
	}

	return &provider.Profile{
		NickName: payload.NickName,
		Gender:   payload.Gender,
		Avatar:   payload.Figure,
		Province: payload.Province,
		City:     payload.City,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.graphURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return json.Unmarshal(body, out)
}
