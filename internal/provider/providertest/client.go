// Package providertest provides a scripted provider.Client for tests.
package providertest

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/WilliamDu1981/angular2club/internal/provider"
)

// FakeClient implements provider.Client with scripted responses and
// error fields for behavior injection.
type FakeClient struct {
	ProviderName string

	AccessToken string
	OpenID      string
	Profile     provider.Profile

	ExchangeErr error
	OpenIDErr   error
	ProfileErr  error

	// ProfileDelay lets join tests force the profile branch to finish last.
	ProfileDelay time.Duration

	exchangeCalls int32
	openIDCalls   int32
	profileCalls  int32
}

func (f *FakeClient) Name() string {
	if f.ProviderName == "" {
		return "qq"
	}
	return f.ProviderName
}

func (f *FakeClient) AuthCodeURL(state string) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *FakeClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	atomic.AddInt32(&f.exchangeCalls, 1)
	if f.ExchangeErr != nil {
		return "", f.ExchangeErr
	}
	return f.AccessToken, nil
}

func (f *FakeClient) FetchOpenID(ctx context.Context, accessToken string) (string, error) {
	atomic.AddInt32(&f.openIDCalls, 1)
	if f.OpenIDErr != nil {
		return "", f.OpenIDErr
	}
	return f.OpenID, nil
}

func (f *FakeClient) FetchProfile(ctx context.Context, accessToken, openID string) (*provider.Profile, error) {
	atomic.AddInt32(&f.profileCalls, 1)
	if f.ProfileDelay > 0 {
		time.Sleep(f.ProfileDelay)
	}
	if f.ProfileErr != nil {
		return nil, f.ProfileErr
	}
	p := f.Profile
	return &p, nil
}

func (f *FakeClient) ExchangeCalls() int { return int(atomic.LoadInt32(&f.exchangeCalls)) }
func (f *FakeClient) OpenIDCalls() int   { return int(atomic.LoadInt32(&f.openIDCalls)) }
func (f *FakeClient) ProfileCalls() int  { return int(atomic.LoadInt32(&f.profileCalls)) }
