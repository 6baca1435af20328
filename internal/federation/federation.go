// Package federation resolves a third-party identity to a local account.
package federation

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/WilliamDu1981/angular2club/internal/account"
	"github.com/WilliamDu1981/angular2club/internal/provider"
)

// ErrProvider marks a failure while talking to the identity provider
// before the fan-out starts (token exchange or open id lookup).
var ErrProvider = errors.New("identity provider request failed")

// Flow orchestrates the federated login: resolve the provider identity,
// join the local-account lookup with the remote profile fetch, then
// create or refresh the local account.
type Flow struct {
	providers *provider.Registry
	store     account.Store
}

func New(providers *provider.Registry, store account.Store) *Flow {
	return &Flow{
		providers: providers,
		store:     store,
	}
}

// Result is the outcome of a federated login.
type Result struct {
	Account *account.Account
	Created bool
}

// Callback handles the provider redirect for an authorization code.
//
// Phase 1 runs the two dependent provider calls in order: code to
// access token, then token to open id. Phase 2 fans out two
// independent branches and joins on both: the local account lookup by
// open id and the remote profile fetch. The continuation after Wait
// runs exactly once and reads both results by name, so the branches
// may finish in either order. Phase 3 decides create vs update.
// Every remote and store call is attempted exactly once.
func (f *Flow) Callback(ctx context.Context, providerName, code string) (*Result, error) {
	p, err := f.providers.Get(providerName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	accessToken, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	openID, err := p.FetchOpenID(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	var (
		local   *account.Account
		profile *provider.Profile
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := f.store.FindByOpenID(gctx, openID)
		if err != nil {
			return fmt.Errorf("local account lookup: %w", err)
		}
		local = a
		return nil
	})
	g.Go(func() error {
		pr, err := p.FetchProfile(gctx, accessToken, openID)
		if err != nil {
			return fmt.Errorf("profile fetch: %w", err)
		}
		profile = pr
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if local != nil {
		updated, err := f.store.Update(ctx, local.ID, account.Changes{
			NickName: &profile.NickName,
			Gender:   &profile.Gender,
			Avatar:   &profile.Avatar,
			Province: &profile.Province,
			City:     &profile.City,
		})
		if err != nil {
			return nil, fmt.Errorf("profile refresh: %w", err)
		}
		return &Result{Account: updated}, nil
	}

	created, err := f.store.Create(ctx, &account.Account{
		Account:  openID,
		OpenID:   openID,
		NickName: profile.NickName,
		Gender:   profile.Gender,
		Avatar:   profile.Avatar,
		Province: profile.Province,
		City:     profile.City,
		Type:     account.TypeQQ,
		IsActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("federated account create: %w", err)
	}
	return &Result{Account: created, Created: true}, nil
}
