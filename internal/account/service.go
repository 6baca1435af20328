package account

import (
	"context"
	"fmt"

	"github.com/WilliamDu1981/angular2club/internal/credentials"
	"github.com/WilliamDu1981/angular2club/internal/logger"
)

// Mailer delivers the activation mail. Delivery is best-effort:
// callers never wait on it and never see its errors.
type Mailer interface {
	SendActivationMail(ctx context.Context, a *Account) error
}

type Service struct {
	store  Store
	hasher *credentials.Hasher
	mailer Mailer
}

func NewService(store Store, hasher *credentials.Hasher, mailer Mailer) *Service {
	return &Service{
		store:  store,
		hasher: hasher,
		mailer: mailer,
	}
}

type SignupInput struct {
	Account  string
	NickName string
	Password string
}

// Signup creates an inactive local account and dispatches the activation
// mail without awaiting delivery. Mail failure is logged, never returned.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*Account, error) {
	exists, err := s.store.Exists(ctx, in.Account)
	if err != nil {
		return nil, fmt.Errorf("signup uniqueness check: %w", err)
	}
	if exists {
		return nil, ErrAccountExists
	}

	created, err := s.store.Create(ctx, &Account{
		Account:        in.Account,
		NickName:       in.NickName,
		HashedPassword: s.hasher.Hash(in.Password),
		IsActive:       false,
		Type:           TypeLocal,
	})
	if err != nil {
		return nil, err
	}

	// Detached from the request: the response must not depend on
	// mail deliverability.
	mailCtx := context.WithoutCancel(ctx)
	go func(a Account) {
		if err := s.mailer.SendActivationMail(mailCtx, &a); err != nil {
			logger.Error("activation mail failed", map[string]any{
				"account": a.Account,
				"error":   err.Error(),
			})
			return
		}
		logger.Info("activation mail sent", map[string]any{
			"account": a.Account,
		})
	}(*created)

	return created, nil
}

// Unique reports whether the handle is still free.
func (s *Service) Unique(ctx context.Context, handle string) (bool, error) {
	exists, err := s.store.Exists(ctx, handle)
	if err != nil {
		return false, fmt.Errorf("uniqueness check: %w", err)
	}
	return !exists, nil
}

// Activate flips an inactive account to active. A second attempt on the
// same account reports ErrAlreadyActive; concurrent attempts both write
// the same value, so no guard is needed beyond the state check.
func (s *Service) Activate(ctx context.Context, id string) (*Account, error) {
	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if a.IsActive {
		return nil, ErrAlreadyActive
	}

	active := true
	return s.store.Update(ctx, a.ID, Changes{IsActive: &active})
}

// Signin verifies credentials and returns the account on success.
// Session issuance belongs to the caller.
func (s *Service) Signin(ctx context.Context, handle, password string) (*Account, error) {
	a, err := s.store.FindByHandle(ctx, handle)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	if !a.IsActive {
		return nil, ErrNotActive
	}
	if !s.hasher.Verify(password, a.HashedPassword) {
		return nil, ErrPasswordIncorrect
	}
	return a, nil
}

// UpdateProfile applies a self-service profile change. Handle and
// credential changes are rejected before this point, in the handler.
func (s *Service) UpdateProfile(ctx context.Context, id string, ch Changes) (*Account, error) {
	return s.store.Update(ctx, id, ch)
}
