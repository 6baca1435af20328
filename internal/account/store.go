package account

import "context"

// Store is the persistence port for accounts. FindBy* methods return
// (nil, nil) when no row matches; errors mean the store itself failed.
type Store interface {
	Exists(ctx context.Context, handle string) (bool, error)
	Create(ctx context.Context, a *Account) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	FindByHandle(ctx context.Context, handle string) (*Account, error)
	FindByOpenID(ctx context.Context, openID string) (*Account, error)
	Update(ctx context.Context, id string, ch Changes) (*Account, error)
}
