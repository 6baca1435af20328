package account

import "time"

// Type discriminates how an account was created.
type Type int

const (
	TypeLocal Type = 1 // email + password signup
	TypeQQ    Type = 2 // federated via QQ Connect
)

// Account represents one principal.
//
// Handle semantics: for local accounts Account is the signup email;
// for federated accounts it is the provider-scoped open id.
type Account struct {
	ID             string    `json:"id"`
	Account        string    `json:"account"`
	NickName       string    `json:"nickName"`
	HashedPassword string    `json:"-"` // digest only, never serialized
	IsActive       bool      `json:"isActive"`
	OpenID         string    `json:"openId,omitempty"`
	Type           Type      `json:"type"`
	Gender         string    `json:"gender,omitempty"`
	Avatar         string    `json:"avatar,omitempty"`
	Province       string    `json:"province,omitempty"`
	City           string    `json:"city,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Changes is a partial update. Nil fields are left untouched.
type Changes struct {
	NickName *string
	IsActive *bool
	Gender   *string
	Avatar   *string
	Province *string
	City     *string
}
