package accounts

import (
	"context"
)

// AccountStore defines the interface for account table operations
type AccountStore interface {
	CreateAccount(ctx context.Context, account *Account) (*Account, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	UpdateAccount(ctx context.Context, accountID string, patch Patch) (*Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
	Count(ctx context.Context) int
}

// AccountService defines the interface for account service operations.
// Every authenticated operation receives the raw Credentials of the caller.
type AccountService interface {
	CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreatedView, error)
	GetAccount(ctx context.Context, accountID string, creds Credentials) (*ProfileView, error)
	UpdateAccount(ctx context.Context, accountID string, creds Credentials, patch Patch) (*UpdatedView, error)
	CloseAccount(ctx context.Context, creds Credentials) error
}
