package accounts

import (
	"context"
	"crypto/subtle"

	"go.uber.org/zap"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	store  AccountStore
	logger *zap.Logger
}

// NewAccountService creates a new account service instance
func NewAccountService(store AccountStore, logger *zap.Logger) *AccountServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountServiceImpl{
		store:  store,
		logger: logger,
	}
}

// CreateAccount validates the id and secret and inserts a new account whose
// display name defaults to its id
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreatedView, error) {
	if err := ValidateCreateRequest(req); err != nil {
		return nil, err
	}

	account, err := s.store.CreateAccount(ctx, &Account{
		ID:          req.ID,
		Secret:      req.Secret,
		DisplayName: req.ID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account created", zap.String("account_id", account.ID))
	return account.createdView(), nil
}

// GetAccount returns the public profile of accountID. The caller must
// authenticate as that same account.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, accountID string, creds Credentials) (*ProfileView, error) {
	if !creds.Present {
		return nil, NewAccountAuthError(accountID)
	}

	account, err := s.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if creds.ID != accountID || !secretMatches(account, creds.Secret) {
		s.logger.Warn("Authentication failed", zap.String("account_id", accountID), zap.String("operation", "get"))
		return nil, NewAccountAuthError(accountID)
	}

	return account.profileView(), nil
}

// UpdateAccount applies patch to accountID on behalf of the authenticated caller
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, accountID string, creds Credentials, patch Patch) (*UpdatedView, error) {
	if _, err := s.authenticate(ctx, creds, "update"); err != nil {
		return nil, err
	}

	if creds.ID != accountID {
		s.logger.Warn("Update of another account rejected",
			zap.String("caller_id", creds.ID),
			zap.String("account_id", accountID))
		return nil, NewAccountPermissionError(accountID, "No Permission for Update")
	}

	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	if patch.DisplayName == nil && patch.Note == nil {
		return nil, NewAccountValidationError(accountID, "required displayName or note", nil)
	}
	if len(patch.Immutable) > 0 {
		return nil, NewAccountValidationError(accountID, "not updatable id and secret", nil)
	}

	account, err := s.store.UpdateAccount(ctx, accountID, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account updated",
		zap.String("account_id", accountID),
		zap.Bool("display_name", patch.DisplayName != nil),
		zap.Bool("note", patch.Note != nil))
	return account.updatedView(), nil
}

// CloseAccount removes the authenticated caller's account
func (s *AccountServiceImpl) CloseAccount(ctx context.Context, creds Credentials) error {
	account, err := s.authenticate(ctx, creds, "close")
	if err != nil {
		return err
	}

	if err := s.store.DeleteAccount(ctx, account.ID); err != nil {
		// removed concurrently between lookup and delete
		if IsErrorType(err, AccountErrorTypeNotFound) {
			return NewAccountAuthError(account.ID)
		}
		return err
	}

	s.logger.Info("Account closed", zap.String("account_id", account.ID))
	return nil
}

// authenticate resolves creds to the caller's own account. A missing header,
// an unknown id and a wrong secret all fail the same way.
func (s *AccountServiceImpl) authenticate(ctx context.Context, creds Credentials, operation string) (*Account, error) {
	if !creds.Present {
		return nil, NewAccountAuthError("")
	}

	account, err := s.store.GetAccount(ctx, creds.ID)
	if err != nil {
		if IsErrorType(err, AccountErrorTypeNotFound) {
			s.logger.Warn("Authentication failed", zap.String("account_id", creds.ID), zap.String("operation", operation))
			return nil, NewAccountAuthError(creds.ID)
		}
		return nil, err
	}

	if !secretMatches(account, creds.Secret) {
		s.logger.Warn("Authentication failed", zap.String("account_id", creds.ID), zap.String("operation", operation))
		return nil, NewAccountAuthError(creds.ID)
	}

	return account, nil
}

func secretMatches(account *Account, secret string) bool {
	return subtle.ConstantTimeCompare([]byte(account.Secret), []byte(secret)) == 1
}
