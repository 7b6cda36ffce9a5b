package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"studio/internal/domain/account"
)

// ChangePasswordInput carries input for the change-password orchestrator.
type ChangePasswordInput struct {
	AccountID       string
	CurrentPassword string // ignored for accounts that only ever used Google sign-in
	NewPassword     string
}

// AccountStoreForChangePassword defines the store interface needed by ChangePassword.
type AccountStoreForChangePassword interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangePasswordDeps holds dependencies for ChangePassword.
type ChangePasswordDeps struct {
	AccountStore AccountStoreForChangePassword
}

var (
	ErrCurrentPasswordWrong = errors.New("current password is incorrect")
	ErrNewPasswordSame      = errors.New("new password must be different from current password")
)

// ExecuteChangePassword sets a new local password for the signed-in account.
// PRE: AccountID belongs to the session principal
// POST: PasswordHash replaced and any lockout cleared
// INVARIANT: An account with a password must prove it before replacing it
func ExecuteChangePassword(ctx context.Context, input ChangePasswordInput, deps ChangePasswordDeps) error {
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	if acct.PasswordHash != "" {
		if err := acct.CheckPassword(input.CurrentPassword); err != nil {
			return invalid(ErrCurrentPasswordWrong)
		}
		if input.CurrentPassword == input.NewPassword {
			return invalid(ErrNewPasswordSame)
		}
	}
	if err := acct.SetPassword(input.NewPassword); err != nil {
		if errors.Is(err, account.ErrEmptyPassword) || errors.Is(err, account.ErrPasswordTooShort) {
			return invalid(err)
		}
		return fmt.Errorf("hash password: %w", err)
	}
	acct.ResetFailedLogins()

	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	slog.Info("auth_event", "event", "password_changed", "account_id", acct.ID)
	return nil
}
