package identity

import (
	"context"

	"github.com/dmitrijs2005/echovault/internal/client/services"
	"github.com/dmitrijs2005/echovault/internal/common"
)

// CredentialsFunc asks the user for an email and password.
type CredentialsFunc func(ctx context.Context) (email string, password []byte, err error)

// PasswordAuthenticator signs in local accounts created through
// services.AuthService.
type PasswordAuthenticator struct {
	accounts services.AuthService
	prompt   CredentialsFunc
}

func NewPasswordAuthenticator(accounts services.AuthService, prompt CredentialsFunc) *PasswordAuthenticator {
	return &PasswordAuthenticator{accounts: accounts, prompt: prompt}
}

func (a *PasswordAuthenticator) Authenticate(ctx context.Context) (*services.Account, error) {
	email, password, err := a.prompt(ctx)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(password)
	return a.accounts.Verify(ctx, email, password)
}
