// Package services contains application services for the EchoVault client.
// This file defines the local account service used by the password sign-in
// provider: registration and credential verification against the metadata
// table.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/echovault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/echovault/internal/common"
	"github.com/dmitrijs2005/echovault/internal/cryptox"
	"github.com/dmitrijs2005/echovault/internal/dbx"
	"github.com/google/uuid"
)

// Account is a verified local identity.
type Account struct {
	UserID string
	Email  string
}

// AuthService defines local account operations.
//
// Contract:
//   - Register: create an account; common.ErrAccountExists if the email is taken.
//   - Verify: check credentials; common.ErrInvalidCredentials on any mismatch,
//     including an unknown email.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte) (*Account, error)
	Verify(ctx context.Context, email string, password []byte) (*Account, error)
}

type authService struct {
	db *sql.DB
}

// NewAuthService constructs an AuthService bound to the local DB.
func NewAuthService(db *sql.DB) AuthService {
	return &authService{db: db}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func accountKey(email, field string) string {
	return common.AccountKeyPrefix + email + ":" + field
}

// Verify derives a verifier from (password, salt) stored locally and compares
// it with the stored one in constant time.
func (a *authService) Verify(ctx context.Context, email string, password []byte) (*Account, error) {
	email = NormalizeEmail(email)
	repo := metadata.NewSQLiteRepository(a.db)

	get := func(field string) ([]byte, error) {
		v, err := repo.Get(ctx, accountKey(email, field))
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return v, err
	}

	salt, err := get("salt")
	if err != nil {
		return nil, err
	}
	verifier, err := get("verifier")
	if err != nil {
		return nil, err
	}
	id, err := get("id")
	if err != nil {
		return nil, err
	}

	if !cryptox.CheckVerifier(password, salt, verifier) {
		return nil, common.ErrInvalidCredentials
	}
	return &Account{UserID: string(id), Email: email}, nil
}

// Register generates a random salt, derives a verifier from the password and
// stores id, salt and verifier in a single transaction.
func (a *authService) Register(ctx context.Context, email string, password []byte) (*Account, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, &common.ValidationError{Field: "email", Msg: "Please enter a valid email address."}
	}
	if len(password) == 0 {
		return nil, &common.ValidationError{Field: "password", Msg: "Please enter a password."}
	}

	acc := &Account{UserID: uuid.NewString(), Email: email}
	salt := common.GenerateRandByteArray(cryptox.SaltSize)
	verifier := cryptox.MakeVerifier(password, salt)

	err := dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)

		_, err := repo.Get(ctx, accountKey(email, "id"))
		if err == nil {
			return common.ErrAccountExists
		}
		if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		if err := repo.Set(ctx, accountKey(email, "id"), []byte(acc.UserID)); err != nil {
			return err
		}
		if err := repo.Set(ctx, accountKey(email, "salt"), salt); err != nil {
			return err
		}
		return repo.Set(ctx, accountKey(email, "verifier"), verifier)
	})
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", email, err)
	}
	return acc, nil
}
