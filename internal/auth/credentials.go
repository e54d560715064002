package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/nexus-suite/helpdesk/internal/domain"
)

// ErrInvalidCredentials is the single rejection returned for any failed check.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RejectionMessage is shown on the login view after a failed check.
const RejectionMessage = "Authentication failed. Check credentials and try again."

// Account is one of the fixed demo identities.
type Account struct {
	Role        domain.Role
	Identifier  string
	DisplayName string
	secretHash  string
}

// DemoAccount pairs an identity with its plaintext secret before hashing.
type DemoAccount struct {
	Role        domain.Role
	Identifier  string
	Secret      string
	DisplayName string
}

// DemoAccounts are the only identities accepted by the service.
var DemoAccounts = []DemoAccount{
	{Role: domain.RoleUser, Identifier: "user", Secret: "user123", DisplayName: "Alex Johnson"},
	{Role: domain.RoleAdmin, Identifier: "admin", Secret: "admin123", DisplayName: "Sarah Miller"},
}

// Directory checks claimed credentials against a fixed account list.
// It is a placeholder: no lockout, no rate limiting.
type Directory struct {
	accounts []Account
}

// NewDirectory hashes the given accounts' secrets with bcrypt.
func NewDirectory(cost int, accounts ...DemoAccount) (*Directory, error) {
	dir := &Directory{accounts: make([]Account, 0, len(accounts))}
	for _, acc := range accounts {
		hash, err := hashSecret(acc.Secret, cost)
		if err != nil {
			return nil, fmt.Errorf("hash secret for %s: %w", acc.Identifier, err)
		}
		dir.accounts = append(dir.accounts, Account{
			Role:        acc.Role,
			Identifier:  acc.Identifier,
			DisplayName: acc.DisplayName,
			secretHash:  hash,
		})
	}
	return dir, nil
}

// Check returns the session for the account matching role, identifier and
// secret. A role that does not own the identifier fails like a bad secret.
func (d *Directory) Check(role domain.Role, identifier, secret string) (domain.Session, error) {
	for _, acc := range d.accounts {
		if acc.Role != role || acc.Identifier != identifier {
			continue
		}
		if err := bcrypt.CompareHashAndPassword([]byte(acc.secretHash), []byte(secret)); err != nil {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{Role: acc.Role, Name: acc.DisplayName}, nil
	}
	return domain.Session{}, ErrInvalidCredentials
}

func hashSecret(secret string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
