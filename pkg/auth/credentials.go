package auth

import (
	"errors"
	"fmt"
)

// Account holds the ADP portal credentials for one person
type Account struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CredentialStore is the interface for storing and retrieving the single
// set of portal credentials this tool works with
type CredentialStore interface {
	// Store saves the credentials
	Store(account *Account) error

	// Retrieve gets the stored credentials
	Retrieve() (*Account, error)

	// Delete removes the stored credentials
	Delete() error

	// Exists checks if credentials are present
	Exists() bool
}

// Manager resolves credentials from an ordered list of stores
type Manager struct {
	stores []CredentialStore
}

// NewManager creates a credential manager. The plaintext credentials file
// named by credsFile is consulted first, then the system keychain, then
// environment variables.
func NewManager(credsFile string) *Manager {
	stores := []CredentialStore{NewFileStore(credsFile)}

	if keyringStore, err := NewKeyringStore(); err == nil {
		stores = append(stores, keyringStore)
	}

	stores = append(stores, NewEnvironmentStore())

	return &Manager{stores: stores}
}

// Resolve returns credentials from the first store that has them
func (m *Manager) Resolve() (*Account, error) {
	for _, store := range m.stores {
		if account, err := store.Retrieve(); err == nil && account != nil {
			return account, nil
		}
	}
	return nil, ErrCredentialsNotFound
}

// Store saves credentials to every writable store, succeeding if any does
func (m *Manager) Store(account *Account) error {
	if account.Username == "" {
		return errors.New("username is required")
	}
	if account.Password == "" {
		return errors.New("password is required")
	}

	var stored bool
	var lastErr error
	for _, store := range m.stores {
		if err := store.Store(account); err == nil {
			stored = true
		} else {
			lastErr = err
		}
	}

	if !stored && lastErr != nil {
		return fmt.Errorf("failed to store credentials: %w", lastErr)
	}
	if !stored {
		return errors.New("no available credential stores")
	}
	return nil
}

// Delete removes credentials from all stores
func (m *Manager) Delete() error {
	var deleted bool
	var lastErr error

	for _, store := range m.stores {
		if err := store.Delete(); err == nil {
			deleted = true
		} else {
			lastErr = err
		}
	}

	if !deleted && lastErr != nil {
		return fmt.Errorf("failed to delete credentials: %w", lastErr)
	}
	if !deleted {
		return ErrCredentialsNotFound
	}

	return nil
}

// SanitizeAccount creates a copy of the account with the password masked
func SanitizeAccount(account *Account) *Account {
	if account == nil {
		return nil
	}

	return &Account{
		Username: account.Username,
		Password: maskString(account.Password),
	}
}

// maskString masks all but the first and last characters of a string
func maskString(s string) string {
	if len(s) <= 4 {
		return "********"
	}
	return s[:1] + "******" + s[len(s)-1:]
}

// Errors
var (
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrStoreReadOnly       = errors.New("credential store is read-only")
)
