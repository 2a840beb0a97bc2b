package auth

import "os"

// EnvironmentStore reads credentials from environment variables. It is a
// read-only last resort behind the file and keyring stores.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-backed credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreReadOnly
}

// Retrieve reads ADPFETCH_USERNAME and ADPFETCH_PASSWORD
func (e *EnvironmentStore) Retrieve() (*Account, error) {
	username := os.Getenv("ADPFETCH_USERNAME")
	password := os.Getenv("ADPFETCH_PASSWORD")

	if username == "" || password == "" {
		return nil, ErrCredentialsNotFound
	}

	return &Account{Username: username, Password: password}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete() error {
	return ErrStoreReadOnly
}

// Exists checks if both environment variables are set
func (e *EnvironmentStore) Exists() bool {
	return os.Getenv("ADPFETCH_USERNAME") != "" && os.Getenv("ADPFETCH_PASSWORD") != ""
}
