package auth

import (
	"fmt"
	"os"
	"strings"
)

// FileStore reads and writes credentials in the classic two-line plaintext
// format: username on the first line, password on the second.
type FileStore struct {
	path string
}

// NewFileStore creates a file-backed credential store at the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Store writes the credentials file, readable by the owner only
func (f *FileStore) Store(account *Account) error {
	if account == nil || account.Username == "" || account.Password == "" {
		return ErrInvalidCredentials
	}

	contents := account.Username + "\n" + account.Password + "\n"
	if err := os.WriteFile(f.path, []byte(contents), 0600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}

// Retrieve reads the first two lines of the credentials file
func (f *FileStore) Retrieve() (*Account, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) < 2 || lines[0] == "" || lines[1] == "" {
		return nil, fmt.Errorf("%w: expected username and password on the first two lines of %s",
			ErrInvalidCredentials, f.path)
	}

	return &Account{Username: lines[0], Password: lines[1]}, nil
}

// Delete removes the credentials file
func (f *FileStore) Delete() error {
	if err := os.Remove(f.path); err != nil {
		if os.IsNotExist(err) {
			return ErrCredentialsNotFound
		}
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

// Exists checks if the credentials file is present
func (f *FileStore) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Path returns the file path backing this store
func (f *FileStore) Path() string {
	return f.path
}
