// Package credentials stores the API token in the system keyring, falling
// back to a 0600 file under ~/.foodgram on headless systems.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "foodgram-cli"
	keyringUser    = "auth-token"
)

// ErrNoToken is returned when no token has been stored.
var ErrNoToken = errors.New("not logged in")

var (
	fallbackMode    bool
	fallbackChecked bool
	fallbackModeMu  sync.Mutex
)

// checkKeyringAvailable probes the keyring once per process.
func checkKeyringAvailable() bool {
	fallbackModeMu.Lock()
	defer fallbackModeMu.Unlock()

	if fallbackChecked {
		return !fallbackMode
	}

	testKey := "foodgram-keyring-test"
	if err := keyring.Set(keyringService, testKey, "test"); err != nil {
		fallbackMode = true
		fallbackChecked = true
		return false
	}
	_ = keyring.Delete(keyringService, testKey)
	fallbackChecked = true
	return true
}

func getFallbackPath() (string, error) {
	home := os.Getenv("FOODGRAM_HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(home, ".foodgram", ".token"), nil
}

// StoreToken saves the token, replacing any previous one.
func StoreToken(token string) error {
	if checkKeyringAvailable() {
		if err := keyring.Set(keyringService, keyringUser, token); err != nil {
			return fmt.Errorf("failed to store token in keyring: %w", err)
		}
		return nil
	}

	path, err := getFallbackPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Token returns the stored token or ErrNoToken.
func Token() (string, error) {
	if checkKeyringAvailable() {
		token, err := keyring.Get(keyringService, keyringUser)
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		if err != nil {
			return "", fmt.Errorf("failed to read token from keyring: %w", err)
		}
		return token, nil
	}

	path, err := getFallbackPath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// DeleteToken removes the token from both the keyring and the fallback file.
func DeleteToken() error {
	var keyringErr error
	if checkKeyringAvailable() {
		keyringErr = keyring.Delete(keyringService, keyringUser)
		if errors.Is(keyringErr, keyring.ErrNotFound) {
			keyringErr = nil
		}
	}

	path, err := getFallbackPath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return keyringErr
}

// StorageMode describes where tokens are kept.
func StorageMode() string {
	if checkKeyringAvailable() {
		return "system-keyring"
	}
	return "file-based (keyring unavailable)"
}
