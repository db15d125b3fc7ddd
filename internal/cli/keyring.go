package cli

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService = "renderscreenshot"
	keyringUser    = "api-key"
)

// errNoStoredKey is returned when the keyring holds no API key.
var errNoStoredKey = errors.New("no API key stored in the system keyring")

// keyStore keeps the API key in the OS keyring (macOS Keychain, Secret
// Service on Linux, Windows Credential Manager).
type keyStore struct {
	service string
	user    string
}

func newKeyStore() *keyStore {
	return &keyStore{service: keyringService, user: keyringUser}
}

func (k *keyStore) get() (string, error) {
	key, err := keyring.Get(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", errNoStoredKey
	}
	if err != nil {
		return "", fmt.Errorf("keyring error: %w", err)
	}
	return key, nil
}

func (k *keyStore) set(key string) error {
	if err := keyring.Set(k.service, k.user, key); err != nil {
		return fmt.Errorf("keyring error: %w", err)
	}
	return nil
}

// delete removes the stored key. It reports false if there was none.
func (k *keyStore) delete() (bool, error) {
	err := keyring.Delete(k.service, k.user)
	if errors.Is(err, keyring.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("keyring error: %w", err)
	}
	return true, nil
}
