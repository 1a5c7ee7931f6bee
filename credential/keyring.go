package credential

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

const serviceName = "halo-templates"

func openKeyring() (keyring.Keyring, error) {
	dir := "~/.config/halo-templates/credentials"
	if home, err := os.UserHomeDir(); err == nil {
		dir = filepath.Join(home, ".config", "halo-templates", "credentials")
	}

	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  dir,
		FilePasswordFunc:         keyring.FixedStringPrompt(serviceName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}

	return ring, nil
}

func key(clientID string) string {
	return "client-secret:" + clientID
}

// GetSecret retrieves the OAuth2 client secret stored for a client ID.
func GetSecret(clientID string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key(clientID))
	if err != nil {
		return "", fmt.Errorf("getting client secret for %q: %w", clientID, err)
	}

	return string(item.Data), nil
}

// SetSecret stores the OAuth2 client secret for a client ID in the system keyring.
func SetSecret(clientID string, secret string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:   key(clientID),
		Data:  []byte(secret),
		Label: fmt.Sprintf("%s client secret (%s)", serviceName, clientID),
	})
	if err != nil {
		return fmt.Errorf("setting client secret for %q: %w", clientID, err)
	}

	return nil
}
