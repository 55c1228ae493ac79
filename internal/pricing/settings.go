package pricing

import (
	"fmt"

	"github.com/fernet/fernet-go"
)

// Keyring encrypts and decrypts price provider API keys with a fernet key.
// Tokens are safe to store at rest; plaintext keys never touch the database.
type Keyring struct {
	key *fernet.Key
}

// NewKeyring decodes a base64 fernet key from configuration.
func NewKeyring(encodedKey string) (*Keyring, error) {
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode fernet key: %w", err)
	}
	return &Keyring{key: key}, nil
}

// GenerateKeyring creates a keyring with a fresh random key. Used when no
// key is configured; tokens then survive only for the process lifetime.
func GenerateKeyring() (*Keyring, error) {
	var key fernet.Key
	if err := key.Generate(); err != nil {
		return nil, fmt.Errorf("failed to generate fernet key: %w", err)
	}
	return &Keyring{key: &key}, nil
}

// Encrypt seals a plaintext API key into a fernet token.
func (k *Keyring) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), k.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt api key: %w", err)
	}
	return string(token), nil
}

// Decrypt opens a fernet token back into the plaintext API key. Tokens do
// not expire; the TTL of zero disables age checking.
func (k *Keyring) Decrypt(token string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{k.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt api key: invalid token")
	}
	return string(plaintext), nil
}
