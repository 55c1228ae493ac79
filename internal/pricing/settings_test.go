package pricing_test

import (
	"testing"

	"github.com/jchenq/portfolio-desk/internal/pricing"
)

// TestKeyring tests API key sealing.
//
// WHY: Provider keys are stored encrypted at rest; a keyring that cannot
// open its own tokens would lock every stored key out permanently.
func TestKeyring(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		keyring, err := pricing.GenerateKeyring()
		if err != nil {
			t.Fatalf("GenerateKeyring() returned unexpected error: %v", err)
		}

		token, err := keyring.Encrypt("sk-secret-provider-key")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}
		if token == "sk-secret-provider-key" {
			t.Fatal("token equals the plaintext")
		}

		plaintext, err := keyring.Decrypt(token)
		if err != nil {
			t.Fatalf("Decrypt() returned unexpected error: %v", err)
		}
		if plaintext != "sk-secret-provider-key" {
			t.Errorf("Decrypt() = %q, want the original key", plaintext)
		}
	})

	t.Run("foreign token is rejected", func(t *testing.T) {
		a, err := pricing.GenerateKeyring()
		if err != nil {
			t.Fatalf("GenerateKeyring() returned unexpected error: %v", err)
		}
		b, err := pricing.GenerateKeyring()
		if err != nil {
			t.Fatalf("GenerateKeyring() returned unexpected error: %v", err)
		}

		token, err := a.Encrypt("sk-secret")
		if err != nil {
			t.Fatalf("Encrypt() returned unexpected error: %v", err)
		}
		if _, err := b.Decrypt(token); err == nil {
			t.Error("Expected error decrypting with a different key")
		}
	})

	t.Run("invalid configured key", func(t *testing.T) {
		if _, err := pricing.NewKeyring("not-a-fernet-key"); err == nil {
			t.Error("Expected error for a malformed key")
		}
	})
}
