package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// KeyMaterial holds the process-wide RSA key pair used to sign and verify
// access tokens. It is built once at startup and passed by reference; the
// fields are never mutated afterwards.
type KeyMaterial struct {
	private *rsa.PrivateKey
	public  *rsa.PublicKey
}

// NewKeyMaterial builds KeyMaterial from an in-memory private key, deriving
// the public half. Mostly useful in tests.
func NewKeyMaterial(private *rsa.PrivateKey) *KeyMaterial {
	return &KeyMaterial{private: private, public: &private.PublicKey}
}

// LoadKeyMaterial reads and parses PEM-encoded RSA keys from the given paths.
func LoadKeyMaterial(privateKeyPath, publicKeyPath string) (*KeyMaterial, error) {
	privPEM, err := os.ReadFile(privateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}
	private, err := jwt.ParseRSAPrivateKeyFromPEM(privPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	pubPEM, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	public, err := jwt.ParseRSAPublicKeyFromPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}

	return &KeyMaterial{private: private, public: public}, nil
}
