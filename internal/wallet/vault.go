// Package wallet implements custody of the signing secret: the secret is
// stored encrypted and decrypted only at the moment of use.
package wallet

import (
	"context"
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// argon2id parameters for passphrase key derivation.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4

	saltSize = 16
)

// Vault holds one wallet: its public address and the encrypted signing
// secret. It satisfies the monitor's KeyVault contract. The plaintext
// secret is never logged or persisted.
type Vault struct {
	address    string
	encrypted  []byte
	passphrase []byte
}

// NewVault wraps an encrypted secret produced by Encrypt.
func NewVault(address string, encrypted, passphrase []byte) (*Vault, error) {
	if address == "" {
		return nil, errors.New("wallet address is required")
	}
	if len(encrypted) <= saltSize+chacha20poly1305.NonceSizeX {
		return nil, errors.New("encrypted secret is truncated")
	}
	return &Vault{address: address, encrypted: encrypted, passphrase: passphrase}, nil
}

// Address returns the wallet public address used as the swap taker.
func (v *Vault) Address(context.Context, string) (string, error) {
	return v.address, nil
}

// Secret decrypts and returns the signing secret.
func (v *Vault) Secret(context.Context, string) ([]byte, error) {
	return Decrypt(v.encrypted, v.passphrase)
}

// Encrypt seals a secret with a passphrase-derived key. Output layout:
// salt | nonce | ciphertext.
func Encrypt(secret, passphrase []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}

	out := make([]byte, 0, len(salt)+len(nonce)+len(secret)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, secret, nil), nil
}

// Decrypt opens a secret sealed by Encrypt.
func Decrypt(encrypted, passphrase []byte) ([]byte, error) {
	if len(encrypted) <= saltSize+chacha20poly1305.NonceSizeX {
		return nil, errors.New("encrypted secret is truncated")
	}

	salt := encrypted[:saltSize]
	nonce := encrypted[saltSize : saltSize+chacha20poly1305.NonceSizeX]
	ciphertext := encrypted[saltSize+chacha20poly1305.NonceSizeX:]

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt))
	if err != nil {
		return nil, errors.Wrap(err, "init cipher")
	}

	secret, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "decrypt wallet secret")
	}
	return secret, nil
}

func deriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
}
