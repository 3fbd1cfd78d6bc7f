package wallet

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	secret := []byte("ed25519-private-key-material-64-bytes-long-for-solana-signing!!!")
	passphrase := []byte("correct horse battery staple")

	encrypted, err := Encrypt(secret, passphrase)
	require.NoError(t, err)
	require.NotContains(t, string(encrypted), string(secret))

	decrypted, err := Decrypt(encrypted, passphrase)
	require.NoError(t, err)
	require.Equal(t, secret, decrypted)
}

func TestDecryptRejectsWrongPassphrase(t *testing.T) {
	encrypted, err := Encrypt([]byte("secret"), []byte("right"))
	require.NoError(t, err)

	_, err = Decrypt(encrypted, []byte("wrong"))
	require.Error(t, err)
}

func TestDecryptRejectsTruncatedInput(t *testing.T) {
	_, err := Decrypt([]byte("too short"), []byte("pass"))
	require.Error(t, err)
}

func TestEncryptIsSalted(t *testing.T) {
	secret := []byte("secret")
	passphrase := []byte("pass")

	first, err := Encrypt(secret, passphrase)
	require.NoError(t, err)
	second, err := Encrypt(secret, passphrase)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
}

func TestVaultResolvesAddressAndSecret(t *testing.T) {
	secret := []byte("signing-key")
	passphrase := []byte("pass")
	encrypted, err := Encrypt(secret, passphrase)
	require.NoError(t, err)

	vault, err := NewVault("So1TestAddress", encrypted, passphrase)
	require.NoError(t, err)

	addr, err := vault.Address(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "So1TestAddress", addr)

	got, err := vault.Secret(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, secret, got)
}

func TestNewVaultRejectsTruncatedCiphertext(t *testing.T) {
	_, err := NewVault("addr", []byte("short"), []byte("pass"))
	require.Error(t, err)
}
