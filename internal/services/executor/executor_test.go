package executor

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/solwatch/solwatch/internal/domain"
)

// unsignedTx serializes a one-signer transaction: a compact signature
// array with one empty slot followed by the message bytes.
func unsignedTx(message []byte) string {
	raw := make([]byte, 0, 1+ed25519.SignatureSize+len(message))
	raw = append(raw, 1)
	raw = append(raw, make([]byte, ed25519.SignatureSize)...)
	raw = append(raw, message...)
	return base64.StdEncoding.EncodeToString(raw)
}

func TestSignAndExecuteFillsSignatureSlot(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	message := []byte("serialized swap message")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/execute", r.URL.Path)

		var req executeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		raw, err := base64.StdEncoding.DecodeString(req.SignedTransaction)
		require.NoError(t, err)
		require.Equal(t, byte(1), raw[0])

		signature := raw[1 : 1+ed25519.SignatureSize]
		require.True(t, ed25519.Verify(pub, raw[1+ed25519.SignatureSize:], signature),
			"signature must cover the message bytes")

		json.NewEncoder(w).Encode(executeResponse{
			Status:       domain.ExecSuccess,
			Signature:    "tx-sig",
			OutputAmount: "500",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result, err := client.SignAndExecute(context.Background(),
		&domain.Quote{Transaction: unsignedTx(message)}, priv)
	require.NoError(t, err)

	require.True(t, result.Succeeded())
	require.Equal(t, "tx-sig", result.Signature)
	require.True(t, result.OutputAmount.Equal(decimal.NewFromInt(500)))
}

func TestSignAndExecuteReportsFailureStatus(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(executeResponse{
			Status: domain.ExecFailure,
			Error:  "slippage exceeded",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	result, err := client.SignAndExecute(context.Background(),
		&domain.Quote{Transaction: unsignedTx([]byte("msg"))}, priv)
	require.NoError(t, err)

	require.False(t, result.Succeeded())
	require.Equal(t, "slippage exceeded", result.Err)
}

func TestSignAndExecuteRejectsEmptyTransaction(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	client := NewClient("http://unused", zap.NewNop())
	_, err = client.SignAndExecute(context.Background(), &domain.Quote{}, priv)
	require.ErrorIs(t, err, domain.ErrNoTransaction)
}

func TestSignAndExecuteRejectsBadSecretSize(t *testing.T) {
	client := NewClient("http://unused", zap.NewNop())
	_, err := client.SignAndExecute(context.Background(),
		&domain.Quote{Transaction: unsignedTx([]byte("msg"))}, []byte("short"))
	require.Error(t, err)
}

func TestSignTransactionRejectsMissingSlots(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	_, err = signTransaction([]byte{0}, priv)
	require.Error(t, err)

	noSlots := append([]byte{0}, make([]byte, ed25519.SignatureSize+10)...)
	_, err = signTransaction(noSlots, priv)
	require.Error(t, err)
}
