// Package executor submits signed swap transactions to the execution
// endpoint of the aggregator.
package executor

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solwatch/solwatch/internal/domain"
)

const requestTimeout = 30 * time.Second

// Client signs quoted transactions with the wallet secret and posts them
// for execution. It satisfies the monitor's Executor contract.
type Client struct {
	baseURL string
	http    *http.Client
	l       *zap.Logger
}

// NewClient creates an execution client for the aggregator at baseURL.
func NewClient(baseURL string, l *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		l:       l,
	}
}

type executeRequest struct {
	SignedTransaction string `json:"signedTransaction"`
}

type executeResponse struct {
	Status       string `json:"status"`
	Signature    string `json:"signature"`
	OutputAmount string `json:"outputAmountResult"`
	Error        string `json:"error"`
}

// SignAndExecute signs the quote's transaction with the ed25519 wallet
// secret and submits it. The caller decides whether a failure is retried;
// this client never retries an execution on its own since the swap may
// have landed.
func (c *Client) SignAndExecute(ctx context.Context, quote *domain.Quote, walletSecret []byte) (*domain.ExecutionResult, error) {
	if quote == nil || quote.Transaction == "" {
		return nil, domain.ErrNoTransaction
	}
	if len(walletSecret) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("wallet secret must be %d bytes", ed25519.PrivateKeySize)
	}

	raw, err := base64.StdEncoding.DecodeString(quote.Transaction)
	if err != nil {
		return nil, errors.Wrap(err, "decode quote transaction")
	}

	signed, err := signTransaction(raw, ed25519.PrivateKey(walletSecret))
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(executeRequest{
		SignedTransaction: base64.StdEncoding.EncodeToString(signed),
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal execute request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, "build execute request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "execute request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read execute response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("execution service returned status %d: %s", resp.StatusCode, body)
	}

	var execResp executeResponse
	if err := json.Unmarshal(body, &execResp); err != nil {
		return nil, errors.Wrap(err, "decode execute response")
	}

	result := &domain.ExecutionResult{
		Status:    execResp.Status,
		Signature: execResp.Signature,
		Err:       execResp.Error,
	}
	if execResp.OutputAmount != "" {
		result.OutputAmount, err = decimal.NewFromString(execResp.OutputAmount)
		if err != nil {
			return nil, errors.Wrapf(err, "parse output amount %q", execResp.OutputAmount)
		}
	}

	c.l.Debug("swap executed",
		zap.String("status", result.Status),
		zap.String("signature", result.Signature))

	return result, nil
}

// signTransaction fills the first signature slot of a serialized Solana
// transaction: message bytes start after the compact signature array.
func signTransaction(raw []byte, key ed25519.PrivateKey) ([]byte, error) {
	if len(raw) < 1+ed25519.SignatureSize {
		return nil, errors.New("transaction payload too short to sign")
	}

	numSignatures := int(raw[0])
	messageStart := 1 + numSignatures*ed25519.SignatureSize
	if numSignatures == 0 || len(raw) <= messageStart {
		return nil, errors.New("transaction has no signature slots")
	}

	signature := ed25519.Sign(key, raw[messageStart:])

	signed := make([]byte, len(raw))
	copy(signed, raw)
	copy(signed[1:1+ed25519.SignatureSize], signature)
	return signed, nil
}
