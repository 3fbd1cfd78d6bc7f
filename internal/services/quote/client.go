// Package quote implements the swap-quote collaborator against a
// Jupiter-style aggregator HTTP API.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/solwatch/solwatch/internal/domain"
)

// SOLMint is the native SOL mint address used as the quote-side asset.
const SOLMint = "So11111111111111111111111111111111111111112"

const (
	requestTimeout = 10 * time.Second
	maxRetries     = 3
)

// Client fetches swap quotes over HTTP. Transient failures (transport
// errors, 429, 5xx) are retried with exponential backoff inside the call;
// anything that still fails is left to the next monitor cycle.
type Client struct {
	baseURL string
	http    *http.Client
	l       *zap.Logger
}

// NewClient creates a quote client for the aggregator at baseURL.
func NewClient(baseURL string, l *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		l:       l,
	}
}

// orderResponse is the aggregator's quote payload. Amounts are UI amounts
// (already adjusted for token decimals).
type orderResponse struct {
	OutAmount   string `json:"outAmount"`
	OutUsdValue string `json:"outUsdValue"`
	Transaction string `json:"transaction"`
	Error       string `json:"error"`
}

// GetQuote quotes swapping solAmount of SOL into the token.
func (c *Client) GetQuote(ctx context.Context, tokenMint string, solAmount decimal.Decimal, taker string) (*domain.Quote, error) {
	return c.fetchOrder(ctx, SOLMint, tokenMint, solAmount, taker)
}

// GetSellQuote quotes swapping tokenAmount of the token back into SOL.
func (c *Client) GetSellQuote(ctx context.Context, tokenMint string, tokenAmount decimal.Decimal, taker string) (*domain.Quote, error) {
	return c.fetchOrder(ctx, tokenMint, SOLMint, tokenAmount, taker)
}

func (c *Client) fetchOrder(ctx context.Context, inputMint, outputMint string, amount decimal.Decimal, taker string) (*domain.Quote, error) {
	params := url.Values{}
	params.Set("inputMint", inputMint)
	params.Set("outputMint", outputMint)
	params.Set("amount", amount.String())
	params.Set("taker", taker)

	endpoint := fmt.Sprintf("%s/order?%s", c.baseURL, params.Encode())

	operation := func() (*domain.Quote, error) {
		return c.doOrder(ctx, endpoint)
	}

	quote, err := backoff.RetryWithData(operation,
		backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "quote %s -> %s", inputMint, outputMint)
	}
	return quote, nil
}

func (c *Client) doOrder(ctx context.Context, endpoint string) (*domain.Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "build quote request"))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "quote request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read quote response")
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		c.l.Debug("transient quote failure, retrying",
			zap.Int("status", resp.StatusCode))
		return nil, errors.Errorf("quote service returned status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, backoff.Permanent(errors.Errorf("quote service returned status %d: %s", resp.StatusCode, body))
	}

	var order orderResponse
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, backoff.Permanent(errors.Wrap(err, "decode quote response"))
	}
	if order.Error != "" {
		return nil, backoff.Permanent(errors.Errorf("quote service error: %s", order.Error))
	}

	outAmount, err := decimal.NewFromString(order.OutAmount)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrapf(err, "parse out amount %q", order.OutAmount))
	}
	outUsd, err := decimal.NewFromString(order.OutUsdValue)
	if err != nil {
		return nil, backoff.Permanent(errors.Wrapf(err, "parse out usd value %q", order.OutUsdValue))
	}

	return &domain.Quote{
		OutAmount:   outAmount,
		OutUSDValue: outUsd,
		Transaction: order.Transaction,
	}, nil
}
