package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGetQuoteParsesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/order", r.URL.Path)
		require.Equal(t, SOLMint, r.URL.Query().Get("inputMint"))
		require.Equal(t, "mint-1", r.URL.Query().Get("outputMint"))
		require.Equal(t, "2", r.URL.Query().Get("amount"))
		require.Equal(t, "taker-address", r.URL.Query().Get("taker"))

		json.NewEncoder(w).Encode(orderResponse{
			OutAmount:   "500",
			OutUsdValue: "50000",
			Transaction: "dHg=",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	quote, err := client.GetQuote(context.Background(), "mint-1", decimal.NewFromInt(2), "taker-address")
	require.NoError(t, err)

	require.True(t, quote.OutAmount.Equal(decimal.NewFromInt(500)))
	require.True(t, quote.OutUSDValue.Equal(decimal.NewFromInt(50000)))
	require.Equal(t, "dHg=", quote.Transaction)

	price, err := quote.PricePerToken()
	require.NoError(t, err)
	require.True(t, price.Equal(decimal.NewFromInt(100)))
}

func TestGetSellQuoteSwapsMintDirection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "mint-1", r.URL.Query().Get("inputMint"))
		require.Equal(t, SOLMint, r.URL.Query().Get("outputMint"))

		json.NewEncoder(w).Encode(orderResponse{OutAmount: "2", OutUsdValue: "200"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.GetSellQuote(context.Background(), "mint-1", decimal.NewFromInt(500), "taker-address")
	require.NoError(t, err)
}

func TestGetQuoteRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(orderResponse{OutAmount: "500", OutUsdValue: "50000"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	quote, err := client.GetQuote(context.Background(), "mint-1", decimal.NewFromInt(2), "taker")
	require.NoError(t, err)
	require.True(t, quote.OutAmount.Equal(decimal.NewFromInt(500)))
	require.Equal(t, int32(2), calls.Load())
}

func TestGetQuoteDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.GetQuote(context.Background(), "mint-1", decimal.NewFromInt(2), "taker")
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

func TestGetQuoteSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(orderResponse{Error: "no route for token"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.GetQuote(context.Background(), "mint-1", decimal.NewFromInt(2), "taker")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no route for token")
}
