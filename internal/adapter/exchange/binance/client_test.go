package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, zerolog.Nop())
}

func TestAccount_SignsRequest(t *testing.T) {
	const apiKey = "test-key"
	const apiSecret = "test-secret"

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/account", r.URL.Path)
		assert.Equal(t, apiKey, r.Header.Get("X-MBX-APIKEY"))

		q := r.URL.Query()
		require.NotEmpty(t, q.Get("timestamp"))
		signature := q.Get("signature")
		require.NotEmpty(t, signature)

		// The signature covers the query string minus the signature itself.
		signed := "timestamp=" + q.Get("timestamp")
		mac := hmac.New(sha256.New, []byte(apiSecret))
		mac.Write([]byte(signed))
		assert.Equal(t, hex.EncodeToString(mac.Sum(nil)), signature)

		w.Write([]byte(`{"balances":[
			{"asset":"BTC","free":"0.5","locked":"0.1"},
			{"asset":"DOGE","free":"0","locked":"0"}
		]}`))
	})

	acct, err := client.Account(context.Background(), apiKey, apiSecret)
	require.NoError(t, err)
	require.Len(t, acct.Balances, 2)
	assert.True(t, acct.Balances[0].Free.Equal(decimal.RequireFromString("0.5")))
	assert.True(t, acct.Balances[0].Locked.Equal(decimal.RequireFromString("0.1")))
}

func TestMyTrades(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/myTrades", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))

		w.Write([]byte(`[
			{"id":12345,"symbol":"BTCUSDT","price":"85000.00","qty":"1.0","quoteQty":"85000.00","time":1700000000000,"isBuyer":true}
		]`))
	})

	trades, err := client.MyTrades(context.Background(), "k", "s", "BTCUSDT")
	require.NoError(t, err)
	require.Len(t, trades, 1)
	assert.Equal(t, int64(12345), trades[0].ID)
	assert.True(t, trades[0].IsBuyer)
	assert.True(t, trades[0].Price.Equal(decimal.NewFromInt(85000)))
}

func TestTickerPrices_Public(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/ticker/price", r.URL.Path)
		assert.Empty(t, r.Header.Get("X-MBX-APIKEY"))
		assert.Empty(t, r.URL.Query().Get("signature"))

		w.Write([]byte(`[
			{"symbol":"BTCUSDT","price":"85000.00"},
			{"symbol":"ETHUSDT","price":"3000.00"}
		]`))
	})

	tickers, err := client.TickerPrices(context.Background())
	require.NoError(t, err)
	assert.Len(t, tickers, 2)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[]`))
	})

	_, err := client.TickerPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestClient_DoesNotRetryAuthFailures(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"code":-2014,"msg":"API-key format invalid."}`))
	})

	_, err := client.Account(context.Background(), "bad", "creds")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.Status)
	assert.Equal(t, -2014, statusErr.Code)
}
