package binance

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinfolio/coinfolio/internal/domain"
	"github.com/coinfolio/coinfolio/internal/usecase/mocks"
)

func testConnection() *domain.Connection {
	return &domain.Connection{ID: "conn-1", Exchange: "binance", APIKey: "key", APISecret: "enc:secret"}
}

func TestProviderBalances(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"balances":[
			{"asset":"btc","free":"0.5","locked":"0.25"},
			{"asset":"DOGE","free":"0","locked":"0"}
		]}`))
	})
	p := NewProvider(client, mocks.NewMockSecretCipher(), zerolog.Nop())

	balances, err := p.Balances(context.Background(), testConnection())
	require.NoError(t, err)

	require.Len(t, balances, 1, "zero balances must be dropped")
	assert.True(t, balances["BTC"].Equal(decimal.RequireFromString("0.75")), "free and locked summed, got %s", balances["BTC"])
}

func TestProviderTrades_SkipsFailingPairs(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("symbol") == "BTCUSDT" {
			w.Write([]byte(`[{"id":1,"symbol":"BTCUSDT","price":"85000","qty":"1","quoteQty":"85000","time":1700000000000,"isBuyer":true}]`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	})
	p := NewProvider(client, mocks.NewMockSecretCipher(), zerolog.Nop())

	txs, err := p.Trades(context.Background(), testConnection())
	require.NoError(t, err, "one working pair is enough")
	require.Len(t, txs, 1)
	assert.Equal(t, "BTC", txs[0].Symbol)
}

func TestProviderTrades_AllPairsFailing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	p := NewProvider(client, mocks.NewMockSecretCipher(), zerolog.Nop())

	_, err := p.Trades(context.Background(), testConnection())
	require.Error(t, err)
}

func TestProviderPrices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol":"BTCUSDT","price":"85000"},
			{"symbol":"BTCEUR","price":"78000"},
			{"symbol":"ETHBTC","price":"0.035"}
		]`))
	})
	p := NewProvider(client, mocks.NewMockSecretCipher(), zerolog.Nop())

	prices, err := p.Prices(context.Background())
	require.NoError(t, err)

	assert.True(t, prices["BTC"].Equal(decimal.NewFromInt(85000)), "only USDT pairs feed prices, got %s", prices["BTC"])
	assert.True(t, prices["USDT"].Equal(decimal.NewFromInt(1)))
	_, hasETH := prices["ETH"]
	assert.False(t, hasETH, "non-USDT pairs are ignored")
}

func TestProviderBalances_CipherFailure(t *testing.T) {
	client := NewClient("http://unreachable.invalid", time.Second, zerolog.Nop())
	cipher := mocks.NewMockSecretCipher()
	cipher.DecryptFunc = func(ciphertext string) (string, error) {
		return "", assert.AnError
	}
	p := NewProvider(client, cipher, zerolog.Nop())

	_, err := p.Balances(context.Background(), testConnection())
	require.ErrorIs(t, err, assert.AnError)
}
