// Package binance implements the exchange provider for Binance spot accounts.
package binance

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const defaultBaseURL = "https://api.binance.com"

// Client is a thin signed HTTP client for the Binance spot REST API.
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	now     func() time.Time
}

// NewClient creates a Binance API client. baseURL may be empty to use the
// production endpoint.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "binance").Logger(),
		now:     time.Now,
	}
}

type accountBalance struct {
	Asset  string          `json:"asset"`
	Free   decimal.Decimal `json:"free"`
	Locked decimal.Decimal `json:"locked"`
}

type accountResponse struct {
	Balances []accountBalance `json:"balances"`
}

type trade struct {
	ID       int64           `json:"id"`
	Symbol   string          `json:"symbol"`
	Price    decimal.Decimal `json:"price"`
	Qty      decimal.Decimal `json:"qty"`
	QuoteQty decimal.Decimal `json:"quoteQty"`
	Time     int64           `json:"time"`
	IsBuyer  bool            `json:"isBuyer"`
}

type tickerPrice struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// apiError is the error envelope Binance returns alongside non-2xx statuses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// StatusError carries the HTTP status of a failed API call so callers can
// distinguish throttling from auth failures.
type StatusError struct {
	Status int
	Code   int
	Msg    string
}

func (e *StatusError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("binance: status %d (code %d): %s", e.Status, e.Code, e.Msg)
	}
	return fmt.Sprintf("binance: status %d", e.Status)
}

// Account fetches spot balances via the signed GET /api/v3/account endpoint.
func (c *Client) Account(ctx context.Context, apiKey, apiSecret string) (*accountResponse, error) {
	body, err := c.signedGet(ctx, "/api/v3/account", url.Values{}, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	var acct accountResponse
	if err := json.Unmarshal(body, &acct); err != nil {
		return nil, fmt.Errorf("decoding account response: %w", err)
	}
	return &acct, nil
}

// MyTrades fetches the account trade list for one pair via the signed
// GET /api/v3/myTrades endpoint.
func (c *Client) MyTrades(ctx context.Context, apiKey, apiSecret, pair string) ([]trade, error) {
	params := url.Values{}
	params.Set("symbol", pair)
	body, err := c.signedGet(ctx, "/api/v3/myTrades", params, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	var trades []trade
	if err := json.Unmarshal(body, &trades); err != nil {
		return nil, fmt.Errorf("decoding trades response: %w", err)
	}
	return trades, nil
}

// TickerPrices fetches the public spot price for every traded pair.
func (c *Client) TickerPrices(ctx context.Context) ([]tickerPrice, error) {
	body, err := c.get(ctx, c.baseURL+"/api/v3/ticker/price", nil)
	if err != nil {
		return nil, err
	}
	var tickers []tickerPrice
	if err := json.Unmarshal(body, &tickers); err != nil {
		return nil, fmt.Errorf("decoding ticker response: %w", err)
	}
	return tickers, nil
}

// signedGet appends the timestamp, signs the query string with HMAC-SHA256
// and issues the request with the API key header.
func (c *Client) signedGet(ctx context.Context, path string, params url.Values, apiKey, apiSecret string) ([]byte, error) {
	params.Set("timestamp", strconv.FormatInt(c.now().UnixMilli(), 10))

	query := params.Encode()
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(query))
	signature := hex.EncodeToString(mac.Sum(nil))

	endpoint := c.baseURL + path + "?" + query + "&signature=" + signature
	return c.get(ctx, endpoint, map[string]string{"X-MBX-APIKEY": apiKey})
}

// get performs the request with retry on throttling and server errors.
func (c *Client) get(ctx context.Context, endpoint string, headers map[string]string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if resp.StatusCode != http.StatusOK {
			var apiErr apiError
			_ = json.Unmarshal(data, &apiErr)
			statusErr := &StatusError{Status: resp.StatusCode, Code: apiErr.Code, Msg: apiErr.Msg}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				c.log.Warn().Int("status", resp.StatusCode).Msg("retryable API error")
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body = data
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
