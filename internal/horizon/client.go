package horizon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stellar/route-engine/internal/domain"
)

// Client is an HTTP client for a Horizon instance, built in the same shape
// as the trading microservice clients it is modeled on: a base URL, a
// *http.Client with its own timeout, and small per-endpoint methods that
// marshal a request, post it, and unmarshal the response envelope.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewClient creates a Horizon client. timeout bounds the underlying
// http.Client; callers additionally pass a context per call so an
// individual query can be cancelled earlier (e.g. the edge-discovery
// concurrency gate's own per-pair timeout).
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log.With().Str("client", "horizon").Logger(),
	}
}

type orderBookResponse struct {
	Bids []struct {
		Price  string `json:"price"`
		Amount string `json:"amount"`
	} `json:"bids"`
	Asks []struct {
		Price  string `json:"price"`
		Amount string `json:"amount"`
	} `json:"asks"`
}

// GetOrderbook queries the /order_book endpoint for a selling/buying pair.
func (c *Client) GetOrderbook(ctx context.Context, selling, buying domain.AssetKey, depthLimit int) (*Orderbook, error) {
	url := fmt.Sprintf("%s/order_book?%s&%s&limit=%d",
		c.baseURL, assetQueryParams("selling", selling), assetQueryParams("buying", buying), depthLimit)

	var resp orderBookResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("get orderbook %s/%s: %w", selling, buying, err)
	}

	ob := &Orderbook{}
	for _, b := range resp.Bids {
		ob.Bids = append(ob.Bids, OrderbookLevel{Price: b.Price, Amount: b.Amount})
	}
	for _, a := range resp.Asks {
		ob.Asks = append(ob.Asks, OrderbookLevel{Price: a.Price, Amount: a.Amount})
	}
	return ob, nil
}

type strictSendResponse struct {
	Embedded struct {
		Records []struct {
			DestinationAmount string `json:"destination_amount"`
			Path               []struct {
				AssetType   string `json:"asset_type"`
				AssetCode   string `json:"asset_code"`
				AssetIssuer string `json:"asset_issuer"`
			} `json:"path"`
		} `json:"records"`
	} `json:"_embedded"`
}

// FindStrictSendPaths queries /paths/strict-send.
func (c *Client) FindStrictSendPaths(ctx context.Context, source domain.AssetKey, sourceAmount string, destinations []domain.AssetKey) ([]PathRecord, error) {
	url := fmt.Sprintf("%s/paths/strict-send?%s&source_amount=%s",
		c.baseURL, assetQueryParams("source", source), sourceAmount)
	for _, d := range destinations {
		url += "&" + assetQueryParams("destination_assets", d)
	}

	var resp strictSendResponse
	if err := c.getJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("strict-send paths from %s: %w", source, err)
	}

	records := make([]PathRecord, 0, len(resp.Embedded.Records))
	for _, r := range resp.Embedded.Records {
		rec := PathRecord{DestinationAmount: r.DestinationAmount}
		for _, p := range r.Path {
			rec.Path = append(rec.Path, PathAsset{AssetType: p.AssetType, AssetCode: p.AssetCode, AssetIssuer: p.AssetIssuer})
		}
		records = append(records, rec)
	}
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("horizon returned status %d: %s", resp.StatusCode, string(bytes.TrimSpace(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func assetQueryParams(prefix string, key domain.AssetKey) string {
	if key.IsNative() {
		return fmt.Sprintf("%s_asset_type=native", prefix)
	}
	return fmt.Sprintf("%s_asset_type=credit_alphanum4&%s_asset_code=%s&%s_asset_issuer=%s",
		prefix, prefix, key.Code, prefix, key.Issuer)
}

var _ Gateway = (*Client)(nil)
