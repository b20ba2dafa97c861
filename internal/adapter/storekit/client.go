// Package storekit talks to the remote entitlement/purchase backend.
// Transactions come back as ES256-signed JWS payloads; every payload is
// signature-verified here before anything downstream sees it.
package storekit

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jessedraper/partydeck/internal/config"
	"github.com/jessedraper/partydeck/internal/domain"
)

// Client is the remote store adapter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	// streamClient carries no timeout: the transaction stream is long-lived.
	streamClient *http.Client
	verifyKey    *ecdsa.PublicKey
	log          *slog.Logger
}

// NewClient creates a store client from config, parsing the transaction
// verification key up front.
func NewClient(cfg config.StoreConfig, logger *slog.Logger) (*Client, error) {
	key, err := cfg.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("store verification key: %w", err)
	}

	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:   &http.Client{Timeout: cfg.RequestTimeout},
		streamClient: &http.Client{},
		verifyKey:    key,
		log:          logger.With("adapter", "storekit"),
	}, nil
}

type productsResponse struct {
	Products []productRecord `json:"products"`
}

type productRecord struct {
	ID           string `json:"id"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	DisplayPrice string `json:"displayPrice"`
	Kind         string `json:"kind"`
}

type transactionsResponse struct {
	SignedTransactions []string `json:"signedTransactions"`
}

type purchaseRequest struct {
	ProductID string `json:"productId"`
}

type purchaseResponse struct {
	SignedTransaction string `json:"signedTransaction"`
}

// Products fetches display metadata for the given product identifiers.
func (c *Client) Products(ctx context.Context, ids []string) ([]domain.Product, error) {
	reqURL := c.baseURL + "/v1/products?ids=" + url.QueryEscape(strings.Join(ids, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("store: create request: %w", err)
	}

	var decoded productsResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(decoded.Products))
	for _, p := range decoded.Products {
		products = append(products, domain.Product{
			ID:           p.ID,
			DisplayName:  p.DisplayName,
			Description:  p.Description,
			DisplayPrice: p.DisplayPrice,
			Kind:         domain.SubscriptionKind(p.Kind),
		})
	}
	return products, nil
}

// Entitlements fetches the currently-valid signed transactions and verifies
// each one. A transaction that fails verification is logged and dropped, it
// never fails the whole fetch.
func (c *Client) Entitlements(ctx context.Context) ([]domain.Entitlement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/entitlements", nil)
	if err != nil {
		return nil, fmt.Errorf("store: create request: %w", err)
	}

	var decoded transactionsResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	return c.verifyAll(ctx, decoded.SignedTransactions), nil
}

// Purchase initiates a purchase of one product. A 204 means the user
// cancelled or the transaction is pending: no entitlement, no error.
func (c *Client) Purchase(ctx context.Context, productID string) (*domain.Entitlement, error) {
	body, err := json.Marshal(purchaseRequest{ProductID: productID})
	if err != nil {
		return nil, fmt.Errorf("store: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/purchase", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("store: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store: purchase request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		c.log.InfoContext(ctx, "purchase not completed",
			slog.String("product_id", productID),
		)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store: unexpected status %d", resp.StatusCode)
	}

	var decoded purchaseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("store: decode response: %w", err)
	}

	ent, err := c.verifyTransaction(decoded.SignedTransaction)
	if err != nil {
		return nil, fmt.Errorf("store: purchase transaction: %w", err)
	}
	return ent, nil
}

// Restore replays past purchases. The verified set may legitimately be
// empty.
func (c *Client) Restore(ctx context.Context) ([]domain.Entitlement, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/restore", nil)
	if err != nil {
		return nil, fmt.Errorf("store: create request: %w", err)
	}

	var decoded transactionsResponse
	if err := c.do(req, &decoded); err != nil {
		return nil, err
	}

	return c.verifyAll(ctx, decoded.SignedTransactions), nil
}

// do executes the request, expecting a 200 with a JSON body.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("store: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("store: read body: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("store: decode json: %w", err)
	}
	return nil
}

// verifyAll verifies a batch of signed transactions, dropping and logging
// the ones that fail.
func (c *Client) verifyAll(ctx context.Context, signed []string) []domain.Entitlement {
	ents := make([]domain.Entitlement, 0, len(signed))
	for _, s := range signed {
		ent, err := c.verifyTransaction(s)
		if err != nil {
			c.log.WarnContext(ctx, "dropping unverifiable transaction",
				slog.String("error", err.Error()),
			)
			continue
		}
		ents = append(ents, *ent)
	}
	return ents
}

func msToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
