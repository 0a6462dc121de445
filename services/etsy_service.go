package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/printworks/printworks-api/config"
)

// receiptsPageSize is the fixed page size used when paginating receipts.
const receiptsPageSize = 100

// EtsyMoney represents a monetary value from the Etsy API, in minor units.
type EtsyMoney struct {
	Amount       int64  `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// Dollars converts the minor-unit amount to a major-unit float.
func (m EtsyMoney) Dollars() float64 {
	return float64(m.Amount) / 100
}

// EtsyReceipt is one raw order record as returned by the receipt listing
// endpoint. It is consumed once per sync pass and never persisted as-is.
type EtsyReceipt struct {
	ReceiptID        int64     `json:"receipt_id"`
	Status           string    `json:"status"`
	WasPaid          bool      `json:"was_paid"`
	WasShipped       bool      `json:"was_shipped"`
	WasRefunded      bool      `json:"was_refunded"`
	Grandtotal       EtsyMoney `json:"grandtotal"`
	BuyerEmail       string    `json:"buyer_email"`
	Name             string    `json:"name"`
	CreateTimestamp  int64     `json:"create_timestamp"`
	UpdateTimestamp  int64     `json:"update_timestamp"`
	ShippedTimestamp int64     `json:"shipped_timestamp"`
}

// ExternalID returns the receipt identifier as the string used for the
// order idempotency key.
func (r EtsyReceipt) ExternalID() string {
	return strconv.FormatInt(r.ReceiptID, 10)
}

// EtsyTransaction is one line item within a receipt.
type EtsyTransaction struct {
	ListingID int64     `json:"listing_id"`
	Title     string    `json:"title"`
	Quantity  int       `json:"quantity"`
	Price     EtsyMoney `json:"price"`
}

type receiptListResponse struct {
	Count   int           `json:"count"`
	Results []EtsyReceipt `json:"results"`
}

type transactionListResponse struct {
	Count   int               `json:"count"`
	Results []EtsyTransaction `json:"results"`
}

// EtsyClient talks to the Etsy v3 API on behalf of one account.
type EtsyClient struct {
	baseURL     string
	apiKey      string
	accessToken string
	httpClient  *http.Client
}

// NewEtsyClient creates a client bound to an account's access token.
func NewEtsyClient(cfg *config.Config, accessToken string) *EtsyClient {
	return &EtsyClient{
		baseURL:     cfg.EtsyAPIBaseURL,
		apiKey:      cfg.EtsyAPIKey,
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// get issues one blocking request and decodes the JSON body into out.
// Any non-2xx response is returned as an error.
func (c *EtsyClient) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Add("Authorization", "Bearer "+c.accessToken)
	req.Header.Add("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("etsy api request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("etsy api returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode etsy response: %w", err)
	}

	return nil
}

// ListReceipts fetches one page of paid receipts created inside the
// [minCreated, maxCreated] window.
func (c *EtsyClient) ListReceipts(shopID string, limit, offset int, minCreated, maxCreated int64) (*receiptListResponse, error) {
	path := fmt.Sprintf("/application/shops/%s/receipts?limit=%d&offset=%d&min_created=%d&max_created=%d&was_paid=true",
		shopID, limit, offset, minCreated, maxCreated)

	var page receiptListResponse
	if err := c.get(path, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListTransactions fetches the line items of one receipt.
func (c *EtsyClient) ListTransactions(shopID, receiptID string) ([]EtsyTransaction, error) {
	path := fmt.Sprintf("/application/shops/%s/receipts/%s/transactions", shopID, receiptID)

	var list transactionListResponse
	if err := c.get(path, &list); err != nil {
		return nil, err
	}
	return list.Results, nil
}

// FetchPaidReceipts paginates the receipt listing until the source-reported
// total count is reached, returning the complete set. A page with zero
// records terminates the loop early, in case the reported count is
// unreliable. Any page failure aborts the whole fetch: callers get either
// the full window or an error, never a partial set.
func (c *EtsyClient) FetchPaidReceipts(shopID string, minCreated, maxCreated int64) ([]EtsyReceipt, error) {
	var all []EtsyReceipt
	offset := 0

	for {
		page, err := c.ListReceipts(shopID, receiptsPageSize, offset, minCreated, maxCreated)
		if err != nil {
			return nil, err
		}

		if len(page.Results) == 0 {
			break
		}

		all = append(all, page.Results...)

		if len(all) >= page.Count {
			break
		}

		offset += receiptsPageSize
	}

	return all, nil
}
