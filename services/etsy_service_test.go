package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/printworks/printworks-api/config"
	"github.com/stretchr/testify/assert"
)

func newTestClient(baseURL string) *EtsyClient {
	cfg := &config.Config{
		EtsyAPIBaseURL: baseURL,
		EtsyAPIKey:     "test-api-key",
	}
	return NewEtsyClient(cfg, "test-access-token")
}

func TestEtsyMoney_Dollars(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		expected float64
	}{
		{"whole dollars", 2500, 25.00},
		{"with cents", 1999, 19.99},
		{"zero", 0, 0},
		{"single cent", 1, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := EtsyMoney{Amount: tt.amount, CurrencyCode: "USD"}
			assert.Equal(t, tt.expected, m.Dollars())
		})
	}
}

func TestListReceipts_RequestShape(t *testing.T) {
	var gotPath string
	var gotAuth string
	var gotAPIKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("x-api-key")
		json.NewEncoder(w).Encode(receiptListResponse{Count: 0, Results: []EtsyReceipt{}})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ListReceipts("shop123", 100, 0, 1000, 2000)
	assert.NoError(t, err)

	assert.Equal(t, "Bearer test-access-token", gotAuth)
	assert.Equal(t, "test-api-key", gotAPIKey)
	assert.Contains(t, gotPath, "/application/shops/shop123/receipts")
	assert.Contains(t, gotPath, "was_paid=true")
	assert.Contains(t, gotPath, "min_created=1000")
	assert.Contains(t, gotPath, "max_created=2000")
}

func TestFetchPaidReceipts_Pagination(t *testing.T) {
	const total = 150

	var offsets []int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		offsets = append(offsets, offset)

		pageSize := total - offset
		if pageSize > receiptsPageSize {
			pageSize = receiptsPageSize
		}
		results := make([]EtsyReceipt, pageSize)
		for i := range results {
			results[i] = EtsyReceipt{ReceiptID: int64(offset + i + 1)}
		}
		json.NewEncoder(w).Encode(receiptListResponse{Count: total, Results: results})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	receipts, err := client.FetchPaidReceipts("shop123", 1000, 2000)

	assert.NoError(t, err)
	assert.Len(t, receipts, total)
	assert.Equal(t, []int{0, 100}, offsets)
	assert.Equal(t, int64(1), receipts[0].ReceiptID)
	assert.Equal(t, int64(150), receipts[149].ReceiptID)
}

func TestFetchPaidReceipts_EmptyPageTerminates(t *testing.T) {
	// The source claims far more receipts than it serves; an empty page
	// must end the loop rather than spin forever.
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		var results []EtsyReceipt
		if offset == 0 {
			results = []EtsyReceipt{{ReceiptID: 1}, {ReceiptID: 2}}
		}
		json.NewEncoder(w).Encode(receiptListResponse{Count: 500, Results: results})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	receipts, err := client.FetchPaidReceipts("shop123", 1000, 2000)

	assert.NoError(t, err)
	assert.Len(t, receipts, 2)
	assert.Equal(t, 2, calls)
}

func TestFetchPaidReceipts_PageFailureAborts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset > 0 {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":"boom"}`)
			return
		}
		results := make([]EtsyReceipt, receiptsPageSize)
		json.NewEncoder(w).Encode(receiptListResponse{Count: 200, Results: results})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	receipts, err := client.FetchPaidReceipts("shop123", 1000, 2000)

	assert.Error(t, err)
	assert.Nil(t, receipts, "A mid-fetch failure must not return a partial set")
	assert.Contains(t, err.Error(), "500")
}

func TestListTransactions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/application/shops/shop123/receipts/101/transactions", r.URL.Path)
		json.NewEncoder(w).Encode(transactionListResponse{
			Count: 2,
			Results: []EtsyTransaction{
				{ListingID: 555, Title: "Dragon Figurine", Quantity: 1, Price: EtsyMoney{Amount: 1500}},
				{ListingID: 556, Title: "Phone Stand", Quantity: 2, Price: EtsyMoney{Amount: 500}},
			},
		})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	transactions, err := client.ListTransactions("shop123", "101")

	assert.NoError(t, err)
	assert.Len(t, transactions, 2)
	assert.Equal(t, "Dragon Figurine", transactions[0].Title)
	assert.Equal(t, 15.00, transactions[0].Price.Dollars())
}

func TestListTransactions_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.ListTransactions("shop123", "101")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
