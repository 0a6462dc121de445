package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, userID uint, etsyOrderID, status string, items []models.OrderItem) *models.Order {
	order := models.Order{
		UserID:      userID,
		EtsyOrderID: etsyOrderID,
		EtsyShopID:  "shop123",
		Status:      status,
		Items:       items,
		OrderedAt:   time.Now().UTC(),
		SyncedAt:    time.Now().UTC(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}
	return &order
}

// mockEtsyServer simulates the receipt and transaction listing endpoints.
func mockEtsyServer() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/transactions") {
			fmt.Fprint(w, `{
				"count": 2,
				"results": [
					{"listing_id": 555, "title": "Dragon Figurine", "quantity": 1, "price": {"amount": 1500, "currency_code": "USD"}},
					{"listing_id": 556, "title": "Phone Stand", "quantity": 2, "price": {"amount": 500, "currency_code": "USD"}}
				]
			}`)
			return
		}

		fmt.Fprint(w, `{
			"count": 1,
			"results": [
				{
					"receipt_id": 101,
					"status": "paid",
					"was_paid": true,
					"grandtotal": {"amount": 2500, "currency_code": "USD"},
					"buyer_email": "buyer@example.com",
					"name": "Buyer Person",
					"create_timestamp": 1700000000,
					"update_timestamp": 1700000100
				}
			]
		}`)
	}))
}

func TestSyncOrders_EndToEnd(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	server := mockEtsyServer()
	defer server.Close()

	config.SetConfig(&config.Config{
		EtsyAPIBaseURL: server.URL,
		EtsyAPIKey:     "test-key",
	})

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.POST("/orders/sync",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		SyncOrders,
	)

	w := performJSON(router, http.MethodPost, "/orders/sync", map[string]interface{}{"months": 3})
	assert.Equal(t, http.StatusOK, w.Code)

	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.Equal(t, float64(1), response["total_receipts"])
	assert.Equal(t, float64(1), response["new_orders_saved"])

	var order models.Order
	err := db.Preload("Items").Where("etsy_order_id = ?", "101").First(&order).Error
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 25.00, order.TotalAmount)
	assert.Len(t, order.Items, 2)
}

func TestSyncOrders_EmptyBodyUsesDefaultWindow(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	server := mockEtsyServer()
	defer server.Close()

	config.SetConfig(&config.Config{
		EtsyAPIBaseURL: server.URL,
		EtsyAPIKey:     "test-key",
	})

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.POST("/orders/sync",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		SyncOrders,
	)

	req, _ := http.NewRequest(http.MethodPost, "/orders/sync", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSyncOrders_NoShopLinked(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := models.User{Auth0ID: "auth0|noshop", EtsyUserID: "9002"}
	db.Create(&user)

	router := setupTestRouter()
	router.POST("/orders/sync",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		SyncOrders,
	)

	w := performJSON(router, http.MethodPost, "/orders/sync", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "SHOP_NOT_FOUND", errorData["code"])
}

func TestSyncOrders_UpstreamFailure(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	config.SetConfig(&config.Config{
		EtsyAPIBaseURL: server.URL,
		EtsyAPIKey:     "test-key",
	})

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.POST("/orders/sync",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		SyncOrders,
	)

	w := performJSON(router, http.MethodPost, "/orders/sync", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	response := parseResponse(t, w)
	assert.False(t, response["success"].(bool))
	assert.Equal(t, "Failed to fetch receipts from Etsy", response["message"])
}

func TestListOrders(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	other := models.User{Auth0ID: "auth0|other", EtsyUserID: "9002", ShopID: "shop999"}
	db.Create(&other)

	seedOrder(t, db, user.ID, "101", models.OrderStatusPaid, nil)
	seedOrder(t, db, user.ID, "102", models.OrderStatusShipped, nil)
	seedOrder(t, db, other.ID, "201", models.OrderStatusPaid, nil)

	router := setupTestRouter()
	router.GET("/orders",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		ListOrders,
	)

	// All of the account's orders, nobody else's
	req, _ := http.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.True(t, response["success"].(bool))
	assert.Equal(t, float64(2), response["total"])

	// Filtered by status
	req, _ = http.NewRequest(http.MethodGet, "/orders?status=SHIPPED", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	response = parseResponse(t, w)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	assert.Equal(t, "102", data[0].(map[string]interface{})["etsy_order_id"])
}

func TestGetOrder(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)
	order := seedOrder(t, db, user.ID, "101", models.OrderStatusPaid, []models.OrderItem{
		{Title: "Dragon Figurine", Quantity: 1, Price: 15.00},
	})

	router := setupTestRouter()
	router.GET("/orders/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetOrder,
	)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "101", data["etsy_order_id"])

	items := data["items"].([]interface{})
	assert.Len(t, items, 1)
	assert.Equal(t, "Dragon Figurine", items[0].(map[string]interface{})["title"])
}

func TestGetOrder_NotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.GET("/orders/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetOrder,
	)

	req, _ := http.NewRequest(http.MethodGet, "/orders/99999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "ORDER_NOT_FOUND", errorData["code"])
}

func TestGetOrder_OtherUsersOrder(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	other := models.User{Auth0ID: "auth0|other", EtsyUserID: "9002", ShopID: "shop999"}
	db.Create(&other)
	order := seedOrder(t, db, other.ID, "201", models.OrderStatusPaid, nil)

	router := setupTestRouter()
	router.GET("/orders/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetOrder,
	)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code, "Cross-account access looks like a missing order")
}
