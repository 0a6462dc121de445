package controllers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/printworks/printworks-api/config"
	"github.com/printworks/printworks-api/models"
	"github.com/stretchr/testify/assert"
)

func TestListCustomers_BiggestSpendersFirst(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	db.Create(&models.Customer{UserID: user.ID, Name: "Small Spender", Email: "small@example.com", OrderCount: 1, TotalSpend: 10})
	db.Create(&models.Customer{UserID: user.ID, Name: "Big Spender", Email: "big@example.com", OrderCount: 8, TotalSpend: 400})

	other := models.User{Auth0ID: "auth0|other", EtsyUserID: "9002", ShopID: "shop999"}
	db.Create(&other)
	db.Create(&models.Customer{UserID: other.ID, Name: "Someone Else's Customer", TotalSpend: 9999})

	router := setupTestRouter()
	router.GET("/customers",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		ListCustomers,
	)

	req, _ := http.NewRequest(http.MethodGet, "/customers", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	assert.Equal(t, float64(2), response["total"])

	data := response["data"].([]interface{})
	assert.Equal(t, "Big Spender", data[0].(map[string]interface{})["name"])
	assert.Equal(t, "Small Spender", data[1].(map[string]interface{})["name"])
}

func TestGetCustomer_WithOrderHistory(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	customer := models.Customer{UserID: user.ID, Name: "Repeat Buyer", Email: "repeat@example.com", OrderCount: 2, TotalSpend: 50}
	db.Create(&customer)

	order1 := seedOrder(t, db, user.ID, "101", models.OrderStatusPaid, nil)
	order2 := seedOrder(t, db, user.ID, "102", models.OrderStatusShipped, nil)
	db.Model(&models.Order{}).Where("id IN ?", []uint{order1.ID, order2.ID}).
		Update("customer_id", customer.ID)

	router := setupTestRouter()
	router.GET("/customers/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetCustomer,
	)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/customers/%d", customer.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})

	customerData := data["customer"].(map[string]interface{})
	assert.Equal(t, "Repeat Buyer", customerData["name"])

	orders := data["orders"].([]interface{})
	assert.Len(t, orders, 2)
}

func TestGetCustomer_NotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.GET("/customers/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetCustomer,
	)

	req, _ := http.NewRequest(http.MethodGet, "/customers/99999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "CUSTOMER_NOT_FOUND", errorData["code"])
}
