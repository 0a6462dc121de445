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

func TestCreatePrinter(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name: "Successfully create printer",
			requestBody: map[string]interface{}{
				"name":  "Prusa MK4",
				"model": "MK4",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Fail with missing name",
			requestBody:    map[string]interface{}{"model": "MK4"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Fail with malformed status URL",
			requestBody: map[string]interface{}{
				"name":       "Prusa MK4",
				"status_url": "not a url",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupControllerTestDB(t)
			config.SetDB(db)
			user := seedLinkedUser(t, db)

			router := setupTestRouter()
			router.POST("/printers",
				mockAuthMiddleware(user.Auth0ID, "mock-token"),
				CreatePrinter,
			)

			w := performJSON(router, http.MethodPost, "/printers", tt.requestBody)
			assert.Equal(t, tt.expectedStatus, w.Code)

			response := parseResponse(t, w)
			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
				return
			}

			data := response["data"].(map[string]interface{})
			assert.Equal(t, "Prusa MK4", data["name"])
			assert.Equal(t, true, data["active"], "Printers start active")
		})
	}
}

func TestUpdatePrinter_Deactivate(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)
	printer := seedPrinter(t, db, user.ID)

	router := setupTestRouter()
	router.PUT("/printers/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		UpdatePrinter,
	)

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/printers/%d", printer.ID),
		map[string]interface{}{"active": false})

	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Printer
	db.First(&reloaded, printer.ID)
	assert.False(t, reloaded.Active)
	assert.Equal(t, printer.Name, reloaded.Name)
}

func TestDeletePrinter(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)
	printer := seedPrinter(t, db, user.ID)

	router := setupTestRouter()
	router.DELETE("/printers/:id",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		DeletePrinter,
	)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/printers/%d", printer.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Printer{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetPrinterStatus_Unconfigured(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)
	printer := seedPrinter(t, db, user.ID)

	router := setupTestRouter()
	router.GET("/printers/:id/status",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetPrinterStatus,
	)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/printers/%d/status", printer.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "unconfigured", data["status"])
}

func TestGetPrinterStatus_ProxiesEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"idle","nozzle_temp":25}`)
	}))
	defer server.Close()

	statusURL := server.URL
	printer := models.Printer{
		UserID:    user.ID,
		Name:      "Networked Printer",
		StatusURL: &statusURL,
		Active:    true,
	}
	db.Create(&printer)

	router := setupTestRouter()
	router.GET("/printers/:id/status",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetPrinterStatus,
	)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/printers/%d/status", printer.ID), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := parseResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "idle", data["status"])
}

func TestGetPrinterStatus_NotFound(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)

	user := seedLinkedUser(t, db)

	router := setupTestRouter()
	router.GET("/printers/:id/status",
		mockAuthMiddleware(user.Auth0ID, "mock-token"),
		GetPrinterStatus,
	)

	req, _ := http.NewRequest(http.MethodGet, "/printers/99999/status", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := parseResponse(t, w)
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "PRINTER_NOT_FOUND", errorData["code"])
}
