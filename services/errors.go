package services

import "errors"

// Business-level sentinel errors. Controllers map these onto 404/400
// responses; anything else is an unexpected persistence error.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrFilamentNotFound = errors.New("filament not found")
	ErrPrinterNotFound  = errors.New("printer not found")
	ErrPrintNotFound    = errors.New("scheduled print not found")
	ErrInvalidStatus    = errors.New("invalid status value")
	ErrNoItems          = errors.New("order has no line items")
)
