package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ProductSortFields contains allowed sort fields for coffee products
var ProductSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"name":       true,
	"type":       true,
	"grade":      true,
	"origin":     true,
	"active":     true,
}

// ServiceSortFields contains allowed sort fields for business services
var ServiceSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"code":          true,
	"name":          true,
	"pricing_model": true,
	"active":        true,
}

// CompanySortFields contains allowed sort fields for client companies
var CompanySortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"legal_name":          true,
	"registration_number": true,
	"country":             true,
	"status":              true,
	"relationship":        true,
	"risk":                true,
	"follow_up_at":        true,
}

// RFQSortFields contains allowed sort fields for inquiries
var RFQSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"updated_at":       true,
	"number":           true,
	"status":           true,
	"priority":         true,
	"submitted_at":     true,
	"last_activity_at": true,
	"expires_at":       true,
}

// OrderSortFields contains allowed sort fields for export orders
var OrderSortFields = map[string]bool{
	"id":                      true,
	"created_at":              true,
	"updated_at":              true,
	"number":                  true,
	"status":                  true,
	"payment_status":          true,
	"total_amount":            true,
	"requested_delivery_date": true,
}
