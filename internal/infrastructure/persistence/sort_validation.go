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

// ItemSortFields contains allowed sort fields for items
var ItemSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"name":        true,
	"unit":        true,
	"category":    true,
	"company":     true,
	"total_stock": true,
}

// BatchSortFields contains allowed sort fields for purchase batches
var BatchSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"batch_number":  true,
	"item_id":       true,
	"godown_id":     true,
	"purchase_date": true,
	"unit_price":    true,
	"purchased_qty": true,
	"remaining_qty": true,
}

// GodownSortFields contains allowed sort fields for godowns
var GodownSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"location":   true,
}

// AllocationSortFields contains allowed sort fields for project allocations
var AllocationSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"project_id": true,
	"item_id":    true,
	"item_name":  true,
	"quantity":   true,
	"total_cost": true,
	"unit_price": true,
}

// TransactionSortFields contains allowed sort fields for stock transactions
var TransactionSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"transaction_number": true,
	"direction":          true,
	"item_id":            true,
	"godown_id":          true,
	"quantity":           true,
	"total_value":        true,
	"source_type":        true,
	"transaction_date":   true,
}

// RequestSortFields contains allowed sort fields for allocation requests
var RequestSortFields = map[string]bool{
	"id":             true,
	"created_at":     true,
	"updated_at":     true,
	"request_number": true,
	"project_id":     true,
	"status":         true,
	"reviewed_at":    true,
}
