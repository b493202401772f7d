package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if it is whitelisted, else defaultField.
// Only whitelisted names ever reach an ORDER BY clause.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var CategorySortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"slug":       true,
}

var ProductSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"price":      true,
}

var OrderSortFields = map[string]bool{
	"created_at":   true,
	"order_number": true,
	"status":       true,
	"total":        true,
}

var PromotionSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
	"valid_from": true,
	"valid_to":   true,
}

var PostSortFields = map[string]bool{
	"created_at":   true,
	"published_at": true,
	"title":        true,
}

var HistorySortFields = map[string]bool{
	"created_at": true,
}
