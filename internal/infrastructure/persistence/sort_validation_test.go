package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "DESC"},
		{"asc", "ASC"},
		{"  ASC ", "ASC"},
		{"desc", "DESC"},
		{"sideways", "DESC"},
		{"ASC; DROP TABLE orders;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty uses default", "", "created_at"},
		{"whitelisted", "price", "price"},
		{"trimmed", "  name ", "name"},
		{"case sensitive", "PRICE", "created_at"},
		{"unknown column", "cost", "created_at"},
		{"injection", "price; DROP TABLE products;--", "created_at"},
		{"subquery", "price, (SELECT password_hash FROM users)", "created_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, ProductSortFields, "created_at"))
		})
	}
}

func TestSortFieldWhitelists_IncludeCreatedAt(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"category":  CategorySortFields,
		"product":   ProductSortFields,
		"order":     OrderSortFields,
		"promotion": PromotionSortFields,
		"post":      PostSortFields,
		"history":   HistorySortFields,
	}
	for name, whitelist := range whitelists {
		assert.True(t, whitelist["created_at"], name)
	}
}
