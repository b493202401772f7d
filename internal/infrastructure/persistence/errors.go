package persistence

import (
	"errors"

	"github.com/shopfront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translate maps gorm errors onto domain errors. The connection is opened
// with TranslateError so driver specific unique violations arrive as
// gorm.ErrDuplicatedKey.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeValidation, "Referenced record does not exist")
	default:
		return err
	}
}

// applyPaging adds ORDER BY, LIMIT and OFFSET. orderBy must already be
// validated against a whitelist.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Limit(filter.PageSize).Offset(filter.Offset())
	}
	return query
}
