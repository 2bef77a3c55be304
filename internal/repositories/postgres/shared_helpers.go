package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/repositories"
)

// handleDBError wraps driver errors with the operation that failed and maps
// vendor conditions onto the repository sentinels so callers can use
// errors.Is without knowing gorm.
func handleDBError(err error, operation string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s failed: %w", operation, repositories.ErrDuplicate)
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}

// applyPaginationAndSorting applies ORDER BY, LIMIT and OFFSET with a
// whitelist mapping API sort keys to SQL identifiers.
func applyPaginationAndSorting(query *gorm.DB, limit, offset int, sortBy, sortOrder string, sortKeyToColumn map[string]string, defaultColumn string) *gorm.DB {
	column, ok := sortKeyToColumn[sortBy]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if sortOrder == "asc" || sortOrder == "ASC" {
		order = "ASC"
	}

	// Only mapped SQL column names and a constant sort order reach the query
	query = query.Order(fmt.Sprintf("%s %s", column, order))

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
