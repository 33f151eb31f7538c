package repository

import (
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/docgen-api/pkg/pagination"
	"gorm.io/gorm"
)

// OwnerScope returns a GORM scope that filters by the owning user column.
// A nil ownerID leaves the query unfiltered (admins see everything).
func OwnerScope(column string, ownerID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ownerID == nil {
			return db
		}
		return db.Where(column+" = ?", *ownerID)
	}
}

// SearchScope matches term against any of columns, case-insensitively.
// LOWER/LIKE keeps it portable between PostgreSQL and SQLite.
func SearchScope(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Paginate applies offset and limit after normalising params
func Paginate(params *pagination.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		params.Validate()
		return db.Offset(params.Offset()).Limit(params.PerPage)
	}
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
