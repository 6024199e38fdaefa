package repository

import (
	"strings"

	"gorm.io/gorm"
)

// ListOptions narrows a list query. A zero Limit returns the full collection.
type ListOptions struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

func (o ListOptions) paginate(db *gorm.DB) *gorm.DB {
	if o.Limit <= 0 {
		return db
	}
	page := o.Page
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * o.Limit).Limit(o.Limit)
}

// searchScope ORs a case-insensitive match over columns. GORM wraps the OR
// group in parentheses when it is combined with other conditions.
func searchScope(search string, columns ...string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		search = strings.TrimSpace(search)
		if search == "" || len(columns) == 0 {
			return db
		}
		like := "%" + search + "%"
		clauses := make([]string, 0, len(columns))
		args := make([]interface{}, 0, len(columns))
		for _, c := range columns {
			clauses = append(clauses, c+" ILIKE ?")
			args = append(args, like)
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

func equalScope(column, value string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" || value == "all" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}
