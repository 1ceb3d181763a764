package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListOptions paging, keyword search and ordering of a list query
type ListOptions struct {
	Offset   int
	Limit    int
	Search   string
	Ordering string // field name, "-" prefix for descending
}

// orderFields maps a public ordering name to its column
type orderFields map[string]string

// applySearch case-insensitive substring match over columns, OR-ed
func applySearch(db *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return db
	}
	like := "%" + escapeLike(keyword) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, col+" ILIKE ?")
		args = append(args, like)
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}

// applyOrdering unknown names fall back to def; id breaks ties
func applyOrdering(db *gorm.DB, ordering string, allowed orderFields, def string) *gorm.DB {
	order := def
	name := strings.TrimSpace(ordering)
	desc := strings.HasPrefix(name, "-")
	name = strings.TrimPrefix(name, "-")
	if col, ok := allowed[name]; ok {
		order = col + " ASC"
		if desc {
			order = col + " DESC"
		}
	}
	return db.Order(order).Order(clause.OrderByColumn{
		Column: clause.Column{Table: clause.CurrentTable, Name: "id"},
		Desc:   true,
	})
}

func applyPage(db *gorm.DB, opts ListOptions) *gorm.DB {
	if opts.Limit > 0 {
		db = db.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		db = db.Offset(opts.Offset)
	}
	return db
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GroupCount one row of a GROUP BY count
type GroupCount struct {
	Key   string
	Count int64
}

// DayCount one row of a per-day histogram
type DayCount struct {
	Day   string
	Count int64
}

// countBy counts rows of model grouped by column
func countBy(db *gorm.DB, model interface{}, column string) ([]GroupCount, error) {
	var rows []GroupCount
	err := db.Model(model).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Order(column + " ASC").
		Scan(&rows).Error
	return rows, err
}
