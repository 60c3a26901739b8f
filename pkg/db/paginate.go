package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/fruitnut/fruitnut-backend/pkg/pagination"
)

// Paginate is a gorm scope for newest-first keyset pages over
// table.created_at and table.id.
func Paginate(table string, q pagination.Query) func(*gorm.DB) *gorm.DB {
	createdAt := fmt.Sprintf("%s.created_at", table)
	id := fmt.Sprintf("%s.id", table)
	return func(tx *gorm.DB) *gorm.DB {
		if q.Cursor != nil {
			tx = tx.Where(
				fmt.Sprintf("(%s < ?) OR (%s = ? AND %s < ?)", createdAt, createdAt, id),
				q.Cursor.CreatedAt, q.Cursor.CreatedAt, q.Cursor.ID,
			)
		}
		tx = tx.Order(createdAt + " DESC").Order(id + " DESC")
		if q.Limit > 0 {
			tx = tx.Limit(q.Limit)
		}
		return tx
	}
}
