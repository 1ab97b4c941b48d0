package db

import (
	"sort"

	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stock ledger. Every mutation of Item.Stock / Item.BorrowedQuantity in the
// whole service goes through reserveStock or releaseStock, inside the caller's
// transaction. For one batch either every line is applied or none is: the
// item rows are locked first, all lines validated, and only then written.

// lockItems takes FOR UPDATE locks on the given items, in sorted id order so
// concurrent batches touching the same items queue up instead of deadlocking.
func lockItems(tx *gorm.DB, lines []loans.Line) (map[string]*models.Item, error) {
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		qty[l.ItemID] += l.Quantity
	}
	ids := make([]string, 0, len(qty))
	for id := range qty {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	byID := make(map[string]*models.Item, len(ids))
	for _, id := range ids {
		var it models.Item
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&it, "id = ?", id).Error; err != nil {
			return nil, notFound(err)
		}
		byID[id] = &it
	}
	return byID, nil
}

func sumByItem(lines []loans.Line) map[string]int {
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		qty[l.ItemID] += l.Quantity
	}
	return qty
}

// reserveStock moves quantity from stock to borrowed_quantity for every line.
// Fails with InsufficientStockError naming the first shortfall, before any
// counter has been written.
func reserveStock(tx *gorm.DB, lines []loans.Line) error {
	if len(lines) == 0 {
		return nil
	}
	items, err := lockItems(tx, lines)
	if err != nil {
		return err
	}
	qty := sumByItem(lines)

	// 先整批校验，再动账
	for _, l := range lines {
		it := items[l.ItemID]
		if q := qty[l.ItemID]; q > it.Stock {
			return &loans.InsufficientStockError{
				ItemID:    it.ID,
				ItemName:  it.Name,
				Requested: q,
				Available: it.Stock,
			}
		}
	}

	for id, q := range qty {
		it := items[id]
		if err := applyCounters(tx, it, it.Stock-q, it.BorrowedQuantity+q); err != nil {
			return err
		}
	}
	return nil
}

// releaseStock moves quantity back from borrowed_quantity to stock. A batch
// that would drive a counter negative means a caller bug, not a client error.
func releaseStock(tx *gorm.DB, lines []loans.Line) error {
	if len(lines) == 0 {
		return nil
	}
	items, err := lockItems(tx, lines)
	if err != nil {
		return err
	}
	qty := sumByItem(lines)

	for id, q := range qty {
		if it := items[id]; q > it.BorrowedQuantity {
			return loans.ErrInvariantViolation
		}
	}

	for id, q := range qty {
		it := items[id]
		if err := applyCounters(tx, it, it.Stock+q, it.BorrowedQuantity-q); err != nil {
			return err
		}
	}
	return nil
}

// applyCounters writes the new counter pair and keeps availability_status in
// step at the zero-stock boundary. Maintenance/retired are never overwritten.
func applyCounters(tx *gorm.DB, it *models.Item, stock, borrowed int) error {
	if stock < 0 || borrowed < 0 {
		return loans.ErrInvariantViolation
	}
	fields := map[string]any{
		"stock":             stock,
		"borrowed_quantity": borrowed,
	}
	switch it.AvailabilityStatus {
	case models.ItemAvailable:
		if stock == 0 {
			fields["availability_status"] = models.ItemBorrowed
		}
	case models.ItemBorrowed:
		if stock > 0 {
			fields["availability_status"] = models.ItemAvailable
		}
	}
	return tx.Model(&models.Item{}).Where("id = ?", it.ID).Updates(fields).Error
}
