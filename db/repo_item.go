package db

import (
	"Gin_postgres_redis_loan_desk/loans"
	"Gin_postgres_redis_loan_desk/models"
	"context"

	"gorm.io/gorm"
)

// Item directory. Stock counters are owned by the ledger (stock_ledger.go);
// the update path here deliberately cannot touch them.

func (r *Repo) CreateItem(ctx context.Context, it *models.Item) error {
	return r.DB.WithContext(ctx).Create(it).Error
}

func (r *Repo) FindItemByID(ctx context.Context, id string) (*models.Item, error) {
	var it models.Item
	if err := r.DB.WithContext(ctx).First(&it, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &it, nil
}

// FindItemsByIDs returns the items for all given ids; any missing id is
// reported as ErrNotFound.
func (r *Repo) FindItemsByIDs(ctx context.Context, ids []string) (map[string]*models.Item, error) {
	return findItems(r.DB.WithContext(ctx), ids)
}

// findItems is the tx-scoped variant used by the loan engine to resolve item
// references inside its transaction.
func findItems(tx *gorm.DB, ids []string) (map[string]*models.Item, error) {
	var items []models.Item
	if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, loans.ErrNotFound
		}
	}
	return byID, nil
}

func (r *Repo) ListItems(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

// UpdateItem patches catalogue fields only.
func (r *Repo) UpdateItem(ctx context.Context, id string, fields map[string]any) (*models.Item, error) {
	delete(fields, "stock")
	delete(fields, "borrowed_quantity")
	res := r.DB.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, loans.ErrNotFound
	}
	return r.FindItemByID(ctx, id)
}
