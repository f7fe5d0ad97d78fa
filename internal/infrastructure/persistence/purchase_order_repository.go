package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/purchasing"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements purchasing.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func preloadPurchaseOrderLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds a purchase order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var m models.PurchaseOrderModel
	if err := preloadPurchaseOrderLines(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of purchase orders and the total match count
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]purchasing.PurchaseOrder, int64, error) {
	rows, total, err := findPage[models.PurchaseOrderModel](
		r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Where("company_id = ?", companyID),
		purchaseOrderList, filter, preloadPurchaseOrderLines)
	if err != nil {
		return nil, 0, err
	}
	out := make([]purchasing.PurchaseOrder, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a purchase order with its lines
func (r *GormPurchaseOrderRepository) Create(ctx context.Context, order *purchasing.PurchaseOrder) error {
	m := models.PurchaseOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		if len(m.Lines) > 0 {
			return tx.Create(&m.Lines).Error
		}
		return nil
	})
	return translateError(err)
}

// Update persists header and lines when the stored version matches expectedVersion
func (r *GormPurchaseOrderRepository) Update(ctx context.Context, order *purchasing.PurchaseOrder, expectedVersion int) error {
	m := models.PurchaseOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.PurchaseOrderModel{}, order.CompanyID, order.ID, expectedVersion, m.Columns()); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}
		if len(m.Lines) > 0 {
			return tx.Create(&m.Lines).Error
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	order.Version = expectedVersion + 1
	return nil
}

// Delete removes a purchase order with its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.PurchaseOrderModel{}, companyID, id); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&models.PurchaseOrderLineModel{}).Error
	})
}

var _ purchasing.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
