package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesOrderRepository implements sales.SalesOrderRepository using GORM
type GormSalesOrderRepository struct {
	db *gorm.DB
}

// NewGormSalesOrderRepository creates a new GormSalesOrderRepository
func NewGormSalesOrderRepository(db *gorm.DB) *GormSalesOrderRepository {
	return &GormSalesOrderRepository{db: db}
}

func preloadSalesOrderLines(db *gorm.DB) *gorm.DB {
	return db.Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// FindByID finds a sales order with its lines
func (r *GormSalesOrderRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.SalesOrder, error) {
	var m models.SalesOrderModel
	if err := preloadSalesOrderLines(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of sales orders and the total match count
func (r *GormSalesOrderRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.SalesOrder, int64, error) {
	rows, total, err := findPage[models.SalesOrderModel](
		r.db.WithContext(ctx).Model(&models.SalesOrderModel{}).Where("company_id = ?", companyID),
		salesOrderList, filter, preloadSalesOrderLines)
	if err != nil {
		return nil, 0, err
	}
	out := make([]sales.SalesOrder, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a sales order with its lines
func (r *GormSalesOrderRepository) Create(ctx context.Context, order *sales.SalesOrder) error {
	m := models.SalesOrderModelFromDomain(order)
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
func (r *GormSalesOrderRepository) Update(ctx context.Context, order *sales.SalesOrder, expectedVersion int) error {
	m := models.SalesOrderModelFromDomain(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.SalesOrderModel{}, order.CompanyID, order.ID, expectedVersion, m.Columns()); err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.SalesOrderLineModel{}).Error; err != nil {
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

// Delete removes a sales order with its lines
func (r *GormSalesOrderRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.SalesOrderModel{}, companyID, id); err != nil {
			return err
		}
		return tx.Where("order_id = ?", id).Delete(&models.SalesOrderLineModel{}).Error
	})
}

var _ sales.SalesOrderRepository = (*GormSalesOrderRepository)(nil)
