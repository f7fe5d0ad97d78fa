package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSupplierRepository implements partner.SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier by ID within a company
func (r *GormSupplierRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*partner.Supplier, error) {
	var m models.SupplierModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of suppliers and the total match count
func (r *GormSupplierRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Supplier, int64, error) {
	rows, total, err := findPage[models.SupplierModel](r.db.WithContext(ctx).Model(&models.SupplierModel{}).Where("company_id = ?", companyID), supplierList, filter, nil)
	if err != nil {
		return nil, 0, err
	}
	out := make([]partner.Supplier, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a new supplier
func (r *GormSupplierRepository) Create(ctx context.Context, supplier *partner.Supplier) error {
	return translateError(r.db.WithContext(ctx).Create(models.SupplierModelFromDomain(supplier)).Error)
}

// Update persists the supplier when the stored version matches expectedVersion
func (r *GormSupplierRepository) Update(ctx context.Context, supplier *partner.Supplier, expectedVersion int) error {
	m := models.SupplierModelFromDomain(supplier)
	if err := updateVersioned(r.db.WithContext(ctx), &models.SupplierModel{}, supplier.CompanyID, supplier.ID, expectedVersion, m.Columns()); err != nil {
		return err
	}
	supplier.Version = expectedVersion + 1
	return nil
}

// Delete removes a supplier
func (r *GormSupplierRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.SupplierModel{}, companyID, id)
}

var _ partner.SupplierRepository = (*GormSupplierRepository)(nil)
