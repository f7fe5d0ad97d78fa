package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/partner"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within a company
func (r *GormCustomerRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*partner.Customer, error) {
	var m models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByCode finds a customer by its code within a company
func (r *GormCustomerRepository) FindByCode(ctx context.Context, companyID uuid.UUID, code string) (*partner.Customer, error) {
	var m models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ? AND code = ?", companyID, strings.ToUpper(strings.TrimSpace(code))).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of customers and the total match count
func (r *GormCustomerRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]partner.Customer, int64, error) {
	rows, total, err := findPage[models.CustomerModel](r.db.WithContext(ctx).Model(&models.CustomerModel{}).Where("company_id = ?", companyID), customerList, filter, nil)
	if err != nil {
		return nil, 0, err
	}
	out := make([]partner.Customer, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return translateError(r.db.WithContext(ctx).Create(models.CustomerModelFromDomain(customer)).Error)
}

// Update persists the customer when the stored version matches expectedVersion
func (r *GormCustomerRepository) Update(ctx context.Context, customer *partner.Customer, expectedVersion int) error {
	m := models.CustomerModelFromDomain(customer)
	if err := updateVersioned(r.db.WithContext(ctx), &models.CustomerModel{}, customer.CompanyID, customer.ID, expectedVersion, m.Columns()); err != nil {
		return err
	}
	customer.Version = expectedVersion + 1
	return nil
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return deleteScoped(r.db.WithContext(ctx), &models.CustomerModel{}, companyID, id)
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)
