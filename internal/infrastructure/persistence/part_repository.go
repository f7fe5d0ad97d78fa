package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/catalog"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPartRepository implements catalog.PartRepository using GORM
type GormPartRepository struct {
	db *gorm.DB
}

// NewGormPartRepository creates a new GormPartRepository
func NewGormPartRepository(db *gorm.DB) *GormPartRepository {
	return &GormPartRepository{db: db}
}

func preloadPriceBreaks(db *gorm.DB) *gorm.DB {
	return db.Preload("PriceBreaks", func(db *gorm.DB) *gorm.DB {
		return db.Order("min_quantity ASC")
	})
}

// FindByID finds a part with its price breaks
func (r *GormPartRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*catalog.Part, error) {
	var m models.PartModel
	if err := preloadPriceBreaks(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByIDs loads several parts at once; unknown IDs are skipped
func (r *GormPartRepository) FindByIDs(ctx context.Context, companyID uuid.UUID, ids []uuid.UUID) ([]catalog.Part, error) {
	if len(ids) == 0 {
		return []catalog.Part{}, nil
	}
	var rows []models.PartModel
	if err := preloadPriceBreaks(r.db.WithContext(ctx)).
		Where("company_id = ? AND id IN ?", companyID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Part, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// FindAll returns one page of parts and the total match count
func (r *GormPartRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]catalog.Part, int64, error) {
	rows, total, err := findPage[models.PartModel](
		r.db.WithContext(ctx).Model(&models.PartModel{}).Where("company_id = ?", companyID),
		partList, filter, preloadPriceBreaks)
	if err != nil {
		return nil, 0, err
	}
	out := make([]catalog.Part, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Create inserts a part and its price breaks
func (r *GormPartRepository) Create(ctx context.Context, part *catalog.Part) error {
	m := models.PartModelFromDomain(part)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		if len(m.PriceBreaks) > 0 {
			return tx.Create(&m.PriceBreaks).Error
		}
		return nil
	})
	return translateError(err)
}

// Update persists the part and replaces its price breaks when the stored
// version matches expectedVersion
func (r *GormPartRepository) Update(ctx context.Context, part *catalog.Part, expectedVersion int) error {
	m := models.PartModelFromDomain(part)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.PartModel{}, part.CompanyID, part.ID, expectedVersion, m.Columns()); err != nil {
			return err
		}
		if err := tx.Where("part_id = ?", part.ID).Delete(&models.PriceBreakModel{}).Error; err != nil {
			return err
		}
		if len(m.PriceBreaks) > 0 {
			return tx.Create(&m.PriceBreaks).Error
		}
		return nil
	})
	if err != nil {
		return translateError(err)
	}
	part.Version = expectedVersion + 1
	return nil
}

// Delete removes a part and its price breaks
func (r *GormPartRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.PartModel{}, companyID, id); err != nil {
			return err
		}
		return tx.Where("part_id = ?", id).Delete(&models.PriceBreakModel{}).Error
	})
}

var _ catalog.PartRepository = (*GormPartRepository)(nil)
