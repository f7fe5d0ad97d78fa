package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sales"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuoteRepository implements sales.QuoteRepository using GORM
type GormQuoteRepository struct {
	db *gorm.DB
}

// NewGormQuoteRepository creates a new GormQuoteRepository
func NewGormQuoteRepository(db *gorm.DB) *GormQuoteRepository {
	return &GormQuoteRepository{db: db}
}

func preloadQuoteLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Lines.Prices", func(db *gorm.DB) *gorm.DB { return db.Order("quantity ASC") })
}

// FindByID finds a quote with its lines and prices
func (r *GormQuoteRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*sales.Quote, error) {
	var m models.QuoteModel
	if err := preloadQuoteLines(r.db.WithContext(ctx)).
		Where("company_id = ? AND id = ?", companyID, id).
		First(&m).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll returns one page of quotes and the total match count
func (r *GormQuoteRepository) FindAll(ctx context.Context, companyID uuid.UUID, filter shared.Filter) ([]sales.Quote, int64, error) {
	rows, total, err := findPage[models.QuoteModel](
		r.db.WithContext(ctx).Model(&models.QuoteModel{}).Where("company_id = ?", companyID),
		quoteList, filter, preloadQuoteLines)
	if err != nil {
		return nil, 0, err
	}
	out := make([]sales.Quote, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// FindExpired returns sent quotes of any company whose expiration date is
// before asOf. Lines are not loaded.
func (r *GormQuoteRepository) FindExpired(ctx context.Context, asOf time.Time, limit int) ([]sales.Quote, error) {
	var rows []models.QuoteModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expiration_date IS NOT NULL AND expiration_date < ?", string(sales.QuoteStatusSent), asOf).
		Order("expiration_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}
	out := make([]sales.Quote, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Create inserts a quote with its lines
func (r *GormQuoteRepository) Create(ctx context.Context, quote *sales.Quote) error {
	m := models.QuoteModelFromDomain(quote)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(m).Error; err != nil {
			return err
		}
		return insertQuoteLines(tx, m)
	})
	return translateError(err)
}

// Update persists header and lines when the stored version matches expectedVersion
func (r *GormQuoteRepository) Update(ctx context.Context, quote *sales.Quote, expectedVersion int) error {
	m := models.QuoteModelFromDomain(quote)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.QuoteModel{}, quote.CompanyID, quote.ID, expectedVersion, m.Columns()); err != nil {
			return err
		}
		if err := deleteQuoteLines(tx, quote.ID); err != nil {
			return err
		}
		return insertQuoteLines(tx, m)
	})
	if err != nil {
		return translateError(err)
	}
	quote.Version = expectedVersion + 1
	return nil
}

// Delete removes a quote with its lines
func (r *GormQuoteRepository) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteScoped(tx, &models.QuoteModel{}, companyID, id); err != nil {
			return err
		}
		return deleteQuoteLines(tx, id)
	})
}

func insertQuoteLines(tx *gorm.DB, m *models.QuoteModel) error {
	if len(m.Lines) == 0 {
		return nil
	}
	if err := tx.Omit(clause.Associations).Create(&m.Lines).Error; err != nil {
		return err
	}
	if prices := m.Prices(); len(prices) > 0 {
		return tx.Create(&prices).Error
	}
	return nil
}

func deleteQuoteLines(tx *gorm.DB, quoteID uuid.UUID) error {
	if err := tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteLinePriceModel{}).Error; err != nil {
		return err
	}
	return tx.Where("quote_id = ?", quoteID).Delete(&models.QuoteLineModel{}).Error
}

var (
	_ sales.QuoteRepository = (*GormQuoteRepository)(nil)
	_ sales.ExpiryFinder    = (*GormQuoteRepository)(nil)
)
