package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
	"github.com/van-william/carbon-sub017/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const sequenceColumns = "company_id, document_type, name, prefix, suffix, next, size, step"

// GormSequenceRepository implements sequence.Repository using GORM
type GormSequenceRepository struct {
	db *gorm.DB
}

// NewGormSequenceRepository creates a new GormSequenceRepository
func NewGormSequenceRepository(db *gorm.DB) *GormSequenceRepository {
	return &GormSequenceRepository{db: db}
}

// Find returns the sequence of a document type
func (r *GormSequenceRepository) Find(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (*sequence.Sequence, error) {
	var m models.SequenceModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND document_type = ?", companyID, string(docType)).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sequence.ErrSequenceNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindAll returns every sequence of a company ordered by document type
func (r *GormSequenceRepository) FindAll(ctx context.Context, companyID uuid.UUID) ([]sequence.Sequence, error) {
	var rows []models.SequenceModel
	if err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("document_type ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sequence.Sequence, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save overwrites the settings of an existing sequence
func (r *GormSequenceRepository) Save(ctx context.Context, seq *sequence.Sequence) error {
	seq.UpdatedAt = time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.SequenceModel{}).
		Where("company_id = ? AND document_type = ?", seq.CompanyID, string(seq.DocumentType)).
		Updates(map[string]any{
			"name":       seq.Name,
			"prefix":     seq.Prefix,
			"suffix":     seq.Suffix,
			"next":       seq.Next,
			"size":       seq.Size,
			"step":       seq.Step,
			"updated_at": seq.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return sequence.ErrSequenceNotFound
	}
	return nil
}

// CreateMissing inserts rows that do not exist yet and reports how many were added
func (r *GormSequenceRepository) CreateMissing(ctx context.Context, seqs []sequence.Sequence) (int64, error) {
	if len(seqs) == 0 {
		return 0, nil
	}
	now := time.Now()
	rows := make([]*models.SequenceModel, 0, len(seqs))
	for i := range seqs {
		m := models.SequenceModelFromDomain(&seqs[i])
		m.UpdatedAt = now
		rows = append(rows, m)
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	return result.RowsAffected, result.Error
}

// Increment atomically advances next by step and returns the updated row
func (r *GormSequenceRepository) Increment(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType) (*sequence.Sequence, error) {
	var m models.SequenceModel
	now := time.Now()
	result := r.db.WithContext(ctx).Raw(
		"UPDATE sequences SET next = next + step, updated_at = ? "+
			"WHERE company_id = ? AND document_type = ? RETURNING "+sequenceColumns,
		now, companyID, string(docType),
	).Scan(&m)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, sequence.ErrSequenceNotFound
	}
	m.UpdatedAt = now
	return m.ToDomain(), nil
}

// Decrement steps next back only while it still equals the issued value
func (r *GormSequenceRepository) Decrement(ctx context.Context, companyID uuid.UUID, docType sequence.DocumentType, issued, step int64) (bool, error) {
	result := r.db.WithContext(ctx).Exec(
		"UPDATE sequences SET next = next - ?, updated_at = ? "+
			"WHERE company_id = ? AND document_type = ? AND next = ?",
		step, time.Now(), companyID, string(docType), issued,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

var _ sequence.Repository = (*GormSequenceRepository)(nil)
