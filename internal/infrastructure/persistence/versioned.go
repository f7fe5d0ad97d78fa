package persistence

import (
	"github.com/google/uuid"
	"github.com/van-william/carbon-sub017/internal/domain/shared"
	"gorm.io/gorm"
)

// updateVersioned writes cols to the row only while its version still equals
// expected, bumping the version. A missing row reports ErrNotFound and a
// stale version reports ErrConcurrencyConflict.
func updateVersioned(tx *gorm.DB, model any, companyID, id uuid.UUID, expected int, cols map[string]any) error {
	cols["version"] = expected + 1
	result := tx.Model(model).
		Where("id = ? AND company_id = ? AND version = ?", id, companyID, expected).
		Updates(cols)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ? AND company_id = ?", id, companyID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}

// deleteScoped removes a company owned row
func deleteScoped(tx *gorm.DB, model any, companyID, id uuid.UUID) error {
	result := tx.Where("id = ? AND company_id = ?", id, companyID).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
