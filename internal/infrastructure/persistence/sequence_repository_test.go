package persistence

import (
	"context"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/van-william/carbon-sub017/internal/domain/sequence"
)

func TestGormSequenceRepository_IncrementSQL(t *testing.T) {
	t.Run("issues a single atomic update with returning", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSequenceRepository(db)
		companyID := uuid.New()

		rows := sqlmock.NewRows([]string{"company_id", "document_type", "name", "prefix", "suffix", "next", "size", "step"}).
			AddRow(companyID, "quote", "Quote", "Q-", "", 5, 6, 1)
		mock.ExpectQuery(`UPDATE sequences SET next = next \+ step, updated_at = \$1 WHERE company_id = \$2 AND document_type = \$3 RETURNING`).
			WithArgs(sqlmock.AnyArg(), companyID, "quote").
			WillReturnRows(rows)

		seq, err := repo.Increment(context.Background(), companyID, sequence.DocumentTypeQuote)
		require.NoError(t, err)
		assert.Equal(t, int64(5), seq.Next)
		assert.Equal(t, "Q-", seq.Prefix)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports missing sequence", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormSequenceRepository(db)

		mock.ExpectQuery(`UPDATE sequences SET next = next \+ step`).
			WillReturnRows(sqlmock.NewRows([]string{"company_id"}))

		_, err := repo.Increment(context.Background(), uuid.New(), sequence.DocumentTypeJob)
		assert.ErrorIs(t, err, sequence.ErrSequenceNotFound)
	})
}

func TestGormSequenceRepository_DecrementSQL(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormSequenceRepository(db)
	companyID := uuid.New()

	mock.ExpectExec(`UPDATE sequences SET next = next - \$1, updated_at = \$2 WHERE company_id = \$3 AND document_type = \$4 AND next = \$5`).
		WithArgs(int64(1), sqlmock.AnyArg(), companyID, "job", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := repo.Decrement(context.Background(), companyID, sequence.DocumentTypeJob, 7, 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormSequenceRepository_SQLite(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormSequenceRepository(db)
	companyID := uuid.New()

	added, err := repo.CreateMissing(ctx, sequence.Defaults(companyID))
	require.NoError(t, err)
	assert.Equal(t, int64(len(sequence.AllDocumentTypes())), added)

	t.Run("seeding twice keeps existing rows", func(t *testing.T) {
		again, err := repo.CreateMissing(ctx, sequence.Defaults(companyID))
		require.NoError(t, err)
		assert.Equal(t, int64(0), again)
	})

	t.Run("increment then rollback restores next", func(t *testing.T) {
		seq, err := repo.Increment(ctx, companyID, sequence.DocumentTypeCustomer)
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq.Next)

		ok, err := repo.Decrement(ctx, companyID, sequence.DocumentTypeCustomer, seq.Next, seq.Step)
		require.NoError(t, err)
		assert.True(t, ok)

		stored, err := repo.Find(ctx, companyID, sequence.DocumentTypeCustomer)
		require.NoError(t, err)
		assert.Equal(t, int64(0), stored.Next)
	})

	t.Run("rollback is skipped after a newer issue", func(t *testing.T) {
		first, err := repo.Increment(ctx, companyID, sequence.DocumentTypeSupplier)
		require.NoError(t, err)
		_, err = repo.Increment(ctx, companyID, sequence.DocumentTypeSupplier)
		require.NoError(t, err)

		ok, err := repo.Decrement(ctx, companyID, sequence.DocumentTypeSupplier, first.Next, first.Step)
		require.NoError(t, err)
		assert.False(t, ok)

		stored, err := repo.Find(ctx, companyID, sequence.DocumentTypeSupplier)
		require.NoError(t, err)
		assert.Equal(t, int64(2), stored.Next)
	})

	t.Run("save updates settings", func(t *testing.T) {
		seq, err := repo.Find(ctx, companyID, sequence.DocumentTypeJob)
		require.NoError(t, err)
		seq.Prefix, seq.Step, seq.Next = "WO-", 10, 100
		require.NoError(t, repo.Save(ctx, seq))

		issued, err := repo.Increment(ctx, companyID, sequence.DocumentTypeJob)
		require.NoError(t, err)
		assert.Equal(t, int64(110), issued.Next)
		assert.Equal(t, "WO-", issued.Prefix)
	})

	t.Run("save of unknown sequence fails", func(t *testing.T) {
		seq := sequence.Default(uuid.New(), sequence.DocumentTypeJob)
		assert.ErrorIs(t, repo.Save(ctx, &seq), sequence.ErrSequenceNotFound)
	})

	t.Run("find all is scoped and ordered", func(t *testing.T) {
		all, err := repo.FindAll(ctx, companyID)
		require.NoError(t, err)
		require.Len(t, all, len(sequence.AllDocumentTypes()))
		for i := 1; i < len(all); i++ {
			assert.Less(t, string(all[i-1].DocumentType), string(all[i].DocumentType))
		}

		none, err := repo.FindAll(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("concurrent increments never repeat", func(t *testing.T) {
		const n = 25
		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			seen = make(map[int64]bool)
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				seq, err := repo.Increment(ctx, companyID, sequence.DocumentTypeQuote)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				seen[seq.Next] = true
				mu.Unlock()
			}()
		}
		wg.Wait()
		assert.Len(t, seen, n)
	})
}
