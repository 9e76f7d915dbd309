package ledger

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	s, err := NewStore(db, WithQueryTimeout(time.Second))
	require.NoError(t, err)
	return s, mock
}

var transactionCols = []string{
	"id", "business_id", "type", "category", "amount", "date",
	"product_id", "name", "quantity", "cogs", "created_at",
}

func TestNewStore_NilDB(t *testing.T) {
	s, err := NewStore(nil)
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestListTransactions_BuildsFilter(t *testing.T) {
	s, mock := newMockStore(t)

	business := uuid.New()
	product := uuid.New()
	txnID := uuid.New()
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	at := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(transactionCols).
		AddRow(txnID.String(), business.String(), "SALE", "sales", 25.0, at, product.String(), "mug", 5, 10.0, at)

	mock.ExpectQuery(`SELECT .* FROM transactions t LEFT JOIN inventory_items i ON i.id = t.product_id AND i.business_id = t.business_id `+
		`WHERE t.business_id = \? AND t.type = \? AND t.date >= \? AND t.product_id = \? ORDER BY t.date DESC`).
		WithArgs(business.String(), "SALE", from, product.String()).
		WillReturnRows(rows)

	records, err := s.ListTransactions(context.Background(), store.TransactionFilter{
		BusinessID: business,
		Type:       "SALE",
		From:       &from,
		ProductID:  &product,
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, txnID, rec.ID)
	assert.Equal(t, business, rec.BusinessID)
	assert.True(t, rec.ProductID.Valid)
	assert.Equal(t, product, rec.ProductID.UUID)
	assert.Equal(t, "mug", rec.ProductName)
	assert.Equal(t, 5, rec.Quantity)
	assert.Equal(t, 10.0, rec.COGS)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_WithoutProduct(t *testing.T) {
	s, mock := newMockStore(t)

	business := uuid.New()
	at := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(transactionCols).
		AddRow(uuid.NewString(), business.String(), "EXPENSE", "rent", 900.0, at, nil, "", 1, 0.0, at)

	mock.ExpectQuery(`WHERE t.business_id = \? ORDER BY t.date DESC`).
		WithArgs(business.String()).
		WillReturnRows(rows)

	records, err := s.ListTransactions(context.Background(), store.TransactionFilter{BusinessID: business})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].ProductID.Valid)
	assert.Equal(t, "", records[0].ProductName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListTransactions_QueryError(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM transactions`).WillReturnError(assert.AnError)

	_, err := s.ListTransactions(context.Background(), store.TransactionFilter{BusinessID: uuid.New()})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestGetInventoryItem_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	id := uuid.New()
	mock.ExpectQuery(`FROM inventory_items WHERE id = \?`).
		WithArgs(id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	item, err := s.GetInventoryItem(context.Background(), id)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Nil(t, item)
}

func TestDecrementStock(t *testing.T) {
	id := uuid.New()
	query := `UPDATE inventory_items SET stock = stock - \?, updated_at = CURRENT_TIMESTAMP WHERE id = \? AND stock >= \?`

	t.Run("enough stock", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).
			WithArgs(3, id.String(), 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, s.DecrementStock(context.Background(), id, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not enough stock", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectExec(query).
			WithArgs(3, id.String(), 3).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.DecrementStock(context.Background(), id, 3)
		assert.ErrorIs(t, err, store.ErrStockConflict)
	})
}

func TestWithinTx(t *testing.T) {
	record := store.TransactionRecord{
		ID:         uuid.New(),
		BusinessID: uuid.New(),
		Type:       "EXPENSE",
		Category:   "rent",
		Amount:     100,
		Date:       time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:   1,
	}
	args := []driver.Value{
		record.ID.String(), record.BusinessID.String(), "EXPENSE", "rent", 100.0,
		record.Date, nil, 1, 0.0,
	}

	t.Run("commits on success", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO transactions`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := s.WithinTx(context.Background(), func(ctx context.Context) error {
			return s.InsertTransaction(ctx, record)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		s, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO transactions`).WithArgs(args...).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		err := s.WithinTx(context.Background(), func(ctx context.Context) error {
			if err := s.InsertTransaction(ctx, record); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
