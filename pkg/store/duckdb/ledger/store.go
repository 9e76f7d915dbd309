package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/duckdb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Store reads and writes transactions and inventory items kept in DuckDB.
// Writes issued with a context from WithinTx share that transaction.
type Store interface {
	ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]store.TransactionRecord, error)
	ListInventory(ctx context.Context, businessID uuid.UUID) ([]store.InventoryRecord, error)
	GetInventoryItem(ctx context.Context, id uuid.UUID) (*store.InventoryRecord, error)
	FindInventoryItemByName(ctx context.Context, businessID uuid.UUID, name string) (*store.InventoryRecord, error)
	InsertTransaction(ctx context.Context, record store.TransactionRecord) error
	InsertInventoryItem(ctx context.Context, record store.InventoryRecord) error
	UpdateInventoryItem(ctx context.Context, record store.InventoryRecord) error
	DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type ledgerStore struct {
	db           *sql.DB
	queryTimeout time.Duration

	// DuckDB aborts concurrent updates of the same row, so writers queue here.
	writeMu sync.Mutex
}

type Option func(*ledgerStore)

// WithQueryTimeout bounds every statement issued outside a transaction.
func WithQueryTimeout(timeout time.Duration) Option {
	return func(s *ledgerStore) {
		s.queryTimeout = timeout
	}
}

func NewStore(db *sql.DB, opts ...Option) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	s := &ledgerStore{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *ledgerStore) conn(ctx context.Context) querier {
	if tx := duckdb.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *ledgerStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.queryTimeout <= 0 || duckdb.GetTransaction(ctx) != nil {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.queryTimeout)
}

// lockWrites takes the write lock unless ctx already runs inside WithinTx,
// which holds it for the whole transaction.
func (s *ledgerStore) lockWrites(ctx context.Context) func() {
	if duckdb.GetTransaction(ctx) != nil {
		return func() {}
	}
	s.writeMu.Lock()
	return s.writeMu.Unlock
}

func (s *ledgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	unlock := s.lockWrites(ctx)
	defer unlock()

	return duckdb.InTransaction(ctx, s.db, fn)
}

const transactionColumns = `
	t.id, t.business_id, t.type, t.category, t.amount, t.date,
	t.product_id, COALESCE(i.name, ''), t.quantity, t.cogs, t.created_at`

func (s *ledgerStore) ListTransactions(
	ctx context.Context,
	filter store.TransactionFilter,
) ([]store.TransactionRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	conditions := []string{"t.business_id = ?"}
	args := []interface{}{filter.BusinessID.String()}
	if filter.Type != "" {
		conditions = append(conditions, "t.type = ?")
		args = append(args, filter.Type)
	}
	if filter.From != nil {
		conditions = append(conditions, "t.date >= ?")
		args = append(args, filter.From.UTC())
	}
	if filter.To != nil {
		conditions = append(conditions, "t.date <= ?")
		args = append(args, filter.To.UTC())
	}
	if filter.ProductID != nil {
		conditions = append(conditions, "t.product_id = ?")
		args = append(args, filter.ProductID.String())
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		LEFT JOIN inventory_items i ON i.id = t.product_id AND i.business_id = t.business_id
		WHERE %s
		ORDER BY t.date DESC`, transactionColumns, strings.Join(conditions, " AND "))

	rows, err := s.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.TransactionRecord, 0)
	for rows.Next() {
		var (
			rec       store.TransactionRecord
			productID sql.NullString
		)
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.Type, &rec.Category, &rec.Amount, &rec.Date,
			&productID, &rec.ProductName, &rec.Quantity, &rec.COGS, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if productID.Valid && productID.String != "" {
			if err := rec.ProductID.Scan(productID.String); err != nil {
				return nil, fmt.Errorf("parse product id of transaction %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return records, nil
}

const inventoryColumns = `
	id, business_id, name, COALESCE(description, ''), cost_price, selling_price, stock, created_at, updated_at`

func (s *ledgerStore) ListInventory(ctx context.Context, businessID uuid.UUID) ([]store.InventoryRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`
		SELECT %s
		FROM inventory_items
		WHERE business_id = ?
		ORDER BY name`, inventoryColumns)

	rows, err := s.conn(ctx).QueryContext(ctx, query, businessID.String())
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer closeRows(ctx, rows)

	records := make([]store.InventoryRecord, 0)
	for rows.Next() {
		rec, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return records, nil
}

func (s *ledgerStore) GetInventoryItem(ctx context.Context, id uuid.UUID) (*store.InventoryRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE id = ?`, inventoryColumns)
	rec, err := scanInventory(s.conn(ctx).QueryRowContext(ctx, query, id.String()))
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *ledgerStore) FindInventoryItemByName(
	ctx context.Context,
	businessID uuid.UUID,
	name string,
) (*store.InventoryRecord, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE business_id = ? AND name = ?`, inventoryColumns)
	return scanInventory(s.conn(ctx).QueryRowContext(ctx, query, businessID.String(), name))
}

func (s *ledgerStore) InsertTransaction(ctx context.Context, record store.TransactionRecord) error {
	unlock := s.lockWrites(ctx)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var productID interface{}
	if record.ProductID.Valid {
		productID = record.ProductID.UUID.String()
	}

	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO transactions (
			id, business_id, type, category, amount, date, product_id, quantity, cogs
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.BusinessID.String(),
		record.Type,
		record.Category,
		record.Amount,
		record.Date.UTC(),
		productID,
		record.Quantity,
		record.COGS,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *ledgerStore) InsertInventoryItem(ctx context.Context, record store.InventoryRecord) error {
	unlock := s.lockWrites(ctx)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO inventory_items (
			id, business_id, name, description, cost_price, selling_price, stock
		) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID.String(),
		record.BusinessID.String(),
		record.Name,
		record.Description,
		record.CostPrice,
		record.SellingPrice,
		record.Stock,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

func (s *ledgerStore) UpdateInventoryItem(ctx context.Context, record store.InventoryRecord) error {
	unlock := s.lockWrites(ctx)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE inventory_items
		SET description = ?, cost_price = ?, selling_price = ?, stock = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		record.Description,
		record.CostPrice,
		record.SellingPrice,
		record.Stock,
		record.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return expectOneRow(res, store.ErrNotFound)
}

// DecrementStock takes quantity units off the item, failing with
// store.ErrStockConflict when fewer are left.
func (s *ledgerStore) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	unlock := s.lockWrites(ctx)
	defer unlock()

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE inventory_items
		SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?`,
		quantity, id.String(), quantity,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return expectOneRow(res, store.ErrStockConflict)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInventory(row rowScanner) (*store.InventoryRecord, error) {
	var rec store.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.Name, &rec.Description,
		&rec.CostPrice, &rec.SellingPrice, &rec.Stock, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inventory item: %w", err)
	}
	return &rec, nil
}

func expectOneRow(res sql.Result, noRows error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return noRows
	}
	return nil
}

func closeRows(ctx context.Context, rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close rows")
	}
}
