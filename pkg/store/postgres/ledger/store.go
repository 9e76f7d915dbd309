package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/de-tools/sales-atlas/pkg/models/store"
	"github.com/de-tools/sales-atlas/pkg/store/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store is the PostgreSQL ledger. Reads inside WithinTx lock inventory rows
// so that concurrent sales of one product are serialised.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	return &Store{pool: pool}, nil
}

func (s *Store) conn(ctx context.Context) postgres.Querier {
	if tx := postgres.GetTransaction(ctx); tx != nil {
		return tx
	}
	return s.pool
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if postgres.GetTransaction(ctx) != nil {
		return fn(ctx)
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(postgres.WithTransaction(ctx, tx))
	})
}

const transactionColumns = `
	t.id, t.business_id, t.type, t.category, t.amount, t.date,
	t.product_id, COALESCE(i.name, ''), t.quantity, t.cogs, t.created_at`

func buildTransactionQuery(filter store.TransactionFilter) (string, []any) {
	conditions := []string{"t.business_id = $1"}
	args := []any{filter.BusinessID}

	add := func(cond string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}
	if filter.Type != "" {
		add("t.type = $%d", filter.Type)
	}
	if filter.From != nil {
		add("t.date >= $%d", filter.From.UTC())
	}
	if filter.To != nil {
		add("t.date <= $%d", filter.To.UTC())
	}
	if filter.ProductID != nil {
		add("t.product_id = $%d", *filter.ProductID)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		LEFT JOIN inventory_items i ON i.id = t.product_id AND i.business_id = t.business_id
		WHERE %s
		ORDER BY t.date DESC`, transactionColumns, strings.Join(conditions, " AND "))
	return query, args
}

func (s *Store) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]store.TransactionRecord, error) {
	query, args := buildTransactionQuery(filter)

	rows, err := s.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	records := make([]store.TransactionRecord, 0)
	for rows.Next() {
		var rec store.TransactionRecord
		if err := rows.Scan(
			&rec.ID, &rec.BusinessID, &rec.Type, &rec.Category, &rec.Amount, &rec.Date,
			&rec.ProductID, &rec.ProductName, &rec.Quantity, &rec.COGS, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(records)).Msg("loaded transactions")
	return records, nil
}

const inventoryColumns = `
	id, business_id, name, COALESCE(description, ''), cost_price, selling_price, stock, created_at, updated_at`

func (s *Store) ListInventory(ctx context.Context, businessID uuid.UUID) ([]store.InventoryRecord, error) {
	rows, err := s.conn(ctx).Query(ctx,
		fmt.Sprintf(`SELECT %s FROM inventory_items WHERE business_id = $1 ORDER BY name`, inventoryColumns),
		businessID,
	)
	if err != nil {
		return nil, fmt.Errorf("query inventory: %w", err)
	}
	defer rows.Close()

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

func (s *Store) GetInventoryItem(ctx context.Context, id uuid.UUID) (*store.InventoryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE id = $1`, inventoryColumns)
	if postgres.GetTransaction(ctx) != nil {
		query += " FOR UPDATE"
	}
	return scanInventory(s.conn(ctx).QueryRow(ctx, query, id))
}

func (s *Store) FindInventoryItemByName(
	ctx context.Context,
	businessID uuid.UUID,
	name string,
) (*store.InventoryRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM inventory_items WHERE business_id = $1 AND name = $2`, inventoryColumns)
	if postgres.GetTransaction(ctx) != nil {
		query += " FOR UPDATE"
	}
	return scanInventory(s.conn(ctx).QueryRow(ctx, query, businessID, name))
}

func (s *Store) InsertTransaction(ctx context.Context, record store.TransactionRecord) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO transactions (
			id, business_id, type, category, amount, date, product_id, quantity, cogs
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		record.ID,
		record.BusinessID,
		record.Type,
		record.Category,
		record.Amount,
		record.Date.UTC(),
		record.ProductID,
		record.Quantity,
		record.COGS,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *Store) InsertInventoryItem(ctx context.Context, record store.InventoryRecord) error {
	_, err := s.conn(ctx).Exec(ctx, `
		INSERT INTO inventory_items (
			id, business_id, name, description, cost_price, selling_price, stock
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		record.ID,
		record.BusinessID,
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

func (s *Store) UpdateInventoryItem(ctx context.Context, record store.InventoryRecord) error {
	tag, err := s.conn(ctx).Exec(ctx, `
		UPDATE inventory_items
		SET description = $1, cost_price = $2, selling_price = $3, stock = $4, updated_at = now()
		WHERE id = $5`,
		record.Description,
		record.CostPrice,
		record.SellingPrice,
		record.Stock,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DecrementStock(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := s.conn(ctx).Exec(ctx, `
		UPDATE inventory_items
		SET stock = stock - $1, updated_at = now()
		WHERE id = $2 AND stock >= $1`,
		quantity, id,
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrStockConflict
	}
	return nil
}

func scanInventory(row pgx.Row) (*store.InventoryRecord, error) {
	var rec store.InventoryRecord
	err := row.Scan(
		&rec.ID, &rec.BusinessID, &rec.Name, &rec.Description,
		&rec.CostPrice, &rec.SellingPrice, &rec.Stock, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan inventory item: %w", err)
	}
	return &rec, nil
}
