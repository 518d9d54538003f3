// internal/repository/forecast_repository.go
package repository

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
)

const defaultHistoryDays = 365

// Querier is the read side of *sqlx.DB; postgres.DB satisfies it with a concurrency cap
type Querier interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// SalesRepository provides per-SKU sales history
type SalesRepository interface {
	GetSalesHistory(ctx context.Context, companyID, sku string) ([]domain.SalesRow, error)
}

// InventoryRepository provides the current on-hand position of every SKU of a company
type InventoryRepository interface {
	GetCurrentInventory(ctx context.Context, companyID string) ([]domain.InventoryItem, error)
}

type salesRepository struct {
	db          Querier
	historyDays int
}

// NewSalesRepository reads daily sales totals for the last historyDays days
func NewSalesRepository(db Querier, historyDays int) SalesRepository {
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &salesRepository{db: db, historyDays: historyDays}
}

func (r *salesRepository) GetSalesHistory(ctx context.Context, companyID, sku string) ([]domain.SalesRow, error) {
	query := `
        SELECT
            date_trunc('day', o.created_at)::date AS sale_date,
            COALESCE(SUM(li.quantity), 0)::int AS total_quantity
        FROM order_line_items li
        JOIN orders o ON o.id = li.order_id
        WHERE o.company_id = $1
            AND li.sku = $2
            AND o.created_at >= current_date - make_interval(days => $3)
        GROUP BY date_trunc('day', o.created_at)::date
        ORDER BY sale_date
    `

	var rows []domain.SalesRow
	if err := r.db.SelectContext(ctx, &rows, query, companyID, sku, r.historyDays); err != nil {
		return nil, fmt.Errorf("error getting sales history for sku %s: %w", sku, err)
	}

	return rows, nil
}

type inventoryRepository struct {
	db Querier
}

func NewInventoryRepository(db Querier) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) GetCurrentInventory(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	query := `
        SELECT
            pv.sku,
            COALESCE(pv.inventory_quantity, 0) AS inventory_quantity,
            COALESCE(p.title, '') AS product_title
        FROM product_variants pv
        JOIN products p ON p.id = pv.product_id
        WHERE pv.company_id = $1
            AND pv.sku IS NOT NULL
            AND pv.sku <> ''
        ORDER BY pv.inventory_quantity DESC, pv.sku
    `

	var items []domain.InventoryItem
	if err := r.db.SelectContext(ctx, &items, query, companyID); err != nil {
		return nil, fmt.Errorf("error getting current inventory: %w", err)
	}

	return items, nil
}
