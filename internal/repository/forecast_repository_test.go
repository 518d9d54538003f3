package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuerier struct {
	query string
	args  []interface{}
	sales []domain.SalesRow
	items []domain.InventoryItem
	err   error
}

func (f *fakeQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	f.query = query
	f.args = args
	if f.err != nil {
		return f.err
	}
	switch out := dest.(type) {
	case *[]domain.SalesRow:
		*out = f.sales
	case *[]domain.InventoryItem:
		*out = f.items
	}
	return nil
}

func TestSalesRepositoryGetSalesHistory(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQuerier{sales: []domain.SalesRow{{SaleDate: day, TotalQuantity: 4}}}

	rows, err := NewSalesRepository(q, 0).GetSalesHistory(context.Background(), "c1", "SKU-1")

	require.NoError(t, err)
	assert.Equal(t, []domain.SalesRow{{SaleDate: day, TotalQuantity: 4}}, rows)
	assert.Equal(t, []interface{}{"c1", "SKU-1", defaultHistoryDays}, q.args)
	assert.Contains(t, q.query, "order_line_items")
}

func TestSalesRepositoryWrapsErrors(t *testing.T) {
	cause := errors.New("connection reset")
	q := &fakeQuerier{err: cause}

	_, err := NewSalesRepository(q, 90).GetSalesHistory(context.Background(), "c1", "SKU-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "SKU-1")
	assert.Equal(t, 90, q.args[2])
}

func TestInventoryRepositoryGetCurrentInventory(t *testing.T) {
	items := []domain.InventoryItem{{SKU: "SKU-1", InventoryQuantity: 10, ProductTitle: "Mug"}}
	q := &fakeQuerier{items: items}

	got, err := NewInventoryRepository(q).GetCurrentInventory(context.Background(), "c1")

	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, []interface{}{"c1"}, q.args)

	q.err = errors.New("boom")
	_, err = NewInventoryRepository(q).GetCurrentInventory(context.Background(), "c1")
	assert.ErrorIs(t, err, q.err)
}
