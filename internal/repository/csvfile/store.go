// Package csvfile serves sales history and inventory from local CSV exports so
// forecasts can be run without a database.
package csvfile

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/andresuchdata/stockcast/backend-go/internal/domain"
	"github.com/andresuchdata/stockcast/backend-go/internal/repository"
	"github.com/gocarina/gocsv"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05"}

type salesRecord struct {
	CompanyID     string `csv:"company_id"`
	SKU           string `csv:"sku"`
	SaleDate      string `csv:"sale_date"`
	TotalQuantity int    `csv:"total_quantity"`
}

type inventoryRecord struct {
	CompanyID         string `csv:"company_id"`
	SKU               string `csv:"sku"`
	InventoryQuantity int    `csv:"inventory_quantity"`
	ProductTitle      string `csv:"product_title"`
}

type salesKey struct {
	companyID string
	sku       string
}

// Store is an in-memory, read-only copy of the CSV files
type Store struct {
	sales     map[salesKey][]domain.SalesRow
	inventory map[string][]domain.InventoryItem
}

var (
	_ repository.SalesRepository     = (*Store)(nil)
	_ repository.InventoryRepository = (*Store)(nil)
)

// Load reads both files. Sales columns: company_id, sku, sale_date, total_quantity.
// Inventory columns: company_id, sku, inventory_quantity, product_title.
func Load(salesPath, inventoryPath string) (*Store, error) {
	var salesRecords []*salesRecord
	if err := readCSV(salesPath, &salesRecords); err != nil {
		return nil, err
	}

	var inventoryRecords []*inventoryRecord
	if err := readCSV(inventoryPath, &inventoryRecords); err != nil {
		return nil, err
	}

	store := &Store{
		sales:     make(map[salesKey][]domain.SalesRow),
		inventory: make(map[string][]domain.InventoryItem),
	}

	for i, rec := range salesRecords {
		date, err := parseDate(rec.SaleDate)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", salesPath, i+2, err)
		}
		key := salesKey{companyID: strings.TrimSpace(rec.CompanyID), sku: strings.TrimSpace(rec.SKU)}
		store.sales[key] = append(store.sales[key], domain.SalesRow{
			SaleDate:      date,
			TotalQuantity: rec.TotalQuantity,
		})
	}

	for _, rec := range inventoryRecords {
		companyID := strings.TrimSpace(rec.CompanyID)
		store.inventory[companyID] = append(store.inventory[companyID], domain.InventoryItem{
			SKU:               strings.TrimSpace(rec.SKU),
			InventoryQuantity: rec.InventoryQuantity,
			ProductTitle:      rec.ProductTitle,
		})
	}

	return store, nil
}

func (s *Store) GetSalesHistory(ctx context.Context, companyID, sku string) ([]domain.SalesRow, error) {
	rows := s.sales[salesKey{companyID: companyID, sku: sku}]
	return append([]domain.SalesRow(nil), rows...), nil
}

func (s *Store) GetCurrentInventory(ctx context.Context, companyID string) ([]domain.InventoryItem, error) {
	items := s.inventory[companyID]
	return append([]domain.InventoryItem(nil), items...), nil
}

func readCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid sale_date %q", value)
}
