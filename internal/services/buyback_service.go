package services

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"zanovi/internal/domain"
	"zanovi/internal/metrics"
	"zanovi/internal/pricing"
	"zanovi/internal/repos"
)

// BuybackService assembles buy-from-customer transactions: staged
// product lines priced at a percentage of the stored new price, with
// per-line operator overrides.
type BuybackService struct {
	Buybacks       *repos.BuybackRepo
	Stock          *repos.StockRepo
	Policy         pricing.Policy
	DefaultPercent decimal.Decimal
}

func NewBuybackService(buybacks *repos.BuybackRepo, stock *repos.StockRepo, defaultPercent decimal.Decimal) *BuybackService {
	return &BuybackService{
		Buybacks:       buybacks,
		Stock:          stock,
		Policy:         pricing.DefaultPolicy(),
		DefaultPercent: defaultPercent,
	}
}

// BuybackLine is one staged line. ProductID empty means a free-text
// item with no catalog reference. Price non-nil is a manual override
// that survives until the percentage is re-applied.
type BuybackLine struct {
	ProductID string
	Name      string
	Category  string
	Price     *decimal.Decimal
}

func (s *BuybackService) List() ([]domain.Buyback, error) { return s.Buybacks.List() }

func (s *BuybackService) Get(id string) (domain.Buyback, []domain.BuybackItem, error) {
	return s.Buybacks.Get(id)
}

func (s *BuybackService) Delete(id string) error { return s.Buybacks.Delete(id) }

// Create validates the percentage, prices every line independently and
// persists the transaction. A nil percent means the operator left the
// field alone and gets the store default; an explicit 0 stays 0.
// Nothing is written when validation fails.
func (s *BuybackService) Create(b domain.Buyback, percent *decimal.Decimal, lines []BuybackLine) (string, error) {
	b.Percent = s.resolvePercent(percent)

	items, err := s.priceLines(lines, b.Percent)
	if err != nil {
		return "", err
	}
	return s.Buybacks.Create(b, items)
}

// Update re-prices and replaces the stored transaction.
func (s *BuybackService) Update(b domain.Buyback, percent *decimal.Decimal, lines []BuybackLine) error {
	b.Percent = s.resolvePercent(percent)

	items, err := s.priceLines(lines, b.Percent)
	if err != nil {
		return err
	}
	return s.Buybacks.Update(b, items)
}

func (s *BuybackService) resolvePercent(percent *decimal.Decimal) decimal.Decimal {
	if percent == nil {
		return s.DefaultPercent
	}
	return *percent
}

func (s *BuybackService) priceLines(lines []BuybackLine, percent decimal.Decimal) ([]domain.BuybackItem, error) {
	d, err := pricing.New(percent, s.Policy)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BuybackItem, 0, len(lines))
	for _, line := range lines {
		item := domain.BuybackItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Category:  line.Category,
		}
		if line.ProductID != "" {
			rec, err := s.Stock.Get(line.ProductID)
			if err != nil && !errors.Is(err, repos.ErrNotFound) {
				return nil, err
			}
			// A product without a ledger row offers at reference 0.
			item.ReferencePrice = rec.PriceNew
		}
		if item.Category == "" && line.ProductID == "" {
			item.Category = "Custom"
		}

		d.SetReferencePrice(item.ReferencePrice)
		if line.Price != nil {
			d.SetDerivedPrice(*line.Price)
		}
		item.BuybackPrice = d.DerivedPrice()
		item.Overridden = d.State() == pricing.Overridden

		items = append(items, item)
	}
	return items, nil
}

// Total sums the offered prices.
func Total(items []domain.BuybackItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.BuybackPrice)
	}
	return total.Round(2)
}

// ExportXLSX renders the buyback protocol as a spreadsheet the operator
// hands to the customer.
func (s *BuybackService) ExportXLSX(id string) ([]byte, string, error) {
	b, items, err := s.Buybacks.Get(id)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := "Protokol"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, "", err
	}

	header := [][]any{
		{"Výkupný protokol"},
		{},
		{"Meno", b.FirstName + " " + b.LastName},
		{"Národnosť", b.Nationality},
		{"Adresa", b.Residence},
		{"Dátum narodenia", b.DateOfBirth},
		{"Telefón", b.PhoneNumber},
		{"Dátum výkupu", b.CreatedAt},
		{"Percento z ceny", b.Percent.String() + " %"},
		{},
		{"Produkt", "Kategória", "Referenčná cena", "Výkupná cena"},
	}
	for i, row := range header {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	rowIdx := len(header) + 1
	for _, it := range items {
		cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
		row := []any{it.Name, it.Category, it.ReferencePrice.StringFixed(2), it.BuybackPrice.StringFixed(2)}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, "", err
		}
		rowIdx++
	}

	cell, _ := excelize.CoordinatesToCellName(3, rowIdx+1)
	totalRow := []any{"Spolu", Total(items).StringFixed(2) + " €"}
	if err := f.SetSheetRow(sheet, cell, &totalRow); err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}
	metrics.BuybackExports.Inc()
	name := fmt.Sprintf("vykup-%s.xlsx", b.ID)
	return buf.Bytes(), name, nil
}

// PrintData collects what the printable HTML protocol needs.
type PrintData struct {
	Buyback domain.Buyback
	Items   []domain.BuybackItem
	Total   string
}

func (s *BuybackService) PrintData(id string) (PrintData, error) {
	b, items, err := s.Buybacks.Get(id)
	if err != nil {
		return PrintData{}, err
	}
	metrics.BuybackExports.Inc()
	return PrintData{Buyback: b, Items: items, Total: Total(items).StringFixed(2)}, nil
}
