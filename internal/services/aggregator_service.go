package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"zanovi/internal/domain"
	applog "zanovi/internal/log"
	"zanovi/internal/metrics"
	"zanovi/internal/repos"
)

// GeneralBucket collects entries whose product has no subcategory. It
// is scoped per category and never merged with a named bucket.
const GeneralBucket = "General"

// AggregatorService turns the flat (product, stock record) list into
// the grouped view the admin screens render, and expands counters into
// virtual units for scan workflows.
type AggregatorService struct {
	Stock *repos.StockRepo
	Cats  *repos.CategoryRepo
	Gen   *Generation
}

func NewAggregatorService(stock *repos.StockRepo, cats *repos.CategoryRepo, gen *Generation) *AggregatorService {
	return &AggregatorService{Stock: stock, Cats: cats, Gen: gen}
}

type SubcategoryGroup struct {
	Name    string
	Entries []domain.StockView
}

type CategoryGroup struct {
	Name          string
	Subcategories []SubcategoryGroup
}

// Snapshot is a read-mostly view of the whole inventory. It is never
// patched in place; any mutation bumps the generation and callers
// re-aggregate.
type Snapshot struct {
	Generation uint64
	Categories []CategoryGroup
	entries    []domain.StockView
}

// Aggregate builds a fresh snapshot stamped with the current
// generation. Products without a stock record are skipped with a
// warning; unknown taxonomy labels are reported but still grouped.
func (s *AggregatorService) Aggregate() (*Snapshot, error) {
	pairs, err := s.Stock.ListPairs()
	if err != nil {
		return nil, err
	}

	known := map[string]bool{}
	if cats, err := s.Cats.List(); err == nil {
		for _, c := range cats {
			known[strings.ToLower(c.Name)] = true
		}
	}

	snap := &Snapshot{Generation: s.Gen.Current()}
	for _, pair := range pairs {
		if pair.Record == nil {
			applog.Warn(nil, "warehouse.aggregate.skip", map[string]any{
				"product": pair.Product.ID, "reason": "no stock record",
			})
			continue
		}
		if len(known) > 0 && !known[strings.ToLower(pair.Product.Category)] {
			applog.Warn(nil, "warehouse.aggregate.unknown_category", map[string]any{
				"product": pair.Product.ID, "category": pair.Product.Category,
			})
		}
		snap.add(stockView(pair.Product, *pair.Record))
	}

	metrics.SnapshotRebuilds.Inc()
	return snap, nil
}

// add places one entry into its category/subcategory bucket, keeping
// input order for buckets and entries alike.
func (snap *Snapshot) add(v domain.StockView) {
	snap.entries = append(snap.entries, v)

	sub := v.Product.SubCategory
	if strings.TrimSpace(sub) == "" {
		sub = GeneralBucket
	}

	var cg *CategoryGroup
	for i := range snap.Categories {
		if snap.Categories[i].Name == v.Product.Category {
			cg = &snap.Categories[i]
			break
		}
	}
	if cg == nil {
		snap.Categories = append(snap.Categories, CategoryGroup{Name: v.Product.Category})
		cg = &snap.Categories[len(snap.Categories)-1]
	}

	for i := range cg.Subcategories {
		if cg.Subcategories[i].Name == sub {
			cg.Subcategories[i].Entries = append(cg.Subcategories[i].Entries, v)
			return
		}
	}
	cg.Subcategories = append(cg.Subcategories, SubcategoryGroup{Name: sub, Entries: []domain.StockView{v}})
}

// Entries returns the flat view in input order.
func (snap *Snapshot) Entries() []domain.StockView { return snap.entries }

// FindByEAN returns the first entry whose product EAN matches code
// exactly (code already trimmed by the caller).
func (snap *Snapshot) FindByEAN(code string) (domain.StockView, bool) {
	for _, e := range snap.entries {
		if e.Product.EANCode != "" && e.Product.EANCode == code {
			return e, true
		}
	}
	return domain.StockView{}, false
}

// expansion order is fixed so two passes over the same data produce
// the same unit ids.
var expandOrder = []struct {
	Cond domain.Condition
	Loc  domain.Location
}{
	{domain.CondNew, domain.LocStock},
	{domain.CondUsed, domain.LocStock},
	{domain.CondNew, domain.LocStore},
	{domain.CondUsed, domain.LocStore},
}

// Expand materializes one virtual unit per count in each bucket. Unit
// ids are recomputed every pass and must not be cached across refetches.
func (snap *Snapshot) Expand() []domain.Unit {
	units := []domain.Unit{}
	for _, e := range snap.entries {
		for _, b := range expandOrder {
			count := bucketCount(e, b.Cond, b.Loc)
			for i := 0; i < count; i++ {
				units = append(units, domain.Unit{
					ID:        fmt.Sprintf("%s-%d-%s-%s", e.Product.ID, i, b.Cond, b.Loc),
					Product:   e.Product,
					Condition: b.Cond,
					Location:  b.Loc,
				})
			}
		}
	}
	return units
}

// ExpandLocation limits the expansion to one tab of the inventory
// screen (warehouse or sales floor).
func (snap *Snapshot) ExpandLocation(loc domain.Location) []domain.Unit {
	units := []domain.Unit{}
	for _, u := range snap.Expand() {
		if u.Location == loc {
			units = append(units, u)
		}
	}
	return units
}

func bucketCount(v domain.StockView, cond domain.Condition, loc domain.Location) int {
	switch {
	case loc == domain.LocStock && cond == domain.CondNew:
		return v.QuantityInStock.New
	case loc == domain.LocStock && cond == domain.CondUsed:
		return v.QuantityInStock.Used
	case loc == domain.LocStore && cond == domain.CondNew:
		return v.QuantityInStore.New
	default:
		return v.QuantityInStore.Used
	}
}

// stockView converts a ledger row into the wire shape. Missing counters
// scan as zero at the SQL layer, so partially migrated rows are safe.
func stockView(p domain.Product, rec domain.StockRecord) domain.StockView {
	var docs []string
	if rec.DocumentsJSON != "" {
		_ = json.Unmarshal([]byte(rec.DocumentsJSON), &docs)
	}
	return domain.StockView{
		Product:         p,
		QuantityInStock: domain.QtyPair{New: rec.QtyStockNew, Used: rec.QtyStockUsed},
		QuantityInStore: domain.QtyPair{New: rec.QtyStoreNew, Used: rec.QtyStoreUsed},
		Price:           domain.PricePair{New: rec.PriceNew, Used: rec.PriceUsed},
		InStock:         rec.QtyStockNew > 0 || rec.QtyStockUsed > 0,
		InStore:         rec.QtyStoreNew > 0 || rec.QtyStoreUsed > 0,
		OutOfStock:      rec.OutOfStock(),
		Documents:       docs,
	}
}
