package services

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"zanovi/internal/domain"
	"zanovi/internal/metrics"
	"zanovi/internal/pricing"
	"zanovi/internal/repos"
)

// StockService covers the warehouse-edit screen: rewriting a product's
// counters and prices, and the single-bucket quantity adjustments the
// scan dialogs issue.
type StockService struct {
	Stock  *repos.StockRepo
	Units  *repos.StockUnitRepo
	Gen    *Generation
	Policy pricing.Policy
}

func NewStockService(stock *repos.StockRepo, units *repos.StockUnitRepo, gen *Generation) *StockService {
	return &StockService{Stock: stock, Units: units, Gen: gen, Policy: pricing.DefaultPolicy()}
}

// StockUpdate carries the warehouse-edit form. PriceUsed nil means
// "derive from PriceNew and Percent"; non-nil is an operator override.
type StockUpdate struct {
	QuantityInStock domain.QtyPair
	QuantityInStore domain.QtyPair
	PriceNew        decimal.Decimal
	PriceUsed       *decimal.Decimal
	Percent         decimal.Decimal
	Documents       []string
}

func (s *StockService) UpdateRecord(productID string, upd StockUpdate) (domain.StockRecord, error) {
	for _, q := range []int{upd.QuantityInStock.New, upd.QuantityInStock.Used, upd.QuantityInStore.New, upd.QuantityInStore.Used} {
		if q < 0 {
			return domain.StockRecord{}, ErrInvalidQuantity
		}
	}

	var priceUsed decimal.Decimal
	if upd.PriceUsed != nil {
		priceUsed = upd.PriceUsed.Round(2)
	} else {
		var err error
		priceUsed, err = pricing.Derive(upd.PriceNew, upd.Percent, s.Policy)
		if err != nil {
			return domain.StockRecord{}, err
		}
	}

	docs := upd.Documents
	if docs == nil {
		docs = []string{}
	}
	docsJSON, err := json.Marshal(docs)
	if err != nil {
		return domain.StockRecord{}, err
	}

	rec := domain.StockRecord{
		ProductID:     productID,
		QtyStockNew:   upd.QuantityInStock.New,
		QtyStockUsed:  upd.QuantityInStock.Used,
		QtyStoreNew:   upd.QuantityInStore.New,
		QtyStoreUsed:  upd.QuantityInStore.Used,
		PriceNew:      upd.PriceNew.Round(2),
		PriceUsed:     priceUsed,
		DocumentsJSON: string(docsJSON),
	}
	if err := s.Stock.Upsert(rec); err != nil {
		return domain.StockRecord{}, err
	}
	s.Gen.Bump()
	return rec, nil
}

// AdjustQuantity applies a single-step delta to one bucket. Only +1/-1
// travel to the store; the precondition rides in the same statement so
// concurrent scans cannot interleave into a lost update.
func (s *StockService) AdjustQuantity(productID string, cond domain.Condition, loc domain.Location, delta int) error {
	if !cond.Valid() || !loc.Valid() {
		return ErrInvalidQuantity
	}
	switch delta {
	case 1:
		if err := s.Stock.Increment(productID, cond, loc); err != nil {
			return err
		}
		metrics.CounterMutations.WithLabelValues("increment").Inc()
	case -1:
		if err := s.Stock.Decrement(productID, cond, loc); err != nil {
			return err
		}
		metrics.CounterMutations.WithLabelValues("decrement").Inc()
	default:
		return ErrInvalidQuantity
	}
	s.Gen.Bump()
	return nil
}

// Record returns the ledger row for one product.
func (s *StockService) Record(productID string) (domain.StockRecord, error) {
	return s.Stock.Get(productID)
}

// UnitsForProduct lists the persisted per-unit rows.
func (s *StockService) UnitsForProduct(productID string) ([]domain.StockUnit, error) {
	return s.Units.ListByProduct(productID)
}

// CreateUnit persists one per-unit row; the bucket counter moves in the
// same transaction.
func (s *StockService) CreateUnit(u domain.StockUnit) (string, error) {
	if !u.Condition.Valid() || !u.Location.Valid() {
		return "", ErrInvalidQuantity
	}
	id, err := s.Units.Create(u)
	if err != nil {
		return "", err
	}
	s.Gen.Bump()
	metrics.CounterMutations.WithLabelValues("increment").Inc()
	return id, nil
}

func (s *StockService) UpdateUnit(id, eanCode, serialNumber string, cond domain.Condition, loc domain.Location) error {
	if !cond.Valid() || !loc.Valid() {
		return ErrInvalidQuantity
	}
	if err := s.Units.Update(id, eanCode, serialNumber, cond, loc); err != nil {
		return err
	}
	s.Gen.Bump()
	return nil
}

func (s *StockService) DeleteUnit(id string) error {
	if err := s.Units.Delete(id); err != nil {
		return err
	}
	s.Gen.Bump()
	metrics.CounterMutations.WithLabelValues("decrement").Inc()
	return nil
}
