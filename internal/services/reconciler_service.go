package services

import (
	"errors"
	"strings"

	"zanovi/internal/domain"
	"zanovi/internal/metrics"
	"zanovi/internal/repos"
)

// Intent is what the operator meant by a scan: booking an item in or
// taking one out.
type Intent string

const (
	IntentAdd    Intent = "add"
	IntentRemove Intent = "remove"
)

func (i Intent) Valid() bool { return i == IntentAdd || i == IntentRemove }

// ScanOutcome classifies what a resolved scan requires of the caller.
type ScanOutcome string

const (
	// OutcomeMatched means the counter mutation was applied.
	OutcomeMatched ScanOutcome = "matched"
	// OutcomeCreateRequired means no product carries the code; the
	// caller should route to product creation pre-filled with it.
	// The reconciler itself never creates anything.
	OutcomeCreateRequired ScanOutcome = "create_required"
)

type ScanResult struct {
	Outcome ScanOutcome
	Code    string
	Product domain.Product
}

type BatchMatch struct {
	Code    string
	Product domain.Product
}

type BatchResult struct {
	Existing []BatchMatch
	Missing  []string
}

// ReconcilerService decides whether a scanned code targets an existing
// product and applies the matching counter mutation.
type ReconcilerService struct {
	Stock    *repos.StockRepo
	Products *repos.ProductRepo
	Gen      *Generation
}

func NewReconcilerService(stock *repos.StockRepo, products *repos.ProductRepo, gen *Generation) *ReconcilerService {
	return &ReconcilerService{Stock: stock, Products: products, Gen: gen}
}

// ResolveScan matches code against the snapshot by exact EAN (trimmed,
// no normalization) and applies the intent. The snapshot must carry the
// current generation; anything older is rejected before any mutation.
func (s *ReconcilerService) ResolveScan(code string, cond domain.Condition, loc domain.Location, intent Intent, snap *Snapshot) (ScanResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return ScanResult{}, ErrNotFound
	}
	if snap.Generation != s.Gen.Current() {
		return ScanResult{}, ErrStaleSnapshot
	}

	entry, found := snap.FindByEAN(code)

	switch intent {
	case IntentRemove:
		if !found {
			metrics.Scans.WithLabelValues(string(intent), "not_found").Inc()
			return ScanResult{}, ErrNotFound
		}
		// Counter decrement and FIFO unit-row retirement commit in one
		// transaction; rows and counters cannot drift apart.
		if err := s.Stock.DecrementRetiringUnit(entry.Product.ID, cond, loc); err != nil {
			if errors.Is(err, repos.ErrWouldGoNegative) || errors.Is(err, repos.ErrNotFound) {
				metrics.Scans.WithLabelValues(string(intent), "would_go_negative").Inc()
			}
			return ScanResult{}, err
		}
		s.Gen.Bump()
		metrics.Scans.WithLabelValues(string(intent), "matched").Inc()
		metrics.CounterMutations.WithLabelValues("decrement").Inc()
		return ScanResult{Outcome: OutcomeMatched, Code: code, Product: entry.Product}, nil

	case IntentAdd:
		if !found {
			// Signal only; no side effect and no generation bump.
			metrics.Scans.WithLabelValues(string(intent), "create_required").Inc()
			return ScanResult{Outcome: OutcomeCreateRequired, Code: code}, nil
		}
		if err := s.Stock.Increment(entry.Product.ID, cond, loc); err != nil {
			return ScanResult{}, err
		}
		s.Gen.Bump()
		metrics.Scans.WithLabelValues(string(intent), "matched").Inc()
		metrics.CounterMutations.WithLabelValues("increment").Inc()
		return ScanResult{Outcome: OutcomeMatched, Code: code, Product: entry.Product}, nil

	default:
		return ScanResult{}, ErrInvalidQuantity
	}
}

// ResolveBatch partitions codes into known and unknown products using
// one EAN index built per batch, not one linear scan per code.
func (s *ReconcilerService) ResolveBatch(codes []string) (BatchResult, error) {
	products, err := s.Products.List()
	if err != nil {
		return BatchResult{}, err
	}
	byEAN := make(map[string]domain.Product, len(products))
	for _, p := range products {
		if ean := strings.TrimSpace(p.EANCode); ean != "" {
			if _, dup := byEAN[ean]; !dup {
				byEAN[ean] = p
			}
		}
	}

	res := BatchResult{Existing: []BatchMatch{}, Missing: []string{}}
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if p, ok := byEAN[code]; ok {
			res.Existing = append(res.Existing, BatchMatch{Code: code, Product: p})
		} else {
			res.Missing = append(res.Missing, code)
		}
	}
	return res, nil
}
