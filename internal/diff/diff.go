// Package diff compares two snapshots of the price listing.
package diff

import (
	"sort"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Diff returns the changes from old to next. old may be nil for the first
// snapshot, in which case every product is new. The result depends only on
// the product sets: records are ordered by category then code.
func Diff(old, next *models.Snapshot, at time.Time) models.ChangeLog {
	before := old.Index()
	after := next.Index()

	changes := make([]models.ChangeRecord, 0)
	for key, cur := range after {
		prev, ok := before[key]
		if !ok {
			changes = append(changes, record(cur, models.ChangeNew))
			continue
		}
		if rec, changed := compare(prev, cur); changed {
			changes = append(changes, rec)
		}
	}
	for key, prev := range before {
		if _, ok := after[key]; !ok {
			changes = append(changes, record(prev, models.ChangeRemoved))
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Key().Less(changes[j].Key())
	})

	return models.ChangeLog{
		Timestamp: at,
		Changes:   changes,
		Summary:   Summarize(changes),
	}
}

// Summarize counts the records by movement.
func Summarize(changes []models.ChangeRecord) models.Summary {
	var s models.Summary
	for _, c := range changes {
		switch c.ChangeType {
		case models.ChangeNew:
			s.New++
			continue
		case models.ChangeRemoved:
			s.Removed++
			continue
		}
		if c.PriceChange != nil {
			switch c.PriceChange.Direction {
			case models.PriceIncrease:
				s.Increased++
			case models.PriceDecrease:
				s.Decreased++
			}
		}
		if c.StatusChange != nil {
			switch c.StatusChange.New.Status {
			case models.StatusOpen:
				s.Opened++
			case models.StatusDisturbance:
				s.Disturbed++
			}
		}
	}
	return s
}

func compare(prev, cur models.Product) (models.ChangeRecord, bool) {
	rec := record(cur, "")

	if prev.Price != cur.Price {
		rec.PriceChange = priceChange(prev.Price, cur.Price)
	}
	if prev.Status.Normalized() != cur.Status.Normalized() {
		rec.StatusChange = &models.StatusChange{Old: prev.Status, New: cur.Status}
	}

	switch {
	case rec.PriceChange != nil && rec.StatusChange != nil:
		rec.ChangeType = models.ChangeBoth
	case rec.PriceChange != nil:
		rec.ChangeType = models.ChangePrice
	case rec.StatusChange != nil:
		rec.ChangeType = models.ChangeStatus
	default:
		return models.ChangeRecord{}, false
	}
	return rec, true
}

func priceChange(old, cur int64) *models.PriceChange {
	pc := &models.PriceChange{
		Old:       old,
		New:       cur,
		Delta:     cur - old,
		Direction: models.PriceIncrease,
	}
	if pc.Delta < 0 {
		pc.Direction = models.PriceDecrease
	}
	if old != 0 {
		pct := decimal.NewFromInt(pc.Delta).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(old)).
			Round(2)
		pc.Percent = pct.InexactFloat64()
	}
	return pc
}

func record(p models.Product, ct models.ChangeType) models.ChangeRecord {
	return models.ChangeRecord{
		Category:    p.Category,
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price,
		Status:      p.Status,
		ChangeType:  ct,
	}
}
