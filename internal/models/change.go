package models

import "time"

type ChangeType string

const (
	ChangeNew     ChangeType = "new"
	ChangeRemoved ChangeType = "removed"
	ChangePrice   ChangeType = "price"
	ChangeStatus  ChangeType = "status"
	ChangeBoth    ChangeType = "both"
)

type PriceDirection string

const (
	PriceIncrease PriceDirection = "increase"
	PriceDecrease PriceDirection = "decrease"
)

type PriceChange struct {
	Old       int64          `json:"old" bson:"old"`
	New       int64          `json:"new" bson:"new"`
	Delta     int64          `json:"delta" bson:"delta"`
	Direction PriceDirection `json:"direction" bson:"direction"`
	// Percent is Delta relative to Old, rounded to two decimals.
	Percent float64 `json:"percent" bson:"percent"`
}

type StatusChange struct {
	Old ProductStatus `json:"old" bson:"old"`
	New ProductStatus `json:"new" bson:"new"`
}

// ChangeRecord describes how a single product moved between two snapshots.
// Price and Status hold the latest known values (the old ones for removed
// products).
type ChangeRecord struct {
	Category     string        `json:"category" bson:"category"`
	Code         string        `json:"code" bson:"code"`
	Description  string        `json:"description" bson:"description"`
	Price        int64         `json:"price" bson:"price"`
	Status       ProductStatus `json:"status" bson:"status"`
	ChangeType   ChangeType    `json:"change_type" bson:"change_type"`
	PriceChange  *PriceChange  `json:"price_change,omitempty" bson:"price_change,omitempty"`
	StatusChange *StatusChange `json:"status_change,omitempty" bson:"status_change,omitempty"`
}

func (r ChangeRecord) Key() ProductKey {
	return NewProductKey(r.Category, r.Code)
}

type Summary struct {
	Increased int `json:"increased" bson:"increased"`
	Decreased int `json:"decreased" bson:"decreased"`
	Opened    int `json:"opened" bson:"opened"`
	Disturbed int `json:"disturbed" bson:"disturbed"`
	New       int `json:"new" bson:"new"`
	Removed   int `json:"removed" bson:"removed"`
}

func (s Summary) Total() int {
	return s.Increased + s.Decreased + s.Opened + s.Disturbed + s.New + s.Removed
}

func (s Summary) HasChanges() bool {
	return s.Total() > 0
}

func (s Summary) Add(o Summary) Summary {
	return Summary{
		Increased: s.Increased + o.Increased,
		Decreased: s.Decreased + o.Decreased,
		Opened:    s.Opened + o.Opened,
		Disturbed: s.Disturbed + o.Disturbed,
		New:       s.New + o.New,
		Removed:   s.Removed + o.Removed,
	}
}

// ChangeLog is the result of one diff between consecutive snapshots.
type ChangeLog struct {
	ID        string         `json:"id" bson:"log_id"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
	Changes   []ChangeRecord `json:"changes" bson:"changes"`
	Summary   Summary        `json:"summary" bson:"summary"`
}

func (l ChangeLog) IsSignificant() bool {
	return l.Summary.HasChanges()
}
