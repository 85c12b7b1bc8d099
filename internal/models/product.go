package models

import (
	"strings"
	"time"
)

type StatusKind string

const (
	StatusOpen        StatusKind = "open"
	StatusDisturbance StatusKind = "disturbance"
	StatusUnknown     StatusKind = "unknown"
)

// ProductStatus is the classified form of the status column.
type ProductStatus struct {
	Text      string     `json:"text" bson:"text"`
	Available bool       `json:"available" bson:"available"`
	Status    StatusKind `json:"status" bson:"status"`
}

// Normalized is the form used to compare statuses between snapshots.
func (s ProductStatus) Normalized() string {
	return strings.ToLower(strings.Join(strings.Fields(s.Text), " "))
}

type Product struct {
	Category    string        `json:"category" bson:"category"`
	Code        string        `json:"code" bson:"code"`
	Description string        `json:"description" bson:"description"`
	Price       int64         `json:"price" bson:"price"`
	Status      ProductStatus `json:"status" bson:"status"`
}

func (p Product) Key() ProductKey {
	return NewProductKey(p.Category, p.Code)
}

// ProductKey identifies a product within a snapshot.
type ProductKey struct {
	Category string
	Code     string
}

func NewProductKey(category, code string) ProductKey {
	return ProductKey{
		Category: strings.ToUpper(strings.TrimSpace(category)),
		Code:     strings.TrimSpace(code),
	}
}

func (k ProductKey) String() string {
	return k.Category + "/" + k.Code
}

// Less orders keys by category then code.
func (k ProductKey) Less(o ProductKey) bool {
	if k.Category != o.Category {
		return k.Category < o.Category
	}
	return k.Code < o.Code
}

// Snapshot is one parsed version of the source document. It is never
// mutated after construction.
type Snapshot struct {
	Products    []Product `json:"products"`
	Fingerprint string    `json:"fingerprint"`
	CapturedAt  time.Time `json:"captured_at"`
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Products)
}

// Index maps every product key to its product.
func (s *Snapshot) Index() map[ProductKey]Product {
	if s == nil {
		return map[ProductKey]Product{}
	}
	index := make(map[ProductKey]Product, len(s.Products))
	for _, p := range s.Products {
		if _, ok := index[p.Key()]; !ok {
			index[p.Key()] = p
		}
	}
	return index
}

// RawDocument is the unparsed response of the price source.
type RawDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	FetchedAt   time.Time
}
