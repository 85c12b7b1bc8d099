// Package parser extracts product records from the HTML price listing.
package parser

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
)

const DefaultMaxPrice int64 = 10_000_000

// rows with fewer cells are spacers or section titles
const minDataCells = 3

// Drop reasons reported in Stats.Dropped.
const (
	DropMissingCode     = "missing_code"
	DropMissingDesc     = "missing_description"
	DropInvalidPrice    = "invalid_price"
	DropNonPositive     = "non_positive_price"
	DropPriceOutOfRange = "price_out_of_range"
	DropLayoutMismatch  = "layout_mismatch"
	DropDuplicate       = "duplicate"
)

type Parser interface {
	Parse(doc []byte) (*Result, error)
}

type Result struct {
	Products []models.Product `json:"products"`
	Stats    Stats            `json:"stats"`
}

type Stats struct {
	Sections int            `json:"sections"`
	Rows     int            `json:"rows"`
	Layouts  map[string]int `json:"layouts"`
	Dropped  map[string]int `json:"dropped"`
}

func (s Stats) DroppedTotal() int {
	total := 0
	for _, n := range s.Dropped {
		total += n
	}
	return total
}

type Option func(*parser)

func WithMaxPrice(max int64) Option {
	return func(p *parser) {
		if max > 0 {
			p.maxPrice = max
		}
	}
}

func WithLayouts(layouts ...Layout) Option {
	return func(p *parser) {
		if len(layouts) > 0 {
			p.layouts = layouts
		}
	}
}

type parser struct {
	maxPrice int64
	layouts  []Layout
}

func New(opts ...Option) Parser {
	p := &parser{
		maxPrice: DefaultMaxPrice,
		layouts:  DefaultLayouts(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// section is one table of the listing together with its category.
type section struct {
	category string
	rows     [][]string
}

func (p *parser) Parse(doc []byte) (*Result, error) {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil, &models.ParseError{Reason: "empty document"}
	}

	root, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, &models.ParseError{Reason: fmt.Sprintf("read html: %v", err)}
	}

	res := &Result{
		Stats: Stats{
			Layouts: map[string]int{},
			Dropped: map[string]int{},
		},
	}
	seen := map[models.ProductKey]struct{}{}

	for _, sec := range collectSections(root) {
		res.Stats.Sections++
		res.Stats.Rows += len(sec.rows)

		layout, _ := detectLayout(p.layouts, sec.rows)
		if layout == nil {
			res.Stats.Dropped[DropLayoutMismatch] += len(sec.rows)
			continue
		}
		res.Stats.Layouts[layout.Name()]++

		for _, cells := range sec.rows {
			if !layout.Match(cells) {
				res.Stats.Dropped[DropLayoutMismatch]++
				continue
			}
			product, reason := p.toProduct(sec.category, layout.Extract(cells))
			if reason != "" {
				res.Stats.Dropped[reason]++
				continue
			}
			if _, dup := seen[product.Key()]; dup {
				res.Stats.Dropped[DropDuplicate]++
				continue
			}
			seen[product.Key()] = struct{}{}
			res.Products = append(res.Products, product)
		}
	}

	if len(res.Products) == 0 {
		return nil, &models.ParseError{
			Reason:  fmt.Sprintf("no products in %d sections", res.Stats.Sections),
			Dropped: res.Stats.Dropped,
		}
	}
	return res, nil
}

func (p *parser) toProduct(category string, row Row) (models.Product, string) {
	if row.Code == "" {
		return models.Product{}, DropMissingCode
	}
	if row.Description == "" {
		return models.Product{}, DropMissingDesc
	}
	price, err := ParsePrice(row.Price)
	switch {
	case errors.Is(err, ErrPriceOutOfRange):
		return models.Product{}, DropPriceOutOfRange
	case err != nil:
		return models.Product{}, DropInvalidPrice
	case price <= 0:
		return models.Product{}, DropNonPositive
	case price > p.maxPrice:
		return models.Product{}, DropPriceOutOfRange
	}
	return models.Product{
		Category:    category,
		Code:        row.Code,
		Description: row.Description,
		Price:       price,
		Status:      ClassifyStatus(row.Status),
	}, ""
}

func collectSections(root *goquery.Document) []section {
	var sections []section

	wrappers := root.Find(".tablewrapper")
	if wrappers.Length() > 0 {
		wrappers.Each(func(_ int, wrapper *goquery.Selection) {
			table := wrapper.Find(".tabel").First()
			if table.Length() == 0 {
				table = wrapper.Find("table").First()
			}
			if table.Length() == 0 {
				return
			}
			sections = append(sections, readSection(wrapper, table))
		})
		return sections
	}

	root.Find("table").Each(func(_ int, table *goquery.Selection) {
		sections = append(sections, readSection(table, table))
	})
	return sections
}

func readSection(anchor, table *goquery.Selection) section {
	sec := section{category: sectionCategory(anchor, table)}
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.HasClass("head") {
			return
		}
		tds := tr.Find("td")
		if tds.Length() < minDataCells {
			return
		}
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})
		sec.rows = append(sec.rows, cells)
	})
	return sec
}
