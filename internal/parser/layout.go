package parser

import "strings"

// Row is the column assignment a layout extracts from a table row.
type Row struct {
	Code        string
	Description string
	Price       string
	Status      string
}

// Layout is one way the listing arranges its columns. Match is the
// capability probe: it inspects cell count and value shapes only.
type Layout interface {
	Name() string
	Match(cells []string) bool
	Extract(cells []string) Row
}

type columnLayout struct {
	name        string
	minCells    int
	code        int
	description int
	price       int
	status      int
	probe       func(cells []string) bool
}

func (l columnLayout) Name() string {
	return l.name
}

func (l columnLayout) Match(cells []string) bool {
	if len(cells) < l.minCells {
		return false
	}
	return l.probe(cells)
}

func (l columnLayout) Extract(cells []string) Row {
	return Row{
		Code:        cell(cells, l.code),
		Description: cell(cells, l.description),
		Price:       cell(cells, l.price),
		Status:      cell(cells, l.status),
	}
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i])
}

var (
	// no | code | description | price | status
	NumberedLayout Layout = columnLayout{
		name: "numbered", minCells: 5,
		code: 1, description: 2, price: 3, status: 4,
		probe: func(c []string) bool {
			return looksLikeIndex(c[0]) && !looksLikePrice(c[2]) && looksLikePrice(c[3])
		},
	}

	// code | description | price | status
	StandardLayout Layout = columnLayout{
		name: "standard", minCells: 4,
		code: 0, description: 1, price: 2, status: 3,
		probe: func(c []string) bool {
			return !looksLikePrice(c[1]) && looksLikePrice(c[2])
		},
	}

	// code | description | status | price
	StatusFirstLayout Layout = columnLayout{
		name: "status-first", minCells: 4,
		code: 0, description: 1, price: 3, status: 2,
		probe: func(c []string) bool {
			return looksLikeStatus(c[2]) && looksLikePrice(c[3])
		},
	}

	// code | price | description | status
	PriceFirstLayout Layout = columnLayout{
		name: "price-first", minCells: 4,
		code: 0, description: 2, price: 1, status: 3,
		probe: func(c []string) bool {
			return looksLikePrice(c[1]) && !looksLikePrice(c[2])
		},
	}
)

// DefaultLayouts lists the built-in layouts, most specific first.
func DefaultLayouts() []Layout {
	return []Layout{NumberedLayout, StandardLayout, StatusFirstLayout, PriceFirstLayout}
}

// detectLayout picks the layout accepting the most rows of a section.
// Ties keep the earlier layout.
func detectLayout(layouts []Layout, rows [][]string) (Layout, int) {
	var (
		best      Layout
		bestScore int
	)
	for _, l := range layouts {
		score := 0
		for _, cells := range rows {
			if l.Match(cells) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = l, score
		}
	}
	return best, bestScore
}
