package parser

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const DefaultCategory = "OTHER"

// maxLabelLen bounds sibling text accepted as a category label.
const maxLabelLen = 60

var columnHeadings = map[string]struct{}{
	"NO":         {},
	"KODE":       {},
	"CODE":       {},
	"PRODUK":     {},
	"PRODUCT":    {},
	"NAMA":       {},
	"KETERANGAN": {},
	"DESKRIPSI":  {},
	"HARGA":      {},
	"PRICE":      {},
	"STATUS":     {},
}

// sectionCategory reads the label from the first header cell, then from the
// text right before the section, and falls back to DefaultCategory.
func sectionCategory(anchor, table *goquery.Selection) string {
	if label := normalizeLabel(table.Find("tr.head").First().Find("td, th").First().Text()); isCategory(label) {
		return label
	}
	if label := normalizeLabel(table.Find("caption").First().Text()); isCategory(label) {
		return label
	}

	label := ""
	anchor.PrevAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		switch goquery.NodeName(sib) {
		case "script", "style", "br", "hr":
			return true
		case "table":
			return false
		}
		// another section sits between this one and any label
		if sib.HasClass("tablewrapper") || sib.Find("table").Length() > 0 {
			return false
		}
		text := normalizeLabel(sib.Text())
		if text == "" {
			return true
		}
		if len(text) <= maxLabelLen && isCategory(text) {
			label = text
		}
		return false
	})
	if label != "" {
		return label
	}
	return DefaultCategory
}

func normalizeLabel(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	text = strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
	return strings.ToUpper(text)
}

func isCategory(label string) bool {
	if label == "" {
		return false
	}
	_, heading := columnHeadings[label]
	return !heading
}
