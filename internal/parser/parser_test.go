package parser

import (
	"testing"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingHTML = `<html><body>
<div class="tablewrapper">
  <table class="tabel">
    <tr class="head"><td colspan="4">Telkomsel</td></tr>
    <tr class="head"><td>Kode</td><td>Keterangan</td><td>Harga</td><td>Status</td></tr>
    <tr><td>S5</td><td>Telkomsel 5.000</td><td>5.800</td><td>Open</td></tr>
    <tr><td>S10</td><td>Telkomsel 10.000</td><td>Rp 10.800</td><td>Gangguan</td></tr>
    <tr><td>S10</td><td>Telkomsel 10.000 duplicate</td><td>10.900</td><td>Open</td></tr>
    <tr><td></td><td>missing code</td><td>1.000</td><td>Open</td></tr>
    <tr><td>S0</td><td>zero price</td><td>0</td><td>Open</td></tr>
    <tr><td>SX</td><td>too expensive</td><td>25.000.000</td><td>Open</td></tr>
    <tr><td colspan="4">spacer</td></tr>
  </table>
</div>
<h3>Indosat Ooredoo:</h3>
<div class="tablewrapper">
  <table class="tabel">
    <tr><td>I5</td><td>Indosat 5.000</td><td>5.600</td><td>buka</td></tr>
    <tr><td>I10</td><td>Indosat 10.000</td><td>10.000,50</td><td>maintenance</td></tr>
  </table>
</div>
<div class="tablewrapper">
  <table class="tabel">
    <tr><td>V1</td><td>Voucher 1</td><td>1.500</td><td>???</td></tr>
  </table>
</div>
</body></html>`

func TestParse(t *testing.T) {
	t.Parallel()

	res, err := New().Parse([]byte(listingHTML))
	require.NoError(t, err)

	assert.Equal(t, []models.Product{
		{
			Category: "TELKOMSEL", Code: "S5", Description: "Telkomsel 5.000", Price: 5800,
			Status: models.ProductStatus{Text: "Open", Available: true, Status: models.StatusOpen},
		},
		{
			Category: "TELKOMSEL", Code: "S10", Description: "Telkomsel 10.000", Price: 10800,
			Status: models.ProductStatus{Text: "Gangguan", Available: false, Status: models.StatusDisturbance},
		},
		{
			Category: "INDOSAT OOREDOO", Code: "I5", Description: "Indosat 5.000", Price: 5600,
			Status: models.ProductStatus{Text: "buka", Available: true, Status: models.StatusOpen},
		},
		{
			Category: "INDOSAT OOREDOO", Code: "I10", Description: "Indosat 10.000", Price: 10001,
			Status: models.ProductStatus{Text: "maintenance", Available: false, Status: models.StatusDisturbance},
		},
		{
			Category: "OTHER", Code: "V1", Description: "Voucher 1", Price: 1500,
			Status: models.ProductStatus{Text: "???", Available: false, Status: models.StatusUnknown},
		},
	}, res.Products)

	assert.Equal(t, 3, res.Stats.Sections)
	assert.Equal(t, map[string]int{"standard": 3}, res.Stats.Layouts)
	assert.Equal(t, map[string]int{
		DropDuplicate:       1,
		DropMissingCode:     1,
		DropNonPositive:     1,
		DropPriceOutOfRange: 1,
	}, res.Stats.Dropped)
	assert.Equal(t, 4, res.Stats.DroppedTotal())
}

func TestParseCategoryFallback(t *testing.T) {
	t.Parallel()

	doc := `<div class="tablewrapper"><table class="tabel">
		<tr><td>X5</td><td>XL 5.000</td><td>5.700</td><td>Open</td></tr>
	</table></div>`

	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, DefaultCategory, res.Products[0].Category)
}

func TestParseLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		rows   string
		layout string
	}{
		{
			name:   "numbered",
			rows:   `<tr><td>1</td><td>A5</td><td>Axis 5.000</td><td>5.600</td><td>Open</td></tr>`,
			layout: "numbered",
		},
		{
			name:   "standard",
			rows:   `<tr><td>A5</td><td>Axis 5.000</td><td>5.600</td><td>Open</td></tr>`,
			layout: "standard",
		},
		{
			name:   "status before price",
			rows:   `<tr><td>A5</td><td>Axis 5.000</td><td>Open</td><td>5.600</td></tr>`,
			layout: "status-first",
		},
		{
			name:   "price before description",
			rows:   `<tr><td>A5</td><td>5.600</td><td>Axis 5.000</td><td>Open</td></tr>`,
			layout: "price-first",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<div class="tablewrapper"><table class="tabel">
				<tr class="head"><td>Axis</td></tr>` + tt.rows + `</table></div>`

			res, err := New().Parse([]byte(doc))
			require.NoError(t, err)
			assert.Equal(t, map[string]int{tt.layout: 1}, res.Stats.Layouts)
			assert.Equal(t, []models.Product{{
				Category:    "AXIS",
				Code:        "A5",
				Description: "Axis 5.000",
				Price:       5600,
				Status:      models.ProductStatus{Text: "Open", Available: true, Status: models.StatusOpen},
			}}, res.Products)
		})
	}
}

func TestParseMajorityLayout(t *testing.T) {
	t.Parallel()

	doc := `<table>
		<tr><td>A5</td><td>Axis 5.000</td><td>5.600</td><td>Open</td></tr>
		<tr><td>A10</td><td>Axis 10.000</td><td>10.600</td><td>Open</td></tr>
		<tr><td>A15</td><td>15.600</td><td>Axis 15.000</td><td>Open</td></tr>
	</table>`

	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	assert.Len(t, res.Products, 2)
	assert.Equal(t, 1, res.Stats.Dropped[DropLayoutMismatch])
}

func TestParseFirstOccurrenceWins(t *testing.T) {
	t.Parallel()

	doc := `<div class="tablewrapper"><table class="tabel">
		<tr class="head"><td>Telkomsel</td></tr>
		<tr><td>S5</td><td>first</td><td>5.800</td><td>Open</td></tr>
	</table></div>
	<div class="tablewrapper"><table class="tabel">
		<tr class="head"><td>telkomsel</td></tr>
		<tr><td>S5</td><td>second</td><td>5.900</td><td>Open</td></tr>
	</table></div>`

	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "first", res.Products[0].Description)
	assert.Equal(t, 1, res.Stats.Dropped[DropDuplicate])
}

func TestParseMaxPriceOption(t *testing.T) {
	t.Parallel()

	doc := `<table><tr><td>P1</td><td>Paket</td><td>150.000</td><td>Open</td></tr></table>`

	_, err := New(WithMaxPrice(100_000)).Parse([]byte(doc))
	var perr *models.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Dropped[DropPriceOutOfRange])
}

func TestParseHugePriceDropped(t *testing.T) {
	t.Parallel()

	doc := `<table>
<tr><td>A1</td><td>Paket A</td><td>Rp 18.446.744.073.709.556.616</td><td>Open</td></tr>
<tr><td>A2</td><td>Paket B</td><td>Rp 5,000</td><td>Open</td></tr>
</table>`

	res, err := New().Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, res.Products, 1)
	assert.Equal(t, "A2", res.Products[0].Code)
	assert.Equal(t, int64(5000), res.Products[0].Price)
	assert.Equal(t, 1, res.Stats.Dropped[DropPriceOutOfRange])
}

func TestParseNoProducts(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"empty":       "   ",
		"no tables":   "<html><body><p>maintenance</p></body></html>",
		"only drops":  `<table><tr><td>A</td><td>B</td><td>gratis</td><td>Open</td></tr></table>`,
		"only header": `<table><tr class="head"><td>Axis</td></tr></table>`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			res, err := New().Parse([]byte(doc))
			assert.Nil(t, res)
			var perr *models.ParseError
			assert.ErrorAs(t, err, &perr)
		})
	}
}
