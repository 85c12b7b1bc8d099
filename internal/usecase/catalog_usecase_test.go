package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type stubTracker struct {
	TrackerUsecase
	res *models.FetchResult
	err error
}

func (s *stubTracker) Latest(context.Context) (*models.FetchResult, error) {
	return s.res, s.err
}

func product(category, code, desc string, price int64, kind models.StatusKind) models.Product {
	return models.Product{
		Category:    category,
		Code:        code,
		Description: desc,
		Price:       price,
		Status: models.ProductStatus{
			Text:      string(kind),
			Available: kind == models.StatusOpen,
			Status:    kind,
		},
	}
}

func catalogFixture() CatalogUsecase {
	updated := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewCatalogUsecase(&stubTracker{res: &models.FetchResult{
		Products: []models.Product{
			product("TELKOMSEL", "S5", "Telkomsel 5.000", 5_800, models.StatusOpen),
			product("TELKOMSEL", "S10", "Telkomsel 10.000", 10_800, models.StatusDisturbance),
			product("TELKOMSEL", "S50", "Telkomsel 50.000", 49_500, models.StatusOpen),
			product("INDOSAT", "I5", "Indosat 5.000", 5_600, models.StatusOpen),
			product("PLN", "123", "Token 100.000", 100_500, models.StatusUnknown),
		},
		LastUpdate: &updated,
		LastFetch:  &updated,
	}})
}

func TestListProducts(t *testing.T) {
	t.Parallel()
	uc := catalogFixture()

	page, err := uc.ListProducts(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Products, 2)
	assert.Equal(t, "S50", page.Products[0].Code)

	page, err = uc.ListProducts(context.Background(), 9, 2)
	require.NoError(t, err)
	assert.Empty(t, page.Products)

	page, err = uc.ListProducts(context.Background(), math.MaxInt, MaxPageLimit)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, math.MaxInt, page.Page)
	assert.Equal(t, 1, page.TotalPages)

	page, err = uc.ListProducts(context.Background(), math.MaxInt/2+1, 3)
	require.NoError(t, err)
	assert.Empty(t, page.Products)

	page, err = uc.ListProducts(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageLimit, page.Limit)
	assert.Len(t, page.Products, 5)
}

func TestSearch(t *testing.T) {
	t.Parallel()
	uc := catalogFixture()
	ctx := context.Background()

	got, err := uc.Search(ctx, "5.000", "")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = uc.Search(ctx, "5.000", "tel")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "S5", got[0].Code)

	got, err = uc.Search(ctx, "", "indosat")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = uc.Search(ctx, " ", "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestByCategoryAndAvailable(t *testing.T) {
	t.Parallel()
	uc := catalogFixture()
	ctx := context.Background()

	got, err := uc.ByCategory(ctx, "telkomsel")
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = uc.ByCategory(ctx, "xl")
	assert.Equal(t, codes.NotFound, status.Code(err))

	available, err := uc.Available(ctx)
	require.NoError(t, err)
	assert.Len(t, available, 3)

	categories, err := uc.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryInfo{
		{Name: "INDOSAT", Count: 1, Available: 1},
		{Name: "PLN", Count: 1, Available: 0},
		{Name: "TELKOMSEL", Count: 3, Available: 2},
	}, categories)
}

func TestAnalysis(t *testing.T) {
	t.Parallel()
	uc := catalogFixture()

	a, err := uc.Analysis(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, a.Summary.TotalProducts)
	assert.Equal(t, 3, a.Summary.TotalCategories)

	tsel := a.Categories["TELKOMSEL"]
	assert.Equal(t, 3, tsel.Count)
	assert.Equal(t, int64(5_800), tsel.MinPrice)
	assert.Equal(t, int64(49_500), tsel.MaxPrice)
	assert.Equal(t, int64(22_033), tsel.AvgPrice)
	assert.Equal(t, 66.7, tsel.AvailabilityRate)

	assert.Equal(t, 3, a.Status.Available)
	assert.Equal(t, 2, a.Status.Unavailable)
	assert.Equal(t, 60.0, a.Status.AvailabilityRate)
	assert.Equal(t, map[string]int{"open": 3, "disturbance": 1, "unknown": 1}, a.Status.Breakdown)

	assert.Equal(t, int64(5_600), a.Prices.Min)
	assert.Equal(t, int64(100_500), a.Prices.Max)
	assert.Equal(t, int64(34_440), a.Prices.Avg)
	assert.Equal(t, int64(10_800), a.Prices.Median)
	assert.Equal(t, models.PriceRanges{Under10k: 2, Between10k50k: 2, Over100k: 1}, a.Prices.Ranges)

	require.NotEmpty(t, a.TopCategories)
	assert.Equal(t, models.CategoryShare{Category: "TELKOMSEL", Count: 3, Percentage: 60}, a.TopCategories[0])
	assert.Len(t, a.UnavailableProducts, 2)
	assert.Equal(t, map[string]int{"S": 3, "I": 1, "#": 1}, a.CodePrefixes)
}

func TestAnalysisEmpty(t *testing.T) {
	t.Parallel()
	a := analyze(nil, &models.FetchResult{})
	assert.Equal(t, 0, a.Summary.TotalProducts)
	assert.Empty(t, a.TopCategories)
	assert.NotNil(t, a.Categories)
}
