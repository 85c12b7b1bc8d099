package usecase

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500

	topCategoriesLimit = 10
	noPrefix           = "#"
)

type catalogUsecase struct {
	tracker TrackerUsecase
}

// NewCatalogUsecase serves read-only views over the latest snapshot.
func NewCatalogUsecase(tracker TrackerUsecase) CatalogUsecase {
	return &catalogUsecase{tracker: tracker}
}

func (uc *catalogUsecase) ListProducts(ctx context.Context, page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)

	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}

	total := len(res.Products)
	totalPages := (total + limit - 1) / limit
	// pages past the end are empty; comparing pages first keeps the offset
	// from overflowing
	start := total
	if page <= totalPages {
		start = (page - 1) * limit
	}
	end := min(start+limit, total)
	return &models.ProductPage{
		Products:   res.Products[start:end],
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		LastUpdate: res.LastUpdate,
		LastFetch:  res.LastFetch,
	}, nil
}

func (uc *catalogUsecase) Search(ctx context.Context, query, category string) ([]models.Product, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToUpper(strings.TrimSpace(category))
	if query == "" && category == "" {
		return nil, status.Error(codes.InvalidArgument, "query or category is required")
	}

	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return util.Filter(res.Products, func(p models.Product) bool {
		if category != "" && !strings.Contains(p.Category, category) {
			return false
		}
		if query == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Code), query) ||
			strings.Contains(strings.ToLower(p.Description), query)
	}), nil
}

func (uc *catalogUsecase) ByCategory(ctx context.Context, category string) ([]models.Product, error) {
	category = strings.ToUpper(strings.TrimSpace(category))
	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}
	products := util.Filter(res.Products, func(p models.Product) bool {
		return strings.Contains(p.Category, category)
	})
	if len(products) == 0 {
		return nil, status.Errorf(codes.NotFound, "category %q not found", category)
	}
	return products, nil
}

func (uc *catalogUsecase) Available(ctx context.Context) ([]models.Product, error) {
	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return util.Filter(res.Products, func(p models.Product) bool {
		return p.Status.Available
	}), nil
}

func (uc *catalogUsecase) Categories(ctx context.Context) ([]models.CategoryInfo, error) {
	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}

	index := map[string]int{}
	var out []models.CategoryInfo
	for _, p := range res.Products {
		i, ok := index[p.Category]
		if !ok {
			i = len(out)
			index[p.Category] = i
			out = append(out, models.CategoryInfo{Name: p.Category})
		}
		out[i].Count++
		if p.Status.Available {
			out[i].Available++
		}
	}
	slices.SortFunc(out, func(a, b models.CategoryInfo) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (uc *catalogUsecase) Analysis(ctx context.Context) (*models.Analysis, error) {
	res, err := uc.tracker.Latest(ctx)
	if err != nil {
		return nil, err
	}
	return analyze(res.Products, res), nil
}

func analyze(products []models.Product, res *models.FetchResult) *models.Analysis {
	out := &models.Analysis{
		Categories:          map[string]models.CategoryStats{},
		Status:              models.StatusStats{Breakdown: map[string]int{}},
		TopCategories:       []models.CategoryShare{},
		UnavailableProducts: []models.Product{},
		CodePrefixes:        map[string]int{},
	}
	out.Summary = models.AnalysisSummary{
		TotalProducts: len(products),
		LastUpdate:    res.LastUpdate,
		LastFetch:     res.LastFetch,
	}
	if len(products) == 0 {
		return out
	}

	sums := map[string]int64{}
	prices := make([]int64, 0, len(products))
	var total int64
	for _, p := range products {
		stats, ok := out.Categories[p.Category]
		if !ok {
			stats.MinPrice = p.Price
			stats.MaxPrice = p.Price
		}
		stats.Count++
		stats.MinPrice = min(stats.MinPrice, p.Price)
		stats.MaxPrice = max(stats.MaxPrice, p.Price)
		if p.Status.Available {
			stats.Available++
			out.Status.Available++
		} else {
			stats.Unavailable++
			out.Status.Unavailable++
			out.UnavailableProducts = append(out.UnavailableProducts, p)
		}
		out.Categories[p.Category] = stats
		sums[p.Category] += p.Price

		out.Status.Breakdown[string(p.Status.Status)]++
		out.CodePrefixes[codePrefix(p.Code)]++

		prices = append(prices, p.Price)
		total += p.Price
		switch {
		case p.Price < 10_000:
			out.Prices.Ranges.Under10k++
		case p.Price < 50_000:
			out.Prices.Ranges.Between10k50k++
		case p.Price < 100_000:
			out.Prices.Ranges.Between50k100k++
		default:
			out.Prices.Ranges.Over100k++
		}
	}

	for name, stats := range out.Categories {
		stats.AvgPrice = average(sums[name], stats.Count)
		stats.AvailabilityRate = percentage(stats.Available, stats.Count)
		out.Categories[name] = stats
		out.TopCategories = append(out.TopCategories, models.CategoryShare{
			Category:   name,
			Count:      stats.Count,
			Percentage: percentage(stats.Count, len(products)),
		})
	}
	slices.SortFunc(out.TopCategories, func(a, b models.CategoryShare) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	if len(out.TopCategories) > topCategoriesLimit {
		out.TopCategories = out.TopCategories[:topCategoriesLimit]
	}

	slices.Sort(prices)
	out.Prices.Min = prices[0]
	out.Prices.Max = prices[len(prices)-1]
	out.Prices.Avg = average(total, len(prices))
	out.Prices.Median = prices[len(prices)/2]

	out.Summary.TotalCategories = len(out.Categories)
	out.Status.AvailabilityRate = percentage(out.Status.Available, len(products))
	return out
}

func average(sum int64, n int) int64 {
	if n == 0 {
		return 0
	}
	return decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(n))).Round(0).IntPart()
}

// percentage of part over whole, rounded to one decimal.
func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(part) * 100).
		Div(decimal.NewFromInt(int64(whole))).
		Round(1).
		InexactFloat64()
}

func codePrefix(code string) string {
	end := strings.IndexFunc(code, func(r rune) bool { return !unicode.IsLetter(r) })
	if end == -1 {
		end = len(code)
	}
	if end == 0 {
		return noPrefix
	}
	return strings.ToUpper(code[:end])
}
