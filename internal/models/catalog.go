package models

import "time"

type ProductPage struct {
	Products   []Product  `json:"products"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int        `json:"total"`
	TotalPages int        `json:"total_pages"`
	LastUpdate *time.Time `json:"last_update"`
	LastFetch  *time.Time `json:"last_fetch"`
}

type CategoryInfo struct {
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Available int    `json:"available"`
}

type Analysis struct {
	Summary             AnalysisSummary          `json:"summary"`
	Categories          map[string]CategoryStats `json:"categories"`
	Status              StatusStats              `json:"status"`
	Prices              PriceStats               `json:"prices"`
	TopCategories       []CategoryShare          `json:"top_categories"`
	UnavailableProducts []Product                `json:"unavailable_products"`
	CodePrefixes        map[string]int           `json:"code_prefixes"`
}

type AnalysisSummary struct {
	TotalProducts   int        `json:"total_products"`
	TotalCategories int        `json:"total_categories"`
	LastUpdate      *time.Time `json:"last_update"`
	LastFetch       *time.Time `json:"last_fetch"`
}

type CategoryStats struct {
	Count            int     `json:"count"`
	Available        int     `json:"available"`
	Unavailable      int     `json:"unavailable"`
	AvgPrice         int64   `json:"avg_price"`
	MinPrice         int64   `json:"min_price"`
	MaxPrice         int64   `json:"max_price"`
	AvailabilityRate float64 `json:"availability_rate"`
}

type StatusStats struct {
	Available        int            `json:"available"`
	Unavailable      int            `json:"unavailable"`
	AvailabilityRate float64        `json:"availability_rate"`
	Breakdown        map[string]int `json:"breakdown"`
}

type PriceStats struct {
	Min    int64       `json:"min"`
	Max    int64       `json:"max"`
	Avg    int64       `json:"avg"`
	Median int64       `json:"median"`
	Ranges PriceRanges `json:"ranges"`
}

type PriceRanges struct {
	Under10k       int `json:"under_10k"`
	Between10k50k  int `json:"between_10k_50k"`
	Between50k100k int `json:"between_50k_100k"`
	Over100k       int `json:"over_100k"`
}

type CategoryShare struct {
	Category   string  `json:"category"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ChangesReport groups the change logs of a recency window.
type ChangesReport struct {
	WindowHours int         `json:"window_hours"`
	Recent      []ChangeLog `json:"recent"`
	Significant []ChangeLog `json:"significant"`
	Summary     Summary     `json:"summary"`
	HistorySize int         `json:"history_size"`
}
