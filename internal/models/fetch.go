package models

import "time"

// FetchResult is what a fetch cycle hands back to its caller.
type FetchResult struct {
	Products   []Product      `json:"products"`
	Updated    bool           `json:"updated"`
	Stale      bool           `json:"stale"`
	LastUpdate *time.Time     `json:"last_update"`
	LastFetch  *time.Time     `json:"last_fetch"`
	Changes    []ChangeRecord `json:"changes,omitempty"`
	Error      string         `json:"error,omitempty"`

	// ChangeLog is set when the cycle produced a new snapshot.
	ChangeLog *ChangeLog `json:"-"`
}

// Warning is the fetch error a stale result was served in spite of.
func (r *FetchResult) Warning() string {
	if r == nil || !r.Stale {
		return ""
	}
	return r.Error
}

type CacheInfo struct {
	HasData    bool       `json:"has_data"`
	LastUpdate *time.Time `json:"last_update"`
	LastFetch  *time.Time `json:"last_fetch"`
	DataCount  int        `json:"data_count"`
}
