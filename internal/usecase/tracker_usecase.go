package usecase

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentranbao-ct/price-tracker/internal/diff"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	"github.com/nguyentranbao-ct/price-tracker/internal/parser"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/memory"
	"github.com/nguyentranbao-ct/price-tracker/internal/repo/source"
	"github.com/nguyentranbao-ct/price-tracker/pkg/fingerprint"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"github.com/nguyentranbao-ct/price-tracker/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// TrackerUsecase runs fetch cycles and owns the current snapshot and the
// change history.
type TrackerUsecase interface {
	// Refresh runs one fetch cycle. Concurrent callers share the cycle in
	// flight instead of starting another one.
	Refresh(ctx context.Context) (*models.FetchResult, error)
	// Latest returns the current snapshot, running a first cycle when
	// nothing has been fetched yet.
	Latest(ctx context.Context) (*models.FetchResult, error)
	CacheInfo() models.CacheInfo
	RecentChanges(within time.Duration) []models.ChangeLog
	HistorySize() int
	ClearHistory()
}

const (
	cycleKey = "fetch-cycle"

	outcomeUpdated   = "updated"
	outcomeUnchanged = "unchanged"
	outcomeStale     = "stale"
	outcomeFailed    = "failed"
)

type trackerUsecase struct {
	fetcher       source.Client
	parser        parser.Parser
	store         memory.SnapshotStore
	history       memory.ChangeHistory
	notifier      NotifyUsecase
	group         singleflight.Group
	cycles        *prometheus.HistogramVec
	dropped       *prometheus.CounterVec
	notifyTimeout time.Duration
}

func NewTrackerUsecase(
	fetcher source.Client,
	p parser.Parser,
	store memory.SnapshotStore,
	history memory.ChangeHistory,
	notifier NotifyUsecase,
) (TrackerUsecase, error) {
	cycles, err := util.GetHistogramVec("tracker_cycle_duration_seconds", "outcome")
	if err != nil {
		return nil, err
	}
	dropped, err := util.GetCounterVec("parser_rows_dropped_total", "Rows excluded while parsing the listing", "reason")
	if err != nil {
		return nil, err
	}
	return &trackerUsecase{
		fetcher:       fetcher,
		parser:        p,
		store:         store,
		history:       history,
		notifier:      notifier,
		cycles:        cycles,
		dropped:       dropped,
		notifyTimeout: 30 * time.Second,
	}, nil
}

func (uc *trackerUsecase) Refresh(ctx context.Context) (*models.FetchResult, error) {
	// the cycle outlives callers that give up waiting; the fetch timeout
	// bounds it
	ch := uc.group.DoChan(cycleKey, func() (any, error) {
		return uc.runCycle(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		out := *res.Val.(*models.FetchResult)
		return &out, nil
	}
}

func (uc *trackerUsecase) runCycle(ctx context.Context) (res *models.FetchResult, err error) {
	start := time.Now()
	outcome := outcomeFailed
	defer func() {
		uc.cycles.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	prior := uc.store.Current()

	// a panic inside singleflight would be re-raised on a fresh goroutine
	// and take the process down
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			length := runtime.Stack(stack, false)
			log.Errorw(ctx, "PANIC RECOVER", "error", fmt.Sprint(r), "stack", string(stack[:length]))
			res, err = uc.fallback(ctx, prior, fmt.Errorf("fetch cycle panic: %v", r), &outcome)
		}
	}()

	doc, err := uc.fetcher.Fetch(ctx)
	if err != nil {
		return uc.fallback(ctx, prior, err, &outcome)
	}

	fp := fingerprint.Of(doc.Body)
	if uc.store.FingerprintMatches(fp) {
		uc.store.MarkFetched(doc.FetchedAt)
		outcome = outcomeUnchanged
		log.Debugw(ctx, "source unchanged", "fingerprint", fp)
		return uc.result(prior), nil
	}

	parsed, err := uc.parser.Parse(doc.Body)
	if err != nil {
		return uc.fallback(ctx, prior, err, &outcome)
	}
	for reason, n := range parsed.Stats.Dropped {
		uc.dropped.WithLabelValues(reason).Add(float64(n))
	}

	next := &models.Snapshot{
		Products:    parsed.Products,
		Fingerprint: fp,
		CapturedAt:  doc.FetchedAt,
	}
	changeLog := diff.Diff(prior, next, doc.FetchedAt)
	changeLog.ID = uuid.NewString()

	uc.store.Replace(next)
	uc.history.Append(changeLog)
	outcome = outcomeUpdated

	log.Infow(ctx, "snapshot updated",
		"change_log_id", changeLog.ID,
		"fingerprint", fp,
		"products", len(next.Products),
		"changes", len(changeLog.Changes),
		"dropped_rows", parsed.Stats.DroppedTotal(),
		"layouts", parsed.Stats.Layouts,
	)

	// the first snapshot lists every product as new which is not news
	if prior != nil && changeLog.IsSignificant() {
		uc.notify(ctx, changeLog)
	}

	res = uc.result(next)
	res.Updated = true
	res.Changes = changeLog.Changes
	res.ChangeLog = &changeLog
	return res, nil
}

func (uc *trackerUsecase) fallback(ctx context.Context, prior *models.Snapshot, cause error, outcome *string) (*models.FetchResult, error) {
	if prior == nil {
		log.Errorw(ctx, "fetch cycle failed without cached data", "error", cause)
		return nil, cause
	}
	*outcome = outcomeStale
	log.Warnw(ctx, "serving stale snapshot", "error", cause, "captured_at", prior.CapturedAt)

	res := uc.result(prior)
	res.Stale = true
	res.Error = cause.Error()
	return res, nil
}

func (uc *trackerUsecase) notify(ctx context.Context, changeLog models.ChangeLog) {
	go func() {
		ctx, cancel := context.WithTimeout(ctx, uc.notifyTimeout)
		defer cancel()
		if err := uc.notifier.Notify(ctx, changeLog); err != nil {
			log.Errorw(ctx, "notify change log", "change_log_id", changeLog.ID, "error", err)
		}
	}()
}

func (uc *trackerUsecase) result(snapshot *models.Snapshot) *models.FetchResult {
	return &models.FetchResult{
		Products:   snapshot.Products,
		LastUpdate: util.TimePtr(snapshot.CapturedAt),
		LastFetch:  uc.store.LastFetch(),
	}
}

func (uc *trackerUsecase) Latest(ctx context.Context) (*models.FetchResult, error) {
	if cur := uc.store.Current(); cur != nil {
		return uc.result(cur), nil
	}
	return uc.Refresh(ctx)
}

func (uc *trackerUsecase) CacheInfo() models.CacheInfo {
	cur := uc.store.Current()
	info := models.CacheInfo{
		HasData:   cur != nil,
		LastFetch: uc.store.LastFetch(),
		DataCount: cur.Len(),
	}
	if cur != nil {
		info.LastUpdate = util.TimePtr(cur.CapturedAt)
	}
	return info
}

func (uc *trackerUsecase) RecentChanges(within time.Duration) []models.ChangeLog {
	return uc.history.Recent(within)
}

func (uc *trackerUsecase) HistorySize() int {
	return uc.history.Len()
}

func (uc *trackerUsecase) ClearHistory() {
	uc.history.Clear()
}
