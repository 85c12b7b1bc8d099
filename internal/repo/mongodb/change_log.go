package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/price-tracker/internal/config"
	"github.com/nguyentranbao-ct/price-tracker/internal/models"
	log "github.com/nguyentranbao-ct/price-tracker/pkg/logger/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const archiveSource = "price-tracker"

// ChangeLogRepository archives significant change logs. It is also the
// archive sink of the notifier.
type ChangeLogRepository interface {
	Name() string
	Publish(ctx context.Context, changeLog models.ChangeLog) error
	FindByLogID(ctx context.Context, logID string) (*models.ChangeLogDocument, error)
	List(ctx context.Context, page, limit int) (*models.ChangeLogPage, error)
	EnsureIndexes(ctx context.Context) error
}

type changeLogRepo struct {
	baseRepo[models.ChangeLogDocument]
	ttl time.Duration
	now func() time.Time
}

// NewChangeLogRepository returns a disabled repository when db is nil.
func NewChangeLogRepository(conf *config.Config, db *DB) ChangeLogRepository {
	if db == nil {
		return &disabledChangeLogRepo{}
	}
	return newChangeLogRepo(db.Database, conf.Database.TTL)
}

func newChangeLogRepo(dbc *mongo.Database, ttl time.Duration) *changeLogRepo {
	return &changeLogRepo{
		baseRepo: newBaseRepo[models.ChangeLogDocument](dbc),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *changeLogRepo) Name() string {
	return "archive"
}

func (r *changeLogRepo) EnsureIndexes(ctx context.Context) error {
	return r.CreateIndexes(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "log_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "timestamp", Value: -1}},
		},
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	})
}

func (r *changeLogRepo) Publish(ctx context.Context, changeLog models.ChangeLog) error {
	now := r.now()
	doc := models.ChangeLogDocument{
		ID:        models.NewObjectID(),
		ChangeLog: changeLog,
		Source:    archiveSource,
		CreatedAt: now,
		ExpiresAt: now.Add(r.ttl),
	}
	id, err := r.Insert(ctx, doc)
	if err != nil {
		return fmt.Errorf("archive change log: %w", err)
	}
	log.Debugw(ctx, "change log archived", "id", id, "log_id", changeLog.ID)
	return nil
}

func (r *changeLogRepo) FindByLogID(ctx context.Context, logID string) (*models.ChangeLogDocument, error) {
	return r.FindOne(ctx, bson.M{"log_id": logID})
}

func (r *changeLogRepo) List(ctx context.Context, page, limit int) (*models.ChangeLogPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	limit = min(limit, 100)

	res, err := r.PaginateWithTotal(ctx, bson.M{}, int64(limit), int64((page-1)*limit),
		options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list change logs: %w", err)
	}
	return &models.ChangeLogPage{
		ChangeLogs: res.Data,
		Page:       page,
		Limit:      limit,
		Total:      res.Total,
		TotalPages: (res.Total + int64(limit) - 1) / int64(limit),
	}, nil
}

// disabledChangeLogRepo is used when the database is disabled
type disabledChangeLogRepo struct{}

func (d *disabledChangeLogRepo) Name() string {
	return "archive"
}

func (d *disabledChangeLogRepo) Publish(context.Context, models.ChangeLog) error {
	return nil
}

func (d *disabledChangeLogRepo) FindByLogID(context.Context, string) (*models.ChangeLogDocument, error) {
	return nil, models.ErrDisabled
}

func (d *disabledChangeLogRepo) List(context.Context, int, int) (*models.ChangeLogPage, error) {
	return nil, models.ErrDisabled
}

func (d *disabledChangeLogRepo) EnsureIndexes(context.Context) error {
	return nil
}
