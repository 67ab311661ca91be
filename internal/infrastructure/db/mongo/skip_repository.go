package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grical/overlay-service/internal/core/domain"
	"github.com/grical/overlay-service/internal/core/ports"
)

const collectionSkippedRecords = "skipped_records"

// skipDocument is the stored form of a domain.SkipAudit.
type skipDocument struct {
	OverlayID  string    `bson:"overlay_id"`
	Source     string    `bson:"source"`
	Index      int       `bson:"index"`
	Reason     string    `bson:"reason"`
	Detail     string    `bson:"detail"`
	Missing    []string  `bson:"missing,omitempty"`
	Record     string    `bson:"record"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func toSkipDocument(a domain.SkipAudit) skipDocument {
	return skipDocument{
		OverlayID:  a.OverlayID,
		Source:     a.Source,
		Index:      a.Index,
		Reason:     string(a.Reason),
		Detail:     a.Detail,
		Missing:    a.Missing,
		Record:     a.Record,
		RecordedAt: a.RecordedAt.UTC(),
	}
}

func (d skipDocument) toDomain() domain.SkipAudit {
	return domain.SkipAudit{
		OverlayID:  d.OverlayID,
		Source:     d.Source,
		Index:      d.Index,
		Reason:     domain.SkipReason(d.Reason),
		Detail:     d.Detail,
		Missing:    d.Missing,
		Record:     d.Record,
		RecordedAt: d.RecordedAt,
	}
}

// SkipRepository implements ports.SkipRepository using MongoDB.
type SkipRepository struct {
	col *mongo.Collection
}

// NewSkipRepository creates a SkipRepository on the skipped_records collection.
func NewSkipRepository(db *mongo.Database) *SkipRepository {
	return &SkipRepository{col: db.Collection(collectionSkippedRecords)}
}

var _ ports.SkipRepository = (*SkipRepository)(nil)

// InsertSkips appends entries to the audit trail. Order is not significant.
func (r *SkipRepository) InsertSkips(ctx context.Context, entries []domain.SkipAudit) error {
	if len(entries) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, toSkipDocument(e))
	}

	_, err := r.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// ListRecent returns the newest audit entries first.
func (r *SkipRepository) ListRecent(ctx context.Context, limit int) ([]domain.SkipAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []skipDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.SkipAudit, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the indexes used by ListRecent and ad-hoc queries.
func (r *SkipRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "recorded_at", Value: -1}}},
		{Keys: bson.D{{Key: "reason", Value: 1}}},
		{Keys: bson.D{{Key: "overlay_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
