package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	dataseterrors "negociosverdes/internal/dataset/errors"
	"negociosverdes/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SnapshotsCollection = "Snapshots"
	ChunksCollection    = "Snapshot_chunks"

	// ChunkSize bounds the rows stored per chunk document.
	ChunkSize = 500
)

type SnapshotRepository interface {
	Load(ctx context.Context, version string) (*model.Snapshot, error)
	Save(ctx context.Context, snapshot *model.Snapshot) error
	Ping(ctx context.Context) error
}

type snapshotDocument struct {
	Version string          `bson:"_id"`
	RunID   string          `bson:"run_id"`
	Columns []string        `bson:"columns"`
	Rows    int             `bson:"rows"`
	Chunks  int             `bson:"chunks"`
	Report  model.RunReport `bson:"report"`
	SavedAt time.Time       `bson:"saved_at"`
}

type chunkDocument struct {
	ID      string  `bson:"_id"`
	Version string  `bson:"version"`
	RunID   string  `bson:"run_id"`
	Seq     int     `bson:"seq"`
	Rows    [][]any `bson:"rows"`
}

type mongoSnapshotRepository struct {
	client       *mongo.Client
	snapshots    *mongo.Collection
	chunks       *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoSnapshotRepository(client *mongo.Client, database string, readTimeout, writeTimeout time.Duration) SnapshotRepository {
	db := client.Database(database)
	return &mongoSnapshotRepository{
		client:       client,
		snapshots:    db.Collection(SnapshotsCollection),
		chunks:       db.Collection(ChunksCollection),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// withTimeout bounds ctx by timeout unless the caller's deadline is sooner.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSnapshotRepository) Ping(ctx context.Context) error {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()
	return r.client.Ping(ctx, nil)
}

func (r *mongoSnapshotRepository) Load(ctx context.Context, version string) (*model.Snapshot, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	var doc snapshotDocument
	if err := r.snapshots.FindOne(ctx, bson.M{"_id": version}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, dataseterrors.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to find snapshot: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})
	cursor, err := r.chunks.Find(ctx, bson.M{"version": version, "run_id": doc.RunID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find snapshot chunks: %w", err)
	}
	defer cursor.Close(ctx)

	var chunks []chunkDocument
	if err := cursor.All(ctx, &chunks); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot chunks: %w", err)
	}

	table := model.NewTable(doc.Columns)
	for _, c := range chunks {
		for _, cells := range c.Rows {
			row := make(model.Row, len(cells))
			for i, cell := range cells {
				row[i] = model.FromAny(cell)
			}
			table.Append(row)
		}
	}
	if len(chunks) != doc.Chunks || table.Len() != doc.Rows {
		return nil, fmt.Errorf("%w: version %s has %d/%d chunks and %d/%d rows",
			dataseterrors.ErrCorruptSnapshot, version, len(chunks), doc.Chunks, table.Len(), doc.Rows)
	}

	return &model.Snapshot{
		Version:  version,
		Table:    table,
		Report:   doc.Report,
		Origin:   model.OriginStore,
		LoadedAt: time.Now().UTC(),
	}, nil
}

// Save writes the chunks of a run before pointing the snapshot document at them, so a
// reader never sees a partially written run. Chunks of earlier runs are removed last.
func (r *mongoSnapshotRepository) Save(ctx context.Context, snapshot *model.Snapshot) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	runID := snapshot.Report.RunID
	chunks := toChunks(snapshot.Version, runID, snapshot.Table)

	if len(chunks) > 0 {
		docs := make([]any, len(chunks))
		for i := range chunks {
			docs[i] = chunks[i]
		}
		if _, err := r.chunks.InsertMany(ctx, docs); err != nil {
			return fmt.Errorf("failed to insert snapshot chunks: %w", err)
		}
	}

	doc := snapshotDocument{
		Version: snapshot.Version,
		RunID:   runID,
		Columns: snapshot.Table.Columns,
		Rows:    snapshot.Table.Len(),
		Chunks:  len(chunks),
		Report:  snapshot.Report,
		SavedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.snapshots.ReplaceOne(ctx, bson.M{"_id": snapshot.Version}, doc, opts); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	stale := bson.M{"version": snapshot.Version, "run_id": bson.M{"$ne": runID}}
	if _, err := r.chunks.DeleteMany(ctx, stale); err != nil {
		return fmt.Errorf("failed to remove stale snapshot chunks: %w", err)
	}
	return nil
}

func toChunks(version, runID string, t *model.Table) []chunkDocument {
	var chunks []chunkDocument
	for start := 0; start < t.Len(); start += ChunkSize {
		end := min(start+ChunkSize, t.Len())
		rows := make([][]any, 0, end-start)
		for _, r := range t.Rows[start:end] {
			cells := make([]any, len(r))
			for i, v := range r {
				cells[i] = v.Any()
			}
			rows = append(rows, cells)
		}
		seq := len(chunks)
		chunks = append(chunks, chunkDocument{
			ID:      fmt.Sprintf("%s:%s:%d", version, runID, seq),
			Version: version,
			RunID:   runID,
			Seq:     seq,
			Rows:    rows,
		})
	}
	return chunks
}
