//go:build integration

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	dataseterrors "negociosverdes/internal/dataset/errors"
	"negociosverdes/pkg/model"
)

const (
	defaultMongoURI   = "mongodb://localhost:27017"
	connectionTimeout = 10 * time.Second
)

// mongoHelper owns a throwaway database per test.
type mongoHelper struct {
	client   *mongo.Client
	database string
}

func newMongoHelper(t *testing.T) *mongoHelper {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = defaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("MongoDB not reachable at %s: %v", uri, err)
	}

	h := &mongoHelper{
		client:   client,
		database: fmt.Sprintf("negocios_verdes_test_%d", time.Now().UnixNano()),
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
		defer cancel()
		_ = client.Database(h.database).Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return h
}

func bigTable(rows int) *model.Table {
	t := model.NewTable([]string{model.ColumnYear, model.ColumnDepartment, model.ColumnAligned})
	for i := range rows {
		year := model.Int(int64(2000 + i%25))
		if i%7 == 0 {
			year = model.Null()
		}
		t.Append(model.Row{year, model.String(fmt.Sprintf("DEP %d", i)), model.String(model.AlignedNo)})
	}
	return t
}

func TestMongoSnapshotRepository_SaveLoad(t *testing.T) {
	h := newMongoHelper(t)
	repo := NewMongoSnapshotRepository(h.client, h.database, 5*time.Second, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Ping(ctx))

	_, err := repo.Load(ctx, "v1")
	assert.True(t, errors.Is(err, dataseterrors.ErrSnapshotNotFound))

	table := bigTable(ChunkSize*2 + 3)
	snap := &model.Snapshot{Version: "v1", Table: table, Report: model.RunReport{RunID: "run-1", OutputRows: table.Len()}}
	require.NoError(t, repo.Save(ctx, snap))

	loaded, err := repo.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, model.OriginStore, loaded.Origin)
	assert.Equal(t, table.Columns, loaded.Table.Columns)
	require.Equal(t, table.Len(), loaded.Table.Len())
	for i := range table.Rows {
		assert.Equal(t, table.Rows[i], loaded.Table.Rows[i], "row %d", i)
	}
	assert.Equal(t, "run-1", loaded.Report.RunID)
}

func TestMongoSnapshotRepository_ResaveRemovesStaleChunks(t *testing.T) {
	h := newMongoHelper(t)
	repo := NewMongoSnapshotRepository(h.client, h.database, 5*time.Second, 5*time.Second)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &model.Snapshot{Version: "v1", Table: bigTable(ChunkSize + 1), Report: model.RunReport{RunID: "run-1"}}))
	require.NoError(t, repo.Save(ctx, &model.Snapshot{Version: "v1", Table: bigTable(2), Report: model.RunReport{RunID: "run-2"}}))

	loaded, err := repo.Load(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Table.Len())

	n, err := h.client.Database(h.database).Collection(ChunksCollection).CountDocuments(ctx, bson.M{"version": "v1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
