// ABOUTME: Vector query engine over SurrealDB collections
// ABOUTME: KNN query composition with pushed-down metadata filters and score conversion
package store

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/models"
	"github.com/jonathanprozzi/mastra-agent-surreal-starter/internal/surreal"
)

const (
	sqlGetCollection = `SELECT * FROM type::thing("vector_collections", $name)`

	sqlSaveCollection = `UPSERT type::thing("vector_collections", $name) CONTENT {
		dimension: $dimension,
		metric: $metric,
		table_name: $table_name,
		created_at: $created_at
	}`

	sqlUpsertVector = `UPSERT type::thing($tb, $id) SET
		embedding = $embedding,
		metadata = $metadata,
		updated_at = $now,
		created_at = created_at ?? $now`

	sqlCountVectors = `SELECT count() AS count FROM type::table($tb) GROUP ALL`

	sqlDeleteVector = `DELETE type::thing($tb, $id)`

	sqlTruncateVectors = `DELETE FROM type::table($tb)`

	sqlDeleteCollection = `DELETE type::thing("vector_collections", $name)`
)

// collectionNamePattern allow-lists collection names. The name becomes
// part of a table identifier, so it is validated, never escaped.
var collectionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)

// VectorStore handles vector collections and similarity search.
//
// Queries are a single SurrealQL statement: the metric's similarity or
// distance function is computed per record, the metadata filter is
// conjoined into the same WHERE clause (there is no separate post-filter
// pass), and ordering plus LIMIT are pushed down too. The scan is exact
// rather than an approximate index probe, so results are correct under
// every filter at O(collection size) per query.
type VectorStore struct {
	db surreal.Queryer
}

// NewVectorStore creates a new VectorStore
func NewVectorStore(db surreal.Queryer) *VectorStore {
	return &VectorStore{db: db}
}

// CreateCollectionParams declares a collection. Metric defaults to
// cosine when empty.
type CreateCollectionParams struct {
	Name      string
	Dimension int
	Metric    models.DistanceMetric
}

// CreateCollection declares a named collection with a fixed embedding
// length and distance metric. Calling it again with identical
// parameters is a no-op; a conflicting redefinition is an error.
func (s *VectorStore) CreateCollection(ctx context.Context, params CreateCollectionParams) error {
	table, err := collectionTable(params.Name)
	if err != nil {
		return err
	}
	if params.Dimension <= 0 {
		return fmt.Errorf("collection %q: dimension must be positive, got %d", params.Name, params.Dimension)
	}
	metric := params.Metric
	if metric == "" {
		metric = models.MetricCosine
	}
	if !metric.Valid() {
		return fmt.Errorf("collection %q: unknown metric %q", params.Name, metric)
	}

	existing, err := s.getCollection(ctx, params.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.Dimension == params.Dimension && existing.Metric == metric {
			return nil
		}
		return fmt.Errorf("collection %q already exists with dimension %d and metric %s",
			params.Name, existing.Dimension, existing.Metric)
	}

	// Table names cannot be parameterized in DDL; the name was
	// allow-listed above.
	if _, err := s.db.Query(ctx, fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table), nil); err != nil {
		return fmt.Errorf("failed to define collection table: %w", err)
	}

	_, err = s.db.Query(ctx, sqlSaveCollection, map[string]any{
		"name":       params.Name,
		"dimension":  params.Dimension,
		"metric":     string(metric),
		"table_name": table,
		"created_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to register collection: %w", err)
	}
	return nil
}

// UpsertParams carries a batch of records for one collection
type UpsertParams struct {
	Collection string
	Records    []models.VectorRecord
}

// Upsert inserts or replaces records and returns their ids in input
// order, generating ids for records without one. Every embedding must
// match the collection's dimension; a mismatch rejects the whole batch
// before any write, since partial vector-index corruption is worse than
// an all-or-nothing failure.
func (s *VectorStore) Upsert(ctx context.Context, params UpsertParams) ([]string, error) {
	meta, err := s.mustGetCollection(ctx, params.Collection)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(params.Records))
	for i, rec := range params.Records {
		if len(rec.Embedding) != meta.Dimension {
			return nil, &DimensionMismatchError{
				Collection: params.Collection,
				RecordID:   rec.ID,
				Want:       meta.Dimension,
				Got:        len(rec.Embedding),
			}
		}
		ids[i] = rec.ID
		if ids[i] == "" {
			ids[i] = uuid.New().String()
		}
	}

	now := time.Now().UTC()
	for i, rec := range params.Records {
		_, err := s.db.Query(ctx, sqlUpsertVector, map[string]any{
			"tb":        meta.table,
			"id":        ids[i],
			"embedding": rec.Embedding,
			"metadata":  rec.Metadata,
			"now":       now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upsert vector %s: %w", ids[i], err)
		}
	}

	return ids, nil
}

// QueryParams describes one similarity search
type QueryParams struct {
	Collection    string
	Vector        []float64
	TopK          int
	Filter        map[string]any
	IncludeVector bool
}

// Query returns up to TopK records ordered by descending similarity.
// Score conventions per metric, internally consistent:
//
//	cosine:     vector::similarity::cosine, used as-is (equals 1 − cosine distance)
//	euclidean:  1 / (1 + distance)
//	dotproduct: raw dot product
//
// An empty collection or a filter matching nothing yields an empty
// slice, and TopK larger than the live record count returns everything
// available with no padding.
func (s *VectorStore) Query(ctx context.Context, params QueryParams) ([]models.SearchHit, error) {
	meta, err := s.mustGetCollection(ctx, params.Collection)
	if err != nil {
		return nil, err
	}
	if len(params.Vector) != meta.Dimension {
		return nil, &DimensionMismatchError{
			Collection: params.Collection,
			Want:       meta.Dimension,
			Got:        len(params.Vector),
		}
	}

	topK := params.TopK
	if topK <= 0 {
		topK = 10
	}

	sql, vars, err := buildVectorQuery(meta, params, topK)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", params.Collection, err)
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		hit := models.SearchHit{
			ID:       surreal.IDField(row, "id"),
			Score:    similarityFromScore(meta.Metric, surreal.FloatField(row, "score")),
			Metadata: surreal.MapField(row, "metadata"),
		}
		if params.IncludeVector {
			hit.Embedding = surreal.FloatSliceField(row, "embedding")
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// buildVectorQuery composes the single search statement: score
// expression, optional embedding projection, filter conjunction, metric
// ordering, and limit.
func buildVectorQuery(meta *collectionMeta, params QueryParams, topK int) (string, map[string]any, error) {
	scoreExpr, descending := scoreExpression(meta.Metric)

	var b strings.Builder
	b.WriteString("SELECT id, metadata")
	if params.IncludeVector {
		b.WriteString(", embedding")
	}
	b.WriteString(", ")
	b.WriteString(scoreExpr)
	b.WriteString(" AS score FROM type::table($tb)")

	vars := map[string]any{
		"tb":    meta.table,
		"query": params.Vector,
		"limit": topK,
	}

	if len(params.Filter) > 0 {
		filter, err := surreal.CompileFilter("metadata", params.Filter)
		if err != nil {
			return "", nil, err
		}
		if filter.Expr != "" {
			b.WriteString(" WHERE ")
			b.WriteString(filter.Expr)
			for k, v := range filter.Vars {
				vars[k] = v
			}
		}
	}

	b.WriteString(" ORDER BY score")
	if descending {
		b.WriteString(" DESC")
	} else {
		b.WriteString(" ASC")
	}
	b.WriteString(" LIMIT $limit")

	return b.String(), vars, nil
}

// scoreExpression returns the metric's SurrealQL function and whether
// higher raw scores mean closer matches
func scoreExpression(metric models.DistanceMetric) (expr string, descending bool) {
	switch metric {
	case models.MetricEuclidean:
		return "vector::distance::euclidean(embedding, $query)", false
	case models.MetricDotProduct:
		return "vector::dot(embedding, $query)", true
	default:
		return "vector::similarity::cosine(embedding, $query)", true
	}
}

// similarityFromScore converts the raw per-metric score into the
// documented similarity convention
func similarityFromScore(metric models.DistanceMetric, score float64) float64 {
	if metric == models.MetricEuclidean {
		return 1 / (1 + score)
	}
	return score
}

// Describe returns the collection's fixed properties plus its live
// record count, read at call time rather than cached
func (s *VectorStore) Describe(ctx context.Context, name string) (*models.CollectionInfo, error) {
	meta, err := s.mustGetCollection(ctx, name)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(ctx, sqlCountVectors, map[string]any{"tb": meta.table})
	if err != nil {
		return nil, fmt.Errorf("failed to count collection %s: %w", name, err)
	}

	count := 0
	if len(rows) > 0 {
		count = surreal.IntField(rows[0], "count")
	}

	return &models.CollectionInfo{
		Name:      name,
		Dimension: meta.Dimension,
		Metric:    meta.Metric,
		Count:     count,
	}, nil
}

// DeleteRecord removes one record; a nonexistent id is a no-op
func (s *VectorStore) DeleteRecord(ctx context.Context, collection, id string) error {
	return s.DeleteRecords(ctx, DeleteRecordsParams{Collection: collection, IDs: []string{id}})
}

// DeleteRecordsParams selects records to delete, by id list or by
// metadata filter
type DeleteRecordsParams struct {
	Collection string
	IDs        []string
	Filter     map[string]any
}

// DeleteRecords removes records by id list or, when no ids are given,
// by metadata filter
func (s *VectorStore) DeleteRecords(ctx context.Context, params DeleteRecordsParams) error {
	meta, err := s.mustGetCollection(ctx, params.Collection)
	if err != nil {
		return err
	}

	if len(params.IDs) > 0 {
		for _, id := range params.IDs {
			if _, err := s.db.Query(ctx, sqlDeleteVector, map[string]any{"tb": meta.table, "id": id}); err != nil {
				return fmt.Errorf("failed to delete vector %s: %w", id, err)
			}
		}
		return nil
	}

	if len(params.Filter) == 0 {
		return fmt.Errorf("delete from collection %q needs ids or a filter", params.Collection)
	}

	filter, err := surreal.CompileFilter("metadata", params.Filter)
	if err != nil {
		return err
	}
	// nil-valued filter entries compile away; an empty clause here would
	// delete the whole collection
	if filter.Expr == "" {
		return fmt.Errorf("delete from collection %q needs ids or a filter", params.Collection)
	}
	vars := map[string]any{"tb": meta.table}
	for k, v := range filter.Vars {
		vars[k] = v
	}
	sql := sqlTruncateVectors + " WHERE " + filter.Expr
	if _, err := s.db.Query(ctx, sql, vars); err != nil {
		return fmt.Errorf("failed to delete by filter: %w", err)
	}
	return nil
}

// Truncate removes every record while keeping the collection defined
func (s *VectorStore) Truncate(ctx context.Context, name string) error {
	meta, err := s.mustGetCollection(ctx, name)
	if err != nil {
		return err
	}
	if _, err := s.db.Query(ctx, sqlTruncateVectors, map[string]any{"tb": meta.table}); err != nil {
		return fmt.Errorf("failed to truncate collection %s: %w", name, err)
	}
	return nil
}

// Drop removes the collection's table and its registry entry
func (s *VectorStore) Drop(ctx context.Context, name string) error {
	meta, err := s.mustGetCollection(ctx, name)
	if err != nil {
		return err
	}
	if _, err := s.db.Query(ctx, fmt.Sprintf("REMOVE TABLE IF EXISTS %s", meta.table), nil); err != nil {
		return fmt.Errorf("failed to remove collection table: %w", err)
	}
	if _, err := s.db.Query(ctx, sqlDeleteCollection, map[string]any{"name": name}); err != nil {
		return fmt.Errorf("failed to deregister collection: %w", err)
	}
	return nil
}

// ListCollections returns the names of every registered collection
func (s *VectorStore) ListCollections(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT * FROM vector_collections ORDER BY created_at ASC`, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, surreal.IDField(row, "id"))
	}
	return names, nil
}

// collectionMeta is a registry row plus its derived table name
type collectionMeta struct {
	Dimension int
	Metric    models.DistanceMetric
	table     string
}

// getCollection loads a registry row, or nil when the collection is not
// defined
func (s *VectorStore) getCollection(ctx context.Context, name string) (*collectionMeta, error) {
	if _, err := collectionTable(name); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, sqlGetCollection, map[string]any{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to get collection %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	table := surreal.StringField(rows[0], "table_name")
	if table == "" {
		table, _ = collectionTable(name)
	}
	return &collectionMeta{
		Dimension: surreal.IntField(rows[0], "dimension"),
		Metric:    models.DistanceMetric(surreal.StringField(rows[0], "metric")),
		table:     table,
	}, nil
}

// mustGetCollection loads a registry row, failing with ErrNotFound for
// an undefined collection
func (s *VectorStore) mustGetCollection(ctx context.Context, name string) (*collectionMeta, error) {
	meta, err := s.getCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("collection %s: %w", name, ErrNotFound)
	}
	return meta, nil
}

// collectionTable maps an allow-listed collection name to its data
// table name
func collectionTable(name string) (string, error) {
	if !collectionNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid collection name %q", name)
	}
	return "vector_" + strings.ReplaceAll(name, "-", "_"), nil
}
