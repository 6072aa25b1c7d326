// ABOUTME: Vector collection models for similarity search
// ABOUTME: Defines VectorRecord, SearchHit, CollectionInfo and distance metrics
package models

// DistanceMetric selects how similarity is measured within a collection
type DistanceMetric string

const (
	MetricCosine     DistanceMetric = "cosine"
	MetricEuclidean  DistanceMetric = "euclidean"
	MetricDotProduct DistanceMetric = "dotproduct"
)

// Valid reports whether the metric is one of the supported metrics
func (m DistanceMetric) Valid() bool {
	switch m {
	case MetricCosine, MetricEuclidean, MetricDotProduct:
		return true
	}
	return false
}

// VectorRecord is one embedding plus opaque metadata in a collection.
// Metadata is used only for filtering, never for ranking.
type VectorRecord struct {
	ID        string         `json:"id,omitempty"`
	Embedding []float64      `json:"embedding"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// SearchHit is one vector query result. Score is a similarity (higher is
// closer) under the collection's metric convention. Embedding is only set
// when the query asked for vectors.
type SearchHit struct {
	ID        string         `json:"id"`
	Score     float64        `json:"score"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Embedding []float64      `json:"embedding,omitempty"`
}

// CollectionInfo describes a vector collection. Count is the live record
// count at the time of the describe call, never cached.
type CollectionInfo struct {
	Name      string         `json:"name"`
	Dimension int            `json:"dimension"`
	Metric    DistanceMetric `json:"metric"`
	Count     int            `json:"count"`
}
