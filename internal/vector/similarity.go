package vector

import "math"

// CosineSimilarity returns the exact cosine similarity dot(a,b)/(|a||b|)
// clamped to [0,1]. Negative cosine is treated as 0: posting/profile
// semantics never warrant negative weight. This is the formula used for
// scoring; it is independent of the approximate index-search similarity.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cos := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(0, math.Min(1, cos))
}

// ApproxSimilarity converts a squared Euclidean distance from Nearest into
// the 1-distance similarity convention. For embeddings with norms close to 1
// this tracks cosine similarity but is NOT exact and can go negative for very
// dissimilar vectors; callers that need a strict [0,1] similarity must clamp.
// Never used for stored scores, only for candidate pre-selection.
func ApproxSimilarity(distance float64) float64 {
	return 1 - distance
}
