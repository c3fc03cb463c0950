package normalize

// Dedupe filters items to first-occurrence-unique by key in a single
// left-to-right pass. Items whose key is empty are dropped entirely
// (an empty key means the item is unusable for comparison). The relative
// order of kept items matches the input order.
func Dedupe[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(items))
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if k == "" {
			continue
		}
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}
	return result
}

// CapResults dedupes items by key and truncates to at most limit entries.
// Used to cap raw search results before enrichment is attempted, bounding
// downstream cost. A non-positive limit means no cap.
func CapResults[T any](items []T, key func(T) string, limit int) []T {
	out := Dedupe(items, key)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
