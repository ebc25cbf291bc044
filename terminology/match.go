package terminology

import (
	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/utils"
)

// FuzzyThreshold is the minimum similarity ratio for a fuzzy table match.
const FuzzyThreshold = 0.85

// closestKey scans a sorted candidate list for the best fuzzy match. Ties on
// ratio are broken by the smaller length difference to the query; remaining
// ties keep the lexically first candidate, which the sorted scan order
// guarantees.
func closestKey(query string, keys []string) (string, float64) {
	best := ""
	bestRatio := 0.0
	for _, key := range keys {
		ratio := norm.Similarity(query, key)
		if ratio < FuzzyThreshold {
			continue
		}
		if best == "" || ratio > bestRatio {
			best = key
			bestRatio = ratio
			continue
		}
		if ratio == bestRatio &&
			utils.AbsInt(len(key)-len(query)) < utils.AbsInt(len(best)-len(query)) {
			best = key
		}
	}
	return best, bestRatio
}
