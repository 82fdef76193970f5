// Package practice builds adaptive practice sets: a fixed number of
// questions allocated across knowledge points inversely weighted by the
// user's mastery of each.
package practice

import "math"

// DefaultScore is substituted for knowledge points without mastery data.
// An unknown knowledge point is treated as average, never as zero. This is
// the only place the substitution happens; the mastery store returns
// computed scores exclusively.
const DefaultScore = 5.0

// Allocate distributes total questions across the knowledge points.
// Weaker mastery gets a larger share: each id weighs max(10-score, 1),
// quotas are max(1, round(total*weight/sumWeights)) capped so the running
// total never exceeds total (while leaving room for one question per
// remaining id), and any shortfall goes entirely to the id with the lowest
// score, first-seen order breaking ties. With no mastery data at all the
// split is even, remainder to the first ids in input order.
func Allocate(knowledgeIDs []int64, scores map[int64]float64, total int) map[int64]int {
	allocation := make(map[int64]int, len(knowledgeIDs))
	n := len(knowledgeIDs)
	if n == 0 || total <= 0 {
		return allocation
	}

	known := false
	for _, id := range knowledgeIDs {
		if _, ok := scores[id]; ok {
			known = true
			break
		}
	}
	if !known {
		base := total / n
		remainder := total % n
		for i, id := range knowledgeIDs {
			quota := base
			if i < remainder {
				quota++
			}
			allocation[id] = quota
		}
		return allocation
	}

	effective := make([]float64, n)
	weights := make([]float64, n)
	var weightSum float64
	for i, id := range knowledgeIDs {
		score, ok := scores[id]
		if !ok {
			score = DefaultScore
		}
		weight := 10 - score
		if weight < 1 {
			weight = 1
		}
		effective[i] = score
		weights[i] = weight
		weightSum += weight
	}

	used := 0
	for i, id := range knowledgeIDs {
		quota := int(math.Round(float64(total) * weights[i] / weightSum))
		if quota < 1 {
			quota = 1
		}
		// Cap so the running total fits, reserving one question for each
		// id still waiting for its quota.
		remaining := n - i - 1
		if limit := total - used - remaining; quota > limit {
			quota = limit
		}
		if quota < 0 {
			quota = 0
		}
		allocation[id] = quota
		used += quota
	}

	if used < total {
		weakest := 0
		for i := 1; i < n; i++ {
			if effective[i] < effective[weakest] {
				weakest = i
			}
		}
		allocation[knowledgeIDs[weakest]] += total - used
	}
	return allocation
}
