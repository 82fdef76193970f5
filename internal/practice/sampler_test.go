package practice

import "testing"

func sum(allocation map[int64]int) int {
	total := 0
	for _, n := range allocation {
		total += n
	}
	return total
}

func TestAllocateWeightedTowardWeakMastery(t *testing.T) {
	// Scores 2 and 8 give inverse weights 8 and 2.
	allocation := Allocate([]int64{1, 2}, map[int64]float64{1: 2, 2: 8}, 10)
	if allocation[1] != 8 || allocation[2] != 2 {
		t.Errorf("allocation = %v, want map[1:8 2:2]", allocation)
	}
}

func TestAllocateEvenSplitWithoutScores(t *testing.T) {
	allocation := Allocate([]int64{1, 2, 3, 4, 5}, nil, 10)
	for id := int64(1); id <= 5; id++ {
		if allocation[id] != 2 {
			t.Errorf("allocation[%d] = %d, want 2", id, allocation[id])
		}
	}
}

func TestAllocateEvenSplitRemainderToFirstIDs(t *testing.T) {
	allocation := Allocate([]int64{7, 8, 9}, map[int64]float64{}, 10)
	if allocation[7] != 4 || allocation[8] != 3 || allocation[9] != 3 {
		t.Errorf("allocation = %v, want map[7:4 8:3 9:3]", allocation)
	}
}

func TestAllocateMissingScoreDefaultsToAverage(t *testing.T) {
	// id 2 has no score and must be treated as 5, not 0. With scores
	// {1: 5 (default), 2: 5} the allocation is even, not starved.
	allocation := Allocate([]int64{1, 2}, map[int64]float64{1: 5}, 10)
	if allocation[1] != 5 || allocation[2] != 5 {
		t.Errorf("allocation = %v, want map[1:5 2:5]", allocation)
	}
}

func TestAllocateShortfallGoesToWeakest(t *testing.T) {
	// Equal weights rounding down leaves a shortfall; it lands entirely
	// on the lowest-score id, ties broken by input order.
	allocation := Allocate([]int64{1, 2, 3}, map[int64]float64{1: 4, 2: 4, 3: 4}, 10)
	if sum(allocation) != 10 {
		t.Fatalf("sum = %d, want 10 (%v)", sum(allocation), allocation)
	}
	if allocation[1] < allocation[2] || allocation[1] < allocation[3] {
		t.Errorf("shortfall did not favor the first-seen weakest id: %v", allocation)
	}
}

func TestAllocateSumProperty(t *testing.T) {
	scorePatterns := []map[int64]float64{
		{1: 0},
		{1: 0, 2: 9.5},
		{1: 0, 2: 0, 3: 9.5},
		{1: 10, 2: 10, 3: 10, 4: 10},
		{2: 3.3, 4: 7.7},
	}
	for n := 1; n <= 10; n++ {
		ids := make([]int64, n)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		for _, scores := range scorePatterns {
			allocation := Allocate(ids, scores, 10)
			if got := sum(allocation); got != 10 {
				t.Errorf("n=%d scores=%v: sum = %d, want 10 (%v)", n, scores, got, allocation)
			}
			for _, id := range ids {
				if allocation[id] < 1 {
					t.Errorf("n=%d scores=%v: allocation[%d] = %d, want >= 1",
						n, scores, id, allocation[id])
				}
			}
		}
	}
}

func TestAllocateMorePointsThanQuestions(t *testing.T) {
	ids := make([]int64, 15)
	scores := make(map[int64]float64, 15)
	for i := range ids {
		ids[i] = int64(i + 1)
		scores[ids[i]] = 5
	}
	allocation := Allocate(ids, scores, 10)
	if got := sum(allocation); got != 10 {
		t.Errorf("sum = %d, want 10 (%v)", got, allocation)
	}
}

func TestAllocateEmptyInput(t *testing.T) {
	if got := Allocate(nil, nil, 10); len(got) != 0 {
		t.Errorf("Allocate(nil) = %v, want empty", got)
	}
}
