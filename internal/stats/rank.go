package stats

// rankMin assigns competitive ranks using the minimum method: tied values
// all receive the best eligible rank and the next distinct value skips
// accordingly ([90, 90, 85] descending -> [1, 1, 3]).
func rankMin(values []float64, descending bool) []int {
	ranks := make([]int, len(values))
	for i, v := range values {
		rank := 1
		for j, other := range values {
			if j == i {
				continue
			}
			if (descending && other > v) || (!descending && other < v) {
				rank++
			}
		}
		ranks[i] = rank
	}
	return ranks
}
