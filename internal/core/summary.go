package core

// Total sums the present amounts of the entries. Absent amounts count as zero.
func Total(entries []Entry) float64 {
	var sum float64
	for _, e := range entries {
		if e.Amount.Valid {
			sum += e.Amount.Value
		}
	}
	return sum
}
