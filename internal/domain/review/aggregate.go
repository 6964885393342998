package review

import "math"

type Rating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Aggregate computes the rating over visible reviews, rounded to two decimals.
// It is recomputed from scratch after every review write.
func Aggregate(reviews []Review) Rating {
	sum, n := 0, 0
	for _, r := range reviews {
		if r.IsHidden {
			continue
		}
		sum += r.Rating
		n++
	}
	if n == 0 {
		return Rating{}
	}
	avg := float64(sum) / float64(n)
	return Rating{Average: math.Round(avg*100) / 100, Count: n}
}
