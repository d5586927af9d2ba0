package util

import "golang.org/x/exp/constraints"

// Clamp limits v to the closed interval [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
