package utils

// Linspace returns n evenly spaced values from start to stop inclusive. The
// endpoints are returned exactly.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := 0; i < n-1; i++ {
		out[i] = start + step*float64(i)
	}
	out[n-1] = stop
	return out
}
