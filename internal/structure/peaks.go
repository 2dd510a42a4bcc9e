package structure

import "sort"

// findPeaks returns the indices of local maxima in x that are at least
// distance bars apart and stand out by at least prominence.
// Flat tops resolve to their midpoint; the first and last samples are never peaks.
// The distance filter runs before the prominence filter, and when two peaks are
// too close the higher one wins.
func findPeaks(x []float64, distance int, prominence float64) []int {
	peaks := localMaxima(x)
	if distance > 1 {
		peaks = selectByDistance(x, peaks, distance)
	}
	if prominence > 0 {
		kept := make([]int, 0, len(peaks))
		for _, p := range peaks {
			if peakProminence(x, p) >= prominence {
				kept = append(kept, p)
			}
		}
		peaks = kept
	}
	return peaks
}

func localMaxima(x []float64) []int {
	var peaks []int
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				left, right := i, ahead-1
				peaks = append(peaks, (left+right)/2)
				i = ahead
			}
		}
		i++
	}
	return peaks
}

func selectByDistance(x []float64, peaks []int, distance int) []int {
	n := len(peaks)
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[peaks[order[a]]] < x[peaks[order[b]]] })

	for k := n - 1; k >= 0; k-- {
		j := order[k]
		if !keep[j] {
			continue
		}
		for l := j - 1; l >= 0 && peaks[j]-peaks[l] < distance; l-- {
			keep[l] = false
		}
		for r := j + 1; r < n && peaks[r]-peaks[j] < distance; r++ {
			keep[r] = false
		}
	}

	out := make([]int, 0, n)
	for i, p := range peaks {
		if keep[i] {
			out = append(out, p)
		}
	}
	return out
}

// peakProminence measures how far a peak rises above the higher of the two
// lowest points reachable on either side before meeting higher ground.
func peakProminence(x []float64, peak int) float64 {
	leftMin := x[peak]
	for i := peak; i >= 0 && x[i] <= x[peak]; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
		}
	}
	rightMin := x[peak]
	for i := peak; i < len(x) && x[i] <= x[peak]; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
		}
	}
	base := leftMin
	if rightMin > base {
		base = rightMin
	}
	return x[peak] - base
}
