package discreteid

import "sort"

// CumulativeCounts is the condensed distance representation. Per-point
// neighbor identities are dropped; only how many neighbors fall within each
// integer radius is kept.
type CumulativeCounts struct {
	// DMax is the largest radius tracked.
	DMax int
	// Counts[i][r] is the number of other points within radius r of point i,
	// for r = 0..DMax.
	Counts [][]int
	// Overflow[i] is the number of neighbors of point i farther than DMax.
	Overflow []int
}

// within returns the number of neighbors of point i within the integer
// radius r. Radii above DMax are clamped, so the caller must check r <= DMax.
func (c *CumulativeCounts) within(i int, r float64) int {
	if r < 0 {
		return 0
	}
	ri := int(r)
	if ri > c.DMax {
		ri = c.DMax
	}
	return c.Counts[i][ri]
}

// radiusFor returns the smallest radius whose cumulative count for point i
// reaches k, or -1 if no radius up to DMax does.
func (c *CumulativeCounts) radiusFor(i, k int) int {
	row := c.Counts[i]
	r := sort.SearchInts(row, k)
	if r > c.DMax {
		return -1
	}
	return r
}

// computeCumulativeCounts histograms the shells of every other point around
// each point and prefix-sums them into cumulative counts.
func computeCumulativeCounts(points [][]int, period []int, metric LatticeMetric, dmax, workers int) *CumulativeCounts {
	n := len(points)
	c := &CumulativeCounts{
		DMax:     dmax,
		Counts:   make([][]int, n),
		Overflow: make([]int, n),
	}

	forEachRowBlock(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			row := make([]int, dmax+1)
			overflow := 0
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				s := metric.Shell(points[i], points[j], period)
				if s > dmax {
					overflow++
					continue
				}
				row[s]++
			}
			for r := 1; r <= dmax; r++ {
				row[r] += row[r-1]
			}
			c.Counts[i] = row
			c.Overflow[i] = overflow
		}
	})

	return c
}

// DistanceHistogram counts ordered point pairs by integer distance shell.
type DistanceHistogram struct {
	// Counts[r] is the number of ordered pairs (i, j), i != j, at shell r.
	Counts []int
	// Overflow is the number of pairs beyond the last tracked shell, or not
	// retained by a truncated neighbor table.
	Overflow int
}

// Total returns the number of pairs accounted for, including Overflow.
func (h *DistanceHistogram) Total() int {
	total := h.Overflow
	for _, c := range h.Counts {
		total += c
	}
	return total
}

// histogramFromCounts aggregates cumulative counts into a dataset histogram.
func histogramFromCounts(c *CumulativeCounts) *DistanceHistogram {
	h := &DistanceHistogram{Counts: make([]int, c.DMax+1)}
	for i, row := range c.Counts {
		prev := 0
		for r, cum := range row {
			h.Counts[r] += cum - prev
			prev = cum
		}
		h.Overflow += c.Overflow[i]
	}
	return h
}

// histogramFromTable bins the retained neighbors of a full table. Pairs that
// a truncated table dropped are reported as Overflow.
func histogramFromTable(t *DistanceTable, points [][]int, period []int, metric LatticeMetric) *DistanceHistogram {
	n := len(points)
	h := &DistanceHistogram{}
	for i := range t.Indices {
		for _, j := range t.Indices[i] {
			s := metric.Shell(points[i], points[j], period)
			for s >= len(h.Counts) {
				h.Counts = append(h.Counts, 0)
			}
			h.Counts[s]++
		}
		h.Overflow += n - 1 - len(t.Indices[i])
	}
	return h
}
