package discreteid

import (
	"container/heap"
	"sort"
)

// DistanceTable is the full-mode distance representation: for every point,
// its nearest neighbors in ascending distance order. Ties are broken by
// ascending neighbor index. The point itself is never listed.
type DistanceTable struct {
	// Distances[i][j] is the distance from point i to its (j+1)-th neighbor.
	Distances [][]float64
	// Indices[i][j] is the index of that neighbor.
	Indices [][]int
	// MaxK is the number of neighbors kept per point.
	MaxK int
}

// complete reports whether the neighbors of row i within radius r are all
// present in the table.
func (t *DistanceTable) complete(i int, r float64, n int) bool {
	row := t.Distances[i]
	if len(row) >= n-1 {
		return true
	}
	return len(row) > 0 && row[len(row)-1] > r
}

// countWithin returns how many entries of the ascending slice dist are <= r.
func countWithin(dist []float64, r float64) int {
	return sort.Search(len(dist), func(j int) bool { return dist[j] > r })
}

// computeDistanceTable computes the maxk nearest neighbors of every point by
// brute force. Rows are independent, so they are split across workers.
func computeDistanceTable(points [][]int, period []int, metric LatticeMetric, maxk, workers int) *DistanceTable {
	n := len(points)
	t := &DistanceTable{
		Distances: make([][]float64, n),
		Indices:   make([][]int, n),
		MaxK:      maxk,
	}

	forEachRowBlock(n, workers, func(start, end int) {
		h := make(neighborHeap, 0, maxk)
		for i := start; i < end; i++ {
			h = h[:0]
			for j := 0; j < n; j++ {
				if j == i {
					continue
				}
				item := neighborItem{index: j, dist: metric.Distance(points[i], points[j], period)}
				if h.Len() < maxk {
					heap.Push(&h, item)
				} else if maxk > 0 && item.before(h[0]) {
					h[0] = item
					heap.Fix(&h, 0)
				}
			}

			// Pop yields the farthest first; fill from the back.
			m := h.Len()
			idx := make([]int, m)
			dist := make([]float64, m)
			for k := m - 1; k >= 0; k-- {
				item := heap.Pop(&h).(neighborItem)
				idx[k] = item.index
				dist[k] = item.dist
			}
			t.Indices[i] = idx
			t.Distances[i] = dist
		}
	})

	return t
}

// --- bounded max-heap of neighbors ---

type neighborItem struct {
	index int
	dist  float64
}

// before orders neighbors by distance, then by index.
func (a neighborItem) before(b neighborItem) bool {
	if a.dist != b.dist {
		return a.dist < b.dist
	}
	return a.index < b.index
}

// neighborHeap keeps the farthest retained neighbor on top, so a closer
// candidate can replace it in O(log k).
type neighborHeap []neighborItem

func (h neighborHeap) Len() int            { return len(h) }
func (h neighborHeap) Less(i, j int) bool  { return h[j].before(h[i]) } // max-heap
func (h neighborHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *neighborHeap) Push(x interface{}) { *h = append(*h, x.(neighborItem)) }
func (h *neighborHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
