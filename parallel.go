package discreteid

import "sync"

// forEachRowBlock splits the rows [0, n) into contiguous blocks and calls fn
// once per block, using up to numWorkers goroutines. With numWorkers <= 1 the
// whole range is processed on the calling goroutine.
//
// fn must only write state owned by the rows of its block. Every row is then
// computed exactly as in the sequential case, so results are bitwise
// identical for any worker count.
func forEachRowBlock(n, numWorkers int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	if numWorkers <= 1 || n == 1 {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		startRow := w * rowsPerWorker
		endRow := startRow + rowsPerWorker
		if endRow > n {
			endRow = n
		}
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}
