package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// readPoints parses integer coordinates, one point per CSV record. Blank
// lines and lines starting with '#' are skipped.
func readPoints(r io.Reader) ([][]int, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = 0

	var points [][]int
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read points: %w", err)
		}
		p := make([]int, len(record))
		for j, field := range record {
			v, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				row, _ := cr.FieldPos(j)
				return nil, fmt.Errorf("read points: line %d field %d: %w", row, j+1, err)
			}
			p[j] = v
		}
		points = append(points, p)
	}
	if len(points) == 0 {
		return nil, errors.New("read points: no points")
	}
	return points, nil
}

// readPointsFile opens path and reads its points.
func readPointsFile(path string) ([][]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readPoints(f)
}
