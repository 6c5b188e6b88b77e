package bench

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrInvalidSuite = errors.New("invalid perft suite")

// SuiteEntry is one line of a perft reference file: FEN;D1 <n>;D2 <n>;...
// Nodes[d-1] is the expected leaf count at depth d.
type SuiteEntry struct {
	FEN   string
	Nodes []uint64
}

// ParseSuite reads a perft reference file. Blank lines and lines starting with '#' are skipped.
func ParseSuite(r io.Reader) ([]SuiteEntry, error) {
	var entries []SuiteEntry
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, ";")
		entry := SuiteEntry{FEN: strings.TrimSpace(fields[0])}
		if entry.FEN == "" {
			return nil, fmt.Errorf("%w: line %d: missing fen", ErrInvalidSuite, line)
		}
		for _, field := range fields[1:] {
			depth, nodes, err := parseDepthField(strings.TrimSpace(field))
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidSuite, line, err)
			}
			if depth != len(entry.Nodes)+1 {
				return nil, fmt.Errorf("%w: line %d: depth %d out of order", ErrInvalidSuite, line, depth)
			}
			entry.Nodes = append(entry.Nodes, nodes)
		}
		if len(entry.Nodes) == 0 {
			return nil, fmt.Errorf("%w: line %d: no depth given", ErrInvalidSuite, line)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSuite, err)
	}
	return entries, nil
}

func parseDepthField(field string) (int, uint64, error) {
	parts := strings.Fields(field)
	if len(parts) != 2 || len(parts[0]) < 2 || parts[0][0] != 'D' {
		return 0, 0, fmt.Errorf("malformed field %q", field)
	}
	depth, err := strconv.Atoi(parts[0][1:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed depth %q", parts[0])
	}
	nodes, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed node count %q", parts[1])
	}
	return depth, nodes, nil
}
