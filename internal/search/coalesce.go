package search

import "github.com/altinukshini/hound-tui/internal/model"

// MatchToLines expands a match and its context into numbered lines. Only
// the hit itself is marked as a match.
func MatchToLines(m model.RawMatch) []model.Line {
	lines := make([]model.Line, 0, len(m.Before)+1+len(m.After))
	base := m.LineNumber
	for i, content := range m.Before {
		lines = append(lines, model.Line{Number: base - len(m.Before) + i, Content: content})
	}
	lines = append(lines, model.Line{Number: base, Content: m.Line, IsMatch: true})
	for i, content := range m.After {
		lines = append(lines, model.Line{Number: base + 1 + i, Content: content})
	}
	return lines
}

// Coalesce merges the context windows of a file's matches into blocks.
// Matches must be in ascending line order. A window whose first line is
// at or before the last line of the block being built is folded into it;
// lines past the block's end are appended and overlapping hits are marked
// as matches on the lines already present.
func Coalesce(matches []model.RawMatch) []model.LineBlock {
	var (
		blocks  []model.LineBlock
		current model.LineBlock
	)
	for _, m := range matches {
		candidate := MatchToLines(m)
		if current != nil && candidate[0].Number <= current.Last() {
			last := current.Last()
			for _, line := range candidate {
				switch {
				case line.Number > last:
					current = append(current, line)
				case line.IsMatch:
					if ix := len(current) - 1 - (last - line.Number); ix >= 0 {
						current[ix].IsMatch = true
					}
				}
			}
			continue
		}
		if current != nil {
			blocks = append(blocks, current)
		}
		current = candidate
	}
	if current != nil {
		blocks = append(blocks, current)
	}
	return blocks
}

// CountLines returns the number of lines across blocks.
func CountLines(blocks []model.LineBlock) int {
	n := 0
	for _, b := range blocks {
		n += len(b)
	}
	return n
}
