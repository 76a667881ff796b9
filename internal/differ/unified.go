package differ

import (
	"fmt"
	"strings"
)

// unifiedDiff renders ops as a unified diff with the given number of context lines
func unifiedDiff(ops []lineOp, oldName, newName string, context int) string {
	hunks := hunkRanges(ops, context)
	if len(hunks) == 0 {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- %s\n+++ %s\n", oldName, newName)

	for _, h := range hunks {
		segment := ops[h[0]:h[1]]
		oldStart, oldCount, newStart, newCount := hunkPositions(ops, h[0], segment)
		fmt.Fprintf(&sb, "@@ -%s +%s @@\n", formatRange(oldStart, oldCount), formatRange(newStart, newCount))
		for _, op := range segment {
			sb.WriteByte(byte(op.Kind))
			sb.WriteString(op.Text)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// hunkRanges groups changed ops with their surrounding context into [start, end) ranges
func hunkRanges(ops []lineOp, context int) [][2]int {
	var ranges [][2]int
	for i, op := range ops {
		if op.Kind == opEqual {
			continue
		}
		start := max(0, i-context)
		end := min(len(ops), i+context+1)
		if n := len(ranges); n > 0 && start <= ranges[n-1][1] {
			ranges[n-1][1] = max(ranges[n-1][1], end)
			continue
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}

func hunkPositions(ops []lineOp, startIdx int, segment []lineOp) (oldStart, oldCount, newStart, newCount int) {
	oldBefore, newBefore := 0, 0
	for _, op := range ops[:startIdx] {
		if op.Kind != opInsert {
			oldBefore++
		}
		if op.Kind != opDelete {
			newBefore++
		}
	}
	for _, op := range segment {
		if op.Kind != opInsert {
			oldCount++
		}
		if op.Kind != opDelete {
			newCount++
		}
	}
	oldStart, newStart = oldBefore, newBefore
	if oldCount > 0 {
		oldStart++
	}
	if newCount > 0 {
		newStart++
	}
	return oldStart, oldCount, newStart, newCount
}

func formatRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}
