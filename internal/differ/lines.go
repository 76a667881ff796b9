package differ

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type opKind byte

const (
	opEqual  opKind = ' '
	opDelete opKind = '-'
	opInsert opKind = '+'
)

// lineOp is one line of a line-level edit script with 1-based positions.
// OldLine is zero for inserts and NewLine is zero for deletes.
type lineOp struct {
	Kind    opKind
	Text    string
	OldLine int
	NewLine int
}

// lineDiff computes a line-oriented edit script
func lineDiff(dmp *diffmatchpatch.DiffMatchPatch, oldText, newText string) []lineOp {
	a, b, lineArray := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var ops []lineOp
	oldLine, newLine := 0, 0
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				oldLine++
				newLine++
				ops = append(ops, lineOp{Kind: opEqual, Text: line, OldLine: oldLine, NewLine: newLine})
			case diffmatchpatch.DiffDelete:
				oldLine++
				ops = append(ops, lineOp{Kind: opDelete, Text: line, OldLine: oldLine})
			case diffmatchpatch.DiffInsert:
				newLine++
				ops = append(ops, lineOp{Kind: opInsert, Text: line, NewLine: newLine})
			}
		}
	}
	return ops
}

// splitLines splits text into lines without their terminators
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(strings.TrimSuffix(l, "\n"), "\r")
	}
	return lines
}
