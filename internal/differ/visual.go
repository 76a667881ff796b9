package differ

import (
	"bytes"
	"embed"
	"html/template"
	"unicode/utf8"
)

//go:embed templates/*
var templatesFS embed.FS

var visualTemplate = template.Must(template.ParseFS(templatesFS, "templates/visual_diff.html.tmpl"))

type visualRow struct {
	LeftNum    int
	LeftText   string
	LeftClass  string
	RightNum   int
	RightText  string
	RightClass string
}

type visualData struct {
	Title          string
	OldFingerprint string
	NewFingerprint string
	Stats          Stats
	Truncated      bool
	MaxSize        int
	Rows           []visualRow
}

// sideBySideRows pairs deletions with the insertions that follow them and
// wraps long lines into continuation rows.
func sideBySideRows(ops []lineOp, wrap int) []visualRow {
	var rows []visualRow
	for i := 0; i < len(ops); {
		if ops[i].Kind == opEqual {
			rows = append(rows, wrapRow(ops[i], ops[i], "", "", wrap)...)
			i++
			continue
		}

		var dels, ins []lineOp
		for i < len(ops) && ops[i].Kind == opDelete {
			dels = append(dels, ops[i])
			i++
		}
		for i < len(ops) && ops[i].Kind == opInsert {
			ins = append(ins, ops[i])
			i++
		}
		for j := 0; j < max(len(dels), len(ins)); j++ {
			var left, right lineOp
			leftClass, rightClass := "empty", "empty"
			if j < len(dels) {
				left, leftClass = dels[j], "del"
			}
			if j < len(ins) {
				right, rightClass = ins[j], "add"
			}
			rows = append(rows, wrapRow(left, right, leftClass, rightClass, wrap)...)
		}
	}
	return rows
}

func wrapRow(left, right lineOp, leftClass, rightClass string, wrap int) []visualRow {
	leftChunks := wrapText(left.Text, wrap)
	rightChunks := wrapText(right.Text, wrap)
	n := max(len(leftChunks), len(rightChunks))

	rows := make([]visualRow, n)
	for k := 0; k < n; k++ {
		row := visualRow{LeftClass: leftClass, RightClass: rightClass}
		if k < len(leftChunks) {
			row.LeftText = leftChunks[k]
		}
		if k < len(rightChunks) {
			row.RightText = rightChunks[k]
		}
		if k == 0 {
			row.LeftNum = left.OldLine
			row.RightNum = right.NewLine
		}
		rows[k] = row
	}
	return rows
}

// wrapText splits s into chunks of at most width runes
func wrapText(s string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return []string{s}
	}
	var chunks []string
	runes := []rune(s)
	for len(runes) > width {
		chunks = append(chunks, string(runes[:width]))
		runes = runes[width:]
	}
	return append(chunks, string(runes))
}

func renderVisual(data visualData) (string, error) {
	var buf bytes.Buffer
	if err := visualTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
