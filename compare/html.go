// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compare

import (
	"fmt"
	"io"

	"github.com/google/safehtml/template"
	"github.com/perfharness/perfcmp/benchunit"
)

var htmlTemplate = template.Must(template.New("").Funcs(template.FuncMap{
	"text":  func(v Value, s benchunit.Scaler) string { return v.text(s) },
	"delta": htmlDelta,
	"class": htmlClass,
}).Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
.perfcmp { border-collapse: collapse; }
.perfcmp th:nth-child(1) { text-align: left; }
.perfcmp tbody td:nth-child(1n+2):not(.note) { text-align: right; padding: 0em 1em; }
.perfcmp th { border-top: 1px solid #666; border-bottom: 1px solid #ccc; }
.perfcmp .better td.delta { font-weight: bold; }
.perfcmp .worse td.delta { font-weight: bold; color: #c00; }
</style>
</head>
<body>
<table class='perfcmp'>
<tbody>
<tr><th>name<th>{{.BaselineFile}}<th>{{.VariantFile}}<th>delta
{{range .Rows -}}
{{$class := class .Row}}{{if eq $class "better"}}<tr class='better'>{{else if eq $class "worse"}}<tr class='worse'>{{else}}<tr class='unchanged'>{{end}}<td>{{.Row.Name}}<td>{{text .Baseline .Scaler}}<td>{{text .Variant .Scaler}}<td class='delta'>{{delta .Row}}<td class='note'>{{if .Row.InconsistentUnit}}unit mismatch{{end}}
{{end -}}
</tbody>
</table>
</body>
</html>
`))

type htmlRow struct {
	Row               *Row
	Baseline, Variant Value
	Scaler            benchunit.Scaler
}

func htmlDelta(r *Row) string {
	if !r.HasDelta {
		return ""
	}
	return fmt.Sprintf("%+.2f%%", r.DeltaPct)
}

// htmlClass classifies a row by the sign of its delta. A positive
// delta means the variant measured less than the baseline.
func htmlClass(r *Row) string {
	switch {
	case !r.HasDelta || r.DeltaPct == 0:
		return "unchanged"
	case r.DeltaPct > 0:
		return "better"
	}
	return "worse"
}

// FormatHTML writes t to w as a standalone HTML page.
func FormatHTML(w io.Writer, t *Table) error {
	data := struct {
		Title                     string
		BaselineFile, VariantFile string
		Rows                      []htmlRow
	}{
		Title:        fmt.Sprintf("%s comparison", t.Kind),
		BaselineFile: t.BaselineFile,
		VariantFile:  t.VariantFile,
	}
	for _, row := range t.Rows {
		b, v, s := row.tidy()
		data.Rows = append(data.Rows, htmlRow{row, b, v, s})
	}
	return htmlTemplate.Execute(w, data)
}
