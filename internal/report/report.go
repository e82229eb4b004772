package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/uagen/internal/generator"
)

// Summary contains aggregated metrics about one generation run.
type Summary struct {
	RunID       string
	Requested   int
	Generated   int
	Attempts    int
	Collisions  int
	StoreBefore int
	StoreAfter  int
	ByMarket    map[string]int
	ByAndroid   map[int]int
	ByChrome    map[int]int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

// Run describes the inputs of a generation run that the batch does not carry.
type Run struct {
	ID          string
	Requested   int
	StoreBefore int
	StoreAfter  int
	StartTime   time.Time
	EndTime     time.Time
}

// GenerateSummary aggregates a batch into a Summary.
func GenerateSummary(run Run, batch *generator.Batch) Summary {
	s := Summary{
		RunID:       run.ID,
		Requested:   run.Requested,
		StoreBefore: run.StoreBefore,
		StoreAfter:  run.StoreAfter,
		ByMarket:    make(map[string]int),
		ByAndroid:   make(map[int]int),
		ByChrome:    make(map[int]int),
		StartTime:   run.StartTime,
		EndTime:     run.EndTime,
		Duration:    run.EndTime.Sub(run.StartTime),
	}

	if batch == nil {
		return s
	}

	s.Attempts = batch.Attempts
	s.Collisions = batch.Collisions
	for _, smp := range batch.Samples {
		s.Generated++
		s.ByMarket[string(smp.Market)]++
		s.ByAndroid[smp.Android]++
		s.ByChrome[smp.Chrome]++
	}

	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

const textTmpl = `UA Generation Summary
---------------------
Run:           {{.RunID}}
Time:          {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Duration:      {{.Duration}}
Generated:     {{.Generated}} of {{.Requested}} requested
Attempts:      {{.Attempts}} ({{.Collisions}} collisions)
Store:         {{.StoreBefore}} -> {{.StoreAfter}} entries

Markets:
{{- range $m, $count := .ByMarket}}
  {{$m}}: {{$count}}
{{- else}}
  None
{{- end}}

Android:
{{- range $v, $count := .ByAndroid}}
  {{$v}}: {{$count}}
{{- else}}
  None
{{- end}}

Chrome:
{{- range $v, $count := .ByChrome}}
  {{$v}}: {{$count}}
{{- else}}
  None
{{- end}}
`

var textReport = template.Must(template.New("textReport").Parse(textTmpl))

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	if err := textReport.Execute(w, summary); err != nil {
		return fmt.Errorf("render summary: %w", err)
	}
	return nil
}
