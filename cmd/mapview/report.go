package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/mapview/assets"
	"github.com/plus3/mapview/ecs"
	"github.com/plus3/mapview/tilemap"
)

type Report struct {
	// Configuration
	Duration  time.Duration
	Window    tilemap.Vec2
	Synthetic bool

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	Tiles          [tilemap.MaxLevel + 1]int
	Assets         assets.Stats
	Storage        *ecs.StorageStats
	Scheduler      *ecs.SchedulerStats
	Camera         tilemap.CameraState
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Map Pipeline Stress Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Window:** {{.Window.X}}x{{.Window.Y}}
- **Assets:** {{if .Synthetic}}generated{{else}}configured store{{end}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}

## Streaming
- **Final Camera:** ({{printf "%.1f" .Camera.Position.X}}, {{printf "%.1f" .Camera.Position.Y}}) scale {{printf "%.3f" .Camera.Scale}}
- **Tiles Requested:** {{sum .Tiles}}
{{- range $level, $n := .Tiles}}
  - level {{$level}}: {{$n}}
{{- end}}
- **Assets:** {{.Assets.Ready}} ready, {{.Assets.Pending}} pending, {{.Assets.Failed}} failed
- **Entities:** {{.Storage.TotalEntityCount}}

## Systems
| system | stage | runs | avg | max |
|---|---|---|---|---|
{{- range .Scheduler.Systems}}
| {{.Name}} | {{.Stage}} | {{.ExecutionCount}} | {{.AvgDuration}} | {{.MaxDuration}} |
{{- end}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"sum": func(counts [tilemap.MaxLevel + 1]int) int {
			total := 0
			for _, n := range counts {
				total += n
			}
			return total
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return fmt.Errorf("report template: %w", err)
	}

	return tmpl.Execute(w, r)
}
