package model

import "time"

type StepOutcome string

const (
	StepApplied StepOutcome = "applied"
	StepSkipped StepOutcome = "skipped"
)

type StepReport struct {
	Name    string      `json:"name" bson:"name"`
	Outcome StepOutcome `json:"outcome" bson:"outcome"`
	Reason  string      `json:"reason,omitempty" bson:"reason,omitempty"`
	Changed int         `json:"changed_cells" bson:"changed_cells"`
}

// RunReport describes one cleaning run.
type RunReport struct {
	RunID      string       `json:"run_id" bson:"run_id"`
	Source     string       `json:"source" bson:"source"`
	StartedAt  time.Time    `json:"started_at" bson:"started_at"`
	FinishedAt time.Time    `json:"finished_at" bson:"finished_at"`
	InputRows  int          `json:"input_rows" bson:"input_rows"`
	OutputRows int          `json:"output_rows" bson:"output_rows"`
	Aligned    int          `json:"aligned_rows" bson:"aligned_rows"`
	Steps      []StepReport `json:"steps" bson:"steps"`
}

// SkippedSteps names the steps that did not run.
func (r RunReport) SkippedSteps() []string {
	out := []string{}
	for _, s := range r.Steps {
		if s.Outcome == StepSkipped {
			out = append(out, s.Name)
		}
	}
	return out
}

func (r RunReport) Step(name string) (StepReport, bool) {
	for _, s := range r.Steps {
		if s.Name == name {
			return s, true
		}
	}
	return StepReport{}, false
}

// Snapshot is a cleaned table together with the run that produced it. The table is
// shared between readers and must not be modified.
type Snapshot struct {
	Version string    `json:"version"`
	Table   *Table    `json:"-"`
	Report  RunReport `json:"report"`
	// Origin is "pipeline" for a fresh run and "store" for a warm start.
	Origin   string    `json:"origin"`
	LoadedAt time.Time `json:"loaded_at"`
}

const (
	OriginPipeline = "pipeline"
	OriginStore    = "store"
)

// SnapshotInfo is the metadata served for a snapshot.
type SnapshotInfo struct {
	Version  string    `json:"version"`
	Origin   string    `json:"origin"`
	LoadedAt time.Time `json:"loaded_at"`
	Rows     int       `json:"rows"`
	Columns  []string  `json:"columns"`
	Report   RunReport `json:"report"`
}

func (s *Snapshot) Info() SnapshotInfo {
	return SnapshotInfo{
		Version:  s.Version,
		Origin:   s.Origin,
		LoadedAt: s.LoadedAt,
		Rows:     s.Table.Len(),
		Columns:  s.Table.Columns,
		Report:   s.Report,
	}
}
