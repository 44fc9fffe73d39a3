package cascade

import "github.com/google/uuid"

// Mode selects between soft and destructive cascades
type Mode string

const (
	ModeArchive Mode = "archive"
	ModeDelete  Mode = "delete"
	ModeRestore Mode = "restore"
)

// StepResult records the outcome of one cascade step. Steps run
// independently: a failed step is reported here and the rest still run.
type StepResult struct {
	Name     string `json:"name"`
	Affected int64  `json:"affected"`
	Error    string `json:"error,omitempty"`
}

// Result summarizes a completed cascade over one aggregate
type Result struct {
	Resource   string       `json:"resource"`
	ResourceID uuid.UUID    `json:"resource_id"`
	Mode       Mode         `json:"mode"`
	Steps      []StepResult `json:"steps"`
	Failed     int          `json:"failed"`
}

// Ok reports whether every step completed
func (r *Result) Ok() bool {
	return r.Failed == 0
}

func (r *Result) record(name string, affected int64, err error) {
	step := StepResult{Name: name, Affected: affected}
	if err != nil {
		step.Error = err.Error()
		r.Failed++
	}
	r.Steps = append(r.Steps, step)
}
