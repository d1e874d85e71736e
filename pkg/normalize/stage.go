package normalize

// Stage names, in pipeline order.
const (
	StageSplit       = "split"
	StagePreclean    = "preclean"
	StagePhrases     = "phrases"
	StagePostclean   = "postclean"
	StageSynonym     = "synonym"
	StageConsolidate = "consolidate"
)

// StageChange records one value transition inside the vendor pipeline,
// keyed by the original raw string and the stage that altered it.
type StageChange struct {
	Original string `json:"original"`
	Stage    string `json:"stage"`
	Before   string `json:"before"`
	After    string `json:"after"`
}

// ChangeLog collects every stage change of one normalization run so it
// can be written out as an audit artifact afterwards. Warnings counts
// the WARN events the run emitted, for the batch report.
type ChangeLog struct {
	Changes  []StageChange
	Warnings int
}

func (l *ChangeLog) record(original, stage, before, after string) {
	if before == after {
		return
	}
	l.Changes = append(l.Changes, StageChange{
		Original: original,
		Stage:    stage,
		Before:   before,
		After:    after,
	})
}

// Merge appends another log's changes and warnings.
func (l *ChangeLog) Merge(other *ChangeLog) {
	if other != nil {
		l.Changes = append(l.Changes, other.Changes...)
		l.Warnings += other.Warnings
	}
}
