package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every tag evaluation and every renucleation.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelDecisions
}

// NucleationTrace collects decision records during a nucleation run.
type NucleationTrace struct {
	Config        TraceConfig
	Tags          []TagRecord
	Renucleations []RenucleationRecord
}

// NewNucleationTrace creates a NucleationTrace ready for recording.
func NewNucleationTrace(config TraceConfig) *NucleationTrace {
	return &NucleationTrace{
		Config:        config,
		Tags:          make([]TagRecord, 0),
		Renucleations: make([]RenucleationRecord, 0),
	}
}

// RecordTag appends a tag record.
func (nt *NucleationTrace) RecordTag(record TagRecord) {
	nt.Tags = append(nt.Tags, record)
}

// RecordRenucleation appends a renucleation record.
func (nt *NucleationTrace) RecordRenucleation(record RenucleationRecord) {
	nt.Renucleations = append(nt.Renucleations, record)
}

// TagsForStep returns the tag records of one step, in site order.
func (nt *NucleationTrace) TagsForStep(step int) []TagRecord {
	var out []TagRecord
	for _, r := range nt.Tags {
		if r.Step == step {
			out = append(out, r)
		}
	}
	return out
}
