package imputation

import (
	"jefabcli/internal/cleaning"
	"jefabcli/internal/config"
	"jefabcli/internal/table"
)

// Liveness is the state of a parent as answered in the survey
type Liveness int

const (
	LivenessUnknown Liveness = iota
	LivenessAlive
	LivenessDead
)

func (l Liveness) String() string {
	switch l {
	case LivenessAlive:
		return "alive"
	case LivenessDead:
		return "dead"
	default:
		return "unknown"
	}
}

// LivenessReader classifies liveness answers against the configured vocabularies.
// Numeric answers are matched by their rendering, so 1 and 0 work when listed.
type LivenessReader struct {
	normalizer *cleaning.Normalizer
	answers    map[string]Liveness
}

// NewLivenessReader builds a reader. Vocabulary entries are normalized the same
// way as the answers. An answer listed as both alive and dead reads as dead.
func NewLivenessReader(vocab config.LivenessConfig) *LivenessReader {
	n := cleaning.NewNormalizer(nil)
	answers := make(map[string]Liveness, len(vocab.Alive)+len(vocab.Dead))
	for _, a := range vocab.Alive {
		answers[n.NormalizeString(a)] = LivenessAlive
	}
	for _, d := range vocab.Dead {
		answers[n.NormalizeString(d)] = LivenessDead
	}
	return &LivenessReader{normalizer: n, answers: answers}
}

// Read classifies one cell. Missing and unrecognized answers are unknown.
func (r *LivenessReader) Read(v table.Value) Liveness {
	if v.IsMissing() {
		return LivenessUnknown
	}
	return r.answers[r.normalizer.NormalizeString(v.String())]
}

// Mask classifies a whole liveness column
func (r *LivenessReader) Mask(col *table.Column) []Liveness {
	mask := make([]Liveness, len(col.Values))
	for i, v := range col.Values {
		mask[i] = r.Read(v)
	}
	return mask
}
