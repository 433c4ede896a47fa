package canon

import "github.com/roach88/smoracle/internal/market"

// TraceSnapshot captures a traced solver run for golden comparison.
type TraceSnapshot struct {
	Name     string
	Instance market.Instance
	Result   market.TracedResult
}

// CanonicalValue implements Valuer.
func (s TraceSnapshot) CanonicalValue() any {
	return map[string]any{
		"name":     s.Name,
		"instance": InstanceValue(s.Instance),
		"trace":    TraceValue(s.Result.Trace),
		"out":      MatchingValue(s.Result.Out),
	}
}
