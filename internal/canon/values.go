package canon

import "github.com/roach88/smoracle/internal/market"

// InstanceValue converts an instance to its canonical tree.
func InstanceValue(inst market.Instance) map[string]any {
	return map[string]any{
		"companies":  sideValue(inst.Companies),
		"candidates": sideValue(inst.Candidates),
	}
}

func sideValue(side market.Side) []any {
	out := make([]any, len(side))
	for i, list := range side {
		out[i] = []int(list)
	}
	return out
}

// MatchingValue converts a matching to its canonical tree, preserving order.
func MatchingValue(m market.Matching) []any {
	out := make([]any, len(m))
	for i, h := range m {
		out[i] = map[string]any{
			"company":   h.Company,
			"candidate": h.Candidate,
		}
	}
	return out
}

// TraceValue converts a trace to its canonical tree, preserving order.
func TraceValue(tr market.Trace) []any {
	out := make([]any, len(tr))
	for i, ev := range tr {
		out[i] = map[string]any{
			"from":         ev.From,
			"to":           ev.To,
			"from_company": ev.FromCompany,
		}
	}
	return out
}
