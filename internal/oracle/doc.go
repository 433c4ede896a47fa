// Package oracle checks stable-matching solvers by exhaustive property
// inspection over random instances.
//
// Two oracles share one trial loop:
//
//   - Matching: the solver's hires must form a complete bijection with no
//     blocking pair (CheckMatching).
//   - Trace: a traced solver's protocol events must follow the sequential
//     offer/acceptance protocol and its output must show no rank inversion
//     (CheckTrace).
//
// Every failure is a *Violation carrying a Kind, so callers can tell a
// cardinality error from an unstable matching or an out-of-order trace:
//
//	err := oracle.RunMatching(mySolver, oracle.WithTrials(500))
//	if oracle.IsViolation(err, oracle.KindUnstable) {
//	    ...
//	}
//
// Runs are fail-fast: the first violated property ends the run. A passing
// run returns nil and produces no output beyond optional debug logs.
//
// Solvers are called synchronously with no timeout. A solver that never
// returns blocks the run; wrap the call in a test timeout if that matters.
package oracle
