// Package casefile loads recorded solver outputs from YAML case files and
// checks them against the oracles.
//
// A case file pins one instance together with the hires (and, in trace mode,
// the protocol events) a solver produced, plus the expected outcome: "pass"
// or a violation kind. Case files let a regression found by a random run be
// replayed without the generator or the solver that produced it.
//
// Loading happens in two stages. The YAML is decoded strictly, rejecting
// unknown top-level fields, and the decoded document is then unified with a
// closed CUE schema. Records that do not have exactly the expected fields and
// types are reported as MALFORMED_RECORD violations rather than load errors,
// so a case file may itself expect MALFORMED_RECORD.
package casefile
