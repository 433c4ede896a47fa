package oracle

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/roach88/smoracle/internal/canon"
)

// Kind identifies which property a solver violated.
type Kind string

const (
	// KindCardinality: the matching does not contain exactly N hires.
	KindCardinality Kind = "CARDINALITY"

	// KindDoubleBooking: a company or candidate is hired more than once.
	KindDoubleBooking Kind = "DOUBLE_BOOKING"

	// KindMissingCoverage: some company or candidate is never hired.
	KindMissingCoverage Kind = "MISSING_COVERAGE"

	// KindIndexOutOfRange: a hire references an index outside [0,N).
	KindIndexOutOfRange Kind = "INDEX_OUT_OF_RANGE"

	// KindMalformedRecord: a decoded record does not have the expected shape.
	KindMalformedRecord Kind = "MALFORMED_RECORD"

	// KindUnstable: a blocking pair exists.
	KindUnstable Kind = "UNSTABLE"

	// KindIncompletePreferences: a generated preference list is not a permutation.
	KindIncompletePreferences Kind = "INCOMPLETE_PREFERENCES"

	// KindOutOfOrder: a trace event belongs to a company other than the active one.
	KindOutOfOrder Kind = "OUT_OF_ORDER"

	// KindUnknownReference: a trace event names an index missing from the relevant list.
	KindUnknownReference Kind = "UNKNOWN_REFERENCE"

	// KindCountMismatch: a trace has the wrong number of offers or acceptances.
	KindCountMismatch Kind = "COUNT_MISMATCH"
)

// Category groups violation kinds.
type Category string

const (
	CategoryStructural Category = "structural"
	CategorySemantic   Category = "semantic"
	CategoryProtocol   Category = "protocol"
)

// Category returns the group k belongs to.
func (k Kind) Category() Category {
	switch k {
	case KindUnstable, KindIncompletePreferences:
		return CategorySemantic
	case KindOutOfOrder, KindUnknownReference, KindCountMismatch:
		return CategoryProtocol
	default:
		return CategoryStructural
	}
}

// Kinds lists every violation kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCardinality,
		KindDoubleBooking,
		KindMissingCoverage,
		KindIndexOutOfRange,
		KindMalformedRecord,
		KindUnstable,
		KindIncompletePreferences,
		KindOutOfOrder,
		KindUnknownReference,
		KindCountMismatch,
	}
}

// ParseKind converts a kind code back into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown violation kind %q", s)
}

// Violation is returned when a solver breaks a checked property.
//
// Trial is the zero-based trial index, or -1 when the check ran outside a
// trial loop (for example against a case file).
type Violation struct {
	Kind        Kind
	Message     string
	Trial       int
	Fingerprint string
	Details     map[string]string
}

// Error implements the error interface.
func (v *Violation) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s", v.Kind, v.Message)

	var ctx []string
	if v.Trial >= 0 {
		ctx = append(ctx, fmt.Sprintf("trial=%d", v.Trial))
	}
	if v.Fingerprint != "" {
		ctx = append(ctx, fmt.Sprintf("instance=%s", canon.Short(v.Fingerprint)))
	}
	if len(v.Details) > 0 {
		keys := make([]string, 0, len(v.Details))
		for k := range v.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			ctx = append(ctx, fmt.Sprintf("%s=%s", k, v.Details[k]))
		}
	}
	if len(ctx) > 0 {
		fmt.Fprintf(&buf, " (%s)", strings.Join(ctx, ", "))
	}
	return buf.String()
}

// newViolation builds a violation outside any trial. details is a flat list
// of key/value pairs.
func newViolation(kind Kind, message string, details ...any) *Violation {
	v := &Violation{Kind: kind, Message: message, Trial: -1}
	if len(details) > 0 {
		v.Details = make(map[string]string, len(details)/2)
		for i := 0; i+1 < len(details); i += 2 {
			v.Details[fmt.Sprint(details[i])] = fmt.Sprint(details[i+1])
		}
	}
	return v
}

// NewMalformedRecord reports a record that failed shape validation at a
// decoding boundary.
func NewMalformedRecord(message string, details ...any) *Violation {
	return newViolation(KindMalformedRecord, message, details...)
}

// KindOf returns the violation kind carried by err, or "" if err is not a
// violation. Uses errors.As so wrapped violations are found.
func KindOf(err error) Kind {
	var v *Violation
	if errors.As(err, &v) {
		return v.Kind
	}
	return ""
}

// IsViolation reports whether err carries a violation of the given kind.
func IsViolation(err error, kind Kind) bool {
	return KindOf(err) == kind
}
