package casefile

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
)

//go:embed schema.cue
var schemaSource []byte

// A cue.Context is not safe for concurrent use; schemaMu serializes
// validation.
var (
	schemaMu    sync.Mutex
	schemaOnce  sync.Once
	schemaCtx   *cue.Context
	schemaValue cue.Value
)

func loadSchema() (*cue.Context, cue.Value) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		schemaValue = schemaCtx.CompileBytes(schemaSource, cue.Filename("schema.cue"))
		if err := schemaValue.Err(); err != nil {
			panic(fmt.Sprintf("casefile: embedded schema does not compile: %v", err))
		}
	})
	return schemaCtx, schemaValue
}

// recordFields are the document fields whose entries are solver records.
var recordFields = map[string]bool{"hires": true, "trace": true}

// validate unifies doc with the #Case definition and decodes its records.
//
// A schema failure inside a record is returned as a MALFORMED_RECORD
// *oracle.Violation; any other failure is a *schemaError.
func validate(doc document) (market.Matching, market.Trace, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()

	ctx, schema := loadSchema()

	filled := schema.FillPath(cue.ParsePath("case"), ctx.Encode(doc))
	if err := filled.Validate(cue.Concrete(true)); err != nil {
		return nil, nil, classify(err)
	}

	caseVal := filled.LookupPath(cue.ParsePath("case"))

	var hires market.Matching
	if v := caseVal.LookupPath(cue.ParsePath("hires")); v.Exists() {
		if err := v.Decode(&hires); err != nil {
			return nil, nil, oracle.NewMalformedRecord(fmt.Sprintf("hires: %v", err), "field", "hires")
		}
	}

	var trace market.Trace
	if v := caseVal.LookupPath(cue.ParsePath("trace")); v.Exists() {
		if err := v.Decode(&trace); err != nil {
			return nil, nil, oracle.NewMalformedRecord(fmt.Sprintf("trace: %v", err), "field", "trace")
		}
	}

	return hires, trace, nil
}

// schemaError is a case-level schema failure.
type schemaError struct {
	path    []string
	message string
}

func (e *schemaError) Error() string {
	return e.message
}

// classify turns the first CUE error into a violation or a schemaError.
func classify(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &schemaError{message: err.Error()}
	}

	first := errs[0]
	path := first.Path()
	if len(path) > 0 && path[0] == "case" {
		path = path[1:]
	}
	format, args := first.Msg()
	message := fmt.Sprintf(format, args...)

	if len(path) > 0 && recordFields[path[0]] {
		record := strings.Join(path, ".")
		return oracle.NewMalformedRecord(
			fmt.Sprintf("record %s: %s", record, message),
			"record", record)
	}
	return &schemaError{path: path, message: message}
}

// fieldOf names the document field a load error refers to.
func fieldOf(err error) string {
	var se *schemaError
	if errors.As(err, &se) && len(se.path) > 0 {
		return strings.Join(se.path, ".")
	}
	return ""
}
