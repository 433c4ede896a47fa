package casefile

import (
	"fmt"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
)

// Result is the outcome of checking one case.
type Result struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Mode     Mode   `json:"mode"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Pass     bool   `json:"pass"`

	// Err is the violation the oracle reported, if any.
	Err error `json:"-"`
}

// Message describes a failed result, or the violation behind a passing
// result that expected one.
func (r Result) Message() string {
	switch {
	case r.Pass && r.Err == nil:
		return ""
	case r.Pass:
		return r.Err.Error()
	case r.Err == nil:
		return fmt.Sprintf("expected %s, but the case passed", r.Expected)
	default:
		return fmt.Sprintf("expected %s, got %v", r.Expected, r.Err)
	}
}

// Check runs the oracle selected by c.Mode on the recorded output and
// compares the outcome with c.Expect.
func Check(c *Case) Result {
	err := Validate(c)

	actual := ExpectPass
	if err != nil {
		actual = string(oracle.KindOf(err))
	}

	return Result{
		Name:     c.Name,
		Path:     c.Path,
		Mode:     c.Mode,
		Expected: c.Expect,
		Actual:   actual,
		Pass:     actual == c.Expect,
		Err:      err,
	}
}

// Validate returns the violation the recorded output causes, or nil.
func Validate(c *Case) error {
	if c.Malformed != nil {
		return c.Malformed
	}
	switch c.Mode {
	case ModeTrace:
		return oracle.CheckTrace(c.Instance, market.TracedResult{Trace: c.Trace, Out: c.Hires})
	default:
		return oracle.CheckMatching(c.Instance, c.Hires)
	}
}
