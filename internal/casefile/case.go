package casefile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/smoracle/internal/market"
	"github.com/roach88/smoracle/internal/oracle"
)

// Mode selects which oracle a case is checked with.
type Mode string

const (
	ModeMatching Mode = "matching"
	ModeTrace    Mode = "trace"
)

// ExpectPass is the expect value for a case that must validate cleanly.
const ExpectPass = "pass"

// Case is one recorded solver output.
type Case struct {
	// Name identifies the case in reports.
	Name string

	// Description explains what the case pins down.
	Description string

	// Mode is ModeMatching or ModeTrace.
	Mode Mode

	// Instance is the fixed preference profile.
	Instance market.Instance

	// Hires is the solver's matching. In trace mode it is the traced
	// solver's output.
	Hires market.Matching

	// Trace holds the protocol events. Only used in trace mode.
	Trace market.Trace

	// Expect is ExpectPass or a violation kind.
	Expect string

	// Path is the file the case was loaded from.
	Path string

	// Malformed is set when a hire or trace record failed the shape schema.
	// Hires and Trace are empty in that case.
	Malformed *oracle.Violation
}

// document is the strict YAML shape of a case file. Records stay untyped
// here so their shape is judged by the CUE schema.
type document struct {
	Name        string           `yaml:"name" json:"name,omitempty"`
	Description string           `yaml:"description" json:"description,omitempty"`
	Mode        string           `yaml:"mode" json:"mode,omitempty"`
	Companies   [][]int          `yaml:"companies" json:"companies,omitempty"`
	Candidates  [][]int          `yaml:"candidates" json:"candidates,omitempty"`
	Hires       []map[string]any `yaml:"hires" json:"hires,omitempty"`
	Trace       []map[string]any `yaml:"trace" json:"trace,omitempty"`
	Expect      string           `yaml:"expect" json:"expect,omitempty"`
}

// LoadError reports a case file that could not be read or decoded.
type LoadError struct {
	Path    string
	Field   string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads and validates a case file.
//
// Returns a *LoadError if the file is missing, is not valid YAML, contains
// unknown fields or fails the case-level schema. Record-level shape failures
// are not errors: the case is returned with Malformed set.
func Load(path string) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read case file", Err: err}
	}
	return Parse(path, data)
}

// Parse decodes a case file held in memory. path is used for error messages
// only.
func Parse(path string, data []byte) (*Case, error) {
	var doc document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, &LoadError{Path: path, Message: fmt.Sprintf("failed to parse YAML: %v", err), Err: err}
	}

	c := &Case{
		Name:        doc.Name,
		Description: doc.Description,
		Mode:        Mode(doc.Mode),
		Instance:    market.Instance{Companies: toSide(doc.Companies), Candidates: toSide(doc.Candidates)},
		Expect:      doc.Expect,
		Path:        path,
	}

	hires, trace, err := validate(doc)
	if err != nil {
		var v *oracle.Violation
		if errors.As(err, &v) {
			c.Malformed = v
		} else {
			return nil, &LoadError{Path: path, Field: fieldOf(err), Message: err.Error(), Err: err}
		}
	}
	c.Hires = hires
	c.Trace = trace

	if c.Expect != ExpectPass {
		if _, err := oracle.ParseKind(c.Expect); err != nil {
			return nil, &LoadError{Path: path, Field: "expect", Message: err.Error(), Err: err}
		}
	}

	return c, nil
}

func toSide(lists [][]int) market.Side {
	if lists == nil {
		return nil
	}
	side := make(market.Side, len(lists))
	for i, l := range lists {
		side[i] = market.PreferenceList(l)
	}
	return side
}

// LoadDir loads every .yaml and .yml file under dir, sorted by path.
//
// filter is an optional glob matched against the file name without its
// extension. A file that fails to load aborts the whole load.
func LoadDir(dir, filter string) ([]*Case, error) {
	paths, err := FindFiles(dir, filter)
	if err != nil {
		return nil, err
	}
	cases := make([]*Case, 0, len(paths))
	for _, p := range paths {
		c, err := Load(p)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// FindFiles returns the case files under dir matching filter, sorted.
func FindFiles(dir, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
