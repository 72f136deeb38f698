// Package checker walks the module-level statements of a Python program and
// rejects assignments whose value type does not fit the variable's
// established type.
//
// A Checker is single-owner state; use one per source being checked.
package checker

import (
	"io"
	"log"
	"sort"

	"github.com/ztrue/tracerr"

	"github.com/brodycritchlow/serpentine/ast"
	"github.com/brodycritchlow/serpentine/errors"
	"github.com/brodycritchlow/serpentine/parser"
	"github.com/brodycritchlow/serpentine/pytype"
)

type Settings struct {
	// ImplicitChecking enforces type stability for every variable, not
	// only the explicitly annotated ones.
	ImplicitChecking bool
	// Log receives one line per decision when set.
	Log *log.Logger
}

type Checker struct {
	assigned map[string]pytype.Type
	explicit map[string]struct{}
	settings Settings
}

func New(s Settings) *Checker {
	return &Checker{
		assigned: make(map[string]pytype.Type),
		explicit: make(map[string]struct{}),
		settings: s,
	}
}

func (c *Checker) logf(format string, args ...interface{}) {
	if c.settings.Log != nil {
		c.settings.Log.Printf(format, args...)
	}
}

// AnalyzeSource parses r and checks the result. A source that does not
// parse yields errors.ParseError and leaves the bindings untouched.
func (c *Checker) AnalyzeSource(r io.Reader, filename string) error {
	prog, err := parser.ParseSource(r, filename)
	if err != nil {
		return errors.ParseError{
			Diagnostic: tracerr.Unwrap(err).Error(),
			Cause:      err,
		}
	}
	return c.Analyze(prog)
}

// Analyze checks statements in order and stops at the first error.
// Bindings made before the failing statement are kept.
func (c *Checker) Analyze(prog ast.Program) error {
	for _, stmt := range prog.Statements {
		if err := c.Check(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Check processes a single statement. Only assignments are considered.
func (c *Checker) Check(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case ast.TypedAssignment:
		return c.typedAssignment(s)
	case ast.Assignment:
		return c.untypedAssignment(s)
	}
	return nil
}

func (c *Checker) VariableType(name string) (pytype.Type, bool) {
	t, ok := c.assigned[name]
	return t, ok
}

// Variables returns a copy of the current name to type mapping.
func (c *Checker) Variables() map[string]pytype.Type {
	ret := make(map[string]pytype.Type, len(c.assigned))
	for k, v := range c.assigned {
		ret[k] = v
	}
	return ret
}

func (c *Checker) Names() []string {
	names := make([]string, 0, len(c.assigned))
	for name := range c.assigned {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Checker) enforcedType(name string) (pytype.Type, bool) {
	if _, ok := c.explicit[name]; !ok && !c.settings.ImplicitChecking {
		return 0, false
	}
	t, ok := c.assigned[name]
	return t, ok
}

func annotationType(s ast.TypedAssignment) (pytype.Type, error) {
	name, ok := s.Annotation.(ast.Name)
	if !ok {
		text := s.AnnotationText
		if text == "" {
			text = ast.Format(s.Annotation)
		}
		return 0, errors.UnsupportedAnnotation{Annotation: text}
	}

	t, ok := pytype.Parse(name.Ident)
	if !ok {
		return 0, errors.UnknownType{Name: name.Ident}
	}
	return t, nil
}

func (c *Checker) typedAssignment(s ast.TypedAssignment) error {
	expected, err := annotationType(s)
	if err != nil {
		c.logf("%s: rejected annotation: %s", s.Pos.From, err)
		return err
	}

	if len(s.Values) > 0 && len(s.Targets) > 0 {
		value := s.Values[0]
		actual, inferred := Infer(value)
		name, isName := s.Targets[0].(ast.Name)

		if inferred && isName && !pytype.IsAssignable(actual, expected) {
			c.logf("%s: %s declared %s but assigned %s", s.Pos.From, name.Ident, expected, actual)
			return errors.TypeMismatch{
				Variable: name.Ident,
				Expected: expected,
				Actual:   actual,
				Literal:  LiteralValue(value),
			}
		}
	}

	for _, target := range s.Targets {
		name, ok := target.(ast.Name)
		if !ok {
			continue
		}
		c.assigned[name.Ident] = expected
		c.explicit[name.Ident] = struct{}{}
		c.logf("%s: %s declared %s", s.Pos.From, name.Ident, expected)
	}

	return nil
}

func (c *Checker) untypedAssignment(s ast.Assignment) error {
	if len(s.Values) == 0 {
		return nil
	}
	last := s.Values[len(s.Values)-1]
	if len(last) == 0 {
		return nil
	}

	value := last[0]
	inferred, ok := Infer(value)
	if !ok {
		c.logf("%s: skipped, no type for %s", s.Pos.From, ast.Format(value))
		return nil
	}

	for _, target := range s.Targets {
		name, ok := target.(ast.Name)
		if !ok {
			continue
		}

		existing, enforced := c.enforcedType(name.Ident)
		if !enforced {
			c.assigned[name.Ident] = inferred
			c.logf("%s: %s inferred %s", s.Pos.From, name.Ident, inferred)
			continue
		}

		if !pytype.IsAssignable(inferred, existing) {
			c.logf("%s: %s is %s but assigned %s", s.Pos.From, name.Ident, existing, inferred)
			return errors.TypeMismatch{
				Variable: name.Ident,
				Expected: existing,
				Actual:   inferred,
				Literal:  LiteralValue(value),
			}
		}
		c.logf("%s: %s keeps %s", s.Pos.From, name.Ident, existing)
	}

	return nil
}
