// Package tfschema is a fixture consumer of package decode: a small
// Terraform-flavored root-module schema (variable/output blocks, mirroring
// Yunsang-Jeong-terraform-config-parser's pkg/parser/schema), rebuilt on
// this module's capability-based visitor protocol instead of hclsyntax
// attribute lookups. It exists to exercise decode end-to-end against a
// realistic, labeled, repeated-block schema rather than as a general
// Terraform parser.
package tfschema

import (
	"fmt"

	"github.com/eldrevo/hclcore/ast"
	"github.com/eldrevo/hclcore/decode"
)

// Config is a root module body: zero or more "variable" and "output"
// blocks. Unknown top-level block types are ignored rather than
// rejected, since a real root module also carries resource/provider/etc.
// blocks this fixture does not model.
type Config struct {
	Variables []*Variable
	Outputs   []*Output
}

var _ decode.BlockVisitor = (*Config)(nil)

// KnownFields declares an open schema: VisitBlock only ever sees the two
// names listed here, but anything else in the body is silently skipped
// rather than failing UnknownField.
func (c *Config) KnownFields() (names []string, closed bool) {
	return []string{"variable", "output"}, false
}

func (c *Config) VisitBlock(name string, labels []string, body *ast.Body) error {
	switch name {
	case "variable":
		v := &Variable{}
		if err := v.parse(labels, body); err != nil {
			return err
		}
		c.Variables = append(c.Variables, v)
	case "output":
		o := &Output{}
		if err := o.parse(labels, body); err != nil {
			return err
		}
		c.Outputs = append(c.Outputs, o)
	}
	return nil
}

// Variable mirrors schema.Variable: one label (its name), a handful of
// scalar attributes, and zero or more nested "validation" blocks.
// Required is derived the same way the teacher does — true whenever no
// "default" attribute is present — rather than declared explicitly.
type Variable struct {
	Name        string
	Description string
	Type        string
	Default     ast.Expression
	Required    bool
	Sensitive   bool
	Validations []*Validation
}

var (
	_ decode.Schema           = (*Variable)(nil)
	_ decode.AttributeVisitor = (*Variable)(nil)
	_ decode.BlockVisitor     = (*Variable)(nil)
)

func (v *Variable) KnownFields() (names []string, closed bool) {
	return []string{"description", "type", "default", "sensitive", "validation"}, true
}

func (v *Variable) VisitAttribute(name string, expr ast.Expression) error {
	switch name {
	case "description":
		s, err := literalString(expr)
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		v.Description = s
	case "type":
		s, err := literalString(expr)
		if err != nil {
			return fmt.Errorf("type: %w", err)
		}
		v.Type = s
	case "default":
		v.Default = expr
	case "sensitive":
		b, err := literalBool(expr)
		if err != nil {
			return fmt.Errorf("sensitive: %w", err)
		}
		v.Sensitive = b
	}
	return nil
}

func (v *Variable) VisitBlock(name string, labels []string, body *ast.Body) error {
	if name != "validation" {
		return nil
	}
	vv := &Validation{}
	if err := decode.Body(body, vv); err != nil {
		return fmt.Errorf("validation: %w", err)
	}
	v.Validations = append(v.Validations, vv)
	return nil
}

func (v *Variable) parse(labels []string, body *ast.Body) error {
	if len(labels) != 1 {
		return fmt.Errorf("variable block must have one label, got %d", len(labels))
	}
	v.Name = labels[0]
	v.Required = true
	if err := decode.Body(body, v); err != nil {
		return fmt.Errorf("variable %q: %w", v.Name, err)
	}
	if v.Default != nil {
		v.Required = false
	}
	return nil
}

// Validation mirrors schema.VariableValidation: both fields are
// mandatory, matching the teacher's MissingField-by-hand checks.
type Validation struct {
	Condition    string
	ErrorMessage string
}

var (
	_ decode.Schema           = (*Validation)(nil)
	_ decode.RequiredSchema   = (*Validation)(nil)
	_ decode.AttributeVisitor = (*Validation)(nil)
)

func (v *Validation) KnownFields() (names []string, closed bool) {
	return []string{"condition", "error_message"}, true
}

func (v *Validation) RequiredFields() []string {
	return []string{"condition", "error_message"}
}

func (v *Validation) VisitAttribute(name string, expr ast.Expression) error {
	s, err := literalString(expr)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	switch name {
	case "condition":
		v.Condition = s
	case "error_message":
		v.ErrorMessage = s
	}
	return nil
}

// Output mirrors schema.Output.
type Output struct {
	Name        string
	Description string
	Sensitive   bool
}

var (
	_ decode.Schema           = (*Output)(nil)
	_ decode.AttributeVisitor = (*Output)(nil)
)

func (o *Output) KnownFields() (names []string, closed bool) {
	return []string{"description", "sensitive", "value"}, false
}

func (o *Output) VisitAttribute(name string, expr ast.Expression) error {
	switch name {
	case "description":
		s, err := literalString(expr)
		if err != nil {
			return fmt.Errorf("description: %w", err)
		}
		o.Description = s
	case "sensitive":
		b, err := literalBool(expr)
		if err != nil {
			return fmt.Errorf("sensitive: %w", err)
		}
		o.Sensitive = b
	}
	return nil
}

func (o *Output) parse(labels []string, body *ast.Body) error {
	if len(labels) != 1 {
		return fmt.Errorf("output block must have one label, got %d", len(labels))
	}
	o.Name = labels[0]
	if err := decode.Body(body, o); err != nil {
		return fmt.Errorf("output %q: %w", o.Name, err)
	}
	return nil
}

func literalString(e ast.Expression) (string, error) {
	v, err := ast.ExprToValue(e)
	if err != nil {
		return "", err
	}
	s, ok := v.Str()
	if !ok {
		return "", fmt.Errorf("expected a string literal, got %s", v.Kind())
	}
	return s, nil
}

func literalBool(e ast.Expression) (bool, error) {
	v, err := ast.ExprToValue(e)
	if err != nil {
		return false, err
	}
	b, ok := v.Bool()
	if !ok {
		return false, fmt.Errorf("expected a bool literal, got %s", v.Kind())
	}
	return b, nil
}
