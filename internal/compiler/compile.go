package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/ian97531/origin/internal/ir"
)

// CompileClass parses a CUE value into a ClassSpec.
//
// The CUE value should be the class struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`class: Widget: { ... }`)
//	spec, err := CompileClass(v.LookupPath(cue.ParsePath("class.Widget")))
func CompileClass(v cue.Value) (*ir.ClassSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &ir.ClassSpec{}
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		spec.Name = labels[len(labels)-1].String()
	}

	var err error
	if spec.Parent, err = optionalString(v, "parent"); err != nil {
		return nil, err
	}
	if spec.Initializer, err = optionalString(v, "initializer"); err != nil {
		return nil, err
	}
	if spec.Properties, err = parseData(v, "properties"); err != nil {
		return nil, err
	}
	if spec.ClassProperties, err = parseData(v, "class_properties"); err != nil {
		return nil, err
	}
	if spec.Methods, err = parseMethods(v); err != nil {
		return nil, err
	}
	return spec, nil
}

// CompileAll compiles every declaration under the top-level "class" field
// of root, in CUE field order.
func CompileAll(root cue.Value) ([]ir.ClassSpec, error) {
	classes := root.LookupPath(cue.ParsePath("class"))
	if !classes.Exists() {
		return nil, nil
	}
	iter, err := classes.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var specs []ir.ClassSpec
	for iter.Next() {
		spec, err := CompileClass(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("class.%s: %w", iter.Label(), err)
		}
		specs = append(specs, *spec)
	}
	return specs, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", &CompileError{Field: field, Message: "must be a string", Pos: fv.Pos()}
	}
	return s, nil
}

func parseMethods(v cue.Value) (map[string]string, error) {
	mv := v.LookupPath(cue.ParsePath("methods"))
	if !mv.Exists() {
		return nil, nil
	}
	iter, err := mv.Fields()
	if err != nil {
		return nil, &CompileError{Field: "methods", Message: "must be a struct", Pos: mv.Pos()}
	}
	methods := make(map[string]string)
	for iter.Next() {
		name := iter.Label()
		ref, err := iter.Value().String()
		if err != nil {
			return nil, &CompileError{
				Field:   "methods." + name,
				Message: "behavior reference must be a string",
				Pos:     iter.Value().Pos(),
			}
		}
		methods[name] = ref
	}
	return methods, nil
}

func parseData(v cue.Value, field string) (map[string]any, error) {
	dv := v.LookupPath(cue.ParsePath(field))
	if !dv.Exists() {
		return nil, nil
	}
	if dv.IncompleteKind() != cue.StructKind {
		return nil, &CompileError{Field: field, Message: "must be a struct", Pos: dv.Pos()}
	}
	out, err := decodeValue(dv, field)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// decodeValue converts concrete CUE data into the ir value domain. Floats
// come back as float64 so Validate can report them with E104.
func decodeValue(v cue.Value, path string) (any, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	switch v.IncompleteKind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, incomplete(path, v)
		}
		return b, nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, incomplete(path, v)
		}
		return s, nil
	case cue.IntKind:
		n, err := v.Int64()
		if err != nil {
			return nil, incomplete(path, v)
		}
		return n, nil
	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, incomplete(path, v)
		}
		return f, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := []any{}
		for i := 0; iter.Next(); i++ {
			e, err := decodeValue(iter.Value(), fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, e)
		}
		return out, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		out := make(map[string]any)
		for iter.Next() {
			e, err := decodeValue(iter.Value(), path+"."+iter.Label())
			if err != nil {
				return nil, err
			}
			out[iter.Label()] = e
		}
		return out, nil
	default:
		return nil, &CompileError{
			Field:   path,
			Message: fmt.Sprintf("unsupported value kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

func incomplete(path string, v cue.Value) error {
	return &CompileError{Field: path, Message: "value must be concrete", Pos: v.Pos()}
}

// CompileError is a parse-time error with a CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
