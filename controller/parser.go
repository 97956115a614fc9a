package controller

import (
	"fmt"
	"strings"

	"fgplot/models"
)

// Parser turns one raw telemetry line into a Record.
type Parser struct {
	fields     models.FieldSpec
	transforms map[string]models.Transform
}

// NewParser builds a parser for fields. transforms may be nil.
func NewParser(fields models.FieldSpec, transforms map[string]models.Transform) *Parser {
	return &Parser{fields: fields, transforms: transforms}
}

// Parse accepts raw only if it holds exactly one newline-terminated line of
// len(fields) comma-separated values. Rejections wrap ErrMalformedInput.
func (p *Parser) Parse(raw string) (models.Record, error) {
	if n := strings.Count(raw, "\n"); n != 1 {
		return nil, fmt.Errorf("%w: expected one line, got %d line terminators", ErrMalformedInput, n)
	}
	text, ok := strings.CutSuffix(raw, "\n")
	if !ok {
		return nil, fmt.Errorf("%w: data after line terminator", ErrMalformedInput)
	}
	text = strings.TrimSuffix(text, "\r")

	vals := strings.Split(text, ",")
	if len(vals) != len(p.fields) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrMalformedInput, len(p.fields), len(vals))
	}

	rec := make(models.Record, len(p.fields))
	for i, f := range p.fields {
		v := vals[i]
		if t, ok := p.transforms[f]; ok {
			var err error
			if v, err = t(v); err != nil {
				return nil, fmt.Errorf("%w: field %s: %v", ErrMalformedInput, f, err)
			}
		}
		rec[f] = v
	}
	return rec, nil
}
