package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Transform post-processes one field value after a line has been split.
// An error rejects the whole line.
type Transform func(string) (string, error)

// Round reformats a numeric value with prec digits after the point.
func Round(prec int) Transform {
	return func(v string) (string, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return "", fmt.Errorf("round: %q is not a number", v)
		}
		return ftoa(f, prec), nil
	}
}

// Trim strips surrounding whitespace.
func Trim(v string) (string, error) {
	return strings.TrimSpace(v), nil
}

// ParseTransform resolves a transform name as written in the config:
//
//	round:N   numeric value rounded to N decimals
//	trim      surrounding whitespace removed
//	none      value kept as is
func ParseTransform(spec string) (Transform, error) {
	name, arg, hasArg := strings.Cut(strings.TrimSpace(spec), ":")
	switch name {
	case "round":
		if !hasArg {
			return nil, fmt.Errorf("transform %q: round needs a precision, e.g. round:1", spec)
		}
		prec, err := strconv.Atoi(arg)
		if err != nil || prec < 0 {
			return nil, fmt.Errorf("transform %q: bad precision %q", spec, arg)
		}
		return Round(prec), nil
	case "trim":
		return Trim, nil
	case "none", "":
		return func(v string) (string, error) { return v, nil }, nil
	}
	return nil, fmt.Errorf("unknown transform %q", spec)
}
