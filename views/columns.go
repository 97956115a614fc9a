package views

import (
	"fmt"
	"strconv"
	"strings"

	"fgplot/models"
)

// Selector turns field names into a gnuplot "using" selector over the data
// file, whose columns follow the FieldSpec (1-based). With fields
// [lat lon alt gnd], columns [lat lon gnd] give "1:2:4".
func Selector(fields models.FieldSpec, columns []string) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("selector: no columns")
	}
	idx := make([]string, len(columns))
	for i, c := range columns {
		n := fields.Index(c)
		if n < 0 {
			return "", fmt.Errorf("selector: %q is not one of the recorded fields", c)
		}
		idx[i] = strconv.Itoa(n + 1)
	}
	return strings.Join(idx, ":"), nil
}
