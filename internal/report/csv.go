package report

import (
	"strconv"
	"strings"
)

// Render flattens a result into tab separated lines:
//
//	key	value
//	key	value	project
//	<tab>sum	sum
//
// The sum line is left out when the sum is zero. There is no trailing
// newline.
func Render(res Result) string {
	var lines []string
	for _, e := range res.Entries {
		if e.Projects == nil {
			lines = append(lines, e.Key+"\t"+formatValue(e.Value))
			continue
		}
		for _, p := range e.Projects {
			lines = append(lines, e.Key+"\t"+formatValue(p.Value)+"\t"+p.Project)
		}
	}
	if res.Sum != 0 {
		lines = append(lines, "\t"+formatValue(res.Sum)+"\tsum")
	}
	return strings.Join(lines, "\n")
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
