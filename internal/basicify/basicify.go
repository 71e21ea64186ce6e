// Package basicify numbers an intermediate REM/GOTO/IF-THEN listing into a
// runnable BASIC program: every line gets a strictly increasing multiple of
// 10, and every label reference is resolved to the line number of the
// `REM <label>` line that defines it.
//
// Grounded on the reference emitter's basicify.py two-pass numbering, with
// one deliberate divergence: the reference is lenient about unresolved
// labels (it leaves the raw label text in place rather than erroring).
// splc treats an unresolved label as a fatal EmitterError, per spec.md §4.6
// item 3 ("unresolved labels... are fatal and surface as emitter
// diagnostics").
package basicify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"splc/internal/report"
)

const (
	startLine = 10
	step      = 10
)

var (
	labelDefRe = regexp.MustCompile(`^REM\s+([A-Za-z]+[0-9]+)\s*$`)
	jumpRe     = regexp.MustCompile(`\b(GOTO|THEN)\s+([A-Za-z]+[0-9]+)\b`)
)

// Numbered is one line of the resolved BASIC listing.
type Numbered struct {
	Line int
	Text string
}

// Emit runs both numbering passes over intermediate, the line stream
// codegen.Generate produced. Blank lines are skipped entirely — they never
// appear in codegen output, but a defensive skip costs nothing.
func Emit(intermediate []string) ([]Numbered, error) {
	numbered, labels, err := numberLines(intermediate)
	if err != nil {
		return nil, err
	}
	if err := resolveLabels(numbered, labels); err != nil {
		return nil, err
	}
	return numbered, nil
}

// Render turns a resolved listing into the on-disk BASIC text form: each
// line is its number, a single space, then the statement.
func Render(numbered []Numbered) string {
	var b strings.Builder
	for _, n := range numbered {
		fmt.Fprintf(&b, "%d %s\n", n.Line, n.Text)
	}
	return b.String()
}

func numberLines(intermediate []string) ([]Numbered, map[string]int, error) {
	labels := map[string]int{}
	numbered := make([]Numbered, 0, len(intermediate))
	line := startLine
	for _, raw := range intermediate {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if m := labelDefRe.FindStringSubmatch(text); m != nil {
			label := m[1]
			if _, exists := labels[label]; exists {
				return nil, nil, report.NewFatal(report.KindEmitterError, 0, 0, "duplicate REM label '%s'", label)
			}
			labels[label] = line
		}
		numbered = append(numbered, Numbered{Line: line, Text: text})
		line += step
	}
	return numbered, labels, nil
}

func resolveLabels(numbered []Numbered, labels map[string]int) error {
	for i, n := range numbered {
		var resolveErr error
		rewritten := jumpRe.ReplaceAllStringFunc(n.Text, func(match string) string {
			parts := jumpRe.FindStringSubmatch(match)
			keyword, label := parts[1], parts[2]
			target, ok := labels[label]
			if !ok {
				resolveErr = report.NewFatal(report.KindEmitterError, 0, 0, "unresolved label '%s' referenced by %s", label, keyword)
				return match
			}
			return keyword + " " + strconv.Itoa(target)
		})
		if resolveErr != nil {
			return resolveErr
		}
		numbered[i].Text = rewritten
	}
	return nil
}
