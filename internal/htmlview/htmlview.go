// Package htmlview renders the unnumbered intermediate listing as a linked
// HTML page for the `--html` driver flag: every `REM <label>` line becomes
// an anchor, and every `GOTO <label>`/`THEN <label>` becomes a link to it.
// Grounded on the reference compiler's ic_html.py, same regexes and same
// anchor/link shape, escaping each line with html.EscapeString.
package htmlview

import (
	"html"
	"regexp"
	"strings"
)

var (
	labelRe = regexp.MustCompile(`^REM\s+([A-Za-z]+[0-9]+)\s*$`)
	gotoRe  = regexp.MustCompile(`\bGOTO\s+([A-Za-z]+[0-9]+)\b`)
	thenRe  = regexp.MustCompile(`\bTHEN\s+([A-Za-z]+[0-9]+)\b`)
)

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<title>Intermediate Code</title>
<style>
  body { font: 14px/1.4 system-ui, sans-serif; margin: 24px; }
  ol { padding-left: 2em; }
  code { white-space: pre; }
  .hint { color:#666; margin-bottom:8px; }
</style>
</head>
<body>
  <h1>Intermediate Code</h1>
  <p class="hint">Labels appear as <code>REM Lx</code>; jumps link to those labels.</p>
  <ol>
    %s
  </ol>
</body>
</html>
`

// Render turns the intermediate listing into a self-contained HTML document.
func Render(lines []string) string {
	var items strings.Builder
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		linked := linkLabels(html.EscapeString(trimmed))

		if m := labelRe.FindStringSubmatch(trimmed); m != nil {
			linked = `<a id="` + m[1] + `"></a>` + linked
		}

		items.WriteString("<li><code>")
		items.WriteString(linked)
		items.WriteString("</code></li>")
	}
	return strings.Replace(pageTemplate, "%s", items.String(), 1)
}

func linkLabels(line string) string {
	line = gotoRe.ReplaceAllString(line, `GOTO <a href="#$1">$1</a>`)
	line = thenRe.ReplaceAllString(line, `THEN <a href="#$1">$1</a>`)
	return line
}
