// Package report defines the diagnostic model shared by every compiler pass.
package report

import (
	"fmt"
	"strings"
)

// Kind enumerates the closed set of diagnostic categories a pass can raise.
type Kind string

const (
	KindDuplicateName      Kind = "DuplicateName"
	KindCrossCategoryClash Kind = "CrossCategoryClash"
	KindParamShadowed      Kind = "LocalShadowsParam"
	KindUndeclaredVariable Kind = "UndeclaredVariable"
	KindTypeError          Kind = "TypeError"
	KindSyntaxError        Kind = "SyntaxError"
	KindLexicalError       Kind = "LexicalError"
	KindEmitterError       Kind = "EmitterError"
	KindRecursiveInline    Kind = "RecursiveInline"
)

// Diagnostic is the single value type every pass produces instead of
// panicking or returning an opaque error. NodeID is 0 when the diagnostic
// predates node_id assignment (lexical errors).
type Diagnostic struct {
	Kind      Kind
	Message   string
	NodeID    int
	ScopePath string
	Line      int
	Col       int
}

// String renders "<Kind>: <message> (line:col[, node #<id>][, scope <path>])"
// per the external diagnostic format. Line is 0 for diagnostics that postdate
// node_id assignment (scope/type errors), which carry a NodeID instead.
func (d Diagnostic) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", d.Kind, d.Message)

	var parts []string
	if d.Line > 0 {
		parts = append(parts, fmt.Sprintf("%d:%d", d.Line, d.Col))
	}
	if d.NodeID > 0 {
		parts = append(parts, fmt.Sprintf("node #%d", d.NodeID))
	}
	if d.ScopePath != "" {
		parts = append(parts, fmt.Sprintf("scope %s", d.ScopePath))
	}
	if len(parts) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	return b.String()
}

// Bag accumulates diagnostics across a pass that never aborts early. Static
// semantic passes (scope, type) always run to completion and report through
// a Bag; lexical/syntax/codegen/emitter errors are fatal and use FatalError
// instead.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

func (b *Bag) Addf(kind Kind, nodeID int, scopePath string, format string, args ...any) {
	b.Add(Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), NodeID: nodeID, ScopePath: scopePath})
}

func (b *Bag) Items() []Diagnostic {
	return b.items
}

func (b *Bag) Empty() bool {
	return len(b.items) == 0
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Lines renders every diagnostic, one per line, in accumulation order.
func (b *Bag) Lines() []string {
	out := make([]string, 0, len(b.items))
	for _, d := range b.items {
		out = append(out, d.String())
	}
	return out
}
