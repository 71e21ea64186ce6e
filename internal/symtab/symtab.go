// Package symtab implements the scope tree: Everywhere at the root, with
// Global, Procedure, Function, and Main as its fixed children, plus one
// Local scope per procedure/function definition. Symbol table entries
// reference AST declarations by decl_node_id (an integer), never by AST
// pointer, so the AST and the symbol table never reference each other
// cyclically — the AST owns AST nodes, the symbol table owns entries, and
// cross-references are by id only.
package symtab

import "fmt"

// ScopeKind is the closed set of scope roles in the tree.
type ScopeKind string

const (
	Everywhere ScopeKind = "Everywhere"
	Global     ScopeKind = "Global"
	Procedure  ScopeKind = "Procedure"
	Function   ScopeKind = "Function"
	MainScope  ScopeKind = "Main"
	Local      ScopeKind = "Local"
)

// EntryKind is the closed set of name roles a scope can hold.
type EntryKind string

const (
	KindVar   EntryKind = "var"
	KindParam EntryKind = "param"
	KindProc  EntryKind = "proc"
	KindFunc  EntryKind = "func"
)

// Entry is one declared name within a scope.
type Entry struct {
	Name       string
	Kind       EntryKind
	ScopeID    int
	DeclNodeID int
}

// Scope is one node of the scope tree. Parent is nil only for Everywhere.
type Scope struct {
	ID     int
	Kind   ScopeKind
	Parent *Scope
	// Name is the defining name for a Local scope (the proc/func it belongs
	// to); empty for the five base scopes.
	Name  string
	Table map[string]*Entry
}

// Path renders a dotted scope path for diagnostic messages, e.g.
// "Everywhere.Global" or "Everywhere.Global.p" for a Local scope named p.
func (s *Scope) Path() string {
	if s.Parent == nil {
		return string(s.Kind)
	}
	parent := s.Parent.Path()
	if s.Kind == Local {
		return fmt.Sprintf("%s.%s", parent, s.Name)
	}
	return fmt.Sprintf("%s.%s", parent, s.Kind)
}

// Define inserts name into the scope's table, replacing any entry already
// stored under that name. Callers must check LookupLocal first to detect
// duplicates/shadowing and report a diagnostic.
func (s *Scope) Define(name string, kind EntryKind, declNodeID int) *Entry {
	e := &Entry{Name: name, Kind: kind, ScopeID: s.ID, DeclNodeID: declNodeID}
	s.Table[name] = e
	return e
}

// LookupLocal returns the entry defined directly in this scope, if any.
func (s *Scope) LookupLocal(name string) (*Entry, bool) {
	e, ok := s.Table[name]
	return e, ok
}

// Resolve climbs the parent chain starting at this scope, returning the
// first match. From a Local scope this gives param/local → global, since
// Procedure/Function are not on a Local scope's parent chain; scopecheck
// uses it for that case and handles Main → Global separately.
func (s *Scope) Resolve(name string) (*Entry, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if e, ok := cur.Table[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// SymbolTable owns every scope created during a single compilation.
type SymbolTable struct {
	scopes []*Scope
	nextID int

	Everywhere *Scope
	Global     *Scope
	Procedure  *Scope
	Function   *Scope
	Main       *Scope
}

// New builds the five base scopes (phase A of scope-tree construction).
func New() *SymbolTable {
	st := &SymbolTable{}
	st.Everywhere = st.newScope(Everywhere, nil, "")
	st.Global = st.newScope(Global, st.Everywhere, "")
	st.Procedure = st.newScope(Procedure, st.Everywhere, "")
	st.Function = st.newScope(Function, st.Everywhere, "")
	st.Main = st.newScope(MainScope, st.Everywhere, "")
	return st
}

func (st *SymbolTable) newScope(kind ScopeKind, parent *Scope, name string) *Scope {
	st.nextID++
	s := &Scope{ID: st.nextID, Kind: kind, Parent: parent, Name: name, Table: map[string]*Entry{}}
	st.scopes = append(st.scopes, s)
	return s
}

// NewLocal creates a Local scope for a ProcDef/FuncDef. Its parent is
// always Global — Procedure/Function exist only to host proc/func names for
// arity and cross-category checks, and are never consulted for variable
// resolution from inside a definition.
func (st *SymbolTable) NewLocal(defName string) *Scope {
	return st.newScope(Local, st.Global, defName)
}

// Scopes returns every scope created so far, in creation order.
func (st *SymbolTable) Scopes() []*Scope {
	return st.scopes
}
