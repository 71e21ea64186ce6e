// Package parser implements the recursive-descent LL(1) parser for SPL's
// grammar G′, with exactly one token of lookahead beyond cur (cur, nxt).
package parser

import (
	"splc/internal/ast"
	"splc/internal/lexer"
	"splc/internal/report"
	"splc/internal/token"
)

// Parser holds the two-token lookahead window over a single lexer.
type Parser struct {
	lx  *lexer.Lexer
	cur token.Token
	nxt token.Token
}

// New primes the lookahead window and returns a ready-to-use Parser, or a
// lexical error encountered while priming.
func New(src string) (*Parser, error) {
	lx := lexer.New(src)
	p := &Parser{lx: lx}
	var err error
	if p.cur, err = lx.Next(); err != nil {
		return nil, err
	}
	if p.nxt, err = lx.Next(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	p.cur = p.nxt
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.nxt = tok
	return nil
}

func (p *Parser) eat(kind token.Kind) (token.Token, error) {
	if p.cur.Kind != kind {
		return token.Token{}, p.syntaxErrorf("expected %s, found %s", kind, p.cur.Kind)
	}
	tok := p.cur
	if err := p.advance(); err != nil {
		return token.Token{}, err
	}
	return tok, nil
}

func (p *Parser) match(kind token.Kind) (bool, error) {
	if p.cur.Kind == kind {
		return true, p.advance()
	}
	return false, nil
}

func (p *Parser) syntaxErrorf(format string, args ...any) error {
	return report.NewFatal(report.KindSyntaxError, p.cur.Line, p.cur.Col, format, args...)
}

// Parse runs the entry production:
//
//	glob { VARIABLES } proc { PROCDEFS } func { FUNCDEFS } main { MAINPROG }
//
// and returns a Program with every node_id left at zero — callers must run
// ast.AssignIDs on the result before any later stage runs.
func Parse(src string) (*ast.Program, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	return p.parseProgram()
}

func (p *Parser) parseProgram() (*ast.Program, error) {
	prog := &ast.Program{}

	if _, err := p.eat(token.Glob); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	globals, err := p.variables()
	if err != nil {
		return nil, err
	}
	prog.Globals = globals
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Proc); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	procs, err := p.procDefs()
	if err != nil {
		return nil, err
	}
	prog.Procs = procs
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Func); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	funcs, err := p.funcDefs()
	if err != nil {
		return nil, err
	}
	prog.Funcs = funcs
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.Main); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	main, err := p.mainProg()
	if err != nil {
		return nil, err
	}
	prog.Main = main
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}

	if _, err := p.eat(token.EOF); err != nil {
		return nil, err
	}
	return prog, nil
}

// variables parses VARIABLES -> (VAR)*.
func (p *Parser) variables() ([]string, error) {
	var names []string
	for p.cur.Kind == token.IDENT {
		tok, err := p.eat(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
	}
	return names, nil
}

// maxThreeVars parses MAXTHREE -> (VAR (VAR (VAR)?)?)?, reading zero to
// three identifiers and stopping at the closing brace/paren.
func (p *Parser) maxThreeVars() ([]string, error) {
	var names []string
	for i := 0; i < 3; i++ {
		if p.cur.Kind != token.IDENT {
			break
		}
		tok, err := p.eat(token.IDENT)
		if err != nil {
			return nil, err
		}
		names = append(names, tok.Lexeme)
	}
	return names, nil
}

func (p *Parser) procDefs() ([]*ast.ProcDef, error) {
	var acc []*ast.ProcDef
	for p.cur.Kind == token.IDENT {
		pd, err := p.procDef()
		if err != nil {
			return nil, err
		}
		acc = append(acc, pd)
	}
	return acc, nil
}

func (p *Parser) procDef() (*ast.ProcDef, error) {
	nameTok, err := p.eat(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}
	params, err := p.maxThreeVars()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.ProcDef{Name: nameTok.Lexeme, Params: params, Body: body}, nil
}

func (p *Parser) funcDefs() ([]*ast.FuncDef, error) {
	var acc []*ast.FuncDef
	for p.cur.Kind == token.IDENT {
		fd, err := p.funcDef()
		if err != nil {
			return nil, err
		}
		acc = append(acc, fd)
	}
	return acc, nil
}

func (p *Parser) funcDef() (*ast.FuncDef, error) {
	nameTok, err := p.eat(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}
	params, err := p.maxThreeVars()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	body, err := p.body()
	if err != nil {
		return nil, err
	}
	// The ALGO guard below ensures this ';' was never absorbed into the
	// body's own algorithm — it belongs to the function's trailing return.
	if _, err := p.eat(token.Semi); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.Return); err != nil {
		return nil, err
	}
	ret, err := p.atom()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.FuncDef{Name: nameTok.Lexeme, Params: params, Body: body, Ret: ret}, nil
}

func (p *Parser) body() (*ast.Body, error) {
	if _, err := p.eat(token.Local); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	locals, err := p.maxThreeVars()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	algo, err := p.algo()
	if err != nil {
		return nil, err
	}
	return &ast.Body{Locals: locals, Algo: algo}, nil
}

func (p *Parser) mainProg() (*ast.Main, error) {
	if _, err := p.eat(token.Var); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	vars, err := p.variables()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	algo, err := p.algo()
	if err != nil {
		return nil, err
	}
	return &ast.Main{Variables: vars, Algo: algo}, nil
}

// algo parses ALGO -> INSTR (';' INSTR)*, guarding the repetition so it
// never absorbs a ';' whose following token cannot start an INSTR — in
// particular the ';' immediately before a function body's trailing return.
func (p *Parser) algo() (*ast.Algo, error) {
	first, err := p.instr()
	if err != nil {
		return nil, err
	}
	instrs := []ast.Instr{first}
	for p.cur.Kind == token.Semi && p.nxt.Kind.InstrStart() {
		if _, err := p.eat(token.Semi); err != nil {
			return nil, err
		}
		next, err := p.instr()
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, next)
	}
	return &ast.Algo{Instrs: instrs}, nil
}

func (p *Parser) instr() (ast.Instr, error) {
	switch p.cur.Kind {
	case token.Halt:
		if _, err := p.eat(token.Halt); err != nil {
			return nil, err
		}
		return &ast.Halt{}, nil

	case token.Print:
		if _, err := p.eat(token.Print); err != nil {
			return nil, err
		}
		out, err := p.output()
		if err != nil {
			return nil, err
		}
		return &ast.Print{Output: out}, nil

	case token.IDENT:
		return p.instrFromIdent()

	case token.While:
		return p.loopWhile()

	case token.Do:
		return p.loopDoUntil()

	case token.If:
		return p.branchIf()
	}
	return nil, p.syntaxErrorf("unexpected token %s", p.cur.Kind)
}

// instrFromIdent implements the tri-way disambiguation described in
// spec.md §4.2 / §9: a leading IDENT is a procedure-call statement
// (nxt == '('), or an assignment (nxt == '='), and within an assignment the
// parser peeks past the following IDENT for a '(' to decide between
// Assign(x, Call(f,args)) and Assign(x, Term(VarRef f)).
func (p *Parser) instrFromIdent() (ast.Instr, error) {
	nameTok, err := p.eat(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := nameTok.Lexeme

	if p.cur.Kind == token.LParen {
		args, err := p.callArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Call{Name: name, Args: args}, nil
	}

	if p.cur.Kind == token.Assign {
		if _, err := p.eat(token.Assign); err != nil {
			return nil, err
		}

		if p.cur.Kind == token.LParen {
			rhs, err := p.term()
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Target: name, TermRHS: rhs}, nil
		}

		if p.cur.Kind == token.IDENT {
			fnameTok, err := p.eat(token.IDENT)
			if err != nil {
				return nil, err
			}
			if p.cur.Kind == token.LParen {
				args, err := p.callArgs()
				if err != nil {
					return nil, err
				}
				return &ast.Assign{Target: name, CallRHS: &ast.Call{Name: fnameTok.Lexeme, Args: args}}, nil
			}
			return &ast.Assign{Target: name, TermRHS: &ast.TermAtom{Atom: &ast.VarRef{Name: fnameTok.Lexeme}}}, nil
		}

		if p.cur.Kind == token.NUMBER {
			numTok, err := p.eat(token.NUMBER)
			if err != nil {
				return nil, err
			}
			return &ast.Assign{Target: name, TermRHS: &ast.TermAtom{Atom: &ast.NumberLit{Value: atoiMust(numTok.Lexeme)}}}, nil
		}

		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: name, TermRHS: rhs}, nil
	}

	return nil, p.syntaxErrorf("unexpected IDENT in statement")
}

// callArgs parses '(' INPUT ')' where INPUT is a 0..3-element atom list.
func (p *Parser) callArgs() ([]ast.Atom, error) {
	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}
	args, err := p.inputAtoms()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) inputAtoms() ([]ast.Atom, error) {
	var args []ast.Atom
	for i := 0; i < 3; i++ {
		if p.cur.Kind != token.IDENT && p.cur.Kind != token.NUMBER {
			break
		}
		a, err := p.atom()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return args, nil
}

func (p *Parser) loopWhile() (ast.Instr, error) {
	if _, err := p.eat(token.While); err != nil {
		return nil, err
	}
	cond, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	body, err := p.algo()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.LoopWhile{Cond: cond, Body: body}, nil
}

func (p *Parser) loopDoUntil() (ast.Instr, error) {
	if _, err := p.eat(token.Do); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	body, err := p.algo()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	if _, err := p.eat(token.Until); err != nil {
		return nil, err
	}
	cond, err := p.term()
	if err != nil {
		return nil, err
	}
	return &ast.LoopDoUntil{Body: body, Cond: cond}, nil
}

func (p *Parser) branchIf() (ast.Instr, error) {
	if _, err := p.eat(token.If); err != nil {
		return nil, err
	}
	cond, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	then, err := p.algo()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	ok, err := p.match(token.Else)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ast.BranchIf{Cond: cond, Then: then}, nil
	}
	if _, err := p.eat(token.LBrace); err != nil {
		return nil, err
	}
	els, err := p.algo()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RBrace); err != nil {
		return nil, err
	}
	return &ast.BranchIf{Cond: cond, Then: then, Else: els}, nil
}

// output parses OUTPUT -> STRING | ATOM.
func (p *Parser) output() (ast.Output, error) {
	if p.cur.Kind == token.STRING {
		tok, err := p.eat(token.STRING)
		if err != nil {
			return nil, err
		}
		return &ast.OutString{Text: tok.Lexeme}, nil
	}
	a, err := p.atom()
	if err != nil {
		return nil, err
	}
	return &ast.OutAtom{Atom: a}, nil
}

// term parses TERM -> ATOM | '(' UNOP TERM ')' | '(' TERM BINOP TERM ')'.
func (p *Parser) term() (ast.Term, error) {
	if p.cur.Kind == token.IDENT || p.cur.Kind == token.NUMBER {
		a, err := p.atom()
		if err != nil {
			return nil, err
		}
		return &ast.TermAtom{Atom: a}, nil
	}

	if _, err := p.eat(token.LParen); err != nil {
		return nil, err
	}

	if p.cur.Kind.UnaryOp() {
		op := string(p.cur.Kind)
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.term()
		if err != nil {
			return nil, err
		}
		if _, err := p.eat(token.RParen); err != nil {
			return nil, err
		}
		return &ast.TermUnary{Op: op, Operand: operand}, nil
	}

	left, err := p.term()
	if err != nil {
		return nil, err
	}
	if !p.cur.Kind.BinaryOp() {
		return nil, p.syntaxErrorf("expected binary op, found %s", p.cur.Kind)
	}
	op := string(p.cur.Kind)
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.term()
	if err != nil {
		return nil, err
	}
	if _, err := p.eat(token.RParen); err != nil {
		return nil, err
	}
	return &ast.TermBinary{Left: left, Op: op, Right: right}, nil
}

func (p *Parser) atom() (ast.Atom, error) {
	if p.cur.Kind == token.IDENT {
		tok, err := p.eat(token.IDENT)
		if err != nil {
			return nil, err
		}
		return &ast.VarRef{Name: tok.Lexeme}, nil
	}
	if p.cur.Kind == token.NUMBER {
		tok, err := p.eat(token.NUMBER)
		if err != nil {
			return nil, err
		}
		return &ast.NumberLit{Value: atoiMust(tok.Lexeme)}, nil
	}
	return nil, p.syntaxErrorf("expected ATOM, found %s", p.cur.Kind)
}

// atoiMust converts a NUMBER lexeme, which the lexer already guarantees is
// either "0" or [1-9][0-9]*, so it never fails here.
func atoiMust(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
