// Command splc is the SPL compiler driver: it wires the five pipeline
// stages (lex, parse, scope check, type check, codegen/emit) behind a flag
// surface, per spec.md §6 / SPEC_FULL.md §8.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"splc/internal/ast"
	"splc/internal/astprint"
	"splc/internal/basicify"
	"splc/internal/codegen"
	"splc/internal/htmlview"
	"splc/internal/lexer"
	"splc/internal/loader"
	"splc/internal/parser"
	"splc/internal/scopecheck"
	"splc/internal/symtab"
	"splc/internal/types"

	"github.com/davecgh/go-spew/spew"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
)

var (
	flagPrintAST    = flag.Bool("print-ast", false, "pretty-print the AST to stdout")
	flagCheckScopes = flag.Bool("check-scopes", false, "run scope analysis and report its verdict")
	flagDumpScopes  = flag.Bool("dump-scopes", false, "print the full scope tree with entries")
	flagTypeCheck   = flag.Bool("type-check", false, "run the type checker and report its verdict")
	flagCodegen     = flag.Bool("codegen", false, "write the intermediate listing to <stem>.txt")
	flagEmitBasic   = flag.Bool("emit-basic", false, "run the full pipeline and write numbered BASIC to <stem>.bas")
	flagOut         = flag.String("out", "", "override the output file for --codegen/--emit-basic")
	flagDumpTokens  = flag.Bool("dump-tokens", false, "print every lexed token, one per line")
	flagHTML        = flag.Bool("html", false, "write an HTML control-flow view of the intermediate listing")
	flagRawDump     = flag.Bool("raw-dump", false, "use go-spew to dump the AST/scope tree instead of the hand-written printer")
	flagVerbose     = flag.Bool("verbose", false, "enable zerolog debug-level driver logging")
)

func main() {
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *flagVerbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: splc [flags] <source.spl>")
		os.Exit(2)
	}

	os.Exit(run(args[0]))
}

// run executes the requested pipeline stages over the source at path and
// returns the process exit code: 0 on success, 1 if any requested (or
// prerequisite) stage reported a diagnostic.
func run(path string) int {
	sources, err := loader.ReadFiles([]string{path})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	src := sources[0]
	stem := strings.TrimSuffix(src.Path, filepath.Ext(src.Path))
	log.Debug().Str("path", src.Path).Msg("source loaded")

	if *flagDumpTokens {
		if code := dumpTokens(src.Content); code != 0 {
			return code
		}
	}

	prog, err := parser.Parse(src.Content)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	ast.AssignIDs(prog)
	log.Debug().Msg("parse complete, node ids assigned")

	if *flagPrintAST {
		if *flagRawDump {
			spew.Dump(prog)
		} else {
			fmt.Print(astprint.Print(prog))
		}
	}

	hadError := false

	scopeResult := scopecheck.Check(prog)
	if *flagCheckScopes {
		if scopeResult.Diagnostics.Empty() {
			fmt.Println("Variable Naming and Function Naming accepted")
		} else {
			fmt.Println("Naming error(s):")
			for _, line := range scopeResult.Diagnostics.Lines() {
				fmt.Println(line)
			}
		}
	}
	if !scopeResult.Diagnostics.Empty() {
		hadError = true
	}

	if *flagDumpScopes {
		if *flagRawDump {
			spew.Dump(scopeResult.Table)
		} else {
			fmt.Print(dumpScopes(scopeResult.Table))
		}
	}

	if hadError {
		return 1
	}

	typeResult := types.Check(prog)
	if *flagTypeCheck {
		if typeResult.Diagnostics.Empty() {
			fmt.Println("Type checking passed")
		} else {
			for _, line := range typeResult.Diagnostics.Lines() {
				fmt.Println(line)
			}
		}
	}
	if !typeResult.Diagnostics.Empty() {
		hadError = true
	}
	if hadError {
		return 1
	}

	if !(*flagCodegen || *flagEmitBasic || *flagHTML) {
		return 0
	}

	lines, err := codegen.Generate(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	log.Debug().Int("lines", len(lines)).Msg("codegen complete")

	if *flagCodegen {
		outPath := *flagOut
		if outPath == "" || *flagEmitBasic {
			outPath = stem + ".txt"
		}
		if err := os.WriteFile(outPath, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *flagHTML {
		if err := os.WriteFile(stem+".html", []byte(htmlview.Render(lines)), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *flagEmitBasic {
		numbered, err := basicify.Emit(lines)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		outPath := *flagOut
		if outPath == "" {
			outPath = stem + ".bas"
		}
		if err := os.WriteFile(outPath, []byte(basicify.Render(numbered)), 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		log.Debug().Int("basic_lines", len(numbered)).Str("out", outPath).Msg("basic emitted")
	}

	return 0
}

func dumpTokens(src string) int {
	toks, err := lexer.All(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, tok := range toks {
		fmt.Printf("%-12s %-20q line=%d col=%d\n", tok.Kind, tok.Lexeme, tok.Line, tok.Col)
	}
	return 0
}

// dumpScopes renders every scope in creation order with its entries,
// sorted by name for stable output.
func dumpScopes(table *symtab.SymbolTable) string {
	var b strings.Builder
	for _, scope := range table.Scopes() {
		fmt.Fprintf(&b, "%s (id=%d)\n", scope.Path(), scope.ID)
		names := make([]string, 0, len(scope.Table))
		for name := range scope.Table {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			e := scope.Table[name]
			fmt.Fprintf(&b, "  %s: %s (decl node #%d)\n", e.Name, e.Kind, e.DeclNodeID)
		}
	}
	return b.String()
}
