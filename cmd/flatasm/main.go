// Command flatasm translates a single assembly source file into a
// flat binary image. Usage:
//
//	flatasm [-v] <input-path> <output-path>
//
// Grounded on the teacher's assembler/assembler.go and
// debug/objdump.go main() functions: plain os.Args handling, no flag
// framework, errors logged and the process exited non-zero. Unlike
// the teacher (which calls log.Fatalf deep inside assembler logic),
// every internal error here is returned and only formatted/exited at
// this single top-level call site — the error-propagation redesign
// this project's design notes call for.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mpetrov/flatasm/internal/codegen"
	"github.com/mpetrov/flatasm/internal/diag"
	"github.com/mpetrov/flatasm/internal/lexer"
	"github.com/mpetrov/flatasm/internal/parser"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	verbose := false
	var positional []string
	for _, a := range args {
		if a == "-v" {
			verbose = true
			continue
		}
		positional = append(positional, a)
	}
	if len(positional) != 2 {
		return fmt.Errorf("usage: flatasm [-v] <input-path> <output-path>")
	}
	inputPath, outputPath := positional[0], positional[1]
	if !filepath.IsAbs(inputPath) {
		return fmt.Errorf("input path %q must be absolute", inputPath)
	}
	if !filepath.IsAbs(outputPath) {
		return fmt.Errorf("output path %q must be absolute", outputPath)
	}

	lx, err := lexer.NewFromPath(inputPath)
	if err != nil {
		return err
	}
	defer lx.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("opening output %q: %w", outputPath, err)
	}
	defer out.Close()

	tracer := diag.New(os.Stderr, verbose)

	// emit_bytes only writes to the sink during pass two (spec.md
	// §4.4), so attaching the output file from the start is
	// harmless for pass one — nothing is written until next_pass()
	// flips the generator over.
	gen := codegen.New(out)
	gen.OnEmit = tracer.Bytes

	p := parser.New(lx, gen)
	p.OnStatement = tracer.Statement
	p.OnPassComplete = tracer.PendingJumps

	tracer.Pass("pass one")
	if err := p.Assemble(); err != nil {
		tracer.Error(err)
		return err
	}

	tracer.Symbols(gen.Symbols())
	return nil
}
