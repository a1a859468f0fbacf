package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mcc/internal/codegen"
	"mcc/internal/ir"
	"mcc/internal/lexer"
	"mcc/internal/parser"
)

func main() {
	outputString := flag.String("o", "", "output file name")
	targetString := flag.String("t", "x86_64-linux", "target architecture, or 'ast'/'ir' to dump a stage")
	flag.Parse()

	if len(flag.Args()) != 1 {
		fmt.Fprintln(os.Stderr, "Usage: mccc [options] <input file>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	inputFileName := flag.Args()[0]

	var output io.Writer

	if *outputString == "-" {
		output = os.Stdout
	} else {
		if *outputString == "" {
			*outputString = strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + ".s"
		}

		outputFile, err := os.Create(*outputString)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error creating output file: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := outputFile.Close(); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
			}
		}()
		output = outputFile
	}

	inputFile, err := os.Open(inputFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening input file: %v\n", err)
		os.Exit(1)
	}
	defer inputFile.Close()

	lex := lexer.New(inputFile)
	p := parser.New(lex)
	ast, err := p.ParseProgram()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing program: %v\n", err)
		os.Exit(1)
	}

	// If we only need to output the AST, stop immediately after parsing.
	if *targetString == "ast" {
		fmt.Fprintf(output, "%s\n", ast)
		return
	}

	irg := ir.NewGenerator()
	programIr, err := irg.Generate(ast)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating IR: %v\n", err)
		os.Exit(1)
	}

	if *targetString == "ir" {
		programIr.Print(output)
		return
	}

	target, err := codegen.TargetFromName(*targetString)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing target: %v\n", err)
		os.Exit(1)
	}

	err = codegen.Generate(output, target, programIr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating machine code: %v\n", err)
		os.Exit(1)
	}
}
