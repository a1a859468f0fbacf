package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"mcc/internal/codegen"
	"mcc/internal/ir"
	"mcc/internal/lexer"
	"mcc/internal/parser"
)

var outputFile string

// CompilationConfig holds platform-specific toolchain settings
type CompilationConfig struct {
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
}

var rootCmd = &cobra.Command{
	Use:   "mcc",
	Short: "mcc build system",
	Long:  "A build driver for the mcc compiler: compiles, assembles and links in one step.",
}

var buildCmd = &cobra.Command{
	Use:   "build <file.c>",
	Short: "Build a program",
	Long:  "Compile a source file to an executable binary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sourceFile := args[0]
		if _, err := os.Stat(sourceFile); err != nil {
			return fmt.Errorf("file %s does not exist", sourceFile)
		}

		config, err := getCompilationConfig()
		if err != nil {
			return fmt.Errorf("failed to get compilation config: %w", err)
		}

		keepIntermediateFiles, _ := cmd.Flags().GetBool("keep")

		if err := buildProgram(config, sourceFile, keepIntermediateFiles, outputFile); err != nil {
			cmd.SilenceUsage = true
			return err
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolP("keep", "k", false, "Keep intermediate files (.s, .o)")
	buildCmd.Flags().StringVarP(&outputFile, "o", "o", "", "output file name")
	rootCmd.AddCommand(buildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildProgram compiles a source file to an executable
func buildProgram(config *CompilationConfig, sourceFile string, keepIntermediate bool, outputFile string) error {
	var binFile string
	if outputFile != "" {
		binFile = outputFile
	} else {
		sourceDir := filepath.Dir(sourceFile)
		baseName := strings.TrimSuffix(filepath.Base(sourceFile), filepath.Ext(sourceFile))
		binFile = filepath.Join(sourceDir, baseName)
	}

	outputDir := filepath.Dir(binFile)
	baseName := strings.TrimSuffix(filepath.Base(binFile), filepath.Ext(binFile))
	asmFile := filepath.Join(outputDir, baseName+".s")
	objFile := filepath.Join(outputDir, baseName+".o")

	// Step 1: Compile the source file to assembly.
	if err := compileToAssembly(sourceFile, asmFile); err != nil {
		return err
	}

	// Step 2: Assemble .s to .o
	asArgs := append(config.AssemblerFlags, "-o", objFile, asmFile)
	asCmd := exec.Command(config.Assembler, asArgs...)
	if output, err := asCmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "assembly failed: %v\nOutput: %s\n", err, string(output))
		return err
	}

	// Step 3: Link .o to executable
	ldArgs := append([]string{"-o", binFile, objFile}, config.LinkerFlags...)
	ldCmd := exec.Command(config.Linker, ldArgs...)
	if output, err := ldCmd.CombinedOutput(); err != nil {
		fmt.Fprintf(os.Stderr, "linking failed: %v\nOutput: %s\n", err, string(output))
		return err
	}

	// Clean up intermediate files unless -k flag is set
	if !keepIntermediate {
		os.Remove(asmFile)
		os.Remove(objFile)
	}

	fmt.Printf("Built %s\n", binFile)
	return nil
}

// compileToAssembly runs the compiler pipeline in-process
func compileToAssembly(sourceFile, asmFile string) error {
	inputFile, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", sourceFile, err)
	}
	defer inputFile.Close()

	p := parser.New(lexer.New(inputFile))
	ast, err := p.ParseProgram()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", sourceFile, err)
	}

	programIr, err := ir.NewGenerator().Generate(ast)
	if err != nil {
		return fmt.Errorf("failed to generate IR for %s: %w", sourceFile, err)
	}

	output, err := os.Create(asmFile)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", asmFile, err)
	}

	if err := codegen.Generate(output, codegen.TargetX8664Linux, programIr); err != nil {
		output.Close()
		return fmt.Errorf("failed to generate code for %s: %w", sourceFile, err)
	}
	return output.Close()
}

// getCompilationConfig returns toolchain configuration for the current platform.
// The backend only emits x86_64 Linux assembly for now.
func getCompilationConfig() (*CompilationConfig, error) {
	if runtime.GOOS == "linux" && runtime.GOARCH == "amd64" {
		return &CompilationConfig{
			Assembler:      "as",
			AssemblerFlags: []string{},
			Linker:         "cc",
			LinkerFlags:    []string{},
		}, nil
	}
	return nil, fmt.Errorf("unsupported platform: %s/%s", runtime.GOOS, runtime.GOARCH)
}
