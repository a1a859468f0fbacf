package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

// CompilationConfig holds platform-specific toolchain settings
type CompilationConfig struct {
	Assembler      string
	AssemblerFlags []string
	Linker         string
	LinkerFlags    []string
}

// getCompilationConfig returns toolchain configuration for the current platform
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

// TestCase represents a single test case: a source file plus a file holding
// the expected process exit status in decimal.
type TestCase struct {
	Name         string
	SourceFile   string
	ExpectedFile string
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".c") {
			baseName := strings.TrimSuffix(filepath.Base(path), ".c")
			expectedFile := filepath.Join(testsDir, baseName+".ret")

			if _, err := os.Stat(expectedFile); err == nil {
				tests = append(tests, TestCase{
					Name:         baseName,
					SourceFile:   path,
					ExpectedFile: expectedFile,
				})
			}
		}

		return nil
	})

	return tests, err
}

// compileTest compiles a source file to an executable
func compileTest(config *CompilationConfig, testCase TestCase, testsDir string) (string, []string, error) {
	baseName := filepath.Base(testCase.Name)
	asmFile := filepath.Join(testsDir, baseName+".s")
	objFile := filepath.Join(testsDir, baseName+".o")
	binFile := filepath.Join(testsDir, baseName)

	// Keep track of generated files for cleanup
	generatedFiles := []string{asmFile, objFile, binFile}

	// Step 1: Compile .c to .s using the mccc compiler
	mcccCmd := exec.Command("go", "run", "mcc/cmd/mccc", "-o", asmFile, testCase.SourceFile)
	if output, err := mcccCmd.CombinedOutput(); err != nil {
		return "", generatedFiles, fmt.Errorf("mccc compilation failed: %w\nOutput: %s", err, string(output))
	}

	// Step 2: Assemble .s to .o
	asArgs := append(config.AssemblerFlags, "-o", objFile, asmFile)
	asCmd := exec.Command(config.Assembler, asArgs...)
	if output, err := asCmd.CombinedOutput(); err != nil {
		return "", generatedFiles, fmt.Errorf("assembly failed: %w\nOutput: %s", err, string(output))
	}

	// Step 3: Link .o to executable
	ldArgs := append([]string{"-o", binFile, objFile}, config.LinkerFlags...)
	ldCmd := exec.Command(config.Linker, ldArgs...)
	if output, err := ldCmd.CombinedOutput(); err != nil {
		return "", generatedFiles, fmt.Errorf("linking failed: %w\nOutput: %s", err, string(output))
	}

	return binFile, generatedFiles, nil
}

// runTest executes a test binary and returns its exit status
func runTest(binaryPath string) (int, error) {
	cmd := exec.Command(binaryPath)
	err := cmd.Run()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return status.ExitStatus(), nil
			}
		}
		return 0, err
	}
	return 0, nil
}

// readExpectedStatus reads the expected exit status from file
func readExpectedStatus(expectedFile string) (int, error) {
	content, err := os.ReadFile(expectedFile)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// cleanupFiles removes the specified files, ignoring any errors
func cleanupFiles(files []string) {
	for _, file := range files {
		os.Remove(file) // Ignore errors - files might not exist
	}
}

// runSingleTest runs a single test case and returns pass/fail status
func runSingleTest(config *CompilationConfig, testCase TestCase, testsDir string) (bool, string) {
	fmt.Printf("Running test %s... ", testCase.Name)

	binaryPath, generatedFiles, err := compileTest(config, testCase, testsDir)
	if err != nil {
		return false, fmt.Sprintf("compilation error: %v", err)
	}

	actualStatus, err := runTest(binaryPath)
	if err != nil {
		return false, fmt.Sprintf("runtime error: %v", err)
	}

	expectedStatus, err := readExpectedStatus(testCase.ExpectedFile)
	if err != nil {
		return false, fmt.Sprintf("error reading expected status: %v", err)
	}

	if actualStatus == expectedStatus {
		// Test passed - clean up generated files
		cleanupFiles(generatedFiles)
		return true, ""
	}

	// Test failed - leave files for inspection
	return false, fmt.Sprintf("exit status mismatch: expected %d, got %d", expectedStatus, actualStatus)
}

func main() {
	config, err := getCompilationConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	testsDir := filepath.Join("testdata", "e2e")
	tests, err := discoverTests(testsDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering tests: %v\n", err)
		os.Exit(1)
	}

	if len(tests) == 0 {
		fmt.Printf("No tests found in %s\n", testsDir)
		return
	}

	// Sort tests by name for consistent ordering
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Name < tests[j].Name
	})

	// An argument selects a single test by name
	var testsToRun []TestCase
	if len(os.Args) > 1 {
		name := strings.TrimSuffix(os.Args[1], ".c")
		for _, test := range tests {
			if test.Name == name {
				testsToRun = []TestCase{test}
				break
			}
		}
		if len(testsToRun) == 0 {
			fmt.Fprintf(os.Stderr, "Error: test not found: %s\n", os.Args[1])
			os.Exit(1)
		}
	} else {
		testsToRun = tests
		fmt.Printf("Found %d tests\n", len(tests))
	}

	passed := 0
	failed := 0

	for _, test := range testsToRun {
		success, errorMsg := runSingleTest(config, test, testsDir)
		if success {
			fmt.Println("PASS")
			passed++
		} else {
			fmt.Printf("FAIL - %s\n", errorMsg)
			failed++
		}
	}

	if failed == 0 {
		fmt.Printf("Test Results: %d passed. All good!\n", passed)
	} else {
		fmt.Printf("Test Results: %d passed, %d failed\n", passed, failed)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
