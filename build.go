//go:build ignore

// build.go - cafefzip build system
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: all, build, test, clean, package

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const executable = "cafefzip"

var (
	rootDir string
	distDir string

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
)

func init() {
	cwd, err := os.Getwd()
	if err != nil {
		panic(fmt.Sprintf("Failed to get current directory: %v", err))
	}
	rootDir = cwd
	distDir = filepath.Join(rootDir, "dist")

	if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); os.IsNotExist(err) {
		panic(fmt.Sprintf("go.mod not found in %s. Run build.go from the module root.", rootDir))
	}
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	startTime := time.Now()

	switch *target {
	case "all":
		runTests(*verbose)
		buildExecutable(*verbose)
		createPackage(*verbose)
	case "build":
		buildExecutable(*verbose)
	case "test":
		runTests(*verbose)
	case "clean":
		clean()
	case "package":
		buildExecutable(*verbose)
		createPackage(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "        cafefzip - Build System            " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func exeName() string {
	if runtime.GOOS == "windows" {
		return executable + ".exe"
	}
	return executable
}

func buildExecutable(verbose bool) {
	printInfo("Building " + executable + "...")

	if err := os.MkdirAll(distDir, 0755); err != nil {
		printError(fmt.Sprintf("Failed to create dist directory: %v", err))
		os.Exit(1)
	}

	outputPath := filepath.Join(distDir, exeName())
	args := []string{"build", "-trimpath", "-ldflags", "-s -w", "-o", outputPath, "./cmd/" + executable}
	if verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	if err := goCommand(verbose, args...); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", executable, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		sizeMB := float64(info.Size()) / 1024 / 1024
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName(), sizeMB))
	}
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	if err := goCommand(true, args...); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func clean() {
	printInfo("Cleaning build artifacts...")
	for _, dir := range []string{distDir, filepath.Join(rootDir, "work"), filepath.Join(rootDir, "logs")} {
		if err := os.RemoveAll(dir); err != nil {
			printError(fmt.Sprintf("Failed to remove %s: %v", dir, err))
		}
	}
	printSuccess("Build artifacts cleaned")
}

// createPackage places the example configuration next to the executable.
func createPackage(verbose bool) {
	printInfo("Packaging...")

	src := filepath.Join(rootDir, "configs", "config.yaml")
	dst := filepath.Join(distDir, "configs", "config.yaml")
	if err := copyFile(src, dst); err != nil {
		printError(fmt.Sprintf("Failed to copy config: %v", err))
		os.Exit(1)
	}
	if verbose {
		fmt.Printf("  %s -> %s\n", src, dst)
	}
	printSuccess("Package ready in " + distDir)
}

func goCommand(stream bool, args ...string) error {
	cmd := exec.Command("go", args...)
	cmd.Dir = rootDir
	if stream {
		fmt.Printf("Running: go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

func showHelp() {
	fmt.Println("Usage: go run build.go -target=TARGET [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all      test, build and package (default)")
	fmt.Println("  build    build dist/" + executable)
	fmt.Println("  test     run go test -race ./...")
	fmt.Println("  clean    remove dist, work and logs")
	fmt.Println("  package  build and copy configs/config.yaml into dist")
}
