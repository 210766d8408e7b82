//go:build ignore

// build.go - WhatsFlow Build System
// Usage: go run build.go [-target=TARGET] [-v] [-version=X.Y.Z]
// Targets: all, web, tools, test, clean

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

const module = "whatsflow"

var (
	distDir = "dist"

	// Binaries by cmd directory.
	webBinaries  = []string{"web"}
	toolBinaries = []string{"create-admin", "init-db", "tablecsv"}

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	Version string
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	version := flag.String("version", "dev", "Version stamped into the binaries")
	flag.Parse()

	printHeader()
	startTime := time.Now()
	ctx := &BuildContext{Verbose: *verbose, Version: *version}

	var err error
	switch *target {
	case "all":
		err = buildBinaries(ctx, append(append([]string{}, webBinaries...), toolBinaries...))
	case "web":
		err = buildBinaries(ctx, webBinaries)
	case "tools":
		err = buildBinaries(ctx, toolBinaries)
	case "test":
		err = runTests(ctx)
	case "clean":
		err = clean()
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "         WhatsFlow - Build System          " + colorReset)
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

func buildBinaries(ctx *BuildContext, names []string) error {
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", distDir, err)
	}
	for _, name := range names {
		if err := buildBinary(ctx, name); err != nil {
			return err
		}
	}
	return nil
}

func buildBinary(ctx *BuildContext, name string) error {
	printInfo(fmt.Sprintf("Building %s...", name))

	exeName := name
	if runtime.GOOS == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, exeName)

	ldflags := fmt.Sprintf("-s -w -X %s/internal/infrastructure.ServiceVersion=%s", module, ctx.Version)
	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + name}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", name, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", exeName, float64(info.Size())/1024/1024))
	}
	return nil
}

func runTests(ctx *BuildContext) error {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if ctx.Verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("go tests failed: %w", err)
	}
	return nil
}

func clean() error {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		return fmt.Errorf("failed to clean %s: %w", distDir, err)
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v] [-version=X.Y.Z]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all    Build the web server and all tools (default)")
	fmt.Println("  web    Build the web server")
	fmt.Println("  tools  Build create-admin, init-db and tablecsv")
	fmt.Println("  test   Run the Go test suite with the race detector")
	fmt.Println("  clean  Remove the dist directory")
}
