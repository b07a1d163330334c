package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/image-matrix-mcp/internal/lesson"
	"github.com/ironsheep/image-matrix-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("matrix-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("MATRIX_MCP_LOG_LEVEL") == "debug"
	if debug {
		log.Printf("Image Matrix MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	if len(os.Args) > 1 && os.Args[1] == "lesson" {
		if len(os.Args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: matrix-mcp lesson <config.yaml>")
			os.Exit(2)
		}
		if err := runLesson(os.Args[2], debug); err != nil {
			log.Fatalf("Lesson error: %v", err)
		}
		return
	}

	server.Version = Version
	srv := server.New()
	srv.Debug = debug
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func runLesson(path string, debug bool) error {
	cfg, err := lesson.LoadConfig(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reports, err := lesson.NewRunner(nil, debug).Run(ctx, cfg)
	for i, r := range reports {
		fmt.Printf("%2d. %s\n", i+1, r.Title)
		if r.Skipped {
			fmt.Println("    skipped")
			continue
		}
		fmt.Println(r.Summary)
		for _, a := range r.Artifacts {
			fmt.Printf("    wrote %s\n", a)
		}
	}
	return err
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "matrix-mcp - MCP server for arrays and image matrices")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  matrix-mcp [options]")
	fmt.Fprintln(w, "  matrix-mcp lesson <config.yaml>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintln(w, "  MATRIX_MCP_LOG_LEVEL=debug   Enable debug logging")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Without arguments the server speaks MCP over stdin/stdout.")
	fmt.Fprintln(w, "The lesson command runs the walkthrough and prints one report per step.")
}
