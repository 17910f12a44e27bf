// Package main provides the dlf CLI for inspecting and rearranging tensors
// stored in the text format.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/dlf-ml/dlf/internal/logger"
	"github.com/dlf-ml/dlf/internal/parallel"
	"github.com/dlf-ml/dlf/internal/tensor"
)

const version = "v0.1.0"

// env carries the process streams and logger into commands.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	log    logger.Logger
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" {
		usage(stdout)
		return 0
	}
	if args[0] == "version" {
		fmt.Fprintf(stdout, "dlf %s\n", version)
		return 0
	}

	j, logLevel, err := parseJob(args[0], args[1:], stderr)
	if err != nil {
		fmt.Fprintf(stderr, "dlf %s: %v\n", args[0], err)
		return 2
	}

	e := &env{stdin: stdin, stdout: stdout, stderr: stderr, log: logger.New(logLevel)}
	if err := dispatch(e, j); err != nil {
		e.log.Errorf("%s failed: %v", j.kind, err)
		fmt.Fprintf(stderr, "dlf %s: %v\n", j.kind, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "dlf %s - tensor text-format tool\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  version                          Show version")
	fmt.Fprintln(w, "  inspect [flags] FILE             Print dtype, shape, strides and size")
	fmt.Fprintln(w, "  reshape -shape 3,2 [flags] FILE  Reshape and write the result to stdout")
	fmt.Fprintln(w, "  permute -axes 1,0 [flags] FILE   Permute axes and write the result to stdout")
	fmt.Fprintln(w, "  get -index 1,2 [flags] FILE      Print one element")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Common flags: -type float32|float64|int8|int16|int32|int64|uint8|bool")
	fmt.Fprintln(w, "              -log debug|info|error|off  -workers N")
	fmt.Fprintln(w, "FILE may be - to read standard input.")
}

// job is one parsed command invocation.
type job struct {
	kind     string
	dtype    string
	path     string
	shape    tensor.Shape
	axes     []int
	index    []int
	parallel parallel.Config
}

func parseJob(kind string, args []string, stderr io.Writer) (job, logger.Level, error) {
	j := job{kind: kind, parallel: parallel.DefaultConfig()}

	fs := flag.NewFlagSet(kind, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&j.dtype, "type", "float32", "element type")
	logName := fs.String("log", "error", "log level")
	workers := fs.Int("workers", j.parallel.NumWorkers, "worker goroutines for permute")

	var shapeArg, axesArg, indexArg string
	switch kind {
	case "inspect":
	case "reshape":
		fs.StringVar(&shapeArg, "shape", "", "new shape, comma separated")
	case "permute":
		fs.StringVar(&axesArg, "axes", "", "axis order, comma separated")
	case "get":
		fs.StringVar(&indexArg, "index", "", "full index, comma separated")
	default:
		return j, logger.LevelOff, fmt.Errorf("unknown command %q", kind)
	}

	if err := fs.Parse(args); err != nil {
		return j, logger.LevelOff, err
	}

	level, err := logger.ParseLevel(*logName)
	if err != nil {
		return j, logger.LevelOff, err
	}
	j.parallel.NumWorkers = *workers
	j.parallel.Enabled = *workers > 1

	switch fs.NArg() {
	case 0:
		j.path = "-"
	case 1:
		j.path = fs.Arg(0)
	default:
		return j, level, fmt.Errorf("expected one input file, got %d", fs.NArg())
	}

	if j.shape, err = parseInts(shapeArg); err != nil {
		return j, level, fmt.Errorf("-shape: %w", err)
	}
	if j.axes, err = parseInts(axesArg); err != nil {
		return j, level, fmt.Errorf("-axes: %w", err)
	}
	if j.index, err = parseInts(indexArg); err != nil {
		return j, level, fmt.Errorf("-index: %w", err)
	}
	return j, level, nil
}

// parseInts parses "1,2,3". The empty string yields an empty list, which
// addresses a scalar.
func parseInts(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []int{}, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", p)
		}
		out[i] = n
	}
	return out, nil
}
