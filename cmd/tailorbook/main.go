// Command tailorbook is the operator CLI for the tailoring shop store. Each
// invocation opens the configured store, runs one subcommand and prints the
// result as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"tailorbook/internal/config"
)

var exitFunc = os.Exit

// errUsage marks bad arguments; cli exits 2 for it.
var errUsage = errors.New("usage")

func main() {
	code := cli(context.Background(), os.Args[1:], os.Stdout, os.Stderr, config.Load)
	exitFunc(code)
}

type command struct {
	name    string
	summary string
	run     func(ctx context.Context, app *app, args []string) (any, error)
}

var commands = []command{
	{"clients", "list clients, optionally filtered by -q", runClients},
	{"client", "show one client", runClient},
	{"add-client", "register a client", runAddClient},
	{"add-order", "add an order to a client", runAddOrder},
	{"set-status", "change an order status", runSetStatus},
	{"set-measurements", "replace a client's measurements", runSetMeasurements},
	{"calendar", "delivery markers, or orders due on -date", runCalendar},
	{"designs", "list designs, optionally filtered by -tag", runDesigns},
	{"inspirations", "list inspirations, optionally filtered by -tag", runInspirations},
	{"add-design", "add a design from -image or -upload", runAddDesign},
	{"add-inspiration", "add an inspiration from -image or -upload", runAddInspiration},
	{"remove-design", "remove a design by -id", runRemoveDesign},
	{"remove-inspiration", "remove an inspiration by -id", runRemoveInspiration},
	{"company", "show company info, or set it with -name/-logo", runCompany},
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func cli(ctx context.Context, args []string, stdout, stderr io.Writer, load func() (config.Config, error)) int {
	fs := flag.NewFlagSet("tailorbook", flag.ContinueOnError)
	fs.SetOutput(stderr)
	metricsMode := fs.String("metrics", "none", "metrics sink: none, expvar or prometheus (dumped to stderr on exit)")
	trace := fs.Bool("trace", false, "write JSON trace spans to stderr")
	fs.Usage = func() { printUsage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		printUsage(fs, stderr)
		return 2
	}
	cmd, ok := findCommand(fs.Arg(0))
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", fs.Arg(0))
		printUsage(fs, stderr)
		return 2
	}

	cfg, err := load()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	a, err := newApp(ctx, cfg, stderr, *metricsMode, *trace)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "startup failed: %v\n", err)
		return 1
	}
	defer a.close()

	out, err := cmd.run(ctx, a, fs.Args()[1:])
	if err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			return 2
		}
		_, _ = fmt.Fprintf(stderr, "%s failed: %v\n", cmd.name, err)
		return 1
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_, _ = fmt.Fprintf(stderr, "write output: %v\n", err)
		return 1
	}
	a.dumpMetrics(stderr)
	return 0
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintln(w, "usage: tailorbook [flags] <command> [command flags]")
	_, _ = fmt.Fprintln(w, "\ncommands:")
	for _, c := range commands {
		_, _ = fmt.Fprintf(w, "  %-20s %s\n", c.name, c.summary)
	}
	_, _ = fmt.Fprintln(w, "\nflags:")
	fs.PrintDefaults()
}

func newLogger(cfg config.Log, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
