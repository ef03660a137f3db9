//go:build unix

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/netsock/resource"
	"github.com/wippyai/netsock/socket"
)

type options struct {
	addr        string
	typ         string
	strategy    string
	plan        string
	count       int
	workers     int
	verbose     bool
	interactive bool
}

func main() {
	var opts options
	flag.StringVar(&opts.addr, "addr", "127.0.0.1:0", "Socket address (ip:port or [ip6%zone]:port)")
	flag.StringVar(&opts.typ, "type", "stream", "Socket type: stream, dgram, seqpacket, raw")
	flag.IntVar(&opts.count, "n", 1, "Number of sockets to create")
	flag.StringVar(&opts.strategy, "strategy", "auto", "Creation strategy: auto, atomic, twostep")
	flag.StringVar(&opts.plan, "plan", "", "YAML probe plan (overrides -addr, -type, -n, -strategy)")
	flag.IntVar(&opts.workers, "j", 4, "Maximum probes run in parallel")
	flag.BoolVar(&opts.verbose, "v", false, "Debug logging to stderr")
	flag.BoolVar(&opts.interactive, "i", false, "Interactive mode with TUI")
	flag.Parse()

	log, err := newLogger(opts.verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	socket.SetLogger(log.Named("socket"))
	resource.SetLogger(log.Named("resource"))

	if opts.interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: -i requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	failed, err := run(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

// probesFrom builds the probe list from the plan file or the flags.
func probesFrom(opts options) ([]probe, error) {
	if opts.plan != "" {
		return LoadPlan(opts.plan)
	}
	return Plan{Probes: []ProbeConfig{{
		Name:     opts.addr,
		Addr:     opts.addr,
		Type:     opts.typ,
		Strategy: opts.strategy,
		Count:    opts.count,
	}}}.compile()
}

func run(opts options) (int, error) {
	probes, err := probesFrom(opts)
	if err != nil {
		return 0, err
	}

	table := resource.NewTable()
	results := runProbes(table, probes, opts.workers)

	rp := reporter{w: os.Stdout, color: term.IsTerminal(int(os.Stdout.Fd()))}
	rp.header(socket.PlatformStrategy())
	rp.write(results)

	total := 0
	for _, rs := range results {
		total += len(rs)
	}
	failed := countFailures(results)
	rp.summary(total, failed)

	if err := table.Close(); err != nil {
		return failed, fmt.Errorf("close descriptors: %w", err)
	}
	return failed, nil
}
