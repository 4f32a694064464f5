// Command mig-probe injects a controlled stream of DNS A queries at a
// target server and records, per query, the monotonic timestamps of
// transmission and matching response.
//
// Usage:
//
//	mig-probe -s <server> -d <domains file> [options]
package main

import (
	"fmt"
	"net/netip"
	"os"

	"github.com/nslatency/mig/internal/cli"
	"github.com/nslatency/mig/internal/domainenc"
	"github.com/nslatency/mig/internal/logging"
	"github.com/nslatency/mig/internal/netio"
	"github.com/nslatency/mig/internal/probeengine"
	"github.com/nslatency/mig/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logging.Default()

	opts, helpRequested, err := cli.ParseProbeOptions(args)
	if helpRequested {
		fmt.Print(cli.ProbeUsage())
		return 0
	}
	if err != nil {
		log.Error("%v", err)
		fmt.Fprint(os.Stderr, cli.ProbeUsage())
		return 1
	}

	domainData, err := os.ReadFile(opts.Domains)
	if err != nil {
		log.Errno(err, "failed to read domain file %q", opts.Domains)
		return 1
	}

	names, err := domainenc.Parse(domainData)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	if opts.Verbose {
		log.Info("Domains:\n%s", domainenc.Describe(names))
	}

	queries := opts.Queries
	if !opts.QueriesSet {
		queries = names.Count()
	}

	var writeInterval int64
	if opts.QueryLimit > 0 {
		writeInterval = int64(1_000_000_000) / int64(opts.QueryLimit)
	}

	batch := probeengine.BuildBatch(names, queries, opts.ClientID)

	sock, err := netio.OpenUnconnected()
	if err != nil {
		log.Errno(err, "failed to open socket")
		return 1
	}
	defer sock.Close()

	server := netip.AddrPortFrom(opts.Server, opts.Port)

	result, err := probeengine.Run(sock, server, batch, writeInterval, opts.Verbose, log)
	if err != nil {
		log.Errno(err, "probe run failed")
		return 1
	}

	out := os.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			log.Errno(err, "failed to open output file %q", opts.Output)
			return 1
		}
		defer f.Close()
		out = f
	}

	if err := report.WriteProbeReport(out, result.Sends, result.Receives, result.Pairs); err != nil {
		log.Errno(err, "failed to write report")
		return 1
	}

	return 0
}
