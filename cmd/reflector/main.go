// Command mig-reflector is a deliberately stubbed DNS responder: it
// accepts A queries and returns a fixed synthetic answer, optionally
// recording its own send/receive timestamps for paired analysis against
// a mig-probe run.
//
// Usage:
//
//	mig-reflector -a <address> [options]
package main

import (
	"errors"
	"fmt"
	"net/netip"
	"os"

	"github.com/nslatency/mig/internal/clock"
	"github.com/nslatency/mig/internal/cli"
	"github.com/nslatency/mig/internal/dumpsignal"
	stderrors "github.com/nslatency/mig/internal/errors"
	"github.com/nslatency/mig/internal/logging"
	"github.com/nslatency/mig/internal/netio"
	"github.com/nslatency/mig/internal/reflectorengine"
	"github.com/nslatency/mig/internal/report"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logging.Default()

	opts, helpRequested, err := cli.ParseReflectorOptions(args)
	if helpRequested {
		fmt.Print(cli.ReflectorUsage())
		return 0
	}
	if err != nil {
		log.Error("%v", err)
		fmt.Fprint(os.Stderr, cli.ReflectorUsage())
		return 1
	}

	sock, err := netio.OpenBound(netip.AddrPortFrom(opts.Address, opts.Port))
	if err != nil {
		log.Errno(err, "failed to bind to %s:%d", opts.Address, opts.Port)
		return 1
	}
	defer sock.Close()

	var dump reflectorengine.Dumper
	if opts.Output != "" {
		dump = func(receives, sends []clock.Timestamp) error {
			f, err := os.Create(opts.Output)
			if err != nil {
				return err
			}
			defer f.Close()
			return report.WriteReflectorReport(f, receives, sends)
		}
	}

	engine, err := reflectorengine.New(sock, log, dump)
	if err != nil {
		log.Errno(err, "failed to start reflector engine")
		return 1
	}

	sig, stopSignal := dumpsignal.Notify()
	defer stopSignal()
	go func() {
		for range sig {
			engine.RequestDump()
		}
	}()

	if err := engine.Run(true); err != nil {
		if errors.Is(err, stderrors.ErrOperatorStop) {
			log.Info("Stopped by operator.")
			return 0
		}
		log.Errno(err, "reflector run failed")
		return 1
	}

	return 0
}
