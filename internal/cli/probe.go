// Package cli parses the probe's and the reflector's command-line flags
// with pflag, the POSIX/GNU-style short+long flag parser the rest of the
// example stack reaches for in place of stdlib flag.
package cli

import (
	"fmt"
	"net/netip"

	"github.com/spf13/pflag"

	"github.com/nslatency/mig/internal/errors"
)

// ProbeOptions holds the probe binary's parsed configuration.
type ProbeOptions struct {
	Server     netip.Addr
	Port       uint16
	ClientID   []byte // nil when -c/--client was not given
	Queries    int    // meaningful only when QueriesSet is true
	QueriesSet bool   // true iff -n/--queries was explicitly given
	QueryLimit int    // 0 means unlimited
	Domains    string
	Verbose    bool
	Output     string // "" means stdout
}

const probeUsage = `mig - DNS performance measurement tool

Usage: mig-probe <options>

Options:
	-s, --server  - name server IPv4 address (required);
	-p, --port    - name server port (default 53);
	-c, --client  - client id (16 bytes hex string);
	-n, --queries - number of queries (default length of domain set);
	-l, --limit   - limit query rate to the number (default - no limit);
	-d, --domains - file with list of domains to query (ASCII lowercase separated by new line);
	-v, --verbose - print more details;
	-o, --output  - write statistics to specified file (default stdout);
	-h, --help    - this message.
`

// ParseProbeOptions parses args (excluding the program name) into a
// ProbeOptions. helpRequested is true when -h/--help was given, in which
// case the caller should print ProbeUsage() and exit 0 without looking at
// the returned options.
func ParseProbeOptions(args []string) (opts ProbeOptions, helpRequested bool, err error) {
	fs := pflag.NewFlagSet("mig-probe", pflag.ContinueOnError)
	fs.Usage = func() {}

	server := fs.StringP("server", "s", "", "name server IPv4 address (required)")
	port := fs.Uint16P("port", "p", 53, "name server port")
	client := fs.StringP("client", "c", "", "client id (16 bytes hex string)")
	queries := fs.IntP("queries", "n", 0, "number of queries (default length of domain set)")
	limit := fs.IntP("limit", "l", 0, "limit query rate to the number (default - no limit)")
	domains := fs.StringP("domains", "d", "", "file with list of domains to query")
	verbose := fs.BoolP("verbose", "v", false, "print more details")
	output := fs.StringP("output", "o", "", "write statistics to specified file (default stdout)")
	help := fs.BoolP("help", "h", false, "this message")

	if err := fs.Parse(args); err != nil {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "args", Message: err.Error()}
	}
	if *help {
		return ProbeOptions{}, true, nil
	}

	if *server == "" {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "server", Message: "-s/--server is required"}
	}
	addr, parseErr := netip.ParseAddr(*server)
	if parseErr != nil || !addr.Is4() {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "server", Value: *server, Message: "must be an IPv4 address"}
	}

	if *domains == "" {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "domains", Message: "-d/--domains is required"}
	}

	var clientID []byte
	if *client != "" {
		clientID, err = decodeClientID(*client)
		if err != nil {
			return ProbeOptions{}, false, err
		}
	}

	if *queries < 0 {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "queries", Value: fmt.Sprint(*queries), Message: "must not be negative"}
	}
	if *limit < 0 {
		return ProbeOptions{}, false, &errors.ValidationError{Field: "limit", Value: fmt.Sprint(*limit), Message: "must not be negative"}
	}

	return ProbeOptions{
		Server:     addr,
		Port:       *port,
		ClientID:   clientID,
		Queries:    *queries,
		QueriesSet: fs.Changed("queries"),
		QueryLimit: *limit,
		Domains:    *domains,
		Verbose:    *verbose,
		Output:     *output,
	}, false, nil
}

// ProbeUsage returns the probe's usage text.
func ProbeUsage() string {
	return probeUsage
}

const clientIDHexLength = 32 // 16 bytes, hex-encoded

func decodeClientID(hexString string) ([]byte, error) {
	if len(hexString) != clientIDHexLength {
		return nil, &errors.ValidationError{
			Field:   "client",
			Value:   hexString,
			Message: fmt.Sprintf("must be a %d-character hex string (16 bytes)", clientIDHexLength),
		}
	}

	out := make([]byte, clientIDHexLength/2)
	for i := range out {
		hi, ok1 := hexDigit(hexString[2*i])
		lo, ok2 := hexDigit(hexString[2*i+1])
		if !ok1 || !ok2 {
			return nil, &errors.ValidationError{Field: "client", Value: hexString, Message: "contains non-hex characters"}
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
