package cli

import (
	"net/netip"

	"github.com/spf13/pflag"

	"github.com/nslatency/mig/internal/errors"
)

// ReflectorOptions holds the reflector binary's parsed configuration.
type ReflectorOptions struct {
	Address netip.Addr
	Port    uint16
	Output  string // "" means no dump file configured
}

const reflectorUsage = `server - dummy DNS performance measurement server
         only responds to A query with the same A record)

Usage: mig-reflector <options>

Options:
	-a, --address - IPv4 address to listen on (required);
	-p, --port    - port (default 53);
	-o, --output  - report send and receive timestamps to given file (limited to 10.000.000 items);
	-h, --help    - this message.
`

// ParseReflectorOptions parses args (excluding the program name) into a
// ReflectorOptions. helpRequested is true when -h/--help was given.
func ParseReflectorOptions(args []string) (opts ReflectorOptions, helpRequested bool, err error) {
	fs := pflag.NewFlagSet("mig-reflector", pflag.ContinueOnError)
	fs.Usage = func() {}

	address := fs.StringP("address", "a", "", "IPv4 address to listen on (required)")
	port := fs.Uint16P("port", "p", 53, "port")
	output := fs.StringP("output", "o", "", "report send and receive timestamps to given file")
	help := fs.BoolP("help", "h", false, "this message")

	if err := fs.Parse(args); err != nil {
		return ReflectorOptions{}, false, &errors.ValidationError{Field: "args", Message: err.Error()}
	}
	if *help {
		return ReflectorOptions{}, true, nil
	}

	if *address == "" {
		return ReflectorOptions{}, false, &errors.ValidationError{Field: "address", Message: "-a/--address is required"}
	}
	addr, parseErr := netip.ParseAddr(*address)
	if parseErr != nil || !addr.Is4() {
		return ReflectorOptions{}, false, &errors.ValidationError{Field: "address", Value: *address, Message: "must be an IPv4 address"}
	}

	return ReflectorOptions{
		Address: addr,
		Port:    *port,
		Output:  *output,
	}, false, nil
}

// ReflectorUsage returns the reflector's usage text.
func ReflectorUsage() string {
	return reflectorUsage
}
