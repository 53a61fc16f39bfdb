package sntp

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/beevik/ntp"
)

type Verification struct {
	ReferenceTime time.Time // server transmit time as seen by beevik/ntp
	Skew          time.Duration
}

// Verify queries the same server with github.com/beevik/ntp and reports how
// far its transmit time is from our decoded receive time. Servers answer fast,
// so anything beyond a couple of seconds points at a decoding problem.
func Verify(result *QueryResult, timeout time.Duration) (*Verification, error) {
	// beevik/ntp appends the port itself, it wants the bare host
	host, portStr, err := net.SplitHostPort(result.Server)
	if err != nil {
		return nil, fmt.Errorf("server address %q: %w", result.Server, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("server port %q: %w", portStr, err)
	}

	r, err := ntp.QueryWithOptions(host, ntp.QueryOptions{Version: 4, Timeout: timeout, Port: port})
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	skew := r.Time.Sub(result.Time)
	debug("beevik/ntp time", r.Time, "skew", skew)
	return &Verification{ReferenceTime: r.Time, Skew: skew}, nil
}
