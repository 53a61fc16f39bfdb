package ntp

import "time"

type TimestampEncoded = uint64

type Mode byte

const (
	RESERVED Mode = iota
	SYMMETRIC_ACTIVE
	SYMMETRIC_PASSIVE
	CLIENT
	SERVER
	BROADCAST_SERVER
	BROADCAST_CLIENT
	RESERVED_PRIVATE_USE
)

func (m Mode) String() string {
	switch m {
	case SYMMETRIC_ACTIVE:
		return "symmetric active"
	case SYMMETRIC_PASSIVE:
		return "symmetric passive"
	case CLIENT:
		return "client"
	case SERVER:
		return "server"
	case BROADCAST_SERVER:
		return "broadcast server"
	case BROADCAST_CLIENT:
		return "broadcast client"
	case RESERVED_PRIVATE_USE:
		return "private"
	default:
		return "reserved"
	}
}

const (
	NoWarning  byte = iota /* no leap second pending */
	LeapInsert             /* last minute has 61 seconds */
	LeapDelete             /* last minute has 59 seconds */
	NotSync                /* clock unsynchronized */
)

const (
	Port            = "123" // NTP port number
	VERSION    byte = 4     // SNTP version number
	PacketSize      = 48    // bytes on the wire, no extension fields
)

// NTPEpoch is the zero point of every NTP seconds counter.
var NTPEpoch = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// Message is one SNTP packet (RFC 4330 section 4).
type Message struct {
	Header byte /* leap indicator, version number, mode */
	Fields
}

// Fields holds everything after the header byte. It only contains fixed size
// values so encoding/binary writes it without gaps.
type Fields struct {
	Stratum            byte             /* stratum */
	Poll               uint8            /* poll interval */
	Precision          int8             /* precision */
	RootDelay          int32            /* root delay */
	RootDispersion     uint32           /* root dispersion */
	ReferenceID        uint32           /* reference ID */
	ReferenceTimestamp TimestampEncoded /* reference time */
	OriginTimestamp    TimestampEncoded /* origin timestamp */
	ReceiveTimestamp   TimestampEncoded /* receive timestamp */
	TransmitTimestamp  TimestampEncoded /* transmit timestamp */
}

func PackHeader(leap, version byte, mode Mode) byte {
	return (leap&0b11)<<6 | (version&0b111)<<3 | byte(mode)&0b111
}

func (m Message) Leap() byte {
	return m.Header >> 6
}

func (m Message) Version() byte {
	return (m.Header >> 3) & 0b111
}

func (m Message) Mode() Mode {
	return Mode(m.Header & 0b111)
}
