package ntp

import (
	"math/bits"
	"time"
)

const (
	EraLength     int64 = 4_294_967_296 // 2^32
	UnixEraOffset int64 = 2_208_988_800 // 1970 - 1900 in seconds
)

// SwapByteOrder reverses the four bytes of v.
func SwapByteOrder(v uint32) uint32 {
	return bits.ReverseBytes32(v)
}

// RawField is ts as it sits in memory on a little-endian host that copied the
// wire bytes verbatim, without decoding them.
func RawField(ts TimestampEncoded) uint64 {
	return bits.ReverseBytes64(ts)
}

// ToCalendarTime reads the seconds of a raw (undecoded) timestamp field. The
// seconds are in the low 32 bits with their bytes reversed. Only era 0 is
// supported, so anything after 2036-02-07T06:28:15Z can't be represented.
func ToCalendarTime(raw uint64) time.Time {
	seconds := SwapByteOrder(uint32(raw))
	return NTPEpoch.Add(time.Duration(seconds) * time.Second)
}

// Seconds is the integer part of a decoded timestamp.
func Seconds(ts TimestampEncoded) uint32 {
	return uint32(ts >> 32)
}

// TimestampToTime converts a decoded timestamp to UTC, dropping the fraction.
// Same era 0 limit as ToCalendarTime.
func TimestampToTime(ts TimestampEncoded) time.Time {
	return NTPEpoch.Add(time.Duration(Seconds(ts)) * time.Second)
}

func TimeToTimestamp(t time.Time) TimestampEncoded {
	sec := t.Unix() + UnixEraOffset
	frac := uint64(t.Nanosecond()) * uint64(EraLength) / 1e9
	return TimestampEncoded(uint64(sec)<<32 | frac)
}
