package ntp

import "golang.org/x/sys/unix"

func GetSystemTime() TimestampEncoded {
	var unixTime unix.Timespec
	unix.ClockGettime(unix.CLOCK_REALTIME, &unixTime)
	return UnixToNTPTimestampEncoded(unixTime)
}

func UnixToNTPTimestampEncoded(time unix.Timespec) TimestampEncoded {
	return TimestampEncoded((time.Sec+UnixEraOffset)<<32) +
		TimestampEncoded(float64(time.Nsec)/1e9*float64(EraLength))
}
