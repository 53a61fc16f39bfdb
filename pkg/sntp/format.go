package sntp

import "fmt"

const TimeFormat = "2006-01-02 15:04:05 MST"

func (r *QueryResult) String() string {
	return fmt.Sprintf("Time: %s", r.Time.UTC().Format(TimeFormat))
}
