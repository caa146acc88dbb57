package availability

import "time"

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}

	return b
}
