package postgres

import "time"

func fromEpoch(seconds int64) time.Time {
	return time.Unix(seconds, 0).UTC()
}
