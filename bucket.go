package goJobStats

import (
	"fmt"
	"time"
)

// fineBucketID renders the 1-minute rollup bucket id for a UTC timestamp:
// "yymmdd|H:MM" with an unpadded hour. Readers of the stored metrics parse
// this format; do not change it.
func fineBucketID(at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("%02d%02d%02d|%d:%02d",
		at.Year()%100, int(at.Month()), at.Day(), at.Hour(), at.Minute())
}

// coarseBucketID is the fine bucket id with the final minute digit dropped,
// widening the window to 10 minutes.
func coarseBucketID(at time.Time) string {
	id := fineBucketID(at)
	return id[:len(id)-1]
}

func bucketKey(prefix, bucketID string) string {
	return prefix + "|" + bucketID
}
