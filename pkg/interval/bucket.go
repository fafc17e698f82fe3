package interval

import (
	"time"
)

// CalculateBucketTime calculates the start time of the interval bucket
func (i Interval) CalculateBucketTime(timestamp time.Time) time.Time {
	switch i.Name {
	case "1m":
		return timestamp.Truncate(time.Minute)
	case "5m":
		return timestamp.Truncate(5 * time.Minute)
	case "15m":
		return timestamp.Truncate(15 * time.Minute)
	case "30m":
		return timestamp.Truncate(30 * time.Minute)
	case "1h":
		return timestamp.Truncate(time.Hour)
	case "4h":
		return timestamp.Truncate(4 * time.Hour)
	case "1d":
		return time.Date(timestamp.Year(), timestamp.Month(), timestamp.Day(), 0, 0, 0, 0, timestamp.Location())
	case "1w":
		// Truncate to start of week (Monday)
		days := int(timestamp.Weekday())
		if days == 0 { // Sunday
			days = 7
		}
		start := timestamp.AddDate(0, 0, 1-days)
		return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, timestamp.Location())
	case "1mo":
		return time.Date(timestamp.Year(), timestamp.Month(), 1, 0, 0, 0, 0, timestamp.Location())
	default:
		return timestamp.Truncate(i.Duration)
	}
}

// NextBucketTime returns the start time of the bucket following the one that
// contains timestamp. Calendar intervals advance by calendar units.
func (i Interval) NextBucketTime(timestamp time.Time) time.Time {
	start := i.CalculateBucketTime(timestamp)
	switch i.Name {
	case "1w":
		return start.AddDate(0, 0, 7)
	case "1mo":
		return start.AddDate(0, 1, 0)
	default:
		return start.Add(i.Duration)
	}
}

// GetBucketRange returns the start and end time of the interval bucket
func (i Interval) GetBucketRange(timestamp time.Time) (start, end time.Time) {
	start = i.CalculateBucketTime(timestamp)
	end = i.NextBucketTime(timestamp)
	return start, end
}

// IsInBucket checks if a timestamp falls within the same bucket as another timestamp
func (i Interval) IsInBucket(timestamp1, timestamp2 time.Time) bool {
	bucket1 := i.CalculateBucketTime(timestamp1)
	bucket2 := i.CalculateBucketTime(timestamp2)
	return bucket1.Equal(bucket2)
}

// LookbackWindow returns the earliest timestamp that can contribute to the
// most recent `limit` buckets ending at now.
func (i Interval) LookbackWindow(now time.Time, limit int) time.Time {
	if limit <= 0 {
		limit = 1
	}
	switch i.Name {
	case "1w":
		return i.CalculateBucketTime(now).AddDate(0, 0, -7*(limit-1))
	case "1mo":
		return i.CalculateBucketTime(now).AddDate(0, -(limit - 1), 0)
	default:
		return i.CalculateBucketTime(now).Add(-time.Duration(limit-1) * i.Duration)
	}
}
