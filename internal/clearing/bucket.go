package clearing

import (
	"fmt"
	"time"

	"brokerledger/internal/models"
)

// Bucket is the clearing bucket a ledger operation settles into.
// The set is closed: operations of unknown kinds always land in
// BucketIgnored so that new broker entry types never break a report.
type Bucket int

const (
	BucketIgnored Bucket = iota
	BucketTrade
	BucketDayClearing
	BucketEveningClearing
	BucketCommission
)

func (b Bucket) String() string {
	switch b {
	case BucketTrade:
		return "trade"
	case BucketDayClearing:
		return "day_clearing"
	case BucketEveningClearing:
		return "evening_clearing"
	case BucketCommission:
		return "commission"
	default:
		return "ignored"
	}
}

// Schedule carries the exchange trading timezone and the day-clearing
// window boundaries. The window is half-open: [DayStart, DayEnd).
// Variation margin booked at any other time of day, including the
// broker's 14:00-14:05 gap, counts as evening clearing. That matches
// the statement tables and is intentional.
type Schedule struct {
	Location *time.Location

	// Seconds since local midnight.
	DayStart int
	DayEnd   int
}

// NewSchedule builds a Schedule from a timezone name and two HH:MM:SS
// boundary strings.
func NewSchedule(tz, dayStart, dayEnd string) (Schedule, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Schedule{}, fmt.Errorf("load timezone %q: %w", tz, err)
	}
	start, err := parseClock(dayStart)
	if err != nil {
		return Schedule{}, fmt.Errorf("day window start: %w", err)
	}
	end, err := parseClock(dayEnd)
	if err != nil {
		return Schedule{}, fmt.Errorf("day window end: %w", err)
	}
	if start >= end {
		return Schedule{}, fmt.Errorf("day window start %q is not before end %q", dayStart, dayEnd)
	}
	return Schedule{Location: loc, DayStart: start, DayEnd: end}, nil
}

// Classify assigns an operation to its clearing bucket. Pure function:
// fee and trade kinds classify on kind alone, variation margin splits
// on wall-clock time of day in the schedule timezone, everything else
// is silently ignored.
func (s Schedule) Classify(op models.Operation) Bucket {
	switch op.Kind {
	case models.KindBrokerFee:
		return BucketCommission
	case models.KindTrade:
		return BucketTrade
	case models.KindVariationMargin:
		local := op.ExecutedAt.In(s.Location)
		sec := local.Hour()*3600 + local.Minute()*60 + local.Second()
		if sec >= s.DayStart && sec < s.DayEnd {
			return BucketDayClearing
		}
		return BucketEveningClearing
	default:
		return BucketIgnored
	}
}

func parseClock(v string) (int, error) {
	var h, m, s int
	if _, err := fmt.Sscanf(v, "%d:%d:%d", &h, &m, &s); err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", v, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, fmt.Errorf("clock %q out of range", v)
	}
	return h*3600 + m*60 + s, nil
}
