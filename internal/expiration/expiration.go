// Package expiration computes standard monthly option expiration dates (third Fridays).
package expiration

import "time"

// NextExpiration returns the third Friday following d, given that d is itself a third Friday.
// It steps four weeks ahead and adds one more week when that lands before the 15th.
func NextExpiration(d time.Time) time.Time {
	next := d.AddDate(0, 0, 28)
	if next.Day() >= 15 {
		return next
	}

	return next.AddDate(0, 0, 7)
}

// ThirdFriday returns the third Friday of the given month, anchored on the first of the month.
func ThirdFriday(year int, month time.Month) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(time.Friday) - int(first.Weekday()) + 7) % 7

	return first.AddDate(0, 0, offset+14)
}

// MonthlyExpiration is the expiration whose chains are downloaded for month m:
// the third Friday of the month after m.
func MonthlyExpiration(year int, month time.Month) time.Time {
	return NextExpiration(ThirdFriday(year, month))
}
