package types

import (
	"sort"
	"time"
)

// DateLayout is the calendar day layout used by the remote API and the cache files.
const DateLayout = "2006-01-02"

// Date is a calendar day. It is always held at UTC midnight.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in t's location and returns it at UTC midnight.
func NewDate(t time.Time) Date {
	year, month, day := t.Date()

	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD day.
func ParseDate(value string) (Date, error) {
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return Date{}, err
	}

	return Date{Time: t}, nil
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalCSV implements gocsv.TypeMarshaller.
func (d Date) MarshalCSV() (string, error) {
	return d.String(), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
// Timestamps written with a time component (pandas DatetimeIndex) are accepted as well.
func (d *Date) UnmarshalCSV(value string) error {
	parsed, err := ParseDate(value)
	if err == nil {
		*d = parsed

		return nil
	}

	t, tsErr := time.Parse("2006-01-02 15:04:05", value)
	if tsErr != nil {
		return err
	}

	*d = NewDate(t)

	return nil
}

// PriceBar is a single daily OHLCV bar.
type PriceBar struct {
	Date   Date    `csv:"date" json:"date"`
	Open   float64 `csv:"open" json:"open"`
	High   float64 `csv:"high" json:"high"`
	Low    float64 `csv:"low" json:"low"`
	Close  float64 `csv:"close" json:"close"`
	Volume float64 `csv:"volume" json:"volume"`
}

// Dataset is a date-keyed series of daily bars for an underlying or an option chain.
// A dataset with zero bars is valid and means the remote had no data.
type Dataset struct {
	Bars []PriceBar
}

// NewDataset builds a normalized dataset from the given bars.
func NewDataset(bars []PriceBar) Dataset {
	return Dataset{Bars: bars}.Normalize()
}

// Len returns the number of bars.
func (d Dataset) Len() int {
	return len(d.Bars)
}

// IsEmpty reports whether the dataset has no bars.
func (d Dataset) IsEmpty() bool {
	return len(d.Bars) == 0
}

// Normalize returns a copy of the dataset indexed by date: bars sorted ascending
// with a single bar per date. When a date repeats, the last bar seen wins.
func (d Dataset) Normalize() Dataset {
	if len(d.Bars) == 0 {
		return Dataset{Bars: []PriceBar{}}
	}

	byDate := make(map[Date]PriceBar, len(d.Bars))
	for _, bar := range d.Bars {
		byDate[NewDate(bar.Date.Time)] = bar
	}

	bars := make([]PriceBar, 0, len(byDate))
	for date, bar := range byDate {
		bar.Date = date
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date.Time)
	})

	return Dataset{Bars: bars}
}

// Between returns the bars whose date falls in [start, end).
// The dataset must be normalized.
func (d Dataset) Between(start, end time.Time) []PriceBar {
	lo := sort.Search(len(d.Bars), func(i int) bool {
		return !d.Bars[i].Date.Before(start)
	})
	hi := sort.Search(len(d.Bars), func(i int) bool {
		return !d.Bars[i].Date.Before(end)
	})

	if lo >= hi {
		return nil
	}

	return d.Bars[lo:hi]
}
