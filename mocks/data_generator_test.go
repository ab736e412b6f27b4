package mocks

import (
	"testing"
	"time"
)

func TestDataGenerator_Generate(t *testing.T) {
	gen := NewDataGenerator(42)
	config := DefaultConfig(2022)

	data := gen.Generate(config)

	// 2022 has 260 weekdays
	if len(data) != 260 {
		t.Errorf("expected 260 bars, got %d", len(data))
	}

	for i := 1; i < len(data); i++ {
		if !data[i].Date.After(data[i-1].Date.Time) {
			t.Errorf("data not in chronological order at index %d", i)
		}
	}

	for i, d := range data {
		if d.Date.Weekday() == time.Saturday || d.Date.Weekday() == time.Sunday {
			t.Errorf("weekend bar at index %d: %s", i, d.Date)
		}

		if d.Open <= 0 || d.High <= 0 || d.Low <= 0 || d.Close <= 0 {
			t.Errorf("invalid OHLC values at index %d: O=%f H=%f L=%f C=%f",
				i, d.Open, d.High, d.Low, d.Close)
		}

		if d.High < d.Low {
			t.Errorf("High < Low at index %d: H=%f L=%f", i, d.High, d.Low)
		}
	}
}

func TestDataGenerator_Reproducible(t *testing.T) {
	config := DefaultConfig(2022)

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(42).Generate(config)

	for i := range data1 {
		if data1[i].Close != data2[i].Close {
			t.Errorf("data not reproducible at index %d: got %f and %f",
				i, data1[i].Close, data2[i].Close)
		}
	}
}

func TestDataGenerator_Different_Seeds(t *testing.T) {
	config := DefaultConfig(2022)

	data1 := NewDataGenerator(42).Generate(config)
	data2 := NewDataGenerator(123).Generate(config)

	sameCount := 0
	for i := range data1 {
		if data1[i].Close == data2[i].Close {
			sameCount++
		}
	}

	if sameCount == len(data1) {
		t.Error("different seeds produced identical data")
	}
}

func TestGenerateYear(t *testing.T) {
	data := GenerateYear(2022)

	if data[0].Date.String() != "2022-01-03" {
		t.Errorf("expected first bar on 2022-01-03, got %s", data[0].Date)
	}

	if data[len(data)-1].Date.String() != "2022-12-30" {
		t.Errorf("expected last bar on 2022-12-30, got %s", data[len(data)-1].Date)
	}
}
