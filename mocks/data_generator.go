package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/argo-optchain/internal/types"
)

// DataGenerator generates realistic daily bars for testing.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Start is the first calendar day considered
	Start time.Time
	// End is the last calendar day considered (inclusive)
	End time.Time
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor across the whole series
	Trend float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns one calendar year of SPY-like weekday bars.
func DefaultConfig(year int) GeneratorConfig {
	return GeneratorConfig{
		Start:          time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:            time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		InitialPrice:   450.0,
		Volatility:     0.01,
		Trend:          0.0,
		VolumeBase:     80_000_000,
		VolumeVariance: 0.3,
	}
}

// Generate creates one bar per weekday between Start and End.
// Prices follow a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.PriceBar {
	days := weekdays(config.Start, config.End)
	bars := make([]types.PriceBar, len(days))
	currentPrice := config.InitialPrice

	for i, day := range days {
		open := currentPrice

		// Box-Muller transform for a normal sample
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(len(days))

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension
		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance
		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.PriceBar{
			Date:   types.NewDate(day),
			Open:   roundToDecimals(open, 2),
			High:   roundToDecimals(high, 2),
			Low:    roundToDecimals(low, 2),
			Close:  roundToDecimals(close, 2),
			Volume: math.Round(volume),
		}

		currentPrice = close
	}

	return bars
}

// GenerateYear is a convenience function for a full year of bars with default settings.
func GenerateYear(year int) []types.PriceBar {
	gen := NewDataGenerator(42)

	return gen.Generate(DefaultConfig(year))
}

func weekdays(start time.Time, end time.Time) []time.Time {
	var days []time.Time

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			continue
		}

		days = append(days, day)
	}

	return days
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
