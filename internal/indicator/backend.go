package indicator

import (
	"errors"
	"fmt"
	"math"

	"github.com/guregu/null/v6"

	"SentimentPanel/internal/calculator"
)

// Backend computes the recursive indicators of a close series.
// Implementations must agree with ReferenceBackend within Tolerance.
type Backend interface {
	Name() string
	RSI(closes []float64, period int) ([]null.Float, error)
	MACD(closes []float64, fast, slow, signal int) (*calculator.MACD, error)
}

// Tolerance is the maximum relative difference allowed between backends.
const Tolerance = 1e-6

// ErrBackendUnavailable reports that a backend failed its capability probe.
var ErrBackendUnavailable = errors.New("indicator backend unavailable")

// ReferenceBackend is the in-repo implementation built on the calculator package.
type ReferenceBackend struct{}

func (ReferenceBackend) Name() string { return "reference" }

func (ReferenceBackend) RSI(closes []float64, period int) ([]null.Float, error) {
	return calculator.CalculateRSI(closes, period)
}

func (ReferenceBackend) MACD(closes []float64, fast, slow, signal int) (*calculator.MACD, error) {
	return calculator.CalculateMACD(closes, fast, slow, signal)
}

// withinTolerance compares two values relative to their magnitude, floored at 1
// so that values near zero are compared absolutely.
func withinTolerance(a, b float64) bool {
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return math.Abs(a-b) <= Tolerance*scale
}

// probeSeries is a fixed, non-monotonic close series long enough for every indicator.
func probeSeries() []float64 {
	closes := make([]float64, 80)
	for i := range closes {
		closes[i] = 50 + 4*math.Sin(float64(i)/4) + float64(i%7)*0.3
	}
	return closes
}

// Probe runs b against the reference on a fixed series and reports any divergence.
// A panic inside the backend is turned into ErrBackendUnavailable.
func Probe(b Backend) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrBackendUnavailable, b.Name(), r)
		}
	}()

	closes := probeSeries()
	ref := ReferenceBackend{}

	wantRSI, err := ref.RSI(closes, RSIPeriod)
	if err != nil {
		return err
	}
	gotRSI, err := b.RSI(closes, RSIPeriod)
	if err != nil {
		return fmt.Errorf("%w: %s rsi: %v", ErrBackendUnavailable, b.Name(), err)
	}
	if len(gotRSI) != len(wantRSI) {
		return fmt.Errorf("%w: %s rsi length %d, want %d", ErrBackendUnavailable, b.Name(), len(gotRSI), len(wantRSI))
	}
	for i := range wantRSI {
		if gotRSI[i].Valid != wantRSI[i].Valid || !withinTolerance(gotRSI[i].Float64, wantRSI[i].Float64) {
			return fmt.Errorf("%w: %s rsi diverges at index %d", ErrBackendUnavailable, b.Name(), i)
		}
	}

	wantMACD, err := ref.MACD(closes, MACDFast, MACDSlow, MACDSignal)
	if err != nil {
		return err
	}
	gotMACD, err := b.MACD(closes, MACDFast, MACDSlow, MACDSignal)
	if err != nil {
		return fmt.Errorf("%w: %s macd: %v", ErrBackendUnavailable, b.Name(), err)
	}
	if len(gotMACD.Line) != len(wantMACD.Line) || len(gotMACD.Signal) != len(wantMACD.Signal) {
		return fmt.Errorf("%w: %s macd length mismatch", ErrBackendUnavailable, b.Name())
	}
	for i := range wantMACD.Line {
		if !withinTolerance(gotMACD.Line[i], wantMACD.Line[i]) || !withinTolerance(gotMACD.Signal[i], wantMACD.Signal[i]) {
			return fmt.Errorf("%w: %s macd diverges at index %d", ErrBackendUnavailable, b.Name(), i)
		}
	}
	return nil
}
