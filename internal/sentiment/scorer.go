package sentiment

import (
	"fmt"
	"strings"
	"sync"

	"github.com/jonreiter/govader"
	"github.com/sirupsen/logrus"
)

// Strategy names accepted by NewScorer.
const (
	StrategyAuto    = "auto"
	StrategyVader   = "vader"
	StrategyLexicon = "lexicon"
)

// Scorer maps a headline to a polarity in [-1, 1].
// Score must be deterministic and return exactly 0 for blank text.
type Scorer interface {
	Name() string
	Score(text string) float64
}

// VaderScorer scores text with the VADER compound polarity.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the VADER lexicon. The library panics when its embedded
// assets cannot be read; that is reported as an error.
func NewVaderScorer() (s *VaderScorer, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("load vader lexicon: %v", r)
		}
	}()
	analyzer := govader.NewSentimentIntensityAnalyzer()
	if analyzer == nil || len(analyzer.Lexicon) == 0 {
		return nil, fmt.Errorf("load vader lexicon: empty lexicon")
	}
	return &VaderScorer{analyzer: analyzer}, nil
}

func (v *VaderScorer) Name() string { return StrategyVader }

func (v *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clamp(v.analyzer.PolarityScores(text).Compound)
}

func clamp(x float64) float64 {
	switch {
	case x > 1:
		return 1
	case x < -1:
		return -1
	}
	return x
}

var fallbackNotice sync.Once

// NewScorer builds the scorer for a strategy. "auto" and "vader" try the VADER
// model first and fall back to the lexicon with a single notice per process.
func NewScorer(strategy string, logger *logrus.Logger) Scorer {
	if strategy == StrategyLexicon {
		return NewLexiconScorer()
	}
	vader, err := NewVaderScorer()
	if err != nil {
		fallbackNotice.Do(func() {
			logger.WithFields(logrus.Fields{
				"requested": strategy,
				"reason":    err.Error(),
			}).Info("vader model not available, using lexicon sentiment")
		})
		return NewLexiconScorer()
	}
	return vader
}
