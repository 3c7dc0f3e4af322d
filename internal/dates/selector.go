package dates

import (
	"log/slog"
	"time"
)

// SelectBest picks the most plausible candidate.
//
// Every candidate is parsed; unparseable ones are dropped. Among past-or-today dates
// the most recent wins. When only future dates exist the furthest one wins, which
// surfaces deliberately future-dated "fresh" postings. Ties keep input order. When
// nothing parses the first candidate is returned unparsed. Empty input returns nil.
func SelectBest(candidates []Candidate, today time.Time, logger *slog.Logger) *Candidate {
	if len(candidates) == 0 {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	var bestPast, bestFuture *Candidate
	for i := range candidates {
		c := candidates[i]
		if !c.Annotate(today) {
			logger.Debug("dropping unparseable date candidate",
				"raw", c.RawText, "normalized", c.NormalizedText, "source", c.Source)
			continue
		}

		days := *c.DaysFromToday
		if days >= 0 {
			if bestPast == nil || days < *bestPast.DaysFromToday {
				bestPast = &c
			}
			continue
		}
		if bestFuture == nil || days < *bestFuture.DaysFromToday {
			bestFuture = &c
		}
	}

	switch {
	case bestPast != nil:
		logger.Debug("selected past date", "date", bestPast.NormalizedText, "days_ago", *bestPast.DaysFromToday)
		return bestPast
	case bestFuture != nil:
		logger.Debug("only future dates available", "date", bestFuture.NormalizedText, "days_ahead", -*bestFuture.DaysFromToday)
		return bestFuture
	}

	fallback := candidates[0]
	return &fallback
}
