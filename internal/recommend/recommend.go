// Package recommend turns a posting's age into an apply verdict, urgency level and priority score.
package recommend

import "fmt"

// Urgency classifies how quickly a posting should be acted on.
type Urgency string

const (
	UrgencyPremium Urgency = "premium"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyFresh   Urgency = "fresh"
	UrgencyRecent  Urgency = "recent"
	UrgencyStale   Urgency = "stale"
	UrgencyOld     Urgency = "old"
	UrgencyUnknown Urgency = "unknown"
)

// Decision is the headline verdict shown to the user.
type Decision string

const (
	DecisionDefinitelyApply Decision = "DEFINITELY APPLY"
	DecisionApply           Decision = "YES, APPLY"
	DecisionApplySoon       Decision = "APPLY SOON"
	DecisionMaybeTooLate    Decision = "MAYBE TOO LATE"
	DecisionDontApply       Decision = "DON'T APPLY"
	DecisionMaybeApply      Decision = "MAYBE APPLY"
)

// Age band upper bounds, in days since posting.
const (
	urgentMaxDays = 7
	freshMaxDays  = 30
	recentMaxDays = 60
	staleMaxDays  = 90
)

// Recommendation is the verdict for one posting.
type Recommendation struct {
	Apply    bool     `json:"apply"`
	Decision Decision `json:"decision"`
	Urgency  Urgency  `json:"urgency"`
	Reason   string   `json:"reason"`
}

// String renders the verdict as a single line.
func (r Recommendation) String() string {
	return fmt.Sprintf("%s - %s", r.Decision, r.Reason)
}

// Recommend maps days since posting to a verdict. A nil age means no date was
// found; that never blocks applying.
func Recommend(days *int) Recommendation {
	if days == nil {
		return Recommendation{
			Apply:    true,
			Decision: DecisionMaybeApply,
			Urgency:  UrgencyUnknown,
			Reason:   "No posting date found. Could be a new listing!",
		}
	}

	d := *days
	r := Recommendation{Urgency: UrgencyFor(days)}
	switch {
	case d < 0:
		r.Apply, r.Decision = true, DecisionDefinitelyApply
		r.Reason = "Future posting date! This might be a premium listing!"
	case d <= urgentMaxDays:
		r.Apply, r.Decision = true, DecisionDefinitelyApply
		r.Reason = fmt.Sprintf("Very fresh posting! Only %d %s old!", d, plural(d, "day"))
	case d <= freshMaxDays:
		r.Apply, r.Decision = true, DecisionApply
		r.Reason = fmt.Sprintf("Fresh posting! %d days old, good chance!", d)
	case d <= recentMaxDays:
		r.Apply, r.Decision = true, DecisionApplySoon
		r.Reason = fmt.Sprintf("%d days old. Still worth applying but act fast!", d)
	case d <= staleMaxDays:
		r.Apply, r.Decision = false, DecisionMaybeTooLate
		r.Reason = fmt.Sprintf("%d days old. Position might be filled, but you could try.", d)
	default:
		r.Apply, r.Decision = false, DecisionDontApply
		r.Reason = fmt.Sprintf("Very old posting (%d days). Likely filled or expired.", d)
	}
	return r
}

// RecommendParseFailure is the verdict when a date string was found but could not
// be interpreted. It stays distinct from the no-date verdict.
func RecommendParseFailure(raw string) Recommendation {
	return Recommendation{
		Apply:    true,
		Decision: DecisionMaybeApply,
		Urgency:  UrgencyUnknown,
		Reason:   fmt.Sprintf("Found posting date %q but couldn't parse it. Check manually!", raw),
	}
}

// UrgencyFor classifies days since posting.
func UrgencyFor(days *int) Urgency {
	if days == nil {
		return UrgencyUnknown
	}
	switch d := *days; {
	case d < 0:
		return UrgencyPremium
	case d <= urgentMaxDays:
		return UrgencyUrgent
	case d <= freshMaxDays:
		return UrgencyFresh
	case d <= recentMaxDays:
		return UrgencyRecent
	case d <= staleMaxDays:
		return UrgencyStale
	default:
		return UrgencyOld
	}
}

// Priority scores a posting from 1 (lowest) to 10. skillsMatch is an optional
// 0-100 percentage that nudges the age-based score.
func Priority(days *int, skillsMatch *float64) int {
	score := basePriority(days)
	if skillsMatch == nil {
		return score
	}

	switch m := *skillsMatch; {
	case m >= 80:
		score = min(10, score+2)
	case m >= 60:
		score = min(10, score+1)
	case m < 30:
		score = max(1, score-1)
	}
	return score
}

func basePriority(days *int) int {
	switch UrgencyFor(days) {
	case UrgencyPremium:
		return 10
	case UrgencyUrgent:
		return 9
	case UrgencyFresh:
		return 7
	case UrgencyRecent:
		return 5
	case UrgencyStale:
		return 3
	case UrgencyOld:
		return 1
	default:
		return 5
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
