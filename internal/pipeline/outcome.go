package pipeline

// Outcome is the terminal state of the posting-date path for one analysis.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeExtractionMiss Outcome = "extraction_miss"
	OutcomeParseFailure   Outcome = "parse_failure"
)

// Message describes the outcome for display. A missing date and an unreadable
// date always produce different text.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return "Posting date found"
	case OutcomeExtractionMiss:
		return "No posting date found on the page"
	case OutcomeParseFailure:
		return "A posting date was found but could not be interpreted"
	default:
		return "Unknown outcome"
	}
}
