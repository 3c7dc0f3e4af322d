package dates

import (
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// metaDateNames are matched against the itemprop, name and property attributes of <meta>.
var metaDateNames = []string{"datePosted", "date", "article:published_time"}

// lineFieldPatterns match `"field": "value"` pairs within a single line.
var lineFieldPatterns = compileAll(
	`(?i)"datePosted":\s*"([^"]+)"`,
	`(?i)"publishedDate":\s*"([^"]+)"`,
	`(?i)"createdDate":\s*"([^"]+)"`,
	`(?i)"postingDate":\s*"([^"]+)"`,
	`(?i)"date_posted":\s*"([^"]+)"`,
	`(?i)"posted_date":\s*"([^"]+)"`,
	`(?i)"dateCreated":\s*"([^"]+)"`,
	`(?i)"created":\s*"([^"]+)"`,
	`(?i)"published":\s*"([^"]+)"`,
)

// textPatterns find dates in free text. Group 1 is the date value.
var textPatterns = compileAll(
	`(?i)posted[:\s]+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
	`(?i)published[:\s]+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
	`(?i)created[:\s]+(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4})`,
	`(\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2})`,
	`(\d{4}-\d{2}-\d{2})`,
	`(?i)(\d{1,2}\s+(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{4})`,
	`(?i)((?:mon|tue|wed|thu|fri|sat|sun),\s+\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\s+\d{4}\s+\d{2}:\d{2}:\d{2}\s*[+-]\d{4})`,
	`(D:\d{14}(?:[+-]\d{2}'?\d{2}'?)?)`,
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// page is the raw text of a posting with a lazily parsed DOM.
type page struct {
	raw    string
	doc    *goquery.Document
	parsed bool
}

func (p *page) document() *goquery.Document {
	if !p.parsed {
		p.parsed = true
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.raw))
		if err == nil {
			p.doc = doc
		}
	}
	return p.doc
}

type strategy struct {
	source Source
	run    func(e *Extractor, p *page, today time.Time) *Candidate
}

// cascade is evaluated in order; the first non-nil result wins.
var cascade = []strategy{
	{SourceMetaTag, (*Extractor).fromMetaTags},
	{SourceStructuredData, (*Extractor).fromStructuredData},
	{SourceLinePattern, (*Extractor).fromLinePatterns},
	{SourceTextPattern, (*Extractor).fromTextPatterns},
}

// Extractor runs the date extraction cascade over raw page text.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract returns the posting date candidate of the first strategy that finds one,
// or nil when no strategy matches. It never fails: malformed markup or JSON only
// makes the affected strategy come up empty.
func (e *Extractor) Extract(raw string, today time.Time) *Candidate {
	p := &page{raw: raw}
	for _, s := range cascade {
		if c := s.run(e, p, today); c != nil {
			e.logger.Info("found posting date",
				"source", c.Source, "date", c.NormalizedText, "original", c.RawText)
			return c
		}
	}
	e.logger.Warn("no posting date found in page content")
	return nil
}

func (e *Extractor) fromMetaTags(p *page, today time.Time) *Candidate {
	doc := p.document()
	if doc == nil {
		return nil
	}

	var found []Candidate
	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok || strings.TrimSpace(content) == "" {
			return
		}
		for _, attr := range []string{"itemprop", "name", "property"} {
			if v, ok := s.Attr(attr); ok && isMetaDateName(v) {
				found = append(found, newCandidate(strings.TrimSpace(content), SourceMetaTag))
				return
			}
		}
	})

	return SelectBest(found, today, e.logger)
}

func isMetaDateName(v string) bool {
	v = strings.TrimSpace(v)
	for _, name := range metaDateNames {
		if strings.EqualFold(v, name) {
			return true
		}
	}
	return false
}

func (e *Extractor) fromStructuredData(p *page, today time.Time) *Candidate {
	doc := p.document()
	if doc == nil {
		return nil
	}

	var found []Candidate
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		typ, _ := s.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return
		}
		root, err := decodeOrdered(strings.TrimSpace(s.Text()))
		if err != nil {
			e.logger.Debug("skipping malformed JSON-LD block", "error", err)
			return
		}
		if v, ok := findDateValue(root); ok {
			found = append(found, Candidate{RawText: v, NormalizedText: v, Source: SourceStructuredData})
		}
	})

	return SelectBest(found, today, e.logger)
}

func (e *Extractor) fromLinePatterns(p *page, today time.Time) *Candidate {
	for _, line := range strings.Split(p.raw, "\n") {
		for _, re := range lineFieldPatterns {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			c := Candidate{RawText: m[1], NormalizedText: m[1], Source: SourceLinePattern}
			c.Annotate(today)
			return &c
		}
	}
	return nil
}

func (e *Extractor) fromTextPatterns(p *page, today time.Time) *Candidate {
	var found []Candidate
	for _, re := range textPatterns {
		for _, m := range re.FindAllStringSubmatch(p.raw, -1) {
			found = append(found, newCandidate(m[1], SourceTextPattern))
		}
	}
	return SelectBest(found, today, e.logger)
}
