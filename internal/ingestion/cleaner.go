package ingestion

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// JobContent is the cleaned body of a posting plus best-effort labels.
type JobContent struct {
	Content  string `json:"content"`
	Company  string `json:"company"`
	JobTitle string `json:"job_title"`
}

const (
	// UnknownCompany and UnknownTitle are used when no label could be found.
	UnknownCompany = "Unknown"
	UnknownTitle   = "Unknown Position"

	minSectionLength   = 100
	minParagraphLength = 50
)

// noiseTags never carry posting text.
var noiseTags = "script, style, nav, header, footer, aside, iframe, noscript, form, input, button"

// boilerplateMarkers are matched as substrings of class and id attributes.
var boilerplateMarkers = []string{
	"navigation", "menu", "sidebar", "footer", "header", "cookie", "banner", "advertisement", "social",
}

// contentTiers are tried in order; the first tier yielding a qualifying section wins.
var contentTiers = [][]string{
	{
		`[class*="job-description"]`, `[id*="job-description"]`,
		`[class*="job-content"]`, `[id*="job-content"]`,
		`[class*="position-description"]`, `[class*="role-description"]`,
		`[class*="job-details"]`, `[id*="job-details"]`,
		`[class*="requirements"]`, `[id*="requirements"]`,
		`[class*="qualifications"]`, `[id*="qualifications"]`,
		`[class*="responsibilities"]`, `[id*="responsibilities"]`,
	},
	{
		`div[class*="job"]`, `section[class*="job"]`, `article[class*="job"]`,
		`div[class*="position"]`, `div[class*="role"]`,
		`div[class*="description"]`, `section[class*="description"]`,
		`div[class*="content"]`, `section[class*="content"]`,
		`.job-posting`, `.job-listing`, `.position-details`,
	},
	{
		`main`, `article`, `[role="main"]`, `.main-content`,
		`div[class*="container"]`, `div[class*="wrapper"]`,
	},
}

var sectionKeywords = []string{
	"experience", "requirements", "responsibilities",
	"qualifications", "skills", "education", "years",
	"bachelor", "master", "degree", "position", "role",
	"candidate", "applicant", "we are looking", "you will",
	"required", "preferred", "must have", "should have",
}

var paragraphKeywords = []string{
	"experience", "requirements", "responsibilities",
	"qualifications", "skills", "position", "role",
	"candidate", "years of experience", "degree",
	"we are looking", "you will", "required", "preferred",
}

// skipPhrases mark site chrome in the body fallback.
var skipPhrases = []string{
	"cookie", "privacy policy", "terms of service",
	"copyright", "© 20", "all rights reserved",
	"follow us", "social media", "newsletter",
	"loading", "please wait", "javascript",
	"browser", "enable cookies", "accept",
}

var markupPattern = regexp.MustCompile(`(?i)<(?:!doctype|!--|/?[a-z][a-z0-9-]*(?:\s[^<>]*)?/?>)`)

// ExtractJobContent strips page chrome from raw markup and returns the posting text with
// a company name and job title. The content is a single whitespace-normalized string
// with noise tokens removed. pageURL only feeds the company fallback. Input without
// markup is taken as already-cleaned text and only normalized. It never fails: anything
// that cannot be found degrades to empty content or a placeholder label.
func ExtractJobContent(raw, pageURL string) JobContent {
	if !markupPattern.MatchString(raw) {
		return JobContent{
			Content:  CleanText(raw),
			Company:  companyFallback(pageURL),
			JobTitle: UnknownTitle,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		slog.Warn("failed to parse page markup", "url", pageURL, "error", err)
		return JobContent{Company: companyFallback(pageURL), JobTitle: UnknownTitle}
	}

	// Labels often live in <header>, so read them before chrome is removed.
	company := extractCompany(doc, pageURL)
	title := extractTitle(doc)

	removeBoilerplate(doc)

	sections := findSections(doc)
	if len(sections) == 0 {
		sections = bodyParagraphs(doc)
	}

	content := CleanText(strings.Join(sections, " "))

	slog.Debug("extracted job content", "url", pageURL, "chars", len(content), "sections", len(sections))

	return JobContent{Content: content, Company: company, JobTitle: title}
}

func removeBoilerplate(doc *goquery.Document) {
	doc.Find(noiseTags).Remove()

	doc.Find("[class], [id]").Each(func(_ int, s *goquery.Selection) {
		if s.Is("html, body") {
			return
		}
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		class, id = strings.ToLower(class), strings.ToLower(id)
		for _, m := range boilerplateMarkers {
			if strings.Contains(class, m) || strings.Contains(id, m) {
				s.Remove()
				return
			}
		}
	})
}

// findSections returns the block text of every qualifying element in the first
// productive tier. Elements nested in (or wrapping) an already chosen one are skipped.
func findSections(doc *goquery.Document) []string {
	for _, tier := range contentTiers {
		var (
			chosen   []*html.Node
			sections []string
			seen     = map[string]bool{}
		)
		for _, selector := range tier {
			doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
				node := s.Get(0)
				for _, c := range chosen {
					if contains(c, node) || contains(node, c) {
						return
					}
				}
				text := blockText(node)
				flat := collapseWhitespace(text)
				if !qualifies(flat, minSectionLength+1, sectionKeywords) || seen[flat] {
					return
				}
				seen[flat] = true
				chosen = append(chosen, node)
				sections = append(sections, text)
			})
		}
		if len(sections) > 0 {
			return sections
		}
	}
	return nil
}

// bodyParagraphs splits the whole body into lines and keeps those that read like posting text.
func bodyParagraphs(doc *goquery.Document) []string {
	body := doc.Find("body")
	if body.Length() == 0 {
		return nil
	}

	var kept []string
	for _, line := range strings.Split(blockText(body.Get(0)), "\n") {
		para := collapseWhitespace(line)
		if utf8.RuneCountInString(para) < minParagraphLength {
			continue
		}
		lower := strings.ToLower(para)
		if containsAny(lower, skipPhrases) {
			continue
		}
		if containsAny(lower, paragraphKeywords) {
			kept = append(kept, para)
		}
	}
	return kept
}

func qualifies(text string, minLen int, keywords []string) bool {
	if utf8.RuneCountInString(text) < minLen {
		return false
	}
	return containsAny(strings.ToLower(text), keywords)
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
