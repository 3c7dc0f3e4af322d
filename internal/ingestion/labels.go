package ingestion

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxCompanyLength = 100
	maxTitleLength   = 200
)

var companySelectors = []string{
	`meta[property="og:site_name"]`,
	`meta[name="author"]`,
	`meta[name="company"]`,
	`[class*="company"]`,
	`[class*="employer"]`,
	`h1`,
	`title`,
}

var titleSelectors = []string{
	`h1[class*="job"]`, `h1[class*="title"]`, `h1[class*="position"]`,
	`.job-title`, `.position-title`, `.role-title`,
	`meta[property="og:title"]`,
	`title`,
}

func extractCompany(doc *goquery.Document, pageURL string) string {
	if v := firstLabel(doc, companySelectors, maxCompanyLength); v != "" {
		return v
	}
	return companyFallback(pageURL)
}

func extractTitle(doc *goquery.Document) string {
	if v := firstLabel(doc, titleSelectors, maxTitleLength); v != "" {
		return v
	}
	return UnknownTitle
}

func companyFallback(pageURL string) string {
	if name := CompanyFromDomain(pageURL); name != "" {
		return name
	}
	return UnknownCompany
}

// firstLabel returns the value of the first element matched by the first selector that
// has one, provided it is non-empty and shorter than maxLen. A selector whose first
// match is unusable falls through to the next selector.
func firstLabel(doc *goquery.Document, selectors []string, maxLen int) string {
	for _, selector := range selectors {
		s := doc.Find(selector).First()
		if s.Length() == 0 {
			continue
		}
		var v string
		if goquery.NodeName(s) == "meta" {
			v, _ = s.Attr("content")
			v = strings.TrimSpace(v)
		} else {
			v = collapseWhitespace(s.Text())
		}
		if v != "" && utf8.RuneCountInString(v) < maxLen {
			return v
		}
	}
	return ""
}
