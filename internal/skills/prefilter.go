package skills

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	minLineLength   = 10
	minCorpusLength = 100
)

// skipLinePatterns match lines that are code, markup or legal boilerplate rather than
// posting text. They run against the lower-cased line.
var skipLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-f0-9]{20,}$`),
	regexp.MustCompile(`function\s*\(`),
	regexp.MustCompile(`var\s+\w+\s*=`),
	regexp.MustCompile(`window\.\w+`),
	regexp.MustCompile(`document\.\w+`),
	regexp.MustCompile(`/[\w.-]+\.js$`),
	regexp.MustCompile(`/[\w.-]+\.css$`),
	regexp.MustCompile(`console\.log`),
	regexp.MustCompile(`addeventlistener`),
	regexp.MustCompile(`getelementbyid`),
	regexp.MustCompile(`innerhtml`),
	regexp.MustCompile(`classname`),
	regexp.MustCompile(`loading\.\.\.+`),
	regexp.MustCompile(`please wait`),
	regexp.MustCompile(`privacy policy`),
	regexp.MustCompile(`terms of service`),
	regexp.MustCompile(`cookie policy`),
	regexp.MustCompile(`©\s*20\d{2}`),
}

// buildCorpus keeps lines that look like prose and joins them with single spaces.
func buildCorpus(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minLineLength || isSkippedLine(strings.ToLower(line)) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, " ")
}

func isSkippedLine(lower string) bool {
	for _, re := range skipLinePatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}
