// Package skills finds mentions of known technical skills in cleaned job posting text.
package skills

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

// DefaultTerms is the built-in vocabulary, grouped by area. All entries are lower case.
var DefaultTerms = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "ruby", "php", "swift", "kotlin",
	"scala", "r", "matlab", "perl", "shell", "bash", "powershell", "sql", "html", "css", "dart", "elixir",

	// Web
	"react", "angular", "vue", "node.js", "express", "django", "flask", "spring", "laravel", "rails",
	"asp.net", "blazor", "next.js", "nuxt.js", "svelte", "ember", "backbone", "jquery", "bootstrap",
	"tailwind", "sass", "less", "webpack", "vite", "parcel", "rollup",

	// Databases
	"mysql", "postgresql", "mongodb", "redis", "sqlite", "oracle", "sql server", "cassandra", "dynamodb",
	"elasticsearch", "neo4j", "firebase", "supabase", "prisma", "sequelize", "mongoose",

	// Cloud
	"aws", "azure", "gcp", "google cloud", "heroku", "digitalocean", "linode", "vultr", "vercel", "netlify",
	"s3", "ec2", "lambda", "cloudformation", "terraform", "ansible", "puppet", "chef",

	// DevOps and tooling
	"docker", "kubernetes", "jenkins", "gitlab ci", "github actions", "circleci", "travis ci", "bamboo",
	"git", "svn", "mercurial", "nginx", "apache", "linux", "ubuntu", "centos", "debian", "windows server",

	// Data and AI
	"machine learning", "deep learning", "artificial intelligence", "data science", "big data", "analytics",
	"pandas", "numpy", "scikit-learn", "tensorflow", "pytorch", "keras", "opencv", "nltk", "spacy",
	"jupyter", "apache spark", "hadoop", "kafka", "airflow", "dbt", "snowflake", "databricks",

	// Mobile
	"android", "ios", "react native", "flutter", "xamarin", "ionic", "cordova", "phonegap",

	// Testing
	"junit", "pytest", "jest", "mocha", "chai", "selenium", "cypress", "puppeteer", "playwright",
	"postman", "newman", "k6", "jmeter",

	// Practices and protocols
	"agile", "scrum", "kanban", "waterfall", "devops", "ci/cd", "tdd", "bdd", "microservices",
	"rest api", "graphql", "grpc", "soap", "oauth", "jwt", "saml",

	// Design
	"figma", "sketch", "adobe xd", "photoshop", "illustrator", "ui/ux", "user experience", "user interface",

	// Business intelligence
	"tableau", "power bi", "qlik", "looker", "grafana", "kibana", "splunk",

	// Other
	"blockchain", "ethereum", "solidity", "web3", "nft", "cryptocurrency", "iot", "edge computing",
	"ar/vr", "unity", "unreal engine", "blender", "maya",
}

// DefaultAlternates lists extra written forms for terms that are commonly spelled
// more than one way. A space matches any run of whitespace.
var DefaultAlternates = map[string][]string{
	"react":   {"react.js", "react js"},
	"angular": {"angular.js", "angular js"},
	"vue":     {"vue.js", "vue js", "vuejs"},
	"c++":     {"cplusplus"},
	"c#":      {"c-sharp", "csharp"},
	"node.js": {"nodejs", "node js"},
	"asp.net": {"aspnet", "asp net"},
	"next.js": {"nextjs", "next js"},
}

// term is one vocabulary entry with its compiled match patterns.
type term struct {
	name     string
	patterns []*regexp.Regexp
}

// Vocabulary is an immutable, compiled set of skill terms.
type Vocabulary struct {
	terms []term
}

// NewVocabulary compiles terms and their alternates. Terms are lower-cased and
// de-duplicated; iteration order is alphabetical.
func NewVocabulary(terms []string, alternates map[string][]string) *Vocabulary {
	seen := make(map[string]bool, len(terms))
	names := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		names = append(names, t)
	}
	sort.Strings(names)

	v := &Vocabulary{terms: make([]term, 0, len(names))}
	for _, name := range names {
		v.terms = append(v.terms, term{name: name, patterns: compileForms(spellings(name, alternates[name]))})
	}
	return v
}

var defaultVocabulary = NewVocabulary(DefaultTerms, DefaultAlternates)

// DefaultVocabulary returns the built-in vocabulary.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary
}

// Terms returns the canonical term names in match order.
func (v *Vocabulary) Terms() []string {
	out := make([]string, len(v.terms))
	for i, t := range v.terms {
		out[i] = t.name
	}
	return out
}

// Len returns the number of terms.
func (v *Vocabulary) Len() int {
	return len(v.terms)
}

// spellings returns the literal term, its plural unless it already ends in "s",
// and any alternates not already present.
func spellings(name string, alternates []string) []string {
	forms := []string{name}
	if !strings.HasSuffix(name, "s") {
		forms = append(forms, name+"s")
	}
	for _, alt := range alternates {
		alt = strings.ToLower(strings.TrimSpace(alt))
		if alt != "" && !slices.Contains(forms, alt) {
			forms = append(forms, alt)
		}
	}
	return forms
}

func compileForms(forms []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(forms))
	for i, f := range forms {
		out[i] = regexp.MustCompile(formPattern(f))
	}
	return out
}

// formPattern builds a case-insensitive pattern for one spelling. Word boundaries are
// only asserted on edges that are word characters: `\bc\+\+\b` could never match "c++ ".
func formPattern(form string) string {
	parts := strings.Fields(form)
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}

	var sb strings.Builder
	sb.WriteString("(?i)")
	if isWordByte(form[0]) {
		sb.WriteString(`\b`)
	}
	sb.WriteString(strings.Join(parts, `\s+`))
	if isWordByte(form[len(form)-1]) {
		sb.WriteString(`\b`)
	}
	return sb.String()
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}
