package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePostingHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Senior Go Engineer at Acme Robotics</title>
  <meta property="og:site_name" content="Acme Robotics">
  <meta property="og:title" content="Senior Go Engineer">
</head>
<body>
  <header class="site-header"><h1 class="logo">Acme</h1><nav>Home Jobs About</nav></header>
  <div class="cookie-banner">We use cookies to improve your experience. Accept all cookies to continue browsing.</div>
  <main>
    <h1 class="job-title">Senior Go Engineer</h1>
    <div class="job-description">
      <p>We are looking for a backend engineer with 5+ years of experience building distributed systems in Go.</p>
      <ul>
        <li>Design APIs with PostgreSQL and Redis</li>
        <li>Deploy on Kubernetes and AWS</li>
      </ul>
      <div class="social-share">Share this role with your network on every platform you use today</div>
    </div>
    <div class="requirements">
      <p>Requirements: strong communication skills, a degree in computer science or equivalent practical experience.</p>
    </div>
  </main>
  <footer>&copy; 2025 Acme Robotics. All rights reserved.</footer>
  <script>var tracking = "react";</script>
</body>
</html>`

func TestExtractJobContent_HighPriorityTier(t *testing.T) {
	job := ExtractJobContent(samplePostingHTML, "https://careers.acme.com/jobs/1")

	assert.Equal(t, "Acme Robotics", job.Company)
	assert.Equal(t, "Senior Go Engineer", job.JobTitle)

	assert.Equal(t, "We are looking for a backend engineer with 5+ years of experience building distributed systems in Go. "+
		"Design APIs with PostgreSQL and Redis "+
		"Deploy on Kubernetes and AWS "+
		"Requirements: strong communication skills, a degree in computer science or equivalent practical experience.",
		job.Content)
}

func TestExtractJobContent_ListItemsJoinIntoOneLine(t *testing.T) {
	html := `<html><body>
		<div class="job-description">
			<p>We are looking for a backend engineer with several years of experience shipping production services.</p>
			<h3>Requirements</h3>
			<ul><li>Python</li><li>Docker</li><li>AWS</li><li>Kubernetes</li><li>Go</li></ul>
		</div>
	</body></html>`

	job := ExtractJobContent(html, "")

	assert.NotContains(t, job.Content, "\n")
	assert.True(t, strings.HasSuffix(job.Content, "Requirements Python Docker AWS Kubernetes Go"), job.Content)
	assert.Equal(t, job.Content, strings.Join(strings.Fields(job.Content), " "))
}

func TestExtractJobContent_RemovesChrome(t *testing.T) {
	job := ExtractJobContent(samplePostingHTML, "")

	for _, noise := range []string{"cookies", "Home Jobs", "All rights reserved", "tracking", "Share this role"} {
		assert.NotContains(t, job.Content, noise)
	}
}

func TestExtractJobContent_MediumTierSkipsNestedElements(t *testing.T) {
	html := `<html><body>
		<div class="job-wrapper">
			<div class="description">
				<p>You will design and operate the ingestion pipeline that powers our analytics products for enterprise customers.</p>
			</div>
		</div>
	</body></html>`

	job := ExtractJobContent(html, "")

	assert.Equal(t, 1, strings.Count(job.Content, "You will design"))
	assert.Contains(t, job.Content, "enterprise customers.")
}

func TestExtractJobContent_LowTier(t *testing.T) {
	html := `<html><body>
		<article>
			<p>The successful candidate brings three years of Python and SQL and enjoys working with product managers daily.</p>
		</article>
	</body></html>`

	job := ExtractJobContent(html, "")

	assert.Equal(t, "The successful candidate brings three years of Python and SQL and enjoys working with product managers daily.", job.Content)
}

func TestExtractJobContent_HigherTierWins(t *testing.T) {
	html := `<html><body>
		<div class="qualifications">
			<p>Qualifications: a degree in statistics, experience with Spark, and an appetite for messy real world data.</p>
		</div>
		<article>
			<p>Our culture page: the role of every team member is to experience growth, learning and plenty of good coffee.</p>
		</article>
	</body></html>`

	job := ExtractJobContent(html, "")

	assert.Contains(t, job.Content, "Qualifications:")
	assert.NotContains(t, job.Content, "culture page")
}

func TestExtractJobContent_ShortBlocksFallBackToParagraphs(t *testing.T) {
	html := `<html><body>
		<div class="job-description"><p>Role: Engineer</p></div>
		<p>You will own the billing platform and mentor two engineers on the payments team.</p>
		<p>Please accept our cookie policy so that the position listings can load properly.</p>
		<p>Skills: Go</p>
		<p>Our office has a lovely view of the harbour and a very well stocked kitchen area.</p>
	</body></html>`

	job := ExtractJobContent(html, "")

	assert.Equal(t, "You will own the billing platform and mentor two engineers on the payments team.", job.Content)
}

func TestExtractJobContent_NoContent(t *testing.T) {
	job := ExtractJobContent(`<html><body><p>hello</p></body></html>`, "")

	assert.Empty(t, job.Content)
	assert.Equal(t, UnknownCompany, job.Company)
	assert.Equal(t, UnknownTitle, job.JobTitle)
}

func TestExtractJobContent_PlainText(t *testing.T) {
	job := ExtractJobContent("Senior Go engineer\n\n\nWe   need  Go and  Kafka", "https://www.globex.com/jobs/7")

	assert.Equal(t, "Senior Go engineer We need Go and Kafka", job.Content)
	assert.Equal(t, "Globex", job.Company)
	assert.Equal(t, UnknownTitle, job.JobTitle)
}

func TestExtractJobContent_EmptyInput(t *testing.T) {
	job := ExtractJobContent("", "")

	assert.Empty(t, job.Content)
	assert.Equal(t, UnknownCompany, job.Company)
	assert.Equal(t, UnknownTitle, job.JobTitle)
}

func TestExtractJobContent_RecleaningIsNotDestructive(t *testing.T) {
	first := ExtractJobContent(samplePostingHTML, "https://careers.acme.com/jobs/1")
	require.NotEmpty(t, first.Content)

	second := ExtractJobContent(first.Content, "https://careers.acme.com/jobs/1")

	assert.GreaterOrEqual(t, len(second.Content), len(first.Content))
	assert.Equal(t, first.Content, second.Content)
}

func TestExtractJobContent_DropsNoiseTokens(t *testing.T) {
	html := `<html><body><div class="job-details"><p>Experience with Terraform is required. Build id ` +
		`a94a8fe5ccb19ba61c4c0873d391e987982fbbd3 was deployed. ` + strings.Repeat("Z", 60) +
		` Candidates should enjoy on-call rotations.</p></div></body></html>`

	job := ExtractJobContent(html, "")

	assert.Equal(t, "Experience with Terraform is required. Build id was deployed. Candidates should enjoy on-call rotations.", job.Content)
}

func TestExtractCompany(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
		want string
	}{
		{
			name: "site name meta",
			html: `<head><meta property="og:site_name" content="Initech"><title>Careers</title></head>`,
			want: "Initech",
		},
		{
			name: "company class",
			html: `<body><span class="company-name"> Hooli  Inc </span><h1>Jobs</h1></body>`,
			want: "Hooli Inc",
		},
		{
			name: "overlong candidates fall back to domain",
			html: `<head><title>` + strings.Repeat("t", 120) + `</title></head><body><p>x</p></body>`,
			url:  "https://www.globex.com/jobs",
			want: "Globex",
		},
		{
			name: "nothing usable",
			html: `<body><p>x</p></body>`,
			want: UnknownCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := ExtractJobContent("<html>"+tt.html+"</html>", tt.url)
			assert.Equal(t, tt.want, job.Company)
		})
	}
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"job heading", `<body><h1 class="posting-job-name">Data Engineer</h1></body>`, "Data Engineer"},
		{"title class", `<body><div class="role-title">Platform Lead</div></body>`, "Platform Lead"},
		{"og title", `<head><meta property="og:title" content="SRE II"><title>Careers | Globex</title></head>`, "SRE II"},
		{"document title", `<head><title>Careers | Globex</title></head>`, "Careers | Globex"},
		{"none", `<body><p>x</p></body>`, UnknownTitle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := ExtractJobContent("<html>"+tt.html+"</html>", "")
			assert.Equal(t, tt.want, job.JobTitle)
		})
	}
}
