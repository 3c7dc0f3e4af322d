package skills

import (
	"log/slog"
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/jonathan/jobpost-checker/internal/types"
)

// Matcher counts vocabulary terms in posting text.
type Matcher struct {
	vocab  *Vocabulary
	logger *slog.Logger
}

// NewMatcher creates a Matcher. A nil vocab uses DefaultVocabulary and a nil logger
// uses slog.Default().
func NewMatcher(vocab *Vocabulary, logger *slog.Logger) *Matcher {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{vocab: vocab, logger: logger}
}

// Match scans cleaned text and returns every term with at least one valid mention,
// keyed by term. Each spelling of a term is counted on its own. The result is
// empty when the prose left after line filtering is shorter than 100 characters,
// which usually means the wrong part of the page was extracted.
func (m *Matcher) Match(text string) map[string]types.SkillOccurrence {
	corpus := buildCorpus(norm.NFKC.String(text))
	if utf8.RuneCountInString(corpus) < minCorpusLength {
		m.logger.Warn("filtered content too short, might be extracting wrong content",
			"chars", utf8.RuneCountInString(corpus))
		return map[string]types.SkillOccurrence{}
	}

	found := make(map[string]types.SkillOccurrence)
	for _, t := range m.vocab.terms {
		occ := types.SkillOccurrence{SkillName: t.name}
		for _, re := range t.patterns {
			for _, loc := range re.FindAllStringIndex(corpus, -1) {
				if isNoise(corpus, loc[0], loc[1]) {
					continue
				}
				occ.Count++
				if len(occ.Contexts) < types.MaxContextSnippets {
					occ.Contexts = append(occ.Contexts, snippet(corpus, loc[0], loc[1]))
				}
			}
		}
		if occ.Count > 0 {
			found[t.name] = occ
		}
	}

	if len(found) > 0 {
		top := Ranked(found)
		if len(top) > 10 {
			top = top[:10]
		}
		names := make([]string, len(top))
		for i, o := range top {
			names[i] = o.SkillName
		}
		m.logger.Info("found technical skills", "count", len(found), "top", names)
	}
	return found
}

// Ranked orders occurrences by count, highest first, then by name.
func Ranked(found map[string]types.SkillOccurrence) []types.SkillOccurrence {
	out := make([]types.SkillOccurrence, 0, len(found))
	for _, o := range found {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].SkillName < out[j].SkillName
	})
	return out
}
