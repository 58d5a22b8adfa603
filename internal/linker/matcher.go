package linker

import (
	"strings"

	"github.com/dengue-kg/backend/internal/catalog"
)

// Tier is one stage of the precedence-ordered matching strategy. Matching
// short-circuits at the first tier that yields a candidate.
type Tier int

const (
	TierNone Tier = iota
	TierCurated
	TierExact
	TierToken
	TierFuzzy
	TierFallback
)

func (t Tier) String() string {
	switch t {
	case TierCurated:
		return "curated"
	case TierExact:
		return "exact"
	case TierToken:
		return "token"
	case TierFuzzy:
		return "fuzzy"
	case TierFallback:
		return "fallback"
	default:
		return "none"
	}
}

// MatchConfig carries the tunable matching constants. The defaults favor
// recall over precision: in this domain an under-linked entity is worse than
// an occasional loose link.
type MatchConfig struct {
	SimilarityThreshold float64
	MinTokenLength      int
}

func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		SimilarityThreshold: 0.5,
		MinTokenLength:      4,
	}
}

// MatchResult is the outcome for one entity. Ties within the winning tier
// are not broken: all qualifying candidates are returned, favoring
// completeness of citation support over a single best pick.
type MatchResult struct {
	Tier        Tier
	Candidates  []Candidate
	Unmatchable bool
}

// Matcher runs the tiered matching strategy for one entity category:
// curated mapping, exact substring, token overlap, fuzzy similarity, then the
// category's fallback rule.
type Matcher struct {
	cfg             MatchConfig
	curated         CuratedTable
	fallback        FallbackRule
	profileKeywords []string
	conceptProfiles map[string][]string
}

func NewMatcher(cfg MatchConfig, spec CategorySpec) *Matcher {
	if cfg.SimilarityThreshold == 0 {
		cfg.SimilarityThreshold = DefaultMatchConfig().SimilarityThreshold
	}
	if cfg.MinTokenLength == 0 {
		cfg.MinTokenLength = DefaultMatchConfig().MinTokenLength
	}
	return &Matcher{
		cfg:             cfg,
		curated:         spec.Curated,
		fallback:        spec.Fallback,
		profileKeywords: spec.ProfileKeywords,
		conceptProfiles: spec.ConceptProfiles,
	}
}

func (m *Matcher) Match(entity catalog.Entity, pool []Candidate) MatchResult {
	name := normalize(entity.Name)
	if name == "" {
		// No usable name: skipped entirely, not even the fallback applies.
		return MatchResult{Tier: TierNone, Unmatchable: true}
	}

	if matched := m.matchCurated(name, pool); len(matched) > 0 {
		return MatchResult{Tier: TierCurated, Candidates: matched}
	}

	if matched := m.matchExact(name, pool); len(matched) > 0 {
		return MatchResult{Tier: TierExact, Candidates: matched}
	}

	if matched := m.matchTokens(name, entity.ConceptType, pool); len(matched) > 0 {
		return MatchResult{Tier: TierToken, Candidates: matched}
	}

	if matched := m.matchFuzzy(name, pool); len(matched) > 0 {
		return MatchResult{Tier: TierFuzzy, Candidates: matched}
	}

	if matched := m.matchFallback(pool); len(matched) > 0 {
		return MatchResult{Tier: TierFallback, Candidates: matched}
	}

	return MatchResult{Tier: TierNone}
}

// matchCurated applies the expert-asserted table: explicit candidate ids,
// synonym sets keyed by name substrings, and per-organization source filters.
func (m *Matcher) matchCurated(name string, pool []Candidate) []Candidate {
	if m.curated.isZero() {
		return nil
	}

	var matched []Candidate
	seen := map[string]bool{}

	if ids := m.curated.TermIDs[name]; len(ids) > 0 {
		wanted := map[string]bool{}
		for _, id := range ids {
			wanted[id] = true
		}
		for _, c := range pool {
			if wanted[c.ID] && !seen[c.ID] {
				matched = append(matched, c)
				seen[c.ID] = true
			}
		}
		// An explicit id mapping is authoritative; the synonym sweep must not
		// widen it.
		if len(matched) > 0 {
			return matched
		}
	}

	for key, synonyms := range m.curated.Synonyms {
		if !strings.Contains(name, key) && !anyContained(name, synonyms) {
			continue
		}
		for _, c := range pool {
			if seen[c.ID] {
				continue
			}
			text := normalize(c.Text)
			if anyContained(text, synonyms) {
				matched = append(matched, c)
				seen[c.ID] = true
			}
		}
	}

	if orgs := m.curated.SourceOrgs[name]; len(orgs) > 0 {
		wanted := map[string]bool{}
		for _, org := range orgs {
			wanted[org] = true
		}
		for _, c := range pool {
			if wanted[c.Source] && !seen[c.ID] {
				matched = append(matched, c)
				seen[c.ID] = true
			}
		}
	}

	return matched
}

func (m *Matcher) matchExact(name string, pool []Candidate) []Candidate {
	var matched []Candidate
	for _, c := range pool {
		text := normalize(c.Text)
		if text == "" {
			continue
		}
		if strings.Contains(text, name) || strings.Contains(name, text) {
			matched = append(matched, c)
		}
	}
	return matched
}

// matchTokens OR's two keyword conditions within the one tier: name tokens
// appearing verbatim as candidate tokens, and the category's profile keywords
// appearing anywhere in the candidate text.
func (m *Matcher) matchTokens(name, conceptType string, pool []Candidate) []Candidate {
	tokens := significantTokens(name, m.cfg.MinTokenLength)

	keywords := make([]string, 0, len(m.profileKeywords))
	keywords = append(keywords, m.profileKeywords...)
	if m.conceptProfiles != nil {
		keywords = append(keywords, m.conceptProfiles[strings.ToLower(conceptType)]...)
	}

	if len(tokens) == 0 && len(keywords) == 0 {
		return nil
	}

	var matched []Candidate
	for _, c := range pool {
		text := normalize(c.Text)
		if text == "" {
			continue
		}
		if tokenOverlap(tokens, strings.Fields(text)) || anyContained(text, keywords) {
			matched = append(matched, c)
		}
	}
	return matched
}

func (m *Matcher) matchFuzzy(name string, pool []Candidate) []Candidate {
	var matched []Candidate
	for _, c := range pool {
		text := normalize(c.Text)
		if text == "" {
			continue
		}
		if SimilarityRatio(name, text) >= m.cfg.SimilarityThreshold {
			matched = append(matched, c)
		}
	}
	return matched
}

func (m *Matcher) matchFallback(pool []Candidate) []Candidate {
	if len(m.fallback.ContainsAll) == 0 {
		return nil
	}

	var matched []Candidate
	for _, c := range pool {
		text := normalize(c.Text)
		ok := true
		for _, needle := range m.fallback.ContainsAll {
			if !strings.Contains(text, strings.ToLower(needle)) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, c)
		}
	}
	return matched
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// significantTokens drops short tokens ("of", "the", "in") that only add
// noise to the overlap check.
func significantTokens(s string, minLen int) []string {
	var tokens []string
	for _, tok := range strings.Fields(s) {
		if len(tok) >= minLen {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

func tokenOverlap(tokens, candidateTokens []string) bool {
	for _, t := range tokens {
		for _, ct := range candidateTokens {
			if t == ct {
				return true
			}
		}
	}
	return false
}

func anyContained(haystack string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(haystack, strings.ToLower(n)) {
			return true
		}
	}
	return false
}
