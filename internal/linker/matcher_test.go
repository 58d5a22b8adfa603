package linker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dengue-kg/backend/internal/catalog"
	"github.com/dengue-kg/backend/internal/graph"
)

func specFor(t *testing.T, category graph.Category) CategorySpec {
	t.Helper()
	for _, s := range CategorySpecs {
		if s.Category == category {
			return s
		}
	}
	t.Fatalf("no spec configured for category %s", category)
	return CategorySpec{}
}

func candidateIDs(result MatchResult) []string {
	ids := make([]string, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func TestMatcher_CuratedBeatsHeuristics(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategorySymptom))

	pool := []Candidate{
		{ID: "IDODEN_0000049", Text: "dengue disease clinical manifestation", Kind: KindOntologyTerm},
		{ID: "IDODEN_0003756", Text: "dengue with warning signs", Kind: KindOntologyTerm},
		// Would win the exact tier if the curated table did not short-circuit.
		{ID: "IDODEN_9999999", Text: "persistent vomiting of dengue", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "sym-1", Name: "Persistent Vomiting"}, pool)

	assert.Equal(t, TierCurated, result.Tier)
	assert.ElementsMatch(t,
		[]string{"IDODEN_0000049", "IDODEN_0003756"},
		candidateIDs(result),
	)
}

func TestMatcher_CuratedSynonyms(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategorySymptom))

	pool := []Candidate{
		{ID: "T1", Text: "elevated body temperature observed in dengue", Kind: KindOntologyTerm},
		{ID: "T2", Text: "dengue vector habitat", Kind: KindOntologyTerm},
	}

	// "high fever" carries the curated "fever" synonym key; "temperature" is in
	// its synonym set.
	result := m.Match(catalog.Entity{ID: "sym-2", Name: "High Fever"}, pool)

	assert.Equal(t, TierCurated, result.Tier)
	assert.Equal(t, []string{"T1"}, candidateIDs(result))
}

func TestMatcher_CuratedSourceOrgs(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategoryOrganization))

	pool := []Candidate{
		{ID: "R1", Text: "Dengue guidelines for diagnosis", Source: "WHO", Kind: KindReference},
		{ID: "R2", Text: "Dengue surveillance report", Source: "CDC", Kind: KindReference},
	}

	result := m.Match(catalog.Entity{ID: "org-1", Name: "World Health Organization"}, pool)

	assert.Equal(t, TierCurated, result.Tier)
	assert.Equal(t, []string{"R1"}, candidateIDs(result))
}

func TestMatcher_ExactSubstring(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "T1", Text: "severe dengue fever syndrome", Kind: KindOntologyTerm},
		{ID: "T2", Text: "malaria parasite life cycle", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Dengue Fever"}, pool)

	assert.Equal(t, TierExact, result.Tier)
	assert.Equal(t, []string{"T1"}, candidateIDs(result))
}

func TestMatcher_ExactTiesAllReturned(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "T1", Text: "dengue fever overview", Kind: KindOntologyTerm},
		{ID: "T2", Text: "pediatric dengue fever management", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Dengue Fever"}, pool)

	assert.Equal(t, TierExact, result.Tier)
	assert.ElementsMatch(t, []string{"T1", "T2"}, candidateIDs(result))
}

func TestMatcher_TokenOverlapViaProfileKeywords(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategoryPreventionMeasure))

	pool := []Candidate{
		{ID: "R1", Text: "Vector Control and Prevention Guidelines", Kind: KindReference},
		{ID: "R2", Text: "Dengue serotype phylogenetics", Kind: KindReference},
	}

	// No name token of "Bed Nets" appears in either candidate; the category
	// keyword profile carries the match.
	result := m.Match(catalog.Entity{ID: "pm-1", Name: "Bed Nets"}, pool)

	assert.Equal(t, TierToken, result.Tier)
	assert.Equal(t, []string{"R1"}, candidateIDs(result))
}

func TestMatcher_TokenOverlapVerbatim(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "R1", Text: "community surveillance handbook", Kind: KindReference},
		{ID: "R2", Text: "rainfall patterns in asia", Kind: KindReference},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Hospital Surveillance Programs"}, pool)

	assert.Equal(t, TierToken, result.Tier)
	assert.Equal(t, []string{"R1"}, candidateIDs(result))
}

func TestMatcher_ShortTokensIgnored(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "R1", Text: "use of the new assay", Kind: KindReference},
	}

	// Every shared token is below the minimum length, so the token tier must
	// not fire on "of"/"the" alone.
	result := m.Match(catalog.Entity{ID: "e1", Name: "risk of the zzz"}, pool)

	assert.NotEqual(t, TierToken, result.Tier)
}

func TestMatcher_ConceptProfilesByConceptType(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategorySnomedConcept))

	pool := []Candidate{
		{ID: "R1", Text: "Laboratory detection methods", Kind: KindReference},
		{ID: "R2", Text: "Community outreach report", Kind: KindReference},
	}

	result := m.Match(catalog.Entity{
		ID:          "sc-1",
		Name:        "Tourniquet evaluation",
		ConceptType: "procedure",
	}, pool)

	assert.Equal(t, TierToken, result.Tier)
	assert.Equal(t, []string{"R1"}, candidateIDs(result))
}

func TestMatcher_FuzzyTier(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "T1", Text: "thrombocytopaenia", Kind: KindOntologyTerm},
		{ID: "T2", Text: "xylophone", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Thrombocytopenia"}, pool)

	assert.Equal(t, TierFuzzy, result.Tier)
	assert.Equal(t, []string{"T1"}, candidateIDs(result))
}

func TestMatcher_FuzzyTrimsCandidateText(t *testing.T) {
	m := NewMatcher(MatchConfig{SimilarityThreshold: 0.9, MinTokenLength: 4}, CategorySpec{})

	// Padding must not dilute the ratio: trimmed, this pair scores ~0.97;
	// with the whitespace counted it would fall under the 0.9 threshold.
	pool := []Candidate{
		{ID: "T1", Text: "  thrombocytopaenia  ", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Thrombocytopenia"}, pool)

	assert.Equal(t, TierFuzzy, result.Tier)
	assert.Equal(t, []string{"T1"}, candidateIDs(result))
}

func TestMatcher_FuzzyRespectsThreshold(t *testing.T) {
	m := NewMatcher(MatchConfig{SimilarityThreshold: 0.99, MinTokenLength: 4}, CategorySpec{})

	pool := []Candidate{
		{ID: "T1", Text: "thrombocytopaenia", Kind: KindOntologyTerm},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Thrombocytopenia"}, pool)

	assert.Equal(t, TierNone, result.Tier)
	assert.Empty(t, result.Candidates)
}

func TestMatcher_FallbackGuarantee(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{Fallback: guidelineFallback})

	pool := []Candidate{
		{ID: "R1", Text: "WHO Dengue Guidelines 2009", Kind: KindReference},
		{ID: "R2", Text: "Unrelated modelling paper", Kind: KindReference},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Xqzv"}, pool)

	assert.Equal(t, TierFallback, result.Tier)
	assert.Equal(t, []string{"R1"}, candidateIDs(result))
}

func TestMatcher_NoFallbackConfigured(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{})

	pool := []Candidate{
		{ID: "R1", Text: "WHO Dengue Guidelines 2009", Kind: KindReference},
	}

	result := m.Match(catalog.Entity{ID: "e1", Name: "Xqzv"}, pool)

	assert.Equal(t, TierNone, result.Tier)
	assert.Empty(t, result.Candidates)
	assert.False(t, result.Unmatchable)
}

func TestMatcher_EmptyNameUnmatchable(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), CategorySpec{Fallback: guidelineFallback})

	pool := []Candidate{
		{ID: "R1", Text: "WHO Dengue Guidelines 2009", Kind: KindReference},
	}

	for _, name := range []string{"", "   "} {
		result := m.Match(catalog.Entity{ID: "e1", Name: name}, pool)
		assert.True(t, result.Unmatchable)
		assert.Equal(t, TierNone, result.Tier)
		assert.Empty(t, result.Candidates)
	}
}

func TestMatcher_EmptyPool(t *testing.T) {
	m := NewMatcher(DefaultMatchConfig(), specFor(t, graph.CategorySymptom))

	result := m.Match(catalog.Entity{ID: "e1", Name: "Fever"}, nil)

	assert.Equal(t, TierNone, result.Tier)
	assert.Empty(t, result.Candidates)
	assert.False(t, result.Unmatchable)
}

func TestMatcher_ZeroConfigUsesDefaults(t *testing.T) {
	m := NewMatcher(MatchConfig{}, CategorySpec{})

	require.Equal(t, DefaultMatchConfig().SimilarityThreshold, m.cfg.SimilarityThreshold)
	require.Equal(t, DefaultMatchConfig().MinTokenLength, m.cfg.MinTokenLength)
}
