package linker

import "github.com/dengue-kg/backend/internal/graph"

// FallbackRule designates the default candidate for a category: any candidate
// whose text contains all the given needles. An empty rule means the category
// has no fallback and unmatched entities are reported as gaps.
type FallbackRule struct {
	ContainsAll []string
}

// CategorySpec is the declarative per-category configuration of the linking
// engine: which candidate population to match into, the coarse pool filter,
// the curated table, the fallback rule, and the keyword profile that
// participates in the token tier.
//
// ConceptProfiles adds extra profile keywords keyed by the entity's
// conceptType, used only for ontology-mapped concepts.
type CategorySpec struct {
	Category        graph.Category
	Kind            CandidateKind
	Filter          PoolFilter
	Curated         CuratedTable
	Fallback        FallbackRule
	ProfileKeywords []string
	ConceptProfiles map[string][]string
}

// guidelineFallback links otherwise unmatched entities to any general
// guideline reference.
var guidelineFallback = FallbackRule{ContainsAll: []string{"guideline"}}

// CategorySpecs configures every entity category, in linking priority order:
// clinical first, then geographic/environmental, then operational and
// organizational, then the ontology-mapped concept sweep.
var CategorySpecs = []CategorySpec{
	{
		Category: graph.CategorySymptom,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{Keywords: []string{
			"symptom", "clinical feature", "manifestation", "sign", "pain",
			"fever", "bleeding", "nausea", "vomiting", "rash", "fatigue",
			"headache", "dengue",
		}},
		Curated:  symptomCurated,
		Fallback: FallbackRule{ContainsAll: []string{"clinical manifestation", "dengue"}},
	},
	{
		Category: graph.CategoryWarningSign,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"warning", "sign", "clinical", "symptom", "severe",
		}},
		ProfileKeywords: []string{"warning", "sign", "clinical", "symptom", "severe"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryClinicalClassification,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{
			Keywords:       []string{"severe", "hemorrhagic", "shock", "warning", "classification"},
			RequireKeyword: "dengue",
		},
		Fallback: FallbackRule{ContainsAll: []string{"clinical manifestation", "dengue"}},
	},
	{
		Category: graph.CategoryDiagnosticTest,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{Keywords: []string{
			"test", "diagnostic", "elisa", "pcr",
		}},
		ProfileKeywords: []string{"test", "diagnostic"},
	},
	{
		Category: graph.CategoryTreatmentProtocol,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{
			Keywords:       []string{"treatment"},
			RequireKeyword: "dengue",
		},
		ProfileKeywords: []string{"treatment"},
	},
	{
		Category: graph.CategoryManagementGroup,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"management", "clinical", "treatment", "guideline",
		}},
		ProfileKeywords: []string{"management", "clinical", "treatment", "guideline"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryRecommendation,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"recommendation", "guideline", "evidence", "management", "clinical",
		}},
		ProfileKeywords: []string{"recommendation", "guideline", "evidence", "management", "clinical"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryGeographicRegion,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"endemic", "surveillance", "epidemiology", "outbreak",
		}},
		ProfileKeywords: []string{"endemic", "surveillance", "epidemiology", "outbreak"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryClimateFactor,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"climate", "temperature", "rainfall", "humidity", "vector",
			"ecology", "environment",
		}},
		ProfileKeywords: []string{"climate", "temperature", "rainfall", "humidity", "vector", "ecology", "environment"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryTransmissionMode,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"vector", "mosquito", "transmission", "prevention", "maternal",
		}},
		ProfileKeywords: []string{"vector", "mosquito", "transmission", "prevention"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryRiskFactor,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{Keywords: []string{
			"risk", "susceptibility", "predisposition",
		}},
		ProfileKeywords: []string{"risk", "susceptibility"},
	},
	{
		Category: graph.CategoryVector,
		Kind:     KindOntologyTerm,
		Filter: PoolFilter{Keywords: []string{
			"vector", "mosquito", "aedes", "transmission", "aegypti", "albopictus",
		}},
		Curated:  vectorCurated,
		Fallback: FallbackRule{ContainsAll: []string{"dengue vector"}},
	},
	{
		Category: graph.CategoryPreventionMeasure,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"prevention", "control", "vector", "mosquito",
		}},
		ProfileKeywords: []string{"prevention", "control", "vector", "mosquito"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryVectorControlStrategy,
		Kind:     KindReference,
		Filter: PoolFilter{Keywords: []string{
			"vector", "control", "prevention", "mosquito",
		}},
		ProfileKeywords: []string{"vector", "control", "prevention", "mosquito"},
		Fallback:        guidelineFallback,
	},
	{
		Category: graph.CategoryOrganization,
		Kind:     KindReference,
		Filter:   PoolFilter{SourceOrgs: []string{"WHO", "CDC", "PAHO"}},
		Curated:  organizationCurated,
		Fallback: guidelineFallback,
	},
	{
		Category: graph.CategorySnomedConcept,
		Kind:     KindReference,
		Filter:   PoolFilter{},
		ConceptProfiles: map[string][]string{
			"procedure": {"diagnostic", "testing", "laboratory", "detection"},
			"finding":   {"symptom", "clinical", "sign", "warning"},
			"organism":  {"vector", "mosquito"},
		},
		Fallback: guidelineFallback,
	},
}
