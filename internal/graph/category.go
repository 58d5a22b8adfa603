package graph

import "fmt"

// Category identifies one entity label in the knowledge graph. Labels cannot
// be parametrized in Cypher, so every label that ends up interpolated into
// query text has to come from this allow-list.
type Category string

const (
	CategorySymptom                Category = "Symptom"
	CategoryWarningSign            Category = "WarningSign"
	CategoryClinicalClassification Category = "ClinicalClassification"
	CategoryDiagnosticTest         Category = "DiagnosticTest"
	CategoryTreatmentProtocol      Category = "TreatmentProtocol"
	CategoryManagementGroup        Category = "ManagementGroup"
	CategoryRecommendation         Category = "Recommendation"
	CategoryGeographicRegion       Category = "GeographicRegion"
	CategoryClimateFactor          Category = "ClimateFactor"
	CategoryTransmissionMode       Category = "TransmissionMode"
	CategoryRiskFactor             Category = "RiskFactor"
	CategoryVector                 Category = "Vector"
	CategoryPreventionMeasure      Category = "PreventionMeasure"
	CategoryVectorControlStrategy  Category = "VectorControlStrategy"
	CategoryOrganization           Category = "Organization"
	CategorySnomedConcept          Category = "SnomedConcept"
)

// AllCategories is ordered by linking priority: clinical entities first, then
// geographic/environmental, then operational/organizational, then the
// ontology-mapped concept sweep.
var AllCategories = []Category{
	CategorySymptom,
	CategoryWarningSign,
	CategoryClinicalClassification,
	CategoryDiagnosticTest,
	CategoryTreatmentProtocol,
	CategoryManagementGroup,
	CategoryRecommendation,
	CategoryGeographicRegion,
	CategoryClimateFactor,
	CategoryTransmissionMode,
	CategoryRiskFactor,
	CategoryVector,
	CategoryPreventionMeasure,
	CategoryVectorControlStrategy,
	CategoryOrganization,
	CategorySnomedConcept,
}

var validCategories = func() map[Category]bool {
	m := make(map[Category]bool, len(AllCategories))
	for _, c := range AllCategories {
		m[c] = true
	}
	return m
}()

// ParseCategory resolves untrusted input to an allow-listed category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !validCategories[c] {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Label returns the Cypher label for the category. Only values produced by
// ParseCategory or the Category constants reach this point.
func (c Category) Label() string {
	return string(c)
}

func (c Category) Valid() bool {
	return validCategories[c]
}
