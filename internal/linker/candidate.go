package linker

// CandidateKind selects which node population an entity category links into.
type CandidateKind string

const (
	KindReference    CandidateKind = "Reference"
	KindOntologyTerm CandidateKind = "OntologyTerm"
)

// LinkType is the relationship type written for a match.
type LinkType string

const (
	LinkHasReference    LinkType = "HAS_REFERENCE"
	LinkHasOntologyTerm LinkType = "HAS_ONTOLOGY_TERM"
)

// LinkTypeFor maps a candidate kind to its relationship type.
func LinkTypeFor(kind CandidateKind) LinkType {
	if kind == KindReference {
		return LinkHasReference
	}
	return LinkHasOntologyTerm
}

// Candidate is a Reference or OntologyTerm considered for matching. Text is
// the primary matching field: the reference title or the term name. Source is
// the publishing organization for references and the ontology name for terms.
type Candidate struct {
	ID     string
	Text   string
	Source string
	Kind   CandidateKind
}
