package models

import "time"

// LinkRun is one execution of the linking engine, persisted for the run
// history endpoint and for operational forensics.
type LinkRun struct {
	ID                  string
	StartedAt           time.Time
	FinishedAt          time.Time
	CategoriesProcessed int
	CategoriesFailed    int
	EntitiesSeen        int
	LinksCreated        int
	Unmatchable         int
	WriteFailures       int
	Status              string
}

// CoverageSnapshot is one category's coverage row at the end of a run.
type CoverageSnapshot struct {
	ID          int
	RunID       string
	Category    string
	Total       int
	Linked      int
	CoveragePct float64
}

// Reference is a bibliographic citation extracted from a source document.
// Uniqueness is keyed on URL.
type Reference struct {
	ID         string
	URL        string
	Title      string
	AccessDate string
	SourceOrg  string
	DocSource  string
}

// OntologyTerm is a controlled-vocabulary concept loaded from an ontology
// source file.
type OntologyTerm struct {
	ID         string
	Name       string
	Definition string
	Synonyms   []string
	Source     string
	IsA        []string
}
