package references

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/dengue-kg/backend/internal/storage/models"
)

// citationPattern matches inline citation lines of the form
// "<title>, accessed <date>, <url>".
// The access date may itself contain a comma ("January 5, 2025"), so the date
// group stays lazy and the URL anchors the match.
var citationPattern = regexp.MustCompile(`^(.*?), accessed (.*?), (https?://\S+)`)

// Extract parses citation lines out of a source document. When the document
// contains a "Works cited" section only that section is scanned; otherwise
// citation lines are collected from the whole document. A document with no
// parseable citations yields an empty slice, never an error: upstream
// malformed sources surface as a zero-reference condition.
func Extract(r io.Reader, docSource string) ([]models.Reference, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	text := string(content)
	if idx := strings.Index(text, "Works cited"); idx >= 0 {
		text = text[idx+len("Works cited"):]
	}

	var refs []models.Reference
	seen := map[string]bool{}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		match := citationPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		url := strings.TrimSpace(match[3])
		if seen[url] {
			continue
		}
		seen[url] = true

		refs = append(refs, models.Reference{
			Title:      strings.TrimSpace(match[1]),
			AccessDate: strings.TrimSpace(match[2]),
			URL:        url,
			SourceOrg:  ClassifySourceOrg(url),
			DocSource:  docSource,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// ClassifySourceOrg derives the publishing organization from the citation URL.
func ClassifySourceOrg(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "cdc.gov"):
		return "CDC"
	case strings.Contains(lower, "who.int"):
		return "WHO"
	case strings.Contains(lower, "paho.org"):
		return "PAHO"
	case strings.Contains(lower, "ncbi.nlm.nih.gov"), strings.Contains(lower, "pubmed"):
		return "PubMed/NCBI"
	case strings.Contains(lower, "frontiers"), strings.Contains(lower, "journals"),
		strings.Contains(lower, "academic.oup.com"):
		return "Journal"
	default:
		return "Unknown"
	}
}
