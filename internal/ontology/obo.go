package ontology

import (
	"bufio"
	"io"
	"strings"

	"github.com/dengue-kg/backend/internal/storage/models"
)

// ParseOBO reads the minimal OBO subset used by the disease ontologies in
// this domain: [Term] stanzas with id, name, def, synonym and is_a fields.
// Unknown fields and non-Term stanzas are skipped.
func ParseOBO(r io.Reader, source string) ([]models.OntologyTerm, error) {
	var terms []models.OntologyTerm
	var current *models.OntologyTerm
	inTerm := false

	flush := func() {
		if current != nil && current.ID != "" {
			terms = append(terms, *current)
		}
		current = nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "[") {
			flush()
			inTerm = line == "[Term]"
			if inTerm {
				current = &models.OntologyTerm{Source: source}
			}
			continue
		}

		if !inTerm || current == nil || line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)

		switch key {
		case "id":
			current.ID = normalizeTermID(value)
		case "name":
			current.Name = value
		case "def":
			current.Definition = quotedPart(value)
		case "synonym":
			if syn := quotedPart(value); syn != "" {
				current.Synonyms = append(current.Synonyms, syn)
			}
		case "is_a":
			// drop the optional trailing "! name" comment
			parent, _, _ := strings.Cut(value, "!")
			current.IsA = append(current.IsA, normalizeTermID(strings.TrimSpace(parent)))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()

	return terms, nil
}

// normalizeTermID converts the OBO colon form (IDODEN:0000049) to the
// underscore form used as the node id (IDODEN_0000049).
func normalizeTermID(id string) string {
	return strings.ReplaceAll(id, ":", "_")
}

// quotedPart extracts the first double-quoted segment of an OBO value, the
// payload of def and synonym lines.
func quotedPart(value string) string {
	start := strings.Index(value, `"`)
	if start < 0 {
		return value
	}
	end := strings.Index(value[start+1:], `"`)
	if end < 0 {
		return value[start+1:]
	}
	return value[start+1 : start+1+end]
}
