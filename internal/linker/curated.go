package linker

// CuratedTable holds domain-expert-asserted mappings for one entity category.
// Curated hits are the highest-precedence matching tier and override every
// heuristic.
//
// TermIDs maps a normalized entity name to explicit candidate identifiers.
// Synonyms maps a key substring of the entity name to synonym strings looked
// up in candidate text. SourceOrgs maps a normalized entity name to the
// publishing organizations whose references it should carry.
type CuratedTable struct {
	TermIDs    map[string][]string
	Synonyms   map[string][]string
	SourceOrgs map[string][]string
}

func (t CuratedTable) isZero() bool {
	return len(t.TermIDs) == 0 && len(t.Synonyms) == 0 && len(t.SourceOrgs) == 0
}

// symptomCurated carries the research-supported symptom mappings from CDC and
// WHO clinical guidance (dengue clinical signs, WHO 2009 guidelines).
var symptomCurated = CuratedTable{
	TermIDs: map[string][]string{
		// General clinical manifestations
		"fever":              {"IDODEN_0000049"},
		"headache":           {"IDODEN_0000049"},
		"retro-orbital pain": {"IDODEN_0000049"},
		"myalgia":            {"IDODEN_0000049"},

		// Warning signs
		"severe abdominal pain": {"IDODEN_0000049", "IDODEN_0003756"},
		"persistent vomiting":   {"IDODEN_0000049", "IDODEN_0003756"},

		// Hemorrhagic manifestations
		"mucosal bleeding": {"IDODEN_0000049", "IDODEN_0003763"},
		"severe bleeding":  {"IDODEN_0003763"},

		"shock": {"IDODEN_0003764"},
	},
	Synonyms: map[string][]string{
		"fever":          {"fever", "pyrexia", "temperature"},
		"headache":       {"headache", "cephalgia"},
		"rash":           {"rash", "skin eruption", "maculopapular"},
		"arthralgia":     {"joint pain", "arthralgia", "painful joints"},
		"myalgia":        {"muscle pain", "myalgia"},
		"fatigue":        {"fatigue", "tiredness", "malaise"},
		"nausea":         {"nausea", "sick feeling"},
		"vomiting":       {"vomiting", "emesis"},
		"abdominal pain": {"abdominal pain", "stomach pain", "belly pain"},
		"bleeding":       {"bleeding", "hemorrhage", "haemorrhage", "bleed"},
		"petechiae":      {"petechiae", "purpura", "small hemorrhage"},
	},
}

// vectorCurated maps the two dengue vector species to their synonym sets.
var vectorCurated = CuratedTable{
	Synonyms: map[string][]string{
		"aedes aegypti":    {"aedes aegypti", "aegypti", "yellow fever mosquito"},
		"aedes albopictus": {"aedes albopictus", "albopictus", "asian tiger mosquito"},
	},
}

// organizationCurated ties each organization to the references it published.
var organizationCurated = CuratedTable{
	SourceOrgs: map[string][]string{
		"world health organization":                  {"WHO"},
		"centers for disease control and prevention": {"CDC"},
		"pan american health organization":           {"PAHO"},
	},
}
