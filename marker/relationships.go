package marker

import (
	"strings"

	"medscribe.io/enrich/norm"
)

// Casual or abbreviated relationship spellings mapped to their canonical
// form. Compound relationships ("paternal grandfather") are not collapsed to
// the generic form; anything not listed passes through as spoken.
var relationshipAliases = map[string]string{
	"mom":     "mother",
	"mum":     "mother",
	"dad":     "father",
	"grandma": "grandmother",
	"grandpa": "grandfather",
	"bro":     "brother",
	"sis":     "sister",
}

func NormalizeRelationship(s string) string {
	key := norm.Key(s)
	if canonical, ok := relationshipAliases[key]; ok {
		return canonical
	}
	return strings.TrimSpace(strings.ToLower(s))
}
