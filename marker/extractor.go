// Package marker recovers entities the structured extraction missed by
// scanning the raw transcript for section markers and a small set of natural
// language cues. Everything found here is additive: existing record entries
// are never modified, and an entry that is already present is not added
// twice.
package marker

import (
	"regexp"
	"strconv"
	"strings"

	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/types"
)

var (
	chiefComplaintSection = regexp.MustCompile(`(?is)\[CHIEF COMPLAINT\]\s*:?\s*(.+?)(?:\[|$)`)
	chiefComplaintLabel   = regexp.MustCompile(`(?im)^\s*cc:\s*(.+)$`)
	presentsWithCue       = regexp.MustCompile(`(?i)\bpresents?\s+with\s+(?:an?\s+)?([^,.;\n]+)`)

	familyHistorySection = regexp.MustCompile(`(?is)\[FAMILY HISTORY\]\s*:?\s*(.+?)(?:\[|$)`)
	socialHistorySection = regexp.MustCompile(`(?is)\[SOCIAL HISTORY\]\s*:?\s*(.+?)(?:\[|$)`)

	relationshipAlternation = `(?:paternal|maternal)\s+grand(?:mother|father)|` +
		`grand(?:mother|father|parent)|grandma|grandpa|` +
		`mother|father|mom|mum|dad|` +
		`brother|sister|sibling|son|daughter|` +
		`aunt|uncle|cousin|parent`

	familyConditionCue = regexp.MustCompile(`(?i)\b(` + relationshipAlternation + `)\s+` +
		`(?:had|has|with|died\s+(?:of|from))\s+(?:an?\s+)?` +
		`([^,.;\n]+?)` +
		`(?:\s+at\s+(?:the\s+)?age\s+(?:of\s+)?(\d+))?` +
		`\s*(?:[,.;\n]|$)`)
	familyHistoryOfCue = regexp.MustCompile(`(?i)\bfamily\s+history\s+(?:of|significant\s+for)\s+` +
		`([^,.;\n]+?)\s+in\s+(?:the\s+|his\s+|her\s+|their\s+)?(` + relationshipAlternation + `)`)

	tobaccoCue = regexp.MustCompile(`(?i)\b(?:denies\s+(?:any\s+)?(?:tobacco|smoking)(?:\s+use)?|` +
		`no\s+tobacco\s+use|never\s+smoker|never\s+smoked|` +
		`(?:former|current|ex)[\s-]?smoker|quit\s+smoking[^,.;\n]*|` +
		`smokes?\s+[^,.;\n]+|\d+\s*pack[\s-]?years?[^,.;\n]*)`)
	alcoholCue = regexp.MustCompile(`(?i)\b(?:denies\s+(?:any\s+)?alcohol(?:\s+use)?|` +
		`no\s+alcohol\s+use|social\s+drinker|` +
		`drinks?\s+[^,.;\n]+|alcohol\s+use[^,.;\n]*)`)
	drugUseCue = regexp.MustCompile(`(?i)\b(?:denies\s+(?:any\s+)?(?:recreational\s+|illicit\s+)?drug\s+use|` +
		`no\s+(?:recreational\s+|illicit\s+)?drug\s+use|` +
		`(?:recreational|illicit)\s+drug\s+use[^,.;\n]*)`)
	occupationCue = regexp.MustCompile(`(?i)\bworks?\s+as\s+(?:an?\s+)?([^,.;\n]+)`)
	livingCue     = regexp.MustCompile(`(?i)\blives?\s+(?:alone|with\s+[^,.;\n]+)`)
)

// Extract runs all transcript recovery passes over the record. A record with
// an empty transcript is returned untouched.
func Extract(rec *types.ClinicalRecord) {
	if strings.TrimSpace(rec.Transcript) == "" {
		return
	}
	extractChiefComplaint(rec)
	extractFamilyHistory(rec)
	extractSocialHistory(rec)
}

func extractChiefComplaint(rec *types.ClinicalRecord) {
	complaint := findChiefComplaint(rec.Transcript)
	if complaint == "" {
		return
	}
	key := norm.Key(complaint)
	if key == "" {
		return
	}
	for i := range rec.Conditions {
		existing := norm.Key(rec.Conditions[i].Name)
		if existing == key || strings.Contains(existing, key) || strings.Contains(key, existing) {
			rec.Conditions[i].ChiefComplaint = true
			return
		}
	}
	recovered := types.Condition{
		Name:           complaint,
		ChiefComplaint: true,
	}
	rec.Conditions = append([]types.Condition{recovered}, rec.Conditions...)
}

func findChiefComplaint(transcript string) string {
	for _, pattern := range []*regexp.Regexp{chiefComplaintSection, chiefComplaintLabel, presentsWithCue} {
		if m := pattern.FindStringSubmatch(transcript); m != nil {
			return trimPhrase(m[1])
		}
	}
	return ""
}

func extractFamilyHistory(rec *types.ClinicalRecord) {
	text := rec.Transcript
	if m := familyHistorySection.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	seen := make(map[string]bool)
	for _, entry := range rec.FamilyHistory {
		seen[familyKey(entry)] = true
	}
	appendEntry := func(entry types.FamilyHistoryEntry) {
		key := familyKey(entry)
		if entry.Condition == "" || entry.Relationship == "" || seen[key] {
			return
		}
		seen[key] = true
		rec.FamilyHistory = append(rec.FamilyHistory, entry)
	}
	for _, m := range familyConditionCue.FindAllStringSubmatch(text, -1) {
		entry := types.FamilyHistoryEntry{
			Relationship: NormalizeRelationship(m[1]),
			Condition:    trimPhrase(m[2]),
		}
		if m[3] != "" {
			age, err := strconv.Atoi(m[3])
			if err == nil {
				entry.AgeOfOnset = age
			}
		}
		appendEntry(entry)
	}
	for _, m := range familyHistoryOfCue.FindAllStringSubmatch(rec.Transcript, -1) {
		appendEntry(types.FamilyHistoryEntry{
			Relationship: NormalizeRelationship(m[2]),
			Condition:    trimPhrase(m[1]),
		})
	}
}

func familyKey(entry types.FamilyHistoryEntry) string {
	return norm.Key(entry.Relationship) + "|" + norm.Key(entry.Condition)
}

func extractSocialHistory(rec *types.ClinicalRecord) {
	text := rec.Transcript
	if m := socialHistorySection.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	history := rec.SocialHistory
	if history == nil {
		history = &types.SocialHistory{}
	}
	if history.TobaccoUse == "" {
		history.TobaccoUse = trimPhrase(tobaccoCue.FindString(text))
	}
	if history.AlcoholUse == "" {
		history.AlcoholUse = trimPhrase(alcoholCue.FindString(text))
	}
	if history.DrugUse == "" {
		history.DrugUse = trimPhrase(drugUseCue.FindString(text))
	}
	if history.Occupation == "" {
		if m := occupationCue.FindStringSubmatch(text); m != nil {
			history.Occupation = trimPhrase(m[1])
		}
	}
	if history.LivingSituation == "" {
		history.LivingSituation = trimPhrase(livingCue.FindString(text))
	}
	if *history != (types.SocialHistory{}) {
		rec.SocialHistory = history
	}
}

func trimPhrase(s string) string {
	return strings.Trim(strings.TrimSpace(s), ".,;:")
}
