package terminology

import (
	"fmt"

	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/types"
)

// CodeConditions annotates every condition with its normalized name and,
// when a table row matches, an ICD-10 code. Tiers are tried in order: exact
// key, curated synonym, fuzzy scan. A condition no tier resolves keeps its
// raw text, is marked unresolved and produces an audit note.
func (t *Tables) CodeConditions(conditions []types.Condition) []types.AuditNote {
	var notes []types.AuditNote
	for i := range conditions {
		condition := &conditions[i]
		key := norm.Condition(condition.Name)
		condition.NormalizedName = key

		if entry, ok := t.conditions[key]; ok {
			annotateCondition(condition, entry, types.TierExact, 1.0)
			continue
		}
		if entry := t.resolveConditionKey(t.synonyms[key]); entry != nil {
			annotateCondition(condition, entry, types.TierSynonym, 1.0)
			continue
		}
		if matchKey, ratio := closestKey(key, t.conditionFuzzyKeys); matchKey != "" {
			annotateCondition(condition, t.conditions[matchKey], types.TierFuzzy, ratio)
			continue
		}
		condition.Code = ""
		condition.Display = ""
		condition.CodeConfidence = 0
		condition.MatchTier = types.TierUnresolved
		notes = append(notes, types.AuditNote{
			Action:   types.AuditUnresolved,
			Category: "condition",
			Reason:   fmt.Sprintf("no terminology match: %q", condition.Name),
		})
	}
	return notes
}

// resolveConditionKey follows a synonym key to its canonical table row.
func (t *Tables) resolveConditionKey(key string) *ConditionEntry {
	if key == "" {
		return nil
	}
	if entry, ok := t.conditions[key]; ok {
		return entry
	}
	if canonical, ok := t.synonyms[key]; ok {
		return t.conditions[canonical]
	}
	return nil
}

func annotateCondition(condition *types.Condition, entry *ConditionEntry, tier types.MatchTier, confidence float64) {
	condition.Code = entry.Code
	condition.Display = entry.Display
	condition.CodeConfidence = confidence
	condition.MatchTier = tier
}
