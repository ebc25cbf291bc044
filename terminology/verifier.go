package terminology

import (
	"fmt"

	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/types"
)

// VerifyMedications annotates medication orders and statements against the
// drug tables. Brand names resolve to their generic row at full confidence;
// the fuzzy tier scans generic names only. Unmatched names keep their raw
// text with Verified false.
func (t *Tables) VerifyMedications(rec *types.ClinicalRecord) []types.AuditNote {
	var notes []types.AuditNote
	unresolved := func(category, name string) {
		notes = append(notes, types.AuditNote{
			Action:   types.AuditUnresolved,
			Category: category,
			Reason:   fmt.Sprintf("no drug table match: %q", name),
		})
	}

	for i := range rec.MedicationOrders {
		order := &rec.MedicationOrders[i]
		entry, tier, confidence := t.matchMedication(order.Name)
		if entry == nil {
			order.RxCUI = ""
			order.Display = ""
			order.DrugClass = ""
			order.Verified = false
			order.MatchConfidence = 0
			order.MatchTier = types.TierUnresolved
			unresolved("medication_order", order.Name)
			continue
		}
		order.RxCUI = entry.RxCUI
		order.Display = entry.Display
		order.DrugClass = entry.DrugClass
		order.Verified = true
		order.MatchConfidence = confidence
		order.MatchTier = tier
	}

	for i := range rec.Medications {
		statement := &rec.Medications[i]
		entry, tier, confidence := t.matchMedication(statement.Name)
		if entry == nil {
			statement.RxCUI = ""
			statement.Display = ""
			statement.DrugClass = ""
			statement.Verified = false
			statement.MatchConfidence = 0
			statement.MatchTier = types.TierUnresolved
			unresolved("medication", statement.Name)
			continue
		}
		statement.RxCUI = entry.RxCUI
		statement.Display = entry.Display
		statement.DrugClass = entry.DrugClass
		statement.Verified = true
		statement.MatchConfidence = confidence
		statement.MatchTier = tier
	}

	return notes
}

func (t *Tables) matchMedication(name string) (*MedicationEntry, types.MatchTier, float64) {
	key := norm.Medication(name)
	if entry, ok := t.medications[key]; ok {
		return entry, types.TierExact, 1.0
	}
	if entry := t.resolveMedicationKey(t.brands[key]); entry != nil {
		return entry, types.TierSynonym, 1.0
	}
	if matchKey, ratio := closestKey(key, t.medicationFuzzyKeys); matchKey != "" {
		return t.medications[matchKey], types.TierFuzzy, ratio
	}
	return nil, types.TierUnresolved, 0
}

// resolveMedicationKey follows a brand key to its generic table row.
func (t *Tables) resolveMedicationKey(key string) *MedicationEntry {
	if key == "" {
		return nil
	}
	if entry, ok := t.medications[key]; ok {
		return entry
	}
	if generic, ok := t.brands[key]; ok {
		return t.medications[generic]
	}
	return nil
}
