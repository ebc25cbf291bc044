// Package dedup collapses duplicate entities inside each record section.
// The first occurrence always wins; later entries with the same normalized
// key are discarded, even when their other attributes differ.
package dedup

import (
	"fmt"

	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/types"
	"medscribe.io/enrich/utils"
)

// Apply removes duplicates from the record in place and returns one audit
// note per discarded entry.
func Apply(rec *types.ClinicalRecord) []types.AuditNote {
	var notes []types.AuditNote
	discarded := func(category, name string) {
		notes = append(notes, types.AuditNote{
			Action:   types.AuditDeduplicated,
			Category: category,
			Reason:   fmt.Sprintf("duplicate of an earlier entry: %q", name),
		})
	}

	seen := newKeySet()
	conditions := rec.Conditions[:0]
	for _, condition := range rec.Conditions {
		if seen.add(norm.Key(condition.Name)) {
			conditions = append(conditions, condition)
			continue
		}
		// a duplicate may carry the chief complaint flag the survivor lacks
		if condition.ChiefComplaint {
			for i := range conditions {
				if norm.Key(conditions[i].Name) == norm.Key(condition.Name) {
					conditions[i].ChiefComplaint = true
				}
			}
		}
		discarded("condition", condition.Name)
	}
	rec.Conditions = conditions

	seen = newKeySet()
	medicationOrders := rec.MedicationOrders[:0]
	for _, order := range rec.MedicationOrders {
		if !seen.add(norm.Key(order.Name)) {
			discarded("medication_order", order.Name)
			continue
		}
		medicationOrders = append(medicationOrders, order)
	}
	rec.MedicationOrders = medicationOrders

	seen = newKeySet()
	medications := rec.Medications[:0]
	for _, statement := range rec.Medications {
		if !seen.add(norm.Key(statement.Name)) {
			discarded("medication", statement.Name)
			continue
		}
		medications = append(medications, statement)
	}
	rec.Medications = medications

	seen = newKeySet()
	allergies := rec.Allergies[:0]
	for _, allergy := range rec.Allergies {
		if !seen.add(norm.Key(allergy.Substance)) {
			discarded("allergy", allergy.Substance)
			continue
		}
		allergies = append(allergies, allergy)
	}
	rec.Allergies = allergies

	// a measurement is identified by its type and reading together, so two
	// readings of the same vital on one visit both survive
	seen = newKeySet()
	vitals := rec.Vitals[:0]
	for _, vital := range rec.Vitals {
		if !seen.add(norm.Key(vital.Type + " " + vital.Value)) {
			discarded("vital", vital.Type)
			continue
		}
		vitals = append(vitals, vital)
	}
	rec.Vitals = vitals

	seen = newKeySet()
	labResults := rec.LabResults[:0]
	for _, result := range rec.LabResults {
		if !seen.add(norm.Key(result.Name + " " + result.Value)) {
			discarded("lab_result", result.Name)
			continue
		}
		labResults = append(labResults, result)
	}
	rec.LabResults = labResults

	rec.LabOrders = dedupOrders(rec.LabOrders, "lab_order", discarded)
	rec.ReferralOrders = dedupOrders(rec.ReferralOrders, "referral_order", discarded)
	rec.ProcedureOrders = dedupOrders(rec.ProcedureOrders, "procedure_order", discarded)

	seen = newKeySet()
	familyHistory := rec.FamilyHistory[:0]
	for _, entry := range rec.FamilyHistory {
		if !seen.add(norm.Key(entry.Relationship) + "|" + norm.Key(entry.Condition)) {
			discarded("family_history", entry.Relationship+" "+entry.Condition)
			continue
		}
		familyHistory = append(familyHistory, entry)
	}
	rec.FamilyHistory = familyHistory

	return notes
}

func dedupOrders(orders []types.Order, category string, discarded func(category, name string)) []types.Order {
	seen := newKeySet()
	kept := orders[:0]
	for _, order := range orders {
		if !seen.add(norm.Key(order.Name)) {
			discarded(category, order.Name)
			continue
		}
		kept = append(kept, order)
	}
	return kept
}

type keySet map[uint64]bool

func newKeySet() keySet {
	return make(keySet)
}

// add reports whether the key was new.
func (set keySet) add(key string) bool {
	hash := utils.HashString(key)
	if set[hash] {
		return false
	}
	set[hash] = true
	return true
}
