// Package validate drops entities whose content is a transcription
// placeholder rather than a clinical fact, medication or referral orders
// whose text is a care instruction rather than an orderable item, and
// referrals that carry no clinical reason. Every drop is recorded as an
// audit note.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"medscribe.io/enrich/types"
)

var placeholderValues = map[string]bool{
	"":                 true,
	"null":             true,
	"none":             true,
	"not mentioned":    true,
	"not specified":    true,
	"unknown":          true,
	"n/a":              true,
	"na":               true,
	"not applicable":   true,
	"not available":    true,
	"not provided":     true,
	"not stated":       true,
	"not documented":   true,
	"no information":   true,
	"unspecified":      true,
}

var noKnownAllergyValues = map[string]bool{
	"nkda":                    true,
	"no known allergies":      true,
	"no known drug allergies": true,
}

var instructionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^await\b`),
	regexp.MustCompile(`(?i)^resume\b`),
	regexp.MustCompile(`(?i)^avoid\b`),
	regexp.MustCompile(`(?i)^continue\b`),
	regexp.MustCompile(`(?i)^stop\b`),
	regexp.MustCompile(`(?i)^follow\s*up\b`),
	regexp.MustCompile(`(?i)^return\b`),
	regexp.MustCompile(`(?i)\bpathology\b`),
	regexp.MustCompile(`(?i)\bdiet\b`),
	regexp.MustCompile(`(?i)\bdriving\b`),
	regexp.MustCompile(`(?i)\bactivity\b`),
}

var digitPattern = regexp.MustCompile(`\d`)

func IsPlaceholder(s string) bool {
	return placeholderValues[strings.ToLower(strings.TrimSpace(s))]
}

func isInstruction(s string) bool {
	for _, pattern := range instructionPatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}

// Apply removes invalid entities from the record in place and returns one
// audit note per removal.
func Apply(rec *types.ClinicalRecord) []types.AuditNote {
	var notes []types.AuditNote
	dropped := func(category, name, reason string) {
		notes = append(notes, types.AuditNote{
			Action:   types.AuditDropped,
			Category: category,
			Reason:   fmt.Sprintf("%s: %q", reason, name),
		})
	}

	conditions := rec.Conditions[:0]
	for _, condition := range rec.Conditions {
		if IsPlaceholder(condition.Name) {
			dropped("condition", condition.Name, "placeholder value")
			continue
		}
		conditions = append(conditions, condition)
	}
	rec.Conditions = conditions

	medicationOrders := rec.MedicationOrders[:0]
	for _, order := range rec.MedicationOrders {
		if IsPlaceholder(order.Name) {
			dropped("medication_order", order.Name, "placeholder value")
			continue
		}
		if isInstruction(order.Name) {
			dropped("medication_order", order.Name, "care instruction, not a medication")
			continue
		}
		medicationOrders = append(medicationOrders, order)
	}
	rec.MedicationOrders = medicationOrders

	medications := rec.Medications[:0]
	for _, statement := range rec.Medications {
		if IsPlaceholder(statement.Name) {
			dropped("medication", statement.Name, "placeholder value")
			continue
		}
		if isInstruction(statement.Name) {
			dropped("medication", statement.Name, "care instruction, not a medication")
			continue
		}
		medications = append(medications, statement)
	}
	rec.Medications = medications

	allergies := rec.Allergies[:0]
	for _, allergy := range rec.Allergies {
		if IsPlaceholder(allergy.Substance) {
			dropped("allergy", allergy.Substance, "placeholder value")
			continue
		}
		if noKnownAllergyValues[strings.ToLower(strings.TrimSpace(allergy.Substance))] {
			dropped("allergy", allergy.Substance, "negative allergy statement")
			continue
		}
		allergies = append(allergies, allergy)
	}
	rec.Allergies = allergies

	vitals := rec.Vitals[:0]
	for _, vital := range rec.Vitals {
		if IsPlaceholder(vital.Value) {
			dropped("vital", vital.Type, "placeholder value")
			continue
		}
		if !digitPattern.MatchString(vital.Value) {
			dropped("vital", vital.Type, "non-numeric reading")
			continue
		}
		vitals = append(vitals, vital)
	}
	rec.Vitals = vitals

	labResults := rec.LabResults[:0]
	for _, result := range rec.LabResults {
		if IsPlaceholder(result.Name) {
			dropped("lab_result", result.Name, "placeholder value")
			continue
		}
		labResults = append(labResults, result)
	}
	rec.LabResults = labResults

	rec.LabOrders = filterOrders(rec.LabOrders, "lab_order", dropped)
	rec.ReferralOrders = filterReferrals(rec.ReferralOrders, dropped)
	rec.ProcedureOrders = filterOrders(rec.ProcedureOrders, "procedure_order", dropped)

	familyHistory := rec.FamilyHistory[:0]
	for _, entry := range rec.FamilyHistory {
		if IsPlaceholder(entry.Condition) || IsPlaceholder(entry.Relationship) {
			dropped("family_history", entry.Relationship+" "+entry.Condition, "placeholder value")
			continue
		}
		familyHistory = append(familyHistory, entry)
	}
	rec.FamilyHistory = familyHistory

	if history := rec.SocialHistory; history != nil {
		clear := func(field *string, label string) {
			if *field != "" && IsPlaceholder(*field) {
				dropped("social_history", label, "placeholder value")
				*field = ""
			}
		}
		clear(&history.TobaccoUse, "tobacco_use")
		clear(&history.AlcoholUse, "alcohol_use")
		clear(&history.DrugUse, "drug_use")
		clear(&history.Occupation, "occupation")
		clear(&history.LivingSituation, "living_situation")
		if *history == (types.SocialHistory{}) {
			rec.SocialHistory = nil
		}
	}

	return notes
}

func filterOrders(orders []types.Order, category string, dropped func(category, name, reason string)) []types.Order {
	kept := orders[:0]
	for _, order := range orders {
		if IsPlaceholder(order.Name) {
			dropped(category, order.Name, "placeholder value")
			continue
		}
		kept = append(kept, order)
	}
	return kept
}

// filterReferrals checks the reason as well as the name: a referral without
// a clinical reason, or whose reason is a care instruction, is invalid and
// removed.
func filterReferrals(orders []types.Order, dropped func(category, name, reason string)) []types.Order {
	kept := orders[:0]
	for _, order := range orders {
		if IsPlaceholder(order.Name) {
			dropped("referral_order", order.Name, "placeholder value")
			continue
		}
		if isInstruction(order.Name) {
			dropped("referral_order", order.Name, "care instruction, not a referral")
			continue
		}
		if IsPlaceholder(order.Reason) {
			dropped("referral_order", order.Name, "missing or placeholder reason")
			continue
		}
		if isInstruction(order.Reason) {
			dropped("referral_order", order.Name, "care instruction, not a referral reason")
			continue
		}
		kept = append(kept, order)
	}
	return kept
}
