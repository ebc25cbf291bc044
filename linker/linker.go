// Package linker attaches a likely diagnosis to each order. A diagnosis the
// patient actually carries always beats the rule table's default indication:
// patient matches link at full confidence, rule defaults at half, and an
// order with no applicable rules is left unlinked.
package linker

import (
	"strings"

	"medscribe.io/enrich/norm"
	"medscribe.io/enrich/terminology"
	"medscribe.io/enrich/types"
)

const (
	PatientMatchConfidence = 1.0
	RuleDefaultConfidence  = 0.5
)

// Link annotates every order on the record. Conditions must already be coded
// for patient matching to see their codes.
func Link(rec *types.ClinicalRecord, tables *terminology.Tables) {
	for i := range rec.MedicationOrders {
		order := &rec.MedicationOrders[i]
		signal := order.DrugClass
		if signal == "" {
			signal = order.Name
		}
		code, display, confidence, source := resolve(tables, types.OrderKindMedication, signal, rec.Conditions)
		order.LinkedCode = code
		order.LinkedDisplay = display
		order.LinkConfidence = confidence
		order.LinkSource = source
	}
	linkOrders(rec.LabOrders, tables, rec.Conditions)
	linkOrders(rec.ReferralOrders, tables, rec.Conditions)
	linkOrders(rec.ProcedureOrders, tables, rec.Conditions)
}

func linkOrders(orders []types.Order, tables *terminology.Tables, conditions []types.Condition) {
	for i := range orders {
		order := &orders[i]
		signal := order.Name
		if order.Kind == types.OrderKindReferral && order.Specialty != "" {
			signal = order.Specialty
		}
		code, display, confidence, source := resolve(tables, order.Kind, signal, conditions)
		order.LinkedCode = code
		order.LinkedDisplay = display
		order.LinkConfidence = confidence
		order.LinkSource = source
	}
}

func resolve(
	tables *terminology.Tables,
	kind types.OrderKind,
	signal string,
	conditions []types.Condition,
) (code string, display string, confidence float64, source types.LinkSource) {
	rules := tables.RulesFor(kind, norm.Key(signal))
	if len(rules) == 0 {
		return "", "", 0, types.LinkNone
	}
	for _, rule := range rules {
		for i := range conditions {
			if matchesPatientCondition(&conditions[i], rule) {
				return rule.Code, rule.Display, PatientMatchConfidence, types.LinkPatientMatch
			}
		}
	}
	return rules[0].Code, rules[0].Display, RuleDefaultConfidence, types.LinkRuleDefault
}

// matchesPatientCondition reports whether a coded patient condition supports
// the rule, either by code equality or by display containment.
func matchesPatientCondition(condition *types.Condition, rule terminology.LinkRule) bool {
	if condition.Code != "" && condition.Code == rule.Code {
		return true
	}
	conditionKey := condition.NormalizedName
	if conditionKey == "" {
		conditionKey = norm.Condition(condition.Name)
	}
	ruleKey := norm.Key(rule.Display)
	if conditionKey == "" || ruleKey == "" {
		return false
	}
	return strings.Contains(ruleKey, conditionKey) || strings.Contains(conditionKey, ruleKey)
}
