package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
	"medscribe.io/enrich/types"
)

func TestIsPlaceholder(t *testing.T) {
	for _, value := range []string{"", "  ", "null", "None", "NOT MENTIONED", "n/a", "Unknown", "not documented"} {
		require.True(t, IsPlaceholder(value), "value %q", value)
	}
	for _, value := range []string{"hypertension", "aspirin", "120/80", "0"} {
		require.False(t, IsPlaceholder(value), "value %q", value)
	}
}

func TestApplyDropsPlaceholderConditions(t *testing.T) {
	rec := &types.ClinicalRecord{
		Conditions: []types.Condition{
			{Name: "hypertension"},
			{Name: "not mentioned"},
			{Name: "None"},
		},
	}
	notes := Apply(rec)
	require.Len(t, rec.Conditions, 1)
	require.Equal(t, "hypertension", rec.Conditions[0].Name)
	require.Len(t, notes, 2)
	require.Equal(t, types.AuditDropped, notes[0].Action)
	require.Equal(t, "condition", notes[0].Category)
}

func TestApplyDropsInstructionMedicationOrders(t *testing.T) {
	rec := &types.ClinicalRecord{
		MedicationOrders: []types.MedicationOrder{
			{Name: "lisinopril 10mg"},
			{Name: "Continue home medications"},
			{Name: "await pathology results"},
			{Name: "follow up in 2 weeks"},
		},
	}
	Apply(rec)
	require.Len(t, rec.MedicationOrders, 1)
	require.Equal(t, "lisinopril 10mg", rec.MedicationOrders[0].Name)
}

func TestApplyDropsNonNumericVitals(t *testing.T) {
	rec := &types.ClinicalRecord{
		Vitals: []types.Vital{
			{Type: "blood pressure", Value: "120/80"},
			{Type: "temperature", Value: "98.6 F"},
			{Type: "heart rate", Value: "not mentioned"},
			{Type: "weight", Value: "pending"},
		},
	}
	Apply(rec)
	require.Len(t, rec.Vitals, 2)
	require.Equal(t, "blood pressure", rec.Vitals[0].Type)
	require.Equal(t, "temperature", rec.Vitals[1].Type)
}

func TestApplyDropsNegativeAllergies(t *testing.T) {
	rec := &types.ClinicalRecord{
		Allergies: []types.Allergy{
			{Substance: "penicillin", Reaction: "rash"},
			{Substance: "NKDA"},
			{Substance: "unknown"},
		},
	}
	Apply(rec)
	require.Len(t, rec.Allergies, 1)
	require.Equal(t, "penicillin", rec.Allergies[0].Substance)
}

func TestApplyDropsInstructionReferrals(t *testing.T) {
	rec := &types.ClinicalRecord{
		ReferralOrders: []types.Order{
			{Kind: types.OrderKindReferral, Name: "cardiology", Specialty: "cardiology", Reason: "palpitations"},
			{Kind: types.OrderKindReferral, Name: "return if symptoms worsen", Reason: "chest pain"},
			{Kind: types.OrderKindReferral, Name: "not specified", Reason: "chest pain"},
		},
	}
	Apply(rec)
	require.Len(t, rec.ReferralOrders, 1)
	require.Equal(t, "cardiology", rec.ReferralOrders[0].Name)
}

func TestApplyDropsReferralsWithoutClinicalReason(t *testing.T) {
	rec := &types.ClinicalRecord{
		ReferralOrders: []types.Order{
			{Kind: types.OrderKindReferral, Name: "cardiology", Specialty: "cardiology", Reason: "chest pain"},
			{Kind: types.OrderKindReferral, Name: "cardiology referral", Reason: "null"},
			{Kind: types.OrderKindReferral, Name: "nephrology"},
			{Kind: types.OrderKindReferral, Name: "gastroenterology", Reason: "follow up after imaging"},
		},
	}
	notes := Apply(rec)
	require.Len(t, rec.ReferralOrders, 1)
	require.Equal(t, "cardiology", rec.ReferralOrders[0].Name)
	require.Len(t, notes, 3)
	for _, note := range notes {
		require.Equal(t, types.AuditDropped, note.Action)
		require.Equal(t, "referral_order", note.Category)
	}
}

func TestApplyClearsPlaceholderSocialHistory(t *testing.T) {
	rec := &types.ClinicalRecord{
		SocialHistory: &types.SocialHistory{
			TobaccoUse: "former smoker",
			AlcoholUse: "not mentioned",
		},
	}
	Apply(rec)
	require.NotNil(t, rec.SocialHistory)
	require.Equal(t, "former smoker", rec.SocialHistory.TobaccoUse)
	require.Empty(t, rec.SocialHistory.AlcoholUse)

	rec = &types.ClinicalRecord{
		SocialHistory: &types.SocialHistory{TobaccoUse: "unknown"},
	}
	Apply(rec)
	require.Nil(t, rec.SocialHistory)
}

func TestApplyDropsPlaceholderFamilyHistory(t *testing.T) {
	rec := &types.ClinicalRecord{
		FamilyHistory: []types.FamilyHistoryEntry{
			{Relationship: "mother", Condition: "diabetes"},
			{Relationship: "father", Condition: "unknown"},
		},
	}
	Apply(rec)
	require.Len(t, rec.FamilyHistory, 1)
	require.Equal(t, "mother", rec.FamilyHistory[0].Relationship)
}

func TestApplyIsIdempotent(t *testing.T) {
	rec := &types.ClinicalRecord{
		Conditions: []types.Condition{{Name: "asthma"}, {Name: "n/a"}},
		Vitals:     []types.Vital{{Type: "heart rate", Value: "72"}},
	}
	first := Apply(rec)
	require.Len(t, first, 1)
	second := Apply(rec)
	require.Empty(t, second)
	require.Len(t, rec.Conditions, 1)
}
