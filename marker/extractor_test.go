package marker

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"medscribe.io/enrich/types"
)

func TestChiefComplaintFromSection(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "[CHIEF COMPLAINT] shortness of breath [HISTORY] Two weeks of symptoms.",
	}
	Extract(rec)
	require.Len(t, rec.Conditions, 1)
	require.Equal(t, "shortness of breath", rec.Conditions[0].Name)
	require.True(t, rec.Conditions[0].ChiefComplaint)
}

func TestChiefComplaintMarksExistingCondition(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "CC: chest pain\nThe patient reports two days of symptoms.",
		Conditions: []types.Condition{{Name: "Chest pain"}},
	}
	Extract(rec)
	require.Len(t, rec.Conditions, 1)
	require.True(t, rec.Conditions[0].ChiefComplaint)
}

func TestChiefComplaintFromPresentsWith(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "The patient presents with a persistent cough, worse at night.",
	}
	Extract(rec)
	require.Len(t, rec.Conditions, 1)
	require.Equal(t, "persistent cough", rec.Conditions[0].Name)
}

func TestFamilyHistoryRecovery(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "[FAMILY HISTORY] Mother had a heart attack at age 52. " +
			"His paternal grandfather died of colon cancer. [SOCIAL HISTORY] none",
	}
	Extract(rec)
	expected := []types.FamilyHistoryEntry{
		{Relationship: "mother", Condition: "heart attack", AgeOfOnset: 52},
		{Relationship: "paternal grandfather", Condition: "colon cancer"},
	}
	require.Empty(t, cmp.Diff(expected, rec.FamilyHistory))
}

func TestFamilyHistoryOfPhrase(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "There is a family history of early stroke in the father.",
	}
	Extract(rec)
	require.Len(t, rec.FamilyHistory, 1)
	require.Equal(t, "father", rec.FamilyHistory[0].Relationship)
	require.Equal(t, "early stroke", rec.FamilyHistory[0].Condition)
}

func TestFamilyHistoryDoesNotDuplicateExisting(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "[FAMILY HISTORY] Dad has diabetes.",
		FamilyHistory: []types.FamilyHistoryEntry{
			{Relationship: "father", Condition: "diabetes"},
		},
	}
	Extract(rec)
	require.Len(t, rec.FamilyHistory, 1)
}

func TestSocialHistoryRecovery(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "[SOCIAL HISTORY] Former smoker, quit 10 years ago. Denies alcohol use. " +
			"Denies recreational drug use. Works as a teacher. Lives with her spouse.",
	}
	Extract(rec)
	require.NotNil(t, rec.SocialHistory)
	require.Equal(t, "Former smoker", rec.SocialHistory.TobaccoUse)
	require.Equal(t, "Denies alcohol use", rec.SocialHistory.AlcoholUse)
	require.Equal(t, "Denies recreational drug use", rec.SocialHistory.DrugUse)
	require.Equal(t, "teacher", rec.SocialHistory.Occupation)
	require.Equal(t, "Lives with her spouse", rec.SocialHistory.LivingSituation)
}

func TestSocialHistoryDoesNotOverwrite(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript:    "[SOCIAL HISTORY] Smokes one pack per day.",
		SocialHistory: &types.SocialHistory{TobaccoUse: "never smoker"},
	}
	Extract(rec)
	require.Equal(t, "never smoker", rec.SocialHistory.TobaccoUse)
}

func TestExtractIsIdempotent(t *testing.T) {
	rec := &types.ClinicalRecord{
		Transcript: "[CHIEF COMPLAINT] headache [FAMILY HISTORY] Sister has migraines.",
	}
	Extract(rec)
	first := *rec
	firstFamily := append([]types.FamilyHistoryEntry(nil), rec.FamilyHistory...)
	firstConditions := append([]types.Condition(nil), rec.Conditions...)
	Extract(rec)
	require.Empty(t, cmp.Diff(firstConditions, rec.Conditions))
	require.Empty(t, cmp.Diff(firstFamily, rec.FamilyHistory))
	require.Equal(t, first.SocialHistory, rec.SocialHistory)
}

func TestNormalizeRelationship(t *testing.T) {
	require.Equal(t, "father", NormalizeRelationship("Dad"))
	require.Equal(t, "mother", NormalizeRelationship("mom"))
	require.Equal(t, "paternal grandfather", NormalizeRelationship("Paternal Grandfather"))
	require.Equal(t, "second cousin", NormalizeRelationship("Second Cousin"))
}
