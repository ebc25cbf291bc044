package types

import (
	"encoding/json"
)

type ClinicalRecord struct {
	Transcript       string                `json:"transcript,omitempty"`
	Conditions       []Condition           `json:"conditions"`
	MedicationOrders []MedicationOrder     `json:"medication_orders"`
	Medications      []MedicationStatement `json:"medications"`
	Allergies        []Allergy             `json:"allergies"`
	Vitals           []Vital               `json:"vitals"`
	LabResults       []LabResult           `json:"lab_results"`
	LabOrders        []Order               `json:"lab_orders"`
	ReferralOrders   []Order               `json:"referral_orders"`
	ProcedureOrders  []Order               `json:"procedure_orders"`
	FamilyHistory    []FamilyHistoryEntry  `json:"family_history"`
	SocialHistory    *SocialHistory        `json:"social_history,omitempty"`
	Audit            []AuditNote           `json:"audit,omitempty"`
}

// ParseRecord decodes an extraction payload section by section. A section
// whose shape does not match the contract is left empty instead of failing
// the whole record.
func ParseRecord(data []byte) *ClinicalRecord {
	var rec ClinicalRecord
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		rec.TagOrderKinds()
		return &rec
	}
	decode := func(key string, target interface{}) {
		raw, ok := sections[key]
		if !ok {
			return
		}
		_ = json.Unmarshal(raw, target)
	}
	decode("transcript", &rec.Transcript)
	decode("conditions", &rec.Conditions)
	decode("medication_orders", &rec.MedicationOrders)
	decode("medications", &rec.Medications)
	decode("allergies", &rec.Allergies)
	decode("vitals", &rec.Vitals)
	decode("lab_results", &rec.LabResults)
	decode("lab_orders", &rec.LabOrders)
	decode("referral_orders", &rec.ReferralOrders)
	decode("procedure_orders", &rec.ProcedureOrders)
	decode("family_history", &rec.FamilyHistory)
	decode("social_history", &rec.SocialHistory)
	rec.TagOrderKinds()
	return &rec
}

func (rec *ClinicalRecord) TagOrderKinds() {
	for i := range rec.LabOrders {
		rec.LabOrders[i].Kind = OrderKindLab
	}
	for i := range rec.ReferralOrders {
		rec.ReferralOrders[i].Kind = OrderKindReferral
	}
	for i := range rec.ProcedureOrders {
		rec.ProcedureOrders[i].Kind = OrderKindProcedure
	}
}

func (rec *ClinicalRecord) Encode() ([]byte, error) {
	return json.Marshal(rec)
}
