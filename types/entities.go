package types

type Condition struct {
	Name           string    `json:"name"`
	Status         string    `json:"status,omitempty"`
	ChiefComplaint bool      `json:"chief_complaint,omitempty"`
	NormalizedName string    `json:"normalized_name,omitempty"`
	Code           string    `json:"code,omitempty"`
	Display        string    `json:"display,omitempty"`
	CodeConfidence float64   `json:"code_confidence"`
	MatchTier      MatchTier `json:"match_tier,omitempty"`
}

type MedicationOrder struct {
	Name            string     `json:"name"`
	Dose            string     `json:"dose,omitempty"`
	Frequency       string     `json:"frequency,omitempty"`
	Route           string     `json:"route,omitempty"`
	RxCUI           string     `json:"rxcui,omitempty"`
	Display         string     `json:"display,omitempty"`
	DrugClass       string     `json:"drug_class,omitempty"`
	Verified        bool       `json:"verified"`
	MatchConfidence float64    `json:"match_confidence"`
	MatchTier       MatchTier  `json:"match_tier,omitempty"`
	LinkedCode      string     `json:"linked_code,omitempty"`
	LinkedDisplay   string     `json:"linked_display,omitempty"`
	LinkConfidence  float64    `json:"link_confidence"`
	LinkSource      LinkSource `json:"link_source,omitempty"`
}

// MedicationStatement is a medication the patient already takes, as opposed
// to one being ordered at this encounter. Statements are verified against the
// drug tables but never linked to a diagnosis.
type MedicationStatement struct {
	Name            string    `json:"name"`
	Dose            string    `json:"dose,omitempty"`
	Frequency       string    `json:"frequency,omitempty"`
	Route           string    `json:"route,omitempty"`
	RxCUI           string    `json:"rxcui,omitempty"`
	Display         string    `json:"display,omitempty"`
	DrugClass       string    `json:"drug_class,omitempty"`
	Verified        bool      `json:"verified"`
	MatchConfidence float64   `json:"match_confidence"`
	MatchTier       MatchTier `json:"match_tier,omitempty"`
}

type Allergy struct {
	Substance   string `json:"substance"`
	Reaction    string `json:"reaction,omitempty"`
	Criticality string `json:"criticality,omitempty"`
}

type Vital struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Unit  string `json:"unit,omitempty"`
}

type LabResult struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Unit  string `json:"unit,omitempty"`
}

// Order covers lab, referral and procedure orders. Kind is assigned from the
// record section the order was decoded from, not from the payload itself.
type Order struct {
	Kind           OrderKind  `json:"-"`
	Name           string     `json:"name"`
	Specialty      string     `json:"specialty,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	LinkedCode     string     `json:"linked_code,omitempty"`
	LinkedDisplay  string     `json:"linked_display,omitempty"`
	LinkConfidence float64    `json:"link_confidence"`
	LinkSource     LinkSource `json:"link_source,omitempty"`
}

type FamilyHistoryEntry struct {
	Relationship string `json:"relationship"`
	Condition    string `json:"condition"`
	AgeOfOnset   int    `json:"age_of_onset,omitempty"`
}

type SocialHistory struct {
	TobaccoUse      string `json:"tobacco_use,omitempty"`
	AlcoholUse      string `json:"alcohol_use,omitempty"`
	DrugUse         string `json:"drug_use,omitempty"`
	Occupation      string `json:"occupation,omitempty"`
	LivingSituation string `json:"living_situation,omitempty"`
}
