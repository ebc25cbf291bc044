package types

// MatchTier records which terminology tier produced a code annotation.
type MatchTier string

const (
	TierExact      MatchTier = "exact"
	TierSynonym    MatchTier = "synonym"
	TierFuzzy      MatchTier = "fuzzy"
	TierUnresolved MatchTier = "unresolved"
)

// LinkSource records how an order was linked to a diagnosis code.
type LinkSource string

const (
	LinkPatientMatch LinkSource = "patient-match"
	LinkRuleDefault  LinkSource = "rule-default"
	LinkNone         LinkSource = "none"
)

type OrderKind string

const (
	OrderKindMedication OrderKind = "medication"
	OrderKindLab        OrderKind = "lab"
	OrderKindReferral   OrderKind = "referral"
	OrderKindProcedure  OrderKind = "procedure"
)

type AuditAction string

const (
	AuditDropped      AuditAction = "dropped"
	AuditDeduplicated AuditAction = "deduplicated"
	AuditUnresolved   AuditAction = "unresolved"
)

type AuditNote struct {
	Action   AuditAction `json:"action"`
	Category string      `json:"category"`
	Reason   string      `json:"reason"`
}
