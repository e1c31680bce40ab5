package models

import (
	"encoding/json"
	"time"
)

type ProposalStatus string

const (
	ProposalStatusDraft     ProposalStatus = "draft"
	ProposalStatusSent      ProposalStatus = "sent"
	ProposalStatusPaid      ProposalStatus = "paid"
	ProposalStatusCancelled ProposalStatus = "cancelled"
)

// ProposalStatuses is the funnel order; cancelled comes last and is
// excluded from the conversion chain.
var ProposalStatuses = []ProposalStatus{
	ProposalStatusDraft,
	ProposalStatusSent,
	ProposalStatusPaid,
	ProposalStatusCancelled,
}

var ProposalStatusLabels = map[ProposalStatus]string{
	ProposalStatusDraft:     "Чернетка",
	ProposalStatusSent:      "Відправлено",
	ProposalStatusPaid:      "Оплачено",
	ProposalStatusCancelled: "Скасовано",
}

func (s ProposalStatus) Valid() bool {
	_, ok := ProposalStatusLabels[s]
	return ok
}

func (s ProposalStatus) Label() string {
	if label, ok := ProposalStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// StatusChange is one entry of a proposal's append-only audit trail.
type StatusChange struct {
	FromStatus ProposalStatus `json:"from_status"`
	ToStatus   ProposalStatus `json:"to_status"`
	ChangedAt  time.Time      `json:"changed_at"`
}

// Proposal is a commercial proposal (KP). The nested settings, rooms and
// additionalData documents are free-form client payloads; the service only
// interprets grandTotal and status.
type Proposal struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Client         string          `json:"client"`
	Location       string          `json:"location"`
	Date           string          `json:"date"`
	Settings       json.RawMessage `json:"settings"`
	Rooms          json.RawMessage `json:"rooms"`
	AdditionalData json.RawMessage `json:"additionalData"`
	GrandTotal     float64         `json:"grandTotal"`
	Status         ProposalStatus  `json:"status"`
	StatusHistory  []StatusChange  `json:"status_history"`
	DocType        string          `json:"doc_type"`
	CreatedAt      time.Time       `json:"created_at"`
}
