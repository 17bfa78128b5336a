// README: Trip reservation record and status definitions.
package trip

import (
	"bytes"
	"encoding/json"

	"vtc/internal/modules/pricing"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// AllowedTransitions represents the reservation lifecycle as code.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// ID accepts both numeric and string identifiers from the backend.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type Trip struct {
	ID            ID                  `json:"id"`
	TokenID       string              `json:"token_id,omitempty"`
	Origin        string              `json:"origin"`
	Destination   string              `json:"destination"`
	PickupDate    string              `json:"pickupDate"`
	PickupTime    string              `json:"pickupTime"`
	Passengers    int                 `json:"numberOfPassengers"`
	ServiceType   pricing.ServiceType `json:"serviceType"`
	Status        Status              `json:"status"`
	PaymentStatus string              `json:"paymentStatus,omitempty"`
	TotalAmount   *float64            `json:"totalAmount,omitempty"`
	DepositAmount *float64            `json:"depositAmount,omitempty"`
	DistanceKm    *float64            `json:"distanceKm,omitempty"`
	Supplements   []string            `json:"supplements,omitempty"`
	Comments      string              `json:"comments,omitempty"`
	CreatedAt     string              `json:"createdAt,omitempty"`
}

// CreateCommand is a reservation request. HoursNeeded is only read for hourly service.
type CreateCommand struct {
	Origin      string              `json:"origin"`
	Destination string              `json:"destination"`
	PickupDate  string              `json:"pickupDate"`
	PickupTime  string              `json:"pickupTime"`
	Passengers  int                 `json:"numberOfPassengers"`
	ServiceType pricing.ServiceType `json:"serviceType"`
	HoursNeeded int                 `json:"hoursNeeded,omitempty"`
	Supplements []string            `json:"supplements,omitempty"`
	Comments    string              `json:"comments,omitempty"`
}
