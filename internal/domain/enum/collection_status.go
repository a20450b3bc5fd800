package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CollectionStatus represents the status of a collection request
type CollectionStatus int

const (
	CollectionStatusRequested CollectionStatus = 0
	CollectionStatusPaid      CollectionStatus = 1
	CollectionStatusCancelled CollectionStatus = 2
)

func (s CollectionStatus) String() string {
	names := [...]string{"Requested", "Paid", "Cancelled"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Requested"
	}
	return names[s]
}

// CanTransitionTo reports whether the transition from s to target is legal.
// Paid and Cancelled are terminal.
func (s CollectionStatus) CanTransitionTo(target CollectionStatus) bool {
	if s != CollectionStatusRequested {
		return false
	}
	return target == CollectionStatusPaid || target == CollectionStatusCancelled
}

func (s CollectionStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *CollectionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = CollectionStatus(i)
		return nil
	}
	switch str {
	case "Requested":
		*s = CollectionStatusRequested
	case "Paid":
		*s = CollectionStatusPaid
	case "Cancelled":
		*s = CollectionStatusCancelled
	}
	return nil
}

func (s CollectionStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *CollectionStatus) Scan(value interface{}) error {
	if value == nil {
		*s = CollectionStatusRequested
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = CollectionStatus(v)
	case int:
		*s = CollectionStatus(v)
	}
	return nil
}
