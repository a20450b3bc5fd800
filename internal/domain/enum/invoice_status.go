package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the status of a tax invoice
type InvoiceStatus int

const (
	InvoiceStatusIssued InvoiceStatus = 0
	InvoiceStatusPaid   InvoiceStatus = 1
	InvoiceStatusVoid   InvoiceStatus = 2
)

func (s InvoiceStatus) String() string {
	names := [...]string{"Issued", "Paid", "Void"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Issued"
	}
	return names[s]
}

// CanTransitionTo reports whether the transition from s to target is legal.
// Issued may be paid or voided; a void invoice may be restored to issued.
// Paid is terminal.
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusIssued:
		return target == InvoiceStatusPaid || target == InvoiceStatusVoid
	case InvoiceStatusVoid:
		return target == InvoiceStatusIssued
	default:
		return false
	}
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = InvoiceStatus(i)
		return nil
	}
	switch str {
	case "Issued":
		*s = InvoiceStatusIssued
	case "Paid":
		*s = InvoiceStatusPaid
	case "Void":
		*s = InvoiceStatusVoid
	}
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	if value == nil {
		*s = InvoiceStatusIssued
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = InvoiceStatus(v)
	case int:
		*s = InvoiceStatus(v)
	}
	return nil
}
