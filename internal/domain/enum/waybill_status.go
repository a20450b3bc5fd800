package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// WaybillStatus represents the lifecycle status of a waybill
type WaybillStatus int

const (
	WaybillStatusPending         WaybillStatus = 0
	WaybillStatusInvoiced        WaybillStatus = 1
	WaybillStatusNoInvoiceNeeded WaybillStatus = 2
	WaybillStatusNeedTaxUnpaid   WaybillStatus = 3
	WaybillStatusNeedTaxPaid     WaybillStatus = 4
)

func (s WaybillStatus) String() string {
	names := [...]string{"Pending", "Invoiced", "NoInvoiceNeeded", "NeedTaxUnpaid", "NeedTaxPaid"}
	if int(s) < 0 || int(s) >= len(names) {
		return "Pending"
	}
	return names[s]
}

// waybillTransitions is the closed transition table for waybill statuses.
// Any (from, to) pair not listed here is illegal.
var waybillTransitions = map[WaybillStatus][]WaybillStatus{
	WaybillStatusPending:         {WaybillStatusInvoiced, WaybillStatusNoInvoiceNeeded, WaybillStatusNeedTaxUnpaid},
	WaybillStatusInvoiced:        {WaybillStatusPending},
	WaybillStatusNoInvoiceNeeded: {WaybillStatusPending},
	WaybillStatusNeedTaxUnpaid:   {WaybillStatusNeedTaxPaid},
	WaybillStatusNeedTaxPaid:     {WaybillStatusNeedTaxUnpaid, WaybillStatusPending},
}

// CanTransitionTo reports whether the transition from s to target is legal
func (s WaybillStatus) CanTransitionTo(target WaybillStatus) bool {
	for _, allowed := range waybillTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

func (s WaybillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *WaybillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = WaybillStatus(i)
		return nil
	}
	switch str {
	case "Pending":
		*s = WaybillStatusPending
	case "Invoiced":
		*s = WaybillStatusInvoiced
	case "NoInvoiceNeeded":
		*s = WaybillStatusNoInvoiceNeeded
	case "NeedTaxUnpaid":
		*s = WaybillStatusNeedTaxUnpaid
	case "NeedTaxPaid":
		*s = WaybillStatusNeedTaxPaid
	}
	return nil
}

func (s WaybillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *WaybillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = WaybillStatusPending
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = WaybillStatus(v)
	case int:
		*s = WaybillStatus(v)
	}
	return nil
}
