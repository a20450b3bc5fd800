package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ExpenseKind separates company-borne from driver-personal settlement expenses
type ExpenseKind int

const (
	ExpenseKindCompany  ExpenseKind = 0
	ExpenseKindPersonal ExpenseKind = 1
)

func (k ExpenseKind) String() string {
	if k == ExpenseKindPersonal {
		return "Personal"
	}
	return "Company"
}

func (k ExpenseKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *ExpenseKind) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*k = ExpenseKind(i)
		return nil
	}
	switch str {
	case "Company":
		*k = ExpenseKindCompany
	case "Personal":
		*k = ExpenseKindPersonal
	}
	return nil
}

func (k ExpenseKind) Value() (driver.Value, error) {
	return int64(k), nil
}

func (k *ExpenseKind) Scan(value interface{}) error {
	if value == nil {
		*k = ExpenseKindCompany
		return nil
	}
	switch v := value.(type) {
	case int64:
		*k = ExpenseKind(v)
	case int:
		*k = ExpenseKind(v)
	}
	return nil
}
