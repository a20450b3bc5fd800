package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWaybillStatusTransitions(t *testing.T) {
	all := []WaybillStatus{
		WaybillStatusPending,
		WaybillStatusInvoiced,
		WaybillStatusNoInvoiceNeeded,
		WaybillStatusNeedTaxUnpaid,
		WaybillStatusNeedTaxPaid,
	}

	allowed := map[WaybillStatus]map[WaybillStatus]bool{
		WaybillStatusPending: {
			WaybillStatusInvoiced:        true,
			WaybillStatusNoInvoiceNeeded: true,
			WaybillStatusNeedTaxUnpaid:   true,
		},
		WaybillStatusInvoiced:        {WaybillStatusPending: true},
		WaybillStatusNoInvoiceNeeded: {WaybillStatusPending: true},
		WaybillStatusNeedTaxUnpaid:   {WaybillStatusNeedTaxPaid: true},
		WaybillStatusNeedTaxPaid: {
			WaybillStatusNeedTaxUnpaid: true,
			WaybillStatusPending:       true,
		},
	}

	for _, from := range all {
		for _, to := range all {
			got := from.CanTransitionTo(to)
			assert.Equal(t, allowed[from][to], got, "%s -> %s", from, to)
		}
	}
}

func TestWaybillStatusJSON(t *testing.T) {
	data, err := json.Marshal(WaybillStatusNeedTaxUnpaid)
	assert.NoError(t, err)
	assert.Equal(t, `"NeedTaxUnpaid"`, string(data))

	var byName WaybillStatus
	assert.NoError(t, json.Unmarshal([]byte(`"Invoiced"`), &byName))
	assert.Equal(t, WaybillStatusInvoiced, byName)

	var byNumber WaybillStatus
	assert.NoError(t, json.Unmarshal([]byte(`4`), &byNumber))
	assert.Equal(t, WaybillStatusNeedTaxPaid, byNumber)
}

func TestWaybillStatusString(t *testing.T) {
	assert.Equal(t, "NoInvoiceNeeded", WaybillStatusNoInvoiceNeeded.String())
	assert.Equal(t, "Pending", WaybillStatus(99).String())
}

func TestInvoiceStatusTransitions(t *testing.T) {
	assert.True(t, InvoiceStatusIssued.CanTransitionTo(InvoiceStatusPaid))
	assert.True(t, InvoiceStatusIssued.CanTransitionTo(InvoiceStatusVoid))
	assert.True(t, InvoiceStatusVoid.CanTransitionTo(InvoiceStatusIssued))

	assert.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusIssued))
	assert.False(t, InvoiceStatusPaid.CanTransitionTo(InvoiceStatusVoid))
	assert.False(t, InvoiceStatusVoid.CanTransitionTo(InvoiceStatusPaid))
	assert.False(t, InvoiceStatusIssued.CanTransitionTo(InvoiceStatusIssued))
}

func TestCollectionStatusTransitions(t *testing.T) {
	assert.True(t, CollectionStatusRequested.CanTransitionTo(CollectionStatusPaid))
	assert.True(t, CollectionStatusRequested.CanTransitionTo(CollectionStatusCancelled))

	assert.False(t, CollectionStatusPaid.CanTransitionTo(CollectionStatusCancelled))
	assert.False(t, CollectionStatusCancelled.CanTransitionTo(CollectionStatusPaid))
	assert.False(t, CollectionStatusPaid.CanTransitionTo(CollectionStatusRequested))
}
