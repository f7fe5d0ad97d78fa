package purchasing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func submittedOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	o, err := NewPurchaseOrder(uuid.New(), "PO-00001", uuid.New())
	require.NoError(t, err)
	require.NoError(t, o.AddLine(uuid.New(), "BAR-1", "Bar stock", d("10"), d("4.5")))
	require.NoError(t, o.AddLine(uuid.New(), "BOLT-M6", "Bolts", d("100"), d("0.12")))
	require.NoError(t, o.Submit())
	return o
}

func TestPurchaseOrder_Submit(t *testing.T) {
	o, err := NewPurchaseOrder(uuid.New(), "PO-00001", uuid.New())
	require.NoError(t, err)
	assert.Error(t, o.Submit(), "no lines")

	o = submittedOrder(t)
	assert.Equal(t, OrderStatusSubmitted, o.Status)
	assert.True(t, o.Total().Equal(d("57")))
	assert.NotNil(t, o.SubmittedAt)
	require.Len(t, o.GetDomainEvents(), 1)
	assert.Equal(t, EventTypePurchaseOrderSubmitted, o.GetDomainEvents()[0].EventType())
}

func TestPurchaseOrder_Receive(t *testing.T) {
	t.Run("partial then full", func(t *testing.T) {
		o := submittedOrder(t)
		bar, bolt := o.Lines[0].ID, o.Lines[1].ID

		require.NoError(t, o.Receive(map[uuid.UUID]decimal.Decimal{bar: d("10"), bolt: d("40")}))
		assert.Equal(t, OrderStatusPartiallyReceived, o.Status)
		assert.True(t, o.Lines[1].Outstanding().Equal(d("60")))

		require.NoError(t, o.Receive(map[uuid.UUID]decimal.Decimal{bolt: d("60")}))
		assert.Equal(t, OrderStatusReceived, o.Status)
		assert.NotNil(t, o.ReceivedAt)

		require.NoError(t, o.Close())
	})

	t.Run("over receipt is rejected atomically", func(t *testing.T) {
		o := submittedOrder(t)
		bar, bolt := o.Lines[0].ID, o.Lines[1].ID

		err := o.Receive(map[uuid.UUID]decimal.Decimal{bar: d("5"), bolt: d("101")})
		assert.Error(t, err)
		assert.True(t, o.Lines[0].QuantityReceived.IsZero())
		assert.Equal(t, OrderStatusSubmitted, o.Status)
	})

	t.Run("unknown line", func(t *testing.T) {
		o := submittedOrder(t)
		assert.Error(t, o.Receive(map[uuid.UUID]decimal.Decimal{uuid.New(): d("1")}))
	})

	t.Run("draft cannot receive", func(t *testing.T) {
		o, err := NewPurchaseOrder(uuid.New(), "PO-2", uuid.New())
		require.NoError(t, err)
		assert.Error(t, o.Receive(map[uuid.UUID]decimal.Decimal{uuid.New(): d("1")}))
	})
}

func TestPurchaseOrder_Cancel(t *testing.T) {
	o := submittedOrder(t)
	require.NoError(t, o.Cancel("supplier closed"))
	assert.Equal(t, "supplier closed", o.CancelReason)
	assert.Error(t, o.Close())
}
