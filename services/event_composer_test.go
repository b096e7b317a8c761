package services

import (
	"encoding/json"
	"testing"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func composerFixture(bumpData *string) (*models.Order, *models.Product) {
	product := &models.Product{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "Ebook de Vendas",
	}
	order := &models.Order{
		ID:            uuid.New(),
		OrderCode:     "ORD-1",
		Amount:        decimal.RequireFromString("10000"),
		Currency:      "KZ",
		Status:        models.OrderStatusCompleted,
		PaymentMethod: "multicaixa",
		CustomerName:  "Ana Silva",
		CustomerEmail: "ana@example.com",
		ProductID:     product.ID,
		OrderBumpData: bumpData,
	}
	return order, product
}

func TestCompose_MainOrderEmitsBothEvents(t *testing.T) {
	order, product := composerFixture(nil)
	composer := NewEventComposer(zap.NewNop())

	events := composer.Compose(order, product)
	require.Len(t, events, 2)

	assert.Equal(t, models.EventTypePaymentSuccess, events[0].EventType)
	assert.Equal(t, models.EventTypeProductPurchased, events[1].EventType)
	for _, event := range events {
		assert.Equal(t, order.ID.String(), event.OrderReference)
		assert.Equal(t, order.ProductID, event.ProductID)
		assert.Equal(t, models.OrderStatusCompleted, event.Status)

		var payload models.WebhookPayload
		require.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
		assert.Equal(t, event.EventType, payload.Event)
		assert.Equal(t, order.ID.String(), payload.Data.OrderID)
		assert.True(t, payload.Data.Amount.Equal(order.Amount))
		assert.Equal(t, "KZ", payload.Data.Currency)
		assert.Equal(t, "Ebook de Vendas", payload.Data.ProductName)
		assert.False(t, payload.Data.IsOrderBump)
		assert.NotEmpty(t, payload.Data.Timestamp)
	}
}

func TestCompose_BumpEmitsSecondPairWithDiscountedPrice(t *testing.T) {
	bumpProduct := uuid.New()
	bump := `{"product_id":"` + bumpProduct.String() + `","name":"Template Pack","price":"2000","discounted_price":"1500"}`
	order, product := composerFixture(&bump)
	composer := NewEventComposer(zap.NewNop())

	events := composer.Compose(order, product)
	require.Len(t, events, 4)

	bumpRef := order.ID.String() + BumpSuffix
	assert.Equal(t, bumpRef, events[2].OrderReference)
	assert.Equal(t, bumpRef, events[3].OrderReference)

	for _, event := range events[2:] {
		// Bump events still resolve endpoints against the MAIN product.
		assert.Equal(t, order.ProductID, event.ProductID)

		var payload models.WebhookPayload
		require.NoError(t, json.Unmarshal([]byte(event.Payload), &payload))
		assert.True(t, payload.Data.IsOrderBump)
		assert.Equal(t, order.ID.String(), payload.Data.MainOrderID)
		assert.Equal(t, bumpProduct.String(), payload.Data.ProductID)
		assert.True(t, payload.Data.Amount.Equal(decimal.RequireFromString("1500")),
			"bump amount %s, want discounted price", payload.Data.Amount)
	}
}

func TestCompose_BumpWithoutDiscountUsesListPrice(t *testing.T) {
	bump := `{"product_id":"` + uuid.New().String() + `","name":"Extra","price":"2000","discounted_price":"0"}`
	order, product := composerFixture(&bump)
	composer := NewEventComposer(zap.NewNop())

	events := composer.Compose(order, product)
	require.Len(t, events, 4)

	var payload models.WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(events[2].Payload), &payload))
	assert.True(t, payload.Data.Amount.Equal(decimal.RequireFromString("2000")))
}

func TestCompose_MalformedBumpKeepsMainEvents(t *testing.T) {
	bump := `{"product_id": not-json`
	order, product := composerFixture(&bump)
	composer := NewEventComposer(zap.NewNop())

	events := composer.Compose(order, product)
	assert.Len(t, events, 2)
}

func TestParseOrderBump(t *testing.T) {
	nilBump, err := ParseOrderBump(nil)
	require.NoError(t, err)
	assert.Nil(t, nilBump)

	empty := ""
	nilBump, err = ParseOrderBump(&empty)
	require.NoError(t, err)
	assert.Nil(t, nilBump)

	missingProduct := `{"name":"x","price":"100"}`
	_, err = ParseOrderBump(&missingProduct)
	assert.Error(t, err)

	valid := `{"product_id":"` + uuid.New().String() + `","name":"x","price":"100","discounted_price":"80","access_duration_type":"days","access_duration_value":30}`
	bump, err := ParseOrderBump(&valid)
	require.NoError(t, err)
	require.NotNil(t, bump)
	assert.Equal(t, "days", bump.AccessDurationType)
	assert.Equal(t, 30, bump.AccessDurationValue)
	assert.True(t, bump.EffectivePrice().Equal(decimal.RequireFromString("80")))
}
