package services

import (
	"context"
	"testing"
	"time"

	"github.com/suportekambafy-lab/checkout-service/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExpiryFromPolicy_Lifetime(t *testing.T) {
	now := time.Now().UTC()
	assert.Nil(t, ExpiryFromPolicy(now, AccessPolicy{Type: models.AccessDurationLifetime}))
	assert.Nil(t, ExpiryFromPolicy(now, AccessPolicy{Type: ""}))
	assert.Nil(t, ExpiryFromPolicy(now, AccessPolicy{Type: models.AccessDurationDays, Value: 0}))
}

func TestExpiryFromPolicy_Days(t *testing.T) {
	granted := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	expires := ExpiryFromPolicy(granted, AccessPolicy{Type: models.AccessDurationDays, Value: 30})
	require.NotNil(t, expires)
	assert.Equal(t, time.Date(2025, time.April, 9, 12, 0, 0, 0, time.UTC), *expires)
}

func TestExpiryFromPolicy_MonthsClampsToEndOfFebruary(t *testing.T) {
	granted := time.Date(2025, time.January, 31, 9, 30, 0, 0, time.UTC)
	expires := ExpiryFromPolicy(granted, AccessPolicy{Type: models.AccessDurationMonths, Value: 1})
	require.NotNil(t, expires)
	// Calendar month arithmetic: last valid day of February, not March 3.
	assert.Equal(t, time.Date(2025, time.February, 28, 9, 30, 0, 0, time.UTC), *expires)
}

func TestExpiryFromPolicy_MonthsLeapYear(t *testing.T) {
	granted := time.Date(2024, time.January, 31, 0, 0, 0, 0, time.UTC)
	expires := ExpiryFromPolicy(granted, AccessPolicy{Type: models.AccessDurationMonths, Value: 1})
	require.NotNil(t, expires)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), *expires)
}

func TestExpiryFromPolicy_MonthsAcrossYearBoundary(t *testing.T) {
	granted := time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC)
	expires := ExpiryFromPolicy(granted, AccessPolicy{Type: models.AccessDurationMonths, Value: 4})
	require.NotNil(t, expires)
	assert.Equal(t, time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC), *expires)
}

func TestExpiryFromPolicy_YearsClampsLeapDay(t *testing.T) {
	granted := time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)
	expires := ExpiryFromPolicy(granted, AccessPolicy{Type: models.AccessDurationYears, Value: 1})
	require.NotNil(t, expires)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), *expires)
}

func TestGrantAccess_NormalizesEmailAndComputesExpiry(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := NewAccessService(repo, zap.NewNop())
	granted := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return granted }

	productID, orderID := uuid.New(), uuid.New()
	policy := AccessPolicy{Type: models.AccessDurationDays, Value: 7}
	require.NoError(t, svc.GrantAccess(context.Background(), "Ana Silva", "  Ana.Silva@Example.COM ", productID, orderID, policy))

	require.Len(t, repo.accesses, 1)
	access := repo.accesses[0]
	assert.Equal(t, "ana.silva@example.com", access.CustomerEmail)
	assert.Equal(t, "Ana Silva", access.CustomerName)
	assert.Equal(t, productID, access.ProductID)
	assert.Equal(t, orderID, access.OrderID)
	assert.True(t, access.IsActive)
	require.NotNil(t, access.ExpiresAt)
	assert.Equal(t, granted.AddDate(0, 0, 7), *access.ExpiresAt)
}

func TestGrantAccess_RepurchaseCreatesSecondRow(t *testing.T) {
	repo := &fakeAccessRepo{}
	svc := NewAccessService(repo, zap.NewNop())

	productID := uuid.New()
	policy := AccessPolicy{Type: models.AccessDurationLifetime}
	require.NoError(t, svc.GrantAccess(context.Background(), "Ana", "ana@example.com", productID, uuid.New(), policy))
	require.NoError(t, svc.GrantAccess(context.Background(), "Ana", "ana@example.com", productID, uuid.New(), policy))

	assert.Len(t, repo.accesses, 2)
}
