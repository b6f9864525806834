package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInvitation_StatusPriority(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(48 * time.Hour)
	past := now.Add(-time.Hour)

	// revoked wins over everything else
	assert.Equal(t, InvitationRevoked, Invitation{IsActive: false, ExpiresAt: past, MaxUses: 1, UsedCount: 5}.Status(now))
	// expired wins over used-up
	assert.Equal(t, InvitationExpired, Invitation{IsActive: true, ExpiresAt: past, MaxUses: 1, UsedCount: 5}.Status(now))
	assert.Equal(t, InvitationUsedUp, Invitation{IsActive: true, ExpiresAt: future, MaxUses: 1, UsedCount: 1}.Status(now))
	assert.Equal(t, InvitationActive, Invitation{IsActive: true, ExpiresAt: future, MaxUses: 2, UsedCount: 1}.Status(now))
}

func TestInvitation_StatusUsedUpAtCap(t *testing.T) {
	now := time.Now()
	inv := Invitation{MaxUses: 3, UsedCount: 3, IsActive: true, ExpiresAt: now.Add(24 * time.Hour)}
	assert.Equal(t, InvitationUsedUp, inv.Status(now))
}

func TestInvitation_ExpiresExactlyNowIsStillActive(t *testing.T) {
	now := time.Now()
	inv := Invitation{MaxUses: 1, IsActive: true, ExpiresAt: now}
	assert.Equal(t, InvitationActive, inv.Status(now))
}

func TestNewInvitationView(t *testing.T) {
	now := time.Now()
	v := NewInvitationView(Invitation{Token: "abc", IsActive: true, MaxUses: 1, ExpiresAt: now.Add(time.Hour)}, "https://app.example.com", now)
	assert.Equal(t, "https://app.example.com/onboarding/abc", v.Link)
	assert.Equal(t, InvitationActive, v.Status)
}
