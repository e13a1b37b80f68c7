package domain

import (
	"testing"
	"time"
)

func TestUser_VerificationTokenPair(t *testing.T) {
	u := &User{}

	if u.HasPendingVerification() {
		t.Error("fresh user should have no pending verification")
	}

	u.SetVerificationToken("tok", time.Now().Add(time.Hour))
	if u.VerificationToken == nil || u.VerificationTokenExpiresAt == nil {
		t.Fatal("set should populate both token and expiry")
	}
	if !u.HasPendingVerification() {
		t.Error("unexpired token should count as pending")
	}

	u.ClearVerificationToken()
	if u.VerificationToken != nil || u.VerificationTokenExpiresAt != nil {
		t.Error("clear should nil both token and expiry")
	}
}

func TestUser_HasPendingVerification_Expired(t *testing.T) {
	u := &User{}
	u.SetVerificationToken("tok", time.Now().Add(-time.Minute))
	if u.HasPendingVerification() {
		t.Error("expired token should not count as pending")
	}
}

func TestUser_ResetTokenPair(t *testing.T) {
	u := &User{}
	u.SetResetToken("tok", time.Now().Add(time.Hour))
	if u.ResetToken == nil || u.ResetTokenExpiresAt == nil {
		t.Fatal("set should populate both token and expiry")
	}
	u.ClearResetToken()
	if u.ResetToken != nil || u.ResetTokenExpiresAt != nil {
		t.Error("clear should nil both token and expiry")
	}
}
