package orchestrators

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/adapters/storage/partner"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/welfare"
)

var sundayNoon = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func clockAt(t time.Time) func() time.Time { return func() time.Time { return t } }

func newMemberStore() *memory.Store[member.Member] {
	return memory.New("members", "M", func(m member.Member) string { return m.ID })
}

func newAttendanceStore() *memory.Store[attendance.Record] {
	return memory.New("attendance", "A", func(r attendance.Record) string { return r.ID })
}

func newTokenStore() *memory.Store[attendance.QRToken] {
	return memory.New("qr_tokens", "", func(t attendance.QRToken) string { return t.ID })
}

func newTransactionStore() *memory.Store[finance.Transaction] {
	return memory.New("transactions", "T", func(t finance.Transaction) string { return t.ID })
}

func newClaimStore() *memory.Store[welfare.Claim] {
	return memory.New("welfare_claims", "WC", func(c welfare.Claim) string { return c.ID })
}

func newPaymentStore() *memory.Store[welfare.Payment] {
	return memory.New("welfare_payments", "WP", func(p welfare.Payment) string { return p.ID })
}

func newChildStores() (*memory.Store[children.Child], *memory.Store[children.CheckIn]) {
	return memory.New("children", "C", func(c children.Child) string { return c.ID }),
		memory.New("child_checkins", "CC", func(c children.CheckIn) string { return c.ID })
}

// newPartnerDeps wires a file-backed partner store in a temp dir.
func newPartnerDeps(t *testing.T) PartnerDeps {
	t.Helper()
	ps, err := partner.NewJSONStore(filepath.Join(t.TempDir(), partner.FileName))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	return PartnerDeps{
		PartnerStore:      ps,
		ContributionStore: memory.New("contributions", "", func(c partnership.Contribution) string { return c.ID }),
		Ledger:            &sync.Mutex{},
		Now:               clockAt(sundayNoon),
	}
}

// seedMember registers a member and fails the test on error.
func seedMember(t *testing.T, store MemberStore, name, phone, email string) member.Member {
	t.Helper()
	m, err := ExecuteRegisterMember(context.Background(), RegisterMemberInput{
		Name:   name,
		Phone:  phone,
		Email:  email,
		DOB:    "1990-05-12",
		Gender: member.GenderFemale,
	}, RegisterMemberDeps{MemberStore: store, Now: clockAt(sundayNoon)})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return m
}
