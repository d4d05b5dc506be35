package projections

import (
	"context"
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/welfare"
)

// StatusTotal is the claim count and requested amount for one status.
type StatusTotal struct {
	Status string
	Count  int
	Amount decimal.Decimal
}

// ClaimRow is a claim with its member label.
type ClaimRow struct {
	Claim      welfare.Claim
	MemberName string
}

// WelfareReport is the welfare dashboard.
type WelfareReport struct {
	ByStatus  []StatusTotal
	TotalPaid decimal.Decimal
	Payments  int
	Claims    []ClaimRow // newest first
}

// Pending returns the number of claims awaiting a decision.
func (r WelfareReport) Pending() int {
	for _, s := range r.ByStatus {
		if s.Status == welfare.StatusPending {
			return s.Count
		}
	}
	return 0
}

// WelfareDeps holds dependencies for QueryWelfareReport.
type WelfareDeps struct {
	ClaimStore   Lister[welfare.Claim]
	PaymentStore Lister[welfare.Payment]
	MemberStore  MemberGetter // labels only
}

var welfareStatusOrder = []string{welfare.StatusPending, welfare.StatusApproved, welfare.StatusPaid, welfare.StatusRejected}

// QueryWelfareReport totals claims per status and labels each claim with the member's name.
// Claims for deleted members keep the member id as their label.
func QueryWelfareReport(ctx context.Context, deps WelfareDeps) (WelfareReport, error) {
	claims, err := deps.ClaimStore.List(ctx)
	if err != nil {
		return WelfareReport{}, err
	}
	payments, err := deps.PaymentStore.List(ctx)
	if err != nil {
		return WelfareReport{}, err
	}

	r := WelfareReport{TotalPaid: decimal.Zero, Payments: len(payments), Claims: []ClaimRow{}}
	totals := make(map[string]*StatusTotal)
	for _, s := range welfareStatusOrder {
		totals[s] = &StatusTotal{Status: s, Amount: decimal.Zero}
	}
	names := make(map[string]string)
	for _, c := range claims {
		if t, ok := totals[c.Status]; ok {
			t.Count++
			t.Amount = t.Amount.Add(c.AmountRequested)
		}
		name, ok := names[c.MemberID]
		if !ok {
			name = c.MemberID
			if deps.MemberStore != nil {
				m, err := deps.MemberStore.GetByID(ctx, c.MemberID)
				if err == nil {
					name = m.Name
				} else if !errors.Is(err, memory.ErrNotFound) {
					return WelfareReport{}, err
				}
			}
			names[c.MemberID] = name
		}
		r.Claims = append(r.Claims, ClaimRow{Claim: c, MemberName: name})
	}
	for _, s := range welfareStatusOrder {
		r.ByStatus = append(r.ByStatus, *totals[s])
	}
	for _, p := range payments {
		r.TotalPaid = r.TotalPaid.Add(p.Amount)
	}
	slices.SortStableFunc(r.Claims, func(a, b ClaimRow) int {
		return b.Claim.SubmittedAt.Compare(a.Claim.SubmittedAt)
	})
	return r, nil
}
