package projections

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/storage/memory"
	"churchdesk/internal/domain/dateutil"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/member"
)

// CategoryTotal is the signed sum of one category.
type CategoryTotal struct {
	Category string
	Total    decimal.Decimal
	Count    int
}

// TitheContributor aggregates one member's tithes.
type TitheContributor struct {
	MemberID string
	Name     string
	Sum      decimal.Decimal
	Count    int
	Mean     decimal.Decimal
	LastDate string
}

// MonthlyFinance is one month of the ledger. Expense is a positive magnitude.
type MonthlyFinance struct {
	Month   string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// FinanceReport bundles the ledger views shown on the finance page.
type FinanceReport struct {
	Balance          decimal.Decimal
	TotalIncome      decimal.Decimal
	TotalExpense     decimal.Decimal // positive magnitude
	IncomeBreakdown  []CategoryTotal
	ExpenseBreakdown []CategoryTotal
	TopTithers       []TitheContributor
	Monthly          []MonthlyFinance
	Recent           []finance.Transaction
}

// MemberGetter resolves member ids to records for display labels.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// FinanceDeps holds dependencies for the finance queries.
type FinanceDeps struct {
	TransactionStore Lister[finance.Transaction]
	MemberStore      MemberGetter // optional, labels only
}

// Balance sums stored amounts. Amounts carry their sign, so this is the net position.
// INVARIANT: balance == Σ amount
func Balance(txs []finance.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, t := range txs {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// QueryBalance returns the ledger balance.
func QueryBalance(ctx context.Context, deps FinanceDeps) (decimal.Decimal, error) {
	txs, err := deps.TransactionStore.List(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return Balance(txs), nil
}

// CategoryBreakdown totals txs of txType per category, largest magnitude first.
// An empty txType includes every transaction.
func CategoryBreakdown(txs []finance.Transaction, txType string) []CategoryTotal {
	idx := make(map[string]int)
	out := []CategoryTotal{}
	for _, t := range txs {
		if txType != "" && t.Type != txType {
			continue
		}
		i, ok := idx[t.Category]
		if !ok {
			i = len(out)
			idx[t.Category] = i
			out = append(out, CategoryTotal{Category: t.Category, Total: decimal.Zero})
		}
		out[i].Total = out[i].Total.Add(t.Amount)
		out[i].Count++
	}
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		if c := b.Total.Abs().Cmp(a.Total.Abs()); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// QueryCategoryBreakdown returns the per-category totals for txType.
func QueryCategoryBreakdown(ctx context.Context, txType string, deps FinanceDeps) ([]CategoryTotal, error) {
	txs, err := deps.TransactionStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(txs, txType), nil
}

// QueryTitheContributors ranks members by tithe total, highest first, ties by member id.
// Tithes without a member id are left out.
func QueryTitheContributors(ctx context.Context, deps FinanceDeps) ([]TitheContributor, error) {
	txs, err := deps.TransactionStore.List(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int)
	out := []TitheContributor{}
	for _, t := range txs {
		if t.Category != finance.CategoryTithe || t.MemberID == "" {
			continue
		}
		i, ok := idx[t.MemberID]
		if !ok {
			i = len(out)
			idx[t.MemberID] = i
			out = append(out, TitheContributor{MemberID: t.MemberID, Name: t.MemberID, Sum: decimal.Zero})
		}
		c := &out[i]
		c.Sum = c.Sum.Add(t.Amount)
		c.Count++
		if t.Date > c.LastDate {
			c.LastDate = t.Date
		}
	}
	for i := range out {
		out[i].Mean = out[i].Sum.Div(decimal.NewFromInt(int64(out[i].Count))).Round(2)
		if deps.MemberStore == nil {
			continue
		}
		m, err := deps.MemberStore.GetByID(ctx, out[i].MemberID)
		if err == nil {
			out[i].Name = m.Name
		} else if !errors.Is(err, memory.ErrNotFound) {
			return nil, err
		}
	}
	slices.SortStableFunc(out, func(a, b TitheContributor) int {
		if c := b.Sum.Cmp(a.Sum); c != 0 {
			return c
		}
		return cmp.Compare(a.MemberID, b.MemberID)
	})
	return out, nil
}

// MonthlySummary buckets txs by month over the n months ending with now's month, oldest first.
func MonthlySummary(txs []finance.Transaction, now time.Time, n int) []MonthlyFinance {
	if n <= 0 {
		n = DefaultTrendMonths
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(n - 1), 0)
	out := make([]MonthlyFinance, n)
	pos := make(map[string]int, n)
	for i := range out {
		m := first.AddDate(0, i, 0).Format(dateutil.MonthLayout)
		out[i] = MonthlyFinance{Month: m, Income: decimal.Zero, Expense: decimal.Zero, Net: decimal.Zero}
		pos[m] = i
	}
	for _, t := range txs {
		if len(t.Date) < len(dateutil.MonthLayout) {
			continue
		}
		i, ok := pos[t.Date[:len(dateutil.MonthLayout)]]
		if !ok {
			continue
		}
		if t.IsIncome() {
			out[i].Income = out[i].Income.Add(t.Amount)
		} else {
			out[i].Expense = out[i].Expense.Add(t.Amount.Abs())
		}
		out[i].Net = out[i].Net.Add(t.Amount)
	}
	return out
}

// QueryMonthlyFinance returns income, expense and net per month.
func QueryMonthlyFinance(ctx context.Context, now time.Time, monthsBack int, deps FinanceDeps) ([]MonthlyFinance, error) {
	txs, err := deps.TransactionStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return MonthlySummary(txs, now, monthsBack), nil
}

// QueryFinanceReport builds every finance view from one read of the ledger.
func QueryFinanceReport(ctx context.Context, now time.Time, deps FinanceDeps) (FinanceReport, error) {
	txs, err := deps.TransactionStore.List(ctx)
	if err != nil {
		return FinanceReport{}, err
	}
	tithers, err := QueryTitheContributors(ctx, deps)
	if err != nil {
		return FinanceReport{}, err
	}
	if len(tithers) > 10 {
		tithers = tithers[:10]
	}

	r := FinanceReport{
		Balance:          Balance(txs),
		TotalIncome:      decimal.Zero,
		TotalExpense:     decimal.Zero,
		IncomeBreakdown:  CategoryBreakdown(txs, finance.TypeIncome),
		ExpenseBreakdown: CategoryBreakdown(txs, finance.TypeExpense),
		TopTithers:       tithers,
		Monthly:          MonthlySummary(txs, now, DefaultTrendMonths),
	}
	for _, t := range txs {
		if t.IsIncome() {
			r.TotalIncome = r.TotalIncome.Add(t.Amount)
		} else {
			r.TotalExpense = r.TotalExpense.Add(t.Amount.Abs())
		}
	}
	recent := slices.Clone(txs)
	slices.SortStableFunc(recent, func(a, b finance.Transaction) int { return cmp.Compare(b.Date, a.Date) })
	if len(recent) > 15 {
		recent = recent[:15]
	}
	r.Recent = recent
	return r, nil
}
