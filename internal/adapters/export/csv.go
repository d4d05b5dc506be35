package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/finance"
	"churchdesk/internal/domain/member"
)

// MemberHeader is the first row of the member CSV.
var MemberHeader = []string{"ID", "Name", "Email", "Phone", "DOB", "Gender", "Department", "Status", "MaritalStatus", "Address", "RegistrationDate"}

// TransactionHeader is the first row of the ledger CSV.
var TransactionHeader = []string{"ID", "Date", "Type", "Category", "Amount", "MemberID", "PaymentMethod", "Description"}

// WriteMembersCSV writes the member directory in store order.
func WriteMembersCSV(ctx context.Context, w io.Writer, store projections.Lister[member.Member]) error {
	members, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list members: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(MemberHeader); err != nil {
		return err
	}
	for _, m := range members {
		if err := cw.Write([]string{m.ID, m.Name, m.Email, m.Phone, m.DOB, m.Gender, m.Department, m.Status, m.MaritalStatus, m.Address, m.RegistrationDate}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTransactionsCSV writes the ledger with amounts at two decimal places.
func WriteTransactionsCSV(ctx context.Context, w io.Writer, store projections.Lister[finance.Transaction]) error {
	txs, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeader); err != nil {
		return err
	}
	for _, t := range txs {
		if err := cw.Write([]string{t.ID, t.Date, t.Type, t.Category, t.Amount.StringFixed(2), t.MemberID, t.PaymentMethod, t.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
