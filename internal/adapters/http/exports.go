package web

import (
	"bytes"
	"fmt"
	"net/http"

	"churchdesk/internal/adapters/export"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// attachment sets the download headers. The date keeps successive exports apart in a downloads folder.
func (s *Server) attachment(w http.ResponseWriter, contentType, stem, ext string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s_%s.%s"`, stem, s.app.Clock().Format("2006-01-02"), ext))
}

// handleExportReport streams the multi-sheet workbook. It is built in memory first so a failure
// still produces a clean 500.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	src, err := s.app.ExportSource(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(r.Context(), &buf, src); err != nil {
		internalError(w, err)
		return
	}
	s.attachment(w, xlsxContentType, "church_report", "xlsx")
	buf.WriteTo(w)
}

func (s *Server) handleExportMembers(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteMembersCSV(r.Context(), &buf, s.app.Members); err != nil {
		internalError(w, err)
		return
	}
	s.attachment(w, "text/csv; charset=utf-8", "members", "csv")
	buf.WriteTo(w)
}

func (s *Server) handleExportTransactions(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteTransactionsCSV(r.Context(), &buf, s.app.Transactions); err != nil {
		internalError(w, err)
		return
	}
	s.attachment(w, "text/csv; charset=utf-8", "transactions", "csv")
	buf.WriteTo(w)
}
