package web

import "net/http"

// pageSpecs lists the server-rendered pages by path segment.
func (s *Server) pageSpecs() map[string]pageSpec {
	return map[string]pageSpec{
		"":             {"dashboard.html", "Dashboard", "/", s.loadDashboard},
		"members":      {"members.html", "Members", "/members", s.loadMembers},
		"attendance":   {"attendance.html", "Attendance", "/attendance", s.loadAttendance},
		"finance":      {"finance.html", "Finance", "/finance", s.loadFinance},
		"children":     {"children.html", "Children's Ministry", "/children", s.loadChildren},
		"visitors":     {"visitors.html", "Visitors", "/visitors", s.loadVisitors},
		"programs":     {"programs.html", "Programs & Events", "/programs", s.loadPrograms},
		"equipment":    {"equipment.html", "Equipment", "/equipment", s.loadEquipment},
		"groups":       {"groups.html", "Small Groups", "/groups", s.loadGroups},
		"welfare":      {"welfare.html", "Welfare", "/welfare", s.loadWelfare},
		"partnerships": {"partnerships.html", "Partnerships", "/partnerships", s.loadPartnerships},
		"sms":          {"sms.html", "SMS & Email", "/sms", s.loadSMS},
		"prayer":       {"prayer.html", "Prayer Requests", "/prayer", s.loadPrayer},
		"feedback":     {"feedback.html", "Feedback", "/feedback", s.loadFeedback},
	}
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	for segment, spec := range s.pageSpecs() {
		if segment == "" {
			mux.HandleFunc("GET /{$}", s.page(spec))
			continue
		}
		mux.HandleFunc("GET /"+segment, s.page(spec))
	}

	mux.HandleFunc("POST /feedback", s.handleSubmitFeedback)
	mux.HandleFunc("POST /visitors", s.handleRegisterVisitor)
	mux.HandleFunc("POST /prayer", s.handleSubmitPrayer)

	mux.HandleFunc("GET /api/partners", s.handleListPartners)
	mux.HandleFunc("POST /api/partners", s.handleCreatePartner)
	mux.HandleFunc("PUT /api/partners/{id}", s.handleUpdatePartner)
	mux.HandleFunc("DELETE /api/partners/{id}", s.handleDeletePartner)
	mux.HandleFunc("POST /api/partners/{id}/contributions", s.handleAddContribution)
	mux.HandleFunc("GET /api/partnerships/summary", s.handlePartnershipSummary)
	mux.HandleFunc("POST /api/attendance/tokens", s.handleIssueToken)
	mux.HandleFunc("POST /api/attendance/checkin", s.handleCheckIn)
	mux.HandleFunc("POST /api/broadcasts", s.handleSendBroadcast)
	mux.HandleFunc("POST /api/sms/credits", s.handleTopUpCredits)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboardAPI)
	mux.HandleFunc("GET /api/perf", s.handlePerf)

	mux.HandleFunc("GET /export/report.xlsx", s.handleExportReport)
	mux.HandleFunc("GET /export/members.csv", s.handleExportMembers)
	mux.HandleFunc("GET /export/transactions.csv", s.handleExportTransactions)

	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("GET /healthz", s.handleHealth)
}
