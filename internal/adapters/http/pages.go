package web

import (
	"net/http"
	"slices"
	"strings"

	"churchdesk/internal/application/listutil"
	"churchdesk/internal/application/projections"
	"churchdesk/internal/domain/attendance"
	"churchdesk/internal/domain/children"
	"churchdesk/internal/domain/equipment"
	"churchdesk/internal/domain/member"
	"churchdesk/internal/domain/partnership"
	"churchdesk/internal/domain/program"
	"churchdesk/internal/domain/sms"
	"churchdesk/internal/domain/visitor"
)

// pageSpec ties a template to the loader that builds its view model.
type pageSpec struct {
	template string
	title    string
	active   string
	load     func(r *http.Request) (any, error)
}

// page serves GET for a pageSpec.
func (s *Server) page(spec pageSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := spec.load(r)
		if err != nil {
			internalError(w, err)
			return
		}
		s.render(w, r, spec.template, spec.title, spec.active, data)
	}
}

// formError re-renders a page with a 400 and the validation message.
func (s *Server) formError(w http.ResponseWriter, r *http.Request, spec pageSpec, cause error) {
	data, err := spec.load(r)
	if err != nil {
		internalError(w, err)
		return
	}
	s.renderStatus(w, r, http.StatusBadRequest, spec.template, pageData{
		Title:  spec.title,
		Active: spec.active,
		Error:  cause.Error(),
		Data:   data,
	})
}

type dashboardView struct {
	Summary   projections.Dashboard
	Birthdays []projections.Birthday
}

func (s *Server) loadDashboard(r *http.Request) (any, error) {
	ctx := r.Context()
	now := s.app.Clock()
	d, err := projections.QueryDashboard(ctx, now, s.app.Dashboard())
	if err != nil {
		return nil, err
	}
	b, err := projections.QueryBirthdays(ctx, projections.BirthdaysInput{Now: now, WithinDays: 7}, s.app.Birthdays())
	if err != nil {
		return nil, err
	}
	return dashboardView{Summary: d, Birthdays: b}, nil
}

type membersView struct {
	List         listutil.Params
	Page         listutil.PageInfo
	Departments  []string
	Statuses     []string
	Members      []member.Member
	Gender       []projections.Share
	Age          []projections.Share
	ByDepartment []projections.Share
}

var (
	memberSortColumns = []string{"id", "name", "department", "status", "registered"}
	memberFilterKeys  = []string{"department", "status"}
)

func memberSortKey(m member.Member, column string) string {
	switch column {
	case "name":
		return m.Name
	case "department":
		return m.Department
	case "status":
		return m.Status
	case "registered":
		return m.RegistrationDate
	}
	return m.ID
}

// loadMembers applies the ?q= search (name, email or phone), the department and status
// filters, then sorts and pages the directory.
func (s *Server) loadMembers(r *http.Request) (any, error) {
	ctx := r.Context()
	v := membersView{
		List:        listutil.Parse(r.URL.Query(), memberSortColumns, memberFilterKeys),
		Departments: member.Departments,
		Statuses:    []string{member.StatusActive, member.StatusInactive, member.StatusVisitor},
	}
	needle := strings.ToLower(v.List.Search)
	dept, status := v.List.Filters["department"], v.List.Filters["status"]
	members, err := s.app.Members.Filter(ctx, func(m member.Member) bool {
		if dept != "" && m.Department != dept {
			return false
		}
		if status != "" && m.Status != status {
			return false
		}
		if needle == "" {
			return true
		}
		return strings.Contains(strings.ToLower(m.Name), needle) ||
			strings.Contains(strings.ToLower(m.Email), needle) ||
			strings.Contains(m.Phone, needle)
	})
	if err != nil {
		return nil, err
	}
	listutil.SortBy(members, v.List, memberSortKey)
	v.Members, v.Page = listutil.Paginate(members, v.List)

	deps := s.app.Distribution()
	if v.Gender, err = projections.QueryGenderDistribution(ctx, deps); err != nil {
		return nil, err
	}
	if v.Age, err = projections.QueryAgeDistribution(ctx, s.app.Clock(), deps); err != nil {
		return nil, err
	}
	if v.ByDepartment, err = projections.QueryDepartmentDistribution(ctx, deps); err != nil {
		return nil, err
	}
	return v, nil
}

type attendanceView struct {
	Service projections.ServiceAttendance
	Trend   []projections.MonthCount
	Absence projections.AbsenceAlert
	Tokens  []attendance.QRToken
}

// loadAttendance shows ?date= (default today), the monthly trend and the absence alert.
func (s *Server) loadAttendance(r *http.Request) (any, error) {
	ctx := r.Context()
	now := s.app.Clock()
	var v attendanceView
	var err error
	if v.Service, err = projections.QueryServiceAttendance(ctx, r.URL.Query().Get("date"), now, s.app.ServiceAttendance()); err != nil {
		return nil, err
	}
	if v.Trend, err = projections.QueryAttendanceTrend(ctx, projections.AttendanceTrendInput{Now: now}, s.app.Trend()); err != nil {
		return nil, err
	}
	if v.Absence, err = projections.QueryAbsenceAlert(ctx, projections.AbsenceAlertInput{Now: now}, s.app.Absence()); err != nil {
		return nil, err
	}
	v.Tokens, err = s.app.Tokens.Filter(ctx, func(t attendance.QRToken) bool { return !t.IsExpired(now) })
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Server) loadFinance(r *http.Request) (any, error) {
	return projections.QueryFinanceReport(r.Context(), s.app.Clock(), s.app.Finance())
}

type childrenView struct {
	Today    projections.ChildrenToday
	Children []children.Child
}

func (s *Server) loadChildren(r *http.Request) (any, error) {
	today, err := projections.QueryChildrenToday(r.Context(), s.app.Clock(), s.app.ChildrenReport())
	if err != nil {
		return nil, err
	}
	all, err := s.app.Children.List(r.Context())
	if err != nil {
		return nil, err
	}
	return childrenView{Today: today, Children: all}, nil
}

type visitorsView struct {
	Pending []visitor.Visitor
	All     []visitor.Visitor
}

func (s *Server) loadVisitors(r *http.Request) (any, error) {
	pending, err := projections.QueryPendingVisitors(r.Context(), s.app.Visitors)
	if err != nil {
		return nil, err
	}
	all, err := s.app.Visitors.List(r.Context())
	if err != nil {
		return nil, err
	}
	return visitorsView{Pending: pending, All: all}, nil
}

type programsView struct {
	Upcoming []program.Program
	All      []program.Program
}

func (s *Server) loadPrograms(r *http.Request) (any, error) {
	upcoming, err := projections.QueryUpcomingPrograms(r.Context(), s.app.Clock(), s.app.Programs)
	if err != nil {
		return nil, err
	}
	all, err := s.app.Programs.List(r.Context())
	if err != nil {
		return nil, err
	}
	return programsView{Upcoming: upcoming, All: all}, nil
}

type equipmentView struct {
	Status projections.EquipmentStatus
	Items  []equipment.Item
}

func (s *Server) loadEquipment(r *http.Request) (any, error) {
	status, err := projections.QueryEquipmentStatus(r.Context(), s.app.Equipment)
	if err != nil {
		return nil, err
	}
	items, err := s.app.Equipment.List(r.Context())
	if err != nil {
		return nil, err
	}
	return equipmentView{Status: status, Items: items}, nil
}

func (s *Server) loadGroups(r *http.Request) (any, error) {
	return projections.QueryGroupSizes(r.Context(), s.app.Groups)
}

func (s *Server) loadWelfare(r *http.Request) (any, error) {
	return projections.QueryWelfareReport(r.Context(), s.app.WelfareReport())
}

type partnershipsView struct {
	Summary  projections.PartnershipSummary
	Partners []partnership.Partner
}

func (s *Server) loadPartnerships(r *http.Request) (any, error) {
	summary, err := projections.QueryPartnershipSummary(r.Context(), s.app.Clock(), s.app.Partnership())
	if err != nil {
		return nil, err
	}
	partners, err := s.app.Partners.List(r.Context())
	if err != nil {
		return nil, err
	}
	return partnershipsView{Summary: summary, Partners: partners}, nil
}

type smsView struct {
	Credits  int
	Messages []sms.Message
}

// loadSMS lists the message log newest first.
func (s *Server) loadSMS(r *http.Request) (any, error) {
	credits, err := s.app.Credits.Balance(r.Context())
	if err != nil {
		return nil, err
	}
	msgs, err := s.app.Messages.List(r.Context())
	if err != nil {
		return nil, err
	}
	slices.Reverse(msgs)
	return smsView{Credits: credits, Messages: msgs}, nil
}

// loadPrayer shows open public requests only; private ones stay with the pastoral team.
func (s *Server) loadPrayer(r *http.Request) (any, error) {
	return projections.QueryOpenPrayers(r.Context(), false, s.app.Prayers)
}

func (s *Server) loadFeedback(r *http.Request) (any, error) {
	return projections.QueryFeedbackSummary(r.Context(), s.app.FeedbackReport())
}
