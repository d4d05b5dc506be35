package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"
	"github.com/shopspring/decimal"

	"churchdesk/internal/adapters/markdown"
	"churchdesk/internal/domain/feedback"
	"churchdesk/internal/domain/finance"
)

type navItem struct {
	Path  string
	Label string
}

var nav = []navItem{
	{"/", "Dashboard"},
	{"/members", "Members"},
	{"/attendance", "Attendance"},
	{"/finance", "Finance"},
	{"/children", "Children"},
	{"/visitors", "Visitors"},
	{"/programs", "Programs"},
	{"/equipment", "Equipment"},
	{"/groups", "Groups"},
	{"/welfare", "Welfare"},
	{"/partnerships", "Partnerships"},
	{"/sms", "SMS"},
	{"/prayer", "Prayer"},
	{"/feedback", "Feedback"},
}

var funcMap = template.FuncMap{
	"money":    func(d decimal.Decimal) string { return finance.FormatAmount(d) },
	"markdown": markdown.Template,
	"date":     func(t time.Time) string { return t.Format("02 Jan 2006") },
	"clock":    func(t time.Time) string { return t.Format("15:04") },
	"stamp": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006 15:04")
	},
	"navItems":           func() []navItem { return nav },
	"feedbackCategories": func() []string { return feedback.Categories },
	"ratings": func() []int {
		r := make([]int, 0, feedback.MaxRating)
		for i := feedback.MaxRating; i >= feedback.MinRating; i-- {
			r = append(r, i)
		}
		return r
	},
}

// pageData is what layout.html renders. Data carries the page's own view model.
type pageData struct {
	Title     string
	Active    string
	CSRFField template.HTML
	Flash     string
	Error     string
	Data      any
}

// flashMessages maps the ?saved= value set by form redirects to a banner.
var flashMessages = map[string]string{
	"visitor":  "Visitor registered. Thank you for welcoming them.",
	"prayer":   "Your prayer request has been received.",
	"feedback": "Thank you for your feedback.",
}

// render executes a page into a buffer so template errors never reach the client half-written.
// PRE: name is a parsed page template
// POST: 200 with the full page, or 500 on template failure
func (s *Server) render(w http.ResponseWriter, r *http.Request, name, title, active string, data any) {
	s.renderStatus(w, r, http.StatusOK, name, pageData{
		Title:  title,
		Active: active,
		Flash:  flashMessages[r.URL.Query().Get("saved")],
		Data:   data,
	})
}

func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, p pageData) {
	tpl, ok := s.pages[name]
	if !ok {
		internalError(w, errors.New("unknown template "+name))
		return
	}
	p.CSRFField = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout.html", p); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// internalError logs the error and returns a generic 500.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("internal_error", "error", err.Error())
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes the request body, rejecting unknown fields, then runs struct validation.
// POST: on error a 400 has already been written
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return readJSON(w, r, v, true) && validRequest(w, v)
}

// readJSON decodes the request body into v. With strict unset, keys v does not
// declare are ignored.
// POST: on error a 400 has already been written
func readJSON(w http.ResponseWriter, r *http.Request, v any, strict bool) bool {
	dec := json.NewDecoder(r.Body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// validRequest runs struct validation on v.
// POST: on error a 400 has already been written
func validRequest(w http.ResponseWriter, v any) bool {
	if err := validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return false
	}
	return true
}

// validationMessage flattens validator errors into "field: rule" pairs.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fe.Field()+": "+rule)
	}
	return "invalid request: " + strings.Join(parts, ", ")
}
