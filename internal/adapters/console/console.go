// Package console is the text front end: a numbered menu that prints each module's dashboard.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"churchdesk/internal/application/registry"
)

// menuItem is one numbered entry. Choice 0 always exits.
type menuItem struct {
	label string
	show  func(c *Console, ctx context.Context) error
}

var menu = []menuItem{
	1:  {"Members", (*Console).members},
	2:  {"Attendance", (*Console).attendance},
	3:  {"Finance", (*Console).finance},
	4:  {"Children's Ministry", (*Console).children},
	5:  {"Visitors", (*Console).visitors},
	6:  {"Programs & Events", (*Console).programs},
	7:  {"Equipment", (*Console).equipment},
	8:  {"Small Groups", (*Console).groups},
	9:  {"Welfare", (*Console).welfare},
	10: {"Partnerships", (*Console).partnerships},
	11: {"SMS & Email", (*Console).sms},
	12: {"Prayer Requests", (*Console).prayer},
	13: {"Feedback", (*Console).feedback},
	14: {"Dashboard", (*Console).dashboard},
	15: {"Export report", (*Console).export},
}

type styles struct {
	title  lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
	muted  lipgloss.Style
	err    lipgloss.Style
	border lipgloss.Style
}

// Console renders module views to out.
type Console struct {
	app       *registry.App
	out       io.Writer
	exportDir string
	st        styles
}

// New creates a console writing to out. Exports land in exportDir.
// Colours are chosen for out, so a pipe or file gets plain text.
func New(app *registry.App, out io.Writer, exportDir string) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		app:       app,
		out:       out,
		exportDir: exportDir,
		st: styles{
			title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")).MarginTop(1),
			header: r.NewStyle().Bold(true).Padding(0, 1),
			cell:   r.NewStyle().Padding(0, 1),
			muted:  r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
			err:    r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
			border: r.NewStyle().Foreground(lipgloss.Color("#585b70")),
		},
	}
}

// Run reads one menu choice per line until 0 or end of input.
// Errors from a module view are printed and the loop continues; only a read error is returned.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	sc := bufio.NewScanner(in)
	c.printMenu()
	for {
		fmt.Fprint(c.out, "\nChoose an option: ")
		if !sc.Scan() {
			fmt.Fprintln(c.out)
			return sc.Err()
		}
		quit, err := c.Dispatch(ctx, sc.Text())
		if quit {
			fmt.Fprintln(c.out, "Goodbye.")
			return nil
		}
		if err != nil {
			slog.Error("console_event", "event", "view_failed", "choice", strings.TrimSpace(sc.Text()), "error", err)
			fmt.Fprintln(c.out, c.st.err.Render("Error: "+err.Error()))
		}
	}
}

// Dispatch runs one menu choice. Unknown input reprints the menu.
func (c *Console) Dispatch(ctx context.Context, choice string) (quit bool, err error) {
	choice = strings.TrimSpace(choice)
	if choice == "0" {
		return true, nil
	}
	n, convErr := strconv.Atoi(choice)
	if convErr != nil || n < 1 || n >= len(menu) {
		fmt.Fprintln(c.out, c.st.err.Render(fmt.Sprintf("%q is not a menu option.", choice)))
		c.printMenu()
		return false, nil
	}
	item := menu[n]
	fmt.Fprintln(c.out, c.st.title.Render(strings.ToUpper(item.label)))
	return false, item.show(c, ctx)
}

func (c *Console) printMenu() {
	fmt.Fprintln(c.out, c.st.title.Render("CHURCH DESK"))
	for i := 1; i < len(menu); i++ {
		fmt.Fprintf(c.out, "%3d  %s\n", i, menu[i].label)
	}
	fmt.Fprintf(c.out, "%3d  %s\n", 0, "Exit")
}

// table renders rows under headers, or a muted placeholder when there are none.
func (c *Console) table(headers []string, rows [][]string, empty string) {
	if len(rows) == 0 {
		fmt.Fprintln(c.out, c.st.muted.Render(empty))
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(c.st.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return c.st.header
			}
			return c.st.cell
		})
	fmt.Fprintln(c.out, t.Render())
}

// stats prints label/value pairs as a two-column table.
func (c *Console) stats(pairs ...string) {
	rows := make([][]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, []string{pairs[i], pairs[i+1]})
	}
	c.table([]string{"Metric", "Value"}, rows, "")
}

func (c *Console) heading(s string) {
	fmt.Fprintln(c.out, c.st.header.UnsetPadding().Render(s))
}

func (c *Console) note(s string) {
	fmt.Fprintln(c.out, c.st.muted.Render(s))
}
