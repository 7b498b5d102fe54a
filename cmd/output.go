package cmd

import (
	"fmt"
	"io"
	"strings"

	"hesiod53/core/reconcile"
	"hesiod53/feature/directory/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// newTable creates a table rendered to w with standard styling.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(titles ...string) table.Row {
	row := make(table.Row, 0, len(titles))
	for _, title := range titles {
		row = append(row, text.FgHiCyan.Sprint(title))
	}
	return row
}

// printRecords prints records under title, or empty when there are none.
func printRecords(w io.Writer, title, empty string, records []reconcile.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, empty)
		return
	}

	fmt.Fprintln(w, title)
	t := newTable(w)
	t.AppendHeader(header("NAME", "VALUE"))
	for _, r := range records {
		t.AppendRow(table.Row{r.FQDN, r.Value})
	}
	t.Render()
}

// printPlan prints the records a run deletes and adds.
func printPlan(w io.Writer, plan *reconcile.Plan) {
	printRecords(w, "Deleting:", "Nothing to delete.", plan.ToRemove)
	printRecords(w, "Adding:", "Nothing to add.", plan.ToAdd)
}

// printBatches prints committed batches in submission order.
func printBatches(w io.Writer, batches []reconcile.BatchResult) {
	t := newTable(w)
	t.AppendHeader(header("BATCH", "ACTION", "SIZE", "CHANGE"))
	for _, b := range batches {
		t.AppendRow(table.Row{b.Index, string(b.Action), b.Size, b.ChangeID})
	}
	t.Render()
}

// printUsers prints published passwd entries.
func printUsers(w io.Writer, users []*models.PasswdEntry) {
	if len(users) == 0 {
		fmt.Fprintln(w, "No users published.")
		return
	}

	t := newTable(w)
	t.AppendHeader(header("USERNAME", "UID", "GID", "NAME", "HOME", "SHELL"))
	for _, u := range users {
		t.AppendRow(table.Row{u.Username, u.UID, u.GID, u.FullName, u.HomeDir, u.Shell})
	}
	t.Render()
}

// publishedGroup is a group parsed back from its record.
type publishedGroup struct {
	Group   *models.Group
	Members []string
}

// printGroups prints published groups.
func printGroups(w io.Writer, groups []publishedGroup) {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No groups published.")
		return
	}

	t := newTable(w)
	t.AppendHeader(header("GROUP", "GID", "MEMBERS"))
	for _, g := range groups {
		t.AppendRow(table.Row{g.Group.Name, g.Group.GID, strings.Join(g.Members, ",")})
	}
	t.Render()
}
