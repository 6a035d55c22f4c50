package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	pluralizer "github.com/gertd/go-pluralize"
	"github.com/pterm/pterm"

	"github.com/Konsultn-Engineering/chstmt/database"
	"github.com/Konsultn-Engineering/chstmt/statement"
)

var pluralizeClient = pluralizer.NewClient()

func render(w io.Writer, cur *statement.Cursor) error {
	if color.NoColor {
		pterm.DisableStyling()
	}

	columns := cur.Columns()
	if len(columns) == 0 && cur.Len() > 0 {
		columns = columnsOf(cur.All()[0])
	}

	if len(columns) > 0 {
		data := pterm.TableData{columns}
		for row := range cur.Rows() {
			line := make([]string, len(columns))
			for i, col := range columns {
				line[i] = cell(row[col])
			}
			data = append(data, line)
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).WithWriter(w).Render(); err != nil {
			return err
		}
		_, err := color.New(color.FgGreen).Fprintf(w, "%s\n", pluralizeClient.Pluralize("row", cur.Len(), true))
		return err
	}

	_, err := color.New(color.FgGreen).Fprintf(w, "OK, %s affected\n", pluralizeClient.Pluralize("row", int(cur.RowsAffected()), true))
	return err
}

func renderDryRun(w io.Writer, call database.Call) error {
	path := "write"
	if call.Read {
		path = "read"
	}
	if _, err := color.New(color.FgCyan).Fprintf(w, "-- %s path\n", path); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, call.Query)
	return err
}

// columnsOf orders a row's columns by name when the server sent none.
func columnsOf(row database.Row) []string {
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	return cols
}

func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
