package format

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Mode selects how a table renders.
type Mode int

const (
	ASCII    Mode = iota // terminal output
	Markdown             // step summaries and PR comments
)

// Table collects rows and renders them once.
type Table struct {
	writer table.Writer
	mode   Mode
}

func NewTable(m Mode) *Table {
	w := table.NewWriter()
	if m == ASCII {
		w.SetStyle(table.StyleLight)
	}
	return &Table{writer: w, mode: m}
}

func (t *Table) Title(title string) *Table {
	t.writer.SetTitle(title)
	return t
}

func (t *Table) Header(cols ...string) *Table {
	row := make(table.Row, len(cols))
	for i, c := range cols {
		row[i] = c
	}
	t.writer.AppendHeader(row)
	return t
}

func (t *Table) Row(vals ...any) *Table {
	row := make(table.Row, len(vals))
	copy(row, vals)
	t.writer.AppendRow(row)
	return t
}

// AlignRight right-aligns the given 1-based columns, for numbers.
func (t *Table) AlignRight(columns ...int) *Table {
	cfgs := make([]table.ColumnConfig, 0, len(columns))
	for _, c := range columns {
		cfgs = append(cfgs, table.ColumnConfig{Number: c, Align: text.AlignRight})
	}
	t.writer.SetColumnConfigs(cfgs)
	return t
}

func (t *Table) String() string {
	if t.mode == Markdown {
		return t.writer.RenderMarkdown()
	}
	return t.writer.Render()
}
