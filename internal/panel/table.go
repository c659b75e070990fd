// Package panel provides the in-memory (entity, date) table the metrics
// engine operates on. A table holds named numeric columns; cells use IEEE NaN
// as the explicit missing-value marker, which propagates through arithmetic
// instead of raising. Rows are grouped by entity, ordered by ascending date
// within each group, and groups keep the order entities were first appended.
package panel

import (
	"math"
	"sort"
	"time"
)

// Missing returns the marker for an absent or undefined numeric cell.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether a cell value is the missing marker.
func IsMissing(v float64) bool { return math.IsNaN(v) }

// Row is one (entity, date) observation. Cell values are read through Value;
// rows are immutable once appended.
type Row struct {
	Entity string
	Date   time.Time
	cells  map[string]float64
}

// Value returns the cell for a column, or the missing marker if the row has
// no value for it.
func (r Row) Value(col string) float64 {
	if v, ok := r.cells[col]; ok {
		return v
	}
	return Missing()
}

// Cells returns a copy of the row's cell values.
func (r Row) Cells() map[string]float64 {
	out := make(map[string]float64, len(r.cells))
	for k, v := range r.cells {
		out[k] = v
	}
	return out
}

// Table is an ordered collection of rows grouped by entity.
type Table struct {
	cols   []string
	colSet map[string]struct{}
	order  []string
	groups map[string][]Row
}

// New creates an empty table with the given column names.
func New(cols ...string) *Table {
	t := &Table{
		colSet: make(map[string]struct{}, len(cols)),
		groups: make(map[string][]Row),
	}
	for _, c := range cols {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.colSet[name]; ok {
		return
	}
	t.cols = append(t.cols, name)
	t.colSet[name] = struct{}{}
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.cols))
	copy(out, t.cols)
	return out
}

// HasColumn reports whether the table declares a column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// Append adds an observation. Cell values are copied; columns not declared on
// the table are ignored. Rows arriving out of date order are inserted at
// their sorted position within the entity group.
func (t *Table) Append(entity string, date time.Time, cells map[string]float64) {
	row := Row{Entity: entity, Date: date, cells: make(map[string]float64, len(cells))}
	for k, v := range cells {
		if _, ok := t.colSet[k]; ok {
			row.cells[k] = v
		}
	}

	rows, seen := t.groups[entity]
	if !seen {
		t.order = append(t.order, entity)
	}
	if n := len(rows); n > 0 && rows[n-1].Date.After(date) {
		i := sort.Search(n, func(i int) bool { return rows[i].Date.After(date) })
		rows = append(rows, Row{})
		copy(rows[i+1:], rows[i:])
		rows[i] = row
		t.groups[entity] = rows
		return
	}
	t.groups[entity] = append(rows, row)
}

// Entities returns the entity keys in first-appended order.
func (t *Table) Entities() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Group returns the rows of one entity in ascending date order. The returned
// slice must not be modified.
func (t *Table) Group(entity string) []Row {
	return t.groups[entity]
}

// Len returns the total number of rows across all groups.
func (t *Table) Len() int {
	n := 0
	for _, rows := range t.groups {
		n += len(rows)
	}
	return n
}

// Rows returns all rows, groups in entity order, dates ascending within each
// group.
func (t *Table) Rows() []Row {
	out := make([]Row, 0, t.Len())
	for _, e := range t.order {
		out = append(out, t.groups[e]...)
	}
	return out
}

// Filter returns a new table restricted to the given entities. A nil or empty
// filter returns a copy of the whole table.
func (t *Table) Filter(entities []string) *Table {
	out := New(t.cols...)
	if len(entities) == 0 {
		entities = t.order
	}
	keep := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		keep[e] = struct{}{}
	}
	for _, e := range t.order {
		if _, ok := keep[e]; !ok {
			continue
		}
		for _, r := range t.groups[e] {
			out.Append(e, r.Date, r.cells)
		}
	}
	return out
}

// WithSeries returns a new table with an additional column joined by date.
// Every row gains the series value for its date, or the missing marker when
// the series has no observation on that date. The receiver is not modified.
func (t *Table) WithSeries(col string, series map[time.Time]float64) *Table {
	out := New(append(t.Columns(), col)...)
	for _, e := range t.order {
		for _, r := range t.groups[e] {
			cells := r.Cells()
			if v, ok := series[r.Date]; ok {
				cells[col] = v
			} else {
				cells[col] = Missing()
			}
			out.Append(e, r.Date, cells)
		}
	}
	return out
}

// MergeByEntity joins two tables that hold at most one row per entity (the
// shape produced by the engine's whole-period operations). Entities come from
// a; columns from b are added where b has a row for the entity, missing
// otherwise.
func MergeByEntity(a, b *Table) *Table {
	out := New(append(a.Columns(), b.Columns()...)...)
	for _, e := range a.Entities() {
		for _, r := range a.Group(e) {
			cells := r.Cells()
			if brs := b.Group(e); len(brs) > 0 {
				for k, v := range brs[len(brs)-1].cells {
					cells[k] = v
				}
			}
			out.Append(e, r.Date, cells)
		}
	}
	return out
}
