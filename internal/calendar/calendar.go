// Package calendar is the local state behind the meal-planning month view.
// Nothing here touches the network: paging months and selecting days are
// pure state changes, and loading meal slots is left to service.MealSlots.
package calendar

import (
	"recipehub/meal-planner/internal/domain"
	"time"
)

// Month is a year and month pair.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// AddMonths shifts m by n months; time.Date normalises the overflow.
func (m Month) AddMonths(n int) Month {
	return MonthOf(time.Date(m.Year, m.Month+time.Month(n), 1, 0, 0, 0, 0, time.UTC))
}

func (m Month) Next() Month { return m.AddMonths(1) }
func (m Month) Prev() Month { return m.AddMonths(-1) }

// First returns the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the month.
func (m Month) DaysIn() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Offset is the weekday of day 1 with Sunday as 0, i.e. the number of empty
// cells before day 1 in a Sunday-first grid.
func (m Month) Offset() int {
	return int(m.First().Weekday())
}

// Contains reports whether d falls in m.
func (m Month) Contains(d domain.Date) bool {
	return d.SameMonth(m.Year, m.Month)
}

// Cell is one tile of the month grid. Leading filler cells have Day 0 and
// an empty Date.
type Cell struct {
	Day  int         `json:"day"`
	Date domain.Date `json:"date,omitempty"`
}

// Empty reports whether the cell is leading filler.
func (c Cell) Empty() bool { return c.Day == 0 }

// Grid lays out the month as Offset() empty cells followed by one cell per day.
func (m Month) Grid() []Cell {
	offset, days := m.Offset(), m.DaysIn()
	cells := make([]Cell, offset, offset+days)
	for day := 1; day <= days; day++ {
		t := time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
		cells = append(cells, Cell{Day: day, Date: domain.DateOf(t)})
	}
	return cells
}

// View is the month-view state: the month being shown and the selected day
// move independently of each other.
type View struct {
	current  Month
	selected domain.Date
}

// NewView starts on today's month with today selected.
func NewView(today time.Time) *View {
	return &View{current: MonthOf(today), selected: domain.DateOf(today)}
}

func (v *View) CurrentMonth() Month       { return v.current }
func (v *View) SelectedDate() domain.Date { return v.selected }

// NextMonth and PrevMonth page by exactly one month and leave the selected
// date alone.
func (v *View) NextMonth() Month {
	v.current = v.current.Next()
	return v.current
}

func (v *View) PrevMonth() Month {
	v.current = v.current.Prev()
	return v.current
}

// Select changes the selected day without paging the month.
func (v *View) Select(d domain.Date) {
	v.selected = d
}

// Grid returns the grid of the current month.
func (v *View) Grid() []Cell {
	return v.current.Grid()
}
