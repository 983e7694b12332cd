// Package chart builds the five-panel network dashboard figure and renders
// its panels to PNG or SVG.
package chart

import (
	"math"
	"sort"
	"strconv"

	"network-dashboard/internal/model"
)

type PanelKind string

const (
	PanelLine    PanelKind = "line"
	PanelBar     PanelKind = "bar"
	PanelStacked PanelKind = "stacked"
)

const (
	FigureWidth  = 1700
	FigureHeight = 900
)

// Panel indexes, top to bottom.
const (
	PanelAvailability = iota
	PanelComplaints
	PanelSiteUnavail
	PanelSiteCount
	PanelFaults
	PanelCount
)

var panelTitles = [PanelCount]string{
	"Cell Availability Rate %",
	"Complaints Count",
	"Site Unavail Total Hours",
	"Site Count",
	"SIR",
}

var panelKinds = [PanelCount]PanelKind{PanelLine, PanelBar, PanelBar, PanelBar, PanelStacked}

// Series is one trace of a panel. Colors holds per-point bar colors; Color is
// used when the whole trace shares one.
type Series struct {
	Name   string    `json:"name"`
	X      []string  `json:"x"`
	Y      []float64 `json:"y"`
	Labels []string  `json:"labels,omitempty"`
	Colors []string  `json:"colors,omitempty"`
	Color  string    `json:"color,omitempty"`
}

type Panel struct {
	Kind   PanelKind `json:"kind"`
	YTitle string    `json:"yTitle"`
	Series []Series  `json:"series"`
}

// Figure is the dashboard: five panels sharing the YearWeek categories.
type Figure struct {
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Selection  Selection `json:"selection"`
	Categories []string  `json:"categories"`
	TickText   []string  `json:"tickText"`
	Panels     []Panel   `json:"panels"`
}

func (f Figure) Empty() bool {
	return len(f.Categories) == 0
}

func newFigure(sel Selection) Figure {
	fig := Figure{
		Width:      FigureWidth,
		Height:     FigureHeight,
		Selection:  sel,
		Categories: []string{},
		TickText:   []string{},
		Panels:     make([]Panel, PanelCount),
	}
	for i := range fig.Panels {
		fig.Panels[i] = Panel{Kind: panelKinds[i], YTitle: panelTitles[i], Series: []Series{}}
	}
	return fig
}

// BuildFigure filters rows by the selection and lays out the five panels in
// YearWeek order, whatever order the rows arrive in. No matching rows yields
// panels without series.
func BuildFigure(rows []model.AggregatedRow, sel Selection) (Figure, error) {
	fig := newFigure(sel)
	filtered := sel.Filter().Apply(rows)
	if len(filtered) == 0 {
		return fig, nil
	}
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Key().Less(filtered[j].Key()) })

	weeks := make([]Week, 0)
	seenWeek := make(map[string]bool)
	techs := make([]model.Technology, 0)
	seenTech := make(map[model.Technology]bool)
	for _, row := range filtered {
		if !seenWeek[row.YearWeek] {
			info, err := WeekInfo(row.YearWeek)
			if err != nil {
				return Figure{}, err
			}
			seenWeek[row.YearWeek] = true
			weeks = append(weeks, info)
			fig.Categories = append(fig.Categories, row.YearWeek)
		}
		if !seenTech[row.Technology] {
			seenTech[row.Technology] = true
			techs = append(techs, row.Technology)
		}
	}
	fig.TickText = TickLabels(weeks)

	complaints := complaintTotals(filtered)
	for _, tech := range techs {
		var (
			availability = Series{Name: string(tech) + " Availability"}
			unavail      = Series{Name: string(tech) + " Site Unavail"}
			sites        = Series{Name: string(tech) + " Site Count"}
			unavailRaw   []float64
		)
		for _, row := range filtered {
			if row.Technology != tech {
				continue
			}
			availability.X = append(availability.X, row.YearWeek)
			availability.Y = append(availability.Y, row.CellAvailabilityRatePct)

			unavailRaw = append(unavailRaw, row.SiteUnavailTotalHours)
			appendRounded(&unavail, row.YearWeek, row.SiteUnavailTotalHours)
			appendRounded(&sites, row.YearWeek, float64(row.SiteCount))
		}

		complaint := Series{Name: string(tech) + " Complaints"}
		for _, c := range complaints {
			if c.key.Technology == tech {
				appendRounded(&complaint, c.key.YearWeek, float64(c.count))
			}
		}

		base := BaseColor(string(tech))
		var err error
		if complaint.Colors, err = IntensityColors(complaint.Y, base); err != nil {
			return Figure{}, err
		}
		if unavail.Colors, err = IntensityColors(unavailRaw, base); err != nil {
			return Figure{}, err
		}
		if sites.Colors, err = IntensityColors(sites.Y, base); err != nil {
			return Figure{}, err
		}

		fig.Panels[PanelAvailability].Series = append(fig.Panels[PanelAvailability].Series, availability)
		fig.Panels[PanelComplaints].Series = append(fig.Panels[PanelComplaints].Series, complaint)
		fig.Panels[PanelSiteUnavail].Series = append(fig.Panels[PanelSiteUnavail].Series, unavail)
		fig.Panels[PanelSiteCount].Series = append(fig.Panels[PanelSiteCount].Series, sites)
	}

	fig.Panels[PanelFaults].Series = faultSeries(filtered)
	return fig, nil
}

type complaintTotal struct {
	key   model.RowKey
	count int64
}

// complaintTotals sums complaints per (YearWeek, City, Technology) in key order.
func complaintTotals(rows []model.AggregatedRow) []complaintTotal {
	index := make(map[model.RowKey]int)
	totals := make([]complaintTotal, 0, len(rows))
	for _, row := range rows {
		key := row.Key()
		i, ok := index[key]
		if !ok {
			i = len(totals)
			index[key] = i
			totals = append(totals, complaintTotal{key: key})
		}
		totals[i].count += row.ComplaintCount
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].key.Less(totals[j].key) })
	return totals
}

// faultSeries stacks the present fault columns, summed over technologies per
// YearWeek in ascending order.
func faultSeries(rows []model.AggregatedRow) []Series {
	present := make(map[model.FaultColumn]bool)
	sums := make(map[string]map[model.FaultColumn]int64)
	weeks := make([]string, 0)
	for _, row := range rows {
		if _, ok := sums[row.YearWeek]; !ok {
			sums[row.YearWeek] = make(map[model.FaultColumn]int64)
			weeks = append(weeks, row.YearWeek)
		}
		for _, col := range row.Faults.Columns() {
			present[col] = true
			sums[row.YearWeek][col] += row.Faults.Get(col)
		}
	}
	sort.Strings(weeks)

	series := []Series{}
	for _, col := range model.FaultColumns {
		if !present[col] {
			continue
		}
		s := Series{
			Name:  string(col),
			X:     make([]string, 0, len(weeks)),
			Y:     make([]float64, 0, len(weeks)),
			Color: faultColor(len(series)),
		}
		for _, w := range weeks {
			s.X = append(s.X, w)
			s.Y = append(s.Y, float64(sums[w][col]))
		}
		series = append(series, s)
	}
	return series
}

// faultColor cycles the palette for the i-th stacked fault series.
func faultColor(i int) string {
	return palette[i%len(palette)]
}

// appendRounded adds a bar rounded half to even, labelled with its value.
func appendRounded(s *Series, x string, v float64) {
	rounded := math.RoundToEven(v)
	s.X = append(s.X, x)
	s.Y = append(s.Y, rounded)
	s.Labels = append(s.Labels, strconv.FormatInt(int64(rounded), 10))
}
