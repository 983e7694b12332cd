package aggregate

import (
	"sort"
	"time"

	"network-dashboard/internal/model"
)

// AvailabilityRecord is one row of the weekly cell availability table. It
// anchors the key set of the aggregated output.
type AvailabilityRecord struct {
	YearWeek                string
	City                    model.City
	Technology              model.Technology
	CellAvailabilityRatePct float64
	SiteUnavailTotalHours   float64
	CellUnavailTotalHours   float64
	SiteCount               int64
}

// ComplaintTicket is a raw customer complaint with the city of its site.
type ComplaintTicket struct {
	ID                   string
	OpenedDate           time.Time
	City                 model.City
	Technology           string
	OptimizationFeedback string
}

type OutageIncident struct {
	StartDate  time.Time
	City       model.City
	Technology model.Technology
	FaultType  model.FaultType
}

// Facts bundles the three source relations.
type Facts struct {
	Availability []AvailabilityRecord
	Complaints   []ComplaintTicket
	Outages      []OutageIncident
}

// ComplaintSummary counts qualifying tickets per key.
func ComplaintSummary(tickets []ComplaintTicket) map[model.RowKey]int64 {
	counts := make(map[model.RowKey]int64)
	for _, ticket := range tickets {
		if !InComplaintWindow(ticket.OpenedDate) || !ticket.City.Valid() {
			continue
		}
		category := Categorize(ticket.OptimizationFeedback, ticket.Technology)
		if !category.Counts() {
			continue
		}
		key := model.RowKey{
			YearWeek:   YearWeekOf(ticket.OpenedDate),
			City:       ticket.City,
			Technology: category.Technology,
		}
		counts[key]++
	}
	return counts
}

// OutagePivot groups outages per key and fault type and pivots the fault types
// into reported columns. Power and Power Failure land in the same column.
func OutagePivot(outages []OutageIncident) map[model.RowKey]model.FaultCounts {
	pivot := make(map[model.RowKey]model.FaultCounts)
	for _, outage := range outages {
		if !outage.City.Valid() || !outage.Technology.Valid() {
			continue
		}
		col, ok := model.ColumnFor(outage.FaultType)
		if !ok {
			continue
		}
		key := model.RowKey{
			YearWeek:   YearWeekOf(outage.StartDate),
			City:       outage.City,
			Technology: outage.Technology,
		}
		counts, exists := pivot[key]
		if !exists {
			counts = model.NewFaultCounts()
		}
		counts.Add(col, 1)
		pivot[key] = counts
	}
	return pivot
}

// Build left-joins the complaint summary and, for fault-aware variants, the
// outage pivot onto the availability anchor. Keys missing from either side
// are zero-filled. Output is ordered by YearWeek, City, Technology.
func Build(facts Facts, variant model.QueryVariant) []model.AggregatedRow {
	complaints := ComplaintSummary(facts.Complaints)
	var faults map[model.RowKey]model.FaultCounts
	if variant.IncludesFaults() {
		faults = OutagePivot(facts.Outages)
	}

	rows := make([]model.AggregatedRow, 0, len(facts.Availability))
	for _, rec := range facts.Availability {
		if !rec.City.Valid() || !rec.Technology.Valid() || rec.YearWeek < model.MinYearWeek {
			continue
		}
		row := model.AggregatedRow{
			YearWeek:                rec.YearWeek,
			City:                    rec.City,
			Technology:              rec.Technology,
			CellAvailabilityRatePct: rec.CellAvailabilityRatePct,
			SiteUnavailTotalHours:   rec.SiteUnavailTotalHours,
			CellUnavailTotalHours:   rec.CellUnavailTotalHours,
			SiteCount:               rec.SiteCount,
		}
		key := row.Key()
		row.ComplaintCount = complaints[key]
		if variant.IncludesFaults() {
			if counts, ok := faults[key]; ok {
				row.Faults = counts
			} else {
				row.Faults = model.NewFaultCounts()
			}
		}
		rows = append(rows, row)
	}

	SortRows(rows)
	return rows
}

// SortRows orders rows ascending by YearWeek, City, Technology.
func SortRows(rows []model.AggregatedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Key().Less(rows[j].Key())
	})
}
