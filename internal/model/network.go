package model

import (
	json "github.com/goccy/go-json"
)

type City string

const (
	CityDammam  City = "Dammam"
	CityHafuf   City = "Hafuf"
	CityJeddah  City = "Jeddah"
	CityKhubar  City = "Khubar"
	CityMadinah City = "Madinah"
	CityMakkah  City = "Makkah"
	CityRiyadh  City = "Riyadh"
)

// Cities is the fixed set of cities reported by the dashboard.
var Cities = []City{CityDammam, CityHafuf, CityJeddah, CityKhubar, CityMadinah, CityMakkah, CityRiyadh}

func (c City) Valid() bool {
	for _, city := range Cities {
		if city == c {
			return true
		}
	}
	return false
}

type Technology string

const (
	Tech2G      Technology = "2G"
	Tech3G      Technology = "3G"
	Tech4G      Technology = "4G"
	Tech5G      Technology = "5G"
	TechUnknown Technology = "Unknown"
)

// DefaultTechnology is preselected by the dashboard when the data has it.
const DefaultTechnology = Tech4G

// Technologies is the fixed set of radio technologies kept after aggregation.
var Technologies = []Technology{Tech2G, Tech3G, Tech4G, Tech5G}

func (t Technology) Valid() bool {
	for _, tech := range Technologies {
		if tech == t {
			return true
		}
	}
	return false
}

// MinYearWeek is the inclusive lower bound applied to the availability anchor.
const MinYearWeek = "202453"

type QueryVariant string

const (
	// QueryV2 aggregates outages by fault type and reads siteCount from the
	// downtime-aware site counter.
	QueryV2 QueryVariant = "v2"
	// QueryV1 is the legacy contract without fault columns.
	QueryV1 QueryVariant = "v1"
)

func (v QueryVariant) Valid() bool {
	return v == QueryV1 || v == QueryV2
}

func (v QueryVariant) IncludesFaults() bool {
	return v != QueryV1
}

// AggregatedRow is one (YearWeek, City, Technology) record of the dashboard table.
type AggregatedRow struct {
	YearWeek                string
	City                    City
	Technology              Technology
	CellAvailabilityRatePct float64
	SiteUnavailTotalHours   float64
	CellUnavailTotalHours   float64
	SiteCount               int64
	ComplaintCount          int64
	Faults                  FaultCounts
}

// RowKey identifies a row of the aggregated table.
type RowKey struct {
	YearWeek   string
	City       City
	Technology Technology
}

func (r AggregatedRow) Key() RowKey {
	return RowKey{YearWeek: r.YearWeek, City: r.City, Technology: r.Technology}
}

// Less orders keys by YearWeek, then City, then Technology.
func (k RowKey) Less(other RowKey) bool {
	if k.YearWeek != other.YearWeek {
		return k.YearWeek < other.YearWeek
	}
	if k.City != other.City {
		return k.City < other.City
	}
	return k.Technology < other.Technology
}

type rowJSON struct {
	YearWeek                string     `json:"YEARWEEK"`
	Technology              Technology `json:"Technology"`
	City                    City       `json:"City"`
	CellAvailabilityRatePct float64    `json:"Cell Availability Rate %"`
	SiteUnavailTotalHours   float64    `json:"Site_Unavail_TotalHours"`
	CellUnavailTotalHours   float64    `json:"Cell_Unavail_TotalHours"`
	SiteCount               int64      `json:"siteCount"`
	ComplaintCount          int64      `json:"ComplaintCount"`

	ClientFarEndFaults  *int64 `json:"ClientFarEndFaults,omitempty"`
	DecomissionedFaults *int64 `json:"DecomissionedFaults,omitempty"`
	EnvironmentFaults   *int64 `json:"EnvironmentFaults,omitempty"`
	HardwareFaults      *int64 `json:"HardwareFaults,omitempty"`
	ISPFaults           *int64 `json:"ISPFaults,omitempty"`
	LinkFaults          *int64 `json:"LinkFaults,omitempty"`
	MgmtLossFaults      *int64 `json:"MgmtLossFaults,omitempty"`
	MDTViolationFaults  *int64 `json:"MDTViolationFaults,omitempty"`
	OSPFaults           *int64 `json:"OSPFaults,omitempty"`
	PerformanceFaults   *int64 `json:"PerformanceFaults,omitempty"`
	PowerFaults         *int64 `json:"PowerFaults,omitempty"`
	SoftwareFaults      *int64 `json:"SoftwareFaults,omitempty"`
}

// faultFields lists the fault pointers in FaultColumns order.
func (j *rowJSON) faultFields() []**int64 {
	return []**int64{
		&j.ClientFarEndFaults, &j.DecomissionedFaults, &j.EnvironmentFaults, &j.HardwareFaults,
		&j.ISPFaults, &j.LinkFaults, &j.MgmtLossFaults, &j.MDTViolationFaults,
		&j.OSPFaults, &j.PerformanceFaults, &j.PowerFaults, &j.SoftwareFaults,
	}
}

// MarshalJSON writes the row with the column names used by the source table.
// Fault columns are only emitted when the row carries fault counts.
func (r AggregatedRow) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		YearWeek:                r.YearWeek,
		Technology:              r.Technology,
		City:                    r.City,
		CellAvailabilityRatePct: r.CellAvailabilityRatePct,
		SiteUnavailTotalHours:   r.SiteUnavailTotalHours,
		CellUnavailTotalHours:   r.CellUnavailTotalHours,
		SiteCount:               r.SiteCount,
		ComplaintCount:          r.ComplaintCount,
	}
	if r.Faults.Present() {
		for i, field := range out.faultFields() {
			value := r.Faults.Get(FaultColumns[i])
			*field = &value
		}
	}
	return json.Marshal(out)
}

func (r *AggregatedRow) UnmarshalJSON(data []byte) error {
	var in rowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*r = AggregatedRow{
		YearWeek:                in.YearWeek,
		City:                    in.City,
		Technology:              in.Technology,
		CellAvailabilityRatePct: in.CellAvailabilityRatePct,
		SiteUnavailTotalHours:   in.SiteUnavailTotalHours,
		CellUnavailTotalHours:   in.CellUnavailTotalHours,
		SiteCount:               in.SiteCount,
		ComplaintCount:          in.ComplaintCount,
	}
	for i, field := range in.faultFields() {
		if *field == nil {
			continue
		}
		r.Faults.Set(FaultColumns[i], **field)
	}
	return nil
}
