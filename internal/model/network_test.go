package model

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatedRowJSONWithoutFaults(t *testing.T) {
	row := AggregatedRow{
		YearWeek:                "202501",
		City:                    CityRiyadh,
		Technology:              Tech4G,
		CellAvailabilityRatePct: 99.5,
		SiteUnavailTotalHours:   1.25,
		CellUnavailTotalHours:   2,
		SiteCount:               120,
		ComplaintCount:          4,
	}

	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"YEARWEEK": "202501",
		"Technology": "4G",
		"City": "Riyadh",
		"Cell Availability Rate %": 99.5,
		"Site_Unavail_TotalHours": 1.25,
		"Cell_Unavail_TotalHours": 2,
		"siteCount": 120,
		"ComplaintCount": 4
	}`, string(data))

	var back AggregatedRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.False(t, back.Faults.Present())
	assert.Equal(t, row.Key(), back.Key())
}

func TestAggregatedRowJSONWithFaults(t *testing.T) {
	row := AggregatedRow{YearWeek: "202502", City: CityJeddah, Technology: Tech3G, Faults: NewFaultCounts()}
	row.Faults.Set(PowerFaults, 3)

	data, err := json.Marshal(row)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	for _, col := range FaultColumns {
		assert.Contains(t, raw, string(col))
	}
	assert.EqualValues(t, 3, raw["PowerFaults"])
	assert.EqualValues(t, 0, raw["ISPFaults"])

	var back AggregatedRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, FaultColumns, back.Faults.Columns())
	assert.Equal(t, int64(3), back.Faults.Total())
}

func TestRowKeyOrdering(t *testing.T) {
	a := RowKey{YearWeek: "202453", City: CityRiyadh, Technology: Tech4G}
	b := RowKey{YearWeek: "202501", City: CityDammam, Technology: Tech2G}
	c := RowKey{YearWeek: "202501", City: CityDammam, Technology: Tech5G}
	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(b))
	assert.False(t, a.Less(a))
}

func TestFilterApplyKeepsOrder(t *testing.T) {
	rows := []AggregatedRow{
		{YearWeek: "202502", City: CityRiyadh, Technology: Tech4G},
		{YearWeek: "202501", City: CityRiyadh, Technology: Tech3G},
		{YearWeek: "202501", City: CityJeddah, Technology: Tech4G},
		{YearWeek: "202501", City: CityRiyadh, Technology: Tech4G},
	}
	f := Filter{City: CityRiyadh, Technologies: []Technology{Tech4G}}

	got := f.Apply(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "202502", got[0].YearWeek)
	assert.Equal(t, "202501", got[1].YearWeek)
	assert.Len(t, rows, 4)

	assert.Empty(t, Filter{City: CityRiyadh}.Apply(rows))
}

func TestFaultPivotMergesPower(t *testing.T) {
	col, ok := ColumnFor(FaultPowerFailure)
	assert.True(t, ok)
	assert.Equal(t, PowerFaults, col)

	_, ok = ColumnFor(FaultService)
	assert.False(t, ok)
	_, ok = ColumnFor("Vandalism")
	assert.False(t, ok)

	var absent FaultCounts
	assert.False(t, absent.Present())
	assert.Equal(t, int64(0), absent.Get(HardwareFaults))
	absent.Add(HardwareFaults, 2)
	assert.True(t, absent.Present())
	assert.Equal(t, []FaultColumn{HardwareFaults}, absent.Columns())
}

func TestQueryVariant(t *testing.T) {
	assert.True(t, QueryV2.IncludesFaults())
	assert.False(t, QueryV1.IncludesFaults())
	assert.False(t, QueryVariant("v3").Valid())
	assert.True(t, CityHafuf.Valid())
	assert.False(t, TechUnknown.Valid())
}
