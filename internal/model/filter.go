package model

// Filter selects one city and a subset of technologies.
type Filter struct {
	City         City
	Technologies []Technology
}

func (f Filter) Matches(row AggregatedRow) bool {
	if row.City != f.City {
		return false
	}
	for _, tech := range f.Technologies {
		if row.Technology == tech {
			return true
		}
	}
	return false
}

// Apply returns the matching rows in input order. The input is not modified.
func (f Filter) Apply(rows []AggregatedRow) []AggregatedRow {
	result := make([]AggregatedRow, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row) {
			result = append(result, row)
		}
	}
	return result
}
