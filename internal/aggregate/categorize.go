// Package aggregate builds the weekly network table from availability,
// complaint and outage facts.
package aggregate

import "network-dashboard/internal/model"

type Indicator string

const (
	IndicatorOptimization Indicator = "Optimization"
	IndicatorNonNetwork   Indicator = "Non Network"
	IndicatorOperation    Indicator = "Operation"
	IndicatorUnknown      Indicator = "Unknown"
)

var (
	// OptimizationFeedback are feedback values closed by the optimization team.
	OptimizationFeedback = []string{
		"Add Sector", "Congested", "Plan Site", "Out of Scope",
		"No Network issue", "Covered", "KPIs are fine",
	}
	// NonNetworkFeedback are feedback values unrelated to the radio network.
	NonNetworkFeedback = []string{"Missing Information", "Wrong Coordinates"}
	// OperationFeedback is the single feedback value attributed to operations.
	OperationFeedback = "Operation issue"
)

// ComplaintTechnologies maps raw ticket technologies onto reported ones.
var ComplaintTechnologies = []struct {
	Raw        []string
	Technology model.Technology
}{
	{Raw: []string{"LTE TDD", "LTE FDD"}, Technology: model.Tech4G},
	{Raw: []string{"2G"}, Technology: model.Tech2G},
	{Raw: []string{"3G"}, Technology: model.Tech3G},
	{Raw: []string{"5G"}, Technology: model.Tech5G},
}

func NetworkIndicator(feedback string) Indicator {
	switch {
	case contains(OptimizationFeedback, feedback):
		return IndicatorOptimization
	case contains(NonNetworkFeedback, feedback):
		return IndicatorNonNetwork
	case feedback == OperationFeedback:
		return IndicatorOperation
	default:
		return IndicatorUnknown
	}
}

func ComplaintTechnology(raw string) model.Technology {
	for _, m := range ComplaintTechnologies {
		if contains(m.Raw, raw) {
			return m.Technology
		}
	}
	return model.TechUnknown
}

// Category is the bucket pair a complaint ticket falls into.
type Category struct {
	Indicator  Indicator
	Technology model.Technology
}

func Categorize(feedback, technology string) Category {
	return Category{
		Indicator:  NetworkIndicator(feedback),
		Technology: ComplaintTechnology(technology),
	}
}

// Counts reports whether a ticket in this category contributes to ComplaintCount.
func (c Category) Counts() bool {
	if c.Indicator == IndicatorUnknown || c.Indicator == IndicatorNonNetwork {
		return false
	}
	return c.Technology != model.TechUnknown
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
