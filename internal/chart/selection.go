package chart

import (
	"errors"
	"fmt"

	"network-dashboard/internal/model"
)

var ErrUnknownOption = errors.New("unknown filter option")

// OptionSet lists the filter values present in the data, in first-seen order.
type OptionSet struct {
	Cities       []model.City       `json:"cities"`
	Technologies []model.Technology `json:"technologies"`
}

// Selection is the user's city and technology choice.
type Selection struct {
	City         model.City         `json:"city"`
	Technologies []model.Technology `json:"technologies"`
}

func (s Selection) Filter() model.Filter {
	return model.Filter{City: s.City, Technologies: s.Technologies}
}

func (s Selection) Includes(tech model.Technology) bool {
	for _, t := range s.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}

func Options(rows []model.AggregatedRow) OptionSet {
	opts := OptionSet{Cities: []model.City{}, Technologies: []model.Technology{}}
	seenCity := make(map[model.City]bool)
	seenTech := make(map[model.Technology]bool)
	for _, row := range rows {
		if row.City != "" && !seenCity[row.City] {
			seenCity[row.City] = true
			opts.Cities = append(opts.Cities, row.City)
		}
		if row.Technology != "" && !seenTech[row.Technology] {
			seenTech[row.Technology] = true
			opts.Technologies = append(opts.Technologies, row.Technology)
		}
	}
	return opts
}

func (o OptionSet) hasCity(city model.City) bool {
	for _, c := range o.Cities {
		if c == city {
			return true
		}
	}
	return false
}

func (o OptionSet) hasTechnology(tech model.Technology) bool {
	for _, t := range o.Technologies {
		if t == tech {
			return true
		}
	}
	return false
}

// DefaultSelection picks the first city, and 4G when present or else the
// first technology.
func DefaultSelection(opts OptionSet) Selection {
	sel := Selection{Technologies: []model.Technology{}}
	if len(opts.Cities) > 0 {
		sel.City = opts.Cities[0]
	}
	switch {
	case opts.hasTechnology(model.DefaultTechnology):
		sel.Technologies = []model.Technology{model.DefaultTechnology}
	case len(opts.Technologies) > 0:
		sel.Technologies = []model.Technology{opts.Technologies[0]}
	}
	return sel
}

// ParseSelection validates raw query values against the available options.
// Empty values fall back to DefaultSelection.
func ParseSelection(opts OptionSet, city string, techs []string) (Selection, error) {
	sel := DefaultSelection(opts)
	if city != "" {
		if !opts.hasCity(model.City(city)) {
			return Selection{}, fmt.Errorf("%w: city %q", ErrUnknownOption, city)
		}
		sel.City = model.City(city)
	}

	chosen := make([]model.Technology, 0, len(techs))
	for _, raw := range techs {
		if raw == "" {
			continue
		}
		tech := model.Technology(raw)
		if !opts.hasTechnology(tech) {
			return Selection{}, fmt.Errorf("%w: technology %q", ErrUnknownOption, raw)
		}
		if !(Selection{Technologies: chosen}).Includes(tech) {
			chosen = append(chosen, tech)
		}
	}
	if len(chosen) > 0 {
		sel.Technologies = chosen
	}
	return sel, nil
}
