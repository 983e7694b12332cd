package db

import (
	"fmt"
	"strings"
)

// Dialect renders the SQL fragments that differ between the supported
// databases. Week numbers follow aggregate.WeekOfYear on both.
type Dialect struct {
	name  string
	quote string
}

var (
	MySQL    = Dialect{name: "mysql", quote: "`"}
	Postgres = Dialect{name: "postgres", quote: `"`}
)

func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case MySQL.name:
		return MySQL, nil
	case Postgres.name:
		return Postgres, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func (d Dialect) Name() string {
	return d.name
}

// Quote quotes a single identifier.
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}

// Table quotes a schema-qualified relation name.
func (d Dialect) Table(schema, name string) string {
	return d.Quote(schema) + "." + d.Quote(name)
}

// Column quotes a column and prefixes it with a relation alias.
func (d Dialect) Column(alias, name string) string {
	return alias + "." + d.Quote(name)
}

func (d Dialect) Year(expr string) string {
	if d.name == Postgres.name {
		return fmt.Sprintf("CAST(EXTRACT(YEAR FROM %s) AS INTEGER)", expr)
	}
	return fmt.Sprintf("YEAR(%s)", expr)
}

// Week numbers weeks Monday-first, week 1 holding four or more days of the
// year; MySQL mode 1.
func (d Dialect) Week(expr string) string {
	if d.name == Postgres.name {
		return fmt.Sprintf(`(CASE
			WHEN EXTRACT(ISOYEAR FROM %[1]s) < EXTRACT(YEAR FROM %[1]s) THEN 0
			WHEN EXTRACT(ISOYEAR FROM %[1]s) > EXTRACT(YEAR FROM %[1]s) THEN 53
			ELSE CAST(EXTRACT(WEEK FROM %[1]s) AS INTEGER)
		END)`, expr)
	}
	return fmt.Sprintf("WEEK(%s, 1)", expr)
}

// YearWeek renders the YYYYWW bucket of a timestamp expression as text.
func (d Dialect) YearWeek(expr string) string {
	if d.name == Postgres.name {
		return fmt.Sprintf("CONCAT(%s, LPAD(CAST(%s AS TEXT), 2, '0'))", d.Year(expr), d.Week(expr))
	}
	return fmt.Sprintf("CONCAT(YEAR(%[1]s), LPAD(WEEK(%[1]s, 1), 2, '0'))", expr)
}

func (d Dialect) FloatType() string {
	if d.name == Postgres.name {
		return "DOUBLE PRECISION"
	}
	return "DOUBLE"
}

func (d Dialect) TimestampType() string {
	if d.name == Postgres.name {
		return "TIMESTAMP"
	}
	return "DATETIME"
}
