package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectFor(t *testing.T) {
	d, err := DialectFor("MySQL")
	require.NoError(t, err)
	assert.Equal(t, MySQL, d)

	d, err = DialectFor("postgres")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	_, err = DialectFor("sqlite")
	require.Error(t, err)
}

func TestDialectQuoting(t *testing.T) {
	assert.Equal(t, "`Cell Availability Rate %`", MySQL.Quote(ColCellAvailability))
	assert.Equal(t, `"nas"."CellAvail_City"`, Postgres.Table(SchemaNetwork, TableAvailability))
	assert.Equal(t, `ca."YEARWEEK"`, Postgres.Column("ca", ColYearWeek))
	assert.Equal(t, "`a``b`", MySQL.Quote("a`b"))
}

func TestDialectYearWeek(t *testing.T) {
	assert.Equal(t, "CONCAT(YEAR(c.OpenedDate), LPAD(WEEK(c.OpenedDate, 1), 2, '0'))", MySQL.YearWeek("c.OpenedDate"))

	pg := Postgres.YearWeek("c.x")
	assert.True(t, strings.HasPrefix(pg, "CONCAT(CAST(EXTRACT(YEAR FROM c.x) AS INTEGER), LPAD(CAST("))
	assert.Contains(t, pg, "EXTRACT(ISOYEAR FROM c.x) > EXTRACT(YEAR FROM c.x) THEN 53")
}

func TestMigrationStatementsQuoteIdentifiers(t *testing.T) {
	for _, d := range []Dialect{MySQL, Postgres} {
		stmts := migrationStatements(d)
		require.Len(t, stmts, 6)
		assert.Contains(t, stmts[2], d.Quote(ColCellAvailability))
		assert.Contains(t, stmts[5], d.TimestampType())
	}
}
