package db

import (
	"fmt"

	"gorm.io/gorm"
)

// Source relations read by the dashboard.
const (
	SchemaNetwork    = "nas"
	SchemaComplaints = "sm3"

	TableAvailability = "CellAvail_City"
	TableOutages      = "OutageIncident"
	TableComplaints   = "vcustomercomplaint"
	TableSites        = "vsite"
)

// Availability columns.
const (
	ColYearWeek          = "YEARWEEK"
	ColCity              = "City"
	ColTechnology        = "Technology"
	ColCellAvailability  = "Cell Availability Rate %"
	ColSiteUnavailHours  = "Site_Unavail_TotalHours"
	ColCellUnavailHours  = "Cell_Unavail_TotalHours"
	ColSiteCountDowntime = "SiteCount_withDwnTime_98_3"
)

// migrationStatements creates the source relations when they are missing so
// a development database can be seeded. Production tables are owned upstream.
func migrationStatements(d Dialect) []string {
	q := d.Quote
	return []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, q(SchemaNetwork)),
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, q(SchemaComplaints)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s VARCHAR(6) NOT NULL,
			%s VARCHAR(32) NOT NULL,
			%s VARCHAR(8) NOT NULL,
			%s %s,
			%s %s,
			%s %s,
			%s INTEGER,
			PRIMARY KEY (%s, %s, %s)
		)`,
			d.Table(SchemaNetwork, TableAvailability),
			q(ColYearWeek), q(ColCity), q(ColTechnology),
			q(ColCellAvailability), d.FloatType(),
			q(ColSiteUnavailHours), d.FloatType(),
			q(ColCellUnavailHours), d.FloatType(),
			q(ColSiteCountDowntime),
			q(ColYearWeek), q(ColCity), q(ColTechnology)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s VARCHAR(64) NOT NULL,
			%s VARCHAR(32),
			PRIMARY KEY (%s)
		)`,
			d.Table(SchemaComplaints, TableSites),
			q("internalname"), q("city"), q("internalname")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s VARCHAR(64) NOT NULL,
			%s %s NOT NULL,
			%s VARCHAR(64),
			%s VARCHAR(32),
			%s VARCHAR(64),
			PRIMARY KEY (%s)
		)`,
			d.Table(SchemaComplaints, TableComplaints),
			q("ID"), q("OpenedDate"), d.TimestampType(), q("site"), q("Technology"), q("OptimizationFeedback"), q("ID")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			%s %s NOT NULL,
			%s VARCHAR(32),
			%s VARCHAR(8),
			%s VARCHAR(64)
		)`,
			d.Table(SchemaNetwork, TableOutages),
			q("StartDate"), d.TimestampType(), q("City"), q("Technology"), q("FaultType")),
	}
}

func runMigrations(db *gorm.DB, d Dialect) error {
	for i, stmt := range migrationStatements(d) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
