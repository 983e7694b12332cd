package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"network-dashboard/internal/db"
	"network-dashboard/internal/model"
)

func newNetworkRepoMock(t *testing.T) (*NetworkRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewNetworkRepository(gdb, db.MySQL), mock
}

var aggregatedColumns = []string{
	"year_week", "technology", "city", "cell_availability_rate_pct", "site_unavail_total_hours",
	"cell_unavail_total_hours", "site_count", "complaint_count",
	"client_far_end_faults", "decomissioned_faults", "environment_faults", "hardware_faults",
	"isp_faults", "link_faults", "mgmt_loss_faults", "mdt_violation_faults",
	"osp_faults", "performance_faults", "power_faults", "software_faults",
}

func TestAggregatedQueryShape(t *testing.T) {
	query, args := aggregatedQuery(db.MySQL, model.QueryV2)
	require.Contains(t, query, "FROM `sm3`.`vcustomercomplaint` c")
	require.Contains(t, query, "CONCAT(YEAR(opened_date), LPAD(WEEK(opened_date, 1), 2, '0')) AS year_week")
	require.Contains(t, query, "LEFT JOIN outage_pivot op")
	require.Contains(t, query, "(COALESCE(op.power, 0) + COALESCE(op.power_failure, 0)) AS power_faults")
	require.Contains(t, query, "COALESCE(ca.`SiteCount_withDwnTime_98_3`, 0) AS site_count")
	require.Contains(t, query, "ORDER BY ca.`YEARWEEK`, ca.`City`, ca.`Technology`")
	require.NotContains(t, query, "op.service")
	require.Equal(t, []string{"LTE TDD", "LTE FDD"}, args["tech_0"])
	require.Equal(t, model.MinYearWeek, args["min_year_week"])

	legacy, _ := aggregatedQuery(db.MySQL, model.QueryV1)
	require.NotContains(t, legacy, "outage_pivot")
	require.NotContains(t, legacy, "power_faults")

	pg, _ := aggregatedQuery(db.Postgres, model.QueryV2)
	require.Contains(t, pg, `FROM "nas"."CellAvail_City" ca`)
	require.Contains(t, pg, `ca."Cell Availability Rate %" AS cell_availability_rate_pct`)
}

func TestPivotAlias(t *testing.T) {
	require.Equal(t, "client_far_end", pivotAlias(model.FaultClientFarEnd))
	require.Equal(t, "power_failure", pivotAlias(model.FaultPowerFailure))
	require.Equal(t, "mdt_violation", pivotAlias(model.FaultMDTViolation))
	require.Equal(t, "isp", pivotAlias(model.FaultISP))
}

func TestNetworkRepositoryAggregated(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)

	rows := sqlmock.NewRows(aggregatedColumns).
		AddRow("202453", "4G", "Riyadh", 99.1, 12.5, 30.0, 100, 0, 0, 0, 0, 1, 0, 2, 0, 0, 0, 0, 3, 0).
		AddRow("202501", "4G", "Riyadh", 98.7, 20.0, 41.0, 98, 5, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0)
	mock.ExpectQuery("WITH categorized AS").WillReturnRows(rows)

	result, err := repo.Aggregated(context.Background(), model.QueryV2)
	require.NoError(t, err)
	require.Len(t, result, 2)
	require.Equal(t, "202453", result[0].YearWeek)
	require.Equal(t, model.CityRiyadh, result[0].City)
	require.Equal(t, model.Tech4G, result[0].Technology)
	require.Equal(t, int64(100), result[0].SiteCount)
	require.Equal(t, int64(3), result[0].Faults.Get(model.PowerFaults))
	require.Equal(t, int64(6), result[0].Faults.Total())
	require.Equal(t, int64(5), result[1].ComplaintCount)
	require.True(t, result[1].Faults.Has(model.SoftwareFaults))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNetworkRepositoryAggregatedLegacyVariant(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)

	rows := sqlmock.NewRows(aggregatedColumns[:8]).
		AddRow("202502", "3G", "Jeddah", 97.0, 1.0, 2.0, 40, 2)
	mock.ExpectQuery("WITH categorized AS").WillReturnRows(rows)

	result, err := repo.Aggregated(context.Background(), model.QueryV1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.False(t, result[0].Faults.Present())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNetworkRepositoryAggregatedEmpty(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)
	mock.ExpectQuery("WITH categorized AS").WillReturnRows(sqlmock.NewRows(aggregatedColumns))

	result, err := repo.Aggregated(context.Background(), model.QueryV2)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Empty(t, result)
}

func TestNetworkRepositoryAggregatedError(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)
	boom := errors.New("connection refused")
	mock.ExpectQuery("WITH categorized AS").WillReturnError(boom)

	result, err := repo.Aggregated(context.Background(), model.QueryV2)
	require.ErrorIs(t, err, boom)
	require.Nil(t, result)
}

func TestNetworkRepositoryRawFacts(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)
	opened := time.Date(2025, time.January, 7, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM `nas`.`CellAvail_City` ca").
		WillReturnRows(sqlmock.NewRows([]string{"year_week", "city", "technology", "cell_availability_rate_pct", "site_unavail_total_hours", "cell_unavail_total_hours", "site_count"}).
			AddRow("202502", "Riyadh", "4G", 99.0, 1.5, 2.5, nil))
	mock.ExpectQuery("FROM `sm3`.`vcustomercomplaint` c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "opened_date", "city", "technology", "optimization_feedback"}).
			AddRow("T-1", opened, "Riyadh", "LTE FDD", "Congested").
			AddRow("T-2", opened, "Riyadh", nil, nil))
	mock.ExpectQuery("FROM `nas`.`OutageIncident` o").
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "city", "technology", "fault_type"}).
			AddRow(opened, "Riyadh", "4G", "Power Failure"))

	facts, err := repo.RawFacts(context.Background())
	require.NoError(t, err)
	require.Len(t, facts.Availability, 1)
	require.Equal(t, int64(0), facts.Availability[0].SiteCount)
	require.Len(t, facts.Complaints, 2)
	require.Equal(t, "LTE FDD", facts.Complaints[0].Technology)
	require.Equal(t, "", facts.Complaints[1].OptimizationFeedback)
	require.Len(t, facts.Outages, 1)
	require.Equal(t, model.FaultPowerFailure, facts.Outages[0].FaultType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNetworkRepositoryRawFactsStopsOnError(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)
	mock.ExpectQuery("FROM `nas`.`CellAvail_City` ca").WillReturnError(errors.New("timeout"))

	_, err := repo.RawFacts(context.Background())
	require.ErrorContains(t, err, "load availability")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNetworkRepositoryRoundsFractionalSiteCount(t *testing.T) {
	repo, mock := newNetworkRepoMock(t)
	mock.ExpectQuery("WITH categorized AS").
		WillReturnRows(sqlmock.NewRows(aggregatedColumns[:8]).
			AddRow("202502", "4G", "Riyadh", 97.0, 1.0, 2.0, 97.6, 0))

	result, err := repo.Aggregated(context.Background(), model.QueryV1)
	require.NoError(t, err)
	require.Len(t, result, 1)
	require.Equal(t, int64(98), result[0].SiteCount)

	mock.ExpectQuery("FROM `nas`.`CellAvail_City` ca").
		WillReturnRows(sqlmock.NewRows([]string{"year_week", "city", "technology", "cell_availability_rate_pct", "site_unavail_total_hours", "cell_unavail_total_hours", "site_count"}).
			AddRow("202502", "Riyadh", "4G", 97.0, 1.0, 2.0, 97.6))
	mock.ExpectQuery("FROM `sm3`.`vcustomercomplaint` c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "opened_date", "city", "technology", "optimization_feedback"}))
	mock.ExpectQuery("FROM `nas`.`OutageIncident` o").
		WillReturnRows(sqlmock.NewRows([]string{"start_date", "city", "technology", "fault_type"}))

	facts, err := repo.RawFacts(context.Background())
	require.NoError(t, err)
	require.Len(t, facts.Availability, 1)
	require.Equal(t, result[0].SiteCount, facts.Availability[0].SiteCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSiteCount(t *testing.T) {
	half := 41.5
	whole := 40.0
	require.Equal(t, int64(0), siteCount(nil))
	require.Equal(t, int64(42), siteCount(&half))
	require.Equal(t, int64(40), siteCount(&whole))
}
