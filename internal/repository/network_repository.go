package repository

import (
	"context"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"network-dashboard/internal/aggregate"
	"network-dashboard/internal/db"
	"network-dashboard/internal/model"
)

type NetworkRepository struct {
	db      *gorm.DB
	dialect db.Dialect
}

func NewNetworkRepository(database *gorm.DB, dialect db.Dialect) *NetworkRepository {
	return &NetworkRepository{db: database, dialect: dialect}
}

type aggregatedRow struct {
	YearWeek                string  `gorm:"column:year_week"`
	Technology              string  `gorm:"column:technology"`
	City                    string  `gorm:"column:city"`
	CellAvailabilityRatePct float64 `gorm:"column:cell_availability_rate_pct"`
	SiteUnavailTotalHours   float64 `gorm:"column:site_unavail_total_hours"`
	CellUnavailTotalHours   float64 `gorm:"column:cell_unavail_total_hours"`
	SiteCount               float64 `gorm:"column:site_count"`
	ComplaintCount          int64   `gorm:"column:complaint_count"`

	ClientFarEndFaults  int64 `gorm:"column:client_far_end_faults"`
	DecomissionedFaults int64 `gorm:"column:decomissioned_faults"`
	EnvironmentFaults   int64 `gorm:"column:environment_faults"`
	HardwareFaults      int64 `gorm:"column:hardware_faults"`
	ISPFaults           int64 `gorm:"column:isp_faults"`
	LinkFaults          int64 `gorm:"column:link_faults"`
	MgmtLossFaults      int64 `gorm:"column:mgmt_loss_faults"`
	MDTViolationFaults  int64 `gorm:"column:mdt_violation_faults"`
	OSPFaults           int64 `gorm:"column:osp_faults"`
	PerformanceFaults   int64 `gorm:"column:performance_faults"`
	PowerFaults         int64 `gorm:"column:power_faults"`
	SoftwareFaults      int64 `gorm:"column:software_faults"`
}

func (r aggregatedRow) faults() map[model.FaultColumn]int64 {
	return map[model.FaultColumn]int64{
		model.ClientFarEndFaults:  r.ClientFarEndFaults,
		model.DecomissionedFaults: r.DecomissionedFaults,
		model.EnvironmentFaults:   r.EnvironmentFaults,
		model.HardwareFaults:      r.HardwareFaults,
		model.ISPFaults:           r.ISPFaults,
		model.LinkFaults:          r.LinkFaults,
		model.MgmtLossFaults:      r.MgmtLossFaults,
		model.MDTViolationFaults:  r.MDTViolationFaults,
		model.OSPFaults:           r.OSPFaults,
		model.PerformanceFaults:   r.PerformanceFaults,
		model.PowerFaults:         r.PowerFaults,
		model.SoftwareFaults:      r.SoftwareFaults,
	}
}

// Aggregated runs the aggregation statement for the given contract variant.
// An empty result is returned as an empty, non-nil slice.
func (r *NetworkRepository) Aggregated(ctx context.Context, variant model.QueryVariant) ([]model.AggregatedRow, error) {
	query, args := aggregatedQuery(r.dialect, variant)

	var rows []aggregatedRow
	if err := r.db.WithContext(ctx).Raw(query, args).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("aggregate network table: %w", err)
	}

	result := make([]model.AggregatedRow, 0, len(rows))
	for _, row := range rows {
		out := model.AggregatedRow{
			YearWeek:                row.YearWeek,
			City:                    model.City(row.City),
			Technology:              model.Technology(row.Technology),
			CellAvailabilityRatePct: row.CellAvailabilityRatePct,
			SiteUnavailTotalHours:   row.SiteUnavailTotalHours,
			CellUnavailTotalHours:   row.CellUnavailTotalHours,
			SiteCount:               siteCount(&row.SiteCount),
			ComplaintCount:          row.ComplaintCount,
		}
		if variant.IncludesFaults() {
			out.Faults = model.NewFaultCounts()
			for col, value := range row.faults() {
				out.Faults.Set(col, value)
			}
		}
		result = append(result, out)
	}
	return result, nil
}

type availabilityRow struct {
	YearWeek                string   `gorm:"column:year_week"`
	City                    string   `gorm:"column:city"`
	Technology              string   `gorm:"column:technology"`
	CellAvailabilityRatePct float64  `gorm:"column:cell_availability_rate_pct"`
	SiteUnavailTotalHours   float64  `gorm:"column:site_unavail_total_hours"`
	CellUnavailTotalHours   float64  `gorm:"column:cell_unavail_total_hours"`
	SiteCount               *float64 `gorm:"column:site_count"`
}

type complaintRow struct {
	ID                   string    `gorm:"column:id"`
	OpenedDate           time.Time `gorm:"column:opened_date"`
	City                 *string   `gorm:"column:city"`
	Technology           *string   `gorm:"column:technology"`
	OptimizationFeedback *string   `gorm:"column:optimization_feedback"`
}

type outageRow struct {
	StartDate  time.Time `gorm:"column:start_date"`
	City       string    `gorm:"column:city"`
	Technology string    `gorm:"column:technology"`
	FaultType  *string   `gorm:"column:fault_type"`
}

// complaintWindow bounds the tickets fetched for in-memory categorization;
// aggregate.InComplaintWindow applies the exact week rule.
var complaintWindow = struct{ From, To time.Time }{
	From: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	To:   time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
}

// RawFacts loads the three source relations unaggregated. The statements are
// plain selects so they run on any dialect without week functions.
func (r *NetworkRepository) RawFacts(ctx context.Context) (aggregate.Facts, error) {
	d := r.dialect
	cities := cityNames(model.Cities)
	techs := techNames(model.Technologies)

	var anchors []availabilityRow
	anchorQuery := fmt.Sprintf(`SELECT
			ca.%s AS year_week,
			ca.%s AS city,
			ca.%s AS technology,
			ca.%s AS cell_availability_rate_pct,
			ca.%s AS site_unavail_total_hours,
			ca.%s AS cell_unavail_total_hours,
			ca.%s AS site_count
		FROM %s ca
		WHERE ca.%s IN @technologies AND ca.%s IN @cities AND ca.%s >= @min_year_week`,
		d.Quote(db.ColYearWeek), d.Quote(db.ColCity), d.Quote(db.ColTechnology),
		d.Quote(db.ColCellAvailability), d.Quote(db.ColSiteUnavailHours), d.Quote(db.ColCellUnavailHours),
		d.Quote(db.ColSiteCountDowntime),
		d.Table(db.SchemaNetwork, db.TableAvailability),
		d.Quote(db.ColTechnology), d.Quote(db.ColCity), d.Quote(db.ColYearWeek))
	err := r.db.WithContext(ctx).
		Raw(anchorQuery, map[string]interface{}{"technologies": techs, "cities": cities, "min_year_week": model.MinYearWeek}).
		Scan(&anchors).Error
	if err != nil {
		return aggregate.Facts{}, fmt.Errorf("load availability: %w", err)
	}

	var complaints []complaintRow
	complaintQuery := fmt.Sprintf(`SELECT
			c.%s AS id,
			c.%s AS opened_date,
			v.%s AS city,
			c.%s AS technology,
			c.%s AS optimization_feedback
		FROM %s c
		JOIN %s v ON v.%s = c.%s
		WHERE c.%s >= @from AND c.%s < @to`,
		d.Quote("ID"), d.Quote("OpenedDate"), d.Quote("city"), d.Quote("Technology"), d.Quote("OptimizationFeedback"),
		d.Table(db.SchemaComplaints, db.TableComplaints),
		d.Table(db.SchemaComplaints, db.TableSites), d.Quote("internalname"), d.Quote("site"),
		d.Quote("OpenedDate"), d.Quote("OpenedDate"))
	err = r.db.WithContext(ctx).
		Raw(complaintQuery, map[string]interface{}{"from": complaintWindow.From, "to": complaintWindow.To}).
		Scan(&complaints).Error
	if err != nil {
		return aggregate.Facts{}, fmt.Errorf("load complaints: %w", err)
	}

	var outages []outageRow
	outageQuery := fmt.Sprintf(`SELECT
			o.%s AS start_date,
			o.%s AS city,
			o.%s AS technology,
			o.%s AS fault_type
		FROM %s o
		WHERE o.%s IN @cities AND o.%s IN @technologies`,
		d.Quote("StartDate"), d.Quote("City"), d.Quote("Technology"), d.Quote("FaultType"),
		d.Table(db.SchemaNetwork, db.TableOutages),
		d.Quote("City"), d.Quote("Technology"))
	err = r.db.WithContext(ctx).
		Raw(outageQuery, map[string]interface{}{"cities": cities, "technologies": techs}).
		Scan(&outages).Error
	if err != nil {
		return aggregate.Facts{}, fmt.Errorf("load outages: %w", err)
	}

	facts := aggregate.Facts{
		Availability: make([]aggregate.AvailabilityRecord, 0, len(anchors)),
		Complaints:   make([]aggregate.ComplaintTicket, 0, len(complaints)),
		Outages:      make([]aggregate.OutageIncident, 0, len(outages)),
	}
	for _, a := range anchors {
		facts.Availability = append(facts.Availability, aggregate.AvailabilityRecord{
			YearWeek:                a.YearWeek,
			City:                    model.City(a.City),
			Technology:              model.Technology(a.Technology),
			CellAvailabilityRatePct: a.CellAvailabilityRatePct,
			SiteUnavailTotalHours:   a.SiteUnavailTotalHours,
			CellUnavailTotalHours:   a.CellUnavailTotalHours,
			SiteCount:               siteCount(a.SiteCount),
		})
	}
	for _, c := range complaints {
		facts.Complaints = append(facts.Complaints, aggregate.ComplaintTicket{
			ID:                   c.ID,
			OpenedDate:           c.OpenedDate,
			City:                 model.City(deref(c.City)),
			Technology:           deref(c.Technology),
			OptimizationFeedback: deref(c.OptimizationFeedback),
		})
	}
	for _, o := range outages {
		facts.Outages = append(facts.Outages, aggregate.OutageIncident{
			StartDate:  o.StartDate,
			City:       model.City(o.City),
			Technology: model.Technology(o.Technology),
			FaultType:  model.FaultType(deref(o.FaultType)),
		})
	}
	return facts, nil
}

// siteCount reads SiteCount_withDwnTime_98_3 as a whole number of sites,
// rounding fractional values and treating NULL as zero.
func siteCount(v *float64) int64 {
	if v == nil {
		return 0
	}
	return int64(math.Round(*v))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
