package repository

import (
	"fmt"
	"strings"
	"unicode"

	"network-dashboard/internal/aggregate"
	"network-dashboard/internal/db"
	"network-dashboard/internal/model"
)

// faultAliases are the result column names of the reported fault columns.
var faultAliases = map[model.FaultColumn]string{
	model.ClientFarEndFaults:  "client_far_end_faults",
	model.DecomissionedFaults: "decomissioned_faults",
	model.EnvironmentFaults:   "environment_faults",
	model.HardwareFaults:      "hardware_faults",
	model.ISPFaults:           "isp_faults",
	model.LinkFaults:          "link_faults",
	model.MgmtLossFaults:      "mgmt_loss_faults",
	model.MDTViolationFaults:  "mdt_violation_faults",
	model.OSPFaults:           "osp_faults",
	model.PerformanceFaults:   "performance_faults",
	model.PowerFaults:         "power_faults",
	model.SoftwareFaults:      "software_faults",
}

// aggregatedQuery renders the single aggregation statement together with its
// named arguments. Category lists come from the aggregate package so the SQL
// and in-memory paths share one definition.
func aggregatedQuery(d db.Dialect, variant model.QueryVariant) (string, map[string]interface{}) {
	args := map[string]interface{}{
		"cities":            cityNames(model.Cities),
		"technologies":      techNames(model.Technologies),
		"min_year_week":     model.MinYearWeek,
		"optimization":      aggregate.OptimizationFeedback,
		"non_network":       aggregate.NonNetworkFeedback,
		"operation":         aggregate.OperationFeedback,
		"window_year":       2025,
		"window_prev_year":  2024,
		"window_first_week": 7,
	}

	opened := d.Column("c", "OpenedDate")
	started := "o." + d.Quote("StartDate")

	var techCase strings.Builder
	techCase.WriteString("CASE")
	for i, m := range aggregate.ComplaintTechnologies {
		name := fmt.Sprintf("tech_%d", i)
		args[name] = m.Raw
		fmt.Fprintf(&techCase, "\n\t\t\t\t\tWHEN %s IN @%s THEN '%s'", d.Column("c", "Technology"), name, m.Technology)
	}
	techCase.WriteString("\n\t\t\t\t\tELSE 'Unknown'\n\t\t\t\tEND")

	var b strings.Builder
	fmt.Fprintf(&b, `WITH categorized AS (
			SELECT
				%[1]s AS opened_date,
				v.%[2]s AS city,
				CASE
					WHEN %[3]s IN @optimization THEN 'Optimization'
					WHEN %[3]s IN @non_network THEN 'Non Network'
					WHEN %[3]s = @operation THEN 'Operation'
					ELSE 'Unknown'
				END AS network_indicator,
				%[4]s AS complaint_tech
			FROM %[5]s c
			JOIN %[6]s v ON v.%[7]s = %[8]s
			WHERE (%[9]s = @window_year)
			OR (%[9]s = @window_prev_year AND %[10]s >= @window_first_week)
		),
		complaint_summary AS (
			SELECT
				%[11]s AS year_week,
				city,
				complaint_tech AS technology,
				COUNT(*) AS complaint_count
			FROM categorized
			WHERE network_indicator NOT IN ('Unknown', 'Non Network')
			AND complaint_tech <> 'Unknown'
			AND city IN @cities
			GROUP BY %[11]s, city, complaint_tech
		)`,
		opened,
		d.Quote("city"),
		d.Column("c", "OptimizationFeedback"),
		techCase.String(),
		d.Table(db.SchemaComplaints, db.TableComplaints),
		d.Table(db.SchemaComplaints, db.TableSites),
		d.Quote("internalname"),
		d.Column("c", "site"),
		d.Year(opened),
		d.Week(opened),
		d.YearWeek("opened_date"),
	)

	if variant.IncludesFaults() {
		var pivot strings.Builder
		for i, p := range model.FaultPivot {
			name := fmt.Sprintf("fault_%d", i)
			args[name] = string(p.Type)
			if i > 0 {
				pivot.WriteString(",\n")
			}
			fmt.Fprintf(&pivot, "\t\t\t\tSUM(CASE WHEN fault_type = @%s THEN outage_count ELSE 0 END) AS %s", name, pivotAlias(p.Type))
		}

		fmt.Fprintf(&b, `,
		outage_summary AS (
			SELECT
				%[1]s AS year_week,
				o.%[2]s AS city,
				o.%[3]s AS technology,
				o.%[4]s AS fault_type,
				COUNT(*) AS outage_count
			FROM %[5]s o
			WHERE o.%[2]s IN @cities
			AND o.%[3]s IN @technologies
			GROUP BY %[1]s, o.%[2]s, o.%[3]s, o.%[4]s
		),
		outage_pivot AS (
			SELECT
				year_week,
				city,
				technology,
%[6]s
			FROM outage_summary
			GROUP BY year_week, city, technology
		)`,
			d.YearWeek(started),
			d.Quote("City"),
			d.Quote("Technology"),
			d.Quote("FaultType"),
			d.Table(db.SchemaNetwork, db.TableOutages),
			pivot.String(),
		)
	}

	fmt.Fprintf(&b, `
		SELECT
			%[1]s AS year_week,
			%[2]s AS technology,
			%[3]s AS city,
			%[4]s AS cell_availability_rate_pct,
			%[5]s AS site_unavail_total_hours,
			%[6]s AS cell_unavail_total_hours,
			COALESCE(%[7]s, 0) AS site_count,
			COALESCE(cs.complaint_count, 0) AS complaint_count`,
		d.Column("ca", db.ColYearWeek),
		d.Column("ca", db.ColTechnology),
		d.Column("ca", db.ColCity),
		d.Column("ca", db.ColCellAvailability),
		d.Column("ca", db.ColSiteUnavailHours),
		d.Column("ca", db.ColCellUnavailHours),
		d.Column("ca", db.ColSiteCountDowntime),
	)

	if variant.IncludesFaults() {
		for _, col := range model.FaultColumns {
			terms := make([]string, 0, 2)
			for _, p := range model.FaultPivot {
				if p.Column == col {
					terms = append(terms, fmt.Sprintf("COALESCE(op.%s, 0)", pivotAlias(p.Type)))
				}
			}
			fmt.Fprintf(&b, ",\n\t\t\t(%s) AS %s", strings.Join(terms, " + "), faultAliases[col])
		}
	}

	fmt.Fprintf(&b, `
		FROM %[1]s ca
		LEFT JOIN complaint_summary cs
			ON %[2]s = cs.year_week
			AND %[3]s = cs.city
			AND %[4]s = cs.technology`,
		d.Table(db.SchemaNetwork, db.TableAvailability),
		d.Column("ca", db.ColYearWeek),
		d.Column("ca", db.ColCity),
		d.Column("ca", db.ColTechnology),
	)
	if variant.IncludesFaults() {
		fmt.Fprintf(&b, `
		LEFT JOIN outage_pivot op
			ON %[1]s = op.year_week
			AND %[2]s = op.city
			AND %[3]s = op.technology`,
			d.Column("ca", db.ColYearWeek),
			d.Column("ca", db.ColCity),
			d.Column("ca", db.ColTechnology),
		)
	}
	fmt.Fprintf(&b, `
		WHERE %[1]s IN @technologies
		AND %[2]s IN @cities
		AND %[3]s >= @min_year_week
		ORDER BY %[3]s, %[2]s, %[1]s`,
		d.Column("ca", db.ColTechnology),
		d.Column("ca", db.ColCity),
		d.Column("ca", db.ColYearWeek),
	)

	return b.String(), args
}

// pivotAlias turns a raw fault type into a column alias, e.g.
// "Client/Far End" becomes "client_far_end".
func pivotAlias(t model.FaultType) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(string(t)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			underscore = false
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

func cityNames(cities []model.City) []string {
	out := make([]string, len(cities))
	for i, c := range cities {
		out[i] = string(c)
	}
	return out
}

func techNames(techs []model.Technology) []string {
	out := make([]string, len(techs))
	for i, t := range techs {
		out[i] = string(t)
	}
	return out
}
