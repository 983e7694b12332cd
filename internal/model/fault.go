package model

type FaultColumn string

const (
	ClientFarEndFaults  FaultColumn = "ClientFarEndFaults"
	DecomissionedFaults FaultColumn = "DecomissionedFaults"
	EnvironmentFaults   FaultColumn = "EnvironmentFaults"
	HardwareFaults      FaultColumn = "HardwareFaults"
	ISPFaults           FaultColumn = "ISPFaults"
	LinkFaults          FaultColumn = "LinkFaults"
	MgmtLossFaults      FaultColumn = "MgmtLossFaults"
	MDTViolationFaults  FaultColumn = "MDTViolationFaults"
	OSPFaults           FaultColumn = "OSPFaults"
	PerformanceFaults   FaultColumn = "PerformanceFaults"
	PowerFaults         FaultColumn = "PowerFaults"
	SoftwareFaults      FaultColumn = "SoftwareFaults"
)

// FaultColumns are the reported fault columns in display order.
var FaultColumns = []FaultColumn{
	ClientFarEndFaults, DecomissionedFaults, EnvironmentFaults, HardwareFaults,
	ISPFaults, LinkFaults, MgmtLossFaults, MDTViolationFaults,
	OSPFaults, PerformanceFaults, PowerFaults, SoftwareFaults,
}

// FaultType is the raw fault classification of an outage incident.
type FaultType string

const (
	FaultClientFarEnd   FaultType = "Client/Far End"
	FaultDecomissioned  FaultType = "Decomissioned"
	FaultEnvironment    FaultType = "Environment"
	FaultHardware       FaultType = "Hardware"
	FaultISP            FaultType = "ISP"
	FaultLink           FaultType = "Link"
	FaultManagementLoss FaultType = "Management Loss"
	FaultMDTViolation   FaultType = "MDT Violation"
	FaultOSP            FaultType = "OSP"
	FaultPerformance    FaultType = "Performance"
	FaultPower          FaultType = "Power"
	FaultPowerFailure   FaultType = "Power Failure"
	FaultService        FaultType = "Service"
	FaultSoftware       FaultType = "Software"
)

// FaultPivot maps each raw fault type to the column it is counted in.
// Service outages are pivoted but have no reported column.
var FaultPivot = []struct {
	Type   FaultType
	Column FaultColumn
}{
	{FaultClientFarEnd, ClientFarEndFaults},
	{FaultDecomissioned, DecomissionedFaults},
	{FaultEnvironment, EnvironmentFaults},
	{FaultHardware, HardwareFaults},
	{FaultISP, ISPFaults},
	{FaultLink, LinkFaults},
	{FaultManagementLoss, MgmtLossFaults},
	{FaultMDTViolation, MDTViolationFaults},
	{FaultOSP, OSPFaults},
	{FaultPerformance, PerformanceFaults},
	{FaultPower, PowerFaults},
	{FaultPowerFailure, PowerFaults},
	{FaultService, ""},
	{FaultSoftware, SoftwareFaults},
}

// ColumnFor returns the reported column of a raw fault type.
func ColumnFor(t FaultType) (FaultColumn, bool) {
	for _, p := range FaultPivot {
		if p.Type == t {
			return p.Column, p.Column != ""
		}
	}
	return "", false
}

// FaultCounts holds per-column outage counts. The zero value is absent: the
// row came from a source without fault aggregation.
type FaultCounts struct {
	counts map[FaultColumn]int64
}

// NewFaultCounts returns present counts with every reported column at zero.
func NewFaultCounts() FaultCounts {
	counts := make(map[FaultColumn]int64, len(FaultColumns))
	for _, col := range FaultColumns {
		counts[col] = 0
	}
	return FaultCounts{counts: counts}
}

func (f FaultCounts) Present() bool {
	return f.counts != nil
}

func (f FaultCounts) Has(col FaultColumn) bool {
	_, ok := f.counts[col]
	return ok
}

func (f FaultCounts) Get(col FaultColumn) int64 {
	return f.counts[col]
}

func (f *FaultCounts) Set(col FaultColumn, value int64) {
	if f.counts == nil {
		f.counts = make(map[FaultColumn]int64, len(FaultColumns))
	}
	f.counts[col] = value
}

func (f *FaultCounts) Add(col FaultColumn, delta int64) {
	f.Set(col, f.Get(col)+delta)
}

func (f FaultCounts) Total() int64 {
	var total int64
	for _, v := range f.counts {
		total += v
	}
	return total
}

// Columns returns the present columns in display order.
func (f FaultCounts) Columns() []FaultColumn {
	cols := make([]FaultColumn, 0, len(f.counts))
	for _, col := range FaultColumns {
		if f.Has(col) {
			cols = append(cols, col)
		}
	}
	return cols
}
