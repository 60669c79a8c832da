package services

import (
	"time"

	"go.uber.org/zap"
)

type AnalyticsDependencies struct {
	Doses      DoseLogReader
	HealthLogs HealthLogReader
	Medicines  ActiveMedicineReader
	Clock      Clock
	StreakCap  int
	Logger     *zap.Logger
	Observer   AnalyticsObserver
}

// AnalyticsService bundles the read-only calculators over one set of readers
// and one clock.
type AnalyticsService struct {
	Adherence     *AdherenceCalculator
	Streak        *StreakCalculator
	Weekly        *WeeklyAggregator
	MedicineStats *MedicineStatsCalculator
	Trends        *TrendService
	Dashboard     *DashboardComposer

	dependencies AnalyticsDependencies
}

func NewAnalyticsService(dependencies AnalyticsDependencies) *AnalyticsService {
	if dependencies.Clock == nil {
		dependencies.Clock = NewSystemClock(time.Local)
	}
	if dependencies.StreakCap <= 0 {
		dependencies.StreakCap = DefaultStreakCap
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Observer == nil {
		dependencies.Observer = noopObserver{}
	}

	clock := dependencies.Clock
	adherence := NewAdherenceCalculator(dependencies.Doses, clock)
	streak := NewStreakCalculator(dependencies.Doses, clock, dependencies.Observer)

	return &AnalyticsService{
		Adherence:     adherence,
		Streak:        streak,
		Weekly:        NewWeeklyAggregator(dependencies.Doses, clock),
		MedicineStats: NewMedicineStatsCalculator(dependencies.Medicines, adherence, clock),
		Trends:        NewTrendService(dependencies.HealthLogs, clock),
		Dashboard: NewDashboardComposer(
			dependencies.Medicines,
			dependencies.Doses,
			dependencies.HealthLogs,
			adherence,
			streak,
			clock,
			dependencies.StreakCap,
			dependencies.Logger.Named("dashboard"),
			dependencies.Observer,
		),
		dependencies: dependencies,
	}
}

// StreakCap is the configured upper bound for streak results.
func (service *AnalyticsService) StreakCap() int {
	return service.dependencies.StreakCap
}

// WithLocation returns a service whose calendar days follow location. A nil
// location or the current one returns service itself.
func (service *AnalyticsService) WithLocation(location *time.Location) *AnalyticsService {
	if location == nil || location == service.dependencies.Clock.Location() {
		return service
	}
	dependencies := service.dependencies
	dependencies.Clock = InLocation(dependencies.Clock, location)
	return NewAnalyticsService(dependencies)
}
