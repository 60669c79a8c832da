package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

const WeekDays = 7

type DailyBucket struct {
	Date             string `json:"date"`
	Taken            int    `json:"taken"`
	Missed           int    `json:"missed"`
	Skipped          int    `json:"skipped"`
	Total            int    `json:"total"`
	AdherencePercent int    `json:"adherence"`
}

type WeeklyBreakdown struct {
	Days    []DailyBucket    `json:"weeklyData"`
	Summary AdherenceSummary `json:"summary"`
}

type WeeklyAggregator struct {
	doses DoseLogReader
	clock Clock
}

func NewWeeklyAggregator(doses DoseLogReader, clock Clock) *WeeklyAggregator {
	return &WeeklyAggregator{doses: doses, clock: clock}
}

// Build returns seven daily buckets ending on anchor's calendar day, oldest
// first. A zero anchor means today.
func (aggregator *WeeklyAggregator) Build(ctx context.Context, userID uint, anchor time.Time) (WeeklyBreakdown, error) {
	location := aggregator.clock.Location()
	if anchor.IsZero() {
		anchor = aggregator.clock.Now()
	}
	lastDay := DateAtLocation(anchor, location)
	firstDay := lastDay.AddDate(0, 0, -(WeekDays - 1))

	logs, err := aggregator.doses.ListDoseLogs(ctx, models.DoseLogQuery{
		UserID:   userID,
		From:     firstDay,
		To:       lastDay.AddDate(0, 0, 1),
		Statuses: EvaluableStatuses,
	})
	if err != nil {
		return WeeklyBreakdown{}, fmt.Errorf("load dose logs for weekly breakdown: %w", err)
	}

	return BuildWeeklyBreakdown(logs, firstDay), nil
}

// BuildWeeklyBreakdown buckets logs into the seven days starting at firstDay.
// Logs dated outside those days are ignored.
func BuildWeeklyBreakdown(logs []models.DoseLog, firstDay time.Time) WeeklyBreakdown {
	counts := make([]DoseCounts, WeekDays)
	dates := make([]string, WeekDays)
	index := make(map[string]int, WeekDays)
	for offset := 0; offset < WeekDays; offset++ {
		key := firstDay.AddDate(0, 0, offset).Format(DayLayout)
		dates[offset] = key
		index[key] = offset
	}

	week := DoseCounts{}
	for _, entry := range logs {
		position, ok := index[CalendarKey(entry.Date)]
		if !ok {
			continue
		}
		counts[position].Add(entry.Status)
		week.Add(entry.Status)
	}

	days := make([]DailyBucket, WeekDays)
	for offset := range days {
		days[offset] = DailyBucket{
			Date:             dates[offset],
			Taken:            counts[offset].Taken,
			Missed:           counts[offset].Missed,
			Skipped:          counts[offset].Skipped,
			Total:            counts[offset].Total,
			AdherencePercent: counts[offset].Rate(),
		}
	}

	return WeeklyBreakdown{
		Days:    days,
		Summary: summarize(WeekDays, week),
	}
}
