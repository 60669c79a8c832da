package services

import (
	"math"

	"github.com/dinraj910/Health-Tracker-App/internal/models"
)

// EvaluableStatuses are the dose outcomes counted by every adherence figure.
// Pending doses are not yet decided and never enter the denominator.
var EvaluableStatuses = []string{
	models.DoseStatusTaken,
	models.DoseStatusMissed,
	models.DoseStatusSkipped,
}

type DoseCounts struct {
	Taken   int `json:"taken"`
	Missed  int `json:"missed"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

func (counts *DoseCounts) Add(status string) {
	switch status {
	case models.DoseStatusTaken:
		counts.Taken++
	case models.DoseStatusMissed:
		counts.Missed++
	case models.DoseStatusSkipped:
		counts.Skipped++
	default:
		return
	}
	counts.Total++
}

func (counts DoseCounts) Rate() int {
	return AdherencePercent(counts.Taken, counts.Total)
}

func CountDoses(logs []models.DoseLog) DoseCounts {
	counts := DoseCounts{}
	for _, entry := range logs {
		counts.Add(entry.Status)
	}
	return counts
}

// AdherencePercent is round(taken/total*100), and 100 when nothing was due.
func AdherencePercent(taken int, total int) int {
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(taken) * 100 / float64(total)))
}
