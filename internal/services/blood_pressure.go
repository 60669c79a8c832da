package services

import "encoding/json"

type BPStatus string

const (
	BPStatusNone       BPStatus = ""
	BPStatusLow        BPStatus = "low"
	BPStatusNormal     BPStatus = "normal"
	BPStatusElevated   BPStatus = "elevated"
	BPStatusHighStage1 BPStatus = "high-stage1"
	BPStatusHighStage2 BPStatus = "high-stage2"
)

// MarshalJSON renders BPStatusNone as null.
func (status BPStatus) MarshalJSON() ([]byte, error) {
	if status == BPStatusNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(status))
}

// ClassifyBloodPressure applies the rules top to bottom and returns the first
// match. A missing or zero reading yields BPStatusNone.
func ClassifyBloodPressure(systolic *int, diastolic *int) BPStatus {
	if systolic == nil || diastolic == nil || *systolic == 0 || *diastolic == 0 {
		return BPStatusNone
	}

	sys, dia := *systolic, *diastolic
	switch {
	case sys < 90 || dia < 60:
		return BPStatusLow
	case sys < 120 && dia < 80:
		return BPStatusNormal
	case sys < 130 && dia < 80:
		return BPStatusElevated
	case sys < 140 || dia < 90:
		return BPStatusHighStage1
	default:
		return BPStatusHighStage2
	}
}
