package db

import "gorm.io/gorm"

type Repositories struct {
	Users      *UserRepository
	Medicines  *MedicineRepository
	DoseLogs   *DoseLogRepository
	HealthLogs *HealthLogRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(database),
		Medicines:  NewMedicineRepository(database),
		DoseLogs:   NewDoseLogRepository(database),
		HealthLogs: NewHealthLogRepository(database),
	}
}
