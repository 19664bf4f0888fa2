// pkg/constants/constants.go
package constants

//============== СТАТУСЫ ОБОРУДОВАНИЯ ==============

// EquipmentStatus - закрытый набор статусов оборудования (совпадает со значениями в БД).
type EquipmentStatus string

const (
	EquipmentOperational EquipmentStatus = "operational"
	EquipmentMaintenance EquipmentStatus = "maintenance"
	EquipmentBroken      EquipmentStatus = "broken"
	EquipmentRetired     EquipmentStatus = "retired"
)

// EquipmentStatuses в порядке отображения на дашборде.
var EquipmentStatuses = []EquipmentStatus{
	EquipmentOperational,
	EquipmentMaintenance,
	EquipmentBroken,
	EquipmentRetired,
}

func (s EquipmentStatus) String() string {
	return string(s)
}

func (s EquipmentStatus) IsValid() bool {
	for _, known := range EquipmentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParseEquipmentStatus принимает значение ровно в том виде, в каком оно хранится.
func ParseEquipmentStatus(raw string) (EquipmentStatus, bool) {
	s := EquipmentStatus(raw)
	return s, s.IsValid()
}

//============== ОБСЛУЖИВАНИЕ ==============

const (
	MaintenanceStatusScheduled  = "scheduled"
	MaintenanceStatusInProgress = "in_progress"
	MaintenanceStatusCompleted  = "completed"
)

// Значения по умолчанию для заявок на обслуживание.
const (
	RequestStatusPending  = "pending"
	RequestPriorityMedium = "medium"
)

// UnassignedDepartment - подпись для оборудования без отдела в агрегатах.
const UnassignedDepartment = "Unassigned"

//============== ГАРАНТИЯ ==============

const (
	WarrantyActive       = "active"
	WarrantyExpiring     = "expiring"
	WarrantyExpiringSoon = "expiring-soon"
	WarrantyExpired      = "expired"
	WarrantyUnknown      = "unknown"
)

//============== ВОЗРАСТ ОБОРУДОВАНИЯ ==============

const (
	AgeUpToOneYear = "0-1 years"
	AgeOneToThree  = "1-3 years"
	AgeThreeToFive = "3-5 years"
	AgeFiveToTen   = "5-10 years"
	AgeOverTen     = "10+ years"
	AgeUnknown     = "unknown"
)
