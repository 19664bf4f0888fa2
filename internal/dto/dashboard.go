package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type DashboardStatsDTO struct {
	TotalEquipment        uint64                   `json:"totalEquipment"`
	Operational           uint64                   `json:"operational"`
	UnderMaintenance      uint64                   `json:"underMaintenance"`
	Broken                uint64                   `json:"broken"`
	WarrantyExpiring      uint64                   `json:"warrantyExpiring"`
	ServiceDue            uint64                   `json:"serviceDue"`
	TotalDepartments      uint64                   `json:"totalDepartments"`
	MaintenanceRecords    uint64                   `json:"maintenanceRecords"`
	EquipmentValue        float64                  `json:"equipmentValue"`
	AverageEquipmentAge   null.Float64             `json:"averageEquipmentAge"`
	StatusBreakdown       StatusBreakdownDTO       `json:"statusBreakdown"`
	EquipmentByDepartment []DepartmentCountDTO     `json:"equipmentByDepartment"`
	UpcomingMaintenance   []UpcomingMaintenanceDTO `json:"upcomingMaintenance"`
	RecentActivities      []ActivityItemDTO        `json:"recentActivities"`
}

// StatusBreakdownDTO всегда содержит все четыре статуса, даже нулевые.
type StatusBreakdownDTO struct {
	Operational uint64 `json:"operational"`
	Maintenance uint64 `json:"maintenance"`
	Broken      uint64 `json:"broken"`
	Retired     uint64 `json:"retired"`
}

type DepartmentCountDTO struct {
	Department string `json:"department" db:"department"`
	Count      uint64 `json:"count" db:"count"`
}

// UpcomingMaintenanceDTO сохраняет snake_case ключи, на которые завязан фронтенд.
type UpcomingMaintenanceDTO struct {
	ID              uint64      `json:"id" db:"id"`
	EquipmentID     uint64      `json:"equipment_id" db:"equipment_id"`
	EquipmentName   string      `json:"equipment_name" db:"equipment_name"`
	MaintenanceType string      `json:"maintenance_type" db:"maintenance_type"`
	DueDate         time.Time   `json:"due_date" db:"due_date"`
	Status          null.String `json:"status" db:"status"`
}

type ActivityItemDTO struct {
	ID          uint64      `json:"id" db:"id"`
	Type        string      `json:"type" db:"type"`
	Description null.String `json:"description" db:"description"`
	Date        time.Time   `json:"date" db:"date"`
}
