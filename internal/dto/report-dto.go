package dto

import (
	"time"

	"github.com/aarondl/null/v8"
)

type WarrantyReportFilter struct {
	DepartmentID   *uint64
	WarrantyStatus string
}

type WarrantyReportItemDTO struct {
	ID              uint64       `json:"id" db:"id"`
	Name            string       `json:"name" db:"name"`
	Manufacturer    null.String  `json:"manufacturer" db:"manufacturer"`
	Model           null.String  `json:"model" db:"model"`
	TagNumber       null.String  `json:"tagNumber" db:"tag_number"`
	SerialNumber    null.String  `json:"serialNumber" db:"serial_number"`
	Status          string       `json:"status" db:"status"`
	WarrantyExpiry  time.Time    `json:"warrantyExpiry" db:"warranty_expiry"`
	WarrantyInfo    null.String  `json:"warrantyInfo" db:"warranty_info"`
	PurchaseDate    null.Time    `json:"purchaseDate" db:"purchase_date"`
	PurchaseCost    null.Float64 `json:"purchaseCost" db:"purchase_cost"`
	DepartmentID    null.Int64   `json:"departmentId" db:"department_id"`
	DepartmentName  null.String  `json:"departmentName" db:"department_name"`
	SubUnit         null.String  `json:"subUnit" db:"sub_unit"`
	WarrantyStatus  string       `json:"warrantyStatus" db:"-"`
	DaysUntilExpiry int          `json:"daysUntilExpiry" db:"-"`
}

type WarrantySummaryDTO struct {
	Total        int            `json:"total"`
	Active       int            `json:"active"`
	ExpiringSoon int            `json:"expiringSoon"`
	Expiring     int            `json:"expiring"`
	Expired      int            `json:"expired"`
	ByDepartment map[string]int `json:"byDepartment"`
}

type WarrantyReportDTO struct {
	Success bool                    `json:"success"`
	Data    []WarrantyReportItemDTO `json:"data"`
	Summary WarrantySummaryDTO      `json:"summary"`
}

type DepartmentSummaryItemDTO struct {
	ID                    uint64       `json:"id" db:"id"`
	Name                  string       `json:"name" db:"name"`
	Manager               null.String  `json:"manager" db:"manager"`
	Email                 null.String  `json:"email" db:"email"`
	Phone                 null.String  `json:"phone" db:"phone"`
	Description           null.String  `json:"description" db:"description"`
	Budget                null.Float64 `json:"budget" db:"budget"`
	Employees             null.Int     `json:"employees" db:"employees"`
	EquipmentCount        uint64       `json:"equipmentCount" db:"equipment_count"`
	TotalValue            float64      `json:"totalValue" db:"total_value"`
	OperationalCount      uint64       `json:"operationalCount" db:"operational_count"`
	MaintenanceCount      uint64       `json:"maintenanceCount" db:"maintenance_count"`
	BrokenCount           uint64       `json:"brokenCount" db:"broken_count"`
	RetiredCount          uint64       `json:"retiredCount" db:"retired_count"`
	TotalMaintenanceCount uint64       `json:"totalMaintenanceCount" db:"total_maintenance_count"`
}

type DepartmentDistributionDTO struct {
	Name       string  `json:"name"`
	Value      uint64  `json:"value"`
	TotalValue float64 `json:"totalValue"`
}

type DepartmentSummaryDTO struct {
	TotalDepartments      int                         `json:"totalDepartments"`
	TotalEquipment        uint64                      `json:"totalEquipment"`
	TotalValue            float64                     `json:"totalValue"`
	TotalOperational      uint64                      `json:"totalOperational"`
	TotalUnderMaintenance uint64                      `json:"totalUnderMaintenance"`
	TotalBroken           uint64                      `json:"totalBroken"`
	Distribution          []DepartmentDistributionDTO `json:"distribution"`
}

type DepartmentReportDTO struct {
	Success bool                       `json:"success"`
	Data    []DepartmentSummaryItemDTO `json:"data"`
	Summary DepartmentSummaryDTO       `json:"summary"`
}

type InventoryReportFilter struct {
	DepartmentID *uint64
	Status       string
}

type InventoryItemDTO struct {
	ID                 uint64       `json:"id" db:"id"`
	Name               string       `json:"name" db:"name"`
	Manufacturer       null.String  `json:"manufacturer" db:"manufacturer"`
	Model              null.String  `json:"model" db:"model"`
	TagNumber          null.String  `json:"tagNumber" db:"tag_number"`
	SerialNumber       null.String  `json:"serialNumber" db:"serial_number"`
	Status             string       `json:"status" db:"status"`
	PurchaseCost       null.Float64 `json:"purchaseCost" db:"purchase_cost"`
	PurchaseDate       null.Time    `json:"purchaseDate" db:"purchase_date"`
	WarrantyExpiry     null.Time    `json:"warrantyExpiry" db:"warranty_expiry"`
	WarrantyInfo       null.String  `json:"warrantyInfo" db:"warranty_info"`
	DepartmentID       null.Int64   `json:"departmentId" db:"department_id"`
	DepartmentName     null.String  `json:"departmentName" db:"department_name"`
	SubUnit            null.String  `json:"subUnit" db:"sub_unit"`
	DateOfInstallation null.Time    `json:"dateOfInstallation" db:"date_of_installation"`
	Owner              null.String  `json:"owner" db:"owner"`
	MaintainedBy       null.String  `json:"maintainedBy" db:"maintained_by"`
}

type InventorySummaryDTO struct {
	TotalEquipment int            `json:"totalEquipment"`
	TotalValue     float64        `json:"totalValue"`
	ByStatus       map[string]int `json:"byStatus"`
	ByDepartment   map[string]int `json:"byDepartment"`
}

type InventoryReportDTO struct {
	Success bool                `json:"success"`
	Data    []InventoryItemDTO  `json:"data"`
	Summary InventorySummaryDTO `json:"summary"`
}

// StatusAnalysisItemDTO - единица оборудования с возрастом по дате покупки.
type StatusAnalysisItemDTO struct {
	ID             uint64      `json:"id" db:"id"`
	Name           string      `json:"name" db:"name"`
	Status         string      `json:"status" db:"status"`
	PurchaseDate   null.Time   `json:"purchaseDate" db:"purchase_date"`
	DepartmentName null.String `json:"departmentName" db:"department_name"`
	AgeInYears     float64     `json:"ageInYears" db:"-"`
	AgeCategory    string      `json:"ageCategory" db:"-"`
}

type StatusCountDTO struct {
	Status     string  `json:"status" db:"status"`
	Count      uint64  `json:"count" db:"count"`
	TotalValue float64 `json:"totalValue" db:"total_value"`
}

type StatusDepartmentCountDTO struct {
	Department string `json:"department" db:"department"`
	Status     string `json:"status" db:"status"`
	Count      uint64 `json:"count" db:"count"`
}

type MaintenanceByStatusDTO struct {
	Status           string  `json:"status" db:"status"`
	MaintenanceCount uint64  `json:"maintenanceCount" db:"maintenance_count"`
	AvgCost          float64 `json:"avgCost" db:"avg_cost"`
}

// StatusAnalysisData - сырые выборки для отчета по статусам, до расчета возраста.
type StatusAnalysisData struct {
	Items               []StatusAnalysisItemDTO
	StatusDistribution  []StatusCountDTO
	StatusByDepartment  []StatusDepartmentCountDTO
	MaintenanceByStatus []MaintenanceByStatusDTO
}

type StatusAnalysisSummaryDTO struct {
	TotalEquipment      uint64                     `json:"totalEquipment"`
	StatusDistribution  []StatusCountDTO           `json:"statusDistribution"`
	AgeDistribution     map[string]int             `json:"ageDistribution"`
	StatusByDepartment  []StatusDepartmentCountDTO `json:"statusByDepartment"`
	MaintenanceByStatus []MaintenanceByStatusDTO   `json:"maintenanceByStatus"`
}

type StatusAnalysisReportDTO struct {
	Success bool                     `json:"success"`
	Data    []StatusAnalysisItemDTO  `json:"data"`
	Summary StatusAnalysisSummaryDTO `json:"summary"`
}

type MaintenanceHistoryFilter struct {
	DepartmentID *uint64
	Type         string
	StartDate    *time.Time
	EndDate      *time.Time
}

type MaintenanceHistoryItemDTO struct {
	ID             uint64       `json:"id" db:"id"`
	Type           string       `json:"type" db:"type"`
	Status         null.String  `json:"status" db:"status"`
	Priority       null.String  `json:"priority" db:"priority"`
	Date           time.Time    `json:"date" db:"date"`
	ScheduledDate  null.Time    `json:"scheduledDate" db:"scheduled_date"`
	CompletedDate  null.Time    `json:"completedDate" db:"completed_date"`
	Technician     null.String  `json:"technician" db:"technician"`
	Cost           null.Float64 `json:"cost" db:"cost"`
	Description    null.String  `json:"description" db:"description"`
	Notes          null.String  `json:"notes" db:"notes"`
	EquipmentID    null.Int64   `json:"equipmentId" db:"equipment_id"`
	EquipmentName  null.String  `json:"equipmentName" db:"equipment_name"`
	EquipmentTag   null.String  `json:"equipmentTag" db:"equipment_tag"`
	DepartmentID   null.Int64   `json:"departmentId" db:"department_id"`
	DepartmentName null.String  `json:"departmentName" db:"department_name"`
}

// MonthlyMaintenanceDTO - счетчики за месяц; прочие типы попадают только в total.
type MonthlyMaintenanceDTO struct {
	Preventive  int `json:"preventive"`
	Repair      int `json:"repair"`
	Calibration int `json:"calibration"`
	Inspection  int `json:"inspection"`
	Total       int `json:"total"`
}

type MaintenanceHistorySummaryDTO struct {
	TotalMaintenance int                              `json:"totalMaintenance"`
	TotalCost        float64                          `json:"totalCost"`
	ByType           map[string]int                   `json:"byType"`
	ByStatus         map[string]int                   `json:"byStatus"`
	MonthlyStats     map[string]MonthlyMaintenanceDTO `json:"monthlyStats"`
}

type MaintenanceHistoryReportDTO struct {
	Success bool                         `json:"success"`
	Data    []MaintenanceHistoryItemDTO  `json:"data"`
	Summary MaintenanceHistorySummaryDTO `json:"summary"`
}

type ActivityLogFilter struct {
	DepartmentID *uint64
	Type         string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        uint64
}

type ActivityLogItemDTO struct {
	ID             uint64      `json:"id" db:"id"`
	Type           string      `json:"type" db:"type"`
	Description    null.String `json:"description" db:"description"`
	Date           null.Time   `json:"date" db:"date"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	EquipmentID    null.Int64  `json:"equipmentId" db:"equipment_id"`
	EquipmentName  null.String `json:"equipmentName" db:"equipment_name"`
	EquipmentTag   null.String `json:"equipmentTag" db:"equipment_tag"`
	DepartmentID   null.Int64  `json:"departmentId" db:"department_id"`
	DepartmentName null.String `json:"departmentName" db:"department_name"`
}

type ActivityLogSummaryDTO struct {
	TotalActivities  int                  `json:"totalActivities"`
	ByType           map[string]int       `json:"byType"`
	ByDepartment     map[string]int       `json:"byDepartment"`
	RecentActivities []ActivityLogItemDTO `json:"recentActivities"`
}

type ActivityLogReportDTO struct {
	Success bool                  `json:"success"`
	Data    []ActivityLogItemDTO  `json:"data"`
	Summary ActivityLogSummaryDTO `json:"summary"`
}
