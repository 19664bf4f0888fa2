package entities

import (
	"time"

	"maintenance-tracker/pkg/types"

	"github.com/aarondl/null/v8"
)

// MaintenanceRecord - запись о плановом или выполненном обслуживании.
type MaintenanceRecord struct {
	ID                uint64       `json:"id" db:"id"`
	EquipmentID       uint64       `json:"equipmentId" db:"equipment_id"`
	Type              string       `json:"type" db:"type"`
	Status            null.String  `json:"status" db:"status"`
	Priority          null.String  `json:"priority" db:"priority"`
	Date              time.Time    `json:"date" db:"date"`
	ScheduledDate     null.Time    `json:"scheduledDate" db:"scheduled_date"`
	CompletedDate     null.Time    `json:"completedDate" db:"completed_date"`
	Technician        null.String  `json:"technician" db:"technician"`
	Notes             null.String  `json:"notes" db:"notes"`
	Cost              null.Float64 `json:"cost" db:"cost"`
	Description       null.String  `json:"description" db:"description"`
	EstimatedDuration null.String  `json:"estimatedDuration" db:"estimated_duration"`
	ActualDuration    null.String  `json:"actualDuration" db:"actual_duration"`
	Progress          null.Int     `json:"progress" db:"progress"`

	types.BaseEntity
}

type MaintenanceNote struct {
	ID            uint64      `json:"id" db:"id"`
	MaintenanceID uint64      `json:"maintenanceId" db:"maintenance_id"`
	Note          null.String `json:"note" db:"note"`
	CreatedBy     null.String `json:"createdBy" db:"created_by"`

	types.BaseEntity
}

type MaintenancePart struct {
	ID            uint64       `json:"id" db:"id"`
	MaintenanceID uint64       `json:"maintenanceId" db:"maintenance_id"`
	PartName      null.String  `json:"partName" db:"part_name"`
	PartNumber    null.String  `json:"partNumber" db:"part_number"`
	Quantity      null.Int     `json:"quantity" db:"quantity"`
	Cost          null.Float64 `json:"cost" db:"cost"`
	Supplier      null.String  `json:"supplier" db:"supplier"`

	types.BaseEntity
}

// Activity - строка журнала событий для ленты на дашборде.
type Activity struct {
	ID           uint64      `json:"id" db:"id"`
	Type         string      `json:"type" db:"type"`
	Description  null.String `json:"description" db:"description"`
	Date         null.Time   `json:"date" db:"date"`
	EquipmentID  null.Int64  `json:"equipmentId" db:"equipment_id"`
	DepartmentID null.Int64  `json:"departmentId" db:"department_id"`

	types.BaseEntity
}

// MaintenanceRequest - заявка на обслуживание от отделения; в работу превращается отдельной записью maintenance.
type MaintenanceRequest struct {
	ID          uint64      `json:"id" db:"id"`
	EquipmentID uint64      `json:"equipmentId" db:"equipment_id"`
	RequestedBy null.String `json:"requestedBy" db:"requested_by"`
	RequestDate time.Time   `json:"requestDate" db:"request_date"`
	Priority    string      `json:"priority" db:"priority"`
	Description null.String `json:"description" db:"description"`
	Status      string      `json:"status" db:"status"`
	AssignedTo  null.String `json:"assignedTo" db:"assigned_to"`

	types.BaseEntity
}

type ChecklistItem struct {
	ID              uint64 `json:"id" db:"id"`
	MaintenanceID   uint64 `json:"maintenanceId" db:"maintenance_id"`
	ItemDescription string `json:"itemDescription" db:"item_description"`
	IsCompleted     bool   `json:"isCompleted" db:"is_completed"`

	types.BaseEntity
}
