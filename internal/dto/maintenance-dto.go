package dto

import (
	"strings"
	"time"

	"maintenance-tracker/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateMaintenanceNoteDTO struct {
	Note      null.String `json:"note"`
	CreatedBy null.String `json:"createdBy"`
}

type CreateMaintenancePartDTO struct {
	PartName   null.String `json:"partName"`
	PartNumber null.String `json:"partNumber"`
	Quantity   FlexInt     `json:"quantity"`
	Cost       FlexFloat   `json:"cost"`
	Supplier   null.String `json:"supplier"`
}

// MaintenanceFilter - параметры списка записей об обслуживании.
type MaintenanceFilter struct {
	Status      string
	Type        string
	EquipmentID *uint64
	Upcoming    bool
	Page        uint64
	Limit       uint64

	// Заполняются сервисом.
	Now            time.Time
	UpcomingWindow time.Duration
}

func (f MaintenanceFilter) Offset() uint64 {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// CreateMaintenanceDTO принимает и старые имена полей: maintenanceType, performedBy, performedDate.
type CreateMaintenanceDTO struct {
	EquipmentID       FlexID      `json:"equipmentId"`
	Type              null.String `json:"type"`
	MaintenanceType   null.String `json:"maintenanceType"`
	Description       null.String `json:"description"`
	Technician        null.String `json:"technician"`
	PerformedBy       null.String `json:"performedBy"`
	Date              FlexTime    `json:"date"`
	PerformedDate     FlexTime    `json:"performedDate"`
	ScheduledDate     FlexTime    `json:"scheduledDate"`
	CompletedDate     FlexTime    `json:"completedDate"`
	Cost              FlexFloat   `json:"cost"`
	Status            null.String `json:"status"`
	Notes             null.String `json:"notes"`
	Priority          null.String `json:"priority"`
	Progress          FlexInt     `json:"progress"`
	EstimatedDuration null.String `json:"estimatedDuration"`
	ActualDuration    null.String `json:"actualDuration"`
	EquipmentStatus   null.String `json:"equipmentStatus" validate:"omitempty,equipment_status"`
}

func (d CreateMaintenanceDTO) ResolvedType() string {
	if t := strings.TrimSpace(d.Type.String); t != "" {
		return t
	}
	return strings.TrimSpace(d.MaintenanceType.String)
}

func (d CreateMaintenanceDTO) ResolvedTechnician() null.String {
	if d.Technician.Valid && d.Technician.String != "" {
		return d.Technician
	}
	return d.PerformedBy
}

// ResolvedDate - date, затем performedDate, иначе момент создания.
func (d CreateMaintenanceDTO) ResolvedDate(now time.Time) time.Time {
	switch {
	case d.Date.Valid:
		return d.Date.Time.Time
	case d.PerformedDate.Valid:
		return d.PerformedDate.Time.Time
	default:
		return now
	}
}

// UpdateMaintenanceDTO - частичное обновление: отсутствующие и null-поля не меняются.
type UpdateMaintenanceDTO struct {
	Type              *string    `json:"type" validate:"omitempty,min=1"`
	MaintenanceType   *string    `json:"maintenanceType" validate:"omitempty,min=1"`
	Description       *string    `json:"description"`
	Technician        *string    `json:"technician"`
	PerformedBy       *string    `json:"performedBy"`
	Date              *FlexTime  `json:"date"`
	PerformedDate     *FlexTime  `json:"performedDate"`
	ScheduledDate     *FlexTime  `json:"scheduledDate"`
	CompletedDate     *FlexTime  `json:"completedDate"`
	Cost              *FlexFloat `json:"cost"`
	Status            *string    `json:"status"`
	Notes             *string    `json:"notes"`
	Priority          *string    `json:"priority"`
	Progress          *FlexInt   `json:"progress"`
	EstimatedDuration *string    `json:"estimatedDuration"`
	ActualDuration    *string    `json:"actualDuration"`
}

func firstString(values ...*string) *string {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

// Changes - колонки и новые значения для UPDATE.
func (d UpdateMaintenanceDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if v := firstString(d.Type, d.MaintenanceType); v != nil {
		changes["type"] = strings.TrimSpace(*v)
	}
	if v := firstString(d.Technician, d.PerformedBy); v != nil {
		changes["technician"] = *v
	}
	// date обязательна: пустая строка ее не стирает.
	switch {
	case d.Date != nil && d.Date.Valid:
		changes["date"] = d.Date.Time.Time
	case d.PerformedDate != nil && d.PerformedDate.Valid:
		changes["date"] = d.PerformedDate.Time.Time
	}
	if d.ScheduledDate != nil {
		changes["scheduled_date"] = d.ScheduledDate.Time
	}
	if d.CompletedDate != nil {
		changes["completed_date"] = d.CompletedDate.Time
	}
	if d.Cost != nil {
		changes["cost"] = d.Cost.Float64
	}
	if d.Progress != nil {
		changes["progress"] = d.Progress.Int
	}
	for column, v := range map[string]*string{
		"description":        d.Description,
		"status":             d.Status,
		"notes":              d.Notes,
		"priority":           d.Priority,
		"estimated_duration": d.EstimatedDuration,
		"actual_duration":    d.ActualDuration,
	} {
		if v != nil {
			changes[column] = *v
		}
	}
	return changes
}

func (d UpdateMaintenanceDTO) IsEmpty() bool {
	return len(d.Changes()) == 0
}

// MaintenanceListDTO - страница списка без конверта, как ее ждет фронтенд.
type MaintenanceListDTO struct {
	Data       []entities.MaintenanceRecord `json:"data"`
	Total      uint64                       `json:"total"`
	Page       uint64                       `json:"page"`
	Limit      uint64                       `json:"limit"`
	TotalPages uint64                       `json:"totalPages"`
}

type MaintenanceDeletedDTO struct {
	Success bool                       `json:"success"`
	Deleted entities.MaintenanceRecord `json:"deleted"`
}

type CreateChecklistItemDTO struct {
	ItemDescription string   `json:"itemDescription"`
	IsCompleted     FlexBool `json:"isCompleted"`
}

// UpdateChecklistItemDTO: пустое описание не стирает пункт.
type UpdateChecklistItemDTO struct {
	ItemDescription *string   `json:"itemDescription"`
	IsCompleted     *FlexBool `json:"isCompleted"`
}

func (d UpdateChecklistItemDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.ItemDescription != nil && strings.TrimSpace(*d.ItemDescription) != "" {
		changes["item_description"] = strings.TrimSpace(*d.ItemDescription)
	}
	if d.IsCompleted != nil {
		changes["is_completed"] = bool(*d.IsCompleted)
	}
	return changes
}

type ChecklistItemDeletedDTO struct {
	Success bool                   `json:"success"`
	Deleted entities.ChecklistItem `json:"deleted"`
}
