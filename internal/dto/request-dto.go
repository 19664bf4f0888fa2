package dto

import (
	"strings"
	"time"

	"maintenance-tracker/internal/entities"

	"github.com/aarondl/null/v8"
)

type MaintenanceRequestFilter struct {
	Status      string
	Priority    string
	EquipmentID *uint64
	Page        uint64
	Limit       uint64
}

func (f MaintenanceRequestFilter) Offset() uint64 {
	if f.Page <= 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

type CreateMaintenanceRequestDTO struct {
	EquipmentID FlexID      `json:"equipmentId"`
	RequestedBy null.String `json:"requestedBy"`
	RequestDate FlexTime    `json:"requestDate"`
	Priority    null.String `json:"priority" validate:"omitempty,max=50"`
	Description null.String `json:"description"`
	Status      null.String `json:"status" validate:"omitempty,max=50"`
	AssignedTo  null.String `json:"assignedTo"`
}

// Entity собирает строку заявки; пустые priority и status получают значения по умолчанию.
func (d CreateMaintenanceRequestDTO) Entity(now time.Time, defaultPriority, defaultStatus string) entities.MaintenanceRequest {
	req := entities.MaintenanceRequest{
		EquipmentID: uint64(d.EquipmentID),
		RequestedBy: d.RequestedBy,
		RequestDate: now,
		Priority:    defaultPriority,
		Description: d.Description,
		Status:      defaultStatus,
		AssignedTo:  d.AssignedTo,
	}
	if d.RequestDate.Valid {
		req.RequestDate = d.RequestDate.Time.Time
	}
	if p := strings.TrimSpace(d.Priority.String); p != "" {
		req.Priority = p
	}
	if s := strings.TrimSpace(d.Status.String); s != "" {
		req.Status = s
	}
	return req
}

// UpdateMaintenanceRequestDTO - частичное обновление; equipmentId у заявки не меняется.
type UpdateMaintenanceRequestDTO struct {
	RequestedBy *string   `json:"requestedBy"`
	RequestDate *FlexTime `json:"requestDate"`
	Priority    *string   `json:"priority" validate:"omitempty,max=50"`
	Description *string   `json:"description"`
	Status      *string   `json:"status" validate:"omitempty,max=50"`
	AssignedTo  *string   `json:"assignedTo"`
}

func (d UpdateMaintenanceRequestDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if d.RequestedBy != nil {
		changes["requested_by"] = *d.RequestedBy
	}
	if d.RequestDate != nil && d.RequestDate.Valid {
		changes["request_date"] = d.RequestDate.Time.Time
	}
	if d.Priority != nil && strings.TrimSpace(*d.Priority) != "" {
		changes["priority"] = strings.TrimSpace(*d.Priority)
	}
	if d.Description != nil {
		changes["description"] = *d.Description
	}
	if d.Status != nil && strings.TrimSpace(*d.Status) != "" {
		changes["status"] = strings.TrimSpace(*d.Status)
	}
	if d.AssignedTo != nil {
		changes["assigned_to"] = *d.AssignedTo
	}
	return changes
}

type MaintenanceRequestListDTO struct {
	Data       []entities.MaintenanceRequest `json:"data"`
	Total      uint64                        `json:"total"`
	Page       uint64                        `json:"page"`
	Limit      uint64                        `json:"limit"`
	TotalPages uint64                        `json:"totalPages"`
}

type MaintenanceRequestDeletedDTO struct {
	Success bool                        `json:"success"`
	Deleted entities.MaintenanceRequest `json:"deleted"`
}
