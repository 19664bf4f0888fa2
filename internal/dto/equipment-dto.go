package dto

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"maintenance-tracker/internal/entities"
	"maintenance-tracker/pkg/constants"

	"github.com/aarondl/null/v8"
)

type BulkAssignDepartmentDTO struct {
	DepartmentID FlexID   `json:"departmentId"`
	EquipmentIDs []FlexID `json:"equipmentIds"`
}

func (d BulkAssignDepartmentDTO) IDs() []uint64 {
	if len(d.EquipmentIDs) == 0 {
		return nil
	}
	ids := make([]uint64, 0, len(d.EquipmentIDs))
	for _, id := range d.EquipmentIDs {
		if id > 0 {
			ids = append(ids, uint64(id))
		}
	}
	return ids
}

// HasExplicitIDs - клиент передал непустой список, даже если в нем одни нули.
func (d BulkAssignDepartmentDTO) HasExplicitIDs() bool {
	return len(d.EquipmentIDs) > 0
}

type BulkAssignResultDTO struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// UpdateEquipmentStatusDTO: пустой статус пропускается валидатором, его отклоняет сервис.
type UpdateEquipmentStatusDTO struct {
	Status string `json:"status" validate:"omitempty,equipment_status"`
}

type CreateEquipmentDTO struct {
	Name                string      `json:"name" validate:"required,max=255"`
	Manufacturer        null.String `json:"manufacturer"`
	CountryOfOrigin     null.String `json:"countryOfOrigin"`
	YearOfManufacture   FlexInt     `json:"yearOfManufacture"`
	TagNumber           null.String `json:"tagNumber"`
	Owner               null.String `json:"owner"`
	MaintainedBy        null.String `json:"maintainedBy"`
	WarrantyInfo        null.String `json:"warrantyInfo"`
	WarrantyExpiry      FlexTime    `json:"warrantyExpiry"`
	DateOfInstallation  FlexTime    `json:"dateOfInstallation"`
	DepartmentID        FlexID      `json:"departmentId"`
	SubUnit             null.String `json:"subUnit"`
	Model               null.String `json:"model"`
	MfgNumber           null.String `json:"mfgNumber"`
	SerialNumber        null.String `json:"serialNumber"`
	Status              null.String `json:"status" validate:"omitempty,equipment_status"`
	PurchaseType        null.String `json:"purchaseType"`
	PurchaseDate        FlexTime    `json:"purchaseDate"`
	PurchaseOrderNumber null.String `json:"purchaseOrderNumber"`
	PurchaseCost        FlexFloat   `json:"purchaseCost"`
	PhotoURL            null.String `json:"photoUrl"`
	HasServiceContract  FlexBool    `json:"hasServiceContract"`
	ServiceOrganization null.String `json:"serviceOrganization"`
}

// Entity - новая карточка; статус по умолчанию operational, departmentId 0 - без отдела.
func (d CreateEquipmentDTO) Entity() entities.Equipment {
	e := entities.Equipment{
		Name:                strings.TrimSpace(d.Name),
		Manufacturer:        d.Manufacturer,
		CountryOfOrigin:     d.CountryOfOrigin,
		YearOfManufacture:   d.YearOfManufacture.Int,
		TagNumber:           d.TagNumber,
		Owner:               d.Owner,
		MaintainedBy:        d.MaintainedBy,
		WarrantyInfo:        d.WarrantyInfo,
		WarrantyExpiry:      d.WarrantyExpiry.Time,
		DateOfInstallation:  d.DateOfInstallation.Time,
		SubUnit:             d.SubUnit,
		Model:               d.Model,
		MfgNumber:           d.MfgNumber,
		SerialNumber:        d.SerialNumber,
		Status:              constants.EquipmentOperational.String(),
		PurchaseType:        d.PurchaseType,
		PurchaseDate:        d.PurchaseDate.Time,
		PurchaseOrderNumber: d.PurchaseOrderNumber,
		PurchaseCost:        d.PurchaseCost.Float64,
		PhotoURL:            d.PhotoURL,
		HasServiceContract:  bool(d.HasServiceContract),
		ServiceOrganization: d.ServiceOrganization,
	}
	if d.Status.Valid && d.Status.String != "" {
		e.Status = d.Status.String
	}
	if d.DepartmentID > 0 {
		e.DepartmentID = null.Int64From(int64(d.DepartmentID))
	}
	return e
}

// UpdateEquipmentDTO - частичное обновление карточки. departmentId 0 снимает отдел.
type UpdateEquipmentDTO struct {
	Name                *string    `json:"name" validate:"omitempty,min=1,max=255"`
	Manufacturer        *string    `json:"manufacturer"`
	CountryOfOrigin     *string    `json:"countryOfOrigin"`
	YearOfManufacture   *FlexInt   `json:"yearOfManufacture"`
	TagNumber           *string    `json:"tagNumber"`
	Owner               *string    `json:"owner"`
	MaintainedBy        *string    `json:"maintainedBy"`
	WarrantyInfo        *string    `json:"warrantyInfo"`
	WarrantyExpiry      *FlexTime  `json:"warrantyExpiry"`
	DateOfInstallation  *FlexTime  `json:"dateOfInstallation"`
	DepartmentID        *FlexID    `json:"departmentId"`
	SubUnit             *string    `json:"subUnit"`
	Model               *string    `json:"model"`
	MfgNumber           *string    `json:"mfgNumber"`
	SerialNumber        *string    `json:"serialNumber"`
	Status              *string    `json:"status" validate:"omitempty,equipment_status"`
	PurchaseType        *string    `json:"purchaseType"`
	PurchaseDate        *FlexTime  `json:"purchaseDate"`
	PurchaseOrderNumber *string    `json:"purchaseOrderNumber"`
	PurchaseCost        *FlexFloat `json:"purchaseCost"`
	PhotoURL            *string    `json:"photoUrl"`
	HasServiceContract  *FlexBool  `json:"hasServiceContract"`
	ServiceOrganization *string    `json:"serviceOrganization"`
}

// TargetDepartment - новый отдел, если он меняется и не снимается.
func (d UpdateEquipmentDTO) TargetDepartment() (uint64, bool) {
	if d.DepartmentID == nil || *d.DepartmentID == 0 {
		return 0, false
	}
	return uint64(*d.DepartmentID), true
}

// Changes - колонки и новые значения для UPDATE.
func (d UpdateEquipmentDTO) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	for column, v := range map[string]*string{
		"manufacturer":          d.Manufacturer,
		"country_of_origin":     d.CountryOfOrigin,
		"tag_number":            d.TagNumber,
		"owner":                 d.Owner,
		"maintained_by":         d.MaintainedBy,
		"warranty_info":         d.WarrantyInfo,
		"sub_unit":              d.SubUnit,
		"model":                 d.Model,
		"mfg_number":            d.MfgNumber,
		"serial_number":         d.SerialNumber,
		"purchase_type":         d.PurchaseType,
		"purchase_order_number": d.PurchaseOrderNumber,
		"photo_url":             d.PhotoURL,
		"service_organization":  d.ServiceOrganization,
	} {
		if v != nil {
			changes[column] = *v
		}
	}
	for column, v := range map[string]*FlexTime{
		"warranty_expiry":      d.WarrantyExpiry,
		"date_of_installation": d.DateOfInstallation,
		"purchase_date":        d.PurchaseDate,
	} {
		if v != nil {
			changes[column] = v.Time
		}
	}
	// Имя и статус обязательны: пустая строка их не стирает.
	if d.Name != nil && strings.TrimSpace(*d.Name) != "" {
		changes["name"] = strings.TrimSpace(*d.Name)
	}
	if d.Status != nil && *d.Status != "" {
		changes["status"] = *d.Status
	}
	if d.YearOfManufacture != nil {
		changes["year_of_manufacture"] = d.YearOfManufacture.Int
	}
	if d.PurchaseCost != nil {
		changes["purchase_cost"] = d.PurchaseCost.Float64
	}
	if d.HasServiceContract != nil {
		changes["has_service_contract"] = bool(*d.HasServiceContract)
	}
	if d.DepartmentID != nil {
		if id, ok := d.TargetDepartment(); ok {
			changes["department_id"] = id
		} else {
			changes["department_id"] = nil
		}
	}
	return changes
}

func (d UpdateEquipmentDTO) IsEmpty() bool {
	return len(d.Changes()) == 0
}

type EquipmentDeletedDTO struct {
	Success bool `json:"success"`
}

// SpecificationInput - элемент тела запроса; ключ и значение могут отсутствовать.
type SpecificationInput struct {
	SpecificationKey   *string `json:"specificationKey"`
	SpecificationValue *string `json:"specificationValue"`
}

// ReplaceSpecificationsDTO держит specifications сырым, чтобы отличить массив от всего остального.
type ReplaceSpecificationsDTO struct {
	Specifications json.RawMessage `json:"specifications"`
}

// IsArray - true, только если specifications передан JSON-массивом.
func (d ReplaceSpecificationsDTO) IsArray() bool {
	raw := bytes.TrimSpace(d.Specifications)
	return len(raw) > 0 && raw[0] == '['
}

func (d ReplaceSpecificationsDTO) Items() ([]*SpecificationInput, error) {
	var items []*SpecificationInput
	if err := json.Unmarshal(d.Specifications, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// EquipmentFilter - параметры выборки каталога оборудования.
type EquipmentFilter struct {
	Search           string
	DepartmentID     *uint64
	Status           string
	WarrantyExpiring bool
	ServiceDue       bool
	Limit            uint64
	Offset           uint64

	// Заполняются сервисом из настроек дашборда.
	Now            time.Time
	WarrantyWindow time.Duration
	ServiceWindow  time.Duration
}
