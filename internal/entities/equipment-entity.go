package entities

import (
	"maintenance-tracker/pkg/types"

	"github.com/aarondl/null/v8"
)

type Equipment struct {
	ID                  uint64       `json:"id" db:"id"`
	Name                string       `json:"name" db:"name"`
	Manufacturer        null.String  `json:"manufacturer" db:"manufacturer"`
	CountryOfOrigin     null.String  `json:"countryOfOrigin" db:"country_of_origin"`
	YearOfManufacture   null.Int     `json:"yearOfManufacture" db:"year_of_manufacture"`
	TagNumber           null.String  `json:"tagNumber" db:"tag_number"`
	Owner               null.String  `json:"owner" db:"owner"`
	MaintainedBy        null.String  `json:"maintainedBy" db:"maintained_by"`
	WarrantyInfo        null.String  `json:"warrantyInfo" db:"warranty_info"`
	WarrantyExpiry      null.Time    `json:"warrantyExpiry" db:"warranty_expiry"`
	DateOfInstallation  null.Time    `json:"dateOfInstallation" db:"date_of_installation"`
	DepartmentID        null.Int64   `json:"departmentId" db:"department_id"`
	SubUnit             null.String  `json:"subUnit" db:"sub_unit"`
	Model               null.String  `json:"model" db:"model"`
	MfgNumber           null.String  `json:"mfgNumber" db:"mfg_number"`
	SerialNumber        null.String  `json:"serialNumber" db:"serial_number"`
	Status              string       `json:"status" db:"status"`
	PurchaseType        null.String  `json:"purchaseType" db:"purchase_type"`
	PurchaseDate        null.Time    `json:"purchaseDate" db:"purchase_date"`
	PurchaseOrderNumber null.String  `json:"purchaseOrderNumber" db:"purchase_order_number"`
	PurchaseCost        null.Float64 `json:"purchaseCost" db:"purchase_cost"`
	PhotoURL            null.String  `json:"photoUrl" db:"photo_url"`
	HasServiceContract  bool         `json:"hasServiceContract" db:"has_service_contract"`
	ServiceOrganization null.String  `json:"serviceOrganization" db:"service_organization"`

	types.BaseEntity
}

// EquipmentView - оборудование вместе с названием отдела (для списков и карточки).
type EquipmentView struct {
	Equipment
	DepartmentName null.String `json:"departmentName" db:"department_name"`
}

type EquipmentSpecification struct {
	ID                 uint64 `json:"id" db:"id"`
	EquipmentID        uint64 `json:"equipmentId" db:"equipment_id"`
	SpecificationKey   string `json:"specificationKey" db:"specification_key"`
	SpecificationValue string `json:"specificationValue" db:"specification_value"`

	types.BaseEntity
}
