package entities

import (
	"maintenance-tracker/pkg/types"

	"github.com/aarondl/null/v8"
)

type Department struct {
	ID          uint64       `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Manager     null.String  `json:"manager" db:"manager"`
	Email       null.String  `json:"email" db:"email"`
	Phone       null.String  `json:"phone" db:"phone"`
	Description null.String  `json:"description" db:"description"`
	Budget      null.Float64 `json:"budget" db:"budget"`
	Employees   null.Int     `json:"employees" db:"employees"`

	types.BaseEntity
}

// DepartmentWithStats - отдел со счетчиком закрепленного оборудования.
type DepartmentWithStats struct {
	Department
	EquipmentCount uint64 `json:"equipmentCount" db:"equipment_count"`
}
