package dto

import "github.com/aarondl/null/v8"

type CreateDepartmentDTO struct {
	Name        string      `json:"name" validate:"required,max=255"`
	Manager     null.String `json:"manager" validate:"omitempty,max=255"`
	Email       null.String `json:"email" validate:"omitempty,email"`
	Phone       null.String `json:"phone" validate:"omitempty,max=20"`
	Description null.String `json:"description"`
	Budget      FlexFloat   `json:"budget"`
	Employees   null.Int    `json:"employees" validate:"omitempty,gte=0"`
}

type UpdateDepartmentDTO struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=255"`
	Manager     *string  `json:"manager" validate:"omitempty,max=255"`
	Email       *string  `json:"email" validate:"omitempty,email"`
	Phone       *string  `json:"phone" validate:"omitempty,max=20"`
	Description *string  `json:"description"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	Employees   *int     `json:"employees" validate:"omitempty,gte=0"`
}

func (d UpdateDepartmentDTO) IsEmpty() bool {
	return d.Name == nil && d.Manager == nil && d.Email == nil && d.Phone == nil &&
		d.Description == nil && d.Budget == nil && d.Employees == nil
}
