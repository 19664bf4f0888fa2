package events

const (
	EquipmentChangedEventName  = "equipment.changed"
	DepartmentChangedEventName = "department.changed"
)

// EquipmentChangedEvent - после коммита изменения оборудования (отдел, статус).
type EquipmentChangedEvent struct {
	Reason       string   `json:"reason"`
	EquipmentIDs []uint64 `json:"equipmentIds"`
	DepartmentID *uint64  `json:"departmentId,omitempty"`
}

func (e EquipmentChangedEvent) Name() string {
	return EquipmentChangedEventName
}

// DepartmentChangedEvent - отдел создан, изменен или удален.
type DepartmentChangedEvent struct {
	DepartmentID uint64 `json:"departmentId"`
	Action       string `json:"action"`
}

func (e DepartmentChangedEvent) Name() string {
	return DepartmentChangedEventName
}
