package cdc

// Item is the replicated FCMS item master; for cylinders the item name is the
// gas name shown on the dashboard.
type Item struct {
	ItemCode string `gorm:"column:item_code;type:varchar(20);primaryKey" json:"item_code"`
	ItemName string `gorm:"column:item_name" json:"item_name"`
}

func (Item) TableName() string { return "fcms_item" }

type ValveSpec struct {
	SpecCode string `gorm:"column:spec_code;type:varchar(20);primaryKey" json:"spec_code"`
	SpecName string `gorm:"column:spec_name" json:"spec_name"`
}

func (ValveSpec) TableName() string { return "fcms_valve_spec" }

type CylinderSpec struct {
	SpecCode string `gorm:"column:spec_code;type:varchar(20);primaryKey" json:"spec_code"`
	SpecName string `gorm:"column:spec_name" json:"spec_name"`
}

func (CylinderSpec) TableName() string { return "fcms_cylinder_spec" }
