package models

// Organization mirrors the Companies table of the upstream relational
// store. The table is owned and mutated elsewhere; this service only
// reads it during the offline chunk export.
type Organization struct {
	ID          int64   `gorm:"column:Id;primaryKey" json:"id"`
	Name        string  `gorm:"column:Name" json:"name"`
	Description string  `gorm:"column:Description" json:"description"`
	WebsiteURL  string  `gorm:"column:WebsiteURL" json:"websiteUrl"`
	Email       string  `gorm:"column:Email" json:"email"`
	Phone       string  `gorm:"column:Phone" json:"phone"`
	FacebookURL string  `gorm:"column:FacebookURL" json:"facebookUrl"`
	Address     string  `gorm:"column:Address" json:"address"`
	LogoImage   string  `gorm:"column:LogoImage" json:"logoImageUrl"`
	Fields      []Field `gorm:"many2many:CompanyFields;foreignKey:ID;joinForeignKey:CompanyId;references:ID;joinReferences:FieldId" json:"-"`
}

func (Organization) TableName() string {
	return "Companies"
}

// Field is a support-category tag attached to organizations through
// the CompanyFields join table.
type Field struct {
	ID     int64  `gorm:"column:Id;primaryKey" json:"id"`
	Name   string `gorm:"column:Name" json:"name"`
	TypeID int64  `gorm:"column:TypeId" json:"typeId"`
}

func (Field) TableName() string {
	return "Fields"
}

// FieldType groups fields into coarse support categories.
type FieldType struct {
	ID   int64  `gorm:"column:Id;primaryKey" json:"id"`
	Name string `gorm:"column:Name" json:"name"`
}

func (FieldType) TableName() string {
	return "Types"
}

// FieldNames returns the organization's tag names in join order.
func (o *Organization) FieldNames() []string {
	names := make([]string, 0, len(o.Fields))
	for _, f := range o.Fields {
		if f.Name != "" {
			names = append(names, f.Name)
		}
	}
	return names
}
