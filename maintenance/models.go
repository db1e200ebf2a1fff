package maintenance

import (
	"time"

	"github.com/uptrace/bun"
)

// Company is a contracted maintenance company record
type Company struct {
	bun.BaseModel `bun:"table:maintenance_companies,alias:mco" json:"-"`

	ID            int64      `bun:"id,pk,autoincrement" json:"id"`
	CompanyName   string     `bun:"company_name,notnull,unique" json:"companyName"`
	CompanyType   string     `bun:"company_type" json:"companyType"`
	LegalPerson   string     `bun:"legal_person" json:"legalPerson"`
	ContactPerson string     `bun:"contact_person" json:"contactPerson"`
	ContactPhone  string     `bun:"contact_phone" json:"contactPhone"`
	Address       string     `bun:"address" json:"address"`
	CreatedAt     *time.Time `bun:"created_at" json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at" json:"updatedAt,omitempty"`
}

// Unit is a managed green-space unit record
type Unit struct {
	bun.BaseModel `bun:"table:maintenance_units,alias:mun" json:"-"`

	ID               int64      `bun:"id,pk,autoincrement" json:"id"`
	UnitName         string     `bun:"unit_name,notnull" json:"unitName"`
	MaintenanceLevel string     `bun:"maintenance_level" json:"maintenanceLevel"`
	TreeTypes        string     `bun:"tree_types" json:"treeTypes"`
	TreeCount        int        `bun:"tree_count" json:"treeCount"`
	GreenArea        float64    `bun:"green_area" json:"greenArea"`
	PatchCount       int        `bun:"patch_count" json:"patchCount"`
	CreatedAt        *time.Time `bun:"created_at" json:"createdAt,omitempty"`
	UpdatedAt        *time.Time `bun:"updated_at" json:"updatedAt,omitempty"`
}
