package models

import "time"

// CategoryTree is a taxonomy category with its known subcategories.
type CategoryTree struct {
	Category      string     `bson:"category" json:"category"`
	SubCategories StringList `bson:"subCategories" json:"subCategories"`
}

// SparePartTree additionally tracks compatible brands and models seen under
// the category.
type SparePartTree struct {
	Category         string     `bson:"category" json:"category"`
	SubCategories    StringList `bson:"subCategories" json:"subCategories"`
	CompatibleBrands StringList `bson:"compatibleBrands" json:"compatibleBrands"`
	CompatibleModels StringList `bson:"compatibleModels" json:"compatibleModels"`
}

// DynamicField is the single registry document accumulating taxonomy values
// as listings introduce them. Values are only ever added, never pruned.
type DynamicField struct {
	ID                    string          `bson:"_id" json:"id"`
	ServiceCategories     StringList      `bson:"serviceCategories" json:"serviceCategories"`
	Certifications        StringList      `bson:"certifications" json:"certifications"`
	MachineTypes          StringList      `bson:"machine_types" json:"machine_types"`
	MachineBrands         StringList      `bson:"machine_brands" json:"machine_brands"`
	MachineModels         StringList      `bson:"machine_models" json:"machine_models"`
	SparePartCategories   []SparePartTree `bson:"sparePartCategories" json:"sparePartCategories"`
	RawMaterialCategories []CategoryTree  `bson:"rawMaterialCategories" json:"rawMaterialCategories"`
	CreatedAt             time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time       `bson:"updatedAt" json:"updatedAt"`
}
