package models

// Audit carries who-did-what bookkeeping shared by every domain entity.
// Actor IDs are supplied explicitly by the mutating operation, never read
// from ambient state.
type Audit struct {
	CreatedByID *uint  `json:"created_by_id,omitempty" gorm:"index"`
	UpdatedByID *uint  `json:"updated_by_id,omitempty"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
	Remarks     string `json:"remarks,omitempty"`
}

// Address is the postal/geo value object embedded by address-bearing entities.
type Address struct {
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	ZipCode   string   `json:"zip_code"`
	Latitude  *float64 `json:"latitude,omitempty" gorm:"type:decimal(9,6)"`
	Longitude *float64 `json:"longitude,omitempty" gorm:"type:decimal(9,6)"`
}
