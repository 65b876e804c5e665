package models

type CreateAssetRequest struct {
	Brand         string     `json:"brand" binding:"required,min=1,max=100"`
	Reference     string     `json:"reference" binding:"max=100"`
	RAM           string     `json:"ram" binding:"max=50"`
	Storage       string     `json:"storage" binding:"max=100"`
	Serial        *string    `json:"serial" binding:"omitempty,max=100"`
	Notes         string     `json:"notes" binding:"max=500"`
	EquipmentType CatalogRef `json:"equipment_type"`
}

type UpdateAssetRequest struct {
	Brand         *string     `json:"brand" binding:"omitempty,min=1,max=100"`
	Reference     *string     `json:"reference" binding:"omitempty,max=100"`
	RAM           *string     `json:"ram" binding:"omitempty,max=50"`
	Storage       *string     `json:"storage" binding:"omitempty,max=100"`
	Serial        *string     `json:"serial" binding:"omitempty,max=100"`
	Notes         *string     `json:"notes" binding:"omitempty,max=500"`
	EquipmentType *CatalogRef `json:"equipment_type"`
}
