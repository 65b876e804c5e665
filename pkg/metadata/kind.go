package metadata

import (
	"fmt"
	"strings"
)

// CatalogKind names one of the reference catalogs shared by employees and assets.
type CatalogKind string

const (
	KindCompany       CatalogKind = "company"
	KindArea          CatalogKind = "area"
	KindRole          CatalogKind = "role"
	KindCity          CatalogKind = "city"
	KindEquipmentType CatalogKind = "equipment_type"
)

var CatalogKinds = []CatalogKind{KindCompany, KindArea, KindRole, KindCity, KindEquipmentType}

// kindAliases accepts the plural route segments and the legacy spanish table names.
var kindAliases = map[string]CatalogKind{
	"companies":       KindCompany,
	"empresa":         KindCompany,
	"empresas":        KindCompany,
	"areas":           KindArea,
	"roles":           KindRole,
	"cargo":           KindRole,
	"cargos":          KindRole,
	"cities":          KindCity,
	"ciudad":          KindCity,
	"ciudades":        KindCity,
	"equipment_types": KindEquipmentType,
	"equipo_tipo":     KindEquipmentType,
	"equipo_tipos":    KindEquipmentType,
}

func (k CatalogKind) IsValid() bool {
	switch k {
	case KindCompany, KindArea, KindRole, KindCity, KindEquipmentType:
		return true
	default:
		return false
	}
}

func NewCatalogKind(value string) (CatalogKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	normalized = strings.ReplaceAll(normalized, " ", "_")

	kind := CatalogKind(normalized)
	if kind.IsValid() {
		return kind, nil
	}
	if alias, ok := kindAliases[normalized]; ok {
		return alias, nil
	}

	return kind, fmt.Errorf(
		"value not valid, only valid values are: %s, %s, %s, %s, %s",
		KindCompany, KindArea, KindRole, KindCity, KindEquipmentType,
	)
}

func (k CatalogKind) String() string {
	return string(k)
}
