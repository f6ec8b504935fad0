package components

import "github.com/goliatone/go-formfields/pkg/fieldtype"

// Canonical component names. The default registry registers one component per
// field kind, so the names match fieldtype.Kind values.
const (
	NameText          = string(fieldtype.KindText)
	NameTextarea      = string(fieldtype.KindTextarea)
	NameNumber        = string(fieldtype.KindNumber)
	NameEmail         = string(fieldtype.KindEmail)
	NameTel           = string(fieldtype.KindTel)
	NameDate          = string(fieldtype.KindDate)
	NameSelect        = string(fieldtype.KindSelect)
	NameRadio         = string(fieldtype.KindRadio)
	NameCheckboxGroup = string(fieldtype.KindCheckboxGroup)
	NameToggle        = string(fieldtype.KindToggle)
	NameFile          = string(fieldtype.KindFile)
)
