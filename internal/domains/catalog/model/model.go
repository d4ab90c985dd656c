package model

import (
	"slices"
	"time"

	"sarana/shared/constant"
	"sarana/shared/model"
)

const (
	TableUnit      = "resource_units"
	EntityUnit     = "resource"
	TableTemplate  = "product_templates"
	EntityTemplate = "product template"

	FieldID          = "id"
	FieldKind        = "kind"
	FieldName        = "name"
	FieldCode        = "code"
	FieldLocation    = "location"
	FieldCapacity    = "capacity"
	FieldPlateNumber = "plate_number"
	FieldPICID       = "pic_id"
	FieldTemplateID  = "template_id"
	FieldUnderRepair = "under_repair"
	FieldStatus      = "status"
	FieldCategory    = "category"
	FieldPhotoURL    = "photo_url"
)

type Kind string

const (
	KindAsset   Kind = "asset"
	KindRoom    Kind = "room"
	KindVehicle Kind = "vehicle"
)

var Kinds = []Kind{KindAsset, KindRoom, KindVehicle}

// KindsFor returns the kinds whose module is in modules. A nil set means every module.
func KindsFor(modules []string) []Kind {
	if modules == nil {
		return Kinds
	}

	out := []Kind{}

	for _, kind := range Kinds {
		if slices.Contains(modules, kind.Module()) {
			out = append(out, kind)
		}
	}

	return out
}

// ParseKind maps the plural path segment used by the API to a Kind.
func ParseKind(segment string) (Kind, bool) {
	switch segment {
	case "assets":
		return KindAsset, true
	case "rooms":
		return KindRoom, true
	case "vehicles":
		return KindVehicle, true
	default:
		return "", false
	}
}

// Module is the privilege a principal needs to book or manage units of this kind.
func (k Kind) Module() string {
	switch k {
	case KindAsset:
		return constant.ModuleAsset
	case KindRoom:
		return constant.ModuleRoom
	case KindVehicle:
		return constant.ModuleVehicle
	default:
		return constant.Empty
	}
}

// TimeBoxed reports whether bookings of this kind occupy a window instead of the whole unit.
func (k Kind) TimeBoxed() bool {
	return k == KindRoom || k == KindVehicle
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusInUse       Status = "in_use"
	StatusUnderRepair Status = "under_repair"
	StatusUnknown     Status = "unknown"
)

type Unit struct {
	ID          string  `db:"id"`
	Kind        Kind    `db:"kind"`
	Name        string  `db:"name"`
	Code        string  `db:"code"`
	Location    string  `db:"location"`
	Capacity    *int    `db:"capacity"`
	PlateNumber *string `db:"plate_number"`
	PICID       *string `db:"pic_id"`
	TemplateID  *string `db:"template_id"`
	UnderRepair bool    `db:"under_repair"`
	Status      Status  `db:"status"`
	model.Metadata
}

type Template struct {
	ID            string  `db:"id"`
	Name          string  `db:"name"`
	Description   string  `db:"description"`
	Category      string  `db:"category"`
	PhotoURL      *string `db:"photo_url"`
	UnitOfMeasure string  `db:"unit_of_measure"`
	MinStock      int     `db:"min_stock"`
	model.Metadata
}

// Window is an approved occupation of a unit, half-open on End.
type Window struct {
	Start time.Time `db:"start_time"`
	End   time.Time `db:"end_time"`
}

// DeriveStatus computes a unit's status from its approved windows. It is the only writer of Unit.Status.
func DeriveStatus(unit Unit, approved []Window, now time.Time) Status {
	if unit.UnderRepair {
		return StatusUnderRepair
	}

	switch {
	case unit.Kind == KindAsset:
		if len(approved) > 0 {
			return StatusInUse
		}
	case unit.Kind.TimeBoxed():
		for _, w := range approved {
			if !now.Before(w.Start) && now.Before(w.End) {
				return StatusInUse
			}
		}
	default:
		return StatusUnknown
	}

	return StatusAvailable
}
