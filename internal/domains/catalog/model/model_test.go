package model_test

import (
	"testing"
	"time"

	"sarana/internal/domains/catalog/model"
	"sarana/shared/constant"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	covering := model.Window{Start: now.Add(-time.Hour), End: now.Add(time.Hour)}
	later := model.Window{Start: now.Add(2 * time.Hour), End: now.Add(3 * time.Hour)}
	endingNow := model.Window{Start: now.Add(-time.Hour), End: now}

	tests := []struct {
		name     string
		unit     model.Unit
		approved []model.Window
		want     model.Status
	}{
		{name: "repair wins", unit: model.Unit{Kind: model.KindRoom, UnderRepair: true}, approved: []model.Window{covering}, want: model.StatusUnderRepair},
		{name: "room in covering window", unit: model.Unit{Kind: model.KindRoom}, approved: []model.Window{later, covering}, want: model.StatusInUse},
		{name: "room with future window", unit: model.Unit{Kind: model.KindRoom}, approved: []model.Window{later}, want: model.StatusAvailable},
		{name: "window end is exclusive", unit: model.Unit{Kind: model.KindVehicle}, approved: []model.Window{endingNow}, want: model.StatusAvailable},
		{name: "asset borrowed", unit: model.Unit{Kind: model.KindAsset}, approved: []model.Window{later}, want: model.StatusInUse},
		{name: "asset free", unit: model.Unit{Kind: model.KindAsset}, want: model.StatusAvailable},
		{name: "unknown kind", unit: model.Unit{Kind: "boat"}, want: model.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.DeriveStatus(tt.unit, tt.approved, now))
		})
	}
}

func TestKind(t *testing.T) {
	kind, ok := model.ParseKind("vehicles")
	assert.True(t, ok)
	assert.Equal(t, model.KindVehicle, kind)
	assert.Equal(t, constant.ModuleVehicle, kind.Module())
	assert.True(t, kind.TimeBoxed())

	_, ok = model.ParseKind("boats")
	assert.False(t, ok)

	assert.False(t, model.KindAsset.TimeBoxed())
	assert.Equal(t, constant.ModuleAsset, model.KindAsset.Module())
	assert.Equal(t, constant.ModuleRoom, model.KindRoom.Module())
}

func TestKindsFor(t *testing.T) {
	assert.Equal(t, model.Kinds, model.KindsFor(nil))
	assert.Equal(t, []model.Kind{model.KindRoom}, model.KindsFor([]string{constant.ModuleRoom, constant.ModuleUserManagement}))
	assert.Empty(t, model.KindsFor([]string{}))
}
