package assets

import (
	"context"
	"testing"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"
	"asset-register/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	db := testutil.NewDB(t)
	s := &Service{DB: db}
	ctx := context.Background()

	a, err := s.Create(ctx, Input{Name: " Pump ", AssetNumber: "AS-1"})
	require.NoError(t, err)
	assert.Equal(t, "Pump", a.Name)
	assert.Nil(t, a.Category)

	_, err = s.Create(ctx, Input{Name: "Other", AssetNumber: "AS-1"})
	assert.ErrorIs(t, err, ErrAssetNumberTaken)

	_, err = s.Create(ctx, Input{Name: " ", AssetNumber: "AS-2"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
}

func TestUpdate_KeepsOwnNumber(t *testing.T) {
	db := testutil.NewDB(t)
	s := &Service{DB: db}
	ctx := context.Background()
	a, err := s.Create(ctx, Input{Name: "Pump", AssetNumber: "AS-1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, Input{Name: "Drill", AssetNumber: "AS-2"})
	require.NoError(t, err)

	cat := "Hydraulics"
	got, err := s.Update(ctx, a.ID, Input{Name: "Pump", AssetNumber: "AS-1", Category: &cat})
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Hydraulics", *got.Category)

	_, err = s.Update(ctx, a.ID, Input{Name: "Pump", AssetNumber: "AS-2"})
	assert.ErrorIs(t, err, ErrAssetNumberTaken)
}

func TestList_FilterAndPreloads(t *testing.T) {
	db := testutil.NewDB(t)
	s := &Service{DB: db}
	ctx := context.Background()
	north := domain.Station{Name: "North"}
	require.NoError(t, db.Create(&north).Error)
	pump, err := s.Create(ctx, Input{Name: "Pump", AssetNumber: "AS-1"})
	require.NoError(t, err)
	_, err = s.Create(ctx, Input{Name: "Ladder", AssetNumber: "AS-2"})
	require.NoError(t, err)
	b := domain.Batch{AssetID: pump.ID, Name: "B1", PurchasePrice: decimal.NewFromInt(10), Quantity: 2}
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&domain.Assignment{AssetID: pump.ID, StationID: north.ID, BatchAllocations: []domain.BatchAllocation{{BatchID: &b.ID}}}).Error)

	all, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	atNorth, err := s.List(ctx, ListFilter{StationID: &north.ID})
	require.NoError(t, err)
	require.Len(t, atNorth, 1)
	assert.Equal(t, "Pump", atNorth[0].Name)
	require.Len(t, atNorth[0].Assignments, 1)
	require.NotNil(t, atNorth[0].Assignments[0].Station)
	require.Len(t, atNorth[0].Assignments[0].BatchAllocations, 1)
	require.NotNil(t, atNorth[0].Assignments[0].BatchAllocations[0].Batch)
	assert.Equal(t, "B1", atNorth[0].Assignments[0].BatchAllocations[0].Batch.Name)

	found, err := s.List(ctx, ListFilter{Search: "lad"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Ladder", found[0].Name)
}

func TestDelete_Cascades(t *testing.T) {
	db := testutil.NewDB(t)
	s := &Service{DB: db}
	ctx := context.Background()
	st := domain.Station{Name: "North"}
	require.NoError(t, db.Create(&st).Error)
	a, err := s.Create(ctx, Input{Name: "Pump", AssetNumber: "AS-1"})
	require.NoError(t, err)
	b := domain.Batch{AssetID: a.ID, Name: "B1", Quantity: 1}
	require.NoError(t, db.Create(&b).Error)
	require.NoError(t, db.Create(&domain.Assignment{AssetID: a.ID, StationID: st.ID, BatchAllocations: []domain.BatchAllocation{{BatchID: &b.ID}}}).Error)

	require.NoError(t, s.Delete(ctx, a.ID))

	var n int64
	require.NoError(t, db.Model(&domain.Assignment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.BatchAllocation{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&domain.Batch{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.ErrorIs(t, s.Delete(ctx, a.ID), ErrAssetNotFound)
}
