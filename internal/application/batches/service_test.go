package batches

import (
	"context"
	"encoding/json"
	"testing"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/validation"
	"asset-register/internal/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seed(t *testing.T) (*gorm.DB, domain.Asset, domain.Station) {
	db := testutil.NewDB(t)
	a := domain.Asset{Name: "Pump", AssetNumber: "AS-1"}
	require.NoError(t, db.Create(&a).Error)
	st := domain.Station{Name: "North"}
	require.NoError(t, db.Create(&st).Error)
	return db, a, st
}

func allocate(t *testing.T, db *gorm.DB, assetID, stationID, batchID uint, units int) {
	as := domain.Assignment{AssetID: assetID, StationID: stationID}
	for i := 0; i < units; i++ {
		id := batchID
		as.BatchAllocations = append(as.BatchAllocations, domain.BatchAllocation{BatchID: &id})
	}
	require.NoError(t, db.Create(&as).Error)
}

func TestInput_PriceFromStringOrNumber(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","purchase_price":"12.50","quantity":2}`), &in))
	assert.True(t, decimal.RequireFromString("12.5").Equal(in.PurchasePrice))
	require.NoError(t, json.Unmarshal([]byte(`{"name":"B","purchase_price":7,"quantity":2}`), &in))
	assert.True(t, decimal.NewFromInt(7).Equal(in.PurchasePrice))
}

func TestCreate(t *testing.T) {
	db, a, _ := seed(t)
	s := &Service{DB: db}
	ctx := context.Background()
	date := "2024-03-01"

	b, err := s.Create(ctx, a.ID, Input{Name: "Spring order", PurchaseDate: &date, PurchasePrice: decimal.RequireFromString("99.999"), Quantity: 4})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("100").Equal(b.PurchasePrice))
	require.NotNil(t, b.PurchaseDate)
	assert.Equal(t, date, b.PurchaseDate.Format(dateLayout))
	assert.Equal(t, int64(4), b.Available)

	_, err = s.Create(ctx, 999, Input{Name: "X", Quantity: 1})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestCreate_Validation(t *testing.T) {
	db, a, _ := seed(t)
	s := &Service{DB: db}
	bad := "01/03/2024"

	_, err := s.Create(context.Background(), a.ID, Input{Name: "", PurchaseDate: &bad, PurchasePrice: decimal.NewFromInt(-1), Quantity: 0})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "name")
	assert.Contains(t, verr.Fields, "purchase_date")
	assert.Equal(t, "must be at least 0", verr.Fields["purchase_price"])
	assert.Equal(t, "must be at least 1", verr.Fields["quantity"])
}

func TestUpdate_QuantityFloor(t *testing.T) {
	db, a, st := seed(t)
	s := &Service{DB: db}
	ctx := context.Background()
	b, err := s.Create(ctx, a.ID, Input{Name: "B1", PurchasePrice: decimal.NewFromInt(10), Quantity: 5})
	require.NoError(t, err)
	allocate(t, db, a.ID, st.ID, b.ID, 3)

	_, err = s.Update(ctx, b.ID, Input{Name: "B1", PurchasePrice: decimal.NewFromInt(10), Quantity: 2})
	assert.ErrorIs(t, err, ErrQuantityBelowInUse)

	got, err := s.Update(ctx, b.ID, Input{Name: "B1 renamed", PurchasePrice: decimal.NewFromInt(12), Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "B1 renamed", got.Name)
	assert.Equal(t, int64(3), got.Allocated)
	assert.Equal(t, int64(0), got.Available)
}

func TestListAndDelete(t *testing.T) {
	db, a, st := seed(t)
	s := &Service{DB: db}
	ctx := context.Background()
	used, err := s.Create(ctx, a.ID, Input{Name: "Used", Quantity: 2})
	require.NoError(t, err)
	spare, err := s.Create(ctx, a.ID, Input{Name: "Spare", Quantity: 1})
	require.NoError(t, err)
	allocate(t, db, a.ID, st.ID, used.ID, 1)

	list, err := s.ListByAsset(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Used", list[0].Name)
	assert.Equal(t, int64(1), list[0].Allocated)
	assert.Equal(t, int64(1), list[1].Available)

	assert.ErrorIs(t, s.Delete(ctx, used.ID), ErrBatchHasAllocations)
	require.NoError(t, s.Delete(ctx, spare.ID))
	_, err = s.Get(ctx, spare.ID)
	assert.ErrorIs(t, err, ErrBatchNotFound)
}
