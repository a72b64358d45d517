package reports

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item is one physical unit in a station report.
type Item struct {
	SerialNumber *string    `json:"serial_number"`
	AssignedAt   *time.Time `json:"assigned_at,omitempty"`
}

// AggregatedBatch groups the units of one purchase batch under an asset.
type AggregatedBatch struct {
	BatchID       ID              `json:"batch_id"`
	Name          string          `json:"name"`
	PurchaseDate  *time.Time      `json:"purchase_date,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	Items         []Item          `json:"items"`
}

// AggregatedAsset is an asset with the batches it holds at one station.
type AggregatedAsset struct {
	AssetID     ID                `json:"asset_id"`
	Name        string            `json:"name"`
	AssetNumber *string           `json:"asset_number"`
	Batches     []AggregatedBatch `json:"batches"`
}

// Aggregate is the Asset → Batch → Item hierarchy of one station plus its total value.
type Aggregate struct {
	GroupedAssets []AggregatedAsset `json:"grouped_assets"`
	TotalValue    decimal.Decimal   `json:"total_value"`
}

// AggregateForStation groups the allocations assigned to stationID by asset and batch and sums
// the purchase price of every allocated unit.
//
// Only assignments whose station id numerically equals stationID contribute. Allocations
// without a batch are skipped. Assets and batches keep first-seen input order; records sharing
// an asset id are merged. Asset and batch ids match by numeric value, like station ids.
// A batch's price is counted once per allocated unit, not once per batch. The input is never
// modified.
func AggregateForStation(assets []Asset, stationID ID) Aggregate {
	out := Aggregate{GroupedAssets: []AggregatedAsset{}, TotalValue: decimal.Zero}
	if _, ok := stationID.Numeric(); !ok {
		return out
	}

	type assetGroup struct {
		asset      AggregatedAsset
		batchIndex map[string]int
	}
	var groups []*assetGroup
	byAssetID := map[string]*assetGroup{}

	for _, asset := range assets {
		var group *assetGroup
		for _, assignment := range asset.Assignments {
			if !assignment.StationID.SameNumber(stationID) {
				continue
			}
			for _, alloc := range assignment.BatchAllocations {
				if alloc.Batch == nil {
					continue
				}
				if group == nil {
					group = byAssetID[asset.ID.key()]
					if group == nil {
						group = &assetGroup{
							asset: AggregatedAsset{
								AssetID:     asset.ID,
								Name:        asset.Name,
								AssetNumber: copyString(asset.AssetNumber),
								Batches:     []AggregatedBatch{},
							},
							batchIndex: map[string]int{},
						}
						groups = append(groups, group)
						if asset.ID != "" {
							byAssetID[asset.ID.key()] = group
						}
					}
				}

				key := batchKey(alloc.Batch)
				idx, seen := group.batchIndex[key]
				if !seen {
					idx = len(group.asset.Batches)
					group.batchIndex[key] = idx
					group.asset.Batches = append(group.asset.Batches, AggregatedBatch{
						BatchID:       alloc.Batch.ID,
						Name:          batchName(alloc.Batch),
						PurchaseDate:  copyTime(alloc.Batch.PurchaseDate),
						PurchasePrice: alloc.Batch.PurchasePrice,
						Items:         []Item{},
					})
				}
				group.asset.Batches[idx].Items = append(group.asset.Batches[idx].Items, Item{
					SerialNumber: copyString(alloc.SerialNumber),
					AssignedAt:   effectiveDate(alloc, assignment),
				})
				out.TotalValue = out.TotalValue.Add(alloc.Batch.PurchasePrice)
			}
		}
	}

	for _, g := range groups {
		out.GroupedAssets = append(out.GroupedAssets, g.asset)
	}
	return out
}

// ItemCount returns the number of units in the aggregate.
func (a Aggregate) ItemCount() int {
	n := 0
	for _, asset := range a.GroupedAssets {
		for _, batch := range asset.Batches {
			n += len(batch.Items)
		}
	}
	return n
}

func batchKey(b *Batch) string {
	if b.ID != "" {
		return "id:" + b.ID.key()
	}
	return "name:" + b.Name
}

func batchName(b *Batch) string {
	if b.Name != "" {
		return b.Name
	}
	return string(b.ID)
}

func effectiveDate(alloc BatchAllocation, assignment Assignment) *time.Time {
	if alloc.AssignedAt != nil {
		return copyTime(alloc.AssignedAt)
	}
	return copyTime(assignment.AssignedAt)
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
