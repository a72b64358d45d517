package reports

import (
	"asset-register/internal/domain"
)

// FromDomain converts preloaded asset rows into aggregator input. Allocations whose batch was
// not loaded (deleted or never set) keep a nil Batch.
func FromDomain(assets []domain.Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		number := a.AssetNumber
		in := Asset{
			ID:          UintID(a.ID),
			Name:        a.Name,
			AssetNumber: &number,
			Assignments: make([]Assignment, 0, len(a.Assignments)),
		}
		for _, as := range a.Assignments {
			assignment := Assignment{
				ID:               UintID(as.ID),
				StationID:        UintID(as.StationID),
				AssignedAt:       as.AssignedAt,
				BatchAllocations: make([]BatchAllocation, 0, len(as.BatchAllocations)),
			}
			for _, alloc := range as.BatchAllocations {
				ba := BatchAllocation{
					ID:           UintID(alloc.ID),
					SerialNumber: alloc.SerialNumber,
					AssignedAt:   alloc.AssignedAt,
				}
				if alloc.Batch != nil {
					ba.Batch = &Batch{
						ID:            UintID(alloc.Batch.ID),
						Name:          alloc.Batch.Name,
						PurchaseDate:  alloc.Batch.PurchaseDate,
						PurchasePrice: alloc.Batch.PurchasePrice,
					}
				}
				assignment.BatchAllocations = append(assignment.BatchAllocations, ba)
			}
			in.Assignments = append(in.Assignments, assignment)
		}
		out = append(out, in)
	}
	return out
}

// StationInfoFromDomain describes a station for report headers.
func StationInfoFromDomain(s domain.Station) StationInfo {
	return StationInfo{ID: UintID(s.ID), Name: s.Name, Code: s.Code}
}
