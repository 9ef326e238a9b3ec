package repository

import (
	"context"
	"sort"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	"github.com/fekuna/omnipos-wms-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
)

type MemoryRepository struct {
	store *memory.Store
}

func NewMemoryRepository(store *memory.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) ApplyMovement(ctx context.Context, m *model.InventoryMovement) (*model.Product, error) {
	var out *model.Product
	err := r.store.Write(func(d *memory.Data) error {
		p, err := ApplyMovementData(d, m)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyMovementData is the in-memory counterpart of ApplyMovementTx. It must run inside Store.Write.
func ApplyMovementData(d *memory.Data, m *model.InventoryMovement) (*model.Product, error) {
	p, ok := d.Products[m.ProductID]
	if !ok {
		return nil, apperror.NotFound("product", m.ProductID)
	}
	if m.Type == model.MovementOut && p.Stock < m.Quantity {
		return nil, &apperror.StockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Stock,
			Requested:   m.Quantity,
		}
	}

	m.StockBefore = p.Stock
	p.Stock += m.Signed()
	p.UpdatedAt = m.CreatedAt
	m.StockAfter = p.Stock

	d.Products[p.ID] = p
	d.Movements = append(d.Movements, *m)
	return &p, nil
}

func (r *MemoryRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	err := r.store.Read(func(d *memory.Data) error {
		matched := []model.InventoryMovement{}
		for _, m := range d.Movements {
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.MovementType != "" && string(m.Type) != f.MovementType {
				continue
			}
			if p, ok := d.Products[m.ProductID]; ok {
				m.Product = &model.ProductRef{Name: p.Name, SKU: p.SKU}
			}
			matched = append(matched, m)
		}

		// Newest first. Reversing before the stable sort puts later inserts first on equal timestamps.
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
		sort.SliceStable(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})

		count = len(matched)
		start, end := memory.Paginate(count, f.Page, f.PageSize)
		items = matched[start:end]
		return nil
	})
	return items, count, err
}

func (r *MemoryRepository) FindDrift(ctx context.Context) ([]model.StockDrift, error) {
	drift := []model.StockDrift{}
	err := r.store.Read(func(d *memory.Data) error {
		ledger := map[string]int{}
		for _, m := range d.Movements {
			ledger[m.ProductID] += m.Signed()
		}
		for _, p := range d.Products {
			if p.Stock != ledger[p.ID] {
				drift = append(drift, model.StockDrift{
					ProductID:   p.ID,
					SKU:         p.SKU,
					Name:        p.Name,
					Stock:       p.Stock,
					LedgerStock: ledger[p.ID],
				})
			}
		}
		return nil
	})
	sort.Slice(drift, func(i, j int) bool { return drift[i].SKU < drift[j].SKU })
	return drift, err
}
