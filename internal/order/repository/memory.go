package repository

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/apperror"
	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/order/dto"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
)

type MemoryRepository struct {
	store *memory.Store
}

func NewMemoryRepository(store *memory.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(ctx context.Context, o *model.Order, movements []*model.InventoryMovement) error {
	return r.store.Write(func(d *memory.Data) error {
		row := *o
		row.Items = make([]model.OrderItem, len(o.Items))
		for i, item := range o.Items {
			item.Product = nil
			row.Items[i] = item
		}
		d.Orders[row.ID] = row
		d.OrderSeq = append(d.OrderSeq, row.ID)

		for _, m := range movements {
			if _, err := invRepo.ApplyMovementData(d, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func withProducts(d *memory.Data, o model.Order) model.Order {
	items := make([]model.OrderItem, len(o.Items))
	for i, item := range o.Items {
		if p, ok := d.Products[item.ProductID]; ok {
			item.Product = &model.ProductRef{Name: p.Name, SKU: p.SKU}
		}
		items[i] = item
	}
	o.Items = items
	return o
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var out *model.Order
	err := r.store.Read(func(d *memory.Data) error {
		if o, ok := d.Orders[id]; ok {
			o = withProducts(d, o)
			out = &o
		}
		return nil
	})
	return out, err
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.OrderFilters) ([]model.Order, int, error) {
	var items []model.Order
	var count int
	err := r.store.Read(func(d *memory.Data) error {
		matched := []model.Order{}
		// Newest first
		for i := len(d.OrderSeq) - 1; i >= 0; i-- {
			o := d.Orders[d.OrderSeq[i]]
			if f.UserID != "" && o.UserID != f.UserID {
				continue
			}
			if f.Status != "" && string(o.Status) != f.Status {
				continue
			}
			matched = append(matched, withProducts(d, o))
		}
		count = len(matched)
		start, end := memory.Paginate(count, f.Page, f.PageSize)
		items = matched[start:end]
		return nil
	})
	return items, count, err
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, o *model.Order, from model.OrderStatus, movements []*model.InventoryMovement) error {
	return r.store.Write(func(d *memory.Data) error {
		current, ok := d.Orders[o.ID]
		if !ok {
			return apperror.NotFound("order", o.ID)
		}
		if current.Status != from {
			return apperror.Conflict("order %s was modified concurrently", current.OrderNumber)
		}
		current.Status = o.Status
		current.UpdatedAt = o.UpdatedAt
		d.Orders[o.ID] = current

		for _, m := range movements {
			if _, err := invRepo.ApplyMovementData(d, m); err != nil {
				return err
			}
		}
		return nil
	})
}
