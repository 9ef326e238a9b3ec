package repository

import (
	"context"
	"sort"
	"time"

	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/report/dto"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
	"github.com/shopspring/decimal"
)

type MemoryRepository struct {
	store *memory.Store
}

func NewMemoryRepository(store *memory.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) LowStock(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := r.store.Read(func(d *memory.Data) error {
		for _, p := range d.Products {
			if p.IsActive && p.IsLowStock() {
				out = append(out, p)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stock != out[j].Stock {
			return out[i].Stock < out[j].Stock
		}
		return out[i].Name < out[j].Name
	})
	return out, err
}

func (r *MemoryRepository) BestSellers(ctx context.Context, since time.Time, limit int) ([]dto.BestSeller, error) {
	byProduct := map[string]*dto.BestSeller{}
	err := r.store.Read(func(d *memory.Data) error {
		for _, o := range d.Orders {
			if o.Status == model.OrderCancelled || o.CreatedAt.Before(since) {
				continue
			}
			for _, item := range o.Items {
				b, ok := byProduct[item.ProductID]
				if !ok {
					p := d.Products[item.ProductID]
					b = &dto.BestSeller{ProductID: item.ProductID, SKU: p.SKU, Name: p.Name, Revenue: decimal.Zero}
					byProduct[item.ProductID] = b
				}
				b.Quantity += item.Quantity
				b.Revenue = b.Revenue.Add(item.Subtotal())
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.BestSeller, 0, len(byProduct))
	for _, b := range byProduct {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepository) Sales(ctx context.Context, since time.Time, day bool) ([]dto.SalesBucket, error) {
	layout := "2006-01"
	if day {
		layout = "2006-01-02"
	}
	byPeriod := map[string]*dto.SalesBucket{}
	err := r.store.Read(func(d *memory.Data) error {
		for _, o := range d.Orders {
			if o.Status == model.OrderCancelled || o.CreatedAt.Before(since) {
				continue
			}
			period := o.CreatedAt.UTC().Format(layout)
			b, ok := byPeriod[period]
			if !ok {
				b = &dto.SalesBucket{Period: period, TotalAmount: decimal.Zero}
				byPeriod[period] = b
			}
			b.TotalAmount = b.TotalAmount.Add(o.TotalAmount)
			b.OrderCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]dto.SalesBucket, 0, len(byPeriod))
	for _, b := range byPeriod {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func (r *MemoryRepository) Counts(ctx context.Context) (*dto.Counts, error) {
	var c dto.Counts
	err := r.store.Read(func(d *memory.Data) error {
		for _, p := range d.Products {
			if !p.IsActive {
				continue
			}
			c.TotalProducts++
			c.TotalStock += p.Stock
			if p.IsLowStock() {
				c.LowStockCount++
			}
		}
		c.TotalOrders = len(d.Orders)
		return nil
	})
	return &c, err
}
