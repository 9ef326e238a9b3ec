package repository

import (
	"context"
	"sort"
	"strings"

	invRepo "github.com/fekuna/omnipos-wms-service/internal/inventory/repository"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/product/dto"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
)

type MemoryRepository struct {
	store *memory.Store
}

func NewMemoryRepository(store *memory.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(ctx context.Context, p *model.Product, opening *model.InventoryMovement) error {
	return r.store.Write(func(d *memory.Data) error {
		row := *p
		row.Stock = 0
		row.Category = nil
		row.RackLocation = nil
		d.Products[row.ID] = row

		if opening != nil {
			if _, err := invRepo.ApplyMovementData(d, opening); err != nil {
				return err
			}
			p.Stock = opening.StockAfter
		}
		return nil
	})
}

func withRefs(d *memory.Data, p model.Product) model.Product {
	if c, ok := d.Categories[p.CategoryID]; ok {
		p.Category = &c
	}
	if p.RackLocationID != nil {
		if loc, ok := d.RackLocations[*p.RackLocationID]; ok {
			p.RackLocation = &loc
		}
	}
	return p
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var out *model.Product
	err := r.store.Read(func(d *memory.Data) error {
		if p, ok := d.Products[id]; ok {
			p = withRefs(d, p)
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *MemoryRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	products := make([]model.Product, 0, len(ids))
	err := r.store.Read(func(d *memory.Data) error {
		for _, id := range ids {
			if p, ok := d.Products[id]; ok {
				products = append(products, withRefs(d, p))
			}
		}
		return nil
	})
	return products, err
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var items []model.Product
	var count int
	err := r.store.Read(func(d *memory.Data) error {
		search := strings.ToLower(f.Search)
		matched := []model.Product{}
		for _, p := range d.Products {
			if !f.IncludeArchived && !p.IsActive {
				continue
			}
			if f.CategoryID != "" && p.CategoryID != f.CategoryID {
				continue
			}
			if f.RackLocationID != "" && (p.RackLocationID == nil || *p.RackLocationID != f.RackLocationID) {
				continue
			}
			p = withRefs(d, p)
			if search != "" && !matchesProduct(search, &p) {
				continue
			}
			matched = append(matched, p)
		}

		sortProducts(matched, f.SortBy, strings.ToLower(f.SortOrder) == "asc")
		count = len(matched)
		start, end := memory.Paginate(count, f.Page, f.PageSize)
		items = matched[start:end]
		return nil
	})
	return items, count, err
}

func matchesProduct(search string, p *model.Product) bool {
	if strings.Contains(strings.ToLower(p.Name), search) || strings.Contains(strings.ToLower(p.SKU), search) {
		return true
	}
	return p.Category != nil && strings.Contains(strings.ToLower(p.Category.Name), search)
}

func sortProducts(items []model.Product, sortBy string, asc bool) {
	less := func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	switch sortBy {
	case "name":
		less = func(i, j int) bool { return items[i].Name < items[j].Name }
	case "price":
		less = func(i, j int) bool { return items[i].Price.LessThan(items[j].Price) }
	case "stock":
		less = func(i, j int) bool { return items[i].Stock < items[j].Stock }
	}
	sort.SliceStable(items, func(i, j int) bool {
		if asc {
			return less(i, j)
		}
		return less(j, i)
	})
}

func (r *MemoryRepository) Update(ctx context.Context, p *model.Product) error {
	return r.store.Write(func(d *memory.Data) error {
		current, ok := d.Products[p.ID]
		if !ok {
			return nil
		}
		row := *p
		row.Stock = current.Stock
		row.Category = nil
		row.RackLocation = nil
		d.Products[p.ID] = row
		return nil
	})
}

func (r *MemoryRepository) Archive(ctx context.Context, id string) error {
	return r.store.Write(func(d *memory.Data) error {
		if p, ok := d.Products[id]; ok {
			p.IsActive = false
			d.Products[id] = p
		}
		return nil
	})
}

func (r *MemoryRepository) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	unique := true
	err := r.store.Read(func(d *memory.Data) error {
		for _, p := range d.Products {
			if p.SKU == sku && p.ID != excludeID {
				unique = false
				return nil
			}
		}
		return nil
	})
	return unique, err
}
