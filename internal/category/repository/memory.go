package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/fekuna/omnipos-wms-service/internal/category/dto"
	"github.com/fekuna/omnipos-wms-service/internal/model"
	"github.com/fekuna/omnipos-wms-service/internal/store/memory"
)

type MemoryRepository struct {
	store *memory.Store
}

func NewMemoryRepository(store *memory.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.store.Write(func(d *memory.Data) error {
		d.Categories[c.ID] = *c
		return nil
	})
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	var out *model.Category
	err := r.store.Read(func(d *memory.Data) error {
		if c, ok := d.Categories[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *MemoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	var out *model.Category
	err := r.store.Read(func(d *memory.Data) error {
		for _, c := range d.Categories {
			if c.Name == name {
				c := c
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *MemoryRepository) FindAll(ctx context.Context, f *dto.CategoryFilters) ([]model.Category, int, error) {
	var items []model.Category
	var count int
	err := r.store.Read(func(d *memory.Data) error {
		search := strings.ToLower(f.Search)
		matched := []model.Category{}
		for _, c := range d.Categories {
			if search != "" && !matches(search, c.Name, c.Description) {
				continue
			}
			matched = append(matched, c)
		}
		sort.Slice(matched, func(i, j int) bool {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		})
		count = len(matched)
		start, end := memory.Paginate(count, f.Page, f.PageSize)
		items = matched[start:end]
		return nil
	})
	return items, count, err
}

func matches(search, name string, description *string) bool {
	if strings.Contains(strings.ToLower(name), search) {
		return true
	}
	return description != nil && strings.Contains(strings.ToLower(*description), search)
}

func (r *MemoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.store.Write(func(d *memory.Data) error {
		if _, ok := d.Categories[c.ID]; ok {
			d.Categories[c.ID] = *c
		}
		return nil
	})
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	return r.store.Write(func(d *memory.Data) error {
		delete(d.Categories, id)
		return nil
	})
}

func (r *MemoryRepository) CountProducts(ctx context.Context, id string) (int, error) {
	count := 0
	err := r.store.Read(func(d *memory.Data) error {
		for _, p := range d.Products {
			if p.CategoryID == id {
				count++
			}
		}
		return nil
	})
	return count, err
}
