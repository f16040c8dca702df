package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type Products struct{ db *DB }

func (r *Products) Create(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.db.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *Products) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *Products) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make(map[primitive.ObjectID]*models.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.db.products[id]; ok {
			out[id] = cloneProduct(p)
		}
	}
	return out, nil
}

func (r *Products) List(_ context.Context, f repository.ProductFilter) ([]models.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []models.Product{}
	for _, p := range r.db.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, *cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Products) Update(_ context.Context, id primitive.ObjectID, patch repository.ProductPatch) (*models.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	patch.Apply(cur)
	return cloneProduct(cur), nil
}

func (r *Products) SaveReviews(_ context.Context, p *models.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Reviews = append([]models.Review{}, p.Reviews...)
	cur.Ratings = p.Ratings
	cur.NumOfReviews = p.NumOfReviews
	return nil
}

func (r *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.products, id)
	return nil
}
