package memory

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
	"bharathbhent-backend/internal/repository"
)

type Users struct{ db *DB }

func (r *Users) Create(_ context.Context, u *models.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.users {
		if x.Email == u.Email || x.Mobile == u.Mobile {
			return repository.ErrDuplicate
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.SavedProducts == nil {
		u.SavedProducts = []primitive.ObjectID{}
	}
	r.db.users[u.ID] = cloneUser(u)
	return nil
}

func (r *Users) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Users) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) List(_ context.Context) ([]models.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]models.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, *cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Users) SetVerified(_ context.Context, email string) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == email {
			u.IsVerified = true
			return cloneUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Users) UpdateProfile(_ context.Context, id primitive.ObjectID, p repository.ProfilePatch) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, x := range r.db.users {
		if x.ID == id {
			continue
		}
		if (p.Email != "" && x.Email == p.Email) || (p.Mobile != "" && x.Mobile == p.Mobile) {
			return nil, repository.ErrDuplicate
		}
	}
	if p.Name != "" {
		u.Name = p.Name
	}
	if p.Email != "" {
		u.Email = p.Email
	}
	if p.Mobile != "" {
		u.Mobile = p.Mobile
	}
	return cloneUser(u), nil
}

func (r *Users) AddSaved(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !u.HasSaved(productID) {
		u.SavedProducts = append(u.SavedProducts, productID)
	}
	return cloneUser(u), nil
}

func (r *Users) RemoveSaved(_ context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	kept := u.SavedProducts[:0]
	for _, p := range u.SavedProducts {
		if p != productID {
			kept = append(kept, p)
		}
	}
	u.SavedProducts = kept
	return cloneUser(u), nil
}

type Admins struct{ db *DB }

func (r *Admins) Create(_ context.Context, a *models.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, x := range r.db.admins {
		if x.Email == a.Email || x.Mobile == a.Mobile {
			return repository.ErrDuplicate
		}
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	r.db.admins[a.ID] = cloneAdmin(a)
	return nil
}

func (r *Admins) FindByID(_ context.Context, id primitive.ObjectID) (*models.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	a, ok := r.db.admins[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneAdmin(a), nil
}

func (r *Admins) FindByEmail(_ context.Context, email string) (*models.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, a := range r.db.admins {
		if a.Email == email {
			return cloneAdmin(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Admins) SetVerified(_ context.Context, email string) (*models.Admin, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, a := range r.db.admins {
		if a.Email == email {
			a.IsVerified = true
			return cloneAdmin(a), nil
		}
	}
	return nil, repository.ErrNotFound
}

type OTPs struct{ db *DB }

func (r *OTPs) Create(_ context.Context, o *models.OTP) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	if ttl := r.db.otpTTL; ttl > 0 {
		kept := r.db.otps[:0]
		for _, old := range r.db.otps {
			if !old.Expired(o.CreatedAt, ttl) {
				kept = append(kept, old)
			}
		}
		clear(r.db.otps[len(kept):])
		r.db.otps = kept
	}
	c := *o
	r.db.otps = append(r.db.otps, &c)
	return nil
}

func (r *OTPs) Consume(_ context.Context, email, code string) (*models.OTP, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, o := range r.db.otps {
		if o.Email == email && o.Code == code {
			r.db.otps = append(r.db.otps[:i], r.db.otps[i+1:]...)
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

// Len reports how many codes are stored.
func (r *OTPs) Len() int {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return len(r.db.otps)
}
