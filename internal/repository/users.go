package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bharathbhent-backend/internal/models"
)

// ProfilePatch holds the profile fields to change; empty fields are left as is.
type ProfilePatch struct {
	Name   string
	Email  string
	Mobile string
}

func (p ProfilePatch) set() bson.M {
	set := bson.M{}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Email != "" {
		set["email"] = p.Email
	}
	if p.Mobile != "" {
		set["mobile"] = p.Mobile
	}
	return set
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(m *MongoDB) *UserRepository {
	return &UserRepository{col: m.Users}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	if u.SavedProducts == nil {
		u.SavedProducts = []primitive.ObjectID{}
	}
	_, err := r.col.InsertOne(ctx, u)
	return translate(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	cur, err := r.col.Find(ctx, bson.M{}, newestFirst)
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) SetVerified(ctx context.Context, email string) (*models.User, error) {
	return r.update(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"isVerified": true}})
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, patch ProfilePatch) (*models.User, error) {
	set := patch.set()
	if len(set) == 0 {
		return r.FindByID(ctx, id)
	}
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *UserRepository) AddSaved(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$addToSet": bson.M{"savedProducts": productID}})
}

func (r *UserRepository) RemoveSaved(ctx context.Context, id, productID primitive.ObjectID) (*models.User, error) {
	return r.update(ctx, bson.M{"_id": id}, bson.M{"$pull": bson.M{"savedProducts": productID}})
}

func (r *UserRepository) update(ctx context.Context, filter, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&u); err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

type AdminRepository struct {
	col *mongo.Collection
}

func NewAdminRepository(m *MongoDB) *AdminRepository {
	return &AdminRepository{col: m.Admins}
}

func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	_, err := r.col.InsertOne(ctx, a)
	return translate(err)
}

func (r *AdminRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *AdminRepository) findOne(ctx context.Context, filter bson.M) (*models.Admin, error) {
	var a models.Admin
	if err := r.col.FindOne(ctx, filter).Decode(&a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *AdminRepository) SetVerified(ctx context.Context, email string) (*models.Admin, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Admin
	err := r.col.FindOneAndUpdate(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"isVerified": true}}, opts).Decode(&a)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

type OTPRepository struct {
	col *mongo.Collection
}

func NewOTPRepository(m *MongoDB) *OTPRepository {
	return &OTPRepository{col: m.OTPs}
}

func (r *OTPRepository) Create(ctx context.Context, o *models.OTP) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	_, err := r.col.InsertOne(ctx, o)
	return translate(err)
}

// Consume removes and returns the record matching email and code.
func (r *OTPRepository) Consume(ctx context.Context, email, code string) (*models.OTP, error) {
	var o models.OTP
	err := r.col.FindOneAndDelete(ctx, bson.M{"email": email, "code": code}).Decode(&o)
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}
