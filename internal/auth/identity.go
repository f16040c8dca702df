package auth

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bharathbhent-backend/internal/models"
)

type IdentityKind int

const (
	Anonymous IdentityKind = iota
	UserIdentity
	AdminIdentity
)

// Identity is the resolved caller of a request. It is built once by the
// access-control middleware and handed to the services explicitly.
type Identity struct {
	Kind       IdentityKind
	ID         primitive.ObjectID
	SuperAdmin bool
}

func NewUser(id primitive.ObjectID) Identity {
	return Identity{Kind: UserIdentity, ID: id}
}

func NewAdmin(id primitive.ObjectID, superAdmin bool) Identity {
	return Identity{Kind: AdminIdentity, ID: id, SuperAdmin: superAdmin}
}

func (i Identity) IsUser() bool  { return i.Kind == UserIdentity }
func (i Identity) IsAdmin() bool { return i.Kind == AdminIdentity }

func (i Identity) Role() models.Role {
	switch i.Kind {
	case UserIdentity:
		return models.RoleUser
	case AdminIdentity:
		return models.RoleAdmin
	}
	return ""
}
