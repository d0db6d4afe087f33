package services

import "go.mongodb.org/mongo-driver/bson/primitive"

// Identity is the authenticated caller of an operation.
type Identity struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

// Owns reports whether the caller is exactly owner. Admins get no override.
func (i Identity) Owns(owner primitive.ObjectID) bool {
	return !i.ID.IsZero() && i.ID == owner
}

func (i Identity) OwnsOrAdmin(owner primitive.ObjectID) bool {
	return i.IsAdmin || i.Owns(owner)
}
