package mongodb

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// parseObjectId converts a hex id into an ObjectID, mapping bad input to ErrInvalidId.
func parseObjectId(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidId
	}
	return oid, nil
}
