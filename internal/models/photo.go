package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Photo holds metadata for an uploaded photo. The bytes themselves live in
// the blob store; BlobRef is the identifier handed back by it.
type Photo struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UploaderID primitive.ObjectID `bson:"uploader_id" json:"uploader_id"`
	BlobRef    string             `bson:"blob_ref" json:"blob_ref"`
	Caption    string             `bson:"caption,omitempty" json:"caption,omitempty"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploaded_at"`
}

// PhotoTag associates a photo with a tagged friend. A user can be tagged
// on a given photo at most once.
type PhotoTag struct {
	PhotoID primitive.ObjectID `bson:"photo_id" json:"photo_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
}
