package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temirlan230/friendgallery/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PhotoRepository persists photo metadata and tag associations. Multi-document
// writes (photo plus its tags) run inside one session transaction so a failed
// operation leaves no partial state.
type PhotoRepository struct {
	db     *mongo.Database
	photos *mongo.Collection
	tags   *mongo.Collection
}

func NewPhotoRepository(db *mongo.Database) *PhotoRepository {
	return &PhotoRepository{
		db:     db,
		photos: db.Collection("photos"),
		tags:   db.Collection("photo_tags"),
	}
}

// InsertPhotoWithTags creates the photo row and one tag row per tagged user,
// atomically. Tag ids must already be filtered to current friends.
func (r *PhotoRepository) InsertPhotoWithTags(ctx context.Context, photo *models.Photo, tagIDs []primitive.ObjectID) (*models.Photo, error) {
	photo.UploadedAt = time.Now()

	session, err := r.db.Client().StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.photos.InsertOne(sc, photo)
		if err != nil {
			return nil, fmt.Errorf("failed to insert photo: %v", err)
		}

		insertedID, ok := result.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("failed to cast inserted ID")
		}
		photo.ID = insertedID

		for _, userID := range tagIDs {
			tag := models.PhotoTag{PhotoID: photo.ID, UserID: userID}
			if _, err := r.tags.InsertOne(sc, tag); err != nil {
				return nil, fmt.Errorf("failed to insert photo tag: %v", err)
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"photoID": photo.ID.Hex(),
		"tags":    len(tagIDs),
	}).Info("Photo inserted")
	return photo, nil
}

// GetPhotoByID fetches a photo by id. Returns (nil, nil) when absent.
func (r *PhotoRepository) GetPhotoByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	var photo models.Photo
	err := r.photos.FindOne(ctx, bson.M{"_id": id}).Decode(&photo)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find photo: %v", err)
	}
	return &photo, nil
}

// GetPhotosByUploaders returns photos owned by any of the given users,
// newest first. A limit of 0 means no limit.
func (r *PhotoRepository) GetPhotosByUploaders(ctx context.Context, uploaderIDs []primitive.ObjectID, limit int64) ([]models.Photo, error) {
	filter := bson.M{"uploader_id": bson.M{"$in": uploaderIDs}}
	opts := options.Find().SetSort(bson.D{{Key: "uploaded_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.photos.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %v", err)
	}
	defer cursor.Close(ctx)

	var photos []models.Photo
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photos: %v", err)
	}
	return photos, nil
}

// DeletePhotoWithTags removes the photo and all its tag rows atomically.
func (r *PhotoRepository) DeletePhotoWithTags(ctx context.Context, photoID primitive.ObjectID) error {
	session, err := r.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.tags.DeleteMany(sc, bson.M{"photo_id": photoID}); err != nil {
			return nil, fmt.Errorf("failed to delete photo tags: %v", err)
		}
		if _, err := r.photos.DeleteOne(sc, bson.M{"_id": photoID}); err != nil {
			return nil, fmt.Errorf("failed to delete photo: %v", err)
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	logrus.WithField("photoID", photoID.Hex()).Info("Photo deleted")
	return nil
}

// GetTagsForPhoto returns the ids of users tagged on the photo.
func (r *PhotoRepository) GetTagsForPhoto(ctx context.Context, photoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.tags.Find(ctx, bson.M{"photo_id": photoID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photo tags: %v", err)
	}
	defer cursor.Close(ctx)

	var userIDs []primitive.ObjectID
	for cursor.Next(ctx) {
		var tag models.PhotoTag
		if err := cursor.Decode(&tag); err != nil {
			return nil, err
		}
		userIDs = append(userIDs, tag.UserID)
	}
	return userIDs, nil
}
