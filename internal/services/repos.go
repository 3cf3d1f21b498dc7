package services

import (
	"context"

	"github.com/Temirlan230/friendgallery/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repository contracts consumed by the services. The mongo-backed types in
// internal/repository satisfy them; tests substitute in-memory fakes.
// Lookup methods return (nil, nil) for an absent record — absence is an
// expected outcome, not an error.

type FriendRequestRepo interface {
	CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestByPair(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error
	GetPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error)
	GetPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error)
	FriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	RelatedUserIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	GetUsersExcluding(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type PhotoRepo interface {
	InsertPhotoWithTags(ctx context.Context, photo *models.Photo, tagIDs []primitive.ObjectID) (*models.Photo, error)
	GetPhotoByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error)
	GetPhotosByUploaders(ctx context.Context, uploaderIDs []primitive.ObjectID, limit int64) ([]models.Photo, error)
	DeletePhotoWithTags(ctx context.Context, photoID primitive.ObjectID) error
	GetTagsForPhoto(ctx context.Context, photoID primitive.ObjectID) ([]primitive.ObjectID, error)
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, notif *models.Notification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) (bool, error)
	DeleteExpiredNotifications(ctx context.Context) error
}
