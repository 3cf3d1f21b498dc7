package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temirlan230/friendgallery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRepository is the friend-request ledger: the sole source of truth
// for proposals and their resolutions. Friendship is never stored; it is
// derived from accepted entries.
type FriendRepository struct {
	collection *mongo.Collection
}

func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

// CreateRequest inserts a new pending request. The unique compound index on
// (sender_id, receiver_id) backstops the duplicate check done by the service.
func (r *FriendRepository) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	req.CreatedAt = time.Now()
	req.Status = models.StatusPending

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create friend request: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetRequestByID fetches a request by id. Returns (nil, nil) when absent.
func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetRequestByPair fetches the request for the exact ordered (sender, receiver)
// pair, regardless of status. Returns (nil, nil) when absent.
func (r *FriendRepository) GetRequestByPair(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{"sender_id": senderID, "receiver_id": receiverID}

	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// GetRequestBetween fetches the request connecting two users in either
// direction. Returns (nil, nil) when none exists.
func (r *FriendRepository) GetRequestBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userA, "receiver_id": userB},
			{"sender_id": userB, "receiver_id": userA},
		},
	}

	var request models.FriendRequest
	err := r.collection.FindOne(ctx, filter).Decode(&request)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find friend request: %v", err)
	}
	return &request, nil
}

// UpdateRequestStatus sets the request's status.
func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %v", err)
	}
	return nil
}

// GetPendingByReceiver returns pending requests addressed to the user,
// most recent first. The ordering is a user-facing guarantee.
func (r *FriendRepository) GetPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"receiver_id": receiverID, "status": models.StatusPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode pending requests: %v", err)
	}
	return requests, nil
}

// GetPendingBySender returns pending requests the user has sent,
// most recent first.
func (r *FriendRepository) GetPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"sender_id": senderID, "status": models.StatusPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find sent requests: %v", err)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, fmt.Errorf("failed to decode sent requests: %v", err)
	}
	return requests, nil
}

// RelatedUserIDs returns the counterpart of every request involving the
// user, regardless of status. Users in this set cannot receive a new
// request from userID via browse.
func (r *FriendRepository) RelatedUserIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID},
			{"receiver_id": userID},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve relations: %v", err)
	}
	defer cursor.Close(ctx)

	var related []primitive.ObjectID
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}

		if req.SenderID == userID {
			related = append(related, req.ReceiverID)
		} else {
			related = append(related, req.SenderID)
		}
	}

	return related, nil
}

// FriendIDs derives the user's friend set from accepted ledger entries.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"$or": []bson.M{
			{"sender_id": userID, "status": models.StatusAccepted},
			{"receiver_id": userID, "status": models.StatusAccepted},
		},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve friends: %v", err)
	}
	defer cursor.Close(ctx)

	var friends []primitive.ObjectID
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, err
		}

		if req.SenderID == userID {
			friends = append(friends, req.ReceiverID)
		} else {
			friends = append(friends, req.SenderID)
		}
	}

	return friends, nil
}
