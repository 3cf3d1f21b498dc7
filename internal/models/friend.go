package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestStatus defines the state of a friend request.
type RequestStatus string

const (
	// StatusPending means a friend request has been sent but not yet answered.
	StatusPending RequestStatus = "pending"

	// StatusAccepted means the receiver accepted the request; the two users are friends.
	StatusAccepted RequestStatus = "accepted"

	// StatusRejected means the receiver rejected the request.
	StatusRejected RequestStatus = "rejected"
)

// FriendRequest is a directional proposal from one user to another.
// At most one request exists per ordered (sender, receiver) pair;
// A→B and B→A are distinct entries that may coexist while pending.
type FriendRequest struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID   primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Status     RequestStatus      `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}
