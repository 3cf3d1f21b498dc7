package services

import (
	"context"
	"fmt"

	"github.com/Temirlan230/friendgallery/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService owns the friend-request state machine and the friendship
// view derived from it:
//
//	[none] --propose--> pending --accept--> accepted (terminal)
//	                    pending --reject--> rejected (terminal)
type FriendService struct {
	friendRepo    FriendRequestRepo
	userRepo      UserRepo
	notifications *NotificationService
}

// NewFriendService creates a new FriendService. notifications may be nil.
func NewFriendService(friendRepo FriendRequestRepo, userRepo UserRepo, notifications *NotificationService) *FriendService {
	return &FriendService{
		friendRepo:    friendRepo,
		userRepo:      userRepo,
		notifications: notifications,
	}
}

// SendFriendRequest creates a new pending request from sender to receiver.
// The duplicate check is on the exact ordered pair: an existing A→B request
// blocks another A→B regardless of status, but not a B→A one.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	receiver, err := s.userRepo.GetUserByID(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up receiver: %w", err)
	}
	if receiver == nil {
		return nil, ErrUserNotFound
	}

	existing, err := s.friendRepo.GetRequestByPair(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing request: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateRequest
	}

	request := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
	}

	created, err := s.friendRepo.CreateRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, receiverID, "request_received", "New friend request",
		"You have received a new friend request.", &created.ID)

	return created, nil
}

// RespondToRequest resolves a pending request. Authorization is structural:
// the request must be addressed to receiverID, otherwise it is reported as
// not found. A request that already reached a terminal state stays there.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID, receiverID primitive.ObjectID, accept bool) (*models.FriendRequest, error) {
	request, err := s.friendRepo.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up request: %w", err)
	}
	if request == nil || request.ReceiverID != receiverID {
		return nil, ErrRequestNotFound
	}

	if request.Status != models.StatusPending {
		return nil, ErrAlreadyResolved
	}

	status := models.StatusRejected
	if accept {
		status = models.StatusAccepted
	}

	if err := s.friendRepo.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return nil, err
	}
	request.Status = status

	logrus.WithFields(logrus.Fields{
		"requestID": requestID.Hex(),
		"status":    status,
	}).Info("Friend request resolved")

	if accept {
		s.notify(ctx, request.SenderID, "request_accepted", "Friend request accepted",
			"Your friend request was accepted.", &request.ID)
	}

	return request, nil
}

// GetFriendIDs returns the ids of the user's friends, derived from accepted
// ledger entries. Symmetric by construction of the query.
func (s *FriendService) GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return s.friendRepo.FriendIDs(ctx, userID)
}

// GetFriends returns the user's friends as public profiles.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	friendIDs, err := s.friendRepo.FriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %w", err)
	}

	if len(friendIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	publicFriends := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		publicFriends = append(publicFriends, models.PublicUser{
			ID:       user.ID,
			Username: user.Username,
		})
	}

	return publicFriends, nil
}

// GetPendingIncoming fetches pending requests addressed to the user,
// most recent first.
func (s *FriendService) GetPendingIncoming(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetPendingByReceiver(ctx, userID)
}

// GetPendingOutgoing fetches pending requests the user has sent,
// most recent first.
func (s *FriendService) GetPendingOutgoing(ctx context.Context, userID primitive.ObjectID) ([]models.FriendRequest, error) {
	return s.friendRepo.GetPendingBySender(ctx, userID)
}

// GetRelationBetween returns the single request connecting two users in
// either direction, or nil when they have never interacted.
func (s *FriendService) GetRelationBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	return s.friendRepo.GetRequestBetween(ctx, userA, userB)
}

// AreFriends reports whether an accepted request connects the two users.
func (s *FriendService) AreFriends(ctx context.Context, userA, userB primitive.ObjectID) (bool, error) {
	request, err := s.friendRepo.GetRequestBetween(ctx, userA, userB)
	if err != nil {
		return false, err
	}
	return request != nil && request.Status == models.StatusAccepted, nil
}

// notify records an in-app notification, best-effort.
func (s *FriendService) notify(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, targetID *primitive.ObjectID) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.CreateNotification(ctx, userID, notifType, title, message, targetID); err != nil {
		logrus.WithError(err).Warn("Failed to create notification")
	}
}
