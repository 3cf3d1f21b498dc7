package services

import (
	"context"
	"sort"
	"time"

	"github.com/Temirlan230/friendgallery/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces. Timestamps are assigned
// from a monotonic counter so ordering assertions are deterministic.

var fakeClock = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeFriendRepo struct {
	requests map[primitive.ObjectID]*models.FriendRequest
	seq      int
}

func newFakeFriendRepo() *fakeFriendRepo {
	return &fakeFriendRepo{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (r *fakeFriendRepo) CreateRequest(ctx context.Context, req *models.FriendRequest) (*models.FriendRequest, error) {
	r.seq++
	req.ID = primitive.NewObjectID()
	req.Status = models.StatusPending
	req.CreatedAt = fakeClock.Add(time.Duration(r.seq) * time.Second)
	stored := *req
	r.requests[req.ID] = &stored
	return req, nil
}

func (r *fakeFriendRepo) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	req, ok := r.requests[id]
	if !ok {
		return nil, nil
	}
	copy := *req
	return &copy, nil
}

func (r *fakeFriendRepo) GetRequestByPair(ctx context.Context, senderID, receiverID primitive.ObjectID) (*models.FriendRequest, error) {
	for _, req := range r.requests {
		if req.SenderID == senderID && req.ReceiverID == receiverID {
			copy := *req
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendRepo) GetRequestBetween(ctx context.Context, userA, userB primitive.ObjectID) (*models.FriendRequest, error) {
	for _, req := range r.requests {
		if (req.SenderID == userA && req.ReceiverID == userB) ||
			(req.SenderID == userB && req.ReceiverID == userA) {
			copy := *req
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeFriendRepo) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status models.RequestStatus) error {
	if req, ok := r.requests[id]; ok {
		req.Status = status
	}
	return nil
}

func (r *fakeFriendRepo) GetPendingByReceiver(ctx context.Context, receiverID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range r.requests {
		if req.ReceiverID == receiverID && req.Status == models.StatusPending {
			out = append(out, *req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeFriendRepo) GetPendingBySender(ctx context.Context, senderID primitive.ObjectID) ([]models.FriendRequest, error) {
	var out []models.FriendRequest
	for _, req := range r.requests {
		if req.SenderID == senderID && req.Status == models.StatusPending {
			out = append(out, *req)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *fakeFriendRepo) FriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var friends []primitive.ObjectID
	for _, req := range r.requests {
		if req.Status != models.StatusAccepted {
			continue
		}
		if req.SenderID == userID {
			friends = append(friends, req.ReceiverID)
		} else if req.ReceiverID == userID {
			friends = append(friends, req.SenderID)
		}
	}
	return friends, nil
}

func (r *fakeFriendRepo) RelatedUserIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var related []primitive.ObjectID
	for _, req := range r.requests {
		if req.SenderID == userID {
			related = append(related, req.ReceiverID)
		} else if req.ReceiverID == userID {
			related = append(related, req.SenderID)
		}
	}
	return related, nil
}

func sortNewestFirst(reqs []models.FriendRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	copy := *user
	return &copy, nil
}

func (r *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			copy := *user
			return &copy, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) GetUsersExcluding(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	excluded := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		excluded[id] = true
	}
	var out []models.User
	for _, user := range r.users {
		if !excluded[user.ID] {
			out = append(out, *user)
		}
	}
	return out, nil
}

type fakePhotoRepo struct {
	photos map[primitive.ObjectID]*models.Photo
	tags   []models.PhotoTag
	seq    int
}

func newFakePhotoRepo() *fakePhotoRepo {
	return &fakePhotoRepo{photos: make(map[primitive.ObjectID]*models.Photo)}
}

func (r *fakePhotoRepo) InsertPhotoWithTags(ctx context.Context, photo *models.Photo, tagIDs []primitive.ObjectID) (*models.Photo, error) {
	r.seq++
	photo.ID = primitive.NewObjectID()
	photo.UploadedAt = fakeClock.Add(time.Duration(r.seq) * time.Second)
	stored := *photo
	r.photos[photo.ID] = &stored
	for _, userID := range tagIDs {
		r.tags = append(r.tags, models.PhotoTag{PhotoID: photo.ID, UserID: userID})
	}
	return photo, nil
}

func (r *fakePhotoRepo) GetPhotoByID(ctx context.Context, id primitive.ObjectID) (*models.Photo, error) {
	photo, ok := r.photos[id]
	if !ok {
		return nil, nil
	}
	copy := *photo
	return &copy, nil
}

func (r *fakePhotoRepo) GetPhotosByUploaders(ctx context.Context, uploaderIDs []primitive.ObjectID, limit int64) ([]models.Photo, error) {
	owners := make(map[primitive.ObjectID]bool, len(uploaderIDs))
	for _, id := range uploaderIDs {
		owners[id] = true
	}
	var out []models.Photo
	for _, photo := range r.photos {
		if owners[photo.UploaderID] {
			out = append(out, *photo)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePhotoRepo) DeletePhotoWithTags(ctx context.Context, photoID primitive.ObjectID) error {
	delete(r.photos, photoID)
	var kept []models.PhotoTag
	for _, tag := range r.tags {
		if tag.PhotoID != photoID {
			kept = append(kept, tag)
		}
	}
	r.tags = kept
	return nil
}

func (r *fakePhotoRepo) GetTagsForPhoto(ctx context.Context, photoID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var userIDs []primitive.ObjectID
	for _, tag := range r.tags {
		if tag.PhotoID == photoID {
			userIDs = append(userIDs, tag.UserID)
		}
	}
	return userIDs, nil
}

type fakeNotificationRepo struct {
	notifications []models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(ctx context.Context, notif *models.Notification) error {
	notif.ID = primitive.NewObjectID()
	notif.CreatedAt = time.Now()
	notif.ExpiresAt = notif.CreatedAt.Add(7 * 24 * time.Hour)
	r.notifications = append(r.notifications, *notif)
	return nil
}

func (r *fakeNotificationRepo) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var out []models.Notification
	for _, notif := range r.notifications {
		if notif.UserID == userID {
			out = append(out, notif)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkAsRead(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			r.notifications[i].Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) DeleteNotification(ctx context.Context, id, userID primitive.ObjectID) (bool, error) {
	for i, notif := range r.notifications {
		if notif.ID == id && notif.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) DeleteExpiredNotifications(ctx context.Context) error {
	var kept []models.Notification
	for _, notif := range r.notifications {
		if notif.ExpiresAt.After(time.Now()) {
			kept = append(kept, notif)
		}
	}
	r.notifications = kept
	return nil
}
