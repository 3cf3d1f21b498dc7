package services

import (
	"context"
	"fmt"
	"io"

	"github.com/Temirlan230/friendgallery/internal/models"
	"github.com/Temirlan230/friendgallery/pkg/blobstore"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PhotoService owns the photo catalog and the visibility gate over it.
// Feed is the single aggregate exposure path: it only ever returns photos
// owned by the viewer or by the viewer's friends.
type PhotoService struct {
	photoRepo  PhotoRepo
	friendRepo FriendRequestRepo
	userRepo   UserRepo
	blobs      blobstore.Store
}

func NewPhotoService(photoRepo PhotoRepo, friendRepo FriendRequestRepo, userRepo UserRepo, blobs blobstore.Store) *PhotoService {
	return &PhotoService{
		photoRepo:  photoRepo,
		friendRepo: friendRepo,
		userRepo:   userRepo,
		blobs:      blobs,
	}
}

// FeedPhoto is a catalog entry enriched with its uploader's name and the
// URL the blob is served under.
type FeedPhoto struct {
	models.Photo
	UploaderName string `json:"uploader_name"`
	URL          string `json:"url"`
}

// PhotoDetail is the full view of a single photo.
type PhotoDetail struct {
	FeedPhoto
	Tagged []models.PublicUser `json:"tagged"`
}

// Upload stores the photo bytes, then creates the catalog entry and its tag
// rows in one atomic write. Tag candidates that are not current friends of
// the uploader are dropped here, as an explicit pre-filter: the requested
// set is intersected with the friend set before anything is written.
func (s *PhotoService) Upload(ctx context.Context, uploaderID primitive.ObjectID, file io.Reader, filename, caption string, tagCandidates []primitive.ObjectID) (*models.Photo, error) {
	blobRef, err := s.blobs.Save(ctx, file, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	tagIDs, err := s.filterToFriends(ctx, uploaderID, tagCandidates)
	if err != nil {
		s.discardBlob(blobRef)
		return nil, err
	}

	photo := &models.Photo{
		UploaderID: uploaderID,
		BlobRef:    blobRef,
		Caption:    caption,
	}

	created, err := s.photoRepo.InsertPhotoWithTags(ctx, photo, tagIDs)
	if err != nil {
		s.discardBlob(blobRef)
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"photoID":    created.ID.Hex(),
		"uploaderID": uploaderID.Hex(),
	}).Info("Photo uploaded")
	return created, nil
}

// Delete removes a photo the requester owns, cascading to its tags and,
// best-effort, to the underlying blob. Absence and foreign ownership are
// indistinguishable to the caller.
func (s *PhotoService) Delete(ctx context.Context, photoID, requesterID primitive.ObjectID) error {
	photo, err := s.photoRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("failed to look up photo: %w", err)
	}
	if photo == nil || photo.UploaderID != requesterID {
		return ErrPhotoNotFound
	}

	if err := s.photoRepo.DeletePhotoWithTags(ctx, photoID); err != nil {
		return err
	}

	// Blob removal after the committed delete; an already-absent blob is fine.
	if err := s.blobs.Delete(photo.BlobRef); err != nil {
		logrus.WithError(err).WithField("blobRef", photo.BlobRef).Warn("Failed to delete photo blob")
	}
	return nil
}

// Feed returns the photos visible to the viewer: their own and their
// friends', newest first. A limit of 0 means no limit.
func (s *PhotoService) Feed(ctx context.Context, viewerID primitive.ObjectID, limit int64) ([]FeedPhoto, error) {
	friendIDs, err := s.friendRepo.FriendIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %w", err)
	}

	ownerIDs := append(friendIDs, viewerID)
	photos, err := s.photoRepo.GetPhotosByUploaders(ctx, ownerIDs, limit)
	if err != nil {
		return nil, err
	}

	return s.enrich(ctx, photos)
}

// GetPhotoDetail returns a single photo with its tagged users. Lookup by id
// is intentionally not gated by friendship: any authenticated user who knows
// the id may view it. The feed remains the only aggregate exposure path.
func (s *PhotoService) GetPhotoDetail(ctx context.Context, photoID primitive.ObjectID) (*PhotoDetail, error) {
	photo, err := s.photoRepo.GetPhotoByID(ctx, photoID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up photo: %w", err)
	}
	if photo == nil {
		return nil, ErrPhotoNotFound
	}

	enriched, err := s.enrich(ctx, []models.Photo{*photo})
	if err != nil {
		return nil, err
	}

	tagged, err := s.GetTaggedUsers(ctx, photoID)
	if err != nil {
		return nil, err
	}

	return &PhotoDetail{FeedPhoto: enriched[0], Tagged: tagged}, nil
}

// GetTaggedUsers returns the public profiles of users tagged on a photo.
func (s *PhotoService) GetTaggedUsers(ctx context.Context, photoID primitive.ObjectID) ([]models.PublicUser, error) {
	tagIDs, err := s.photoRepo.GetTagsForPhoto(ctx, photoID)
	if err != nil {
		return nil, err
	}
	if len(tagIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, tagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get tagged users: %w", err)
	}

	tagged := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		tagged = append(tagged, models.PublicUser{ID: user.ID, Username: user.Username})
	}
	return tagged, nil
}

// GetPhotosByUser returns one user's photos, newest first.
func (s *PhotoService) GetPhotosByUser(ctx context.Context, userID primitive.ObjectID) ([]FeedPhoto, error) {
	photos, err := s.photoRepo.GetPhotosByUploaders(ctx, []primitive.ObjectID{userID}, 0)
	if err != nil {
		return nil, err
	}
	return s.enrich(ctx, photos)
}

// filterToFriends intersects the requested tag ids with the uploader's
// current friend set, deduplicating along the way.
func (s *PhotoService) filterToFriends(ctx context.Context, uploaderID primitive.ObjectID, candidates []primitive.ObjectID) ([]primitive.ObjectID, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	friendIDs, err := s.friendRepo.FriendIDs(ctx, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend IDs: %w", err)
	}

	friends := make(map[primitive.ObjectID]bool, len(friendIDs))
	for _, id := range friendIDs {
		friends[id] = true
	}

	var tagIDs []primitive.ObjectID
	seen := make(map[primitive.ObjectID]bool, len(candidates))
	for _, id := range candidates {
		if friends[id] && !seen[id] {
			tagIDs = append(tagIDs, id)
			seen[id] = true
		}
	}
	return tagIDs, nil
}

// enrich attaches uploader names and blob URLs to catalog entries.
func (s *PhotoService) enrich(ctx context.Context, photos []models.Photo) ([]FeedPhoto, error) {
	if len(photos) == 0 {
		return []FeedPhoto{}, nil
	}

	uploaderIDs := make([]primitive.ObjectID, 0, len(photos))
	seen := make(map[primitive.ObjectID]bool, len(photos))
	for _, p := range photos {
		if !seen[p.UploaderID] {
			uploaderIDs = append(uploaderIDs, p.UploaderID)
			seen[p.UploaderID] = true
		}
	}

	users, err := s.userRepo.GetUsersByIDs(ctx, uploaderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get uploaders: %w", err)
	}
	names := make(map[primitive.ObjectID]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}

	feed := make([]FeedPhoto, 0, len(photos))
	for _, p := range photos {
		feed = append(feed, FeedPhoto{
			Photo:        p,
			UploaderName: names[p.UploaderID],
			URL:          s.blobs.URL(p.BlobRef),
		})
	}
	return feed, nil
}

// discardBlob removes an orphaned blob after a failed catalog write.
func (s *PhotoService) discardBlob(ref string) {
	if err := s.blobs.Delete(ref); err != nil {
		logrus.WithError(err).WithField("blobRef", ref).Warn("Failed to discard orphaned blob")
	}
}
