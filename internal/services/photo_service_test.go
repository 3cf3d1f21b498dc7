package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Temirlan230/friendgallery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeBlobStore struct {
	blobs map[string][]byte
	seq   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: make(map[string][]byte)}
}

func (s *fakeBlobStore) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.seq++
	ref := fmt.Sprintf("blob-%d", s.seq)
	s.blobs[ref] = data
	return ref, nil
}

func (s *fakeBlobStore) Delete(ref string) error {
	delete(s.blobs, ref)
	return nil
}

func (s *fakeBlobStore) URL(ref string) string {
	return "/uploads/" + ref
}

type photoFixture struct {
	photos  *PhotoService
	friends *FriendService
	users   *fakeUserRepo
	repo    *fakePhotoRepo
	blobs   *fakeBlobStore
}

func newPhotoFixture() *photoFixture {
	friendRepo := newFakeFriendRepo()
	userRepo := newFakeUserRepo()
	photoRepo := newFakePhotoRepo()
	blobs := newFakeBlobStore()
	return &photoFixture{
		photos:  NewPhotoService(photoRepo, friendRepo, userRepo, blobs),
		friends: NewFriendService(friendRepo, userRepo, nil),
		users:   userRepo,
		repo:    photoRepo,
		blobs:   blobs,
	}
}

func (f *photoFixture) befriend(t *testing.T, a, b *models.User) {
	t.Helper()
	req, err := f.friends.SendFriendRequest(context.Background(), a.ID, b.ID)
	require.NoError(t, err)
	_, err = f.friends.RespondToRequest(context.Background(), req.ID, b.ID, true)
	require.NoError(t, err)
}

func (f *photoFixture) upload(t *testing.T, uploaderID primitive.ObjectID, caption string, tags ...primitive.ObjectID) *models.Photo {
	t.Helper()
	photo, err := f.photos.Upload(context.Background(), uploaderID, strings.NewReader("jpeg bytes"), "pic.jpg", caption, tags)
	require.NoError(t, err)
	return photo
}

func TestUploadFiltersTagsToCurrentFriends(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")
	bob := newTestUser(t, f.users, "bob")
	carol := newTestUser(t, f.users, "carol")
	f.befriend(t, alice, bob)

	// carol is a stranger and pending relations do not count either; duplicates
	// of a valid friend collapse to one tag row.
	photo := f.upload(t, alice.ID, "beach day", bob.ID, carol.ID, bob.ID, alice.ID)

	tagged, err := f.photos.GetTaggedUsers(context.Background(), photo.ID)
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, "bob", tagged[0].Username)
}

func TestUploadWithNoTags(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")

	photo := f.upload(t, alice.ID, "solo shot")

	tagged, err := f.photos.GetTaggedUsers(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Empty(t, tagged)
	assert.Len(t, f.blobs.blobs, 1)
}

func TestDeleteOnlyByOwner(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")
	bob := newTestUser(t, f.users, "bob")
	f.befriend(t, alice, bob)

	photo := f.upload(t, alice.ID, "mine", bob.ID)

	// A non-owner gets not-found, even a tagged friend, and nothing is removed.
	err := f.photos.Delete(context.Background(), photo.ID, bob.ID)
	require.ErrorIs(t, err, ErrPhotoNotFound)
	kept, err := f.repo.GetPhotoByID(context.Background(), photo.ID)
	require.NoError(t, err)
	require.NotNil(t, kept)
	tags, err := f.repo.GetTagsForPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)

	// The owner's delete cascades to tags and the stored blob.
	err = f.photos.Delete(context.Background(), photo.ID, alice.ID)
	require.NoError(t, err)
	gone, err := f.repo.GetPhotoByID(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	tags, err = f.repo.GetTagsForPhoto(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.Empty(t, f.blobs.blobs)
}

func TestDeleteUnknownPhoto(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")

	err := f.photos.Delete(context.Background(), primitive.NewObjectID(), alice.ID)
	require.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestFeedVisibility(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")
	bob := newTestUser(t, f.users, "bob")
	carol := newTestUser(t, f.users, "carol")
	f.befriend(t, alice, bob)

	photo := f.upload(t, alice.ID, "with bob", bob.ID)

	// The uploader and their friend both see the photo in their feeds.
	for _, viewer := range []*models.User{alice, bob} {
		feed, err := f.photos.Feed(context.Background(), viewer.ID, 0)
		require.NoError(t, err)
		require.Len(t, feed, 1, "feed of %s", viewer.Username)
		assert.Equal(t, photo.ID, feed[0].ID)
		assert.Equal(t, "alice", feed[0].UploaderName)
		assert.Equal(t, "/uploads/"+photo.BlobRef, feed[0].URL)
	}

	// A stranger's feed stays empty, but direct lookup by id still works.
	feed, err := f.photos.Feed(context.Background(), carol.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)

	detail, err := f.photos.GetPhotoDetail(context.Background(), photo.ID)
	require.NoError(t, err)
	assert.Equal(t, photo.ID, detail.ID)
	require.Len(t, detail.Tagged, 1)
	assert.Equal(t, bob.ID, detail.Tagged[0].ID)
}

func TestFeedNewestFirstWithLimit(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")
	bob := newTestUser(t, f.users, "bob")
	f.befriend(t, alice, bob)

	first := f.upload(t, alice.ID, "first")
	second := f.upload(t, bob.ID, "second")
	third := f.upload(t, alice.ID, "third")

	feed, err := f.photos.Feed(context.Background(), alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, third.ID, feed[0].ID)
	assert.Equal(t, second.ID, feed[1].ID)
	assert.Equal(t, first.ID, feed[2].ID)

	limited, err := f.photos.Feed(context.Background(), alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, third.ID, limited[0].ID)
	assert.Equal(t, second.ID, limited[1].ID)
}

func TestGetPhotoDetailUnknown(t *testing.T) {
	f := newPhotoFixture()

	_, err := f.photos.GetPhotoDetail(context.Background(), primitive.NewObjectID())
	require.ErrorIs(t, err, ErrPhotoNotFound)
}

func TestGetPhotosByUser(t *testing.T) {
	f := newPhotoFixture()
	alice := newTestUser(t, f.users, "alice")
	bob := newTestUser(t, f.users, "bob")

	f.upload(t, alice.ID, "a1")
	f.upload(t, bob.ID, "b1")
	last := f.upload(t, alice.ID, "a2")

	photos, err := f.photos.GetPhotosByUser(context.Background(), alice.ID)
	require.NoError(t, err)
	require.Len(t, photos, 2)
	assert.Equal(t, last.ID, photos[0].ID)
	assert.Equal(t, "a2", photos[0].Caption)
}
