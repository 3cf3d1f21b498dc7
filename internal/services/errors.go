package services

import "errors"

// Failure taxonomy surfaced to callers. Handlers branch on these with
// errors.Is to pick the right HTTP status; none are transient, none are
// retried, and no operation leaves partial state behind one of them.
var (
	// ErrSelfRequest is returned when a user proposes friendship to themselves.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrDuplicateRequest is returned when a request for the exact ordered
	// (sender, receiver) pair already exists, regardless of its status.
	ErrDuplicateRequest = errors.New("friend request already sent")

	// ErrRequestNotFound is returned when no request with the given id is
	// addressed to the calling receiver. Only the addressed receiver may
	// resolve a request, so "not yours" and "does not exist" look the same.
	ErrRequestNotFound = errors.New("friend request not found")

	// ErrAlreadyResolved is returned when resolving a request that has
	// already been accepted or rejected. Terminal states are never reopened.
	ErrAlreadyResolved = errors.New("friend request already resolved")

	// ErrPhotoNotFound collapses "no such photo" and "not your photo" so a
	// failed delete never leaks the existence of other users' photos.
	ErrPhotoNotFound = errors.New("photo not found or permission denied")

	// ErrNotificationNotFound collapses "no such notification" and "not your
	// notification": only the addressed user may mark or delete one.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrUserNotFound is returned when the referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned on registration with an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
