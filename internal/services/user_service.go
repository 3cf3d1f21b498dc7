package services

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	"github.com/Temirlan230/friendgallery/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Mailer delivers outbound mail. pkg/email provides the SMTP implementation.
type Mailer interface {
	Send(to, subject, body string) error
}

// UserService encapsulates the business logic for user accounts and profiles.
type UserService struct {
	userRepo   UserRepo
	friendRepo FriendRequestRepo
	photoRepo  PhotoRepo
	mailer     Mailer
}

// NewUserService creates a new instance of UserService. mailer may be nil,
// which disables the welcome mail.
func NewUserService(userRepo UserRepo, friendRepo FriendRequestRepo, photoRepo PhotoRepo, mailer Mailer) *UserService {
	return &UserService{
		userRepo:   userRepo,
		friendRepo: friendRepo,
		photoRepo:  photoRepo,
		mailer:     mailer,
	}
}

// RegisterUser registers a new user after hashing their password.
func (s *UserService) RegisterUser(ctx context.Context, username, userEmail, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}
	if userEmail != "" && !emailRegex.MatchString(userEmail) {
		return nil, fmt.Errorf("invalid email format")
	}

	existing, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username:       username,
		Email:          userEmail,
		HashedPassword: string(hashedPwd),
	}

	createdUser, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	// Welcome mail is best-effort; registration never fails on it.
	if s.mailer != nil && createdUser.Email != "" {
		if err := s.mailer.Send(createdUser.Email, "Welcome to FriendGallery",
			fmt.Sprintf("Hi %s, your account is ready. Log in and start sharing photos with friends!", createdUser.Username)); err != nil {
			logrus.WithError(err).Warn("Failed to send welcome email")
		}
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the credentials and returns the account.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUserByID fetches a user, mapping absence to ErrUserNotFound.
func (s *UserService) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Profile is a user's page as seen by a specific viewer.
type Profile struct {
	User     models.PublicUser     `json:"user"`
	Relation *models.FriendRequest `json:"relation,omitempty"`
	Photos   []models.Photo        `json:"photos,omitempty"`
}

// GetProfile returns the named user's profile with the relation between the
// viewer and that user. The photo list is included only for the owner and
// accepted friends; relation status is visible to everyone.
func (s *UserService) GetProfile(ctx context.Context, viewerID primitive.ObjectID, username string) (*Profile, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := &Profile{
		User: models.PublicUser{ID: user.ID, Username: user.Username},
	}

	visible := viewerID == user.ID
	if !visible {
		relation, err := s.friendRepo.GetRequestBetween(ctx, viewerID, user.ID)
		if err != nil {
			return nil, err
		}
		profile.Relation = relation
		visible = relation != nil && relation.Status == models.StatusAccepted
	}

	if visible {
		photos, err := s.photoRepo.GetPhotosByUploaders(ctx, []primitive.ObjectID{user.ID}, 0)
		if err != nil {
			return nil, err
		}
		profile.Photos = photos
	}

	return profile, nil
}

// BrowseUsers lists users who have no relation with the viewer in either
// direction: the candidates for a new friend request.
func (s *UserService) BrowseUsers(ctx context.Context, viewerID primitive.ObjectID) ([]models.PublicUser, error) {
	related, err := s.friendRepo.RelatedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := append(related, viewerID)

	users, err := s.userRepo.GetUsersExcluding(ctx, exclude)
	if err != nil {
		return nil, err
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, models.PublicUser{ID: user.ID, Username: user.Username})
	}
	return public, nil
}
