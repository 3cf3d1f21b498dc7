package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Temirlan230/friendgallery/internal/services"
	"github.com/Temirlan230/friendgallery/pkg/logger"
	"github.com/Temirlan230/friendgallery/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints related to friend requests.
type FriendHandler struct {
	Service *services.FriendService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(service *services.FriendService) *FriendHandler {
	return &FriendHandler{Service: service}
}

// SendFriendRequestHandler allows a user to send a friend request.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to send friend request")
		return
	}

	vars := mux.Vars(r)
	receiverID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid receiver ID: %v", err)
		return
	}

	senderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	request, err := h.Service.SendFriendRequest(r.Context(), senderID, receiverID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfRequest):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrDuplicateRequest):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, services.ErrUserNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		default:
			http.Error(w, "Failed to send friend request", http.StatusInternalServerError)
		}
		logger.Log.Warnf("Failed to send friend request: %v", err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", claims.UserID, vars["id"])
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(request)
}

// GetPendingRequestsHandler shows all incoming friend requests, newest first.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.GetPendingIncoming(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get pending requests: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// GetSentRequestsHandler shows the user's own pending requests, newest first.
func (h *FriendHandler) GetSentRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	requests, err := h.Service.GetPendingOutgoing(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get requests", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to get sent requests: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requests)
}

// RespondToFriendRequestHandler allows accepting or rejecting a friend request.
func (h *FriendHandler) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized request to respond to a friend request")
		return
	}

	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid friend request ID: %v", err)
		return
	}

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		logger.Log.Warnf("Failed to decode response body: %v", err)
		return
	}
	defer r.Body.Close()

	receiverID, _ := primitive.ObjectIDFromHex(claims.UserID)

	request, err := h.Service.RespondToRequest(r.Context(), requestID, receiverID, body.Accept)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRequestNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, services.ErrAlreadyResolved):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "Failed to respond to request", http.StatusInternalServerError)
		}
		logger.Log.Warnf("Failed to respond to friend request %s: %v", vars["id"], err)
		return
	}

	logger.Log.Infof("User %s responded to friend request %s (accepted: %v)", claims.UserID, vars["id"], body.Accept)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(request)
}

// GetFriendsHandler returns a list of the user's friends.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	friends, err := h.Service.GetFriends(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get friends", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch friends for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(friends)
}
