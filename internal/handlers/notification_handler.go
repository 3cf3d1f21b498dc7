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

// NotificationHandler exposes the caller's in-app notifications. Every
// operation is scoped to the authenticated user; acting on someone else's
// notification looks like acting on a missing one.
type NotificationHandler struct {
	Service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Service: service}
}

// GetUserNotificationsHandler lists the caller's unexpired notifications,
// newest first.
func (h *NotificationHandler) GetUserNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	notifications, err := h.Service.GetUserNotifications(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to get notifications", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch notifications for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(notifications)
}

// MarkAsReadHandler marks one of the caller's notifications as read.
func (h *NotificationHandler) MarkAsReadHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.MarkNotificationAsRead(r.Context(), notifID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to mark as read", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to mark notification %s as read: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification marked as read"})
}

// DeleteNotificationHandler removes one of the caller's notifications.
func (h *NotificationHandler) DeleteNotificationHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	notifID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid notification ID", http.StatusBadRequest)
		return
	}

	userID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.DeleteNotification(r.Context(), notifID, userID); err != nil {
		if errors.Is(err, services.ErrNotificationNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete notification", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to delete notification %s: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Notification deleted"})
}
