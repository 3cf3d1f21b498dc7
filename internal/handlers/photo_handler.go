package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Temirlan230/friendgallery/internal/services"
	"github.com/Temirlan230/friendgallery/pkg/logger"
	"github.com/Temirlan230/friendgallery/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Extension allowlist is presentation policy; the catalog itself never
// inspects file contents.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

type PhotoHandler struct {
	Service *services.PhotoService
}

func NewPhotoHandler(service *services.PhotoService) *PhotoHandler {
	return &PhotoHandler{Service: service}
}

// UploadPhotoHandler handles a multipart photo upload with optional caption
// and friend tags.
func (h *PhotoHandler) UploadPhotoHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// Parse multipart form (max size: 16MB)
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		http.Error(w, "File too big or invalid format", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		http.Error(w, "Missing photo in request", http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		http.Error(w, "File type not allowed. Use PNG, JPG, GIF, or WEBP.", http.StatusBadRequest)
		return
	}

	caption := r.FormValue("caption")

	var tagIDs []primitive.ObjectID
	for _, hex := range r.PostForm["tag_friends"] {
		tagID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			http.Error(w, "Invalid tag user ID", http.StatusBadRequest)
			return
		}
		tagIDs = append(tagIDs, tagID)
	}

	uploaderID, _ := primitive.ObjectIDFromHex(claims.UserID)

	photo, err := h.Service.Upload(r.Context(), uploaderID, file, header.Filename, caption, tagIDs)
	if err != nil {
		logrus.WithError(err).Error("Photo upload failed")
		http.Error(w, "Failed to upload photo", http.StatusInternalServerError)
		return
	}

	logrus.WithFields(logrus.Fields{
		"photoID": photo.ID.Hex(),
		"userID":  claims.UserID,
	}).Info("Photo uploaded")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(photo)
}

// FeedHandler returns the viewer's feed: own and friends' photos, newest
// first. An optional limit query parameter caps the result.
func (h *PhotoHandler) FeedHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var limit int64
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	viewerID, _ := primitive.ObjectIDFromHex(claims.UserID)

	feed, err := h.Service.Feed(r.Context(), viewerID, limit)
	if err != nil {
		http.Error(w, "Failed to fetch feed", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch feed for user %s: %v", claims.UserID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(feed)
}

// PhotoDetailHandler returns a single photo with its tagged users.
func (h *PhotoHandler) PhotoDetailHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	photoID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid photo ID", http.StatusBadRequest)
		return
	}

	detail, err := h.Service.GetPhotoDetail(r.Context(), photoID)
	if err != nil {
		if errors.Is(err, services.ErrPhotoNotFound) {
			http.Error(w, "Photo not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch photo", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to fetch photo %s: %v", vars["id"], err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(detail)
}

// DeletePhotoHandler removes a photo the requester owns.
func (h *PhotoHandler) DeletePhotoHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	photoID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid photo ID", http.StatusBadRequest)
		return
	}

	requesterID, _ := primitive.ObjectIDFromHex(claims.UserID)

	if err := h.Service.Delete(r.Context(), photoID, requesterID); err != nil {
		if errors.Is(err, services.ErrPhotoNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete photo", http.StatusInternalServerError)
		logger.Log.Errorf("Failed to delete photo %s: %v", vars["id"], err)
		return
	}

	logger.Log.Infof("User %s deleted photo %s", claims.UserID, vars["id"])
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Photo deleted"})
}
