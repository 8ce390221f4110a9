package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/barganito/barganito.api/data"
	"github.com/barganito/barganito.api/data/repos"
	"github.com/barganito/barganito.api/models"
)

type NotificationHandler struct {
	notificationRepo *repos.NotificationRepo
	userRepo         *repos.UserRepo
}

func NewNotificationHandler(notificationRepo *repos.NotificationRepo, userRepo *repos.UserRepo) *NotificationHandler {
	return &NotificationHandler{notificationRepo, userRepo}
}

func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	notifications, total, err := h.notificationRepo.GetNotificationsByUserID(user.ID, perPage, offset)
	if err != nil {
		return InternalError(err, "get notifications: ")
	}

	res := models.GetNotificationsResponse{
		Notifications: make([]models.Notification, 0, len(notifications)),
		Total:         total,
		Page:          page,
		PerPage:       perPage,
	}
	for _, n := range notifications {
		res.Notifications = append(res.Notifications, models.Notification{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Link:      n.Link,
			Type:      string(n.Type),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return Ok(res)
}

func (h *NotificationHandler) GetUnreadCount(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	count, err := h.notificationRepo.GetUnreadCount(user.ID)
	if err != nil {
		return InternalError(err, "get unread count: ")
	}

	return Ok(models.UnreadCountResponse{Count: count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return BadRequest("Invalid notification ID.")
	}

	if err := h.notificationRepo.MarkRead(id, user.ID); err != nil {
		return InternalError(err, "mark notification read: ")
	}

	return Ok(nil)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	if err := h.notificationRepo.MarkAllRead(user.ID); err != nil {
		return InternalError(err, "mark all notifications read: ")
	}

	return Ok(nil)
}

func (h *NotificationHandler) GetSettings(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	settings, err := h.userRepo.GetSettings(user.ID)
	if err != nil {
		return InternalError(err, "get notification settings: ")
	}

	return Ok(models.NotificationSettings{
		NotifyInternal: settings.NotifyInternal,
		NotifyEmail:    settings.NotifyEmail,
		NotifyPush:     settings.NotifyPush,
	})
}

func (h *NotificationHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) Result {
	user := r.Context().Value(UserContextKey).(data.User)

	var req models.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	err := h.userRepo.UpsertSettings(data.NotificationSettings{
		UserID:         user.ID,
		NotifyInternal: req.NotifyInternal,
		NotifyEmail:    req.NotifyEmail,
		NotifyPush:     req.NotifyPush,
	})
	if err != nil {
		return InternalError(err, "update notification settings: ")
	}

	return Ok(nil)
}
