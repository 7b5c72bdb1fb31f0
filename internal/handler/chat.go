package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/talent-booking/internal/model"
	"github.com/iliyamo/talent-booking/internal/repository"
)

// ChatHandler relays messages into booking chats. Sending runs through
// the repository's locked precondition check, so a chat disabled or a
// sender outside the pair is rejected even under concurrent sends.
type ChatHandler struct {
	Chats *repository.ChatRepo
}

func NewChatHandler(ch *repository.ChatRepo) *ChatHandler {
	return &ChatHandler{Chats: ch}
}

type sendMessageReq struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Send appends a message. Attachments keep their payload out of the
// chat summary, which shows a fixed placeholder instead.
func (h *ChatHandler) Send(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || chatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}
	var req sendMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text required"})
	}
	msgType := req.Type
	if msgType == "" {
		msgType = model.MessageTypeText
	}
	if msgType != model.MessageTypeText && msgType != model.MessageTypeAttachment {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "type must be text or attachment"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Chats.AppendMessage(ctx, chatID, uid, req.Text, msgType); err != nil {
		switch err {
		case repository.ErrChatNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
		case repository.ErrForbidden:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
		case repository.ErrInvalidState:
			return c.JSON(http.StatusConflict, echo.Map{"error": "chat is disabled"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "send failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"status": "sent"})
}

// Get returns chat metadata (summary, unread count), participants only.
func (h *ChatHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || chatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	chat, err := h.Chats.GetByID(ctx, chatID)
	if err != nil {
		if err == repository.ErrChatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load chat failed"})
	}
	if chat.BrandID != uid && chat.ModelID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	return c.JSON(http.StatusOK, chatJSON(chat))
}

// Messages returns the full message log in send order.
func (h *ChatHandler) Messages(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || chatID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid chat id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	chat, err := h.Chats.GetByID(ctx, chatID)
	if err != nil {
		if err == repository.ErrChatNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "chat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load chat failed"})
	}
	if chat.BrandID != uid && chat.ModelID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not a participant"})
	}
	msgs, err := h.Chats.ListMessages(ctx, chatID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load messages failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messagesJSON(msgs)})
}
