package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/splitsies/splitsies/internal/receipt"
	"github.com/splitsies/splitsies/internal/service"
	"github.com/splitsies/splitsies/internal/session"
	"github.com/splitsies/splitsies/internal/storage"
)

type handler struct {
	svc *service.BillService
}

func newHandler(svc *service.BillService) *handler {
	return &handler{svc: svc}
}

// ParseBill accepts a multipart receipt photo and returns the validated
// receipt. A receipt with confidence 0 is a 200, not an error: the
// client prompts the user to retry or enter items manually.
func (h *handler) ParseBill(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image provided"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, service.MaxImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
		return
	}

	r, err := h.svc.ParseBill(c.Request.Context(), image, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReceiptDTO(r))
}

func (h *handler) CreateSession(c *gin.Context) {
	var req struct {
		Currency string `json:"currency"`
	}
	// Body is optional; an empty one means a USD draft.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.CreateSession(c.Request.Context(), req.Currency)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionDTO(sess))
}

func (h *handler) GetSession(c *gin.Context) {
	sess, err := h.svc.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) DeleteSession(c *gin.Context) {
	if err := h.svc.DeleteSession(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyReceipt populates a session from a receipt payload. The body is
// revalidated through the safe parser; clients cannot smuggle
// out-of-range values past the trust boundary by editing the payload.
func (h *handler) ApplyReceipt(c *gin.Context) {
	var payload any
	if err := json.NewDecoder(c.Request.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	r := receipt.ParseSafe(payload)

	sess, err := h.svc.ApplyReceipt(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) UpdateSession(c *gin.Context) {
	var req struct {
		MerchantName string  `json:"merchantName"`
		Subtotal     float64 `json:"subtotal"`
		Tax          float64 `json:"tax"`
		Tip          float64 `json:"tip"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.UpdateDetails(c.Request.Context(), c.Param("id"), req.MerchantName, req.Subtotal, req.Tax, req.Tip)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) AddItem(c *gin.Context) {
	var req struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.AddItem(c.Request.Context(), c.Param("id"), req.Name, req.Price, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionDTO(sess))
}

func (h *handler) UpdateItem(c *gin.Context) {
	var req struct {
		Name     string  `json:"name"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.UpdateItem(c.Request.Context(), c.Param("id"), c.Param("itemID"), req.Name, req.Price, req.Quantity)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) DeleteItem(c *gin.Context) {
	sess, err := h.svc.DeleteItem(c.Request.Context(), c.Param("id"), c.Param("itemID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) AssignItem(c *gin.Context) {
	var req struct {
		ParticipantIDs []string `json:"participantIds"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.AssignItem(c.Request.Context(), c.Param("id"), c.Param("itemID"), req.ParticipantIDs)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) AddParticipant(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess, err := h.svc.AddParticipant(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSessionDTO(sess))
}

func (h *handler) RemoveParticipant(c *gin.Context) {
	sess, err := h.svc.RemoveParticipant(c.Request.Context(), c.Param("id"), c.Param("participantID"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) Finalize(c *gin.Context) {
	sess, err := h.svc.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSessionDTO(sess))
}

func (h *handler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, summary.ShareText)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"summaries":        toSummaryDTOs(summary.Summaries),
		"shareText":        summary.ShareText,
		"allItemsAssigned": summary.AllItemsAssigned,
	})
}

// writeError maps service and domain errors onto HTTP statuses.
func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound),
		errors.Is(err, session.ErrItemNotFound),
		errors.Is(err, session.ErrParticipantNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrEmptyName),
		errors.Is(err, session.ErrDuplicateName),
		errors.Is(err, service.ErrNoImage),
		errors.Is(err, service.ErrNotAnImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, session.ErrUnassignedItems):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		slog.Error("Request failed", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
