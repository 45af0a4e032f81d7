package extract

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticket-intake/internal/shared/server/respond"
	"ticket-intake/internal/shared/util"
)

// maxAttachmentBytes caps uploads; incident mails are small documents.
const maxAttachmentBytes = 10 << 20

// Handler exposes attachment text extraction over HTTP.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches the note extraction route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/notes/extract-text", h.extractText)
}

func (h *Handler) extractText(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	defer file.Close()

	if header.Size > maxAttachmentBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "attachment exceeds 10 MB", nil)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxAttachmentBytes+1))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read attachment", nil)
		return
	}
	if len(data) > maxAttachmentBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "attachment exceeds 10 MB", nil)
		return
	}

	fileName, err := util.SanitizeFileName(header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
		return
	}

	text, err := TextFromBytes(c.Request.Context(), data, header.Header.Get("Content-Type"), fileName)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF, DOCX and plain text attachments are supported", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "could not extract text from attachment", nil)
		return
	}

	respond.OK(c, gin.H{"noteText": text})
}
