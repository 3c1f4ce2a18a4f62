package api

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	app "github.com/Mishardina/sam-image-labeler/internal/application"
	"github.com/Mishardina/sam-image-labeler/internal/domain/entity"
	"github.com/Mishardina/sam-image-labeler/internal/domain/port"
)

// Handler обработчики HTTP-запросов
type Handler struct {
	sessions *app.SessionService
	render   *app.RenderService
	export   *app.ExportService
	logger   *zap.Logger
}

// NewHandler создаёт обработчики
func NewHandler(sessions *app.SessionService, render *app.RenderService, export *app.ExportService, logger *zap.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		render:   render,
		export:   export,
		logger:   logger,
	}
}

func (h *Handler) createSession(c *gin.Context) {
	id, err := h.sessions.CreateSession(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createSessionResponse{ID: id})
}

func (h *Handler) getSession(c *gin.Context) {
	snap, err := h.sessions.SessionState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	entries := make([]entryDTO, 0, len(snap.Entries))
	for i := range snap.Entries {
		entries = append(entries, entryToDTO(&snap.Entries[i]))
	}
	c.JSON(http.StatusOK, sessionDTO{
		ID:      snap.ID,
		Classes: classesToDTO(snap.Classes),
		Entries: entries,
	})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.sessions.ResetSession(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) uploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	files := form.File["images"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgNoFiles})
		return
	}

	uploads := make([]app.UploadFile, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
			return
		}
		uploads = append(uploads, app.UploadFile{Name: fh.Filename, Data: data})
	}

	results, err := h.sessions.LoadImages(c.Request.Context(), c.Param("id"), uploads)
	if err != nil {
		h.respondError(c, err)
		return
	}

	out := make([]uploadResultDTO, 0, len(results))
	for _, r := range results {
		dto := uploadResultDTO{Name: r.Name, ImageID: r.ImageID}
		if r.Err != nil {
			dto.Error = r.Err.Error()
		}
		out = append(out, dto)
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

func (h *Handler) listImages(c *gin.Context) {
	snap, err := h.sessions.SessionState(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	entries := make([]entryDTO, 0, len(snap.Entries))
	for i := range snap.Entries {
		entries = append(entries, entryToDTO(&snap.Entries[i]))
	}
	c.JSON(http.StatusOK, gin.H{"images": entries})
}

func (h *Handler) getImage(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	snap, err := h.sessions.ImageState(c.Request.Context(), c.Param("id"), imageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryToDTO(snap))
}

func (h *Handler) thumbnail(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	img, err := h.sessions.Thumbnail(c.Request.Context(), c.Param("id"), imageID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) renderImage(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	data, err := h.render.RenderPNG(c.Request.Context(), c.Param("id"), imageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

func (h *Handler) addPoint(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	var req addPointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	label, err := entity.ParsePointLabel(req.Label)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadLabel})
		return
	}
	if req.DisplayWidth <= 0 || req.DisplayHeight <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadDisplaySize})
		return
	}

	// Размеры изображения нужны для перевода клика в пиксельные координаты
	snap, err := h.sessions.ImageState(c.Request.Context(), c.Param("id"), imageID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	p := entity.MapPointerEvent(
		entity.PointerEvent{ClientX: req.X, ClientY: req.Y},
		req.DisplayWidth, req.DisplayHeight,
		snap.Width, snap.Height,
	)
	p.Label = label

	updated, err := h.sessions.AddPoint(c.Request.Context(), c.Param("id"), imageID, p)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryToDTO(updated))
}

func (h *Handler) clearPoints(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	changed, err := h.sessions.ClearPoints(c.Request.Context(), c.Param("id"), imageID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, clearPointsResponse{Changed: changed})
}

func (h *Handler) confirmMask(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Class == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}

	snap, err := h.sessions.ConfirmMask(c.Request.Context(), c.Param("id"), imageID, req.Class)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryToDTO(snap))
}

func (h *Handler) toggleHighlight(c *gin.Context) {
	imageID, ok := h.imageID(c)
	if !ok {
		return
	}

	var req highlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}

	snap, err := h.sessions.ToggleHighlight(c.Request.Context(), c.Param("id"), imageID, req.Index)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entryToDTO(snap))
}

func (h *Handler) addClass(c *gin.Context) {
	var req classRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	color, err := entity.ParseHexColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadColor})
		return
	}

	if err := h.sessions.AddClass(c.Request.Context(), c.Param("id"), req.Name, color); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, classDTO{Name: req.Name, Color: color.Hex()})
}

func (h *Handler) listClasses(c *gin.Context) {
	classes, err := h.sessions.Classes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classesToDTO(classes)})
}

func (h *Handler) setClassColor(c *gin.Context) {
	var req classColorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadRequest})
		return
	}
	color, err := entity.ParseHexColor(req.Color)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadColor})
		return
	}

	if err := h.sessions.SetClassColor(c.Request.Context(), c.Param("id"), c.Param("name"), color); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, classDTO{Name: c.Param("name"), Color: color.Hex()})
}

func (h *Handler) exportDataset(c *gin.Context) {
	format := c.DefaultQuery("format", port.FormatCOCO)

	data, err := h.export.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "dataset_"+format+".zip"))
	c.Data(http.StatusOK, "application/zip", data)
}

// imageID разбирает номер изображения из пути
func (h *Handler) imageID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgBadImageID})
		return 0, false
	}
	return id, true
}

// respondError переводит доменную ошибку в HTTP-ответ
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: msgSessionNotFound})
	case errors.Is(err, entity.ErrImageNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: msgImageNotFound})
	case errors.Is(err, entity.ErrNoPendingMask):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgNoPendingMask})
	case errors.Is(err, entity.ErrUnknownClass):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgUnknownClass})
	case errors.Is(err, entity.ErrClassExists):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgClassExists})
	case errors.Is(err, entity.ErrIndexOutOfRange):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgIndexOutOfRange})
	case errors.Is(err, port.ErrUnknownFormat):
		c.JSON(http.StatusBadRequest, errorResponse{Error: msgUnknownFormat})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}
