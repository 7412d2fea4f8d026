package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	app "cat-eye-locator/internal/application"
	"cat-eye-locator/internal/domain/entity"
	"cat-eye-locator/internal/infrastructure/imaging"
)

const (
	maxFileSize = 10 * 1024 * 1024 // 10MB
	formField   = "image"

	msgTooLarge        = "The image is too large (10MB max)."
	msgInvalidImage    = "That file is not a valid jpg or png image."
	msgProcessingError = "Could not process the image. Please try again."
)

// Уровни сообщений соответствуют CSS-классам страницы
const (
	levelInfo    = "info"
	levelSuccess = "success"
	levelError   = "error"
)

type pageData struct {
	Level      string
	Message    string
	OverlayURI template.URL
	Caption    string
}

// Handler обслуживает страницу загрузки
type Handler struct {
	locator *app.LocatorService
	log     logrus.FieldLogger
}

func NewHandler(locator *app.LocatorService, log logrus.FieldLogger) *Handler {
	return &Handler{
		locator: locator,
		log:     log,
	}
}

// Router регистрирует маршруты страницы и healthz
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", h.HandleIndex).Methods(http.MethodGet)
	r.HandleFunc("/", h.HandleUpload).Methods(http.MethodPost)
	r.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet)
	return r
}

// HandleIndex показывает пустую форму
func (h *Handler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, pageData{Level: levelInfo, Message: app.MsgPrompt})
}

// HandleUpload прогоняет загруженное изображение через локатор
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFileSize)
	if err := r.ParseMultipartForm(maxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.render(w, http.StatusRequestEntityTooLarge, pageData{Level: levelError, Message: msgTooLarge})
			return
		}
		// Форма без файла тоже попадает сюда
		h.locate(w, r, nil)
		return
	}

	file, header, err := r.FormFile(formField)
	if err != nil {
		h.locate(w, r, nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.log.WithError(err).Error("read upload")
		h.render(w, http.StatusInternalServerError, pageData{Level: levelError, Message: msgProcessingError})
		return
	}

	h.locate(w, r, entity.NewUpload(data, header.Filename, header.Header.Get("Content-Type")))
}

func (h *Handler) locate(w http.ResponseWriter, r *http.Request, upload *entity.Upload) {
	out, err := h.locator.Locate(r.Context(), upload)
	if err != nil {
		if errors.Is(err, imaging.ErrInvalidImage) || errors.Is(err, imaging.ErrUnsupportedFormat) {
			h.log.WithError(err).Info("rejected upload")
			h.render(w, http.StatusBadRequest, pageData{Level: levelError, Message: msgInvalidImage})
			return
		}
		h.log.WithError(err).Error("locate failed")
		h.render(w, http.StatusInternalServerError, pageData{Level: levelError, Message: msgProcessingError})
		return
	}

	switch {
	case out.State == entity.StateAwaitingUpload:
		h.render(w, http.StatusOK, pageData{Level: levelInfo, Message: out.Message})
	case out.Found:
		h.render(w, http.StatusOK, pageData{
			Level:      levelSuccess,
			Message:    out.Message,
			OverlayURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(out.Overlay)),
			Caption:    app.OverlayCaption,
		})
	default:
		h.render(w, http.StatusOK, pageData{Level: levelError, Message: out.Message})
	}
}

// HandleHealth сообщает, что детектор загружен
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		h.log.WithError(err).Error("encode health response")
	}
}

func (h *Handler) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log.WithError(err).Error("render page")
	}
}
