package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lostfound/apiserver/internal/services"
	"github.com/lostfound/apiserver/internal/storage"
	"github.com/lostfound/apiserver/internal/store"
	"github.com/lostfound/apiserver/types"
)

const (
	maxMultipartMemory = 8 << 20
	maxImageBytes      = 5 << 20

	formFieldKind        = "type"
	formFieldCategory    = "category"
	formFieldName        = "name"
	formFieldDescription = "description"
	formFieldLocation    = "location"
	formFieldDate        = "date"
	formFieldContact     = "contact"
	formFieldImage       = "image"
)

// Image extensions accepted for upload, mirroring the web client's rules.
var allowedImageExts = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// ImageFile represents an uploaded report image.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportHandler provides HTTP handlers for reports.
type ReportHandler struct {
	reportService *services.ReportService
	userService   *services.UserService
	uploads       *storage.Storage
}

// NewReportHandler constructs a handler with the provided services.
func NewReportHandler(reportService *services.ReportService, userService *services.UserService, uploads *storage.Storage) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		userService:   userService,
		uploads:       uploads,
	}
}

// ReportRouter registers report routes on the given router.
func ReportRouter(
	r chi.Router,
	reportService *services.ReportService,
	userService *services.UserService,
	uploads *storage.Storage,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewReportHandler(reportService, userService, uploads)

	r.Get("/", handler.ListReports)
	r.Get("/user/{userID}", handler.ListReportsByUser)
	r.With(authMiddleware).Post("/", handler.CreateReport)
	r.Route("/{reportID}", func(r chi.Router) {
		r.Get("/", handler.GetReport)
		r.With(authMiddleware).Delete("/", handler.DeleteReport)
	})
}

// ListReports returns all reports, optionally filtered by kind and status
// query parameters.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	filter := store.ReportFilter{
		Kind:   strings.TrimSpace(r.URL.Query().Get("type")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
	}

	reports, err := h.reportService.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// ListReportsByUser returns every report filed by the given user.
func (h *ReportHandler) ListReportsByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	reports, err := h.reportService.ListByOwner(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportService.Get(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch report")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// CreateReport files a new lost/found report from a multipart form with
// an optional image. The owner fields come from the authenticated user,
// not the form.
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := h.userService.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	image, err := parseImageFile(r.MultipartForm)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imagePath := ""
	if image != nil {
		imagePath, err = h.storeImage(r, image)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store image")
			return
		}
	}

	report := types.Report{
		Kind:           strings.TrimSpace(r.FormValue(formFieldKind)),
		Category:       strings.TrimSpace(r.FormValue(formFieldCategory)),
		Name:           strings.TrimSpace(r.FormValue(formFieldName)),
		Description:    strings.TrimSpace(r.FormValue(formFieldDescription)),
		Location:       strings.TrimSpace(r.FormValue(formFieldLocation)),
		Date:           strings.TrimSpace(r.FormValue(formFieldDate)),
		Contact:        strings.TrimSpace(r.FormValue(formFieldContact)),
		ReportedBy:     user.ID,
		ReportedByName: user.Name,
		Image:          imagePath,
	}

	created, err := h.reportService.Create(r.Context(), report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create report")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// DeleteReport removes a report. Only the owner or an admin may delete;
// deleting an id that no longer exists succeeds.
func (h *ReportHandler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	reportID := chi.URLParam(r, "reportID")
	report, err := h.reportService.Get(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch report")
		return
	}

	if report.ReportedBy != userID {
		user, err := h.userService.GetByID(r.Context(), userID)
		if err != nil || !strings.EqualFold(user.Role, types.RoleAdmin) {
			writeError(w, http.StatusForbidden, "not allowed to delete this report")
			return
		}
	}

	if err := h.reportService.Delete(r.Context(), reportID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete report")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ReportHandler) storeImage(r *http.Request, image *ImageFile) (string, error) {
	key := uuid.NewString() + strings.ToLower(filepath.Ext(image.Filename))
	err := h.uploads.Put(r.Context(), key, bytes.NewReader(image.Data), int64(len(image.Data)), image.ContentType)
	if err != nil {
		return "", err
	}
	return "/uploads/" + key, nil
}

// parseImageFile extracts the optional image from the form, enforcing
// the size cap and extension allow-list.
func parseImageFile(form *multipart.Form) (*ImageFile, error) {
	if form == nil {
		return nil, nil
	}

	files := form.File[formFieldImage]
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > 1 {
		return nil, errors.New("only one image is allowed")
	}

	fileHeader := files[0]
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType, ok := allowedImageExts[ext]
	if !ok {
		return nil, errors.New("only image files are allowed")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	data, err := readFileLimited(file, maxImageBytes)
	_ = file.Close()
	if err != nil {
		return nil, err
	}

	return &ImageFile{
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func readFileLimited(reader io.Reader, limit int64) ([]byte, error) {
	limited := io.LimitReader(reader, limit+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.New("failed to read upload")
	}
	if int64(len(data)) > limit {
		return nil, errors.New("uploaded file too large")
	}
	return data, nil
}
