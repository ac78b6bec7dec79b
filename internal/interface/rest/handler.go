package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/juju/loggo/v2"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/totegamma/familyone/internal/domain"
	"github.com/totegamma/familyone/internal/usecase"
)

var logger = loggo.GetLogger("familyone.rest")

type Handler struct {
	backup  *usecase.BackupUsecase
	members *usecase.MemberUsecase
	audit   *usecase.AuditUsecase
}

func NewHandler(
	backup *usecase.BackupUsecase,
	members *usecase.MemberUsecase,
	audit *usecase.AuditUsecase,
) *Handler {
	return &Handler{
		backup:  backup,
		members: members,
		audit:   audit,
	}
}

// RegisterRoutes mounts the API. auth guards everything under /api/v1.
func (h *Handler) RegisterRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/healthz", h.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", auth)
	api.GET("/members", h.handleListMembers)
	api.POST("/members", h.handleSaveMember)
	api.GET("/members/:id", h.handleGetMember)
	api.DELETE("/members/:id", h.handleDeleteMember)
	api.GET("/members/:id/photos", h.handleListPhotos)
	api.POST("/members/:id/photos", h.handleAddPhoto)
	api.GET("/export/json", h.handleExportJSON)
	api.GET("/export/csv", h.handleExportCSV)
	api.POST("/import", h.handleImport)
	api.POST("/backup", h.handleBuildBackup)
	api.POST("/backup/restore", h.handleRestoreBackup)
	api.GET("/backup/audit", h.handleListAudit)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrStructuralArchive),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrImageDecode):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	return c.JSON(errorStatus(err), echo.Map{"error": err.Error()})
}

// recordAudit never fails the request it belongs to.
func (h *Handler) recordAudit(c echo.Context, action domain.AuditAction, details string, err error) {
	if err != nil {
		details = "failed: " + err.Error()
	}
	if _, auditErr := h.audit.Record(c.Request().Context(), action, details); auditErr != nil {
		logger.Errorf("cannot record audit %s: %v", action, auditErr)
	}
}

func parseID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.InvalidInputError{Reason: "invalid member id"}
	}
	return id, nil
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) handleListMembers(c echo.Context) error {
	members, err := h.members.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *Handler) handleSaveMember(c echo.Context) error {
	ctx := c.Request().Context()

	var member domain.FamilyMember
	if err := c.Bind(&member); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if strings.TrimSpace(member.FirstName) == "" || strings.TrimSpace(member.LastName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "firstName and lastName are required"})
	}

	id, err := h.members.Save(ctx, member)
	if err != nil {
		return respondError(c, err)
	}
	saved, err := h.members.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	status := http.StatusOK
	if member.ID == 0 {
		status = http.StatusCreated
	}
	return c.JSON(status, saved)
}

func (h *Handler) handleGetMember(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	member, err := h.members.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *Handler) handleDeleteMember(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.members.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func (h *Handler) handleListPhotos(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}
	photos, err := h.members.Photos(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, photos)
}

type addPhotoRequest struct {
	PhotoURI       string `json:"photoUri"`
	Description    string `json:"description"`
	IsProfilePhoto bool   `json:"isProfilePhoto"`
}

func (h *Handler) handleAddPhoto(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req addPhotoRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	result, err := h.members.AddPhoto(c.Request().Context(), usecase.AddPhotoInput{
		MemberID:       id,
		PhotoURI:       req.PhotoURI,
		Description:    req.Description,
		IsProfilePhoto: req.IsProfilePhoto,
	})
	if err != nil {
		return respondError(c, err)
	}
	if result == domain.PhotoDuplicate {
		return c.JSON(http.StatusConflict, echo.Map{"result": result})
	}
	return c.JSON(http.StatusCreated, echo.Map{"result": result})
}

func attachment(c echo.Context, name string) {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
}

func (h *Handler) handleExportJSON(c echo.Context) error {
	data, err := h.members.ExportJSON(c.Request().Context())
	backupOperationsTotal.WithLabelValues("export_json", statusLabel(err)).Inc()
	h.recordAudit(c, domain.AuditLocalExport, "format=json", err)
	if err != nil {
		return respondError(c, err)
	}
	attachment(c, "familyone-members.json")
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

func (h *Handler) handleExportCSV(c echo.Context) error {
	data, err := h.members.ExportCSV(c.Request().Context())
	backupOperationsTotal.WithLabelValues("export_csv", statusLabel(err)).Inc()
	h.recordAudit(c, domain.AuditLocalExport, "format=csv", err)
	if err != nil {
		return respondError(c, err)
	}
	attachment(c, "familyone-members.csv")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (h *Handler) handleImport(c echo.Context) error {
	mode := domain.ImportMode(c.QueryParam("mode"))
	if mode == "" {
		mode = domain.ImportModeMerge
	}
	action := domain.AuditLocalImportMerge
	if mode == domain.ImportModeReplace {
		action = domain.AuditLocalImportReplace
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	report, err := h.members.ImportJSON(c.Request().Context(), body, mode)
	backupOperationsTotal.WithLabelValues("import_"+string(mode), statusLabel(err)).Inc()
	h.recordAudit(c, action, fmt.Sprintf("inserted=%d skipped=%d relations=%d",
		report.Inserted, report.Skipped, report.RelationsUpdated), err)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) handleBuildBackup(c echo.Context) error {
	start := time.Now()
	result, err := h.backup.Build(c.Request().Context(), c.QueryParam("appVersion"))
	status := statusLabel(err)
	backupOperationsTotal.WithLabelValues("build", status).Inc()
	backupDurationHistogram.WithLabelValues("build", status).Observe(time.Since(start).Seconds())
	h.recordAudit(c, domain.AuditBackupDownload, fmt.Sprintf("members=%d photos=%d assets=%d checksum=%s",
		result.MembersCount, result.MemberPhotosCount, result.AssetsCount, result.ChecksumSHA256), err)
	if err != nil {
		return respondError(c, err)
	}
	backupSizeGauge.Set(float64(result.SizeBytes))

	header := c.Response().Header()
	header.Set("X-Backup-Checksum", result.ChecksumSHA256)
	header.Set("X-Backup-Schema-Version", strconv.Itoa(result.SchemaVersion))
	attachment(c, "familyone-backup-"+result.CreatedAt.Format("20060102-150405")+".zip")
	return c.Blob(http.StatusOK, "application/zip", result.File)
}

// readArchive accepts either a multipart upload in field "file" or the raw archive as the body.
func readArchive(c echo.Context) ([]byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, domain.InvalidInputError{Reason: "missing file field"}
		}
		f, err := fh.Open()
		if err != nil {
			return nil, errors.Wrap(err, "open upload")
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request().Body)
}

func (h *Handler) handleRestoreBackup(c echo.Context) error {
	data, err := readArchive(c)
	if err != nil {
		return respondError(c, err)
	}
	if len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty archive"})
	}

	start := time.Now()
	report, err := h.backup.Restore(c.Request().Context(), data)
	status := statusLabel(err)
	backupOperationsTotal.WithLabelValues("restore", status).Inc()
	backupDurationHistogram.WithLabelValues("restore", status).Observe(time.Since(start).Seconds())
	observeRestore(report)
	h.recordAudit(c, domain.AuditBackupRestore, fmt.Sprintf("inserted=%d matched=%d photos=%d duplicates=%d errors=%d",
		report.MembersInserted, report.MembersMatched, report.PhotosAdded, report.PhotosSkippedDuplicates, report.Errors), err)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) handleListAudit(c echo.Context) error {
	records, err := h.audit.List(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, records)
}
