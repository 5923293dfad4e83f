package compare

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"sheet-diff/core/dataset"
	"sheet-diff/core/diff"
	"sheet-diff/core/export"
	"sheet-diff/core/logger"
	"sheet-diff/core/snapshot"
	"sheet-diff/core/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for comparisons.
type Handler struct {
	service  *Service
	defaults diff.Options
}

// NewHandler creates a new HTTP handler. defaults apply to options a request leaves unset.
func NewHandler(service *Service, defaults diff.Options) *Handler {
	return &Handler{service: service, defaults: defaults}
}

// RegisterRoutes registers the compare routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/compare")
	group.Post("/", h.HandleCompareUpload)
	group.Post("/json", h.HandleCompareJSON)
	group.Get("/snapshots", h.HandleListSnapshots)
	group.Get("/snapshots/:name", h.HandleGetSnapshot)
	group.Get("/snapshots/:name/export", h.HandleExportSnapshot)
	group.Delete("/snapshots/:name", h.HandleDeleteSnapshot)
}

// Response is the body returned by the compare endpoints.
type Response struct {
	Summary  diff.Summary `json:"summary"`
	Result   *diff.Result `json:"result"`
	Snapshot string       `json:"snapshot,omitempty"`
}

// JSONRequest is the body of POST /compare/json.
type JSONRequest struct {
	Original      diff.Dataset  `json:"original"`
	Updated       diff.Dataset  `json:"updated"`
	PrimaryKeys   []string      `json:"primaryKeys"`
	AutoDetectKey bool          `json:"autoDetectKey"`
	Options       *diff.Options `json:"options"`
	Save          string        `json:"save"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, diff.ErrInvalidConfig),
		errors.Is(err, snapshot.ErrInvalidName),
		errors.Is(err, dataset.ErrEmptyFile),
		errors.Is(err, dataset.ErrUnsupportedFile),
		errors.Is(err, dataset.ErrDuplicateColumn),
		errors.Is(err, dataset.ErrSheetNotFound):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status >= fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Warn(msg, zap.Error(err), zap.Int("status", status))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// formOptions overlays the option flags present in the form on the defaults.
func (h *Handler) formOptions(c *fiber.Ctx) diff.Options {
	opts := h.defaults
	for field, target := range map[string]*bool{
		"ignore_case":       &opts.IgnoreCase,
		"ignore_whitespace": &opts.IgnoreWhitespace,
		"reorder_as_same":   &opts.TreatReorderAsSame,
		"type_aware":        &opts.TypeAware,
		"strict_keys":       &opts.StrictKeys,
	} {
		if v := c.FormValue(field); v != "" {
			*target = utils.ToBool(v)
		}
	}
	return opts
}

// snapshotName returns the :name route parameter detached from the request buffer.
func snapshotName(c *fiber.Ctx) string {
	return fiberutils.CopyString(c.Params("name"))
}

// splitKeys accepts repeated fields and comma separated lists.
func splitKeys(values []string) []string {
	var keys []string
	for _, v := range values {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				keys = append(keys, k)
			}
		}
	}
	return keys
}

func openUpload(fh *multipart.FileHeader, sheet string) (*dataset.ReaderSource, func() error, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	return &dataset.ReaderSource{FileName: fh.Filename, Reader: f, Sheet: sheet}, f.Close, nil
}

// HandleCompareUpload compares two uploaded files.
// @Summary Compare Uploaded Files
// @Description Compares two CSV, TSV or XLSX uploads (optionally gz, bz2, xz or zst compressed) and classifies every record.
// @Tags compare
// @Accept multipart/form-data
// @Produce json
// @Param original formData file true "Original dataset"
// @Param updated formData file true "Updated dataset"
// @Param keys formData string false "Primary key columns, comma separated"
// @Param auto_key formData boolean false "Detect the primary key when keys is empty"
// @Param ignore_case formData boolean false "Ignore case"
// @Param ignore_whitespace formData boolean false "Ignore surrounding whitespace"
// @Param reorder_as_same formData boolean false "Report reordered rows as moved"
// @Param type_aware formData boolean false "Compare numbers and dates by value"
// @Param strict_keys formData boolean false "Reject duplicate keys"
// @Param sheet formData string false "Workbook sheet"
// @Param save formData string false "Save the result as a snapshot with this name"
// @Success 200 {object} Response "Comparison result"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare [post]
func (h *Handler) HandleCompareUpload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "multipart form required"})
	}

	originalFile, err := c.FormFile("original")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file: original"})
	}
	updatedFile, err := c.FormFile("updated")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file: updated"})
	}

	sheet := fiberutils.CopyString(c.FormValue("sheet"))
	original, closeOriginal, err := openUpload(originalFile, sheet)
	if err != nil {
		return h.fail(c, "Upload failed", err)
	}
	defer closeOriginal()
	updated, closeUpdated, err := openUpload(updatedFile, sheet)
	if err != nil {
		return h.fail(c, "Upload failed", err)
	}
	defer closeUpdated()

	in := Input{
		PrimaryKeys:   splitKeys(form.Value["keys"]),
		AutoDetectKey: utils.ToBool(c.FormValue("auto_key")),
		Options:       h.formOptions(c),
		// Snapshot names become cache keys that outlive the request buffer.
		Save:          fiberutils.CopyString(c.FormValue("save")),
	}

	result, err := h.service.CompareSources(c.Context(), original, updated, in)
	if err != nil {
		return h.fail(c, "Comparison failed", err)
	}
	return c.JSON(Response{Summary: result.Summary(), Result: result, Snapshot: in.Save})
}

// HandleCompareJSON compares two datasets posted as JSON.
// @Summary Compare JSON Datasets
// @Description Compares two datasets given as ordered JSON records.
// @Tags compare
// @Accept json
// @Produce json
// @Param request body JSONRequest true "Datasets and options"
// @Success 200 {object} Response "Comparison result"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/json [post]
func (h *Handler) HandleCompareJSON(c *fiber.Ctx) error {
	var req JSONRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body: " + err.Error()})
	}

	opts := h.defaults
	if req.Options != nil {
		opts = *req.Options
	}

	in := Input{
		PrimaryKeys:   req.PrimaryKeys,
		AutoDetectKey: req.AutoDetectKey,
		Options:       opts,
		Save:          req.Save,
	}

	result, err := h.service.Compare(c.Context(), req.Original, req.Updated, in)
	if err != nil {
		return h.fail(c, "Comparison failed", err)
	}
	return c.JSON(Response{Summary: result.Summary(), Result: result, Snapshot: in.Save})
}

// HandleListSnapshots lists stored snapshots.
// @Summary List Snapshots
// @Description Lists the comparison snapshots stored in the bucket.
// @Tags snapshots
// @Produce json
// @Success 200 {object} map[string]interface{} "Snapshots"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/snapshots [get]
func (h *Handler) HandleListSnapshots(c *fiber.Ctx) error {
	infos, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, "Listing snapshots failed", err)
	}
	return c.JSON(fiber.Map{"snapshots": infos})
}

// HandleGetSnapshot returns a stored snapshot document.
// @Summary Get Snapshot
// @Description Returns the stored snapshot bundle, including its viewer state.
// @Tags snapshots
// @Produce json
// @Param name path string true "Snapshot name"
// @Success 200 {object} map[string]interface{} "Snapshot document"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /compare/snapshots/{name} [get]
func (h *Handler) HandleGetSnapshot(c *fiber.Ctx) error {
	snap, err := h.service.Load(c.Context(), snapshotName(c))
	if err != nil {
		return h.fail(c, "Loading snapshot failed", err)
	}

	data, err := snapshot.Marshal(snap)
	if err != nil {
		return h.fail(c, "Encoding snapshot failed", err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(data)
}

// HandleExportSnapshot exports a stored snapshot as CSV or XLSX.
// @Summary Export Snapshot
// @Description Renders the rows of a stored snapshot as a CSV or XLSX report.
// @Tags snapshots
// @Produce octet-stream
// @Param name path string true "Snapshot name"
// @Param format query string false "csv or xlsx" default(csv)
// @Param rows query string false "changed, all or unchanged" default(changed)
// @Param show_moved query boolean false "Override the saved show-moved preference"
// @Success 200 {file} file "Report"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /compare/snapshots/{name}/export [get]
func (h *Handler) HandleExportSnapshot(c *fiber.Ctx) error {
	format, err := export.ParseFormat(c.Query("format", string(export.FormatCSV)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	rows, err := export.ParseRowSet(c.Query("rows"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	req := ExportRequest{Format: format, Rows: rows}
	if v := c.Query("show_moved"); v != "" {
		show := utils.ToBool(v)
		req.ShowMoved = &show
	}

	data, fileName, err := h.service.Export(c.Context(), snapshotName(c), req)
	if err != nil {
		return h.fail(c, "Export failed", err)
	}

	c.Attachment(fileName)
	c.Set(fiber.HeaderContentType, format.ContentType())
	return c.Send(data)
}

// HandleDeleteSnapshot deletes a stored snapshot.
// @Summary Delete Snapshot
// @Tags snapshots
// @Param name path string true "Snapshot name"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Invalid name"
// @Router /compare/snapshots/{name} [delete]
func (h *Handler) HandleDeleteSnapshot(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), snapshotName(c)); err != nil {
		return h.fail(c, "Deleting snapshot failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
