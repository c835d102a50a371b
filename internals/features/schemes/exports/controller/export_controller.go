package controller

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/exports/service"
	"schemetrack_backend/internals/features/schemes/schemes/model"
	schemeSvc "schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

const (
	mimeCSV  = "text/csv; charset=utf-8"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportController struct {
	Svc   *service.ExportService
	Clock dbtime.Clock
	Log   *zap.Logger
}

func NewExportController(svc *service.ExportService, clock dbtime.Clock, log *zap.Logger) *ExportController {
	if clock == nil {
		clock = dbtime.AppClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ExportController{Svc: svc, Clock: clock, Log: log.Named("export-http")}
}

// listQuery takes the same filters as the scheme list.
func listQuery(c *fiber.Ctx) (schemeSvc.ListQuery, error) {
	q := schemeSvc.ListQuery{
		Search:          strings.TrimSpace(c.Query("q")),
		IncludeArchived: c.QueryBool("include_archived", false),
		SortBy:          c.Query("sort_by", "created_at"),
		SortOrder:       c.Query("order", "desc"),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st := model.SchemeStatus(strings.ToLower(strings.TrimSpace(part)))
			if !st.Valid() {
				return q, fiber.NewError(fiber.StatusUnprocessableEntity, "unknown status "+part)
			}
			q.Statuses = append(q.Statuses, st)
		}
	}
	if g := strings.TrimSpace(c.Query("group")); g != "" {
		key := helper.GroupKey(g)
		q.GroupKey = &key
	}
	return q, nil
}

func (ctrl *ExportController) send(c *fiber.Ctx, t service.Table, base, format string) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case "csv":
		comma := ','
		if c.Query("sep") == "semicolon" {
			comma = ';'
		}
		err = service.WriteCSV(&buf, t, comma)
		c.Set(fiber.HeaderContentType, mimeCSV)
	case "xlsx":
		err = service.WriteXLSX(&buf, t)
		c.Set(fiber.HeaderContentType, mimeXLSX)
	default:
		return fiber.NewError(fiber.StatusNotFound, "unknown export format")
	}
	if err != nil {
		ctrl.Log.Error("export failed", zap.String("format", format), zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	name := fmt.Sprintf("%s-%s.%s", base, dbtime.FormatDate(ctrl.Clock(), dbtime.DateLayout), format)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+name+`"`)
	c.Set("Cache-Control", "no-store")
	return c.Send(buf.Bytes())
}

// GET /api/a/exports/schemes.:format
func (ctrl *ExportController) Schemes(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	t, err := ctrl.Svc.SchemesTable(c.UserContext(), q, ctrl.Clock())
	if err != nil {
		ctrl.Log.Error("export query failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load schemes")
	}
	return ctrl.send(c, t, "schemes", c.Params("format"))
}

// GET /api/a/exports/schemes/:id/payments.:format
func (ctrl *ExportController) Payments(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid scheme id")
	}
	t, sc, err := ctrl.Svc.PaymentsTable(c.UserContext(), id, ctrl.Clock())
	if err != nil {
		if errors.Is(err, schemeSvc.ErrNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "scheme not found")
		}
		ctrl.Log.Error("export query failed", zap.Error(err))
		return helper.JsonError(c, fiber.StatusInternalServerError, "failed to load scheme")
	}
	base := "payments-" + helper.Slugify(sc.SchemeCustomerName, 40)
	return ctrl.send(c, t, base, c.Params("format"))
}
