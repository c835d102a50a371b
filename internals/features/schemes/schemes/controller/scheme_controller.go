package controller

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/schemes/dto"
	"schemetrack_backend/internals/features/schemes/schemes/model"
	"schemetrack_backend/internals/features/schemes/schemes/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

var schemeSortFields = []string{"created_at", "start_date", "customer_name", "total_remaining"}

type SchemeController struct {
	Svc   *service.SchemeService
	Clock dbtime.Clock
	Log   *zap.Logger
}

func NewSchemeController(svc *service.SchemeService, clock dbtime.Clock, log *zap.Logger) *SchemeController {
	if clock == nil {
		clock = dbtime.AppClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SchemeController{Svc: svc, Clock: clock, Log: log.Named("scheme-http")}
}

func parseSchemeID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid scheme id")
	}
	return id, nil
}

func parseMonth(c *fiber.Ctx) (int, error) {
	n, err := strconv.Atoi(c.Params("month"))
	if err != nil || n < 1 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid month number")
	}
	return n, nil
}

/* ===================== CREATE ===================== */

// POST /api/a/schemes
func (ctrl *SchemeController) Create(c *fiber.Ctx) error {
	var req dto.CreateSchemeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in, err := req.ToInput(helper.GetActor(c))
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"start_date": {err.Error()}})
	}

	sc, err := ctrl.Svc.Create(c.UserContext(), in, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonCreated(c, "scheme created", dto.ToSchemeDTO(*sc, true))
}

/* ===================== READ ===================== */

// GET /api/a/schemes?status=overdue,active&group=...&q=...&include_archived=true&page=1&per_page=25&sort_by=start_date&order=asc
func (ctrl *SchemeController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", schemeSortFields, helper.AdminOpts)

	q := service.ListQuery{
		Search:          strings.TrimSpace(c.Query("q", c.Query("search"))),
		IncludeArchived: c.QueryBool("include_archived", false),
		SortBy:          p.SortBy,
		SortOrder:       p.SortOrder,
		Offset:          p.Offset(),
		Limit:           p.Limit(),
	}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st := model.SchemeStatus(strings.ToLower(strings.TrimSpace(part)))
			if !st.Valid() {
				return helper.JsonValidationError(c, map[string][]string{"status": {"unknown status " + part}})
			}
			q.Statuses = append(q.Statuses, st)
		}
	}
	if g := strings.TrimSpace(c.Query("group")); g != "" {
		key := helper.GroupKey(g)
		q.GroupKey = &key
	}

	list, total, err := ctrl.Svc.List(c.UserContext(), q, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonList(c, "ok", dto.ToSchemeDTOs(list), helper.BuildMeta(total, len(list), p))
}

// GET /api/a/schemes/:id
func (ctrl *SchemeController) Detail(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	sc, err := ctrl.Svc.Get(c.UserContext(), id, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonOK(c, "ok", dto.ToSchemeDTO(*sc, true))
}

// GET /api/a/schemes/:id/events
func (ctrl *SchemeController) Events(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	list, err := ctrl.Svc.Events(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonList(c, "ok", dto.ToSchemeEventDTOs(list), nil)
}

/* ===================== UPDATE ===================== */

// PATCH /api/a/schemes/:id
func (ctrl *SchemeController) Update(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSchemeRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	sc, err := ctrl.Svc.UpdateDetails(c.UserContext(), id, req.ToInput(), ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonUpdated(c, "scheme updated", dto.ToSchemeDTO(*sc, true))
}

/* ===================== PAYMENTS ===================== */

// PUT /api/a/schemes/:id/payments/:month
func (ctrl *SchemeController) RecordPayment(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	month, err := parseMonth(c)
	if err != nil {
		return err
	}
	var req dto.RecordPaymentRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	in, err := req.ToInput(helper.GetActor(c))
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"payment_date": {err.Error()}})
	}

	sc, err := ctrl.Svc.RecordPayment(c.UserContext(), id, month, in, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonUpdated(c, "payment recorded", dto.ToSchemeDTO(*sc, true))
}

// DELETE /api/a/schemes/:id/payments/:month
func (ctrl *SchemeController) ClearPayment(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	month, err := parseMonth(c)
	if err != nil {
		return err
	}
	sc, err := ctrl.Svc.ClearPayment(c.UserContext(), id, month, helper.GetActor(c), ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonUpdated(c, "payment cleared", dto.ToSchemeDTO(*sc, true))
}

func (ctrl *SchemeController) setPaymentArchived(c *fiber.Ctx, archived bool) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	month, err := parseMonth(c)
	if err != nil {
		return err
	}
	sc, err := ctrl.Svc.SetPaymentArchived(c.UserContext(), id, month, archived, ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonUpdated(c, "", dto.ToSchemeDTO(*sc, true))
}

// POST /api/a/schemes/:id/payments/:month/archive
func (ctrl *SchemeController) ArchivePayment(c *fiber.Ctx) error {
	return ctrl.setPaymentArchived(c, true)
}

// POST /api/a/schemes/:id/payments/:month/unarchive
func (ctrl *SchemeController) UnarchivePayment(c *fiber.Ctx) error {
	return ctrl.setPaymentArchived(c, false)
}

/* ===================== LIFECYCLE ===================== */

// POST /api/a/schemes/:id/close
func (ctrl *SchemeController) Close(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	var req dto.CloseSchemeRequest
	if len(c.Body()) > 0 {
		if ok, err := helper.BindAndValidate(c, &req); !ok {
			return err
		}
	}
	on, err := req.Date()
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"closure_date": {err.Error()}})
	}
	sc, err := ctrl.Svc.Close(c.UserContext(), id, on, helper.GetActor(c), ctrl.Clock())
	if err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonUpdated(c, "scheme closed", dto.ToSchemeDTO(*sc, false))
}

type lifecycleFn func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error)

func (ctrl *SchemeController) lifecycle(message string, fn lifecycleFn) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseSchemeID(c)
		if err != nil {
			return err
		}
		sc, err := fn(ctrl, c, id)
		if err != nil {
			return writeServiceError(c, ctrl.Log, err)
		}
		return helper.JsonUpdated(c, message, dto.ToSchemeDTO(*sc, false))
	}
}

// POST /api/a/schemes/:id/reopen
func (ctrl *SchemeController) Reopen() fiber.Handler {
	return ctrl.lifecycle("scheme reopened", func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error) {
		return ctrl.Svc.Reopen(c.UserContext(), id, helper.GetActor(c), ctrl.Clock())
	})
}

// POST /api/a/schemes/:id/archive
func (ctrl *SchemeController) Archive() fiber.Handler {
	return ctrl.lifecycle("scheme archived", func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error) {
		return ctrl.Svc.Archive(c.UserContext(), id, helper.GetActor(c), ctrl.Clock())
	})
}

// POST /api/a/schemes/:id/unarchive
func (ctrl *SchemeController) Unarchive() fiber.Handler {
	return ctrl.lifecycle("scheme unarchived", func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error) {
		return ctrl.Svc.Unarchive(c.UserContext(), id, helper.GetActor(c), ctrl.Clock())
	})
}

// POST /api/a/schemes/:id/trash
func (ctrl *SchemeController) Trash() fiber.Handler {
	return ctrl.lifecycle("scheme moved to trash", func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error) {
		return ctrl.Svc.Trash(c.UserContext(), id, helper.GetActor(c), ctrl.Clock())
	})
}

// POST /api/a/schemes/:id/restore
func (ctrl *SchemeController) Restore() fiber.Handler {
	return ctrl.lifecycle("scheme restored", func(ctrl *SchemeController, c *fiber.Ctx, id uuid.UUID) (*model.SchemeModel, error) {
		return ctrl.Svc.Restore(c.UserContext(), id, helper.GetActor(c), ctrl.Clock())
	})
}

/* ===================== DELETE ===================== */

// DELETE /api/a/schemes/:id (trashed schemes only)
func (ctrl *SchemeController) Delete(c *fiber.Ctx) error {
	id, err := parseSchemeID(c)
	if err != nil {
		return err
	}
	if err := ctrl.Svc.DeletePermanent(c.UserContext(), id); err != nil {
		return writeServiceError(c, ctrl.Log, err)
	}
	return helper.JsonDeleted(c, "scheme deleted", fiber.Map{"scheme_id": id})
}
