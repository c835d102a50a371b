package controller

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"schemetrack_backend/internals/features/schemes/groups/dto"
	"schemetrack_backend/internals/features/schemes/groups/service"
	helper "schemetrack_backend/internals/helpers"
	"schemetrack_backend/internals/helpers/dbtime"
)

type GroupController struct {
	Svc   *service.GroupService
	Clock dbtime.Clock
	Log   *zap.Logger
}

func NewGroupController(svc *service.GroupService, clock dbtime.Clock, log *zap.Logger) *GroupController {
	if clock == nil {
		clock = dbtime.AppClock
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GroupController{Svc: svc, Clock: clock, Log: log.Named("group-http")}
}

func (ctrl *GroupController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicate):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidName):
		return helper.JsonValidationError(c, map[string][]string{"group_name": {err.Error()}})
	}
	ctrl.Log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	return helper.JsonError(c, fiber.StatusInternalServerError, "internal server error")
}

func parseGroupID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid group id")
	}
	return id, nil
}

/* ===================== CREATE ===================== */

// POST /api/a/groups
func (ctrl *GroupController) Create(c *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	g, err := ctrl.Svc.Create(c.UserContext(), req.Name)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonCreated(c, "group created", dto.ToGroupDTO(*g))
}

/* ===================== READ ===================== */

// GET /api/a/groups?include_archived=true&with_schemes=true
func (ctrl *GroupController) List(c *fiber.Ctx) error {
	list, err := ctrl.Svc.List(c.UserContext(),
		c.QueryBool("include_archived", false),
		c.QueryBool("with_schemes", false),
		ctrl.Clock(),
	)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonList(c, "ok", dto.ToGroupDetailDTOs(list), nil)
}

// GET /api/a/groups/:id
func (ctrl *GroupController) Detail(c *fiber.Ctx) error {
	id, err := parseGroupID(c)
	if err != nil {
		return err
	}
	d, err := ctrl.Svc.Detail(c.UserContext(), id, ctrl.Clock())
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDetailDTO(*d))
}

// GET /api/a/groups/by-name/:name
func (ctrl *GroupController) DetailByName(c *fiber.Ctx) error {
	d, err := ctrl.Svc.DetailByKey(c.UserContext(), c.Params("name"), ctrl.Clock())
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDetailDTO(*d))
}

/* ===================== UPDATE ===================== */

// PATCH /api/a/groups/:id
func (ctrl *GroupController) Rename(c *fiber.Ctx) error {
	id, err := parseGroupID(c)
	if err != nil {
		return err
	}
	var req dto.RenameGroupRequest
	if ok, err := helper.BindAndValidate(c, &req); !ok {
		return err
	}
	g, n, err := ctrl.Svc.Rename(c.UserContext(), id, req.Name)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonUpdated(c, "group renamed", fiber.Map{
		"group":             dto.ToGroupDTO(*g),
		"schemes_relabeled": n,
	})
}

func (ctrl *GroupController) setArchived(c *fiber.Ctx, archived bool) error {
	id, err := parseGroupID(c)
	if err != nil {
		return err
	}
	g, err := ctrl.Svc.SetArchived(c.UserContext(), id, archived)
	if err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonUpdated(c, "", dto.ToGroupDTO(*g))
}

// POST /api/a/groups/:id/archive
func (ctrl *GroupController) Archive(c *fiber.Ctx) error { return ctrl.setArchived(c, true) }

// POST /api/a/groups/:id/unarchive
func (ctrl *GroupController) Unarchive(c *fiber.Ctx) error { return ctrl.setArchived(c, false) }

/* ===================== DELETE ===================== */

// DELETE /api/a/groups/:id (schemes keep their label)
func (ctrl *GroupController) Delete(c *fiber.Ctx) error {
	id, err := parseGroupID(c)
	if err != nil {
		return err
	}
	if err := ctrl.Svc.Delete(c.UserContext(), id); err != nil {
		return ctrl.fail(c, err)
	}
	return helper.JsonDeleted(c, "group deleted", fiber.Map{"group_id": id})
}
