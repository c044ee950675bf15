package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hr-leave-engine/internal/adapter/middleware"
	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/usecase/policy"
)

type PolicyHandler struct{ uc *policy.Usecase }

func NewPolicyHandler(uc *policy.Usecase) *PolicyHandler { return &PolicyHandler{uc: uc} }

func (h *PolicyHandler) List(c echo.Context) error {
	ps, err := h.uc.List(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"policies": ps})
}

// getInput reads the resolution context shared by Get and Entitlement.
func getInput(c echo.Context, t domain.LeaveType) (policy.GetInput, error) {
	gl, err := queryInt(c, "gradeLevel")
	if err != nil {
		return policy.GetInput{}, err
	}
	inactive, err := queryBool(c, "includeInactive")
	if err != nil {
		return policy.GetInput{}, err
	}
	return policy.GetInput{
		LeaveType:       t,
		FacilityID:      strings.TrimSpace(c.QueryParam("facilityId")),
		GradeLevel:      gl,
		IncludeInactive: inactive,
	}, nil
}

func (h *PolicyHandler) Get(c echo.Context) error {
	in, err := getInput(c, domain.LeaveType(c.Param("leaveType")))
	if err != nil {
		return fail(c, err)
	}
	if in.IncludeInactive {
		if a, _ := middleware.ActorFrom(c); !a.Has(middleware.PermManageSettings) {
			return forbidden(c)
		}
	}
	ep, err := h.uc.Get(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"policy": ep})
}

func (h *PolicyHandler) Entitlement(c echo.Context) error {
	t := strings.TrimSpace(c.QueryParam("leaveType"))
	if t == "" {
		return badRequest(c, "leaveType", "leaveType is required")
	}
	in, err := getInput(c, domain.LeaveType(t))
	if err != nil {
		return fail(c, err)
	}
	ent, err := h.uc.Entitlement(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"entitlement": ent})
}

func (h *PolicyHandler) Create(c echo.Context) error {
	var req policy.CreateInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	p, err := h.uc.Create(c.Request().Context(), req, a.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, map[string]any{"policy": p})
}

// decodeStrict rejects fields that are not part of dst.
func decodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errs.New(errs.ValidationKind, "request body is empty")
		}
		msg := err.Error()
		if f, found := strings.CutPrefix(msg, "json: unknown field "); found {
			f = strings.Trim(f, `"`)
			return errs.Field(errs.ValidationKind, f, f+" is not an updatable field")
		}
		return errs.New(errs.ValidationKind, "invalid body: "+msg)
	}
	return nil
}

func (h *PolicyHandler) Update(c echo.Context) error {
	var f domain.UpdatableFields
	if err := decodeStrict(c.Request().Body, &f); err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	p, err := h.uc.Update(c.Request().Context(), domain.LeaveType(c.Param("leaveType")), f, a.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"policy": p})
}

func (h *PolicyHandler) UpsertFacilityOverride(c echo.Context) error {
	var o domain.FacilityOverride
	if err := decodeStrict(c.Request().Body, &o); err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	p, err := h.uc.UpsertFacilityOverride(c.Request().Context(), domain.LeaveType(c.Param("leaveType")), o, a.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"policy": p})
}

func (h *PolicyHandler) History(c echo.Context) error {
	hist, err := h.uc.History(c.Request().Context(), domain.LeaveType(c.Param("leaveType")))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, hist)
}
