package http

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"hr-leave-engine/internal/adapter/attachment"
	"hr-leave-engine/internal/adapter/middleware"
	domain "hr-leave-engine/internal/domain/leave"
	"hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/usecase/leave"
	"hr-leave-engine/pkg/id"
)

const maxDocuments = 5

type LeaveHandler struct {
	uc    *leave.Usecase
	files attachment.Store
}

// NewLeaveHandler wires the lifecycle usecase. files may be nil, in which
// case multipart uploads are refused.
func NewLeaveHandler(uc *leave.Usecase, files attachment.Store) *LeaveHandler {
	return &LeaveHandler{uc: uc, files: files}
}

type submitReq struct {
	EmployeeID  string              `json:"employeeId" form:"employeeId" validate:"omitempty,employeeid"`
	LeaveType   string              `json:"leaveType"  form:"leaveType"  validate:"required,leavetype"`
	StartDate   string              `json:"startDate"  form:"startDate"  validate:"required,isodate"`
	EndDate     string              `json:"endDate"    form:"endDate"    validate:"required,isodate"`
	Reason      string              `json:"reason"     form:"reason"     validate:"max=2000"`
	Attachments []domain.Attachment `json:"attachments,omitempty" form:"-" validate:"max=5"`
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// bindSubmit binds and validates the body, enforces who may file for whom and
// stores any uploaded documents.
func (h *LeaveHandler) bindSubmit(c echo.Context, upload bool) (leave.SubmitInput, error) {
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return leave.SubmitInput{}, badRequestErr("", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return leave.SubmitInput{}, err
	}

	a, _ := middleware.ActorFrom(c)
	if req.EmployeeID == "" {
		req.EmployeeID = a.EmployeeID
	}
	if req.EmployeeID == "" {
		return leave.SubmitInput{}, badRequestErr("employeeId", "employeeId is required")
	}
	if !a.Has(middleware.PermSubmitLeave) && !a.IsSelf(req.EmployeeID) {
		return leave.SubmitInput{}, forbiddenErr()
	}

	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)
	in := leave.SubmitInput{
		EmployeeID:  req.EmployeeID,
		LeaveType:   policy.LeaveType(req.LeaveType),
		StartDate:   start,
		EndDate:     end,
		Reason:      strings.TrimSpace(req.Reason),
		Attachments: req.Attachments,
	}

	if !isMultipart(c) {
		return in, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return leave.SubmitInput{}, badRequestErr("documents", "invalid multipart body")
	}
	docs := form.File["documents"]
	if len(docs)+len(in.Attachments) > maxDocuments {
		return leave.SubmitInput{}, badRequestErr("documents", "at most 5 documents may be attached")
	}
	if !upload {
		// a dry run only needs to know documents are present
		for _, fh := range docs {
			in.Attachments = append(in.Attachments, domain.Attachment{Name: fh.Filename, Size: fh.Size})
		}
		return in, nil
	}
	if len(docs) > 0 {
		// files are keyed by employee, so the id must resolve before anything is written
		if err := h.uc.CheckEmployee(c.Request().Context(), in.EmployeeID); err != nil {
			return leave.SubmitInput{}, err
		}
	}
	saved, err := h.save(c, in.EmployeeID, docs)
	if err != nil {
		return leave.SubmitInput{}, err
	}
	in.Attachments = append(in.Attachments, saved...)
	return in, nil
}

func (h *LeaveHandler) save(c echo.Context, employeeID string, docs []*multipart.FileHeader) ([]domain.Attachment, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if h.files == nil {
		return nil, badRequestErr("documents", "file uploads are not enabled")
	}
	out := make([]domain.Attachment, 0, len(docs))
	for _, fh := range docs {
		att, err := h.files.Save(c.Request().Context(), employeeID, fh)
		if err != nil {
			return nil, err
		}
		out = append(out, att)
	}
	return out, nil
}

func (h *LeaveHandler) Submit(c echo.Context) error {
	in, err := h.bindSubmit(c, true)
	if err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	dto, err := h.uc.Submit(c.Request().Context(), in, a.ID)
	if err != nil {
		if len(in.Attachments) > 0 {
			slog.InfoContext(c.Request().Context(), "submission failed after upload",
				"employeeId", in.EmployeeID, "documents", len(in.Attachments), "err", err)
		}
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, map[string]any{"request": dto})
}

func (h *LeaveHandler) Validate(c echo.Context) error {
	in, err := h.bindSubmit(c, false)
	if err != nil {
		return fail(c, err)
	}
	res, err := h.uc.ValidateDraft(c.Request().Context(), in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, res)
}

func requestIDParam(c echo.Context) (string, error) {
	rid, valid := id.Parse(c.Param("requestId"))
	if !valid {
		return "", badRequestErr("requestId", "requestId is not a valid id")
	}
	return rid, nil
}

func (h *LeaveHandler) Process(c echo.Context) error {
	rid, err := requestIDParam(c)
	if err != nil {
		return fail(c, err)
	}
	var req leave.ProcessInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "", "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	dto, err := h.uc.Process(c.Request().Context(), rid, req, a.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"request": dto})
}

func (h *LeaveHandler) AutoApprove(c echo.Context) error {
	rid, err := requestIDParam(c)
	if err != nil {
		return fail(c, err)
	}
	a, _ := middleware.ActorFrom(c)
	dto, err := h.uc.AutoApprove(c.Request().Context(), rid, a.ID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"request": dto})
}

// canView allows readers holding view_leave_requests, or the employee themself.
func canView(c echo.Context, employeeID string) bool {
	a, _ := middleware.ActorFrom(c)
	return a.Has(middleware.PermViewLeaveRequests) || a.IsSelf(employeeID)
}

func (h *LeaveHandler) Get(c echo.Context) error {
	rid, err := requestIDParam(c)
	if err != nil {
		return fail(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), rid)
	if err != nil {
		return fail(c, err)
	}
	if !canView(c, dto.EmployeeID) {
		return forbidden(c)
	}
	return ok(c, http.StatusOK, map[string]any{"request": dto})
}

func (h *LeaveHandler) ListByEmployee(c echo.Context) error {
	emp := c.Param("employeeId")
	if !canView(c, emp) {
		return forbidden(c)
	}
	rs, err := h.uc.ListByEmployee(c.Request().Context(), emp,
		domain.Status(c.QueryParam("status")), policy.LeaveType(c.QueryParam("leaveType")))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"requests": rs, "count": len(rs)})
}

func (h *LeaveHandler) ListPending(c echo.Context) error {
	rs, err := h.uc.ListPending(c.Request().Context(),
		c.QueryParam("facilityId"), policy.LeaveType(c.QueryParam("leaveType")))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"requests": rs, "count": len(rs)})
}

func (h *LeaveHandler) ListOverdue(c echo.Context) error {
	rs, err := h.uc.ListOverdue(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"requests": rs, "count": len(rs)})
}

// Statistics accepts facilityId, employeeId, startDate and endDate filters.
func (h *LeaveHandler) Statistics(c echo.Context) error {
	f := domain.StatsFilter{
		EmployeeID: strings.TrimSpace(c.QueryParam("employeeId")),
		FacilityID: strings.TrimSpace(c.QueryParam("facilityId")),
	}
	var err error
	if f.From, err = queryDate(c, "startDate"); err != nil {
		return fail(c, err)
	}
	if f.To, err = queryDate(c, "endDate"); err != nil {
		return fail(c, err)
	}
	st, err := h.uc.Statistics(c.Request().Context(), f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]any{"statistics": st})
}

func (h *LeaveHandler) Balances(c echo.Context) error {
	emp := c.Param("employeeId")
	if !canView(c, emp) {
		return forbidden(c)
	}
	year, err := queryInt(c, "year")
	if err != nil {
		return fail(c, err)
	}
	y := 0
	if year != nil {
		y = *year
	}
	sum, err := h.uc.Balances(c.Request().Context(), emp, y)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, sum)
}
