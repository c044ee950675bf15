package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-leave-engine/internal/domain/errs"
	domain "hr-leave-engine/internal/domain/policy"
	"hr-leave-engine/internal/i18n"
	policyuc "hr-leave-engine/internal/usecase/policy"
)

func TestPolicyRoutes_RequireAuth(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodGet, "/api/leave-policy", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPolicyHandler_List(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodGet, "/api/leave-policy", e1Token(t), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decode[struct {
		Policies []domain.Policy `json:"policies"`
	}](t, rec)
	require.True(t, env.Success)
	require.Len(t, env.Data.Policies, len(domain.LeaveTypes()))
	for i := 1; i < len(env.Data.Policies); i++ {
		assert.Less(t, string(env.Data.Policies[i-1].LeaveType), string(env.Data.Policies[i].LeaveType))
	}
}

func TestPolicyHandler_Get_ResolvesGrade(t *testing.T) {
	api := newTestAPI(t, nil)
	tests := []struct {
		grade string
		want  int
	}{
		{"2", 14},
		{"5", 21},
		{"10", 30},
	}
	for _, tt := range tests {
		rec := api.do(t, http.MethodGet, "/api/leave-policy/annual?gradeLevel="+tt.grade, e1Token(t), nil, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		env := decode[struct {
			Policy domain.EffectivePolicy `json:"policy"`
		}](t, rec)
		assert.Equal(t, tt.want, env.Data.Policy.MaxDaysPerYear, "grade %s", tt.grade)
		assert.True(t, env.Data.Policy.IsGradeLevelOverride)
	}
}

func TestPolicyHandler_Get_Errors(t *testing.T) {
	api := newTestAPI(t, nil)
	tests := []struct {
		name string
		path string
		tok  string
		code int
		kind errs.Kind
	}{
		{"unknown type", "/api/leave-policy/sick", e1Token(t), http.StatusNotFound, errs.PolicyNotFoundKind},
		{"unknown type history", "/api/leave-policy/sick/history", hrToken(t), http.StatusNotFound, errs.PolicyNotFoundKind},
		{"bad grade", "/api/leave-policy/annual?gradeLevel=high", e1Token(t), http.StatusBadRequest, errs.ValidationKind},
		{"inactive needs manage_settings", "/api/leave-policy/annual?includeInactive=true", e1Token(t), http.StatusForbidden, errs.ForbiddenKind},
		{"entitlement without type", "/api/leave-policy/calculate-entitlement", e1Token(t), http.StatusBadRequest, errs.ValidationKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(t, http.MethodGet, tt.path, tt.tok, nil, nil)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			env := decode[any](t, rec)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.kind, env.Error.Kind)
		})
	}
}

func TestPolicyHandler_UnknownTypeLocalized(t *testing.T) {
	i18n.Init("en")
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPut, "/api/leave-policy/sick", hrToken(t), strings.NewReader(`{"minimumNoticeDays":2}`), map[string]string{"Accept-Language": "id"})
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())
	env := decode[any](t, rec)
	assert.Equal(t, errs.PolicyNotFoundKind, env.Error.Kind)
	assert.Equal(t, "Kebijakan cuti untuk sick tidak ditemukan", env.Error.Message)
}

func TestPolicyHandler_InactivePolicy(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodPut, "/api/leave-policy/takaba", hrToken(t), strings.NewReader(`{"isActive":false}`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, http.MethodGet, "/api/leave-policy/takaba", e1Token(t), nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errs.PolicyNotFoundKind, decode[any](t, rec).Error.Kind)

	rec = api.do(t, http.MethodGet, "/api/leave-policy/takaba?includeInactive=true", hrToken(t), nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPolicyHandler_Entitlement(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodGet, "/api/leave-policy/calculate-entitlement?leaveType=annual&gradeLevel=5&facilityId=F1", e1Token(t), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[struct {
		Entitlement policyuc.EntitlementDTO `json:"entitlement"`
	}](t, rec)
	assert.Equal(t, 21, env.Data.Entitlement.MaxDaysPerYear)
	assert.Equal(t, 100, env.Data.Entitlement.SalaryPercentage)
}

func TestPolicyHandler_Update(t *testing.T) {
	api := newTestAPI(t, nil)

	rec := api.do(t, http.MethodPut, "/api/leave-policy/casual", e1Token(t), strings.NewReader(`{"minimumNoticeDays":2}`), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, http.MethodPut, "/api/leave-policy/casual", hrToken(t), strings.NewReader(`{"policyVersion":9}`), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	env := decode[any](t, rec)
	assert.Equal(t, errs.ValidationKind, env.Error.Kind)
	assert.Equal(t, "policyVersion", env.Error.Field)

	rec = api.do(t, http.MethodPut, "/api/leave-policy/casual", hrToken(t), strings.NewReader(`{"salaryPercentage":150}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	for want := 2; want <= 3; want++ {
		rec = api.do(t, http.MethodPut, "/api/leave-policy/casual", hrToken(t), strings.NewReader(`{"minimumNoticeDays":2}`), nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		got := decode[struct {
			Policy domain.Policy `json:"policy"`
		}](t, rec)
		assert.Equal(t, want, got.Data.Policy.PolicyVersion)
		assert.Equal(t, "hr-1", got.Data.Policy.LastUpdatedBy)
	}

	rec = api.do(t, http.MethodGet, "/api/leave-policy/casual/history", hrToken(t), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	hist := decode[policyuc.HistoryDTO](t, rec)
	assert.Equal(t, 3, hist.Data.CurrentVersion)
	assert.Len(t, hist.Data.Revisions, 3)
}

func TestPolicyHandler_CreateDuplicate(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodPost, "/api/leave-policy/create", hrToken(t),
		mustJSON(t, map[string]any{"leaveType": "annual", "displayName": "Annual"}), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Equal(t, errs.DuplicateKind, decode[any](t, rec).Error.Kind)

	rec = api.do(t, http.MethodPost, "/api/leave-policy/create", hrToken(t), mustJSON(t, map[string]any{"leaveType": "annual"}), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[any](t, rec)
	assert.Equal(t, "displayName", env.Error.Field)
}

func TestPolicyHandler_FacilityOverride(t *testing.T) {
	api := newTestAPI(t, nil)
	rec := api.do(t, http.MethodPost, "/api/leave-policy/annual/facility-override", hrToken(t),
		strings.NewReader(`{"facility":"F9","salaryPercentage":80,"maxDaysPerYear":25}`), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// grade rules apply after the facility overlay
	rec = api.do(t, http.MethodGet, "/api/leave-policy/annual?facilityId=F9", e1Token(t), nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[struct {
		Policy domain.EffectivePolicy `json:"policy"`
	}](t, rec)
	assert.Equal(t, 80, env.Data.Policy.SalaryPercentage)
	assert.Equal(t, 25, env.Data.Policy.MaxDaysPerYear)
	assert.True(t, env.Data.Policy.IsFacilityOverride)

	rec = api.do(t, http.MethodPost, "/api/leave-policy/annual/facility-override", hrToken(t),
		strings.NewReader(`{"salaryPercentage":80}`), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
