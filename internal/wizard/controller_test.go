package wizard_test

import (
	"context"
	"encoding/json"
	"testing"

	"gigexecs-backend/internal/drafts"
	"gigexecs-backend/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) (*wizard.Controller, *drafts.MemoryStore) {
	t.Helper()
	registry, err := wizard.DefaultRegistry()
	require.NoError(t, err)
	store := drafts.NewMemoryStore()
	return wizard.NewController(registry, store), store
}

func fields(t *testing.T, v map[string]any) map[string]json.RawMessage {
	t.Helper()
	out := map[string]json.RawMessage{}
	for k, val := range v {
		b, err := json.Marshal(val)
		require.NoError(t, err)
		out[k] = b
	}
	return out
}

func validDetails(t *testing.T) map[string]json.RawMessage {
	return fields(t, map[string]any{
		"gigName":        "Audit",
		"gigDescription": "Year-end audit of a mid-size manufacturer.",
		"selectedSkills": []map[string]any{{"id": 5, "name": "Audit"}},
	})
}

var gigKey = drafts.NewKey(wizard.GigCreation, "user-1", "")

func TestEnter_FirstStepStartsDraft(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	view, err := ctrl.Enter(ctx, gigKey, "details")
	require.NoError(t, err)
	assert.Equal(t, 0, view.Index)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, "budget", view.Next)
	assert.Empty(t, view.Previous)

	_, err = store.Load(ctx, gigKey)
	assert.NoError(t, err)
}

func TestEnter_LaterStepWithoutDraftRestarts(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.Enter(context.Background(), gigKey, "budget")

	var restart *wizard.RestartError
	require.ErrorAs(t, err, &restart)
	assert.Equal(t, "details", restart.Step)
}

func TestEnter_UnknownStep(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.Enter(context.Background(), gigKey, "payment")
	assert.ErrorIs(t, err, wizard.ErrUnknownStep)

	_, err = ctrl.Enter(context.Background(), drafts.NewKey("staff_signup", "user-1", ""), "details")
	assert.ErrorIs(t, err, wizard.ErrUnknownWizard)
}

func TestContinue_ValidatesOnlyOwnFields(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()

	// Budget and duration belong to the next step and are not checked here.
	tr, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)
	assert.Equal(t, "budget", tr.Step)
}

func TestContinue_InvalidBlocksAndKeepsDraft(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	_, err = ctrl.Continue(ctx, gigKey, "details", fields(t, map[string]any{
		"gigName":        "   ",
		"selectedSkills": []any{},
	}))

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "details", verr.Step)
	assert.Contains(t, verr.Fields, "gigName")
	assert.Contains(t, verr.Fields, "selectedSkills")

	draft, err := store.Load(ctx, gigKey)
	require.NoError(t, err)
	assert.JSONEq(t, `"Audit"`, string(draft.Fields["gigName"]))
}

func TestContinue_FieldsPersistAcrossSteps(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	_, err = ctrl.Enter(ctx, gigKey, "budget")
	require.NoError(t, err)

	_, err = ctrl.Continue(ctx, gigKey, "budget", fields(t, map[string]any{
		"budget":   "2000",
		"duration": "1-3-months",
	}))
	require.NoError(t, err)

	draft, err := store.Load(ctx, gigKey)
	require.NoError(t, err)
	assert.JSONEq(t, `"Audit"`, string(draft.Fields["gigName"]))
	assert.JSONEq(t, `[{"id":5,"name":"Audit"}]`, string(draft.Fields["selectedSkills"]))
	assert.JSONEq(t, `"2000"`, string(draft.Fields["budget"]))
}

func TestContinue_IgnoresFieldsOfOtherSteps(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	input := validDetails(t)
	input["budget"] = json.RawMessage(`"999"`)

	_, err := ctrl.Continue(ctx, gigKey, "details", input)
	require.NoError(t, err)

	draft, err := store.Load(ctx, gigKey)
	require.NoError(t, err)
	assert.False(t, draft.Has("budget"))
}

func TestContinue_BudgetRules(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()
	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	_, err = ctrl.Continue(ctx, gigKey, "budget", fields(t, map[string]any{
		"budgetToBeConfirmed": true,
		"duration":            "3-6-months",
	}))
	assert.NoError(t, err)

	_, err = ctrl.Continue(ctx, gigKey, "budget", fields(t, map[string]any{
		"budgetToBeConfirmed": false,
		"budget":              "-10",
		"duration":            "forever",
	}))
	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "should be a positive number", verr.Fields["budget"])
	assert.Contains(t, verr.Fields, "duration")
}

func TestContinue_WrongTypeIsFieldError(t *testing.T) {
	ctrl, _ := newController(t)

	_, err := ctrl.Continue(context.Background(), gigKey, "details", fields(t, map[string]any{
		"gigName":        42,
		"gigDescription": "x",
		"selectedSkills": []map[string]any{{"id": 5, "name": "Audit"}},
	}))

	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "gigName")
}

func TestBack_NeverValidates(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	tr, err := ctrl.Back(ctx, gigKey, "budget", fields(t, map[string]any{
		"budget":   "not a number",
		"duration": "",
	}))
	require.NoError(t, err)
	assert.Equal(t, "details", tr.Step)

	draft, err := store.Load(ctx, gigKey)
	require.NoError(t, err)
	assert.JSONEq(t, `"not a number"`, string(draft.Fields["budget"]))
}

func TestBack_FromFirstStepLeavesWizard(t *testing.T) {
	ctrl, _ := newController(t)

	tr, err := ctrl.Back(context.Background(), gigKey, "details", nil)
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", tr.Redirect)
	assert.Empty(t, tr.Step)
}

func TestBack_LaterStepWithoutDraftRestarts(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()

	_, err := ctrl.Back(ctx, gigKey, "questions", fields(t, map[string]any{
		"screeningQuestions": []any{},
	}))

	var restart *wizard.RestartError
	require.ErrorAs(t, err, &restart)
	assert.Equal(t, "details", restart.Step)

	_, err = store.Load(ctx, gigKey)
	assert.ErrorIs(t, err, drafts.ErrNotFound)

	_, err = ctrl.Enter(ctx, gigKey, "review")
	require.ErrorAs(t, err, &restart)
}

func TestSkip_OnlyOptionalSteps(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()
	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	tr, err := ctrl.Skip(ctx, gigKey, "attachments")
	require.NoError(t, err)
	assert.Equal(t, "questions", tr.Step)

	_, err = ctrl.Skip(ctx, gigKey, "budget")
	assert.ErrorIs(t, err, wizard.ErrStepNotSkippable)

	draft, err := store.Load(ctx, gigKey)
	require.NoError(t, err)
	assert.False(t, draft.Has("attachments"))
}

func TestEnter_ReviewShowsWholeDraft(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()
	_, err := ctrl.Continue(ctx, gigKey, "details", validDetails(t))
	require.NoError(t, err)

	view, err := ctrl.Enter(ctx, gigKey, "review")
	require.NoError(t, err)
	assert.Contains(t, view.Fields, "gigName")
	assert.Contains(t, view.Fields, "selectedSkills")
	assert.Empty(t, view.Next)
}

func TestContinue_HourlyRateRange(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, "user-1", "")

	_, err := ctrl.Continue(ctx, key, "method", fields(t, map[string]any{"method": "manual"}))
	require.NoError(t, err)

	_, err = ctrl.Continue(ctx, key, "hourly_rate", fields(t, map[string]any{
		"hourlyRateMin": 150,
		"hourlyRateMax": "120",
	}))
	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "hourlyRateMax")

	tr, err := ctrl.Continue(ctx, key, "hourly_rate", fields(t, map[string]any{
		"hourlyRateMin": 100,
		"hourlyRateMax": "150",
		"currency":      "USD",
	}))
	require.NoError(t, err)
	assert.Equal(t, "review", tr.Step)
}

func TestContinue_WorkExperienceDates(t *testing.T) {
	ctrl, _ := newController(t)
	ctx := context.Background()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, "user-1", "")
	_, err := ctrl.Continue(ctx, key, "method", fields(t, map[string]any{"method": "manual"}))
	require.NoError(t, err)

	_, err = ctrl.Continue(ctx, key, "work_experience", fields(t, map[string]any{
		"workExperience": []map[string]any{{
			"company":   "Acme",
			"jobTitle":  "CFO",
			"startYear": 2020,
			"endYear":   2018,
		}},
	}))
	var verr *wizard.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "workExperience[0].endYear")
}

func TestHydrate_KeepsKnownFieldsOnly(t *testing.T) {
	ctrl, store := newController(t)
	ctx := context.Background()
	key := drafts.NewKey(wizard.ProfessionalOnboarding, "user-1", "")

	require.NoError(t, ctrl.Hydrate(ctx, key, fields(t, map[string]any{
		"firstName": "Ada",
		"salary":    "secret",
	})))

	draft, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, draft.Has("firstName"))
	assert.False(t, draft.Has("salary"))
}
