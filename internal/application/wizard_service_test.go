package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/helpers"
)

var allSteps = []StepAnswers{
	{Concepts: []string{"idol-makeup", "glass-skin"}},
	{FavoriteIdol: "  Wonyoung "},
	{DateRange: &entity.DateRange{Start: "2026-11-01", End: "2026-11-04"}},
	{Regions: []string{"seongsu", "gangnam"}},
	{Budget: &entity.Budget{Min: 100000, Max: 300000}},
}

func TestWizard_StepsThenSubmit(t *testing.T) {
	var submitted entity.Survey
	mux := http.NewServeMux()
	mux.HandleFunc("/surveys", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&submitted))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 11})
	})
	f := newFixture(t, mux)
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())
	ctx := context.Background()

	for i, a := range allSteps {
		d, err := svc.WriteStep(ctx, "dev-1", i+1, a)
		require.NoError(t, err, "step %d", i+1)
		assert.Equal(t, i+2, d.Step)
	}

	d, err := svc.Draft(ctx, "dev-1")
	require.NoError(t, err)
	assert.True(t, d.Complete())
	assert.Equal(t, []string{"idol-makeup", "glass-skin"}, d.Concepts)
	assert.Equal(t, "Wonyoung", d.FavoriteIdol)
	assert.Equal(t, "2026-11-04", d.DateRange.End)
	assert.Equal(t, []string{"seongsu", "gangnam"}, d.Regions)
	assert.Equal(t, 300000, d.Budget.Max)

	sess := &BoundSession{repo: f.sessions, rec: &entity.Session{DeviceID: "dev-1", AccessToken: "tok"}}
	receipt, err := svc.Submit(ctx, sess, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(11), receipt.ID)
	assert.Equal(t, "Wonyoung", submitted.FavoriteIdol)
	assert.Equal(t, []string{"seongsu", "gangnam"}, submitted.Regions)

	stored, err := f.drafts.Get(ctx, "dev-1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	d, err = svc.Draft(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StepConcepts, d.Step)
	assert.Empty(t, d.Concepts)
}

func TestWizard_RejectsSkipAhead(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())

	_, err := svc.WriteStep(context.Background(), "dev-1", entity.StepRegions, allSteps[3])

	assert.ErrorIs(t, err, ErrStepOutOfOrder)
}

func TestWizard_RewriteEarlierStepKeepsProgress(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.WriteStep(ctx, "dev-1", i+1, allSteps[i])
		require.NoError(t, err)
	}

	d, err := svc.WriteStep(ctx, "dev-1", entity.StepConcepts, StepAnswers{Concepts: []string{"natural"}})

	require.NoError(t, err)
	assert.Equal(t, entity.StepRegions, d.Step)
	assert.Equal(t, []string{"natural"}, d.Concepts)
	assert.Equal(t, "Wonyoung", d.FavoriteIdol)
}

func TestWizard_ValidatesFieldPresence(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())
	ctx := context.Background()

	_, err := svc.WriteStep(ctx, "dev-1", entity.StepConcepts, StepAnswers{FavoriteIdol: "wrong group"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Equal(t, "concepts", verrs[0].Field())

	_, err = svc.WriteStep(ctx, "dev-1", 0, StepAnswers{})
	assert.ErrorIs(t, err, ErrUnknownStep)

	for i := 0; i < 2; i++ {
		_, err := svc.WriteStep(ctx, "dev-1", i+1, allSteps[i])
		require.NoError(t, err)
	}
	_, err = svc.WriteStep(ctx, "dev-1", entity.StepDateRange, StepAnswers{DateRange: &entity.DateRange{Start: "2026-11-04", End: "2026-11-01"}})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	_, err = svc.WriteStep(ctx, "dev-1", entity.StepDateRange, StepAnswers{DateRange: &entity.DateRange{Start: "11/01", End: "2026-11-01"}})
	require.True(t, errors.As(err, &verrs))
}

func TestWizard_SubmitIncompleteOrFailedKeepsDraft(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/surveys", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
	})
	f := newFixture(t, mux)
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())
	ctx := context.Background()
	sess := &BoundSession{repo: f.sessions, rec: &entity.Session{DeviceID: "dev-1", AccessToken: "tok"}}

	_, err := svc.Submit(ctx, sess, "dev-1")
	assert.ErrorIs(t, err, ErrDraftIncomplete)

	for i, a := range allSteps {
		_, err := svc.WriteStep(ctx, "dev-1", i+1, a)
		require.NoError(t, err)
	}
	_, err = svc.Submit(ctx, sess, "dev-1")
	assert.Equal(t, http.StatusInternalServerError, apiclient.StatusOf(err))

	d, err := f.drafts.Get(ctx, "dev-1")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.True(t, d.Complete())
}

func TestWizard_Reset(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler())
	svc := NewWizardService(f.drafts, f.api, helpers.DiscardLogger())
	ctx := context.Background()
	_, err := svc.WriteStep(ctx, "dev-1", entity.StepConcepts, allSteps[0])
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, "dev-1"))

	d, err := svc.Draft(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StepConcepts, d.Step)
}
