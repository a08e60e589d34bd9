package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/doki-web/internal/domain/entity"
	"github.com/oksasatya/doki-web/internal/domain/repository"
	"github.com/oksasatya/doki-web/internal/infrastructure/backend"
	"github.com/oksasatya/doki-web/pkg/apiclient"
	"github.com/oksasatya/doki-web/pkg/validation"
)

var (
	ErrUnknownStep      = errors.New("unknown wizard step")
	ErrStepOutOfOrder   = errors.New("previous steps are not answered yet")
	ErrInvalidDateRange = errors.New("date range ends before it starts")
	ErrDraftIncomplete  = errors.New("survey draft is incomplete")
)

// StepAnswers carries the field group of one step; only the group of the
// step being written is read.
type StepAnswers struct {
	Concepts     []string          `json:"concepts"`
	FavoriteIdol string            `json:"favoriteIdol"`
	DateRange    *entity.DateRange `json:"dateRange"`
	Regions      []string          `json:"regions"`
	Budget       *entity.Budget    `json:"budget"`
}

type conceptsStep struct {
	Concepts []string `json:"concepts" binding:"required,min=1,max=5,dive,required"`
}

type favoriteIdolStep struct {
	FavoriteIdol string `json:"favoriteIdol" binding:"required,max=100"`
}

type dateRangeStep struct {
	DateRange *entity.DateRange `json:"dateRange" binding:"required"`
}

type regionsStep struct {
	Regions []string `json:"regions" binding:"required,min=1,dive,required"`
}

type budgetStep struct {
	Budget *entity.Budget `json:"budget" binding:"required"`
}

// WizardService runs the five-step intake survey: answers merge into a
// per-device draft that is submitted to the backend once complete.
type WizardService struct {
	Drafts   repository.DraftRepository
	API      *backend.API
	Logger   *logrus.Logger
	validate *validator.Validate
}

func NewWizardService(drafts repository.DraftRepository, api *backend.API, logger *logrus.Logger) *WizardService {
	v := validator.New()
	v.SetTagName("binding")
	validation.Configure(v)
	return &WizardService{Drafts: drafts, API: api, Logger: logger, validate: v}
}

// Draft returns the stored draft or a fresh one positioned at step 1.
func (s *WizardService) Draft(ctx context.Context, deviceID string) (*entity.Draft, error) {
	d, err := s.Drafts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = entity.NewDraft()
	}
	return d, nil
}

// WriteStep validates and merges one step. Any step up to the current one
// may be rewritten; skipping ahead is rejected.
func (s *WizardService) WriteStep(ctx context.Context, deviceID string, step int, a StepAnswers) (*entity.Draft, error) {
	if step < entity.StepConcepts || step > entity.StepCount {
		return nil, ErrUnknownStep
	}
	d, err := s.Draft(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if step > d.Step {
		return nil, ErrStepOutOfOrder
	}
	if err := s.validateStep(step, a); err != nil {
		return nil, err
	}

	switch step {
	case entity.StepConcepts:
		d.Concepts = a.Concepts
	case entity.StepFavoriteIdol:
		d.FavoriteIdol = strings.TrimSpace(a.FavoriteIdol)
	case entity.StepDateRange:
		dr := *a.DateRange
		d.DateRange = &dr
	case entity.StepRegions:
		d.Regions = a.Regions
	case entity.StepBudget:
		b := *a.Budget
		d.Budget = &b
	}
	if step+1 > d.Step {
		d.Step = step + 1
	}
	if err := s.Drafts.Save(ctx, deviceID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WizardService) validateStep(step int, a StepAnswers) error {
	var target any
	switch step {
	case entity.StepConcepts:
		target = conceptsStep{Concepts: a.Concepts}
	case entity.StepFavoriteIdol:
		target = favoriteIdolStep{FavoriteIdol: strings.TrimSpace(a.FavoriteIdol)}
	case entity.StepDateRange:
		target = dateRangeStep{DateRange: a.DateRange}
	case entity.StepRegions:
		target = regionsStep{Regions: a.Regions}
	case entity.StepBudget:
		target = budgetStep{Budget: a.Budget}
	}
	if err := s.validate.Struct(target); err != nil {
		return fmt.Errorf("step %d: %w", step, err)
	}
	// YYYY-MM-DD compares lexically
	if step == entity.StepDateRange && a.DateRange.End < a.DateRange.Start {
		return ErrInvalidDateRange
	}
	return nil
}

// Reset discards the draft.
func (s *WizardService) Reset(ctx context.Context, deviceID string) error {
	return s.Drafts.Delete(ctx, deviceID)
}

// Submit sends a complete draft to the backend and clears it. A failed
// submit leaves the draft in place.
func (s *WizardService) Submit(ctx context.Context, sess apiclient.Session, deviceID string) (*entity.SurveyReceipt, error) {
	d, err := s.Drafts.Get(ctx, deviceID)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.Complete() {
		return nil, ErrDraftIncomplete
	}
	receipt, err := s.API.SubmitSurvey(ctx, sess, entity.Survey{
		Concepts:     d.Concepts,
		FavoriteIdol: d.FavoriteIdol,
		DateRange:    *d.DateRange,
		Regions:      d.Regions,
		Budget:       *d.Budget,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Drafts.Delete(ctx, deviceID); err != nil {
		s.Logger.WithError(err).WithField("device_id", deviceID).Warn("clear submitted draft failed")
	}
	s.Logger.WithFields(logrus.Fields{"device_id": deviceID, "survey_id": receipt.ID}).Info("survey submitted")
	return receipt, nil
}
