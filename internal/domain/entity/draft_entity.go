package entity

import "time"

const (
	StepConcepts = iota + 1
	StepFavoriteIdol
	StepDateRange
	StepRegions
	StepBudget

	// StepCount is the number of wizard steps; Draft.Step == StepCount+1
	// means every step has been answered.
	StepCount = StepBudget
)

type DateRange struct {
	Start string `json:"start" binding:"required,datetime=2006-01-02"`
	End   string `json:"end" binding:"required,datetime=2006-01-02"`
}

type Budget struct {
	Min int `json:"min" binding:"gte=0"`
	Max int `json:"max" binding:"required,gtefield=Min"`
}

// Draft is the in-progress, not yet submitted intake survey. Fields stay
// empty until their step is answered.
type Draft struct {
	Step         int        `json:"step"`
	Concepts     []string   `json:"concepts,omitempty"`
	FavoriteIdol string     `json:"favoriteIdol,omitempty"`
	DateRange    *DateRange `json:"dateRange,omitempty"`
	Regions      []string   `json:"regions,omitempty"`
	Budget       *Budget    `json:"budget,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewDraft() *Draft { return &Draft{Step: StepConcepts} }

func (d *Draft) Complete() bool { return d.Step > StepCount }

// Survey is the payload submitted to the backend survey resource.
type Survey struct {
	Concepts     []string  `json:"concepts"`
	FavoriteIdol string    `json:"favoriteIdol"`
	DateRange    DateRange `json:"dateRange"`
	Regions      []string  `json:"regions"`
	Budget       Budget    `json:"budget"`
}

type SurveyReceipt struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}
