package sequencer

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/model"
	"github.com/ahesenov7-ai/paysphate.demo/internal/domain/valueobject"
)

// Renderer receives every view the sequencer produces.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(View)

// Render calls f(v).
func (f RendererFunc) Render(v View) { f(v) }

// DecisionState is the decision of a finished cycle.
type DecisionState struct {
	Decision       valueobject.Decision
	ProcessingTime time.Duration
}

// Snapshot is the sequencer state a View is computed from.
type Snapshot struct {
	CycleID      uuid.UUID
	Stage        valueobject.Stage
	Assessment   *model.RiskAssessment
	Animation    ScoreAnimation
	FactorsShown bool
	Decision     *DecisionState
}

// DecisionView is the rendered decision panel.
type DecisionView struct {
	Outcome          string `json:"outcome" yaml:"outcome"`
	Icon             string `json:"icon" yaml:"icon"`
	Title            string `json:"title" yaml:"title"`
	Message          string `json:"message" yaml:"message"`
	ProcessingTimeMs int    `json:"processingTimeMs" yaml:"processingTimeMs"`
	ProcessingTime   string `json:"processingTime" yaml:"processingTime"`
}

// View describes what the demo panel shows.
type View struct {
	CycleID         string        `json:"cycleId,omitempty" yaml:"cycleId,omitempty"`
	Stage           string        `json:"stage" yaml:"stage"`
	FormVisible     bool          `json:"formVisible" yaml:"formVisible"`
	LoadingVisible  bool          `json:"loadingVisible" yaml:"loadingVisible"`
	AnalysisVisible bool          `json:"analysisVisible" yaml:"analysisVisible"`
	DecisionVisible bool          `json:"decisionVisible" yaml:"decisionVisible"`
	DisplayedScore  int           `json:"displayedScore" yaml:"displayedScore"`
	Indicator       float64       `json:"indicator" yaml:"indicator"`
	Level           string        `json:"level,omitempty" yaml:"level,omitempty"`
	LevelColor      string        `json:"levelColor,omitempty" yaml:"levelColor,omitempty"`
	Factors         []string      `json:"factors" yaml:"factors"`
	FactorSummary   string        `json:"factorSummary,omitempty" yaml:"factorSummary,omitempty"`
	Decision        *DecisionView `json:"decision,omitempty" yaml:"decision,omitempty"`
}

// Render computes the view for a snapshot. It has no side effects.
func Render(s Snapshot) View {
	v := View{
		Stage:   s.Stage.String(),
		Factors: []string{},
	}
	if s.CycleID != uuid.Nil {
		v.CycleID = s.CycleID.String()
	}

	switch {
	case s.Stage.Equal(valueobject.StageAwaitingSubmission):
		v.FormVisible = true
	case s.Stage.Equal(valueobject.StageLoading):
		v.LoadingVisible = true
	case s.Stage.Equal(valueobject.StageAnalyzingRisk):
		v.AnalysisVisible = true
	case s.Stage.Equal(valueobject.StageDecided):
		v.DecisionVisible = true
	}

	if s.Assessment != nil {
		v.Level = s.Assessment.Level().String()
		v.LevelColor = s.Assessment.Level().Color()
		v.DisplayedScore = s.Animation.Displayed()
		v.Indicator = s.Animation.Current()
		if s.FactorsShown {
			v.Factors = s.Assessment.Factors()
			v.FactorSummary = FactorSummary(len(v.Factors))
		}
	}

	if s.Decision != nil {
		ms := int(s.Decision.ProcessingTime / time.Millisecond)
		v.Decision = &DecisionView{
			Outcome:          s.Decision.Decision.Outcome.String(),
			Icon:             s.Decision.Decision.Icon,
			Title:            s.Decision.Decision.Title,
			Message:          s.Decision.Decision.Message,
			ProcessingTimeMs: ms,
			ProcessingTime:   ProcessingTime(ms),
		}
	}

	return v
}

// FactorSummary is the label shown under the score once factors are listed.
func FactorSummary(n int) string {
	switch {
	case n <= 0:
		return "Risk Score • No risk factors"
	case n == 1:
		return "Risk Score • 1 factor detected"
	default:
		return fmt.Sprintf("Risk Score • %d factors detected", n)
	}
}

// ProcessingTime formats the synthetic latency shown with a decision.
func ProcessingTime(ms int) string {
	return fmt.Sprintf("Processed in %dms", ms)
}
