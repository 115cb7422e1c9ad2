// Package session implements the exercise state machine shared by the demo,
// practice and sentence-drill screens.
package session

import (
	"context"
	"errors"

	"github.com/verte-zerg/tuitoeic/internal/model"
	"github.com/verte-zerg/tuitoeic/internal/scoring"
)

// Variant selects static (fixed exercise) or dynamic (generated exercise) behavior.
type Variant int

// Variants.
const (
	Static Variant = iota
	Dynamic
)

// Phase is the coarse state of a session.
type Phase int

// Phases.
const (
	Idle Phase = iota
	Loading
	Ready
	Checked
	Error
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Checked:
		return "checked"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// CheckOutcome reports what Check did.
type CheckOutcome int

// Check outcomes.
const (
	// CheckIgnored means there was nothing to check.
	CheckIgnored CheckOutcome = iota
	// CheckNeedsConfirm means the attempt is partial and waits for ConfirmCheck or CancelCheck.
	CheckNeedsConfirm
	// CheckDone means the attempt was checked.
	CheckDone
)

// Generator produces a new exercise.
type Generator interface {
	GenerateExercise(ctx context.Context, hint string) (model.Exercise, error)
}

// State is a read-only projection of the session.
type State struct {
	Exercise       *model.Exercise
	Answers        map[int]string
	Checked        bool
	ActivePanel    model.Panel
	Loading        bool
	LastError      string
	ConfirmPending bool
	Phase          Phase
	Score          int
	Total          int
}

// Answered returns the number of answered questions.
func (s State) Answered() int {
	return len(s.Answers)
}

// Controller owns the session state. It is not safe for concurrent use.
type Controller struct {
	variant        Variant
	exercise       *model.Exercise
	answers        map[int]string
	checked        bool
	panel          model.Panel
	loading        bool
	lastError      string
	confirmPending bool
}

// NewStatic returns a controller bound to a fixed exercise.
func NewStatic(ex model.Exercise) *Controller {
	return &Controller{
		variant:  Static,
		exercise: &ex,
		answers:  map[int]string{},
		panel:    model.PanelPassage,
	}
}

// NewDynamic returns an idle controller that loads exercises through generation.
func NewDynamic() *Controller {
	return &Controller{
		variant: Dynamic,
		answers: map[int]string{},
		panel:   model.PanelPassage,
	}
}

// Variant returns the controller variant.
func (c *Controller) Variant() Variant {
	return c.variant
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	switch {
	case c.loading:
		return Loading
	case c.exercise == nil && c.lastError != "":
		return Error
	case c.exercise == nil:
		return Idle
	case c.checked:
		return Checked
	default:
		return Ready
	}
}

// CanGenerate reports whether BeginGenerate would be accepted.
func (c *Controller) CanGenerate() bool {
	if c.variant != Dynamic {
		return false
	}
	switch c.Phase() {
	case Idle, Checked, Error:
		return true
	default:
		return false
	}
}

// BeginGenerate enters the loading phase. It returns false when generation is
// not allowed from the current phase.
func (c *Controller) BeginGenerate() bool {
	if !c.CanGenerate() {
		return false
	}
	c.loading = true
	c.exercise = nil
	c.answers = map[int]string{}
	c.checked = false
	c.confirmPending = false
	c.lastError = ""
	c.panel = model.PanelPassage
	return true
}

// CompleteGenerate installs the result of a generation started by BeginGenerate.
// It returns false when no generation is in flight.
func (c *Controller) CompleteGenerate(ex model.Exercise, err error) bool {
	if !c.loading {
		return false
	}
	c.loading = false
	if err != nil {
		c.lastError = userMessage(err)
		return true
	}
	c.exercise = &ex
	c.answers = map[int]string{}
	c.checked = false
	c.lastError = ""
	return true
}

// Generate runs BeginGenerate, the generator and CompleteGenerate in sequence.
func (c *Controller) Generate(ctx context.Context, gen Generator, hint string) error {
	if !c.BeginGenerate() {
		return ErrNotAllowed
	}
	ex, err := gen.GenerateExercise(ctx, hint)
	c.CompleteGenerate(ex, err)
	return err
}

// ErrNotAllowed is returned by Generate outside Idle, Checked and Error.
var ErrNotAllowed = errors.New("generation is not allowed in the current state")

// SelectOption records an answer. It is ignored after checking and for ids
// that do not belong to the current exercise.
func (c *Controller) SelectOption(questionID int, optionID string) {
	if c.checked || c.exercise == nil {
		return
	}
	q, ok := c.exercise.Question(questionID)
	if !ok {
		return
	}
	if _, ok := q.Option(optionID); !ok {
		return
	}
	c.answers[questionID] = optionID
}

// Check checks the attempt. A partial attempt needs confirmation first.
func (c *Controller) Check(narrow bool) CheckOutcome {
	if c.exercise == nil || c.checked || c.loading {
		return CheckIgnored
	}
	if len(c.answers) < len(c.exercise.Questions) {
		c.confirmPending = true
		return CheckNeedsConfirm
	}
	c.markChecked(narrow)
	return CheckDone
}

// ConfirmCheck resolves a pending confirmation by checking.
func (c *Controller) ConfirmCheck(narrow bool) bool {
	if !c.confirmPending {
		return false
	}
	c.markChecked(narrow)
	return true
}

// CancelCheck drops a pending confirmation without any other change.
func (c *Controller) CancelCheck() {
	c.confirmPending = false
}

func (c *Controller) markChecked(narrow bool) {
	c.confirmPending = false
	c.checked = true
	if narrow {
		c.panel = model.PanelQuestions
	}
}

// Retry replays the current exercise. The dynamic variant only retries a checked attempt.
func (c *Controller) Retry() bool {
	if c.variant == Dynamic && !c.checked {
		return false
	}
	c.answers = map[int]string{}
	c.checked = false
	c.confirmPending = false
	c.panel = model.PanelPassage
	return true
}

// SetActivePanel switches focus between passage and questions.
func (c *Controller) SetActivePanel(p model.Panel) {
	if p != model.PanelPassage && p != model.PanelQuestions {
		return
	}
	c.panel = p
}

// TogglePanel switches to the other panel.
func (c *Controller) TogglePanel() {
	if c.panel == model.PanelPassage {
		c.panel = model.PanelQuestions
		return
	}
	c.panel = model.PanelPassage
}

// Snapshot returns the current state with a freshly computed score.
func (c *Controller) Snapshot() State {
	answers := make(map[int]string, len(c.answers))
	for k, v := range c.answers {
		answers[k] = v
	}
	st := State{
		Answers:        answers,
		Checked:        c.checked,
		ActivePanel:    c.panel,
		Loading:        c.loading,
		LastError:      c.lastError,
		ConfirmPending: c.confirmPending,
		Phase:          c.Phase(),
	}
	if c.exercise != nil {
		ex := *c.exercise
		st.Exercise = &ex
		st.Score = scoring.Score(ex.Questions, answers)
		st.Total = len(ex.Questions)
	}
	return st
}

type userMessager interface {
	UserMessage() string
}

func userMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}
