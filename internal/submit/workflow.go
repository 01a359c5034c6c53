// Package submit runs one flight plan submission: PIN lookup, the
// authenticated POST, feedback in the overlay and re-enabling the trigger.
package submit

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	"fsfplink/internal/api"
	"fsfplink/internal/credential"
	"fsfplink/internal/utils"
)

// Overlay messages.
const (
	MsgSent        = "Flight Plan Sended to Desktop."
	MsgWrongPin    = "Wrong Pin."
	MsgUnreachable = "Could not reach FS Flight Plan Link. Make sure the desktop application is running."
	MsgRejected    = "Desktop rejected the Flight Plan: "
)

// State is a step of the submission state machine.
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateInFlight
	StateSucceeded
	StateAuthRejected
	StateUnreachable
	StateRejected
)

var stateNames = [...]string{"idle", "authenticating", "in-flight", "succeeded", "auth-rejected", "unreachable", "rejected"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Outcome classifies how a submission ended.
type Outcome int

const (
	OutcomeSucceeded Outcome = iota
	OutcomeAuthRejected
	OutcomeUnreachable
	// OutcomeRejected covers every status other than 2xx, 401 and 404.
	OutcomeRejected
	// OutcomeCancelled means no PIN was available; nothing was sent.
	OutcomeCancelled
	// OutcomeBusy means the caller already had a submission in flight.
	OutcomeBusy
)

var outcomeNames = [...]string{"succeeded", "auth-rejected", "unreachable", "rejected", "cancelled", "busy"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result of Submit. Err is informational; Submit never fails otherwise.
type Result struct {
	Outcome  Outcome
	Status   int
	Err      error
	Response *api.PlanResponse
}

// OK reports whether the desktop accepted the plan.
func (r Result) OK() bool { return r.Outcome == OutcomeSucceeded }

// Caller is the control that started a submission. *trigger.Trigger implements it.
type Caller interface {
	Begin() bool
	End()
}

// Notifier shows feedback to the user. *overlay.Overlay implements it.
type Notifier interface {
	Show(message string)
}

// Credentials is the PIN cache. *credential.Store implements it.
type Credentials interface {
	Get(useCache bool) (credential.Credential, bool)
	Clear()
}

// Poster sends the plan. *api.Client implements it.
type Poster interface {
	PostPlan(ctx context.Context, pin string, body api.PlanRequest) (*api.PlanResponse, int, error)
}

// Request is one submission.
type Request struct {
	Plan      map[string]any
	Secondary map[string]any
	Caller    Caller
}

type Workflow struct {
	creds    Credentials
	notifier Notifier
	poster   Poster
	logger   *utils.Logger
}

func New(creds Credentials, notifier Notifier, poster Poster, logger *utils.Logger) *Workflow {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Workflow{creds: creds, notifier: notifier, poster: poster, logger: logger}
}

// Submit runs the state machine to completion. The caller, if any, is busy for
// the whole run and re-enabled on every exit path, panics included.
func (w *Workflow) Submit(ctx context.Context, req Request) (res Result) {
	log := w.logger.With(zap.String("attempt", uuid.NewString()))

	if req.Caller != nil {
		if !req.Caller.Begin() {
			log.Debug("caller busy, submission skipped")
			return Result{Outcome: OutcomeBusy}
		}
		defer req.Caller.End()
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("submission panicked", zap.Any("panic", r))
			res = Result{Outcome: OutcomeUnreachable, Err: fmt.Errorf("submission panicked: %v", r)}
			w.notifier.Show(MsgUnreachable)
		}
		log.Debug("transition", zap.Stringer("to", StateIdle), zap.Stringer("outcome", res.Outcome))
	}()

	log.Debug("transition", zap.Stringer("to", StateAuthenticating))
	pin, ok := w.creds.Get(true)
	if !ok {
		log.Info("no pin available, submission cancelled")
		return Result{Outcome: OutcomeCancelled}
	}

	log.Debug("transition", zap.Stringer("to", StateInFlight))
	resp, status, err := w.poster.PostPlan(ctx, string(pin), api.PlanRequest{Plan: req.Plan, SecondaryPlan: req.Secondary})
	res = Result{Status: status, Err: err, Response: resp}

	var serr *utils.StatusError
	switch {
	case err == nil:
		res.Outcome = OutcomeSucceeded
		log.Info("flight plan sent", zap.Int("status", status))
		w.notifier.Show(MsgSent + exportErrorLines(resp))
	case errors.Is(err, api.ErrUnauthorized):
		res.Outcome = OutcomeAuthRejected
		log.Warn("pin refused", zap.Int("status", status))
		w.creds.Clear()
		w.notifier.Show(MsgWrongPin)
	case errors.As(err, &serr):
		res.Outcome = OutcomeRejected
		log.Warn("flight plan rejected", zap.Int("status", status), zap.Error(err))
		w.notifier.Show(MsgRejected + html.EscapeString(serr.Message))
	default:
		// ErrNotFound, ErrUnreachable and anything unforeseen.
		res.Outcome = OutcomeUnreachable
		log.Error("desktop unreachable", zap.Int("status", status), zap.Error(err))
		w.notifier.Show(MsgUnreachable)
	}
	log.Debug("transition", zap.Stringer("to", res.state()))
	return res
}

func (r Result) state() State {
	switch r.Outcome {
	case OutcomeSucceeded:
		return StateSucceeded
	case OutcomeAuthRejected:
		return StateAuthRejected
	case OutcomeRejected:
		return StateRejected
	case OutcomeUnreachable:
		return StateUnreachable
	default:
		return StateIdle
	}
}

// exportErrorLines renders the desktop's exporter failures as escaped overlay lines.
func exportErrorLines(resp *api.PlanResponse) string {
	if resp == nil || len(resp.ExportErrors) == 0 {
		return ""
	}
	names := make([]string, 0, len(resp.ExportErrors))
	for name := range resp.ExportErrors {
		names = append(names, name)
	}
	slices.Sort(names)
	var b strings.Builder
	for _, name := range names {
		b.WriteString("<br>" + html.EscapeString(name) + ": " + html.EscapeString(resp.ExportErrors[name]))
	}
	return b.String()
}
