// Package intake implements the complaint intake state machine and the
// fast-path gate in front of it.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/GeorgeJbara/prod-comp-assistant/internal/domain"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/events"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/judgment"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/metrics"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/policy"
	"github.com/GeorgeJbara/prod-comp-assistant/internal/repository"
)

// DefaultJudgmentTimeout bounds a single judge call.
const DefaultJudgmentTimeout = 30 * time.Second

// TeamRouter assigns the handling team for a priority.
type TeamRouter interface {
	AssignTeam(ctx context.Context, priority domain.Priority) (string, error)
}

// Deps are the collaborators of an Engine. Router, Publisher, Metrics and
// Logger are optional.
type Deps struct {
	Judge     judgment.Judge
	Store     repository.Store
	Router    TeamRouter
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Logger    *zerolog.Logger
}

// Config tunes an Engine. Zero values select the defaults.
type Config struct {
	OpenTicketTurnLimit int
	JudgmentTimeout     time.Duration
}

// Engine processes one inbound message at a time per call. Calls may run
// concurrently; the ticket store's per-conversation uniqueness settles
// concurrent creates.
type Engine struct {
	judge           judgment.Judge
	store           repository.Store
	router          TeamRouter
	publisher       events.Publisher
	metrics         *metrics.Metrics
	log             zerolog.Logger
	gate            Gate
	judgmentTimeout time.Duration

	now         func() time.Time
	newTicketID func(time.Time) string
}

// New creates an Engine.
func New(deps Deps, cfg Config) *Engine {
	e := &Engine{
		judge:           deps.Judge,
		store:           deps.Store,
		router:          deps.Router,
		publisher:       deps.Publisher,
		metrics:         deps.Metrics,
		gate:            Gate{OpenTicketTurnLimit: cfg.OpenTicketTurnLimit},
		judgmentTimeout: cfg.JudgmentTimeout,
		now:             time.Now,
		newTicketID:     NewTicketID,
	}
	if deps.Logger != nil {
		e.log = deps.Logger.With().Str("component", "intake").Logger()
	} else {
		e.log = zerolog.Nop()
	}
	if e.publisher == nil {
		e.publisher = events.Noop{}
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	if cfg.OpenTicketTurnLimit <= 0 {
		e.gate.OpenTicketTurnLimit = DefaultOpenTicketTurnLimit
	}
	if e.judgmentTimeout <= 0 {
		e.judgmentTimeout = DefaultJudgmentTimeout
	}
	return e
}

// Request is one inbound message with the conversation context held by the
// caller.
type Request struct {
	ConversationID string
	Message        string
	// History holds the stored turns, oldest first.
	History []domain.Turn
	// PriorUserTurns is the number of user turns the conversation has seen.
	// Zero means count them in History.
	PriorUserTurns int
}

// Result is the outcome of Process.
type Result struct {
	Response      string
	Status        domain.MessageStatus
	TicketID      string
	MissingFields []string
	IsComplaint   bool
}

// Process runs the fast-path gate and, when it does not answer, the state
// machine. Failures never escape: a judge or lookup failure yields the
// apology reply with status "error" and no ticket change.
func (e *Engine) Process(ctx context.Context, req Request) Result {
	start := time.Now()
	log := e.log.With().Str("conversation_id", req.ConversationID).Logger()

	res, err := e.process(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("message processing failed")
		res = Result{Response: replyJudgmentFailure, Status: domain.StatusError}
	}

	e.metrics.RecordMessage(string(res.Status))
	log.Info().
		Str("status", string(res.Status)).
		Str("ticket_id", res.TicketID).
		Dur("duration", time.Since(start)).
		Msg("message processed")
	return res
}

func (e *Engine) process(ctx context.Context, req Request) (Result, error) {
	tickets := NewTicketLookup(e.store, req.ConversationID)

	priorUserTurns := req.PriorUserTurns
	if priorUserTurns == 0 {
		priorUserTurns = domain.UserTurns(req.History)
	}
	verdict, err := e.gate.Check(ctx, req.Message, req.History, priorUserTurns, tickets)
	if err != nil {
		return Result{}, err
	}
	if verdict.Handled {
		return Result{Response: verdict.Response, Status: verdict.Status, TicketID: verdict.TicketID}, nil
	}

	st := &State{
		ConversationID: req.ConversationID,
		Message:        req.Message,
		History:        req.History,
	}
	if err := e.run(ctx, st, tickets); err != nil {
		return Result{}, err
	}
	return Result{
		Response:      st.Response,
		Status:        st.Status(),
		TicketID:      st.TicketID,
		MissingFields: st.MissingFields,
		IsComplaint:   st.IsComplaint,
	}, nil
}

// run drives st from StageStart to StageEnd.
func (e *Engine) run(ctx context.Context, st *State, tickets *TicketLookup) error {
	for stage := Next(StageStart, st); stage != StageEnd; stage = Next(stage, st) {
		begin := time.Now()
		err := e.step(ctx, stage, st, tickets)
		e.metrics.RecordStage(stage.String(), time.Since(begin))
		if err != nil {
			return fmt.Errorf("%s: %w", stage, err)
		}
		e.log.Debug().
			Str("conversation_id", st.ConversationID).
			Str("stage", stage.String()).
			Str("action", ActionKind(st.Action)).
			Msg("stage done")
	}
	return nil
}

func (e *Engine) step(ctx context.Context, stage Stage, st *State, tickets *TicketLookup) error {
	switch stage {
	case StageClassify:
		return e.classify(ctx, st)
	case StageExtract:
		return e.extract(ctx, st, tickets)
	case StageDecide:
		decide(st)
	case StageAnalyze:
		return e.analyze(ctx, st)
	case StageExecute:
		e.execute(ctx, st)
	case StageRespond:
		st.Response = respond(st)
	}
	return nil
}

func (e *Engine) classify(ctx context.Context, st *State) error {
	var c judgment.Classification
	err := e.judgeCall(ctx, "classify", func(ctx context.Context) (err error) {
		c, err = e.judge.Classify(ctx, st.Message, st.History)
		return err
	})
	if err != nil {
		return err
	}
	st.IsComplaint = c.IsComplaint
	st.Confidence = c.Confidence
	return nil
}

// extract merges the extracted details into what the conversation's ticket
// already holds. Without an extracted description the complaint falls back to
// the ticket's text, then to the earlier complaint turns.
func (e *Engine) extract(ctx context.Context, st *State, tickets *TicketLookup) error {
	var x judgment.Extraction
	err := e.judgeCall(ctx, "extract", func(ctx context.Context) (err error) {
		x, err = e.judge.Extract(ctx, st.Turns())
		return err
	})
	if err != nil {
		return err
	}

	ticket, err := tickets.Get(ctx)
	if err != nil {
		return err
	}

	var carried *domain.PassengerInfo
	if ticket != nil {
		st.Existing = ticket
		st.TicketID = ticket.TicketID
		st.Category = ticket.Category
		st.Priority = ticket.Priority
		st.AssignedTeam = ticket.AssignedTeam
		carried = ticket.PassengerInfo()
	}
	st.PassengerInfo = domain.MergePassengerInfo(carried, x.PassengerInfo)
	st.InfoComplete = x.IsComplete

	st.OriginalComplaint = strings.TrimSpace(domain.Deref(x.Complaint))
	if st.OriginalComplaint == "" && ticket != nil {
		st.OriginalComplaint = ticket.OriginalComplaint
	}
	if st.OriginalComplaint == "" {
		st.OriginalComplaint = complaintFragments(st.History)
	}
	return nil
}

// complaintFragments joins the earlier user turns marked as complaints.
func complaintFragments(history []domain.Turn) string {
	var parts []string
	for _, t := range history {
		if t.Role == domain.RoleUser && t.Complaint {
			if c := strings.TrimSpace(t.Content); c != "" {
				parts = append(parts, c)
			}
		}
	}
	return strings.Join(parts, " ")
}

func (e *Engine) analyze(ctx context.Context, st *State) error {
	var a judgment.Analysis
	err := e.judgeCall(ctx, "analyze", func(ctx context.Context) (err error) {
		a, err = e.judge.Analyze(ctx, st.OriginalComplaint, st.PassengerInfo.DisplayName("Unknown"))
		return err
	})
	if err != nil {
		return err
	}
	st.Category = a.Category
	st.Priority = a.Priority
	st.Sentiment = a.Sentiment
	st.KeyIssues = a.KeyIssues
	st.AssignedTeam = e.assignTeam(ctx, a.Priority)
	return nil
}

func (e *Engine) assignTeam(ctx context.Context, priority domain.Priority) string {
	if e.router == nil {
		return policy.DefaultTeam
	}
	team, err := e.router.AssignTeam(ctx, priority)
	if err != nil {
		e.log.Warn().Err(err).Str("priority", string(priority)).Msg("team routing failed, using default team")
		return policy.DefaultTeam
	}
	return team
}

// judgeCall runs one judge call under the judgment timeout and records it.
func (e *Engine) judgeCall(ctx context.Context, kind string, call func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.judgmentTimeout)
	defer cancel()

	begin := time.Now()
	err := call(ctx)
	e.metrics.RecordJudgment(kind, err, time.Since(begin))
	if err != nil && !errors.Is(err, judgment.ErrUnavailable) {
		return judgment.Unavailable(kind, err)
	}
	return err
}
