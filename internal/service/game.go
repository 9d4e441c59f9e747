package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"casino-bot/internal/game"
	"casino-bot/internal/game/rng"
	"casino-bot/internal/session"
	"casino-bot/internal/wager"
)

// ErrShuttingDown is returned by StartGame once Shutdown has begun.
var ErrShuttingDown = errors.New("game service is shutting down")

const (
	// DefaultMaxSteps bounds how many decisions one session may apply.
	DefaultMaxSteps = 10000
	// settleTimeout bounds reporting and releasing after a session ends.
	settleTimeout = 10 * time.Second
)

// Presenter renders views for one session and is the transport that carries
// decisions back through SubmitDecision.
type Presenter interface {
	ShowView(ctx context.Context, token uuid.UUID, v game.View) error
	ShowSettlement(ctx context.Context, token uuid.UUID, s game.Settlement, v game.View) error
}

// NopPresenter discards every view.
type NopPresenter struct{}

func (NopPresenter) ShowView(context.Context, uuid.UUID, game.View) error { return nil }
func (NopPresenter) ShowSettlement(context.Context, uuid.UUID, game.Settlement, game.View) error {
	return nil
}

// GameConfig tunes the orchestrator.
type GameConfig struct {
	MaxBetFraction float64
	MaxSteps       int
	// NewSource returns the randomness for one instance. Defaults to rng.New.
	NewSource func() rng.Source
}

// StartRequest asks to start one game for one player.
type StartRequest struct {
	PlayerID  int64
	Kind      game.Kind
	WagerExpr string
	Mode      game.Mode
	Args      []string
	Presenter Presenter
}

// Ticket describes a started session. Done receives the settlement once.
type Ticket struct {
	Token uuid.UUID
	Kind  game.Kind
	Wager int64
	View  game.View
	Done  <-chan game.Settlement
}

type submission struct {
	decision game.Decision
	reply    chan error
}

// driver owns one interactive instance for its whole life.
type driver struct {
	token    uuid.UUID
	req      game.Request
	kind     game.Kind
	inst     game.Instance
	pres     Presenter
	inbox    chan submission
	finished chan struct{}
	done     chan game.Settlement
}

// GameService is the session orchestrator: it validates wagers, gates on
// the session registry, drives instances to a settlement and reports it.
type GameService struct {
	games    *game.Registry
	sessions session.Registry
	balances BalanceStore
	reporter *Reporter
	cfg      GameConfig

	drivers sync.Map // map[uuid.UUID]*driver
	wg      sync.WaitGroup
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewGameService creates the orchestrator.
func NewGameService(
	games *game.Registry,
	sessions session.Registry,
	balances BalanceStore,
	reporter *Reporter,
	cfg GameConfig,
) *GameService {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.NewSource == nil {
		cfg.NewSource = rng.New
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &GameService{
		games:    games,
		sessions: sessions,
		balances: balances,
		reporter: reporter,
		cfg:      cfg,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Games returns the catalog.
func (s *GameService) Games() *game.Registry {
	return s.games
}

// StartGame validates and starts a game. Validation failures and conflicts
// leave the registry and the balance untouched.
func (s *GameService) StartGame(ctx context.Context, req StartRequest) (*Ticket, error) {
	if s.baseCtx.Err() != nil {
		return nil, ErrShuttingDown
	}

	g, ok := s.games.Get(req.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", game.ErrInvalidSelection, game.ErrUnknownGame, req.Kind)
	}

	gr := game.Request{PlayerID: req.PlayerID, Mode: req.Mode, Args: req.Args}
	if g.Wagered() {
		balance, err := s.balances.GetBalance(ctx, req.PlayerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get balance: %w", err)
		}
		w, err := wager.Resolve(req.PlayerID, req.WagerExpr, balance, s.cfg.MaxBetFraction)
		if err != nil {
			return nil, err
		}
		gr.Wager = w.Amount
	}

	if err := g.Validate(gr); err != nil {
		return nil, err
	}

	sess, acquired, err := s.sessions.TryAcquire(ctx, req.PlayerID, req.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire session: %w", err)
	}
	if !acquired {
		return nil, game.ErrSessionConflict
	}

	pres := req.Presenter
	if pres == nil {
		pres = NopPresenter{}
	}
	logger := log.With().Int64("player_id", req.PlayerID).Str("game", string(req.Kind)).Str("token", sess.Token.String()).Logger()

	inst, err := s.build(g, gr)
	if err != nil {
		if errors.Is(err, game.ErrInvalidSelection) {
			s.release(req.PlayerID, sess.Token)
			return nil, err
		}
		logger.Error().Err(err).Msg("Failed to construct game instance")
		st := game.FaultSettlement(gr, req.Kind, err)
		s.conclude(ctx, sess.Token, st, faultView(req.Kind, st), pres)
		return nil, fmt.Errorf("%w: %v", game.ErrInternalFault, err)
	}

	done := make(chan game.Settlement, 1)
	ticket := &Ticket{Token: sess.Token, Kind: req.Kind, Wager: gr.Wager, View: inst.View(), Done: done}

	if inst.Terminal() {
		st := inst.Settlement()
		logger.Info().Int64("wager", gr.Wager).Int64("payout", st.Payout).Msg("Game settled")
		s.conclude(ctx, sess.Token, st, inst.View(), pres)
		done <- st
		close(done)
		return ticket, nil
	}

	d := &driver{
		token:    sess.Token,
		req:      gr,
		kind:     req.Kind,
		inst:     inst,
		pres:     pres,
		inbox:    make(chan submission),
		finished: make(chan struct{}),
		done:     done,
	}
	s.drivers.Store(d.token, d)
	s.wg.Add(1)

	if err := pres.ShowView(ctx, d.token, ticket.View); err != nil {
		logger.Debug().Err(err).Msg("Failed to show initial view")
	}
	logger.Info().Int64("wager", gr.Wager).Msg("Game started")
	go s.drive(d)
	return ticket, nil
}

// build constructs an instance, converting a panic into an error.
func (s *GameService) build(g game.Game, req game.Request) (inst game.Instance, err error) {
	defer func() {
		if r := recover(); r != nil {
			inst, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return g.New(req, s.cfg.NewSource())
}

// SubmitDecision delivers a player decision to the session identified by
// token. Decisions for any session other than the player's active one are
// rejected with ErrStaleSession and never reach an instance.
func (s *GameService) SubmitDecision(ctx context.Context, playerID int64, token uuid.UUID, dec game.Decision) error {
	if dec.Action == game.ActionTick {
		return fmt.Errorf("%w: tick is not a player decision", game.ErrInvalidDecision)
	}

	v, ok := s.drivers.Load(token)
	if !ok {
		return game.ErrStaleSession
	}
	d := v.(*driver)
	if d.req.PlayerID != playerID {
		log.Warn().Int64("player_id", playerID).Str("token", token.String()).Msg("Decision for another player's session")
		return game.ErrStaleSession
	}

	active, ok, err := s.sessions.Active(ctx, playerID)
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}
	if !ok || active.Token != token {
		return game.ErrStaleSession
	}

	sub := submission{decision: dec, reply: make(chan error, 1)}
	select {
	case d.inbox <- sub:
	case <-d.finished:
		return game.ErrStaleSession
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-sub.reply:
		return err
	case <-d.finished:
		select {
		case err := <-sub.reply:
			return err
		default:
			return game.ErrInternalFault
		}
	}
}

// drive runs one interactive session to its settlement.
func (s *GameService) drive(d *driver) {
	defer s.wg.Done()

	st, v := s.play(d)
	close(d.finished)
	s.drivers.Delete(d.token)

	log.Info().
		Int64("player_id", d.req.PlayerID).
		Str("game", string(d.kind)).
		Str("token", d.token.String()).
		Int64("wager", st.Wager).
		Int64("payout", st.Payout).
		Str("outcome", string(st.Outcome)).
		Msg("Game settled")

	s.conclude(s.baseCtx, d.token, st, v, d.pres)
	d.done <- st
	close(d.done)
}

// play applies decisions until the instance is terminal. Each decision point
// waits at most Wait(); on expiry, or once the service is shutting down, the
// instance's default decision is applied through the same Apply path.
// A rejected player decision does not restart the wait.
func (s *GameService) play(d *driver) (st game.Settlement, v game.View) {
	logger := log.With().Int64("player_id", d.req.PlayerID).Str("game", string(d.kind)).Str("token", d.token.String()).Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("Game instance panicked")
			st = game.FaultSettlement(d.req, d.kind, fmt.Errorf("%v", r))
			v = faultView(d.kind, st)
		}
	}()

	inst := d.inst
	var (
		timer *time.Timer
		def   game.Decision
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for steps := 0; !inst.Terminal(); {
		if steps >= s.cfg.MaxSteps {
			logger.Error().Int("steps", steps).Msg("Game exceeded step limit")
			st = game.FaultSettlement(d.req, d.kind, errors.New("step limit exceeded"))
			return st, faultView(d.kind, st)
		}

		if timer == nil {
			var wait time.Duration
			wait, def = inst.Wait()
			timer = time.NewTimer(wait)
		}

		var (
			dec   game.Decision
			reply chan error
		)
		select {
		case sub := <-d.inbox:
			dec, reply = sub.decision, sub.reply
		case <-timer.C:
			dec = def
			timer = nil
		case <-s.baseCtx.Done():
			dec = def
		}

		err := inst.Apply(dec)
		if reply != nil {
			reply <- err
		}
		if err != nil {
			if reply != nil {
				logger.Debug().Err(err).Str("action", string(dec.Action)).Msg("Decision rejected")
				continue
			}
			logger.Error().Err(err).Str("action", string(dec.Action)).Msg("Default decision failed")
			st = game.FaultSettlement(d.req, d.kind, err)
			return st, faultView(d.kind, st)
		}

		steps++
		s.refresh(d, logger)
		if timer != nil {
			timer.Stop()
			timer = nil
		}
		if inst.Terminal() {
			break
		}
		if err := d.pres.ShowView(s.baseCtx, d.token, inst.View()); err != nil {
			logger.Debug().Err(err).Msg("Failed to show view")
		}
	}
	return inst.Settlement(), inst.View()
}

// conclude reports the settlement, frees the player's slot and shows the
// result. The slot is released even if reporting fails or panics.
func (s *GameService) conclude(ctx context.Context, token uuid.UUID, st game.Settlement, v game.View, pres Presenter) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), settleTimeout)
	defer cancel()

	func() {
		defer s.release(st.PlayerID, token)
		if err := s.reporter.Report(ctx, st); err != nil {
			log.Error().Err(err).Int64("player_id", st.PlayerID).Str("game", string(st.Kind)).Msg("Failed to report settlement")
		}
	}()

	if err := pres.ShowSettlement(ctx, token, st, v); err != nil {
		log.Debug().Err(err).Str("token", token.String()).Msg("Failed to show settlement")
	}
}

// release frees the slot only while token still holds it, so a session
// that outlived its slot cannot free a newer one.
func (s *GameService) release(playerID int64, token uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	if err := s.sessions.Release(ctx, playerID, token); err != nil {
		log.Error().Err(err).Int64("player_id", playerID).Msg("Failed to release session")
	}
}

// refresh keeps the slot alive after every applied decision.
func (s *GameService) refresh(d *driver, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), settleTimeout)
	defer cancel()
	held, err := s.sessions.Refresh(ctx, d.req.PlayerID, d.token)
	switch {
	case err != nil:
		logger.Warn().Err(err).Msg("Failed to refresh session")
	case !held:
		logger.Error().Msg("Session slot lost while the game is running")
	}
}

// Shutdown resolves every running session through its default decisions
// and waits for them to settle.
func (s *GameService) Shutdown(ctx context.Context) error {
	s.cancel()
	finished := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func faultView(kind game.Kind, st game.Settlement) game.View {
	return game.View{
		Kind:  kind,
		Title: "⚠️ Game Error",
		Phase: string(game.OutcomeFault),
		Lines: []string{st.Description},
	}
}
