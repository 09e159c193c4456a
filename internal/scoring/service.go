// Package scoring orchestrates a live match: it owns the current scoring
// state, resolves server identities, persists the session, queues every
// outbound write, and announces the result once the match is decided.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/nholm/arrowsync/internal/gateway"
	"github.com/nholm/arrowsync/internal/identity"
	"github.com/nholm/arrowsync/internal/match"
	"github.com/nholm/arrowsync/internal/metrics"
	"github.com/nholm/arrowsync/internal/notifier"
	"github.com/nholm/arrowsync/internal/score"
	"github.com/nholm/arrowsync/internal/session"
	"github.com/nholm/arrowsync/internal/syncqueue"
)

var (
	// ErrNoMatch is returned by operations that need a live match.
	ErrNoMatch = errors.New("no match in progress")
	// ErrNoSession is returned by Restore when nothing was saved.
	ErrNoSession = errors.New("no saved session")
)

// Service wires the match engine to identity resolution, the sync queue,
// session persistence and notifications. All methods are safe for
// concurrent use; the engine state is guarded by one mutex because a
// scoresheet has exactly one operator.
type Service struct {
	resolver *identity.Resolver
	gw       gateway.Client
	queue    *syncqueue.Queue
	sessions *session.Manager
	notif    notifier.Notifier
	metrics  metrics.Metrics
	clock    clockwork.Clock
	dryRun   bool

	mu      sync.Mutex
	current *session.State
	state   *match.State
}

// New creates the scoring service. The queue must have been built with
// NewDeliverer over the same gateway. With dryRun set, notifications are
// logged instead of posted.
func New(resolver *identity.Resolver, gw gateway.Client, queue *syncqueue.Queue, sessions *session.Manager, notif notifier.Notifier, m metrics.Metrics, clock clockwork.Clock, dryRun bool) *Service {
	return &Service{
		resolver: resolver,
		gw:       gw,
		queue:    queue,
		sessions: sessions,
		notif:    notif,
		metrics:  m,
		clock:    clock,
		dryRun:   dryRun,
	}
}

// NewMatch resolves server identities for a fresh match and replaces any
// live one. Identity resolution needs connectivity; this is the one
// operation that cannot run offline.
func (s *Service) NewMatch(ctx context.Context, params NewMatchParams) (*MatchView, error) {
	format := match.FormatFor(params.Kind)
	if len(params.SideA) != format.ArchersPerSide || len(params.SideB) != format.ArchersPerSide {
		return nil, fmt.Errorf("%s match needs %d archers per side, got %d and %d",
			format.Kind, format.ArchersPerSide, len(params.SideA), len(params.SideB))
	}

	dateKey := params.Date
	if dateKey == "" {
		dateKey = s.clock.Now().Format("2006-01-02")
	}

	matchID, err := s.resolver.ResolveMatch(ctx, format.Kind, dateKey, params.EventID, params.ForceNew)
	if err != nil {
		return nil, err
	}

	teamIDs := map[int]string{}
	if format.Kind == match.KindTeam {
		names := map[int]string{1: params.TeamNameA, 2: params.TeamNameB}
		for teamNumber := 1; teamNumber <= 2; teamNumber++ {
			id, err := s.resolver.ResolveTeam(ctx, matchID, teamNumber, names[teamNumber])
			if err != nil {
				return nil, err
			}
			teamIDs[teamNumber] = id
		}
	}

	sess := &session.State{
		MatchID:        matchID,
		Kind:           format.Kind,
		ViewMode:       session.ViewScoring,
		DateKey:        dateKey,
		EventID:        params.EventID,
		Location:       params.Location,
		TeamIDs:        teamIDs,
		ParticipantIDs: map[int]string{},
		ArcherKeys:     map[int]string{},
		ArcherNames:    map[int]string{},
	}
	register := func(a Archer, position, teamNumber int) error {
		key := a.Key
		if key == "" {
			key = KeyFor(a.Name, a.School)
		}
		id, err := s.resolver.ResolveParticipant(ctx, matchID, teamIDs[teamNumber], key, a.Name, a.School, position)
		if err != nil {
			return err
		}
		sess.ParticipantIDs[position] = id
		sess.ArcherKeys[position] = key
		sess.ArcherNames[position] = a.Name
		return nil
	}
	for i, a := range params.SideA {
		if err := register(a, i+1, 1); err != nil {
			return nil, err
		}
	}
	for i, a := range params.SideB {
		if err := register(a, format.ArchersPerSide+i+1, 2); err != nil {
			return nil, err
		}
	}

	if err := s.sessions.Save(sess); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = sess
	s.state = match.New(format)
	s.mu.Unlock()

	log.Info("Started match", "matchID", matchID, "kind", format.Kind, "date", dateKey)
	return s.View()
}

// RecordArrow writes one arrow into a regular set, queues the updated set
// submissions for that side, and opportunistically flushes.
func (s *Service) RecordArrow(ctx context.Context, side match.Side, setNumber, slot int, token string) (*MatchView, error) {
	return s.mutate(ctx, side, func(st *match.State) error {
		return match.RecordArrow(st, side, setNumber, slot, token)
	}, setNumber)
}

// RecordShootOffArrow writes one shoot-off arrow.
func (s *Service) RecordShootOffArrow(ctx context.Context, side match.Side, slot int, token string) (*MatchView, error) {
	return s.mutate(ctx, side, func(st *match.State) error {
		return match.RecordShootOffArrow(st, side, slot, token)
	}, 0)
}

// JudgeCall records the judge's tie-break winner. Nothing is queued; the
// decision lives locally and the server keeps only arrows.
func (s *Service) JudgeCall(ctx context.Context, winner match.Side) (*MatchView, error) {
	s.mu.Lock()
	if s.state == nil {
		s.mu.Unlock()
		return nil, ErrNoMatch
	}
	wasDecided := s.state.Decided()
	if err := match.RecordJudgeCall(s.state, winner); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.afterMutationLocked(wasDecided)
	s.mu.Unlock()
	return s.View()
}

// mutate applies an engine edit, queues the submissions the edit
// invalidated and flushes. setNumber 0 means the shoot-off.
func (s *Service) mutate(ctx context.Context, side match.Side, edit func(*match.State) error, setNumber int) (*MatchView, error) {
	s.mu.Lock()
	if s.state == nil || s.current == nil {
		s.mu.Unlock()
		return nil, ErrNoMatch
	}
	wasDecided := s.state.Decided()
	before := s.snapshotSetsLocked()
	if err := edit(s.state); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.metrics.IncArrowsScored()
	if err := s.enqueueChangedLocked(side, setNumber, before); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.afterMutationLocked(wasDecided)
	s.mu.Unlock()

	s.queue.Flush(ctx)
	return s.View()
}

// setSnapshot carries the wire-visible scoring of one set. Set points land
// on both sides the moment a set completes, and a correction to an early
// set shifts the running totals of every set after it, so the edited
// side's submission is never the only one that goes stale.
type setSnapshot struct {
	res      match.SetResult
	runningA int
	runningB int
}

func (s *Service) snapshotSetsLocked() []setSnapshot {
	st := s.state
	snaps := make([]setSnapshot, 0, len(st.SetResults)+1)
	results := append(append([]match.SetResult{}, st.SetResults...), st.ShootOffResult)
	for _, res := range results {
		snaps = append(snaps, setSnapshot{
			res:      res,
			runningA: st.RunningPoints(match.SideA, res.Number),
			runningB: st.RunningPoints(match.SideB, res.Number),
		})
	}
	return snaps
}

func sideChanged(before, after setSnapshot, side match.Side) bool {
	if before.res.Counted != after.res.Counted {
		return true
	}
	if side == match.SideB {
		return before.res.TotalB != after.res.TotalB ||
			before.res.PointsB != after.res.PointsB ||
			before.runningB != after.runningB
	}
	return before.res.TotalA != after.res.TotalA ||
		before.res.PointsA != after.res.PointsA ||
		before.runningA != after.runningA
}

// enqueueChangedLocked queues the edited submission plus a refresh of any
// other (side, set) whose numbers the edit moved. Untouched sets with no
// arrows entered are skipped: there is nothing on the server to refresh.
func (s *Service) enqueueChangedLocked(editedSide match.Side, editedSet int, before []setSnapshot) error {
	after := s.snapshotSetsLocked()
	f := s.state.Format
	for i := range after {
		setNumber := i + 1
		if setNumber > f.RegularSets {
			setNumber = 0
		}
		for _, side := range []match.Side{match.SideA, match.SideB} {
			edited := side == editedSide && setNumber == editedSet
			if !edited && !sideChanged(before[i], after[i], side) {
				continue
			}
			if !edited && !anyEntered(s.tokensLocked(side, setNumber)) {
				continue
			}
			if err := s.enqueueSideLocked(side, setNumber); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Service) tokensLocked(side match.Side, setNumber int) []string {
	if setNumber == 0 {
		return s.state.ShootOff.Tokens(side)
	}
	return s.state.Sets[setNumber-1].Tokens(side)
}

func anyEntered(tokens []string) bool {
	for _, t := range tokens {
		if t != "" {
			return true
		}
	}
	return false
}

// enqueueSideLocked snapshots every submission for one side of one set.
// Each participant on the side gets their own item keyed by (match,
// participant, set), so later edits to the same set replace in place.
func (s *Service) enqueueSideLocked(side match.Side, setNumber int) error {
	st, sess := s.state, s.current
	f := st.Format
	shootOff := setNumber == 0
	wireSet := setNumber
	var tokens []string
	var perArcher int
	var res match.SetResult
	if shootOff {
		wireSet = f.RegularSets + 1
		tokens = st.ShootOff.Tokens(side)
		perArcher = f.ShootOffArrows / f.ArchersPerSide
		res = st.ShootOffResult
	} else {
		tokens = st.Sets[setNumber-1].Tokens(side)
		perArcher = f.ArrowsPerSet / f.ArchersPerSide
		res = st.SetResults[setNumber-1]
	}

	total, points := res.TotalA, res.PointsA
	running := st.RunningPoints(side, wireSet)
	if side == match.SideB {
		total, points = res.TotalB, res.PointsB
	}
	if shootOff {
		points = 0
	}

	firstSeat := 1
	if side == match.SideB {
		firstSeat = f.ArchersPerSide + 1
	}
	for i := 0; i < f.ArchersPerSide; i++ {
		position := firstSeat + i
		participantID, ok := sess.ParticipantIDs[position]
		if !ok {
			return fmt.Errorf("no participant for seat %d", position)
		}
		arrows := make([]string, perArcher)
		copy(arrows, tokens[i*perArcher:(i+1)*perArcher])
		req := gateway.SubmitSetRequest{
			MatchID:       sess.MatchID,
			ParticipantID: participantID,
			SetNumber:     wireSet,
			Arrows:        arrows,
			SetTotal:      total,
			SetPoints:     points,
			RunningPoints: running,
			Tens:          score.Tens(arrows),
			Xs:            score.Xs(arrows),
		}
		dedupKey := fmt.Sprintf("set/%s/%s/%d", sess.MatchID, participantID, wireSet)
		if err := s.queue.Enqueue(syncqueue.KindSetSubmission, dedupKey, req); err != nil {
			return err
		}
	}
	return nil
}

// afterMutationLocked handles the decided-state transition: counting it
// and announcing it exactly once per crossing. A correction that
// un-decides and re-decides announces again, which is what spectators
// would expect.
func (s *Service) afterMutationLocked(wasDecided bool) {
	st := s.state
	if wasDecided || !st.Decided() {
		return
	}
	s.metrics.IncMatchesDecided()
	log.Info("Match decided", "matchID", s.current.MatchID, "winner", st.Winner, "points", fmt.Sprintf("%d-%d", st.PointsA, st.PointsB))

	if s.notif == nil {
		return
	}
	result := s.buildResultLocked()
	dryRun := s.dryRun
	go func() {
		if err := s.notif.SendMatchDecided(result, dryRun); err != nil {
			log.Error("Failed to announce decided match", "error", err, "matchID", result.MatchID)
		}
	}()
}

func (s *Service) buildResultLocked() *notifier.MatchResult {
	st, sess := s.state, s.current
	f := st.Format
	result := &notifier.MatchResult{
		MatchID: sess.MatchID,
		Kind:    f.Kind,
		Winner:  st.Winner,
		PointsA: st.PointsA,
		PointsB: st.PointsB,
		ByJudge: st.JudgeWinner != match.SideNone,
	}
	for position := 1; position <= 2*f.ArchersPerSide; position++ {
		name := sess.ArcherNames[position]
		if session.SeatSide(f, position) == match.SideA {
			result.SideA = append(result.SideA, name)
		} else {
			result.SideB = append(result.SideB, name)
		}
	}
	for _, res := range st.SetResults {
		result.Sets = append(result.Sets, notifier.SetLine{Number: res.Number, TotalA: res.TotalA, TotalB: res.TotalB})
	}
	if st.ShootOffResult.Complete {
		so := notifier.SetLine{Number: st.ShootOffResult.Number, TotalA: st.ShootOffResult.TotalA, TotalB: st.ShootOffResult.TotalB}
		result.ShootOff = &so
	}
	return result
}

// UpsertArcher queues a roster profile write and flushes. Works with or
// without a live match.
func (s *Service) UpsertArcher(ctx context.Context, a Archer) (string, error) {
	key := a.Key
	if key == "" {
		key = KeyFor(a.Name, a.School)
	}
	if key == "" {
		return "", errors.New("archer needs a name")
	}
	req := gateway.UpsertArcherRequest{
		Key:    key,
		Name:   a.Name,
		School: a.School,
		Level:  a.Level,
		Gender: a.Gender,
		Rating: a.Rating,
	}
	if err := s.queue.Enqueue(syncqueue.KindProfileUpsert, "archer/"+key, req); err != nil {
		return "", err
	}
	s.queue.Flush(ctx)
	return key, nil
}

// Sync triggers a queue flush and reports the outcome.
func (s *Service) Sync(ctx context.Context) syncqueue.FlushResult {
	return s.queue.Flush(ctx)
}

// Reset abandons the live match: identities are evicted, queued
// submissions for the match are discarded, and the session is cleared.
// Already-acknowledged sets stay on the server.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	sess := s.current
	if err := s.resolver.EvictMatch(sess.Kind, sess.DateKey, sess.EventID, sess.MatchID); err != nil {
		return err
	}
	if err := s.queue.Discard("set/" + sess.MatchID + "/"); err != nil {
		return err
	}
	if err := s.sessions.Clear(); err != nil {
		return err
	}
	log.Info("Match reset", "matchID", sess.MatchID)
	s.current = nil
	s.state = nil
	return nil
}

// Restore reloads the saved session and rebuilds the scoring state from
// the server's arrows. Local derived scores are never trusted.
func (s *Service) Restore(ctx context.Context) (*MatchView, error) {
	sess, ok, err := s.sessions.Load()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}

	remote, err := s.gw.FetchMatch(ctx, sess.MatchID)
	if err != nil {
		return nil, fmt.Errorf("fetch match for restore: %w", err)
	}
	st, err := session.Rebuild(sess.Kind, remote.Participants)
	if err != nil {
		return nil, fmt.Errorf("rebuild match state: %w", err)
	}

	s.mu.Lock()
	s.current = sess
	s.state = st
	s.mu.Unlock()

	log.Info("Session restored", "matchID", sess.MatchID, "status", st.Status)
	return s.View()
}

// View returns the current snapshot for rendering.
func (s *Service) View() (*MatchView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil || s.current == nil {
		return nil, ErrNoMatch
	}
	st, sess := s.state, s.current
	f := st.Format
	view := &MatchView{
		MatchID:  sess.MatchID,
		Kind:     f.Kind,
		Status:   st.Status,
		Winner:   st.Winner,
		PointsA:  st.PointsA,
		PointsB:  st.PointsB,
		Sets:     append([]match.SetResult(nil), st.SetResults...),
		ShootOff: st.ShootOffResult,
	}
	for position := 1; position <= 2*f.ArchersPerSide; position++ {
		name := sess.ArcherNames[position]
		if session.SeatSide(f, position) == match.SideA {
			view.ArchersA = append(view.ArchersA, name)
		} else {
			view.ArchersB = append(view.ArchersB, name)
		}
	}
	if pending, err := s.queue.Pending(); err == nil {
		view.PendingSync = pending
	}
	return view, nil
}
