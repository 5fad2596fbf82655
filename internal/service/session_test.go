package service

import (
	"errors"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"
)

func newTestSession(t *testing.T, opts SessionOptions) *Session {
	t.Helper()
	s, err := NewSession("game-1", opts, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func seat(t *testing.T, s *Session, ids ...string) {
	t.Helper()
	for _, id := range ids {
		if _, err := s.AddPlayer(id); err != nil {
			t.Fatalf("AddPlayer(%s): %v", id, err)
		}
	}
}

func TestSessionSeating(t *testing.T) {
	s := newTestSession(t, SessionOptions{})

	tests := []struct {
		player string
		want   model.Color
		err    error
	}{
		{player: "alice", want: model.White},
		{player: "bob", want: model.Black},
		{player: "alice", want: model.White},
		{player: "carol", err: ErrGameFull},
	}
	for _, tt := range tests {
		got, err := s.AddPlayer(tt.player)
		if !errors.Is(err, tt.err) {
			t.Fatalf("AddPlayer(%s) error = %v, want %v", tt.player, err, tt.err)
		}
		if err == nil && got != tt.want {
			t.Errorf("AddPlayer(%s) = %s, want %s", tt.player, got, tt.want)
		}
	}
	if s.CanSpectate() {
		t.Error("full game should not accept spectators")
	}
}

func TestSessionMoveAuthorization(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")

	if _, err := s.Move("bob", "e7e5"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("out of turn error = %v, want ErrNotYourTurn", err)
	}
	if _, err := s.Move("mallory", "e2e4"); !errors.Is(err, ErrNotSeated) {
		t.Errorf("stranger error = %v, want ErrNotSeated", err)
	}
	if _, err := s.Move("alice", "e2e5"); !errors.Is(err, model.ErrIllegalMove) {
		t.Errorf("illegal move error = %v, want ErrIllegalMove", err)
	}
	if _, err := s.Move("alice", "e2"); !errors.Is(err, model.ErrMalformedMove) {
		t.Errorf("malformed move error = %v, want ErrMalformedMove", err)
	}

	result, err := s.Move("alice", "e2e4")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if result.Outcome.Kind != model.OutcomeAccepted || result.Reply != "" {
		t.Errorf("result = %+v, want accepted without reply", result)
	}

	st := s.State()
	if st.Turn != model.Black || st.LastMove != "e2e4" {
		t.Errorf("state turn %s last move %q, want black e2e4", st.Turn, st.LastMove)
	}
	if diff := cmp.Diff([]string{"e2e4"}, st.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionComputerOpponent(t *testing.T) {
	t.Run("replies to the player", func(t *testing.T) {
		s := newTestSession(t, SessionOptions{Opponent: model.StrategyGreedy, Color: model.White, Seed: 5})
		seat(t, s, "alice")

		result, err := s.Move("alice", "e2e4")
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if result.Reply == "" {
			t.Fatal("computer did not reply")
		}
		st := s.State()
		if st.Turn != model.White || len(st.Moves) != 2 || st.Moves[1] != result.Reply {
			t.Errorf("state = turn %s moves %v, want white to move after reply %s", st.Turn, st.Moves, result.Reply)
		}
		if st.Opponent == nil || st.Opponent.Color != model.Black || st.Players.Black != "computer" {
			t.Errorf("opponent = %+v players = %+v", st.Opponent, st.Players)
		}
	})

	t.Run("opens as white", func(t *testing.T) {
		s := newTestSession(t, SessionOptions{Opponent: model.StrategyRandom, Color: model.Black, Seed: 5})
		color, err := s.AddPlayer("alice")
		if err != nil || color != model.Black {
			t.Fatalf("AddPlayer = %s, %v; want black", color, err)
		}
		if st := s.State(); st.Turn != model.Black || len(st.Moves) != 1 {
			t.Errorf("state = turn %s moves %v, want one computer move", st.Turn, st.Moves)
		}
	})

	t.Run("same seed same reply", func(t *testing.T) {
		reply := func() string {
			s := newTestSession(t, SessionOptions{Opponent: model.StrategyRandom, Color: model.White, Seed: 99})
			seat(t, s, "alice")
			result, err := s.Move("alice", "d2d4")
			if err != nil {
				t.Fatalf("Move: %v", err)
			}
			return result.Reply
		}
		if a, b := reply(), reply(); a != b {
			t.Errorf("replies differ: %s vs %s", a, b)
		}
	})
}

func TestSessionPromotion(t *testing.T) {
	s := newTestSession(t, SessionOptions{FEN: "8/P7/8/8/8/8/8/k6K w - - 0 1"})
	seat(t, s, "alice", "bob")

	result, err := s.Move("alice", "a7a8")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if result.Outcome.Kind != model.OutcomePromotionRequired {
		t.Fatalf("outcome = %+v, want promotion required", result.Outcome)
	}
	if st := s.State(); st.PromotionSquare == nil || st.PromotionSquare.String() != "a8" {
		t.Errorf("promotion square = %v, want a8", st.PromotionSquare)
	}

	if _, err := s.Promote("alice", "king"); !errors.Is(err, model.ErrInvalidPromotion) {
		t.Errorf("promote to king error = %v, want ErrInvalidPromotion", err)
	}
	if _, err := s.Promote("alice", "n"); err != nil {
		t.Fatalf("Promote: %v", err)
	}

	st := s.State()
	if diff := cmp.Diff([]string{"a7a8n"}, st.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	a8, _ := model.ParseSquare("a8")
	if st.Turn != model.Black || st.Board[a8].Type != model.Knight || st.PromotionSquare != nil {
		t.Errorf("state = turn %s a8 %+v pending %v, want black to move after knight promotion", st.Turn, st.Board[a8], st.PromotionSquare)
	}
}

func TestSessionQuit(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")

	if _, err := s.Quit("mallory"); !errors.Is(err, ErrNotSeated) {
		t.Errorf("stranger quit error = %v, want ErrNotSeated", err)
	}
	outcome, err := s.Quit("bob")
	if err != nil {
		t.Fatalf("Quit: %v", err)
	}
	if outcome.Status != model.StatusTerminated {
		t.Errorf("status = %s, want terminated", outcome.Status)
	}
	if _, err := s.Move("alice", "e2e4"); !errors.Is(err, model.ErrGameOver) {
		t.Errorf("move after quit error = %v, want ErrGameOver", err)
	}
	if _, err := s.Quit("alice"); !errors.Is(err, model.ErrGameOver) {
		t.Errorf("second quit error = %v, want ErrGameOver", err)
	}
}

func TestSessionQuitByText(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")

	result, err := s.Move("alice", "quit")
	if err != nil {
		t.Fatalf("Move(quit): %v", err)
	}
	if result.Outcome.Status != model.StatusTerminated || len(s.State().Moves) != 0 {
		t.Errorf("result = %+v moves = %v, want terminated with no moves", result, s.State().Moves)
	}
}

func TestSessionCheckmate(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")

	for i, move := range []string{"f2f3", "e7e5", "g2g4", "d8h4"} {
		player := "alice"
		if i%2 == 1 {
			player = "bob"
		}
		if _, err := s.Move(player, move); err != nil {
			t.Fatalf("Move(%s): %v", move, err)
		}
	}
	st := s.State()
	if st.Status != model.StatusCheckmate || st.Winner == nil || *st.Winner != model.Black {
		t.Errorf("state = status %s winner %v, want checkmate by black", st.Status, st.Winner)
	}
	if st.IsCheck {
		t.Error("finished game should not report check")
	}
}

func TestSessionBroadcast(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")
	conn := &fakeConn{}

	if err := s.RegisterConnection("alice", conn); err != nil {
		t.Fatalf("RegisterConnection: %v", err)
	}
	if _, err := s.Move("alice", "e2e4"); err != nil {
		t.Fatalf("Move: %v", err)
	}
	if _, err := s.Move("alice", "e7e5"); err == nil {
		t.Fatal("out of turn move accepted")
	}

	states := conn.states(t)
	if len(states) != 2 {
		t.Fatalf("got %d state broadcasts, want 2", len(states))
	}
	last := states[len(states)-1]
	if last.LastMove != "e2e4" || last.Turn != model.Black || len(last.Board) != 32 {
		t.Errorf("last broadcast = move %q turn %s pieces %d", last.LastMove, last.Turn, len(last.Board))
	}

	if err := s.RegisterConnection("mallory", &fakeConn{}); !errors.Is(err, ErrNotSeated) {
		t.Errorf("stranger connection error = %v, want ErrNotSeated", err)
	}
	s.UnregisterConnection("alice", conn)
	if s.connections.Len() != 0 {
		t.Error("connection still registered")
	}
}

func TestSessionLegalMovesAndSuggest(t *testing.T) {
	s := newTestSession(t, SessionOptions{Seed: 1})

	if got := len(s.LegalMoves(model.White)); got != 20 {
		t.Errorf("white has %d legal moves, want 20", got)
	}
	move, ok := s.Suggest(model.StrategyGreedy)
	if !ok {
		t.Fatal("no suggestion")
	}
	legal := s.LegalMoves(model.White)
	found := false
	for _, m := range legal {
		found = found || m == move
	}
	if !found {
		t.Errorf("suggestion %s not in %v", move, legal)
	}
	if len(s.State().Moves) != 0 {
		t.Error("suggesting played a move")
	}
}

func TestNewSessionBadFEN(t *testing.T) {
	if _, err := NewSession("x", SessionOptions{FEN: "nonsense"}, zaptest.NewLogger(t)); !errors.Is(err, model.ErrInvalidFEN) {
		t.Errorf("NewSession error = %v, want ErrInvalidFEN", err)
	}
}

func TestSessionComputerSeatIsNotClaimable(t *testing.T) {
	s := newTestSession(t, SessionOptions{Opponent: model.StrategyRandom, Color: model.White, Seed: 3})
	seat(t, s, "alice")

	if _, err := s.AddPlayer(ComputerPlayerID); !errors.Is(err, ErrGameFull) {
		t.Errorf("AddPlayer(%s) error = %v, want ErrGameFull", ComputerPlayerID, err)
	}
	if s.IsPlayerInGame(ComputerPlayerID) {
		t.Errorf("%s counts as a seated player", ComputerPlayerID)
	}
	if _, err := s.Quit(ComputerPlayerID); !errors.Is(err, ErrNotSeated) {
		t.Errorf("Quit(%s) error = %v, want ErrNotSeated", ComputerPlayerID, err)
	}
	if err := s.RegisterConnection(ComputerPlayerID, &fakeConn{}); !errors.Is(err, ErrNotSeated) {
		t.Errorf("RegisterConnection(%s) error = %v, want ErrNotSeated", ComputerPlayerID, err)
	}
	if st := s.State(); st.Status != model.StatusInProgress || st.Players.Black != ComputerPlayerID {
		t.Errorf("state = status %s players %+v", st.Status, st.Players)
	}

	// Black is the computer's seat; a client with its name cannot move there.
	s2 := newTestSession(t, SessionOptions{Opponent: model.StrategyRandom, Color: model.Black, Seed: 3})
	seat(t, s2, "alice")
	if _, err := s2.Move(ComputerPlayerID, "e7e5"); !errors.Is(err, ErrNotSeated) {
		t.Errorf("Move as %s error = %v, want ErrNotSeated", ComputerPlayerID, err)
	}
}

func TestSessionRecordsCanonicalMoves(t *testing.T) {
	s := newTestSession(t, SessionOptions{})
	seat(t, s, "alice", "bob")

	if _, err := s.Move("alice", " E2E4 "); err != nil {
		t.Fatalf("Move: %v", err)
	}
	st := s.State()
	if diff := cmp.Diff([]string{"e2e4"}, st.Moves); diff != "" {
		t.Errorf("moves mismatch (-want +got):\n%s", diff)
	}
	if st.LastMove != "e2e4" {
		t.Errorf("last move = %q, want e2e4", st.LastMove)
	}
}
