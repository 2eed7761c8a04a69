package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/ciberteca/rental/go/internal/events"
)

// ErrMoveRejected is returned when the user declines the confirmation
// prompt for a cross-game move. The store and view are left untouched.
var ErrMoveRejected = errors.New("reassignment rejected")

// Move describes a pending cross-game reassignment.
type Move struct {
	StudentID  string
	FromGameID *int64 // nil when the student is not currently listed
	ToGameID   int64
}

// Confirmer gates a cross-game move on a user decision. The drop handler
// blocks on it before any state changes.
type Confirmer interface {
	Confirm(ctx context.Context, move Move) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, move Move) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, move Move) (bool, error) {
	return f(ctx, move)
}

// PlayMover performs the backend reassignment.
type PlayMover interface {
	ChangeStudentGame(ctx context.Context, studentID string, toGameID int64) error
}

// Reassigner handles a drop of a player element onto another game's
// card: confirm, mutate the backend, patch the store, broadcast. Nothing
// is moved optimistically before the confirmation resolves.
type Reassigner struct {
	store   *Store
	mover   PlayMover
	confirm Confirmer
	syncer  *Syncer
	notify  func(gameID int64) // view refresh for an affected game, may be nil
}

// NewReassigner wires a reassignment controller.
func NewReassigner(store *Store, mover PlayMover, confirm Confirmer, syncer *Syncer, notify func(gameID int64)) *Reassigner {
	return &Reassigner{
		store:   store,
		mover:   mover,
		confirm: confirm,
		syncer:  syncer,
		notify:  notify,
	}
}

// Drop resolves one completed drag gesture onto targetGameID.
//
// Dropping a student back onto their current game is a no-op: no backend
// call, no count change, no rebroadcast. A cross-game drop waits for the
// confirmation; on success the counts move atomically (old −1, new +1)
// and one "Plays updated" is broadcast per affected game.
func (r *Reassigner) Drop(ctx context.Context, studentID string, targetGameID int64) error {
	move := Move{StudentID: studentID, ToGameID: targetGameID}
	if from, ok := r.store.GameOf(studentID); ok {
		if from == targetGameID {
			return nil
		}
		move.FromGameID = &from
	}

	confirmed, err := r.confirm.Confirm(ctx, move)
	if err != nil {
		return fmt.Errorf("confirm reassignment: %w", err)
	}
	if !confirmed {
		return ErrMoveRejected
	}

	if err := r.mover.ChangeStudentGame(ctx, studentID, targetGameID); err != nil {
		return fmt.Errorf("reassign student %s: %w", studentID, err)
	}

	r.store.MoveStudent(studentID, move.FromGameID, targetGameID)

	if r.notify != nil {
		if move.FromGameID != nil {
			r.notify(*move.FromGameID)
		}
		r.notify(targetGameID)
	}

	if move.FromGameID != nil {
		if err := r.syncer.Broadcast(events.MsgPlaysUpdated, move.FromGameID); err != nil {
			return err
		}
	}
	return r.syncer.Broadcast(events.MsgPlaysUpdated, &targetGameID)
}

// InsertIndex returns where a dragged element should be inserted among
// its siblings: before the first sibling whose vertical midpoint is below
// the pointer, or at the end when no such sibling exists.
func InsertIndex(midpoints []float64, y float64) int {
	for i, mid := range midpoints {
		if y < mid {
			return i
		}
	}
	return len(midpoints)
}
