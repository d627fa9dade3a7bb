package arena

import (
	"fmt"

	"github.com/discochess/arena/internal/rules"
)

// classify maps a terminal position to a result. More than one condition
// may hold at once; the first in the order below wins. mover is the side
// that made the last move.
func classify(st rules.Status, mover rules.Color) Result {
	const reason = "game_over"

	switch {
	case st.Checkmate:
		return Result{Winner: Winner(mover), Termination: TerminationCheckmate, Reason: reason}
	case st.Stalemate:
		return Result{Winner: WinnerDraw, Termination: TerminationStalemate, Reason: reason}
	case st.ThreefoldRepetition:
		return Result{Winner: WinnerDraw, Termination: TerminationThreefoldRepetition, Reason: reason}
	case st.InsufficientMaterial:
		return Result{Winner: WinnerDraw, Termination: TerminationInsufficientMaterial, Reason: reason}
	case st.Draw:
		return Result{Winner: WinnerDraw, Termination: TerminationDraw, Reason: reason}
	default:
		return Result{Winner: WinnerDraw, Termination: TerminationUnknown, Reason: reason}
	}
}

func maxPliesResult(maxPlies int) Result {
	return Result{
		Winner:      WinnerDraw,
		Termination: TerminationMaxPlies,
		Reason:      fmt.Sprintf("reached max plies %d", maxPlies),
	}
}

func engineErrorResult(err error) Result {
	return Result{
		Winner:      WinnerDraw,
		Termination: TerminationEngineError,
		Reason:      err.Error(),
	}
}
