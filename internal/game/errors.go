package game

import "errors"

// Action failures. All of them are expected, recoverable conditions: an action
// that returns one of these has not changed any state.
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientCargo   = errors.New("cargo full")
	ErrInsufficientGoods   = errors.New("insufficient goods")
	ErrInvalidDestination  = errors.New("destination not connected")
	ErrShipNotSeaworthy    = errors.New("ship needs repair")
	ErrAlreadyOwned        = errors.New("already owned")
	ErrNotFound            = errors.New("not found")
	ErrQuestNotCompleted   = errors.New("quest not completed")
	ErrTooManyActiveQuests = errors.New("too many active quests")
	ErrNothingToRepair     = errors.New("repair not needed")
	ErrCrewAlreadyFull     = errors.New("crew already full")
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrNoShipyard          = errors.New("no shipyard in this city")
)

// ErrInvalidUniverse wraps every reference-data validation failure.
var ErrInvalidUniverse = errors.New("invalid universe")

var reasons = []struct {
	err  error
	code string
}{
	{ErrInsufficientFunds, "insufficient_funds"},
	{ErrInsufficientStock, "insufficient_stock"},
	{ErrInsufficientCargo, "insufficient_cargo"},
	{ErrInsufficientGoods, "insufficient_goods"},
	{ErrInvalidDestination, "invalid_destination"},
	{ErrShipNotSeaworthy, "ship_not_seaworthy"},
	{ErrAlreadyOwned, "already_owned"},
	{ErrNotFound, "not_found"},
	{ErrQuestNotCompleted, "quest_not_completed"},
	{ErrTooManyActiveQuests, "too_many_active_quests"},
	{ErrNothingToRepair, "nothing_to_repair"},
	{ErrCrewAlreadyFull, "crew_already_full"},
	{ErrInvalidQuantity, "invalid_quantity"},
	{ErrNoShipyard, "no_shipyard"},
}

// Reason returns the stable machine-readable code for an action failure,
// or "" if err is not one of the package's sentinel errors.
func Reason(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.code
		}
	}
	return ""
}
