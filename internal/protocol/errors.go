package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Room routing.
	ErrRoomNotFound = "E_ROOM_NOT_FOUND"
	ErrRoomFull     = "E_ROOM_FULL"

	// Rule/action layer.
	ErrBadRequest  = "E_BAD_REQUEST"
	ErrNotYourTurn = "E_NOT_YOUR_TURN"
	ErrNoGold      = "E_NO_GOLD"
	ErrNoTime      = "E_NO_TIME"
	ErrNotAllowed  = "E_NOT_ALLOWED"
	ErrBadTarget   = "E_BAD_TARGET"
	ErrInternal    = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrRoomNotFound:    {},
	ErrRoomFull:        {},
	ErrBadRequest:      {},
	ErrNotYourTurn:     {},
	ErrNoGold:          {},
	ErrNoTime:          {},
	ErrNotAllowed:      {},
	ErrBadTarget:       {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
