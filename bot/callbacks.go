package bot

import (
	"fmt"
	"strconv"
	"strings"

	"tavernserver/models"
)

// EventKind は会話レイヤーから届くイベントの種別です。
// 生のコールバック文字列からの変換はこのアダプターの責務で、
// enroll側のステートマシンには型付きのイベントだけが渡ります。
type EventKind int

const (
	EventSelectTournament EventKind = iota
	EventSelectDeck
	EventCancel
)

// Event は解析済みのコールバックイベントです。
type Event struct {
	Kind         EventKind
	TournamentID uint
	ClassID      string
}

// ParseCallback はインラインキーボードのコールバックデータを型付きイベントに
// 変換します。対応する形式:
//
//	tournament:select:<id>
//	deck:select:<classId>
//	enroll:cancel
func ParseCallback(data string) (Event, error) {
	parts := strings.SplitN(data, ":", 3)

	switch {
	case len(parts) == 3 && parts[0] == "tournament" && parts[1] == "select":
		id, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			return Event{}, fmt.Errorf("%w: bad tournament id %q", models.ErrValidation, parts[2])
		}
		return Event{Kind: EventSelectTournament, TournamentID: uint(id)}, nil

	case len(parts) == 3 && parts[0] == "deck" && parts[1] == "select":
		if parts[2] == "" {
			return Event{}, fmt.Errorf("%w: empty deck class", models.ErrValidation)
		}
		return Event{Kind: EventSelectDeck, ClassID: parts[2]}, nil

	case len(parts) == 2 && parts[0] == "enroll" && parts[1] == "cancel":
		return Event{Kind: EventCancel}, nil
	}

	return Event{}, fmt.Errorf("%w: unknown callback %q", models.ErrValidation, data)
}
