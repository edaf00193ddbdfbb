package enroll

import (
	"tavernserver/hearthstone"
)

// Session は参加登録の途中経過を表す一時的なステートです。
// チャンネルキー（TelegramのチャットIDまたはRESTのセッションID）ごとに1つで、
// 永続化はされず、放置されたセッションはTTLで消えるだけです。
// Selectedが TargetCount に達した時点でMemberレコードに確定されます。
type Session struct {
	TournamentID uint     `json:"tournamentId"`
	UserID       uint     `json:"userId"`
	ChatID       int64    `json:"chatId"`
	TargetCount  int      `json:"targetCount"`
	Selected     []string `json:"selected"` // 選択順を維持したクラスID列
}

// Prompt は各遷移後に会話レイヤーへ返す出力契約です。
// 残りの選択肢を提示できるよう、未選択クラスをカタログ順で含みます。
type Prompt struct {
	TournamentID uint
	Completed    bool
	Selected     []string
	Remaining    []hearthstone.DeckClass
}

func (s *Session) prompt(completed bool) *Prompt {
	return &Prompt{
		TournamentID: s.TournamentID,
		Completed:    completed,
		Selected:     append([]string(nil), s.Selected...),
		Remaining:    hearthstone.Remaining(s.Selected),
	}
}

func (s *Session) picked(classID string) bool {
	for _, id := range s.Selected {
		if id == classID {
			return true
		}
	}
	return false
}
