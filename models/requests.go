package models

// RegisterRequest はユーザー登録リクエストのボディです。
type RegisterRequest struct {
	Login     string `json:"login" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FIO       string `json:"fio"`
	BattleTag string `json:"battleTag" binding:"required"`
	ChatID    int64  `json:"chatId"`
}

// LoginRequest はログインリクエストのボディです。
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TournamentRequest はトーナメント作成・編集のボディです。
type TournamentRequest struct {
	Title               string `json:"title" binding:"required"`
	Status              string `json:"status"`
	DeckCount           int    `json:"deckCount"`
	DeckCountForGroup   int    `json:"deckCountForGroup"`
	DeckCountForPlayoff int    `json:"deckCountForPlayoff"`
}

// EnrollStartRequest は参加登録セッション開始のボディです。
type EnrollStartRequest struct {
	TournamentID uint `json:"tournamentId" binding:"required"`
}

// EnrollDeckRequest はデッキ選択のボディです。
type EnrollDeckRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	ClassID   string `json:"classId" binding:"required"`
}

// EnrollCancelRequest は参加登録キャンセルのボディです。
type EnrollCancelRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// MemberEditRequest は確定済みデッキプールの編集ボディです。
type MemberEditRequest struct {
	TournamentID uint     `json:"tournamentId" binding:"required"`
	Decks        []string `json:"decks" binding:"required"`
}

// NegotiationCreateRequest はBAN交渉作成のボディです。
type NegotiationCreateRequest struct {
	TournamentID uint   `json:"tournamentId" binding:"required"`
	GamerID      uint   `json:"gamerId" binding:"required"`
	OpponentID   uint   `json:"opponentId" binding:"required"`
	Round        string `json:"round"`
}

// SubmitBanRequest はBAN送信のボディです。
type SubmitBanRequest struct {
	Side    string `json:"side" binding:"required"`
	ClassID string `json:"classId" binding:"required"`
}

// ReportResultRequest は対戦結果報告のボディです。
type ReportResultRequest struct {
	Side string `json:"side" binding:"required"`
	Text string `json:"text" binding:"required"`
}
