package enroll

import (
	"context"
	"errors"
	"fmt"

	"tavernserver/hearthstone"
	"tavernserver/internal/keylock"
	"tavernserver/models"

	"go.uber.org/zap"
)

// Repository は参加登録が必要とする永続化コラボレーターです。
type Repository interface {
	LoadTournament(ctx context.Context, id uint) (*models.Tournament, error)
	LoadMember(ctx context.Context, tournamentID, userID uint) (*models.Member, error)
	SaveMember(ctx context.Context, m *models.Member) error
	UpdateMember(ctx context.Context, m *models.Member) error
}

// Service は参加登録のステートマシンを駆動します。
// 呼び出し間の状態はSessionStoreとMemberレコードのみで、
// プロセス全体で共有される可変状態は持ちません。
type Service struct {
	repo   Repository
	store  SessionStore
	locks  *keylock.KeyedMutex
	logger *zap.Logger
}

// NewService はServiceを生成します。
func NewService(repo Repository, store SessionStore, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		locks:  keylock.New(),
		logger: logger,
	}
}

// Start はトーナメント選択イベントを処理し、新しいセッションを開始します。
// トーナメントが存在しない場合はErrNotFound、デッキ数が未設定の場合はErrValidation、
// 既に参加登録済みの場合はErrConflictを返します。
// 同じチャンネルで進行中のセッションがあった場合は新しいセッションで置き換えます。
func (s *Service) Start(ctx context.Context, channelKey string, userID uint, chatID int64, tournamentID uint) (*Prompt, error) {
	s.locks.Lock(channelKey)
	defer s.locks.Unlock(channelKey)

	t, err := s.repo.LoadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.DeckCount <= 0 {
		return nil, fmt.Errorf("%w: tournament %d has no deck count", models.ErrValidation, tournamentID)
	}

	// 再登録は禁止
	_, err = s.repo.LoadMember(ctx, tournamentID, userID)
	if err == nil {
		return nil, fmt.Errorf("%w: user %d already enrolled in tournament %d", models.ErrConflict, userID, tournamentID)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	session := &Session{
		TournamentID: tournamentID,
		UserID:       userID,
		ChatID:       chatID,
		TargetCount:  t.DeckCount,
		Selected:     nil,
	}
	if err := s.store.Put(ctx, channelKey, session); err != nil {
		return nil, err
	}

	s.logger.Info("Enroll session started",
		zap.String("channel", channelKey),
		zap.Uint("userID", userID),
		zap.Uint("tournamentID", tournamentID),
		zap.Int("targetCount", t.DeckCount),
	)
	return session.prompt(false), nil
}

// SelectDeck はデッキ選択イベントを処理します。未知のクラスIDと重複選択は
// ErrInvalidChoiceで拒否します。必要数に達した時点でMemberレコードを
// アトミックに作成し、セッションを破棄します。作成時に（別チャンネルとの
// レースで）既にメンバーが存在していた場合はErrConflictを返し、
// 中途半端な書き込みは残しません。
func (s *Service) SelectDeck(ctx context.Context, channelKey string, classID string) (*Prompt, error) {
	s.locks.Lock(channelKey)
	defer s.locks.Unlock(channelKey)

	session, err := s.store.Get(ctx, channelKey)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("%w: no enroll session for channel %s", models.ErrInvalidState, channelKey)
	}

	if !hearthstone.Contains(classID) {
		return nil, fmt.Errorf("%w: unknown deck class %q", models.ErrInvalidChoice, classID)
	}
	if session.picked(classID) {
		return nil, fmt.Errorf("%w: deck class %q already selected", models.ErrInvalidChoice, classID)
	}

	session.Selected = append(session.Selected, classID)

	if len(session.Selected) < session.TargetCount {
		if err := s.store.Put(ctx, channelKey, session); err != nil {
			return nil, err
		}
		return session.prompt(false), nil
	}

	// 必要数に達した：Memberを確定し、セッションを破棄する
	member := &models.Member{
		TournamentID: session.TournamentID,
		UserID:       session.UserID,
	}
	member.SetDecks(session.Selected)

	if err := s.repo.SaveMember(ctx, member); err != nil {
		if errors.Is(err, models.ErrConflict) {
			// 完了時点で既に登録済み（並行登録に負けた）。セッションごと破棄。
			if derr := s.store.Delete(ctx, channelKey); derr != nil {
				s.logger.Error("Failed to discard losing enroll session", zap.String("channel", channelKey), zap.Error(derr))
			}
		}
		return nil, err
	}
	if err := s.store.Delete(ctx, channelKey); err != nil {
		s.logger.Error("Failed to delete completed enroll session", zap.String("channel", channelKey), zap.Error(err))
	}

	s.logger.Info("Enrollment completed",
		zap.String("channel", channelKey),
		zap.Uint("userID", session.UserID),
		zap.Uint("tournamentID", session.TournamentID),
		zap.Strings("decks", session.Selected),
	)
	return session.prompt(true), nil
}

// Cancel は進行中のセッションを破棄します。永続データには何も書き込みません。
// セッションが存在しない場合はErrInvalidStateを返します。
func (s *Service) Cancel(ctx context.Context, channelKey string) error {
	s.locks.Lock(channelKey)
	defer s.locks.Unlock(channelKey)

	session, err := s.store.Get(ctx, channelKey)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("%w: no enroll session for channel %s", models.ErrInvalidState, channelKey)
	}
	return s.store.Delete(ctx, channelKey)
}

// EditMember は確定済みデッキプールの明示的な編集操作です。
// トーナメントがnew状態の間だけ許可され、それ以外はErrConflictです。
// 編集後のリストも登録時と同じ検証（数、一意性、カタログ所属）を通します。
func (s *Service) EditMember(ctx context.Context, userID, tournamentID uint, decks []string) (*models.Member, error) {
	t, err := s.repo.LoadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Status != models.TournamentStatusNew {
		return nil, fmt.Errorf("%w: tournament %d is locked (status=%s)", models.ErrConflict, tournamentID, t.Status)
	}
	if err := validateDecks(decks, t.DeckCount); err != nil {
		return nil, err
	}

	member, err := s.repo.LoadMember(ctx, tournamentID, userID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("member:%d:%d", tournamentID, userID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	member.SetDecks(decks)
	if err := s.repo.UpdateMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func validateDecks(decks []string, deckCount int) error {
	if len(decks) != deckCount {
		return fmt.Errorf("%w: expected %d decks, got %d", models.ErrValidation, deckCount, len(decks))
	}
	seen := make(map[string]bool, len(decks))
	for _, id := range decks {
		if !hearthstone.Contains(id) {
			return fmt.Errorf("%w: unknown deck class %q", models.ErrInvalidChoice, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate deck class %q", models.ErrInvalidChoice, id)
		}
		seen[id] = true
	}
	return nil
}
