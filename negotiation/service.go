package negotiation

import (
	"context"
	"fmt"

	"tavernserver/hearthstone"
	"tavernserver/internal/keylock"
	"tavernserver/models"

	"go.uber.org/zap"
)

// Repository はBAN交渉が必要とする永続化コラボレーターです。
type Repository interface {
	LoadTournament(ctx context.Context, id uint) (*models.Tournament, error)
	LoadUser(ctx context.Context, id uint) (*models.User, error)
	LoadMember(ctx context.Context, tournamentID, userID uint) (*models.Member, error)
	LoadBanRequest(ctx context.Context, id uint) (*models.BanRequest, error)
	SaveBanRequest(ctx context.Context, b *models.BanRequest) error
	QueryBanRequests(ctx context.Context, tournamentID uint, battleTag string) ([]models.BanRequest, error)
}

// Notifier は一方のサイドのチャンネルへテキストを届けます。
// 配信保証はなく、コアは送信の試行だけに責任を持ちます。
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}

// Oversight は結果報告を運営の監督チャンネルへ届けます。
type Oversight interface {
	Notify(ctx context.Context, text string) error
}

// Service はBAN交渉のステートマシンを駆動します。
// 1レコードへの変更はキー単位ロックで直列化され、両サイドのBANが
// 揃った瞬間のResolve遷移はちょうど1回だけ発火します。
type Service struct {
	repo      Repository
	notifier  Notifier
	oversight Oversight
	locks     *keylock.KeyedMutex
	logger    *zap.Logger
}

// NewService はServiceを生成します。
func NewService(repo Repository, notifier Notifier, oversight Oversight, logger *zap.Logger) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		oversight: oversight,
		locks:     keylock.New(),
		logger:    logger,
	}
}

func lockKey(id uint) string {
	return fmt.Sprintf("ban:%d", id)
}

// Create は対戦カードに対してBAN交渉レコードを作成します。
// 各ユーザーをバトルタグ・通知チャンネル・ラウンドスライス済みプールに解決し、
// 両サイドのBannedDeckは未設定のままで保存します。トーナメント、ユーザー、
// メンバーのいずれかが欠けていればErrNotFound、スライス後のプールが
// 空ならErrValidationです。
func (s *Service) Create(ctx context.Context, tournamentID, gamerID, opponentID uint, round string) (*models.BanRequest, error) {
	t, err := s.repo.LoadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	gamer, err := s.repo.LoadUser(ctx, gamerID)
	if err != nil {
		return nil, err
	}
	opponent, err := s.repo.LoadUser(ctx, opponentID)
	if err != nil {
		return nil, err
	}

	gamerMember, err := s.repo.LoadMember(ctx, tournamentID, gamerID)
	if err != nil {
		return nil, err
	}
	opponentMember, err := s.repo.LoadMember(ctx, tournamentID, opponentID)
	if err != nil {
		return nil, err
	}

	gamerPool := hearthstone.SliceForRound(gamerMember.Decks(), round, t)
	opponentPool := hearthstone.SliceForRound(opponentMember.Decks(), round, t)
	if len(gamerPool) == 0 || len(opponentPool) == 0 {
		return nil, fmt.Errorf("%w: empty deck pool for round %q", models.ErrValidation, round)
	}

	b := &models.BanRequest{
		TournamentID:      tournamentID,
		Round:             round,
		GamerBattleTag:    gamer.BattleTag,
		GamerDeckList:     models.JoinDeckList(gamerPool),
		GamerChatID:       gamer.ChatID,
		OpponentBattleTag: opponent.BattleTag,
		OpponentDeckList:  models.JoinDeckList(opponentPool),
		OpponentChatID:    opponent.ChatID,
	}
	if err := s.repo.SaveBanRequest(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Ban negotiation created",
		zap.Uint("banRequestID", b.ID),
		zap.Uint("tournamentID", tournamentID),
		zap.String("gamer", gamer.BattleTag),
		zap.String("opponent", opponent.BattleTag),
		zap.String("round", round),
	)
	return b, nil
}

// SubmitBan は一方のサイドのBAN送信を処理します。BANは相手プールからの
// 除外なので、classIDが相手プールに含まれない場合はErrInvalidChoiceです。
// そのサイドが既にBAN済みならErrConflictで、保存済みの値は両サイドとも
// 変化しません。この書き込みで両サイドが揃った場合のみResolve遷移が起き、
// それぞれのサイドに「相手が何を除外したか」をちょうど1回通知します。
func (s *Service) SubmitBan(ctx context.Context, id uint, side models.Side, classID string) (*models.BanRequest, error) {
	if !side.Valid() {
		return nil, fmt.Errorf("%w: unknown side %q", models.ErrValidation, side)
	}

	key := lockKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	b, err := s.repo.LoadBanRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !contains(b.PoolFor(side.Opposite()), classID) {
		return nil, fmt.Errorf("%w: %q is not in the opponent's pool", models.ErrInvalidChoice, classID)
	}
	if b.BannedDeckFor(side) != "" {
		return nil, fmt.Errorf("%w: side %s already banned", models.ErrConflict, side)
	}

	b.SetBannedDeck(side, classID)
	resolved := b.Resolved()

	// レコードが真実の源。通知より先に状態をコミットする。
	if err := s.repo.SaveBanRequest(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("Ban submitted",
		zap.Uint("banRequestID", b.ID),
		zap.String("side", string(side)),
		zap.String("classID", classID),
		zap.Bool("resolved", resolved),
	)

	// resolvedはこの呼び出しが未設定→設定の遷移で両サイドを揃えた場合のみtrue。
	// 重複送信はErrConflictで弾かれるため、通知の試行は交渉ごとに1回きりになる。
	if resolved {
		s.notifyResolved(ctx, b, models.SideGamer)
		s.notifyResolved(ctx, b, models.SideOpponent)
	}
	return b, nil
}

// notifyResolved は指定サイドに相手のBANを通知します。
// 通知失敗はログに残すだけで、確定済みの状態は巻き戻しません。
func (s *Service) notifyResolved(ctx context.Context, b *models.BanRequest, side models.Side) {
	chatID := b.ChatIDFor(side)
	if chatID == 0 {
		return
	}
	// 相手がBANしたのは自分のプールのデッキ
	banned := b.BannedDeckFor(side.Opposite())
	text := fmt.Sprintf("BAN交渉が完了しました。相手はあなたの「%s」をBANしました。残りのデッキで対戦してください。",
		hearthstone.Title(banned))
	if err := s.notifier.Notify(ctx, chatID, text); err != nil {
		s.logger.Error("Failed to notify resolved ban",
			zap.Uint("banRequestID", b.ID),
			zap.String("side", string(side)),
			zap.Error(err),
		)
	}
}

// ReportResult は対戦結果の報告を記録します。BAN交渉とは独立した
// サブプロトコルで、両サイドのBANが揃う前でも有効です。
// 保存済みの内容と同じテキストは何もせず、監督チャンネルへの通知も
// 重複しません。
func (s *Service) ReportResult(ctx context.Context, id uint, side models.Side, text string) error {
	if !side.Valid() {
		return fmt.Errorf("%w: unknown side %q", models.ErrValidation, side)
	}

	key := lockKey(id)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	b, err := s.repo.LoadBanRequest(ctx, id)
	if err != nil {
		return err
	}

	if b.ResultInfoFor(side) == text {
		return nil
	}

	b.SetResultInfo(side, text)
	if err := s.repo.SaveBanRequest(ctx, b); err != nil {
		return err
	}

	report := fmt.Sprintf("結果報告 [交渉ID %d / トーナメント %d] %s: %s",
		b.ID, b.TournamentID, b.BattleTagFor(side), text)
	if err := s.oversight.Notify(ctx, report); err != nil {
		s.logger.Error("Failed to notify oversight channel",
			zap.Uint("banRequestID", b.ID),
			zap.Error(err),
		)
	}
	return nil
}

// ListForUser は指定バトルタグがどちらかのサイドとして関与する
// トーナメント内の全交渉を新しい順で返します。
func (s *Service) ListForUser(ctx context.Context, tournamentID uint, battleTag string) ([]models.BanRequest, error) {
	if battleTag == "" {
		return nil, fmt.Errorf("%w: battle tag is required", models.ErrValidation)
	}
	return s.repo.QueryBanRequests(ctx, tournamentID, battleTag)
}

func contains(pool []string, classID string) bool {
	for _, id := range pool {
		if id == classID {
			return true
		}
	}
	return false
}
