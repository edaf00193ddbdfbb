package negotiation

import (
	"context"
	"sort"
	"sync"
	"testing"

	"tavernserver/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memberKey struct {
	tournamentID uint
	userID       uint
}

// fakeRepo はRepositoryのインメモリ実装です。LoadBanRequestは
// データベースと同様に独立したコピーを返します。
type fakeRepo struct {
	mu          sync.Mutex
	tournaments map[uint]*models.Tournament
	users       map[uint]*models.User
	members     map[memberKey]*models.Member
	banRequests map[uint]*models.BanRequest
	nextID      uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		tournaments: make(map[uint]*models.Tournament),
		users:       make(map[uint]*models.User),
		members:     make(map[memberKey]*models.Member),
		banRequests: make(map[uint]*models.BanRequest),
	}
}

func (f *fakeRepo) LoadTournament(_ context.Context, id uint) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeRepo) LoadUser(_ context.Context, id uint) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeRepo) LoadMember(_ context.Context, tournamentID, userID uint) (*models.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[memberKey{tournamentID, userID}]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (f *fakeRepo) LoadBanRequest(_ context.Context, id uint) (*models.BanRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.banRequests[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepo) SaveBanRequest(_ context.Context, b *models.BanRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == 0 {
		f.nextID++
		b.ID = f.nextID
	}
	copied := *b
	f.banRequests[b.ID] = &copied
	return nil
}

func (f *fakeRepo) QueryBanRequests(_ context.Context, tournamentID uint, battleTag string) ([]models.BanRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []models.BanRequest
	for _, b := range f.banRequests {
		if b.TournamentID != tournamentID {
			continue
		}
		if b.GamerBattleTag != battleTag && b.OpponentBattleTag != battleTag {
			continue
		}
		list = append(list, *b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID > list[j].ID })
	return list, nil
}

type notification struct {
	chatID int64
	text   string
}

// recordingNotifier は送信の試行を記録するNotifierです。
type recordingNotifier struct {
	mu    sync.Mutex
	calls []notification
}

func (r *recordingNotifier) Notify(_ context.Context, chatID int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, notification{chatID, text})
	return nil
}

func (r *recordingNotifier) sent() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notification(nil), r.calls...)
}

type recordingOversight struct {
	mu    sync.Mutex
	texts []string
}

func (r *recordingOversight) Notify(_ context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, text)
	return nil
}

func (r *recordingOversight) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.texts...)
}

func newTestService() (*Service, *fakeRepo, *recordingNotifier, *recordingOversight) {
	repo := newFakeRepo()
	notifier := &recordingNotifier{}
	oversight := &recordingOversight{}
	svc := NewService(repo, notifier, oversight, zap.NewNop())
	return svc, repo, notifier, oversight
}

// シナリオ共通のセットアップ:
// gamer(ID 1, chat 100)のプールは[Rogue,Hunter,Mage]、
// opponent(ID 2, chat 200)のプールは[Warrior,Priest,Shaman]。
func seedPairing(repo *fakeRepo) {
	repo.tournaments[1] = &models.Tournament{
		DeckCount:           3,
		DeckCountForGroup:   2,
		DeckCountForPlayoff: 3,
		Status:              models.TournamentStatusStart,
	}
	repo.users[1] = &models.User{BattleTag: "Alpha#1111", ChatID: 100}
	repo.users[1].ID = 1
	repo.users[2] = &models.User{BattleTag: "Bravo#2222", ChatID: 200}
	repo.users[2].ID = 2
	repo.members[memberKey{1, 1}] = &models.Member{TournamentID: 1, UserID: 1, DeckList: "Rogue,Hunter,Mage"}
	repo.members[memberKey{1, 2}] = &models.Member{TournamentID: 1, UserID: 2, DeckList: "Warrior,Priest,Shaman"}
}

func TestCreate(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)

	b, err := svc.Create(context.Background(), 1, 1, 2, "")
	require.NoError(t, err)

	assert.NotZero(t, b.ID)
	assert.Equal(t, "Alpha#1111", b.GamerBattleTag)
	assert.Equal(t, "Rogue,Hunter,Mage", b.GamerDeckList)
	assert.Equal(t, int64(100), b.GamerChatID)
	assert.Equal(t, "Bravo#2222", b.OpponentBattleTag)
	assert.Equal(t, "Warrior,Priest,Shaman", b.OpponentDeckList)
	assert.Equal(t, int64(200), b.OpponentChatID)
	assert.Empty(t, b.GamerBannedDeck)
	assert.Empty(t, b.OpponentBannedDeck)
	assert.False(t, b.Resolved())
}

func TestCreateSlicesPoolsForRound(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)

	b, err := svc.Create(context.Background(), 1, 1, 2, "group")
	require.NoError(t, err)

	// グループステージは先頭2つだけ（選択順維持）
	assert.Equal(t, "Rogue,Hunter", b.GamerDeckList)
	assert.Equal(t, "Warrior,Priest", b.OpponentDeckList)
	assert.Equal(t, "group", b.Round)
}

func TestCreateMissingPieces(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 9, 1, 2, "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Create(ctx, 1, 9, 2, "")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// メンバー登録のないユーザー
	repo.users[3] = &models.User{BattleTag: "Charlie#3333"}
	repo.users[3].ID = 3
	_, err = svc.Create(ctx, 1, 1, 3, "")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateEmptyPool(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	repo.tournaments[1].DeckCountForGroup = 0

	_, err := svc.Create(context.Background(), 1, 1, 2, "group")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSubmitBanConvergence(t *testing.T) {
	svc, repo, notifier, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	// gamerが相手プールからPriestをBAN → まだ通知なし
	b1, err := svc.SubmitBan(ctx, b.ID, models.SideGamer, "Priest")
	require.NoError(t, err)
	assert.Equal(t, "Priest", b1.GamerBannedDeck)
	assert.False(t, b1.Resolved())
	assert.Empty(t, notifier.sent())

	// opponentがRogueをBAN → 収束し、両サイドに1回ずつ通知
	b2, err := svc.SubmitBan(ctx, b.ID, models.SideOpponent, "Rogue")
	require.NoError(t, err)
	assert.True(t, b2.Resolved())

	sent := notifier.sent()
	require.Len(t, sent, 2)
	byChat := map[int64]string{}
	for _, n := range sent {
		byChat[n.chatID] = n.text
	}
	// 各サイドは「相手が何を除外したか」を知らされる
	assert.Contains(t, byChat[100], "ローグ")     // gamerのプールからRogueが消えた
	assert.Contains(t, byChat[200], "プリースト") // opponentのプールからPriestが消えた

	// 3回目の送信はどちらのサイドでもConflictで、値も通知も変わらない
	_, err = svc.SubmitBan(ctx, b.ID, models.SideGamer, "Shaman")
	assert.ErrorIs(t, err, models.ErrConflict)
	_, err = svc.SubmitBan(ctx, b.ID, models.SideOpponent, "Hunter")
	assert.ErrorIs(t, err, models.ErrConflict)

	stored, err := repo.LoadBanRequest(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priest", stored.GamerBannedDeck)
	assert.Equal(t, "Rogue", stored.OpponentBannedDeck)
	assert.Len(t, notifier.sent(), 2)
}

func TestSubmitBanOppositeOrder(t *testing.T) {
	svc, repo, notifier, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	_, err = svc.SubmitBan(ctx, b.ID, models.SideOpponent, "Mage")
	require.NoError(t, err)
	assert.Empty(t, notifier.sent())

	_, err = svc.SubmitBan(ctx, b.ID, models.SideGamer, "Warrior")
	require.NoError(t, err)
	assert.Len(t, notifier.sent(), 2)
}

func TestSubmitBanMustTargetOpponentPool(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	// Hunterはgamer自身のプールのデッキであり、相手プールには存在しない
	_, err = svc.SubmitBan(ctx, b.ID, models.SideGamer, "Hunter")
	assert.ErrorIs(t, err, models.ErrInvalidChoice)

	stored, err := repo.LoadBanRequest(ctx, b.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.GamerBannedDeck)
}

func TestSubmitBanUnknownSide(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	_, err = svc.SubmitBan(ctx, b.ID, models.Side("referee"), "Priest")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSubmitBanMissingNegotiation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.SubmitBan(context.Background(), 42, models.SideGamer, "Priest")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

// 同一サイドへの重複送信が同時に来ても、勝者は1つだけ。
func TestSubmitBanConcurrentDuplicates(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	candidates := []string{"Warrior", "Priest", "Shaman"}
	errs := make([]error, len(candidates))
	var wg sync.WaitGroup
	for i, classID := range candidates {
		wg.Add(1)
		go func(i int, classID string) {
			defer wg.Done()
			_, errs[i] = svc.SubmitBan(ctx, b.ID, models.SideGamer, classID)
		}(i, classID)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, models.ErrConflict)
		}
	}
	assert.Equal(t, 1, won)

	stored, err := repo.LoadBanRequest(ctx, b.ID)
	require.NoError(t, err)
	assert.Contains(t, candidates, stored.GamerBannedDeck)
}

// ほぼ同時に両サイドが送信しても、Resolve遷移は1回で通知は各サイド1回ずつ。
func TestResolveExactlyOnceUnderConcurrency(t *testing.T) {
	svc, repo, notifier, _ := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		b, err := svc.Create(ctx, 1, 1, 2, "")
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.SubmitBan(ctx, b.ID, models.SideGamer, "Priest")
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := svc.SubmitBan(ctx, b.ID, models.SideOpponent, "Rogue")
			assert.NoError(t, err)
		}()
		wg.Wait()
	}

	// 交渉20件 × 両サイド1通ずつ
	assert.Len(t, notifier.sent(), 40)
}

func TestSubmitBanWithoutChannel(t *testing.T) {
	svc, repo, notifier, _ := newTestService()
	seedPairing(repo)
	repo.users[1].ChatID = 0 // gamerは通知先なし
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	_, err = svc.SubmitBan(ctx, b.ID, models.SideGamer, "Priest")
	require.NoError(t, err)
	_, err = svc.SubmitBan(ctx, b.ID, models.SideOpponent, "Rogue")
	require.NoError(t, err)

	// チャンネルのないサイドには送信を試みない
	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, int64(200), sent[0].chatID)
}

func TestReportResult(t *testing.T) {
	svc, repo, _, oversight := newTestService()
	seedPairing(repo)
	ctx := context.Background()

	b, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)

	// BANが揃う前でも報告できる
	require.NoError(t, svc.ReportResult(ctx, b.ID, models.SideGamer, "2-1で勝ち"))
	assert.Len(t, oversight.sent(), 1)

	// 同じ内容の再送は記録も通知も増やさない
	require.NoError(t, svc.ReportResult(ctx, b.ID, models.SideGamer, "2-1で勝ち"))
	assert.Len(t, oversight.sent(), 1)

	// 内容が変われば更新して再通知
	require.NoError(t, svc.ReportResult(ctx, b.ID, models.SideGamer, "2-2で引き分け"))
	assert.Len(t, oversight.sent(), 2)

	stored, err := repo.LoadBanRequest(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2-2で引き分け", stored.GamerResultInfo)
	assert.Empty(t, stored.OpponentResultInfo)
}

func TestListForUser(t *testing.T) {
	svc, repo, _, _ := newTestService()
	seedPairing(repo)
	repo.users[3] = &models.User{BattleTag: "Charlie#3333", ChatID: 300}
	repo.users[3].ID = 3
	repo.members[memberKey{1, 3}] = &models.Member{TournamentID: 1, UserID: 3, DeckList: "Druid,Mage,Paladin"}
	ctx := context.Background()

	b1, err := svc.Create(ctx, 1, 1, 2, "")
	require.NoError(t, err)
	b2, err := svc.Create(ctx, 1, 3, 1, "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, 2, 3, "")
	require.NoError(t, err)

	list, err := svc.ListForUser(ctx, 1, "Alpha#1111")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// どちらのサイドでもヒットし、新しい順に並ぶ
	assert.Equal(t, b2.ID, list[0].ID)
	assert.Equal(t, b1.ID, list[1].ID)
}

func TestListForUserRequiresBattleTag(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ListForUser(context.Background(), 1, "")
	assert.ErrorIs(t, err, models.ErrValidation)
}
