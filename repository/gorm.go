package repository

import (
	"context"
	"errors"

	"tavernserver/models"

	"gorm.io/gorm"
)

// Gorm はenrollとnegotiationの両サービスが要求する永続化コラボレーターの
// PostgreSQL実装です。gorm.Config{TranslateError: true}で接続されている前提で、
// gormのエラーをmodelsパッケージの分類に変換します。
type Gorm struct {
	db *gorm.DB
}

// NewGorm はgorm接続を包んでリポジトリを生成します。
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrConflict
	}
	return err
}

// LoadTournament はIDでトーナメントを取得します。
func (r *Gorm) LoadTournament(ctx context.Context, id uint) (*models.Tournament, error) {
	var t models.Tournament
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

// LoadUser はIDでユーザーを取得します。
func (r *Gorm) LoadUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// LoadMember は（トーナメント, ユーザー）の確定済みデッキプールを取得します。
func (r *Gorm) LoadMember(ctx context.Context, tournamentID, userID uint) (*models.Member, error) {
	var m models.Member
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND user_id = ?", tournamentID, userID).
		First(&m).Error
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}

// SaveMember は新規メンバーを作成します。(tournament, user)の一意インデックスに
// 衝突した場合はErrConflictを返します（同時登録のレース対策）。
func (r *Gorm) SaveMember(ctx context.Context, m *models.Member) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

// UpdateMember は既存メンバーのデッキプールを更新します。
func (r *Gorm) UpdateMember(ctx context.Context, m *models.Member) error {
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return translate(err)
	}
	return nil
}

// LoadBanRequest はIDでBAN交渉レコードを取得します。
func (r *Gorm) LoadBanRequest(ctx context.Context, id uint) (*models.BanRequest, error) {
	var b models.BanRequest
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// SaveBanRequest はBAN交渉レコードを作成または更新します。
func (r *Gorm) SaveBanRequest(ctx context.Context, b *models.BanRequest) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return translate(err)
	}
	return nil
}

// ListTournaments は新しい順にトーナメントを返します（ボットのメニュー用）。
func (r *Gorm) ListTournaments(ctx context.Context, limit int) ([]models.Tournament, error) {
	var list []models.Tournament
	err := r.db.WithContext(ctx).
		Where("status = ?", models.TournamentStatusNew).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}

// FindUserByChatID はTelegramのチャットIDからユーザーを解決します。
func (r *Gorm) FindUserByChatID(ctx context.Context, chatID int64) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// QueryBanRequests は指定バトルタグが一方のサイドとして関与する
// トーナメント内の全交渉を新しい順（ID降順）で返します。
func (r *Gorm) QueryBanRequests(ctx context.Context, tournamentID uint, battleTag string) ([]models.BanRequest, error) {
	var list []models.BanRequest
	err := r.db.WithContext(ctx).
		Where("tournament_id = ? AND (gamer_battle_tag = ? OR opponent_battle_tag = ?)",
			tournamentID, battleTag, battleTag).
		Order("id DESC").
		Find(&list).Error
	if err != nil {
		return nil, translate(err)
	}
	return list, nil
}
