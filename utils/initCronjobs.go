package utils

import (
	"context"
	"encoding/json"
	"time"

	"tavernserver/enroll"
	"tavernserver/models"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CronCleaner は定期クリーンナップのスケジューラを起動します。
// 放置された参加登録セッションの回収はコアの不変条件ではなく、
// ここ（ホスティング層）のポリシーとして実装しています。
func CronCleaner(db *gorm.DB, rdb *redis.Client, logger *zap.Logger) {
	c := cron.New()

	// トーナメントがnewでなくなった後も残っている参加登録セッションを破棄するジョブ
	c.AddFunc("@daily", func() {
		logger.Info("古い参加登録セッションの掃除を開始")
		ctx := context.Background()

		var cursor uint64
		removed := 0
		for {
			keys, next, err := rdb.Scan(ctx, cursor, "enroll:*", 100).Result()
			if err != nil {
				logger.Error("参加登録セッションのスキャンに失敗しました", zap.Error(err))
				return
			}
			for _, key := range keys {
				data, err := rdb.Get(ctx, key).Result()
				if err != nil {
					continue
				}
				var session enroll.Session
				if err := json.Unmarshal([]byte(data), &session); err != nil {
					// 壊れたセッションはそのまま破棄
					rdb.Del(ctx, key)
					removed++
					continue
				}

				var t models.Tournament
				err = db.First(&t, session.TournamentID).Error
				if err != nil || t.Status != models.TournamentStatusNew {
					rdb.Del(ctx, key)
					removed++
				}
			}
			cursor = next
			if cursor == 0 {
				break
			}
		}
		logger.Info("参加登録セッションの掃除完了", zap.Int("removed", removed))
	})

	// 片側のBANだけで24時間以上止まっている交渉を検知するジョブ
	c.AddFunc("0 3 * * *", func() {
		var stuck []models.BanRequest
		err := db.
			Where("(gamer_banned_deck = '' OR opponent_banned_deck = '') AND (gamer_banned_deck <> '' OR opponent_banned_deck <> '') AND updated_at <= ?",
				time.Now().Add(-24*time.Hour)).
			Find(&stuck).Error
		if err != nil {
			logger.Error("停滞している交渉の検索に失敗しました", zap.Error(err))
			return
		}
		for _, b := range stuck {
			logger.Warn("BAN交渉が停滞しています",
				zap.Uint("banRequestID", b.ID),
				zap.String("gamer", b.GamerBattleTag),
				zap.String("opponent", b.OpponentBattleTag),
			)
		}
	})

	c.Start()
}
