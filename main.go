package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"tavernserver/bot"      // Telegramボットのアダプター
	"tavernserver/database" // PostgreSQLとRedisの初期化
	"tavernserver/enroll"   // 参加登録のステートマシン
	"tavernserver/handlers" // HTTPリクエストの処理
	"tavernserver/middlewares"
	"tavernserver/models"
	"tavernserver/negotiation" // BAN交渉のステートマシン
	"tavernserver/notify"      // Telegram通知と監督チャンネル
	"tavernserver/repository"  // gormによる永続化コラボレーター
	"tavernserver/utils"       // ロガーの初期化とCronジョブ

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"gorm.io/gorm"
)

func main() {
	var logger *zap.Logger
	var err error
	logger, err = utils.InitLogger() // ロガーの初期化
	if err != nil {
		panic(err) // 失敗した場合はプログラム停止
	}
	defer logger.Sync() // ロガーのクリーンアップ

	// 非同期でPostgreSQLとRedisの初期化
	var db *gorm.DB
	var rdb *redis.Client
	done := make(chan bool)

	go func() {
		config, err := database.LoadConfig("config.json")
		if err != nil {
			logger.Fatal("設定ファイルの読み込みに失敗しました", zap.Error(err))
		}
		db, err = database.InitPostgreSQL(config, logger)
		if err != nil {
			logger.Fatal("PostgreSQLの初期化に失敗しました", zap.Error(err))
		}
		done <- true
	}()

	go func() {
		rdb, err = database.InitRedis(logger)
		if err != nil {
			logger.Fatal("Failed to initialize Redis", zap.Error(err))
		}
		done <- true
	}()

	// 2つの初期化が完了するのを待つ
	<-done
	<-done

	// テーブルのマイグレーション
	if err := db.AutoMigrate(&models.User{}, &models.Tournament{}, &models.Member{}, &models.BanRequest{}); err != nil {
		logger.Fatal("マイグレーションに失敗しました", zap.Error(err))
	}

	// Telegramボットの初期化（トークン未設定なら通知なしで起動）
	var api *tgbotapi.BotAPI
	if token := os.Getenv("TELEGRAM_APITOKEN"); token != "" {
		api, err = tgbotapi.NewBotAPI(token)
		if err != nil {
			logger.Fatal("Telegramボットの初期化に失敗しました", zap.Error(err))
		}
	} else {
		logger.Warn("TELEGRAM_APITOKENが未設定のため、通知なしで起動します")
	}
	telegram := notify.NewTelegram(api, logger)

	// 監督チャンネル（結果報告の通知先）
	oversightChatID, _ := strconv.ParseInt(os.Getenv("OVERSIGHT_CHAT_ID"), 10, 64)
	hub := notify.NewOversightHub(telegram, oversightChatID, logger)

	// サービスの組み立て
	repo := repository.NewGorm(db)
	store := enroll.NewRedisStore(rdb, logger)
	enrollSvc := enroll.NewService(repo, store, logger)
	negotiationSvc := negotiation.NewService(repo, telegram, hub, logger)

	ctx := context.Background()
	if api != nil {
		go bot.New(api, enrollSvc, repo, logger).Run(ctx)
	}

	// クーロンスケジューラのセットアップと呼び出し
	go utils.CronCleaner(db, rdb, logger)

	router := gin.Default()
	//リクエストロガーを起動
	router.Use(gin.Recovery(), utils.RequestLogger(logger))

	//CORS（Cross-Origin Resource Sharing）ポリシーを設定
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://192.168.1.1:8080"}, //ここにデプロイサーバーのIPアドレスを設定
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	//各HTTPリクエストのルーティング
	router.POST("/user/register", func(c *gin.Context) {
		handlers.Register(c, db, logger)
	})
	router.POST("/user/login", func(c *gin.Context) {
		handlers.Login(c, db, logger)
	})

	authed := router.Group("/", middlewares.AuthRequired(logger))
	{
		authed.GET("/user/profile", func(c *gin.Context) {
			handlers.Profile(c, db, logger)
		})
		authed.GET("/user/list", func(c *gin.Context) {
			handlers.UserList(c, db, logger)
		})
		authed.GET("/user/search/:term", func(c *gin.Context) {
			handlers.UserSearch(c, db, logger)
		})

		authed.POST("/tournament/add", func(c *gin.Context) {
			handlers.TournamentAdd(c, db, logger)
		})
		authed.GET("/tournament/list", func(c *gin.Context) {
			handlers.TournamentList(c, db, logger)
		})
		authed.GET("/tournament/:id", func(c *gin.Context) {
			handlers.TournamentGet(c, db, logger)
		})
		authed.POST("/tournament/:id/edit", func(c *gin.Context) {
			handlers.TournamentEdit(c, db, logger)
		})

		authed.POST("/enroll/start", func(c *gin.Context) {
			handlers.EnrollStart(c, enrollSvc, logger)
		})
		authed.POST("/enroll/deck", func(c *gin.Context) {
			handlers.EnrollDeck(c, enrollSvc, logger)
		})
		authed.POST("/enroll/cancel", func(c *gin.Context) {
			handlers.EnrollCancel(c, enrollSvc, logger)
		})
		authed.POST("/member/edit", func(c *gin.Context) {
			handlers.MemberEdit(c, enrollSvc, logger)
		})

		authed.POST("/negotiation/create", func(c *gin.Context) {
			handlers.NegotiationCreate(c, negotiationSvc, logger)
		})
		authed.POST("/negotiation/:id/ban", func(c *gin.Context) {
			handlers.NegotiationBan(c, negotiationSvc, logger)
		})
		authed.POST("/negotiation/:id/result", func(c *gin.Context) {
			handlers.NegotiationResult(c, negotiationSvc, logger)
		})
		authed.GET("/negotiation/list", func(c *gin.Context) {
			handlers.NegotiationList(c, negotiationSvc, logger)
		})
	}

	admin := router.Group("/", middlewares.AuthRequired(logger), middlewares.AdminRequired())
	{
		admin.DELETE("/user/:id", func(c *gin.Context) {
			handlers.UserDelete(c, db, logger)
		})
		admin.DELETE("/tournament/:id", func(c *gin.Context) {
			handlers.TournamentDelete(c, db, logger)
		})
		admin.GET("/ws/oversight", func(c *gin.Context) {
			handlers.OversightWS(c, hub, logger)
		})
	}

	// テスト時はHTTPサーバーとして運用。デフォルトポートは ":8080"
	router.Run()
}
