package handlers

import (
	"net/http"

	"tavernserver/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// OversightWS は管理ダッシュボードのWebSocket接続を監督ハブに登録します。
// 結果報告の通知はこの接続へブロードキャストされます。
func OversightWS(c *gin.Context, hub *notify.OversightHub, logger *zap.Logger) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	hub.Add(conn)

	// 切断検知のための読み取りループ。ダッシュボードからの入力は使いません。
	go func() {
		defer hub.Remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
