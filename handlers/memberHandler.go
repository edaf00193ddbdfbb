package handlers

import (
	"net/http"

	"tavernserver/enroll"
	"tavernserver/hearthstone"
	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MemberEdit は確定済みデッキプールを編集します。
// トーナメントがnew状態の間だけ許可されます。
func MemberEdit(c *gin.Context, svc *enroll.Service, logger *zap.Logger) {
	var req models.MemberEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "validation_error", "error": "リクエストボディが不正です"})
		return
	}

	userID := c.GetUint("userID")
	member, err := svc.EditMember(c.Request.Context(), userID, req.TournamentID, req.Decks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"member": gin.H{
			"tournamentId": member.TournamentID,
			"userId":       member.UserID,
			"decks":        member.Decks(),
			"deckTitles":   hearthstone.Titles(member.Decks()),
		},
	})
}
