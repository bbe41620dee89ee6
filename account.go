package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
)

// exportAccount returns the user's full data bundle (account, profile, logs)
// as a single JSON document. GET /api/account/export.
// Profile is null when onboarding was never completed.
func (h *Handler) exportAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	u, err := queryOne[user](h.db, c,
		"SELECT * FROM users WHERE id = @userID", pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}

	var p *profile
	if prof, err := queryOne[profile](h.db, c,
		"SELECT * FROM profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID}); err == nil {
		p = &prof
	}

	logs, err := queryMany[dailyLog](h.db, c,
		"SELECT * FROM daily_logs WHERE user_id = @userID ORDER BY date ASC",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to fetch logs")
		return
	}
	if logs == nil {
		logs = []dailyLog{}
	}

	c.Header("Content-Disposition", `attachment; filename="routineforge-export.json"`)
	c.JSON(http.StatusOK, gin.H{"user": u, "profile": p, "logs": logs})
}

// deleteAccount removes the user and all owned rows. DELETE /api/account.
// Child tables cascade from the users row (see db migrations).
func (h *Handler) deleteAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	result, err := h.db.Exec(c,
		"DELETE FROM users WHERE id = @userID", pgx.NamedArgs{"userID": userID})
	if err != nil {
		apiError(c, http.StatusInternalServerError, "failed to delete account")
		return
	}
	if result.RowsAffected() == 0 {
		apiError(c, http.StatusNotFound, "user not found")
		return
	}

	c.Status(http.StatusNoContent)
}
