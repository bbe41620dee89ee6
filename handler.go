package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Handler holds shared dependencies (db pool, clock, AI config) for all
// route handlers. now is injectable so plan generation is deterministic
// under test — every handler reads the clock exactly once per request.
type Handler struct {
	db            *pgxpool.Pool
	geminiBaseURL string // Base URL for the Gemini API (overridable for tests)
	now           func() time.Time
	recipes       *suggestionCache
}

func newHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{
		db:            pool,
		geminiBaseURL: "https://generativelanguage.googleapis.com",
		now:           time.Now,
		recipes:       newSuggestionCache(recipeCacheTTL, recipeCacheMaxEntries),
	}
}

/* ─── Database helpers ────────────────────────────────────────────────── */

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Logs query and scan errors for debugging (e.g. struct/column mismatches).
func queryOne[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryOne] Query error: %v", err)
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryOne] Scan error: %v", err)
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](pool *pgxpool.Pool, c *gin.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := pool.Query(c, sql, args)
	if err != nil {
		log.Printf("[queryMany] Query error: %v", err)
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		log.Printf("[queryMany] Scan error: %v", err)
	}
	return results, err
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

/* ─── Server setup ────────────────────────────────────────────────────── */

// getDBPool creates a connection pool. We use a pool (not a single conn)
// because managed Postgres providers close idle connections after a few
// minutes.
func getDBPool() *pgxpool.Pool {
	config, err := pgxpool.ParseConfig(os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to parse DB URL: %v\n", err)
		os.Exit(1)
	}
	// Use simple query protocol to avoid "cached plan must not change result type"
	// errors from server-side prepared statement caches after schema changes.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("DB pool ready!")
	return pool
}

// getHealth reports DB connectivity. GET /api/health (public).
func (h *Handler) getHealth(c *gin.Context) {
	if err := h.db.Ping(c); err != nil {
		apiError(c, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.GET("/api/health", h.getHealth)
	router.POST("/api/signup", h.signup)
	router.POST("/api/login", h.login)
	router.POST("/api/auth/forgot-password", h.forgotPassword)
	router.POST("/api/auth/reset-password", h.resetPassword)

	// Authenticated routes
	api := router.Group("/api", h.authMiddleware())
	api.GET("/user/status", h.getUserStatus)
	api.GET("/profile", h.getProfile)
	api.POST("/profile", h.upsertProfile)
	api.PATCH("/settings", h.patchSettings)
	api.GET("/plan", h.getPlan)
	api.GET("/log", h.getDailyLog)
	api.POST("/log", h.upsertDailyLog)
	api.GET("/reports", h.getReports)
	api.POST("/recipes/suggest", h.suggestRecipes)
	api.POST("/chat", h.chat)
	api.GET("/gemini/models", h.listGeminiModels)
	api.GET("/account/export", h.exportAccount)
	api.DELETE("/account", h.deleteAccount)
}
