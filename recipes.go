package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRecipesRequest is the request body for POST /api/recipes/suggest.
type suggestRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
	Diet        string   `json:"diet"`
	Goal        string   `json:"goal"`
	Allergies   string   `json:"allergies"`
}

// recipeSuggestion is one AI-generated recipe. Every recipe must use all of
// the user's ingredients; suggestions violating that are filtered out.
type recipeSuggestion struct {
	Title           string   `json:"title"`
	TimeMin         int      `json:"timeMin"`
	Uses            []string `json:"uses"`
	MissingOptional []string `json:"missingOptional"`
	Steps           []string `json:"steps"`
}

/* ─── Gemini prompt constants ────────────────────────────────────────── */

const recipeSystemPrompt = `Return STRICT JSON ONLY. No markdown. No extra text.

You are a HEALTHY recipe assistant.

HEALTH RULES:
- Healthy only (high protein + high fiber)
- Minimal oil; no deep-fry
- Avoid refined sugar; avoid heavy cream/butter
- Prefer whole grains/legumes/lean protein/vegetables
- Indian-friendly
- Respect diet and allergies strictly

CRITICAL RULES (MANDATORY):
- Return MINIMUM 2 recipes (prefer 3).
- EVERY recipe MUST use ALL user-provided ingredients.

Respond with a JSON object:
{"suggestions":[{"title":"...","timeMin":20,"uses":["..."],"missingOptional":["..."],"steps":["..."]}]}`

const chatSystemPrompt = `You are RoutineForge AI assistant. ` +
	`Help users with daily routine planning, meals, workouts, sleep, habit-building. ` +
	`Keep answers concise, practical, and safe. ` +
	`Do not claim medical diagnosis. Suggest seeing a professional for medical issues.`

/* ─── Gemini HTTP client ─────────────────────────────────────────────── */

// geminiRequest is the request body for the Gemini generateContent API.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

// callGemini sends a generateContent request and returns the text of the
// first candidate. Uses raw net/http to avoid pulling in the Gemini SDK.
func callGemini(ctx context.Context, baseURL string, parts []string) (string, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not set")
	}

	reqParts := make([]geminiPart, len(parts))
	for i, p := range parts {
		reqParts[i] = geminiPart{Text: p}
	}
	bodyBytes, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: reqParts}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := baseURL + "/v1beta/models/gemini-2.5-flash:generateContent?key=" + apiKey
	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract candidates[0].content.parts[0].text
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSONObject strips a markdown code fence or surrounding prose from a
// model reply and returns the first balanced {...} object, or "" if none.
func extractJSONObject(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.Index(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	first := strings.IndexByte(s, '{')
	if first < 0 {
		return ""
	}
	depth := 0
	for i := first; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[first : i+1]
			}
		}
	}
	return ""
}

/* ─── Bounded TTL cache ──────────────────────────────────────────────── */

const (
	recipeCacheTTL        = 30 * time.Minute
	recipeCacheMaxEntries = 256
)

type cacheEntry struct {
	at          time.Time
	suggestions []recipeSuggestion
}

// suggestionCache is a bounded key-value cache with expiry-on-read. It is an
// explicit dependency on the Handler, not a process-global.
type suggestionCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	max     int
	entries map[string]cacheEntry
}

func newSuggestionCache(ttl time.Duration, max int) *suggestionCache {
	return &suggestionCache{ttl: ttl, max: max, entries: make(map[string]cacheEntry)}
}

// get returns the cached suggestions for key, expiring stale entries on read.
func (sc *suggestionCache) get(key string, now time.Time) []recipeSuggestion {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	e, ok := sc.entries[key]
	if !ok {
		return nil
	}
	if now.Sub(e.at) > sc.ttl {
		delete(sc.entries, key)
		return nil
	}
	return e.suggestions
}

// set stores suggestions for key. At capacity, expired entries are dropped
// first; if the cache is still full, the oldest entry is evicted.
func (sc *suggestionCache) set(key string, suggestions []recipeSuggestion, now time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if _, ok := sc.entries[key]; !ok && len(sc.entries) >= sc.max {
		var oldestKey string
		var oldestAt time.Time
		for k, e := range sc.entries {
			if now.Sub(e.at) > sc.ttl {
				delete(sc.entries, k)
				continue
			}
			if oldestKey == "" || e.at.Before(oldestAt) {
				oldestKey, oldestAt = k, e.at
			}
		}
		if len(sc.entries) >= sc.max && oldestKey != "" {
			delete(sc.entries, oldestKey)
		}
	}

	sc.entries[key] = cacheEntry{at: now, suggestions: suggestions}
}

// recipeCacheKey fingerprints a suggestion request. Ingredient order doesn't
// matter, so the list is sorted before joining.
func recipeCacheKey(diet, goal, allergies string, ingredients []string) string {
	ing := make([]string, len(ingredients))
	for i, x := range ingredients {
		ing[i] = strings.ToLower(strings.TrimSpace(x))
	}
	sort.Strings(ing)
	return strings.ToLower(diet + "|" + goal + "|" + allergies + "|" + strings.Join(ing, "|"))
}

/* ─── Enforcement ────────────────────────────────────────────────────── */

// usesAllIngredients reports whether a recipe's "uses" list covers every
// user-provided ingredient, matching loosely in both directions ("paneer"
// matches "paneer cubes").
func usesAllIngredients(uses, ingredients []string) bool {
	normUses := make([]string, len(uses))
	for i, u := range uses {
		normUses[i] = strings.ToLower(strings.TrimSpace(u))
	}
	for _, ing := range ingredients {
		k := strings.ToLower(strings.TrimSpace(ing))
		found := false
		for _, u := range normUses {
			if strings.Contains(u, k) || strings.Contains(k, u) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

/* ─── Handlers ───────────────────────────────────────────────────────── */

// suggestRecipes handles POST /api/recipes/suggest. Accepts a pantry
// ingredient list plus diet/goal/allergy context, asks Gemini for recipes
// that use every ingredient, and caches results by request fingerprint.
func (h *Handler) suggestRecipes(c *gin.Context) {
	var req suggestRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	ingredients := make([]string, 0, len(req.Ingredients))
	for _, ing := range req.Ingredients {
		if s := strings.TrimSpace(ing); s != "" {
			ingredients = append(ingredients, s)
		}
		if len(ingredients) == 30 {
			break
		}
	}
	if len(ingredients) == 0 {
		apiError(c, http.StatusBadRequest, "at least one ingredient is required")
		return
	}

	diet := string(parseDiet(req.Diet))
	goal := string(parseGoal(req.Goal))
	allergies := strings.TrimSpace(req.Allergies)

	key := recipeCacheKey(diet, goal, allergies, ingredients)
	if cached := h.recipes.get(key, h.now()); len(cached) >= 2 {
		c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": cached, "source": "cache"})
		return
	}

	userPrompt := fmt.Sprintf("Ingredients: %s\nDiet: %s\nGoal: %s\nAllergies: %s",
		strings.Join(ingredients, ", "), diet, goal, allergies)

	content, err := callGemini(c.Request.Context(), h.geminiBaseURL,
		[]string{recipeSystemPrompt, userPrompt})
	if err != nil {
		log.Printf("[suggestRecipes] Gemini error: %v", err)
		apiError(c, http.StatusInternalServerError, "recipe request failed")
		return
	}

	jsonText := extractJSONObject(content)
	var parsed struct {
		Suggestions []recipeSuggestion `json:"suggestions"`
	}
	if jsonText == "" || json.Unmarshal([]byte(jsonText), &parsed) != nil {
		log.Printf("[suggestRecipes] Failed to parse Gemini response")
		apiError(c, http.StatusInternalServerError, "recipe request failed")
		return
	}

	suggestions := make([]recipeSuggestion, 0, len(parsed.Suggestions))
	for _, s := range parsed.Suggestions {
		if strings.TrimSpace(s.Title) == "" || len(s.Steps) == 0 {
			continue
		}
		if !usesAllIngredients(s.Uses, ingredients) {
			continue
		}
		if s.TimeMin <= 0 {
			s.TimeMin = 20
		}
		suggestions = append(suggestions, s)
		if len(suggestions) == 6 {
			break
		}
	}
	if len(suggestions) == 0 {
		apiError(c, http.StatusBadGateway, "no usable suggestions")
		return
	}

	h.recipes.set(key, suggestions, h.now())
	c.JSON(http.StatusOK, gin.H{"ok": true, "suggestions": suggestions, "source": "ai"})
}

// listGeminiModels proxies the upstream model list as-is, status included.
// GET /api/gemini/models. Diagnostic endpoint for checking API key validity
// and model availability.
func (h *Handler) listGeminiModels(c *gin.Context) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiError(c, http.StatusInternalServerError, "GEMINI_API_KEY not set")
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), "GET",
		h.geminiBaseURL+"/v1beta/models?key="+url.QueryEscape(apiKey), nil)
	if err != nil {
		apiError(c, http.StatusInternalServerError, "model list request failed")
		return
	}

	client := &http.Client{Timeout: 20 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[listGeminiModels] Gemini error: %v", err)
		apiError(c, http.StatusBadGateway, "model list request failed")
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		apiError(c, http.StatusBadGateway, "model list request failed")
		return
	}

	c.Data(resp.StatusCode, "application/json; charset=utf-8", body)
}

// chat handles POST /api/chat — a thin coaching-assistant proxy.
func (h *Handler) chat(c *gin.Context) {
	var body struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	message := strings.TrimSpace(body.Message)
	if message == "" {
		apiError(c, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := callGemini(c.Request.Context(), h.geminiBaseURL,
		[]string{chatSystemPrompt, "User: " + message})
	if err != nil {
		log.Printf("[chat] Gemini error: %v", err)
		apiError(c, http.StatusInternalServerError, "chat request failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "reply": strings.TrimSpace(reply)})
}
