package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapterHTTP "github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-mindful-engine/internal/core/services"
)

var now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	router *gin.Engine
	svc    *services.WellnessService
	clock  *fakeClock
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := repository.NewMemoryBlobStore()
	clock := &fakeClock{now: now}
	svc := services.NewWellnessService(
		services.NewDataStore(store, nil),
		services.NewAnalyticsService(time.UTC),
		services.NewNotificationFeed(0),
		clock,
		nil,
	)
	require.NoError(t, svc.Init(context.Background()))

	mgr := services.NewSessionManager(svc, clock, time.Millisecond, nil)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		EntryHandler:     adapterHTTP.NewEntryHandler(svc, nil),
		SessionHandler:   adapterHTTP.NewSessionHandler(mgr, svc, nil),
		StatsHandler:     adapterHTTP.NewStatsHandler(svc, nil),
		ProfileHandler:   adapterHTTP.NewProfileHandler(svc, nil),
		CommunityHandler: adapterHTTP.NewCommunityHandler(svc, nil),
		Store:            store,
		StartTime:        now,
	})
	return &testServer{router: router, svc: svc, clock: clock}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req, _ = http.NewRequest(method, path, nil)
	} else {
		req, _ = http.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func unlockedIDs(t *testing.T, body map[string]any) []string {
	t.Helper()
	var ids []string
	list, _ := body["unlocked"].([]any)
	for _, a := range list {
		ids = append(ids, a.(map[string]any)["id"].(string))
	}
	return ids
}

func TestHealth(t *testing.T) {
	s := setupRouter(t)

	w := s.do("GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "connected", body["storage"])
	assert.Equal(t, "disabled", body["redis"])
}

func TestSwaggerDoc(t *testing.T) {
	s := setupRouter(t)

	w := s.do("GET", "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/moods"`)
	assert.Contains(t, w.Body.String(), "MindfulMe API")
}

func TestMoodRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("Success: 201 Created with first achievement", func(t *testing.T) {
		w := s.do("POST", "/api/v1/moods", `{"emotion":{"name":"Grateful"},"intensity":3,"factors":["Sleep"],"note":"good day"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		body := decode(t, w)
		item := body["item"].(map[string]any)
		assert.Equal(t, "Joy", item["emotion"].(map[string]any)["name"])
		assert.Contains(t, unlockedIDs(t, body), domain.AchFirstMood)
		assert.Len(t, body["suggestions"], 1)
		assert.Nil(t, body["warning"])
	})

	tests := []struct {
		name string
		body string
	}{
		{"Error: 400 Nothing selected", `{"intensity":3}`},
		{"Error: 400 Intensity out of range", `{"value":3,"intensity":11}`},
		{"Error: 400 Unknown emotion", `{"emotion":{"name":"Boredom"}}`},
		{"Error: 400 Malformed JSON", `{"value":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do("POST", "/api/v1/moods", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	t.Run("List returns saved moods", func(t *testing.T) {
		w := s.do("GET", "/api/v1/moods?limit=10", "")
		require.Equal(t, http.StatusOK, w.Code)

		var list []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("Error: 400 Bad limit", func(t *testing.T) {
		w := s.do("GET", "/api/v1/moods?limit=-1", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestJournalAndSleepRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("Error: 400 Empty journal", func(t *testing.T) {
		w := s.do("POST", "/api/v1/journals", `{"content":"   "}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success: Journal gets themes and sentiment", func(t *testing.T) {
		w := s.do("POST", "/api/v1/journals", `{"content":"I am so grateful for my family and my work today"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		item := decode(t, w)["item"].(map[string]any)
		assert.Contains(t, item["themes"], "Gratitude")
		assert.NotNil(t, item["sentiment"])
	})

	t.Run("Error: 400 Missing wake time", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sleep", `{"bedtime":"23:00"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Success: Sleep logged", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sleep", `{"bedtime":"23:00","wakeTime":"07:00","quality":"good"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		item := decode(t, w)["item"].(map[string]any)
		assert.Equal(t, 8.0, item["duration"])
	})
}

func TestSessionRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("Catalog lists both kinds", func(t *testing.T) {
		body := decode(t, s.do("GET", "/api/v1/sessions/catalog", ""))
		assert.NotEmpty(t, body["breathing"])
		assert.NotEmpty(t, body["meditations"])
	})

	t.Run("Error: 400 Unknown kind", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sessions", `{"kind":"yoga","type":"coherent"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Error: 404 Unknown exercise", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sessions", `{"kind":"breathing","type":"box"}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Breathing session lifecycle", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sessions", `{"kind":"breathing","type":"coherent"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = s.do("POST", "/api/v1/sessions", `{"kind":"meditation","type":"calm-waters"}`)
		assert.Equal(t, http.StatusConflict, w.Code)

		s.clock.Advance(20 * time.Second)
		w = s.do("POST", "/api/v1/sessions/pause", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "paused", decode(t, w)["state"])

		w = s.do("POST", "/api/v1/sessions/pause", "")
		assert.Equal(t, http.StatusConflict, w.Code)

		w = s.do("POST", "/api/v1/sessions/resume", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do("GET", "/api/v1/sessions/current", "")
		active := decode(t, w)["active"].(map[string]any)
		assert.Equal(t, "running", active["state"])

		w = s.do("POST", "/api/v1/sessions/stop", "")
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do("POST", "/api/v1/sessions/stop", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Completed session shows up in history", func(t *testing.T) {
		w := s.do("POST", "/api/v1/sessions", `{"kind":"meditation","type":"calm-waters"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do("POST", "/api/v1/sessions/pause", "")
		assert.Equal(t, http.StatusConflict, w.Code)

		s.clock.Advance(11 * time.Minute)
		state := decode(t, s.do("GET", "/api/v1/sessions/current", ""))
		assert.Nil(t, state["active"])
		assert.NotNil(t, state["lastCompleted"])

		history := decode(t, s.do("GET", "/api/v1/sessions/history", ""))
		assert.Len(t, history["meditation"], 1)
		assert.Len(t, history["breathing"], 0)
	})
}

func TestStatsRoutes(t *testing.T) {
	s := setupRouter(t)
	s.do("POST", "/api/v1/moods", `{"value":4,"intensity":2,"factors":["Sleep","Work"]}`)

	t.Run("Score", func(t *testing.T) {
		body := decode(t, s.do("GET", "/api/v1/analytics/score", ""))
		assert.GreaterOrEqual(t, body["total"], 50.0)
	})

	t.Run("Patterns default to the week", func(t *testing.T) {
		body := decode(t, s.do("GET", "/api/v1/analytics/patterns", ""))
		assert.Equal(t, "week", body["period"])
		assert.Len(t, body["labels"], 7)
	})

	t.Run("Error: 400 Unknown period", func(t *testing.T) {
		w := s.do("GET", "/api/v1/analytics/patterns?period=decade", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Correlations for requested factors", func(t *testing.T) {
		body := decode(t, s.do("GET", "/api/v1/analytics/correlations?factors=Sleep,%20Work", ""))
		assert.Equal(t, []any{"Sleep", "Work"}, body["factors"])
	})

	t.Run("Predictions", func(t *testing.T) {
		w := s.do("GET", "/api/v1/analytics/predictions", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Reports", func(t *testing.T) {
		for _, kind := range []string{"monthly", "patterns", "progress"} {
			w := s.do("GET", "/api/v1/analytics/reports/"+kind, "")
			assert.Equal(t, http.StatusOK, w.Code, kind)
			assert.Equal(t, kind, decode(t, w)["type"])
		}

		w := s.do("GET", "/api/v1/analytics/reports/yearly", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Views count towards insightfulUser", func(t *testing.T) {
		var last map[string]any
		for i := 0; i < 10; i++ {
			last = decode(t, s.do("POST", "/api/v1/analytics/views", ""))
		}
		assert.Contains(t, unlockedIDs(t, last), domain.AchInsightfulUser)
	})
}

func TestProfileRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("Dashboard", func(t *testing.T) {
		body := decode(t, s.do("GET", "/api/v1/dashboard", ""))
		assert.Equal(t, 1.0, body["streak"])
		assert.Equal(t, 1.0, body["level"])
	})

	t.Run("Achievements in catalog order", func(t *testing.T) {
		var list []map[string]any
		require.NoError(t, json.Unmarshal(s.do("GET", "/api/v1/achievements", "").Body.Bytes(), &list))
		require.Len(t, list, 18)
		assert.Equal(t, domain.AchFirstMood, list[0]["id"])
	})

	t.Run("Error: 400 Invalid theme", func(t *testing.T) {
		w := s.do("PUT", "/api/v1/preferences", `{"theme":"neon"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Partial update keeps the other preferences", func(t *testing.T) {
		w := s.do("PUT", "/api/v1/preferences", `{"theme":"light"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		body := decode(t, s.do("GET", "/api/v1/preferences", ""))
		assert.Equal(t, "light", body["theme"])
		assert.Equal(t, "09:00", body["reminderTime"])
	})

	t.Run("Notifications prompt a check-in and can be cleared", func(t *testing.T) {
		var list []map[string]any
		require.NoError(t, json.Unmarshal(s.do("GET", "/api/v1/notifications", "").Body.Bytes(), &list))
		require.NotEmpty(t, list)
		assert.Equal(t, domain.NotificationMoodCheckIn, list[0]["kind"])

		w := s.do("DELETE", "/api/v1/notifications", "")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestExportImportRoutes(t *testing.T) {
	s := setupRouter(t)
	s.do("POST", "/api/v1/moods", `{"value":3,"intensity":2}`)

	w := s.do("GET", "/api/v1/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "mindfulme_pro_data_2026-10-19.json")
	exported := w.Body.Bytes()

	t.Run("Raw JSON body", func(t *testing.T) {
		fresh := setupRouter(t)
		w := fresh.do("POST", "/api/v1/import", string(exported))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, 1.0, decode(t, w)["item"].(map[string]any)["moods"])
	})

	t.Run("Multipart upload", func(t *testing.T) {
		fresh := setupRouter(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "backup.json")
		require.NoError(t, err)
		_, _ = fw.Write(exported)
		require.NoError(t, mw.Close())

		req, _ := http.NewRequest("POST", "/api/v1/import", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		fresh.router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		snap, err := fresh.svc.Snapshot()
		require.NoError(t, err)
		assert.Len(t, snap.Moods, 1)
	})

	t.Run("Error: 400 Not an export", func(t *testing.T) {
		w := s.do("POST", "/api/v1/import", `{"hello":"world"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCommunityRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("Error: 400 Empty post", func(t *testing.T) {
		w := s.do("POST", "/api/v1/community", `{"content":""}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Post is listed", func(t *testing.T) {
		w := s.do("POST", "/api/v1/community", `{"content":"Small steps count"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var list []map[string]any
		require.NoError(t, json.Unmarshal(s.do("GET", "/api/v1/community", "").Body.Bytes(), &list))
		assert.Len(t, list, 1)
	})

	t.Run("Chat replies to anxiety", func(t *testing.T) {
		w := s.do("POST", "/api/v1/chat", `{"message":"I feel anxious about tomorrow"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		item := decode(t, w)["item"].(map[string]any)
		assert.Contains(t, item["ai"], "feeling anxious")
	})

	t.Run("Error: 400 Invalid therapist email", func(t *testing.T) {
		w := s.do("POST", "/api/v1/share", `{"email":"not-an-email"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Share recorded", func(t *testing.T) {
		w := s.do("POST", "/api/v1/share", `{"email":"Dr.Rossi@Clinic.example"}`)
		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "dr.rossi@clinic.example", decode(t, w)["item"].(map[string]any)["email"])
	})
}
