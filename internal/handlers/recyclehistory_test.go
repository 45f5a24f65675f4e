package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/clients/analyzer"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/requestdata"
	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type fakeHistoryService struct{}

func (f *fakeHistoryService) List(ctx context.Context, filter repos.HistoryFilter, limit, offset int) ([]*types.RecycleHistory, int64, error) {
	return nil, 0, nil
}

type fakeSubmissionService struct {
	result  *services.SubmitResult
	err     error
	gotUser uuid.UUID
	gotIn   services.SubmitInput
	calls   int
}

func (f *fakeSubmissionService) Submit(ctx context.Context, userID uuid.UUID, in services.SubmitInput) (*services.SubmitResult, error) {
	f.calls++
	f.gotUser = userID
	f.gotIn = in
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newSubmitRouter(t *testing.T, submission *fakeSubmissionService, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewRecycleHistoryHandler(log, &fakeHistoryService{}, submission)

	router := gin.New()
	router.POST("/api/recycle-histories/submit", func(c *gin.Context) {
		if userID != uuid.Nil {
			ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{UserID: userID, Role: "member"})
			c.Request = c.Request.WithContext(ctx)
		}
		h.Submit(c)
	})
	return router
}

func postSubmit(router *gin.Engine, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, "/api/recycle-histories/submit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestSubmitHappyPath(t *testing.T) {
	userID := uuid.New()
	binID := uuid.New()
	rule := &types.RewardRule{ID: uuid.New(), Unit: 5, Point: 10, UnitType: "piece"}
	bin := &types.Bin{
		ID:       binID,
		Status:   types.BinStatusActive,
		Material: &types.Material{ID: uuid.New(), Name: "Plastic", RewardRule: rule},
		Store:    &types.Store{ID: uuid.New(), Name: "Downtown Mart"},
	}
	submission := &fakeSubmissionService{
		result: &services.SubmitResult{
			History: &types.RecycleHistory{
				ID:         uuid.New(),
				UserID:     userID,
				BinID:      binID,
				Points:     24,
				TotalCount: 12,
				MediaURL:   "https://media.example.com/recycle_abc",
			},
			Bin: bin,
		},
	}
	router := newSubmitRouter(t, submission, userID)

	w := postSubmit(router, gin.H{
		"binId":      binID.String(),
		"totalCount": 12,
		"mediaUrl":   "https://photos.example.com/a.jpg",
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("status: want=201 got=%d body=%s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Submission accepted" {
		t.Errorf("message: got %v", body["message"])
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("data missing: %v", body)
	}
	if data["pointsEarned"] != float64(24) {
		t.Errorf("pointsEarned: want=24 got=%v", data["pointsEarned"])
	}
	if data["totalCount"] != float64(12) {
		t.Errorf("totalCount: want=12 got=%v", data["totalCount"])
	}
	if data["mediaUrl"] != "https://media.example.com/recycle_abc" {
		t.Errorf("mediaUrl: got %v", data["mediaUrl"])
	}
	if submission.gotUser != userID {
		t.Errorf("user passed to service: want=%s got=%s", userID, submission.gotUser)
	}
	if submission.gotIn.BinID != binID || submission.gotIn.TotalCount != 12 {
		t.Errorf("input passed to service: %+v", submission.gotIn)
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name      string
		body      gin.H
		wantField string
	}{
		{"bad bin id", gin.H{"binId": "nope", "totalCount": 1, "mediaUrl": "https://x.example.com/a.jpg"}, "binId"},
		{"zero count", gin.H{"binId": uuid.New().String(), "totalCount": 0, "mediaUrl": "https://x.example.com/a.jpg"}, "totalCount"},
		{"negative count", gin.H{"binId": uuid.New().String(), "totalCount": -2, "mediaUrl": "https://x.example.com/a.jpg"}, "totalCount"},
		{"bad media url", gin.H{"binId": uuid.New().String(), "totalCount": 1, "mediaUrl": "not a url"}, "mediaUrl"},
		{"missing media url", gin.H{"binId": uuid.New().String(), "totalCount": 1}, "mediaUrl"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := &fakeSubmissionService{}
			router := newSubmitRouter(t, submission, uuid.New())

			w := postSubmit(router, tc.body)

			if w.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status: want=422 got=%d body=%s", w.Code, w.Body.String())
			}
			body := decodeBody(t, w)
			if body["error"] != "Validation failed" {
				t.Errorf("error: got %v", body["error"])
			}
			details, ok := body["details"].(map[string]any)
			if !ok {
				t.Fatalf("details missing: %v", body)
			}
			if _, ok := details[tc.wantField]; !ok {
				t.Errorf("details should name %q, got %v", tc.wantField, details)
			}
			if submission.calls != 0 {
				t.Errorf("service must not be called on validation failure")
			}
		})
	}
}

func TestSubmitUnauthorized(t *testing.T) {
	submission := &fakeSubmissionService{}
	router := newSubmitRouter(t, submission, uuid.Nil)

	w := postSubmit(router, gin.H{
		"binId":      uuid.New().String(),
		"totalCount": 1,
		"mediaUrl":   "https://x.example.com/a.jpg",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=401 got=%d", w.Code)
	}
	if submission.calls != 0 {
		t.Errorf("service must not be called without a user")
	}
}

func TestSubmitErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   map[string]any
	}{
		{
			name:       "bin not found",
			err:        services.ErrBinNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   map[string]any{"error": "Bin not found"},
		},
		{
			name:       "bin not active",
			err:        services.ErrBinNotActive,
			wantStatus: http.StatusBadRequest,
			wantBody:   map[string]any{"error": "Bin is not active"},
		},
		{
			name: "analyzer rejection",
			err: &services.SubmissionError{
				Status:    http.StatusBadRequest,
				ErrorType: analyzer.ReasonLowConfidence,
				Message:   "Could not verify the items. Please adjust the photo and try again.",
			},
			wantStatus: http.StatusBadRequest,
			wantBody: map[string]any{
				"errorType":    "low_confidence",
				"errorMessage": "Could not verify the items. Please adjust the photo and try again.",
			},
		},
		{
			name:       "internal error",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   map[string]any{"error": "Internal Server Error"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			submission := &fakeSubmissionService{err: tc.err}
			router := newSubmitRouter(t, submission, uuid.New())

			w := postSubmit(router, gin.H{
				"binId":      uuid.New().String(),
				"totalCount": 3,
				"mediaUrl":   "https://photos.example.com/a.jpg",
			})

			if w.Code != tc.wantStatus {
				t.Fatalf("status: want=%d got=%d body=%s", tc.wantStatus, w.Code, w.Body.String())
			}
			body := decodeBody(t, w)
			for k, want := range tc.wantBody {
				if body[k] != want {
					t.Errorf("body[%q]: want=%v got=%v", k, want, body[k])
				}
			}
		})
	}
}
