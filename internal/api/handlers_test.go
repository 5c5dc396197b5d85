package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"insta_syncer/internal/api/mocks"
	"insta_syncer/internal/domain"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	service *mocks.MockSyncService
	db      *mocks.MockPinger
	handler *Handler
	router  *gin.Engine
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockSyncService(s.ctrl)
	s.db = mocks.NewMockPinger(s.ctrl)
	s.handler = NewHandler(s.service, s.db)
	s.router = NewServer(s.handler, slog.New(slog.DiscardHandler))
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerTestSuite) decode(rec *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func (s *HandlerTestSuite) TestHealth() {
	s.db.EXPECT().PingContext(gomock.Any()).Return(nil)
	rec := s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("ok", s.decode(rec)["status"])

	s.db.EXPECT().PingContext(gomock.Any()).Return(errors.New("connection refused"))
	rec = s.do(http.MethodGet, "/health", "")
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *HandlerTestSuite) TestMetrics() {
	rec := s.do(http.MethodGet, "/metrics", "")
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "go_goroutines")
}

func (s *HandlerTestSuite) TestTriggerSync_EmptyBody() {
	s.service.EXPECT().Trigger(gomock.Any(), domain.TriggerRequest{}).Return(&domain.RunSummary{
		Total:     2,
		Succeeded: 2,
		Results:   []domain.AccountResult{},
	}, nil)

	rec := s.do(http.MethodPost, "/api/v1/sync", "")

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("completed", body["outcome"])
	s.Equal("completed: 2/2 accounts succeeded", body["message"])
}

func (s *HandlerTestSuite) TestTriggerSync_ForcedType() {
	s.service.EXPECT().Trigger(gomock.Any(), domain.TriggerRequest{SyncType: domain.CategoryMedia, Force: true}).Return(&domain.RunSummary{
		Total:     3,
		Succeeded: 2,
		Failed:    1,
		Results:   []domain.AccountResult{},
	}, nil)

	rec := s.do(http.MethodPost, "/api/v1/sync", `{"sync_type":"media","force":true}`)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("partial_failure", s.decode(rec)["outcome"])
}

func (s *HandlerTestSuite) TestTriggerSync_Skipped() {
	s.service.EXPECT().Trigger(gomock.Any(), gomock.Any()).Return(&domain.RunSummary{
		Skipped: true,
		Results: []domain.AccountResult{},
	}, domain.ErrScheduleSkip)

	rec := s.do(http.MethodPost, "/api/v1/sync", "{}")

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal("skipped", body["outcome"])
	s.Equal(true, body["summary"].(map[string]any)["skipped"])
}

func (s *HandlerTestSuite) TestTriggerSync_Errors() {
	s.service.EXPECT().Trigger(gomock.Any(), gomock.Any()).Return(nil, domain.ErrInvalidSyncType)
	rec := s.do(http.MethodPost, "/api/v1/sync", `{"sync_type":"weekly"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.service.EXPECT().Trigger(gomock.Any(), gomock.Any()).Return(nil, errors.New("list due accounts: timeout"))
	rec = s.do(http.MethodPost, "/api/v1/sync", "{}")
	s.Equal(http.StatusInternalServerError, rec.Code)

	rec = s.do(http.MethodPost, "/api/v1/sync", "{not json")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestWait_BlocksUntilTriggeredRunReturns() {
	started := make(chan struct{})
	release := make(chan struct{})
	s.service.EXPECT().Trigger(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, domain.TriggerRequest) (*domain.RunSummary, error) {
			close(started)
			<-release
			return &domain.RunSummary{Results: []domain.AccountResult{}}, nil
		},
	)

	served := make(chan int, 1)
	go func() {
		served <- s.do(http.MethodPost, "/api/v1/sync", "{}").Code
	}()
	<-started

	waited := make(chan struct{})
	go func() {
		s.handler.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		s.FailNow("Wait returned while a run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-waited:
	case <-time.After(time.Second):
		s.FailNow("Wait did not return after the run finished")
	}
	s.Equal(http.StatusOK, <-served)
}

func (s *HandlerTestSuite) TestTriggerAccountSync() {
	s.service.EXPECT().TriggerAccount(gomock.Any(), "sync_stories", "acme.studio").Return(&domain.AccountResult{
		Handle:     "acme.studio",
		Strategy:   domain.StrategyStoriesOnly,
		Success:    true,
		Categories: []domain.CategoryResult{{Category: domain.CategoryStories, Status: domain.StatusCompleted}},
	}, nil)

	rec := s.do(http.MethodPost, "/api/v1/sync/account", `{"action":"sync_stories","account_handle":"acme.studio"}`)

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(true, body["success"])
	s.Equal("stories-only", body["strategy"])
}

func (s *HandlerTestSuite) TestTriggerAccountSync_Errors() {
	rec := s.do(http.MethodPost, "/api/v1/sync/account", `{"action":"sync_full"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.service.EXPECT().TriggerAccount(gomock.Any(), "refresh", "acme.studio").Return(nil, domain.ErrInvalidAction)
	rec = s.do(http.MethodPost, "/api/v1/sync/account", `{"action":"refresh","account_handle":"acme.studio"}`)
	s.Equal(http.StatusBadRequest, rec.Code)

	s.service.EXPECT().TriggerAccount(gomock.Any(), "sync_full", "ghost").Return(nil, domain.ErrAccountNotFound)
	rec = s.do(http.MethodPost, "/api/v1/sync/account", `{"action":"sync_full","account_handle":"ghost"}`)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestListAttempts() {
	s.service.EXPECT().RecentAttempts(gomock.Any(), 10).Return([]domain.SyncAttempt{
		{ID: "a1", AccountHandle: "acme.studio", Category: domain.CategoryMedia, Status: domain.StatusCompleted},
	}, nil)

	rec := s.do(http.MethodGet, "/api/v1/sync/logs?limit=10", "")

	s.Equal(http.StatusOK, rec.Code)
	body := s.decode(rec)
	s.Equal(1.0, body["total"])

	rec = s.do(http.MethodGet, "/api/v1/sync/logs?limit=ten", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestListAttempts_DefaultLimit() {
	s.service.EXPECT().RecentAttempts(gomock.Any(), 0).Return([]domain.SyncAttempt{}, nil)

	rec := s.do(http.MethodGet, "/api/v1/sync/logs", "")

	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerTestSuite) TestListOrphanedAttempts() {
	s.service.EXPECT().OrphanedAttempts(gomock.Any(), 2*time.Hour).Return([]domain.SyncAttempt{}, nil)

	rec := s.do(http.MethodGet, "/api/v1/sync/logs/orphaned?older_than=2h", "")
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/sync/logs/orphaned?older_than=-1h", "")
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestConnectAccount() {
	s.service.EXPECT().ConnectAccount(gomock.Any(), "acme.studio").Return(&domain.Account{Handle: "acme.studio", Active: true}, true, nil)
	rec := s.do(http.MethodPost, "/api/v1/accounts", `{"handle":"acme.studio"}`)
	s.Equal(http.StatusCreated, rec.Code)
	s.Equal("acme.studio", s.decode(rec)["handle"])

	s.service.EXPECT().ConnectAccount(gomock.Any(), "acme.studio").Return(&domain.Account{Handle: "acme.studio", Active: true}, false, nil)
	rec = s.do(http.MethodPost, "/api/v1/accounts", `{"handle":"acme.studio"}`)
	s.Equal(http.StatusOK, rec.Code)

	s.service.EXPECT().ConnectAccount(gomock.Any(), "bad handle").Return(nil, false, domain.ErrInvalidHandle)
	rec = s.do(http.MethodPost, "/api/v1/accounts", `{"handle":"bad handle"}`)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestDeactivateAccount() {
	s.service.EXPECT().DeactivateAccount(gomock.Any(), "acme.studio").Return(nil)
	rec := s.do(http.MethodDelete, "/api/v1/accounts/acme.studio", "")
	s.Equal(http.StatusNoContent, rec.Code)

	s.service.EXPECT().DeactivateAccount(gomock.Any(), "ghost").Return(domain.ErrAccountNotFound)
	rec = s.do(http.MethodDelete, "/api/v1/accounts/ghost", "")
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerTestSuite) TestListAccounts() {
	s.service.EXPECT().ListAccounts(gomock.Any()).Return([]domain.Account{{Handle: "a"}, {Handle: "b"}}, nil)

	rec := s.do(http.MethodGet, "/api/v1/accounts", "")

	s.Equal(http.StatusOK, rec.Code)
	s.Equal(2.0, s.decode(rec)["total"])
}
