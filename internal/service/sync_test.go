package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"insta_syncer/internal/config"
	"insta_syncer/internal/domain"
	"insta_syncer/internal/service/mocks"
	"insta_syncer/internal/source/instagram"
	"insta_syncer/testdata/utils"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	source    *mocks.MockSource
	accounts  *mocks.MockAccountStore
	media     *mocks.MockMediaStore
	stories   *mocks.MockStoryStore
	snapshots *mocks.MockSnapshotStore
	syncLog   *mocks.MockSyncLogStore
	txManager *mocks.MockTransactionManager
	publisher *mocks.MockPublisher
	gate      *mocks.MockGate

	service *SyncService
	cfg     config.SyncConfig
	logger  *slog.Logger
	now     time.Time
	sleeps  []time.Duration
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.source = mocks.NewMockSource(s.ctrl)
	s.accounts = mocks.NewMockAccountStore(s.ctrl)
	s.media = mocks.NewMockMediaStore(s.ctrl)
	s.stories = mocks.NewMockStoryStore(s.ctrl)
	s.snapshots = mocks.NewMockSnapshotStore(s.ctrl)
	s.syncLog = mocks.NewMockSyncLogStore(s.ctrl)
	s.txManager = mocks.NewMockTransactionManager(s.ctrl)
	s.publisher = mocks.NewMockPublisher(s.ctrl)
	s.gate = mocks.NewMockGate(s.ctrl)

	s.cfg = config.SyncConfig{
		BatchSize:  5,
		BatchDelay: 2 * time.Second,
		RecordRuns: utils.Ptr(false),
	}
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.now = time.Date(2026, 3, 10, 8, 1, 0, 0, time.UTC)
	s.sleeps = nil

	s.service = s.newService(s.cfg)
}

func (s *SyncServiceTestSuite) newService(cfg config.SyncConfig) *SyncService {
	svc := NewSyncService(
		s.source,
		Stores{
			Accounts:  s.accounts,
			Media:     s.media,
			Stories:   s.stories,
			Snapshots: s.snapshots,
			SyncLog:   s.syncLog,
		},
		s.txManager,
		s.publisher,
		s.gate,
		s.logger,
		cfg,
	)
	svc.now = func() time.Time { return s.now }
	svc.sleep = func(_ context.Context, d time.Duration) error {
		s.sleeps = append(s.sleeps, d)
		return nil
	}
	return svc
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

// attemptLog is an in-memory view of the sync_attempts table fed by the
// SyncLogStore mock. Like a database driver, the mock rejects writes on a
// done context.
type attemptLog struct {
	mu       sync.Mutex
	attempts map[string]*domain.SyncAttempt
	order    []string
}

func (l *attemptLog) all() []domain.SyncAttempt {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.SyncAttempt, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, *l.attempts[id])
	}
	return out
}

func (l *attemptLog) byHandle(handle string) []domain.SyncAttempt {
	var out []domain.SyncAttempt
	for _, a := range l.all() {
		if a.AccountHandle == handle {
			out = append(out, a)
		}
	}
	return out
}

func (s *SyncServiceTestSuite) trackAttempts() *attemptLog {
	log := &attemptLog{attempts: map[string]*domain.SyncAttempt{}}

	s.syncLog.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, a *domain.SyncAttempt) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.mu.Lock()
			defer log.mu.Unlock()
			cp := *a
			log.attempts[a.ID] = &cp
			log.order = append(log.order, a.ID)
			return nil
		},
	).AnyTimes()

	s.syncLog.EXPECT().Finish(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, id string, out domain.Outcome, at time.Time) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			log.mu.Lock()
			defer log.mu.Unlock()
			a, ok := log.attempts[id]
			if !ok || a.Status != domain.StatusRunning {
				return domain.ErrAttemptFinished
			}
			a.Status = out.Status
			a.RecordsProcessed = out.RecordsProcessed
			a.RecordsCreated = out.RecordsCreated
			a.RecordsUpdated = out.RecordsUpdated
			a.RecordsFailed = out.RecordsFailed
			a.APICalls = out.APICalls
			a.CompletedAt = &at
			if out.Error != "" {
				msg := out.Error
				a.ErrorMessage = &msg
			}
			return nil
		},
	).AnyTimes()

	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	return log
}

func (s *SyncServiceTestSuite) passthroughTx() {
	s.txManager.EXPECT().WithTransaction(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	).AnyTimes()
}

func profilePayload(handle string) *instagram.ProfilePayload {
	return &instagram.ProfilePayload{
		ID:             utils.Ptr("1784"),
		Username:       utils.Ptr(handle),
		FullName:       "Acme Studio",
		FollowersCount: utils.Ptr(int64(1200)),
		FollowsCount:   utils.Ptr(int64(80)),
		MediaCount:     utils.Ptr(int64(42)),
	}
}

func mediaPayload(id string) instagram.MediaPayload {
	return instagram.MediaPayload{
		ID:        utils.Ptr(id),
		MediaType: "IMAGE",
		Timestamp: utils.Ptr("2026-03-09T10:00:00Z"),
		LikeCount: utils.Ptr(int64(10)),
		ViewCount: utils.Ptr(int64(100)),
	}
}

func storyPayload(id string) instagram.StoryPayload {
	return instagram.StoryPayload{
		ID:        utils.Ptr(id),
		MediaType: "IMAGE",
		Timestamp: utils.Ptr("2026-03-10T06:00:00Z"),
	}
}

func accountsNamed(n int) []domain.Account {
	accounts := make([]domain.Account, n)
	for i := range accounts {
		accounts[i] = domain.Account{ID: int64(i + 1), Handle: fmt.Sprintf("acct%d", i+1), Active: true}
	}
	return accounts
}

func (s *SyncServiceTestSuite) TestSyncAccount_FullStrategy() {
	ctx := context.Background()
	log := s.trackAttempts()
	s.passthroughTx()

	account := domain.Account{Handle: "acme.studio", Active: true}

	s.source.EXPECT().FetchProfile(ctx, "acme.studio").Return(profilePayload("acme.studio"), nil)
	s.accounts.EXPECT().UpsertProfile(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Profile) (bool, error) {
			s.Equal("acme.studio", p.Handle)
			s.Equal(int64(1200), p.FollowersCount)
			return false, nil
		},
	)
	s.snapshots.EXPECT().Record(ctx, &domain.AccountSnapshot{
		Handle:         "acme.studio",
		SnapshotDate:   time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		FollowersCount: 1200,
		FollowingCount: 80,
		MediaCount:     42,
	}).Return(nil)
	s.accounts.EXPECT().MarkSynced(ctx, "acme.studio", s.now).Return(nil)

	s.source.EXPECT().FetchMedia(ctx, "acme.studio").Return([]instagram.MediaPayload{mediaPayload("m1"), mediaPayload("m2")}, nil)
	s.media.EXPECT().Upsert(ctx, gomock.Any()).Return(true, nil)
	s.media.EXPECT().Upsert(ctx, gomock.Any()).Return(false, nil)

	s.source.EXPECT().FetchStories(ctx, "acme.studio").Return([]instagram.StoryPayload{storyPayload("s1")}, nil)
	s.stories.EXPECT().Upsert(ctx, gomock.Any()).Return(true, nil)

	result := s.service.SyncAccount(ctx, account, domain.StrategyFull)

	s.True(result.Success)
	s.Empty(result.Error)
	s.Require().Len(result.Categories, 3)
	s.Equal(domain.CategoryProfile, result.Categories[0].Category)
	s.Equal(1, result.Categories[0].Updated)
	s.Equal(domain.CategoryMedia, result.Categories[1].Category)
	s.Equal(2, result.Categories[1].Processed)
	s.Equal(1, result.Categories[1].Created)
	s.Equal(1, result.Categories[1].Updated)
	s.Equal(domain.CategoryStories, result.Categories[2].Category)
	s.Equal(1, result.Categories[2].Created)

	attempts := log.all()
	s.Require().Len(attempts, 3)
	for _, a := range attempts {
		s.Equal(domain.StatusCompleted, a.Status)
		s.Equal(1, a.APICalls)
		s.NotNil(a.CompletedAt)
		s.Nil(a.ErrorMessage)
	}
}

func (s *SyncServiceTestSuite) TestSyncAccount_TransportErrorEndsPipeline() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.source.EXPECT().FetchProfile(ctx, "acme.studio").Return(nil, &domain.TransportError{
		Category:   domain.CategoryProfile,
		Handle:     "acme.studio",
		StatusCode: 503,
		Err:        errors.New("service unavailable"),
	})

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyFull)

	s.False(result.Success)
	s.Contains(result.Error, "status 503")
	s.Len(result.Categories, 1)

	attempts := log.all()
	s.Require().Len(attempts, 1)
	s.Equal(domain.StatusFailed, attempts[0].Status)
	s.Equal(0, attempts[0].RecordsProcessed)
	s.Require().NotNil(attempts[0].ErrorMessage)
	s.Contains(*attempts[0].ErrorMessage, "service unavailable")
}

func (s *SyncServiceTestSuite) TestSyncAccount_ProfileTransactionFailure() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.source.EXPECT().FetchProfile(ctx, "acme.studio").Return(profilePayload("acme.studio"), nil)
	s.txManager.EXPECT().WithTransaction(ctx, gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	)
	s.accounts.EXPECT().UpsertProfile(ctx, gomock.Any()).Return(true, nil)
	s.snapshots.EXPECT().Record(ctx, gomock.Any()).Return(errors.New("disk full"))

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyProfileOnly)

	s.False(result.Success)
	s.Contains(result.Error, "record snapshot")

	attempts := log.all()
	s.Require().Len(attempts, 1)
	s.Equal(domain.StatusFailed, attempts[0].Status)
	s.Equal(1, attempts[0].RecordsFailed)
}

func (s *SyncServiceTestSuite) TestSyncAccount_MalformedRecordIsSkipped() {
	ctx := context.Background()
	log := s.trackAttempts()

	bad := mediaPayload("")
	bad.ID = nil

	s.source.EXPECT().FetchMedia(ctx, "acme.studio").Return([]instagram.MediaPayload{mediaPayload("m1"), bad, mediaPayload("m3")}, nil)
	s.media.EXPECT().Upsert(ctx, gomock.Any()).Return(true, nil).Times(2)

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyMediaOnly)

	s.True(result.Success)
	s.Require().Len(result.Categories, 1)
	cr := result.Categories[0]
	s.Equal(domain.StatusCompleted, cr.Status)
	s.Equal(3, cr.Processed)
	s.Equal(2, cr.Created)
	s.Equal(1, cr.Failed)
	s.Contains(cr.Error, "1 of 3 records failed")

	attempts := log.all()
	s.Require().Len(attempts, 1)
	s.Equal(domain.StatusCompleted, attempts[0].Status)
	s.Equal(1, attempts[0].RecordsFailed)
}

func (s *SyncServiceTestSuite) TestSyncAccount_EveryRecordFailed() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.source.EXPECT().FetchStories(ctx, "acme.studio").Return([]instagram.StoryPayload{storyPayload("s1"), storyPayload("s2")}, nil)
	s.stories.EXPECT().Upsert(ctx, gomock.Any()).Return(false, errors.New("constraint violation")).Times(2)

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyStoriesOnly)

	s.False(result.Success)
	attempts := log.all()
	s.Require().Len(attempts, 1)
	s.Equal(domain.StatusFailed, attempts[0].Status)
	s.Equal(2, attempts[0].RecordsFailed)
}

func (s *SyncServiceTestSuite) TestSyncAccount_EmptyResponseCompletes() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.source.EXPECT().FetchStories(ctx, "acme.studio").Return([]instagram.StoryPayload{}, nil)

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyStoriesOnly)

	s.True(result.Success)
	s.Equal(domain.StatusCompleted, log.all()[0].Status)
	s.Equal(0, log.all()[0].RecordsProcessed)
}

func (s *SyncServiceTestSuite) TestSyncAccount_BeginFailureSkipsFetch() {
	ctx := context.Background()

	s.syncLog.EXPECT().Create(ctx, gomock.Any()).Return(errors.New("connection refused"))

	result := s.service.SyncAccount(ctx, domain.Account{Handle: "acme.studio"}, domain.StrategyFull)

	s.False(result.Success)
	s.Contains(result.Error, "create sync attempt")
	s.Require().Len(result.Categories, 1)
	s.Empty(result.Categories[0].AttemptID)
}

func (s *SyncServiceTestSuite) TestSyncAccount_UnknownStrategy() {
	result := s.service.SyncAccount(context.Background(), domain.Account{Handle: "acme.studio"}, "weekly")

	s.False(result.Success)
	s.Contains(result.Error, "unknown strategy")
}

func (s *SyncServiceTestSuite) TestRunBatch_IsolatesAccountFailures() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.source.EXPECT().FetchStories(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, handle string) ([]instagram.StoryPayload, error) {
			if handle == "acct3" {
				return nil, &domain.TransportError{Category: domain.CategoryStories, Handle: handle, StatusCode: 500, Err: errors.New("boom")}
			}
			return []instagram.StoryPayload{storyPayload("s-" + handle)}, nil
		},
	).Times(5)
	s.stories.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(true, nil).Times(4)

	summary := s.service.RunBatch(ctx, accountsNamed(5), domain.StrategyStoriesOnly)

	s.Equal(5, summary.Total)
	s.Equal(4, summary.Succeeded)
	s.Equal(1, summary.Failed)
	s.Equal("partial_failure", summary.Outcome())

	var partial *domain.PartialBatchFailure
	s.Require().ErrorAs(summary.Err(), &partial)
	s.Equal(1, partial.Failed)

	s.False(summary.Results[2].Success)
	s.Equal("acct3", summary.Results[2].Handle)

	attempts := log.all()
	s.Len(attempts, 5)
	for _, a := range attempts {
		s.True(a.Status.Terminal(), "attempt %s for %s left %s", a.ID, a.AccountHandle, a.Status)
	}
	s.Equal(domain.StatusFailed, log.byHandle("acct3")[0].Status)
	s.Empty(s.sleeps)
}

func (s *SyncServiceTestSuite) TestRunBatch_GroupsWithDelay() {
	ctx := context.Background()
	s.trackAttempts()

	s.source.EXPECT().FetchStories(gomock.Any(), gomock.Any()).Return([]instagram.StoryPayload{}, nil).Times(12)

	summary := s.service.RunBatch(ctx, accountsNamed(12), domain.StrategyStoriesOnly)

	s.Equal(12, summary.Succeeded)
	s.Equal([]time.Duration{2 * time.Second, 2 * time.Second}, s.sleeps)
	for i, r := range summary.Results {
		s.Equal(fmt.Sprintf("acct%d", i+1), r.Handle)
	}
}

func (s *SyncServiceTestSuite) TestRunBatch_InterruptedBetweenGroups() {
	ctx := context.Background()
	s.trackAttempts()

	s.service.sleep = func(context.Context, time.Duration) error { return context.Canceled }
	s.source.EXPECT().FetchStories(gomock.Any(), gomock.Any()).Return([]instagram.StoryPayload{}, nil).Times(5)

	summary := s.service.RunBatch(ctx, accountsNamed(12), domain.StrategyStoriesOnly)

	s.Equal(5, summary.Succeeded)
	s.Equal(7, summary.Failed)
	s.Equal("acct6", summary.Results[5].Handle)
	s.Contains(summary.Results[11].Error, "interrupted")
}

func (s *SyncServiceTestSuite) TestRunBatch_CancelledMidGroupFinishesEveryAttempt() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log := s.trackAttempts()

	cfg := s.cfg
	cfg.RecordRuns = nil
	s.service = s.newService(cfg)
	s.service.sleep = sleepContext

	s.source.EXPECT().FetchStories(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, handle string) ([]instagram.StoryPayload, error) {
			cancel()
			return nil, &domain.TransportError{Category: domain.CategoryStories, Handle: handle, Err: ctx.Err()}
		},
	).MinTimes(1).MaxTimes(5)

	summary := s.service.RunBatch(ctx, accountsNamed(7), domain.StrategyStoriesOnly)

	s.Equal(7, summary.Failed)
	s.Contains(summary.Results[6].Error, "interrupted")

	attempts := log.all()
	s.NotEmpty(attempts)
	for _, a := range attempts {
		s.True(a.Status.Terminal(), "attempt %s for %s left %s", a.ID, a.AccountHandle, a.Status)
	}

	runs := log.byHandle(domain.SystemHandle)
	s.Require().Len(runs, 1)
	s.Equal(domain.StatusFailed, runs[0].Status)
	s.Equal(7, runs[0].RecordsFailed)
}

func (s *SyncServiceTestSuite) TestRunBatch_SelectsStrategyByStaleness() {
	ctx := context.Background()
	log := s.trackAttempts()

	recent := s.now.Add(-time.Hour)
	accounts := []domain.Account{{Handle: "fresh", Active: true, LastSyncAt: &recent}}

	s.source.EXPECT().FetchStories(gomock.Any(), "fresh").Return([]instagram.StoryPayload{}, nil)

	summary := s.service.RunBatch(ctx, accounts, "")

	s.Equal(domain.StrategyStoriesOnly, summary.Results[0].Strategy)
	s.Len(log.byHandle("fresh"), 1)
}

func (s *SyncServiceTestSuite) TestRunBatch_RecordsRunAttempt() {
	ctx := context.Background()
	log := s.trackAttempts()

	cfg := s.cfg
	cfg.RecordRuns = nil
	s.service = s.newService(cfg)

	s.source.EXPECT().FetchStories(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, handle string) ([]instagram.StoryPayload, error) {
			if handle == "acct1" {
				return nil, errors.New("dial tcp: refused")
			}
			return []instagram.StoryPayload{}, nil
		},
	).Times(2)

	summary := s.service.RunBatch(ctx, accountsNamed(2), domain.StrategyStoriesOnly)

	runs := log.byHandle(domain.SystemHandle)
	s.Require().Len(runs, 1)
	run := runs[0]
	s.Equal(summary.RunID, run.ID)
	s.Equal(domain.CategoryFull, run.Category)
	s.Equal(domain.StatusCompleted, run.Status)
	s.Equal(2, run.RecordsProcessed)
	s.Equal(1, run.RecordsUpdated)
	s.Equal(1, run.RecordsFailed)
	s.Equal(2, run.APICalls)
	s.Require().NotNil(run.ErrorMessage)
	s.Equal("1 of 2 accounts failed", *run.ErrorMessage)
}

func (s *SyncServiceTestSuite) TestTrigger_OutsideWindowSkips() {
	ctx := context.Background()

	s.gate.EXPECT().Authorized(s.now, false).Return(false)

	summary, err := s.service.Trigger(ctx, domain.TriggerRequest{})

	s.ErrorIs(err, domain.ErrScheduleSkip)
	s.Require().NotNil(summary)
	s.True(summary.Skipped)
	s.Equal("skipped", summary.Outcome())
	s.Equal(0, summary.Total)
}

func (s *SyncServiceTestSuite) TestTrigger_ForceRunsForcedStrategy() {
	ctx := context.Background()
	log := s.trackAttempts()
	s.passthroughTx()

	s.gate.EXPECT().Authorized(s.now, true).Return(true)
	s.accounts.EXPECT().ListActive(ctx).Return(accountsNamed(1), nil)
	s.source.EXPECT().FetchProfile(gomock.Any(), "acct1").Return(profilePayload("acct1"), nil)
	s.accounts.EXPECT().UpsertProfile(gomock.Any(), gomock.Any()).Return(false, nil)
	s.snapshots.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
	s.accounts.EXPECT().MarkSynced(gomock.Any(), "acct1", s.now).Return(nil)

	summary, err := s.service.Trigger(ctx, domain.TriggerRequest{SyncType: domain.CategoryProfile, Force: true})

	s.NoError(err)
	s.Equal(1, summary.Succeeded)
	s.Equal(domain.StrategyProfileOnly, summary.Results[0].Strategy)
	s.Len(log.byHandle("acct1"), 1)
}

func (s *SyncServiceTestSuite) TestTrigger_InvalidSyncType() {
	_, err := s.service.Trigger(context.Background(), domain.TriggerRequest{SyncType: "stories"})

	s.ErrorIs(err, domain.ErrInvalidSyncType)
}

func (s *SyncServiceTestSuite) TestTrigger_ListFailure() {
	ctx := context.Background()

	s.gate.EXPECT().Authorized(s.now, false).Return(true)
	s.accounts.EXPECT().ListActive(ctx).Return(nil, errors.New("connection reset"))

	summary, err := s.service.Trigger(ctx, domain.TriggerRequest{})

	s.Nil(summary)
	s.ErrorContains(err, "list due accounts")
}

func (s *SyncServiceTestSuite) TestTrigger_NoAccounts() {
	ctx := context.Background()

	s.gate.EXPECT().Authorized(s.now, false).Return(true)
	s.accounts.EXPECT().ListActive(ctx).Return([]domain.Account{}, nil)

	summary, err := s.service.Trigger(ctx, domain.TriggerRequest{})

	s.NoError(err)
	s.Equal(0, summary.Total)
	s.Equal("completed", summary.Outcome())
	s.NoError(summary.Err())
}

func (s *SyncServiceTestSuite) TestTriggerAccount() {
	ctx := context.Background()
	log := s.trackAttempts()

	s.accounts.EXPECT().GetByHandle(ctx, "acme.studio").Return(&domain.Account{Handle: "acme.studio", Active: true}, nil)
	s.source.EXPECT().FetchMedia(ctx, "acme.studio").Return([]instagram.MediaPayload{}, nil)

	result, err := s.service.TriggerAccount(ctx, ActionSyncMedia, "@Acme.Studio")

	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(domain.StrategyMediaOnly, result.Strategy)
	s.Equal(domain.CategoryMedia, log.all()[0].Category)
}

func (s *SyncServiceTestSuite) TestTriggerAccount_Errors() {
	ctx := context.Background()

	_, err := s.service.TriggerAccount(ctx, "sync_everything", "acme.studio")
	s.ErrorIs(err, domain.ErrInvalidAction)

	s.accounts.EXPECT().GetByHandle(ctx, "ghost").Return(nil, domain.ErrAccountNotFound)
	_, err = s.service.TriggerAccount(ctx, ActionSyncFull, "ghost")
	s.ErrorIs(err, domain.ErrAccountNotFound)

	s.accounts.EXPECT().GetByHandle(ctx, "retired").Return(&domain.Account{Handle: "retired", Active: false}, nil)
	_, err = s.service.TriggerAccount(ctx, ActionSyncFull, "retired")
	s.ErrorIs(err, domain.ErrAccountNotFound)
}

func (s *SyncServiceTestSuite) TestConnectAccount() {
	ctx := context.Background()

	s.accounts.EXPECT().Connect(ctx, "acme.studio").Return(&domain.Account{Handle: "acme.studio", Active: true}, true, nil)

	account, created, err := s.service.ConnectAccount(ctx, " @Acme.Studio ")

	s.Require().NoError(err)
	s.True(created)
	s.Equal("acme.studio", account.Handle)

	_, _, err = s.service.ConnectAccount(ctx, "not a handle!")
	s.ErrorIs(err, domain.ErrInvalidHandle)
}

func (s *SyncServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()

	s.accounts.EXPECT().Deactivate(ctx, "ghost").Return(domain.ErrAccountNotFound)
	s.ErrorIs(s.service.DeactivateAccount(ctx, "ghost"), domain.ErrAccountNotFound)

	s.accounts.EXPECT().Deactivate(ctx, "acme.studio").Return(errors.New("timeout"))
	var perr *domain.PersistenceError
	s.ErrorAs(s.service.DeactivateAccount(ctx, "acme.studio"), &perr)
}

func (s *SyncServiceTestSuite) TestRecentAttempts_ClampsLimit() {
	ctx := context.Background()

	s.syncLog.EXPECT().Recent(ctx, DefaultAttemptLimit).Return([]domain.SyncAttempt{}, nil)
	s.syncLog.EXPECT().Recent(ctx, MaxAttemptLimit).Return([]domain.SyncAttempt{}, nil)
	s.syncLog.EXPECT().Recent(ctx, 10).Return([]domain.SyncAttempt{}, nil)

	for _, limit := range []int{0, 10000, 10} {
		_, err := s.service.RecentAttempts(ctx, limit)
		s.NoError(err)
	}
}

func (s *SyncServiceTestSuite) TestOrphanedAttempts() {
	ctx := context.Background()

	s.syncLog.EXPECT().Orphaned(ctx, s.now.Add(-2*time.Hour)).Return([]domain.SyncAttempt{{ID: "a1", Status: domain.StatusRunning}}, nil)

	attempts, err := s.service.OrphanedAttempts(ctx, 2*time.Hour)

	s.NoError(err)
	s.Len(attempts, 1)
}

func TestPartition(t *testing.T) {
	groups := Partition(accountsNamed(12), 5)

	if len(groups) != 3 || len(groups[0]) != 5 || len(groups[1]) != 5 || len(groups[2]) != 2 {
		t.Fatalf("unexpected group sizes: %v", len(groups))
	}
	if got := Partition(nil, 5); len(got) != 0 {
		t.Fatalf("expected no groups, got %d", len(got))
	}
}
