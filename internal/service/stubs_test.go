package service

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"eunoia/internal/analysis"
	"eunoia/internal/model"
	"eunoia/internal/repository"
)

type userStubRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int
	err    error
}

func newUserStubRepo() *userStubRepo {
	return &userStubRepo{users: map[string]*model.User{}}
}

func (r *userStubRepo) Create(ctx context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.nextID++
	u.ID = "user-" + strconv.Itoa(r.nextID)
	copy := *u
	r.users[u.ID] = &copy
	return nil
}

func (r *userStubRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copy := *u
		return &copy, nil
	}
	return nil, r.err
}

func (r *userStubRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copy := *u
			return &copy, nil
		}
	}
	return nil, r.err
}

func (r *userStubRepo) EnsureIndexes(ctx context.Context) error { return nil }

type assessmentStubRepo struct {
	mu       sync.Mutex
	docs     []model.RiskAssessment
	failures int // number of Create calls to fail before succeeding
	lostAcks int // number of Create calls that store but report an error
	calls    int
}

func (r *assessmentStubRepo) Create(ctx context.Context, a *model.RiskAssessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	if a.ID == "" {
		a.ID = "assessment-" + strconv.Itoa(len(r.docs)+1)
	}
	for _, d := range r.docs {
		if d.ID == a.ID {
			return repository.ErrAssessmentExists
		}
	}
	r.docs = append(r.docs, *a)
	if r.lostAcks > 0 {
		r.lostAcks--
		return errors.New("i/o timeout")
	}
	return nil
}

func (r *assessmentStubRepo) ListByUser(ctx context.Context, userID string, limit int) ([]model.RiskAssessment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.RiskAssessment{}
	for i := len(r.docs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if r.docs[i].UserID == userID {
			out = append(out, r.docs[i])
		}
	}
	return out, nil
}

func (r *assessmentStubRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *assessmentStubRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.docs)
}

type behavioralStubRepo struct {
	docs []model.TextAnalysis
	err  error
}

func (r *behavioralStubRepo) Create(ctx context.Context, a *model.TextAnalysis) error {
	if r.err != nil {
		return r.err
	}
	a.ID = "analysis-" + strconv.Itoa(len(r.docs)+1)
	r.docs = append(r.docs, *a)
	return nil
}

type historyStubCache struct {
	lists         map[string][]model.RiskAssessment
	versions      map[string]int64
	invalidations int
	fills         int
	// beforeFill runs between the store read and Fill
	beforeFill func()
}

func newHistoryStubCache() *historyStubCache {
	return &historyStubCache{
		lists:    map[string][]model.RiskAssessment{},
		versions: map[string]int64{},
	}
}

func (c *historyStubCache) Get(ctx context.Context, userID string) ([]model.RiskAssessment, error) {
	return c.lists[userID], nil
}

func (c *historyStubCache) Version(ctx context.Context, userID string) (int64, error) {
	return c.versions[userID], nil
}

func (c *historyStubCache) Fill(ctx context.Context, userID string, version int64, as []model.RiskAssessment) error {
	if c.beforeFill != nil {
		fn := c.beforeFill
		c.beforeFill = nil
		fn()
	}
	if c.versions[userID] != version {
		return nil
	}
	c.fills++
	c.lists[userID] = as
	return nil
}

func (c *historyStubCache) Invalidate(ctx context.Context, userID string) error {
	c.invalidations++
	c.versions[userID]++
	delete(c.lists, userID)
	return nil
}

type failingClassifier struct{}

func (failingClassifier) Name() string { return "failing" }

func (failingClassifier) Classify(ctx context.Context, text string) (analysis.Prediction, error) {
	return analysis.Prediction{}, errors.New("model unavailable")
}

type recordingBroadcaster struct {
	mu    sync.Mutex
	users []string
}

func (b *recordingBroadcaster) PublishAssessment(userID string, a *model.RiskAssessment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = append(b.users, userID)
}
