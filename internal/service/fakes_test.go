package service

import (
	"context"
	"sync"

	"receipt-rewards/internal/models"
	"receipt-rewards/internal/receipt"
	"receipt-rewards/internal/repository"
	"receipt-rewards/pkg/ocr"

	"github.com/google/uuid"
)

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

type fakeReceiptStore struct {
	owner      uuid.UUID
	ownerFound bool
	createErr  error
	balance    models.Balance
	listed     []*models.Receipt

	created    *models.Receipt
	event      *models.CampaignEvent
	listLimit  int
	listOffset int
}

func (s *fakeReceiptStore) CreateWithAward(_ context.Context, rec *models.Receipt, ev *models.CampaignEvent) (models.Balance, error) {
	if s.createErr != nil {
		return models.Balance{}, s.createErr
	}
	s.created = rec
	s.event = ev
	return s.balance, nil
}

func (s *fakeReceiptStore) FingerprintOwner(_ context.Context, _ string) (uuid.UUID, bool, error) {
	return s.owner, s.ownerFound, nil
}

func (s *fakeReceiptStore) ListByUserID(_ context.Context, _ uuid.UUID, limit, offset int) ([]*models.Receipt, error) {
	s.listLimit, s.listOffset = limit, offset
	return s.listed, nil
}

type fakeExtractor struct {
	text receipt.ExtractedText
	err  error
}

func (e *fakeExtractor) Extract(_ context.Context, _ models.FileKind, _ []byte) (receipt.ExtractedText, error) {
	return e.text, e.err
}

type fakeClaimer struct {
	held     bool
	holder   string
	claims   int
	released []string
}

func (c *fakeClaimer) Claim(_ context.Context, _, owner string) (bool, string, error) {
	c.claims++
	if c.held {
		return false, c.holder, nil
	}
	return true, owner, nil
}

func (c *fakeClaimer) Release(_ context.Context, fingerprint string) error {
	c.released = append(c.released, fingerprint)
	return nil
}

type fakeRecognizer struct {
	name    string
	results []ocr.Result
	err     error
	block   chan struct{}
	calls   int
}

func (r *fakeRecognizer) Name() string {
	if r.name == "" {
		return "tesseract"
	}
	return r.name
}

func (r *fakeRecognizer) Recognize(ctx context.Context, _ []byte) (ocr.Result, error) {
	if r.block != nil {
		<-r.block
	}
	r.calls++
	if r.err != nil {
		return ocr.Result{}, r.err
	}
	if len(r.results) == 0 {
		return ocr.Result{}, nil
	}
	res := r.results[0]
	if len(r.results) > 1 {
		r.results = r.results[1:]
	}
	return res, nil
}

type fakePDF struct {
	layer     string
	pages     int
	layerErr  error
	images    [][]byte
	renderErr error
}

func (p *fakePDF) TextLayer(_ []byte) (string, int, error) {
	return p.layer, p.pages, p.layerErr
}

func (p *fakePDF) RenderPages(_ []byte) ([][]byte, error) {
	return p.images, p.renderErr
}

type fakeRewardStore struct {
	rewards []*models.Reward
}

func (s *fakeRewardStore) ListActive(_ context.Context) ([]*models.Reward, error) {
	return s.rewards, nil
}

func (s *fakeRewardStore) GetByIDs(_ context.Context, ids []int) (map[int]*models.Reward, error) {
	out := make(map[int]*models.Reward)
	for _, rw := range s.rewards {
		for _, id := range ids {
			if rw.ID == id {
				out[id] = rw
			}
		}
	}
	return out, nil
}

type fakeOrderStore struct {
	balance int
	err     error
	order   *models.Order
	event   *models.CampaignEvent
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order, ev *models.CampaignEvent) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if s.balance < order.TotalPoints {
		return 0, &repository.InsufficientPointsError{Balance: s.balance, Required: order.TotalPoints}
	}
	s.order, s.event = order, ev
	return s.balance - order.TotalPoints, nil
}

var catalog = []*models.Reward{
	{ID: 1, Name: "Premium Gin Collection", Points: 350, Category: "Premium", Active: true},
	{ID: 2, Name: "Bloedlemoen Gin Bottle", Points: 200, Category: "Premium", Active: true},
	{ID: 3, Name: "Bloedlemoen T-Shirt", Points: 100, Category: "Apparel", Active: true},
	{ID: 4, Name: "Gin Tasting Experience", Points: 300, Category: "Experience", Active: true},
	{ID: 5, Name: "Cocktail Recipe Book", Points: 50, Category: "Digital", Active: true},
}
