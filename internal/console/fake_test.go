package console

import (
	"context"
	"errors"
	"sync"

	"go-gin-user-console/internal/domain"
)

var errDown = errors.New("upstream down")

// fakeAPI 内存版远端；gate 非空时 List 会等待放行
type fakeAPI struct {
	mu      sync.Mutex
	records []domain.Record
	nextID  domain.ID
	gate    chan struct{}

	failList, failGet, failWrite, failDelete bool

	listCalls, writeCalls int
}

func seed() []domain.Record {
	return []domain.Record{
		{ID: 1, Name: "Ann Lee", Username: "Bret", Email: "ann@x.io", Phone: "1", Address: domain.Address{Street: "s", City: "c"}},
		{ID: 2, Name: "Ben Stone", Username: "Antonette", Email: "ben@x.io", Phone: "2", Address: domain.Address{Street: "s", City: "c"}},
		{ID: 3, Name: "Clara Annis", Username: "Samantha", Email: "cl@x.io", Phone: "3", Address: domain.Address{Street: "s", City: "c"}},
	}
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Record, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList {
		return nil, errDown
	}
	return append([]domain.Record(nil), f.records...), nil
}

func (f *fakeAPI) Get(ctx context.Context, id domain.ID) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet {
		return nil, errDown
	}
	for _, r := range f.records {
		if r.ID == id {
			r := r
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAPI) Create(ctx context.Context, r domain.Record) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.failWrite {
		return nil, errDown
	}
	if f.nextID == 0 {
		f.nextID = 11
	}
	r.ID = f.nextID
	return &r, nil
}

func (f *fakeAPI) Update(ctx context.Context, id domain.ID, r domain.Record) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writeCalls++
	if f.failWrite {
		return nil, errDown
	}
	r.ID = id
	return &r, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id domain.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errDown
	}
	return nil
}
