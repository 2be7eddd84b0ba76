package user

import (
	"context"
	"errors"

	"go-gin-user-console/internal/domain"
)

var errTransport = errors.New("connection refused")

// fakeAPI 记录调用次数，按预设返回
type fakeAPI struct {
	records []domain.Record
	nextID  domain.ID

	failList, failGet, failWrite bool

	listCalls, getCalls, createCalls, updateCalls, deleteCalls int

	lastPayload domain.Record
}

func (f *fakeAPI) List(ctx context.Context) ([]domain.Record, error) {
	f.listCalls++
	if f.failList {
		return nil, errTransport
	}
	return append([]domain.Record(nil), f.records...), nil
}

func (f *fakeAPI) Get(ctx context.Context, id domain.ID) (*domain.Record, error) {
	f.getCalls++
	if f.failGet {
		return nil, errTransport
	}
	for _, r := range f.records {
		if r.ID == id {
			rec := r
			return &rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeAPI) Create(ctx context.Context, r domain.Record) (*domain.Record, error) {
	f.createCalls++
	f.lastPayload = r
	if f.failWrite {
		return nil, errTransport
	}
	if f.nextID == 0 {
		f.nextID = 11
	}
	r.ID = f.nextID
	return &r, nil
}

func (f *fakeAPI) Update(ctx context.Context, id domain.ID, r domain.Record) (*domain.Record, error) {
	f.updateCalls++
	f.lastPayload = r
	if f.failWrite {
		return nil, errTransport
	}
	r.ID = id
	return &r, nil
}

func (f *fakeAPI) Delete(ctx context.Context, id domain.ID) error {
	f.deleteCalls++
	if f.failWrite {
		return errTransport
	}
	return nil
}

type recordedNote struct {
	level Level
	msg   string
}

type notes []recordedNote

func (n *notes) Notify(level Level, msg string) { *n = append(*n, recordedNote{level, msg}) }
