package sendloop

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gobarajas/outreach-cli/internal/model"
	"github.com/gobarajas/outreach-cli/pkg/wabridge"
)

// --- Channel Mock ---

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) Connect(ctx context.Context) (wabridge.State, error) {
	args := m.Called(ctx)
	return args.Get(0).(wabridge.State), args.Error(1)
}

func (m *mockChannel) OpenConversation(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *mockChannel) SendText(ctx context.Context, message string) (bool, error) {
	args := m.Called(ctx, message)
	return args.Bool(0), args.Error(1)
}

func (m *mockChannel) Ready(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// --- History Mock ---

type mockHistory struct {
	mock.Mock
}

func (m *mockHistory) CreateBatch(ctx context.Context, sourceFile, template string, total int) (*model.Batch, error) {
	args := m.Called(ctx, sourceFile, template, total)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Batch), args.Error(1)
}

func (m *mockHistory) RecordOutcome(ctx context.Context, batchID string, outcome model.Outcome) error {
	args := m.Called(ctx, batchID, outcome)
	return args.Error(0)
}

func (m *mockHistory) CompleteBatch(ctx context.Context, batchID string, sent, errors int, status model.BatchStatus) error {
	args := m.Called(ctx, batchID, sent, errors, status)
	return args.Error(0)
}

func (m *mockHistory) LastBatch(ctx context.Context) (*model.Batch, []model.Outcome, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.Batch), args.Get(1).([]model.Outcome), args.Error(2)
}

func (m *mockHistory) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockHistory) Close() error {
	args := m.Called()
	return args.Error(0)
}
