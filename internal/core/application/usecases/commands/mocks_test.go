package commands_test

import (
	"context"
	"time"

	"heblo/internal/core/application/usecases/commands"
	"heblo/internal/core/domain/model/kernel"
	"heblo/internal/core/domain/model/transportbox"
	"heblo/internal/core/domain/services"
	"heblo/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockTransportBoxRepository struct{ mock.Mock }

func (m *MockTransportBoxRepository) NextID(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockTransportBoxRepository) Add(ctx context.Context, box *transportbox.TransportBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *MockTransportBoxRepository) Update(ctx context.Context, box *transportbox.TransportBox) error {
	args := m.Called(ctx, box)
	return args.Error(0)
}

func (m *MockTransportBoxRepository) Get(ctx context.Context, id int) (*transportbox.TransportBox, error) {
	args := m.Called(ctx, id)
	if box, ok := args.Get(0).(*transportbox.TransportBox); ok {
		return box, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransportBoxRepository) GetIDsInState(ctx context.Context, state transportbox.State) ([]int, error) {
	args := m.Called(ctx, state)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

func (m *MockTransportBoxRepository) IsCodeInUse(ctx context.Context, code kernel.BoxCode, excludeID int) (bool, error) {
	args := m.Called(ctx, code.String(), excludeID)
	return args.Bool(0), args.Error(1)
}

type MockStockUpRepository struct{ mock.Mock }

func (m *MockStockUpRepository) Record(
	ctx context.Context,
	boxID int,
	lines []services.StockUpLine,
	date time.Time,
) error {
	args := m.Called(ctx, boxID, lines, date)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) TransportBoxRepository() ports.TransportBoxRepository {
	args := m.Called()
	return args.Get(0).(ports.TransportBoxRepository)
}

func (m *MockUoW) StockUpRepository() ports.StockUpRepository {
	args := m.Called()
	return args.Get(0).(ports.StockUpRepository)
}

type MockTransportBoxUoWFactory struct{ mock.Mock }

func (m *MockTransportBoxUoWFactory) Create() commands.TransportBoxUoW {
	args := m.Called()
	return args.Get(0).(commands.TransportBoxUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockTransitionRecorder struct{ mock.Mock }

func (m *MockTransitionRecorder) RecordTransition(from, to transportbox.State) {
	m.Called(from, to)
}
