package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/kagurabytes/chatstats/chatstats/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockCounterRepository is a mock of CounterRepository interface.
type MockCounterRepository struct {
	ctrl     *gomock.Controller
	recorder *MockCounterRepositoryMockRecorder
	isgomock struct{}
}

// MockCounterRepositoryMockRecorder is the mock recorder for MockCounterRepository.
type MockCounterRepositoryMockRecorder struct {
	mock *MockCounterRepository
}

// NewMockCounterRepository creates a new mock instance.
func NewMockCounterRepository(ctrl *gomock.Controller) *MockCounterRepository {
	mock := &MockCounterRepository{ctrl: ctrl}
	mock.recorder = &MockCounterRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCounterRepository) EXPECT() *MockCounterRepositoryMockRecorder {
	return m.recorder
}

// AllUsers mocks base method.
func (m *MockCounterRepository) AllUsers(ctx context.Context) []models.UserRef {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AllUsers", ctx)
	ret0, _ := ret[0].([]models.UserRef)
	return ret0
}

// AllUsers indicates an expected call of AllUsers.
func (mr *MockCounterRepositoryMockRecorder) AllUsers(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AllUsers", reflect.TypeOf((*MockCounterRepository)(nil).AllUsers), ctx)
}

// BulkImport mocks base method.
func (m *MockCounterRepository) BulkImport(ctx context.Context, counters []*models.UserCounter) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "BulkImport", ctx, counters)
	ret0, _ := ret[0].(error)
	return ret0
}

// BulkImport indicates an expected call of BulkImport.
func (mr *MockCounterRepositoryMockRecorder) BulkImport(ctx, counters any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "BulkImport", reflect.TypeOf((*MockCounterRepository)(nil).BulkImport), ctx, counters)
}

// ExportAll mocks base method.
func (m *MockCounterRepository) ExportAll(ctx context.Context) []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExportAll", ctx)
	ret0, _ := ret[0].([]byte)
	return ret0
}

// ExportAll indicates an expected call of ExportAll.
func (mr *MockCounterRepositoryMockRecorder) ExportAll(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExportAll", reflect.TypeOf((*MockCounterRepository)(nil).ExportAll), ctx)
}

// GetUser mocks base method.
func (m *MockCounterRepository) GetUser(ctx context.Context, userID snowflake.ID) *models.UserCounter {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetUser", ctx, userID)
	ret0, _ := ret[0].(*models.UserCounter)
	return ret0
}

// GetUser indicates an expected call of GetUser.
func (mr *MockCounterRepositoryMockRecorder) GetUser(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetUser", reflect.TypeOf((*MockCounterRepository)(nil).GetUser), ctx, userID)
}

// RecordMessage mocks base method.
func (m *MockCounterRepository) RecordMessage(ctx context.Context, userID snowflake.ID, username string) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "RecordMessage", ctx, userID, username)
}

// RecordMessage indicates an expected call of RecordMessage.
func (mr *MockCounterRepositoryMockRecorder) RecordMessage(ctx, userID, username any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordMessage", reflect.TypeOf((*MockCounterRepository)(nil).RecordMessage), ctx, userID, username)
}

// ResetAll mocks base method.
func (m *MockCounterRepository) ResetAll(ctx context.Context) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResetAll", ctx)
	ret0, _ := ret[0].(bool)
	return ret0
}

// ResetAll indicates an expected call of ResetAll.
func (mr *MockCounterRepositoryMockRecorder) ResetAll(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResetAll", reflect.TypeOf((*MockCounterRepository)(nil).ResetAll), ctx)
}

// SetBanned mocks base method.
func (m *MockCounterRepository) SetBanned(ctx context.Context, userID snowflake.ID, banned bool) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "SetBanned", ctx, userID, banned)
}

// SetBanned indicates an expected call of SetBanned.
func (mr *MockCounterRepositoryMockRecorder) SetBanned(ctx, userID, banned any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetBanned", reflect.TypeOf((*MockCounterRepository)(nil).SetBanned), ctx, userID, banned)
}

// Timeline mocks base method.
func (m *MockCounterRepository) Timeline(ctx context.Context, windowDays int) []models.TimelineEntry {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Timeline", ctx, windowDays)
	ret0, _ := ret[0].([]models.TimelineEntry)
	return ret0
}

// Timeline indicates an expected call of Timeline.
func (mr *MockCounterRepositoryMockRecorder) Timeline(ctx, windowDays any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Timeline", reflect.TypeOf((*MockCounterRepository)(nil).Timeline), ctx, windowDays)
}

// TopUsers mocks base method.
func (m *MockCounterRepository) TopUsers(ctx context.Context, limit int) []models.UserRank {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TopUsers", ctx, limit)
	ret0, _ := ret[0].([]models.UserRank)
	return ret0
}

// TopUsers indicates an expected call of TopUsers.
func (mr *MockCounterRepositoryMockRecorder) TopUsers(ctx, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TopUsers", reflect.TypeOf((*MockCounterRepository)(nil).TopUsers), ctx, limit)
}
