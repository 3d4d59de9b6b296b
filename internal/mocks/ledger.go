// Code generated by MockGen. DO NOT EDIT.
// Source: ledger.go

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	domain "github.com/stampbook/sb-registry/internal/domain"
)

// MockLedger is a mock of Ledger interface.
type MockLedger struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerMockRecorder
}

// MockLedgerMockRecorder is the mock recorder for MockLedger.
type MockLedgerMockRecorder struct {
	mock *MockLedger
}

// NewMockLedger creates a new mock instance.
func NewMockLedger(ctrl *gomock.Controller) *MockLedger {
	mock := &MockLedger{ctrl: ctrl}
	mock.recorder = &MockLedgerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedger) EXPECT() *MockLedgerMockRecorder {
	return m.recorder
}

// Create mocks base method.
func (m *MockLedger) Create(ctx context.Context, owner domain.Address, id domain.ItemID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, owner, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockLedgerMockRecorder) Create(ctx, owner, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockLedger)(nil).Create), ctx, owner, id)
}

// Destroy mocks base method.
func (m *MockLedger) Destroy(ctx context.Context, id domain.ItemID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Destroy", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Destroy indicates an expected call of Destroy.
func (mr *MockLedgerMockRecorder) Destroy(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Destroy", reflect.TypeOf((*MockLedger)(nil).Destroy), ctx, id)
}

// OwnerOf mocks base method.
func (m *MockLedger) OwnerOf(ctx context.Context, id domain.ItemID) (domain.Address, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OwnerOf", ctx, id)
	ret0, _ := ret[0].(domain.Address)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OwnerOf indicates an expected call of OwnerOf.
func (mr *MockLedgerMockRecorder) OwnerOf(ctx, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OwnerOf", reflect.TypeOf((*MockLedger)(nil).OwnerOf), ctx, id)
}

// Transfer mocks base method.
func (m *MockLedger) Transfer(ctx context.Context, from, to domain.Address, id domain.ItemID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transfer", ctx, from, to, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Transfer indicates an expected call of Transfer.
func (mr *MockLedgerMockRecorder) Transfer(ctx, from, to, id interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transfer", reflect.TypeOf((*MockLedger)(nil).Transfer), ctx, from, to, id)
}
