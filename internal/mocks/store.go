// Code generated by MockGen. DO NOT EDIT.
// Source: store.go

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	gomock "github.com/golang/mock/gomock"
	store "github.com/stampbook/sb-registry/internal/store"
	schema "github.com/stampbook/sb-registry/internal/store/schema"
)

// MockStore is a mock of Store interface.
type MockStore struct {
	ctrl     *gomock.Controller
	recorder *MockStoreMockRecorder
}

// MockStoreMockRecorder is the mock recorder for MockStore.
type MockStoreMockRecorder struct {
	mock *MockStore
}

// NewMockStore creates a new mock instance.
func NewMockStore(ctrl *gomock.Controller) *MockStore {
	mock := &MockStore{ctrl: ctrl}
	mock.recorder = &MockStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStore) EXPECT() *MockStoreMockRecorder {
	return m.recorder
}

// CreateWebhookClient mocks base method.
func (m *MockStore) CreateWebhookClient(ctx context.Context, input store.CreateWebhookClientInput) (*schema.WebhookClient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateWebhookClient", ctx, input)
	ret0, _ := ret[0].(*schema.WebhookClient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateWebhookClient indicates an expected call of CreateWebhookClient.
func (mr *MockStoreMockRecorder) CreateWebhookClient(ctx, input interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateWebhookClient", reflect.TypeOf((*MockStore)(nil).CreateWebhookClient), ctx, input)
}

// CreateWebhookDelivery mocks base method.
func (m *MockStore) CreateWebhookDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateWebhookDelivery", ctx, delivery)
	ret0, _ := ret[0].(error)
	return ret0
}

// CreateWebhookDelivery indicates an expected call of CreateWebhookDelivery.
func (mr *MockStoreMockRecorder) CreateWebhookDelivery(ctx, delivery interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateWebhookDelivery", reflect.TypeOf((*MockStore)(nil).CreateWebhookDelivery), ctx, delivery)
}

// GetActiveWebhookClientsByEventType mocks base method.
func (m *MockStore) GetActiveWebhookClientsByEventType(ctx context.Context, eventType string) ([]*schema.WebhookClient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetActiveWebhookClientsByEventType", ctx, eventType)
	ret0, _ := ret[0].([]*schema.WebhookClient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetActiveWebhookClientsByEventType indicates an expected call of GetActiveWebhookClientsByEventType.
func (mr *MockStoreMockRecorder) GetActiveWebhookClientsByEventType(ctx, eventType interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetActiveWebhookClientsByEventType", reflect.TypeOf((*MockStore)(nil).GetActiveWebhookClientsByEventType), ctx, eventType)
}

// GetEvents mocks base method.
func (m *MockStore) GetEvents(ctx context.Context, filter store.EventQueryFilter) ([]*schema.EventJournal, uint64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetEvents", ctx, filter)
	ret0, _ := ret[0].([]*schema.EventJournal)
	ret1, _ := ret[1].(uint64)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// GetEvents indicates an expected call of GetEvents.
func (mr *MockStoreMockRecorder) GetEvents(ctx, filter interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetEvents", reflect.TypeOf((*MockStore)(nil).GetEvents), ctx, filter)
}

// GetWebhookClientByID mocks base method.
func (m *MockStore) GetWebhookClientByID(ctx context.Context, clientID string) (*schema.WebhookClient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetWebhookClientByID", ctx, clientID)
	ret0, _ := ret[0].(*schema.WebhookClient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetWebhookClientByID indicates an expected call of GetWebhookClientByID.
func (mr *MockStoreMockRecorder) GetWebhookClientByID(ctx, clientID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetWebhookClientByID", reflect.TypeOf((*MockStore)(nil).GetWebhookClientByID), ctx, clientID)
}

// ListWebhookClients mocks base method.
func (m *MockStore) ListWebhookClients(ctx context.Context) ([]*schema.WebhookClient, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListWebhookClients", ctx)
	ret0, _ := ret[0].([]*schema.WebhookClient)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListWebhookClients indicates an expected call of ListWebhookClients.
func (mr *MockStoreMockRecorder) ListWebhookClients(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListWebhookClients", reflect.TypeOf((*MockStore)(nil).ListWebhookClients), ctx)
}

// LoadState mocks base method.
func (m *MockStore) LoadState(ctx context.Context) (*store.Snapshot, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LoadState", ctx)
	ret0, _ := ret[0].(*store.Snapshot)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// LoadState indicates an expected call of LoadState.
func (mr *MockStoreMockRecorder) LoadState(ctx interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LoadState", reflect.TypeOf((*MockStore)(nil).LoadState), ctx)
}

// SaveBaseURI mocks base method.
func (m *MockStore) SaveBaseURI(ctx context.Context, typeID uint64, baseURI string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveBaseURI", ctx, typeID, baseURI)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveBaseURI indicates an expected call of SaveBaseURI.
func (mr *MockStoreMockRecorder) SaveBaseURI(ctx, typeID, baseURI interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveBaseURI", reflect.TypeOf((*MockStore)(nil).SaveBaseURI), ctx, typeID, baseURI)
}

// SaveBootstrap mocks base method.
func (m *MockStore) SaveBootstrap(ctx context.Context, administrator string, event *schema.EventJournal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveBootstrap", ctx, administrator, event)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveBootstrap indicates an expected call of SaveBootstrap.
func (mr *MockStoreMockRecorder) SaveBootstrap(ctx, administrator, event interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveBootstrap", reflect.TypeOf((*MockStore)(nil).SaveBootstrap), ctx, administrator, event)
}

// SaveBurn mocks base method.
func (m *MockStore) SaveBurn(ctx context.Context, itemID uint64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveBurn", ctx, itemID)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveBurn indicates an expected call of SaveBurn.
func (mr *MockStoreMockRecorder) SaveBurn(ctx, itemID interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveBurn", reflect.TypeOf((*MockStore)(nil).SaveBurn), ctx, itemID)
}

// SaveCallerApproval mocks base method.
func (m *MockStore) SaveCallerApproval(ctx context.Context, address string, approved bool, event *schema.EventJournal) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveCallerApproval", ctx, address, approved, event)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveCallerApproval indicates an expected call of SaveCallerApproval.
func (mr *MockStoreMockRecorder) SaveCallerApproval(ctx, address, approved, event interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveCallerApproval", reflect.TypeOf((*MockStore)(nil).SaveCallerApproval), ctx, address, approved, event)
}

// SaveClaimCommits mocks base method.
func (m *MockStore) SaveClaimCommits(ctx context.Context, input store.SaveClaimCommitsInput) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveClaimCommits", ctx, input)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveClaimCommits indicates an expected call of SaveClaimCommits.
func (mr *MockStoreMockRecorder) SaveClaimCommits(ctx, input interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveClaimCommits", reflect.TypeOf((*MockStore)(nil).SaveClaimCommits), ctx, input)
}

// SaveOnboard mocks base method.
func (m *MockStore) SaveOnboard(ctx context.Context, input store.SaveOnboardInput) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveOnboard", ctx, input)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveOnboard indicates an expected call of SaveOnboard.
func (mr *MockStoreMockRecorder) SaveOnboard(ctx, input interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveOnboard", reflect.TypeOf((*MockStore)(nil).SaveOnboard), ctx, input)
}

// SaveRedeem mocks base method.
func (m *MockStore) SaveRedeem(ctx context.Context, input store.SaveRedeemInput) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveRedeem", ctx, input)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveRedeem indicates an expected call of SaveRedeem.
func (mr *MockStoreMockRecorder) SaveRedeem(ctx, input interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveRedeem", reflect.TypeOf((*MockStore)(nil).SaveRedeem), ctx, input)
}

// SaveTransfer mocks base method.
func (m *MockStore) SaveTransfer(ctx context.Context, itemID uint64, newOwner string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveTransfer", ctx, itemID, newOwner)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveTransfer indicates an expected call of SaveTransfer.
func (mr *MockStoreMockRecorder) SaveTransfer(ctx, itemID, newOwner interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveTransfer", reflect.TypeOf((*MockStore)(nil).SaveTransfer), ctx, itemID, newOwner)
}

// SaveTypeRecord mocks base method.
func (m *MockStore) SaveTypeRecord(ctx context.Context, record *schema.StampType) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SaveTypeRecord", ctx, record)
	ret0, _ := ret[0].(error)
	return ret0
}

// SaveTypeRecord indicates an expected call of SaveTypeRecord.
func (mr *MockStoreMockRecorder) SaveTypeRecord(ctx, record interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SaveTypeRecord", reflect.TypeOf((*MockStore)(nil).SaveTypeRecord), ctx, record)
}

// SetWebhookClientActive mocks base method.
func (m *MockStore) SetWebhookClientActive(ctx context.Context, clientID string, active bool) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetWebhookClientActive", ctx, clientID, active)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetWebhookClientActive indicates an expected call of SetWebhookClientActive.
func (mr *MockStoreMockRecorder) SetWebhookClientActive(ctx, clientID, active interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetWebhookClientActive", reflect.TypeOf((*MockStore)(nil).SetWebhookClientActive), ctx, clientID, active)
}

// UpdateWebhookDeliveryStatus mocks base method.
func (m *MockStore) UpdateWebhookDeliveryStatus(ctx context.Context, deliveryID uint64, status schema.WebhookDeliveryStatus, attempts int, responseStatus *int, responseBody, errorMessage string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateWebhookDeliveryStatus", ctx, deliveryID, status, attempts, responseStatus, responseBody, errorMessage)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateWebhookDeliveryStatus indicates an expected call of UpdateWebhookDeliveryStatus.
func (mr *MockStoreMockRecorder) UpdateWebhookDeliveryStatus(ctx, deliveryID, status, attempts, responseStatus, responseBody, errorMessage interface{}) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateWebhookDeliveryStatus", reflect.TypeOf((*MockStore)(nil).UpdateWebhookDeliveryStatus), ctx, deliveryID, status, attempts, responseStatus, responseBody, errorMessage)
}
