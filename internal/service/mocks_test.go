package service

import (
	"context"

	"github.com/iliyamo/transit-ticket-market/internal/model"
	"github.com/iliyamo/transit-ticket-market/internal/payment"
)

// Function-field mocks for the store interfaces. Tests set only the
// fields the code under test is expected to reach; an unexpected call
// panics on the nil function and fails the test loudly.

type mockUserStore struct {
	upsertByEmailFn func(ctx context.Context, email, name, photoURL string) (model.User, error)
	getByEmailFn    func(ctx context.Context, email string) (model.User, error)
	getByIDFn       func(ctx context.Context, id uint64) (model.User, error)
	listFn          func(ctx context.Context) ([]model.User, error)
	updateRoleFn    func(ctx context.Context, id uint64, role string) error
	updateProfileFn func(ctx context.Context, id uint64, name, photoURL string) error
	setFraudFn      func(ctx context.Context, userID uint64, vendorEmail string, fraud bool) (int64, error)
}

func (m *mockUserStore) UpsertByEmail(ctx context.Context, email, name, photoURL string) (model.User, error) {
	return m.upsertByEmailFn(ctx, email, name, photoURL)
}
func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return m.getByEmailFn(ctx, email)
}
func (m *mockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockUserStore) List(ctx context.Context) ([]model.User, error) {
	return m.listFn(ctx)
}
func (m *mockUserStore) UpdateRole(ctx context.Context, id uint64, role string) error {
	return m.updateRoleFn(ctx, id, role)
}
func (m *mockUserStore) UpdateProfile(ctx context.Context, id uint64, name, photoURL string) error {
	return m.updateProfileFn(ctx, id, name, photoURL)
}
func (m *mockUserStore) SetFraud(ctx context.Context, userID uint64, vendorEmail string, fraud bool) (int64, error) {
	return m.setFraudFn(ctx, userID, vendorEmail, fraud)
}

type mockTicketStore struct {
	insertFn          func(ctx context.Context, t *model.Ticket) error
	getByIDFn         func(ctx context.Context, id uint64) (model.Ticket, error)
	listPublicFn      func(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error)
	listByVendorFn    func(ctx context.Context, vendorEmail string) ([]model.Ticket, error)
	listAllFn         func(ctx context.Context) ([]model.Ticket, error)
	listAdvertisedFn  func(ctx context.Context) ([]model.Ticket, error)
	listLatestFn      func(ctx context.Context, n int) ([]model.Ticket, error)
	updateFn          func(ctx context.Context, id uint64, p model.TicketPatch) error
	deleteFn          func(ctx context.Context, id uint64) error
	setVerificationFn func(ctx context.Context, id uint64, verification string) error
	setAdvertisedFn   func(ctx context.Context, id uint64, on bool) error
	countAdvertisedFn func(ctx context.Context) (int, error)
	countByVendorFn   func(ctx context.Context, vendorEmail string) (int, error)
}

func (m *mockTicketStore) Insert(ctx context.Context, t *model.Ticket) error {
	return m.insertFn(ctx, t)
}
func (m *mockTicketStore) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockTicketStore) ListPublic(ctx context.Context, f model.TicketFilter) ([]model.Ticket, error) {
	return m.listPublicFn(ctx, f)
}
func (m *mockTicketStore) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Ticket, error) {
	return m.listByVendorFn(ctx, vendorEmail)
}
func (m *mockTicketStore) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return m.listAllFn(ctx)
}
func (m *mockTicketStore) ListAdvertised(ctx context.Context) ([]model.Ticket, error) {
	return m.listAdvertisedFn(ctx)
}
func (m *mockTicketStore) ListLatest(ctx context.Context, n int) ([]model.Ticket, error) {
	return m.listLatestFn(ctx, n)
}
func (m *mockTicketStore) Update(ctx context.Context, id uint64, p model.TicketPatch) error {
	return m.updateFn(ctx, id, p)
}
func (m *mockTicketStore) Delete(ctx context.Context, id uint64) error {
	return m.deleteFn(ctx, id)
}
func (m *mockTicketStore) SetVerification(ctx context.Context, id uint64, verification string) error {
	return m.setVerificationFn(ctx, id, verification)
}
func (m *mockTicketStore) SetAdvertised(ctx context.Context, id uint64, on bool) error {
	return m.setAdvertisedFn(ctx, id, on)
}
func (m *mockTicketStore) CountAdvertised(ctx context.Context) (int, error) {
	if m.countAdvertisedFn == nil {
		return 0, nil
	}
	return m.countAdvertisedFn(ctx)
}
func (m *mockTicketStore) CountByVendor(ctx context.Context, vendorEmail string) (int, error) {
	return m.countByVendorFn(ctx, vendorEmail)
}

type mockBookingStore struct {
	createFn           func(ctx context.Context, b *model.Booking) error
	getByIDFn          func(ctx context.Context, id uint64) (model.Booking, error)
	listByUserFn       func(ctx context.Context, userID uint64) ([]model.Booking, error)
	listByVendorFn     func(ctx context.Context, vendorEmail string) ([]model.Booking, error)
	listAllFn          func(ctx context.Context) ([]model.Booking, error)
	updateStatusFromFn func(ctx context.Context, id uint64, from, to string) (bool, error)
	deletePendingFn    func(ctx context.Context, id uint64) (bool, error)
	revenueByVendorFn  func(ctx context.Context, vendorEmail string) (model.VendorRevenue, error)
}

func (m *mockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	return m.createFn(ctx, b)
}
func (m *mockBookingStore) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockBookingStore) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return m.listByUserFn(ctx, userID)
}
func (m *mockBookingStore) ListByVendor(ctx context.Context, vendorEmail string) ([]model.Booking, error) {
	return m.listByVendorFn(ctx, vendorEmail)
}
func (m *mockBookingStore) ListAll(ctx context.Context) ([]model.Booking, error) {
	return m.listAllFn(ctx)
}
func (m *mockBookingStore) UpdateStatusFrom(ctx context.Context, id uint64, from, to string) (bool, error) {
	return m.updateStatusFromFn(ctx, id, from, to)
}
func (m *mockBookingStore) DeletePending(ctx context.Context, id uint64) (bool, error) {
	return m.deletePendingFn(ctx, id)
}
func (m *mockBookingStore) RevenueByVendor(ctx context.Context, vendorEmail string) (model.VendorRevenue, error) {
	return m.revenueByVendorFn(ctx, vendorEmail)
}

type mockTransactionStore struct {
	settleFn     func(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error)
	listByUserFn func(ctx context.Context, userID uint64) ([]model.Transaction, error)
}

func (m *mockTransactionStore) Settle(ctx context.Context, b model.Booking, paymentRef string) (model.Transaction, error) {
	return m.settleFn(ctx, b, paymentRef)
}
func (m *mockTransactionStore) ListByUser(ctx context.Context, userID uint64) ([]model.Transaction, error) {
	return m.listByUserFn(ctx, userID)
}

// mockPublisher records published events; Publish never fails.
type mockPublisher struct {
	queues []string
	events []any
}

func (m *mockPublisher) Publish(ctx context.Context, queueName string, event any) error {
	m.queues = append(m.queues, queueName)
	m.events = append(m.events, event)
	return nil
}

type mockGateway struct {
	createIntentFn func(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.Intent, error)
	retrieveFn     func(ctx context.Context, id string) (string, error)
}

func (m *mockGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (payment.Intent, error) {
	return m.createIntentFn(ctx, amountMinor, currency, metadata)
}
func (m *mockGateway) Retrieve(ctx context.Context, id string) (string, error) {
	return m.retrieveFn(ctx, id)
}
