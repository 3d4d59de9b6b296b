package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/stampbook/sb-registry/internal/adapter"
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/ledger"
	"github.com/stampbook/sb-registry/internal/logger"
	"github.com/stampbook/sb-registry/internal/messaging"
	"github.com/stampbook/sb-registry/internal/metrics"
	"github.com/stampbook/sb-registry/internal/store"
	"github.com/stampbook/sb-registry/internal/store/schema"
)

// Engine executes registry operations. A single lock serializes mutations;
// each one validates against the in-memory state, persists its whole effect in
// one store transaction (journal rows included), applies it to memory and the
// ledger, and finally publishes its notification best-effort.
type Engine struct {
	mu sync.RWMutex

	state     *State
	ledger    ledger.Ledger
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	metrics   *metrics.Metrics
}

// NewEngine creates an engine over a restored state
func NewEngine(state *State, ldg ledger.Ledger, st store.Store, pub messaging.Publisher, clock adapter.Clock, m *metrics.Metrics) *Engine {
	return &Engine{
		state:     state,
		ledger:    ldg,
		store:     st,
		publisher: pub,
		clock:     clock,
		metrics:   m,
	}
}

// RegisterTypeInput carries the caller-settable fields of a type record. For
// the primary type only the base URI is honored; the flags and description
// are forced.
type RegisterTypeInput struct {
	Transferable     bool
	BurnableByOwner  bool
	BurnableByIssuer bool
	BaseURI          string
	Description      string
}

// Bootstrap initializes the registry exactly once: the caller becomes the
// administrator and the first approved caller.
func (e *Engine) Bootstrap(ctx context.Context, caller domain.Address) (err error) {
	defer func() { e.metrics.ObserveOperation("bootstrap", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.initialized {
		return domain.ErrAlreadyInitialized
	}
	if caller.IsZero() {
		return domain.ErrInvalidAddress
	}

	event := e.newAuthorizationEvent(domain.AuthorizationChange{
		Address:  caller,
		Approved: true,
		ActedBy:  caller,
	})
	row, err := journalRow(event)
	if err != nil {
		return err
	}
	if err = e.store.SaveBootstrap(ctx, caller.String(), row); err != nil {
		return fmt.Errorf("failed to persist bootstrap: %w", err)
	}

	e.state.initialized = true
	e.state.administrator = caller
	e.state.approved[caller] = true

	e.publish(ctx, event)
	return nil
}

// TransferAdministration always fails: the administrator is fixed at
// bootstrap for the lifetime of the registry, for every caller.
func (e *Engine) TransferAdministration(_ context.Context, _, _ domain.Address) error {
	e.metrics.ObserveOperation("transfer_administration", domain.ErrOperationUnavailable)
	return domain.ErrOperationUnavailable
}

// SetApproved lets the administrator grant or revoke issuer permissions.
// Re-setting the current value is permitted and still emits an event.
func (e *Engine) SetApproved(ctx context.Context, caller, address domain.Address, approved bool) (err error) {
	defer func() { e.metrics.ObserveOperation("set_approved", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.initialized || caller != e.state.administrator {
		return domain.ErrUnauthorized
	}
	if address.IsZero() {
		return domain.ErrInvalidAddress
	}

	event := e.newAuthorizationEvent(domain.AuthorizationChange{
		Address:  address,
		Approved: approved,
		ActedBy:  caller,
	})
	row, err := journalRow(event)
	if err != nil {
		return err
	}
	if err = e.store.SaveCallerApproval(ctx, address.String(), approved, row); err != nil {
		return fmt.Errorf("failed to persist approval: %w", err)
	}

	e.state.approved[address] = approved

	e.publish(ctx, event)
	return nil
}

// RegisterType registers a new type record at the next sequential id
func (e *Engine) RegisterType(ctx context.Context, caller domain.Address, input RegisterTypeInput) (record domain.StampType, err error) {
	defer func() { e.metrics.ObserveOperation("register_type", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.putType(ctx, caller, e.state.nextTypeID, input)
}

// PutType registers or updates the record at an explicit type id. Ids extend
// the sequence one at a time: the next id registers a new type, a lower id
// overwrites the existing record in place, and anything higher is unknown.
func (e *Engine) PutType(ctx context.Context, caller domain.Address, typeID domain.TypeID, input RegisterTypeInput) (record domain.StampType, err error) {
	defer func() { e.metrics.ObserveOperation("register_type", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.putType(ctx, caller, typeID, input)
}

// putType persists and applies a type record under the held lock. The primary
// type keeps frozen all-false flags and the sentinel description no matter
// what the input says; only its base URI moves.
func (e *Engine) putType(ctx context.Context, caller domain.Address, typeID domain.TypeID, input RegisterTypeInput) (domain.StampType, error) {
	if !e.state.approved[caller] {
		return domain.StampType{}, domain.ErrUnauthorized
	}
	if typeID > e.state.nextTypeID {
		return domain.StampType{}, domain.ErrUnknownType
	}

	record := domain.StampType{
		TypeID:           typeID,
		Transferable:     input.Transferable,
		BurnableByOwner:  input.BurnableByOwner,
		BurnableByIssuer: input.BurnableByIssuer,
		BaseURI:          input.BaseURI,
		Description:      input.Description,
	}
	if typeID == domain.PrimaryTypeID {
		record.Transferable = false
		record.BurnableByOwner = false
		record.BurnableByIssuer = false
		record.Description = domain.PrimaryTypeDescription
	}

	if err := e.store.SaveTypeRecord(ctx, &schema.StampType{
		TypeID:           uint64(record.TypeID),
		Transferable:     record.Transferable,
		BurnableByOwner:  record.BurnableByOwner,
		BurnableByIssuer: record.BurnableByIssuer,
		BaseURI:          record.BaseURI,
		Description:      record.Description,
	}); err != nil {
		return domain.StampType{}, fmt.Errorf("failed to persist type record: %w", err)
	}

	if typeID == e.state.nextTypeID {
		e.state.nextTypeID++
	}
	e.state.types[typeID] = record

	return record, nil
}

// SetBaseURI updates the base URI of a registered type, leaving the rest of
// the record alone
func (e *Engine) SetBaseURI(ctx context.Context, caller domain.Address, typeID domain.TypeID, baseURI string) (err error) {
	defer func() { e.metrics.ObserveOperation("set_base_uri", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.approved[caller] {
		return domain.ErrUnauthorized
	}
	record, ok := e.state.types[typeID]
	if !ok {
		return domain.ErrUnknownType
	}

	if err = e.store.SaveBaseURI(ctx, uint64(typeID), baseURI); err != nil {
		return fmt.Errorf("failed to persist base URI: %w", err)
	}

	record.BaseURI = baseURI
	e.state.types[typeID] = record

	return nil
}

// Onboard mints a passport for a never-onboarded recipient and binds the
// onboarding hash to it. Type 0 need not be registered.
func (e *Engine) Onboard(ctx context.Context, caller, recipient domain.Address, hash domain.Hash) (id domain.ItemID, err error) {
	defer func() { e.metrics.ObserveOperation("onboard", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.approved[caller] {
		return 0, domain.ErrUnauthorized
	}
	if recipient.IsZero() {
		return 0, domain.ErrInvalidAddress
	}
	if hash.IsEmpty() {
		return 0, domain.ErrInvalidHash
	}
	if e.state.onboarded(recipient) {
		return 0, domain.ErrAlreadyOnboarded
	}
	if _, bound := e.state.hashOwner[hash]; bound {
		return 0, domain.ErrHashAlreadyBound
	}

	id = e.state.totalIssued

	if err = e.store.SaveOnboard(ctx, store.SaveOnboardInput{
		Item: schema.Item{
			ID:     uint64(id),
			TypeID: uint64(domain.PrimaryTypeID),
			Owner:  recipient.String(),
		},
		Binding: schema.HashBinding{Hash: hash.String(), Address: recipient.String()},
		Holding: schema.PrimaryHolding{Address: recipient.String(), Position: 0, ItemID: uint64(id)},
	}); err != nil {
		return 0, fmt.Errorf("failed to persist onboard: %w", err)
	}

	if err = e.ledger.Create(ctx, recipient, id); err != nil {
		return 0, fmt.Errorf("ledger create after persisted onboard: %w", err)
	}

	e.state.items[id] = &domain.Item{ID: id, TypeID: domain.PrimaryTypeID}
	e.state.hashOwner[hash] = recipient
	e.state.primaryHoldings[recipient] = append(e.state.primaryHoldings[recipient], id)
	e.state.totalIssued++

	e.metrics.AddItemsIssued(1)
	return id, nil
}

// CommitClaim records a single pending claim. See CommitClaimBatch.
func (e *Engine) CommitClaim(ctx context.Context, caller domain.Address, typeID domain.TypeID, hash domain.Hash) (domain.ItemID, error) {
	ids, err := e.CommitClaimBatch(ctx, caller, typeID, []domain.Hash{hash})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// CommitClaimBatch allocates one committed item per hash, in input order,
// atomically: any failing hash aborts the whole batch. A hash that is still
// unbound gets bound to the committer, making the committer the default
// redeemer; a hash bound to another address keeps its binding, so only that
// address can redeem the resulting claim.
func (e *Engine) CommitClaimBatch(ctx context.Context, caller domain.Address, typeID domain.TypeID, hashes []domain.Hash) (ids []domain.ItemID, err error) {
	defer func() { e.metrics.ObserveOperation("commit_claim", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.state.onboarded(caller) {
		return nil, domain.ErrUnauthorized
	}
	if len(hashes) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidHash)
	}
	if typeID >= e.state.nextTypeID {
		return nil, domain.ErrUnknownType
	}

	now := e.clock.Now()
	input := store.SaveClaimCommitsInput{
		Items:  make([]schema.Item, 0, len(hashes)),
		Events: make([]*schema.EventJournal, 0, len(hashes)),
	}
	ids = make([]domain.ItemID, 0, len(hashes))
	events := make([]domain.RegistryEvent, 0, len(hashes))

	// pending tracks hashes this batch binds, so a duplicate fresh hash fails
	// on its second occurrence exactly like a hash already bound to the caller
	pending := make(map[domain.Hash]bool, len(hashes))

	for i, hash := range hashes {
		if hash.IsEmpty() {
			return nil, domain.ErrInvalidHash
		}
		owner, bound := e.state.hashOwner[hash]
		if (bound && owner == caller) || pending[hash] {
			return nil, fmt.Errorf("%w: %s", domain.ErrHashAlreadyBound, hash)
		}
		if !bound {
			pending[hash] = true
			input.Bindings = append(input.Bindings, schema.HashBinding{
				Hash:    hash.String(),
				Address: caller.String(),
			})
		}

		id := e.state.totalIssued + domain.ItemID(i)
		ids = append(ids, id)
		input.Items = append(input.Items, schema.Item{
			ID:             uint64(id),
			TypeID:         uint64(typeID),
			Issuer:         caller.String(),
			CommitmentHash: hash.String(),
		})

		event := domain.NewClaimCommittedEvent(ulid.Make().String(), now, domain.ClaimCommitment{
			ItemID:     id,
			TypeID:     typeID,
			Issuer:     caller,
			Commitment: hash,
		})
		row, rowErr := journalRow(event)
		if rowErr != nil {
			return nil, rowErr
		}
		events = append(events, event)
		input.Events = append(input.Events, row)
	}

	if err = e.store.SaveClaimCommits(ctx, input); err != nil {
		return nil, fmt.Errorf("failed to persist commits: %w", err)
	}

	for i, hash := range hashes {
		id := ids[i]
		e.state.items[id] = &domain.Item{
			ID:         id,
			TypeID:     typeID,
			Issuer:     caller,
			Commitment: hash,
		}
		if _, bound := e.state.hashOwner[hash]; !bound {
			e.state.hashOwner[hash] = caller
		}
	}
	e.state.totalIssued += domain.ItemID(len(hashes))

	e.metrics.AddItemsIssued(len(hashes))
	e.publish(ctx, events...)
	return ids, nil
}

// RedeemClaim mints a committed item to the caller. The presented hash must
// match the item's pending commitment and be bound to the caller. The
// commitment clears on success; the hash binding never does.
func (e *Engine) RedeemClaim(ctx context.Context, caller domain.Address, itemID domain.ItemID, hash domain.Hash) (err error) {
	defer func() { e.metrics.ObserveOperation("redeem_claim", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	item := e.state.items[itemID]
	if hash.IsEmpty() || item == nil || item.Commitment != hash {
		return domain.ErrClaimMismatch
	}
	if e.state.hashOwner[hash] != caller {
		return domain.ErrClaimMismatch
	}

	// Stamps of non-transferable types pin to the redeemer's primary set
	record := e.state.types[item.TypeID]
	pinned := !record.Transferable

	input := store.SaveRedeemInput{ItemID: uint64(itemID), Owner: caller.String()}
	if pinned {
		input.Holding = &schema.PrimaryHolding{
			Address:  caller.String(),
			Position: len(e.state.primaryHoldings[caller]),
			ItemID:   uint64(itemID),
		}
	}

	if err = e.store.SaveRedeem(ctx, input); err != nil {
		return fmt.Errorf("failed to persist redemption: %w", err)
	}

	if err = e.ledger.Create(ctx, caller, itemID); err != nil {
		return fmt.Errorf("ledger create after persisted redemption: %w", err)
	}

	item.Commitment = domain.EmptyHash
	if pinned {
		e.state.primaryHoldings[caller] = append(e.state.primaryHoldings[caller], itemID)
	}

	e.metrics.IncrementClaimsRedeemed()
	return nil
}

// Burn destroys a minted stamp. The caller must be the current owner of a
// type burnable by its owner, or the recorded issuer of a type burnable by
// its issuer. Primary-holding entries keep the id.
func (e *Engine) Burn(ctx context.Context, caller domain.Address, itemID domain.ItemID) (err error) {
	defer func() { e.metrics.ObserveOperation("burn", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	owner, err := e.ledger.OwnerOf(ctx, itemID)
	if err != nil {
		return err
	}
	item := e.state.items[itemID]
	if item == nil {
		return ledger.ErrUnknownItem
	}

	record := e.state.types[item.TypeID]
	ownerMay := caller == owner && record.BurnableByOwner
	issuerMay := !item.Issuer.IsZero() && caller == item.Issuer && record.BurnableByIssuer
	if !ownerMay && !issuerMay {
		return domain.ErrUnauthorized
	}

	if err = e.store.SaveBurn(ctx, uint64(itemID)); err != nil {
		return fmt.Errorf("failed to persist burn: %w", err)
	}

	if err = e.ledger.Destroy(ctx, itemID); err != nil {
		return fmt.Errorf("ledger destroy after persisted burn: %w", err)
	}

	item.Burned = true
	return nil
}

// Transfer moves a stamp between holders. The type policy comes first: the
// primary type never transfers, other types only when their record allows it.
// Existence and ownership enforcement stay with the ledger.
func (e *Engine) Transfer(ctx context.Context, from, to domain.Address, itemID domain.ItemID) (err error) {
	defer func() { e.metrics.ObserveOperation("transfer", err) }()

	e.mu.Lock()
	defer e.mu.Unlock()

	if to.IsZero() {
		return domain.ErrInvalidAddress
	}

	// An unallocated id reads as the primary type
	typeID := domain.PrimaryTypeID
	if item := e.state.items[itemID]; item != nil {
		typeID = item.TypeID
	}
	if typeID == domain.PrimaryTypeID {
		return domain.ErrNotTransferable
	}
	if record := e.state.types[typeID]; !record.Transferable {
		return domain.ErrNotTransferable
	}

	// Ownership preflight so the post-persist ledger move cannot fail
	owner, err := e.ledger.OwnerOf(ctx, itemID)
	if err != nil {
		return err
	}
	if owner != from {
		return ledger.ErrNotOwner
	}

	if err = e.store.SaveTransfer(ctx, uint64(itemID), to.String()); err != nil {
		return fmt.Errorf("failed to persist transfer: %w", err)
	}

	if err = e.ledger.Transfer(ctx, from, to, itemID); err != nil {
		return fmt.Errorf("ledger transfer after persisted transfer: %w", err)
	}

	return nil
}

// ResolveMetadata returns the metadata URI of an existing stamp: the type's
// base URI plus the decimal id plus ".json", or "" when the type has no base
// URI (or no record at all).
func (e *Engine) ResolveMetadata(ctx context.Context, itemID domain.ItemID) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := e.ledger.OwnerOf(ctx, itemID); err != nil {
		return "", err
	}
	item := e.state.items[itemID]
	if item == nil {
		return "", ledger.ErrUnknownItem
	}

	record := e.state.types[item.TypeID]
	return domain.MetadataURI(record.BaseURI, itemID), nil
}

func (e *Engine) newAuthorizationEvent(change domain.AuthorizationChange) domain.RegistryEvent {
	return domain.NewAuthorizationChangedEvent(ulid.Make().String(), e.clock.Now(), change)
}

// journalRow converts an event envelope into its durable journal form
func journalRow(event domain.RegistryEvent) (*schema.EventJournal, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return &schema.EventJournal{
		EventID:   event.EventID,
		EventType: string(event.EventType),
		Payload:   payload,
		EmittedAt: event.Timestamp,
	}, nil
}

// publish pushes events to the broker. The journal row written with the
// operation is the durable record, so a failed publish is only logged.
func (e *Engine) publish(ctx context.Context, events ...domain.RegistryEvent) {
	if e.publisher == nil {
		return
	}
	for i := range events {
		if err := e.publisher.PublishEvent(ctx, &events[i]); err != nil {
			logger.ErrorCtx(ctx, errors.New("failed to publish registry event"),
				zap.String("event_id", events[i].EventID),
				zap.String("event_type", string(events[i].EventType)),
				zap.Error(err))
		}
	}
}
