package registry

import (
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/store"
)

// State holds every mutable registry fact. The engine serializes all access
// with its own lock; State carries none of its own.
type State struct {
	initialized   bool
	administrator domain.Address

	approved map[domain.Address]bool

	types      map[domain.TypeID]domain.StampType
	nextTypeID domain.TypeID

	items       map[domain.ItemID]*domain.Item
	totalIssued domain.ItemID

	hashOwner       map[domain.Hash]domain.Address
	primaryHoldings map[domain.Address][]domain.ItemID
}

// NewState returns the empty, pre-bootstrap state
func NewState() *State {
	return &State{
		approved:        make(map[domain.Address]bool),
		types:           make(map[domain.TypeID]domain.StampType),
		items:           make(map[domain.ItemID]*domain.Item),
		hashOwner:       make(map[domain.Hash]domain.Address),
		primaryHoldings: make(map[domain.Address][]domain.ItemID),
	}
}

// NewStateFromSnapshot rebuilds the state from persisted rows. The returned
// owner map holds every live item and seeds the memory ledger at boot.
func NewStateFromSnapshot(snapshot *store.Snapshot) (*State, map[domain.ItemID]domain.Address) {
	state := NewState()

	state.initialized = snapshot.Initialized
	state.administrator = domain.Address(snapshot.Administrator)

	for _, row := range snapshot.ApprovedCallers {
		state.approved[domain.Address(row.Address)] = row.Approved
	}

	for _, row := range snapshot.Types {
		record := domain.StampType{
			TypeID:           domain.TypeID(row.TypeID),
			Transferable:     row.Transferable,
			BurnableByOwner:  row.BurnableByOwner,
			BurnableByIssuer: row.BurnableByIssuer,
			BaseURI:          row.BaseURI,
			Description:      row.Description,
		}
		state.types[record.TypeID] = record
		if record.TypeID >= state.nextTypeID {
			state.nextTypeID = record.TypeID + 1
		}
	}

	owners := make(map[domain.ItemID]domain.Address)
	for _, row := range snapshot.Items {
		item := &domain.Item{
			ID:         domain.ItemID(row.ID),
			TypeID:     domain.TypeID(row.TypeID),
			Issuer:     domain.Address(row.Issuer),
			Commitment: domain.Hash(row.CommitmentHash),
			Burned:     row.Burned,
		}
		state.items[item.ID] = item
		if item.ID >= state.totalIssued {
			state.totalIssued = item.ID + 1
		}
		if row.Owner != "" && !row.Burned {
			owners[item.ID] = domain.Address(row.Owner)
		}
	}

	for _, row := range snapshot.Bindings {
		state.hashOwner[domain.Hash(row.Hash)] = domain.Address(row.Address)
	}

	// Holdings arrive ordered by address then position
	for _, row := range snapshot.Holdings {
		address := domain.Address(row.Address)
		state.primaryHoldings[address] = append(state.primaryHoldings[address], domain.ItemID(row.ItemID))
	}

	return state, owners
}

// onboarded reports whether the address holds at least one pinned stamp
func (s *State) onboarded(address domain.Address) bool {
	return len(s.primaryHoldings[address]) > 0
}
