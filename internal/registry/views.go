package registry

import (
	"context"
	"sort"

	"github.com/stampbook/sb-registry/internal/domain"
)

// Info summarizes the registry
type Info struct {
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	SchemaVersion int            `json:"schema_version"`
	Initialized   bool           `json:"initialized"`
	Administrator domain.Address `json:"administrator,omitempty"`
	TotalIssued   uint64         `json:"total_issued"`
	NextTypeID    uint64         `json:"next_type_id"`
}

// ItemView is the external projection of a stamp. Owner is filled from the
// ledger and stays empty while a claim is pending or after a burn.
type ItemView struct {
	ID          domain.ItemID     `json:"id"`
	TypeID      domain.TypeID     `json:"type_id"`
	State       domain.ClaimState `json:"state"`
	Issuer      domain.Address    `json:"issuer,omitempty"`
	Owner       domain.Address    `json:"owner,omitempty"`
	Pending     bool              `json:"pending"`
	Burned      bool              `json:"burned"`
	MetadataURI string            `json:"metadata_uri,omitempty"`
}

// AddressView is the external projection of an account
type AddressView struct {
	Address   domain.Address  `json:"address"`
	Approved  bool            `json:"approved"`
	Onboarded bool            `json:"onboarded"`
	Holdings  []domain.ItemID `json:"holdings"`
}

// Info returns the registry summary
func (e *Engine) Info() Info {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return Info{
		Name:          domain.RegistryName,
		Symbol:        domain.RegistrySymbol,
		SchemaVersion: domain.SchemaVersion,
		Initialized:   e.state.initialized,
		Administrator: e.state.administrator,
		TotalIssued:   uint64(e.state.totalIssued),
		NextTypeID:    uint64(e.state.nextTypeID),
	}
}

// TypeRecord returns the record of a registered type
func (e *Engine) TypeRecord(typeID domain.TypeID) (domain.StampType, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	record, ok := e.state.types[typeID]
	return record, ok
}

// Types returns every registered type in id order
func (e *Engine) Types() []domain.StampType {
	e.mu.RLock()
	defer e.mu.RUnlock()

	records := make([]domain.StampType, 0, len(e.state.types))
	for _, record := range e.state.types {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].TypeID < records[j].TypeID })
	return records
}

// Item returns the projection of an allocated stamp
func (e *Engine) Item(ctx context.Context, itemID domain.ItemID) (ItemView, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	item := e.state.items[itemID]
	if item == nil {
		return ItemView{}, false
	}

	view := ItemView{
		ID:      item.ID,
		TypeID:  item.TypeID,
		State:   item.State(),
		Issuer:  item.Issuer,
		Pending: item.Pending(),
		Burned:  item.Burned,
	}
	if owner, err := e.ledger.OwnerOf(ctx, itemID); err == nil {
		view.Owner = owner
	}
	if record, ok := e.state.types[item.TypeID]; ok {
		view.MetadataURI = domain.MetadataURI(record.BaseURI, itemID)
	}
	return view, true
}

// Address returns the projection of an account. Unknown accounts resolve to
// an all-false view with empty holdings.
func (e *Engine) Address(address domain.Address) AddressView {
	e.mu.RLock()
	defer e.mu.RUnlock()

	holdings := e.state.primaryHoldings[address]
	view := AddressView{
		Address:   address,
		Approved:  e.state.approved[address],
		Onboarded: e.state.onboarded(address),
		Holdings:  make([]domain.ItemID, len(holdings)),
	}
	copy(view.Holdings, holdings)
	return view
}

// HashBinding returns the address a hash is bound to
func (e *Engine) HashBinding(hash domain.Hash) (domain.Address, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	address, ok := e.state.hashOwner[hash]
	return address, ok
}

// IsApproved reports whether an address holds issuer permissions
func (e *Engine) IsApproved(address domain.Address) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.state.approved[address]
}

// OwnerOf resolves the current holder of a minted stamp
func (e *Engine) OwnerOf(ctx context.Context, itemID domain.ItemID) (domain.Address, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.ledger.OwnerOf(ctx, itemID)
}
