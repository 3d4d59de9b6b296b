package store

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/store/schema"
)

const (
	testAdmin   = "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"
	testIssuer  = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	testHolder  = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
	testStray   = "0xdBF03B407c01E7cD3CBea99509d93f8DDDC8C6FB"
	testHashOne = "0x1111111111111111111111111111111111111111111111111111111111111111"
	testHashTwo = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

// =============================================================================
// Test Data Builders
// =============================================================================

// buildTestEvent creates a journal row with a fresh ULID
func buildTestEvent(t *testing.T, eventType domain.RegistryEventType) *schema.EventJournal {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"event_type": string(eventType)})
	require.NoError(t, err)

	return &schema.EventJournal{
		EventID:   ulid.Make().String(),
		EventType: string(eventType),
		Payload:   payload,
		EmittedAt: time.Now().UTC(),
	}
}

// buildTestClient creates a webhook client input with the given filters
func buildTestClient(clientID string, filters ...string) CreateWebhookClientInput {
	filterJSON, _ := json.Marshal(filters)
	return CreateWebhookClientInput{
		ClientID:         clientID,
		Description:      "test client " + clientID,
		WebhookURL:       "https://webhook.example.com/" + clientID,
		WebhookSecret:    "secret-" + clientID,
		EventFilters:     datatypes.JSON(filterJSON),
		IsActive:         true,
		RetryMaxAttempts: 3,
	}
}

// seedCommittedItem persists one committed item with a fresh binding
func seedCommittedItem(t *testing.T, store Store, itemID uint64, hash string) {
	t.Helper()

	err := store.SaveClaimCommits(context.Background(), SaveClaimCommitsInput{
		Items: []schema.Item{{
			ID:             itemID,
			TypeID:         1,
			Issuer:         testIssuer,
			CommitmentHash: hash,
		}},
		Bindings: []schema.HashBinding{{Hash: hash, Address: testIssuer}},
		Events:   []*schema.EventJournal{buildTestEvent(t, domain.EventClaimCommitted)},
	})
	require.NoError(t, err)
}

// =============================================================================
// Test Functions
// =============================================================================

func testLoadStateEmpty(t *testing.T, store Store) {
	ctx := context.Background()

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)

	assert.False(t, snapshot.Initialized)
	assert.Empty(t, snapshot.Administrator)
	assert.Empty(t, snapshot.ApprovedCallers)
	assert.Empty(t, snapshot.Types)
	assert.Empty(t, snapshot.Items)
	assert.Empty(t, snapshot.Bindings)
	assert.Empty(t, snapshot.Holdings)
}

func testSaveBootstrap(t *testing.T, store Store) {
	ctx := context.Background()

	err := store.SaveBootstrap(ctx, testAdmin, buildTestEvent(t, domain.EventAuthorizationChanged))
	require.NoError(t, err)

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)
	assert.True(t, snapshot.Initialized)
	assert.Equal(t, testAdmin, snapshot.Administrator)
	require.Len(t, snapshot.ApprovedCallers, 1)
	assert.Equal(t, testAdmin, snapshot.ApprovedCallers[0].Address)
	assert.True(t, snapshot.ApprovedCallers[0].Approved)

	events, total, err := store.GetEvents(ctx, EventQueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, string(domain.EventAuthorizationChanged), events[0].EventType)
}

func testSaveCallerApproval(t *testing.T, store Store) {
	ctx := context.Background()

	err := store.SaveCallerApproval(ctx, testIssuer, true, buildTestEvent(t, domain.EventAuthorizationChanged))
	require.NoError(t, err)

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.ApprovedCallers, 1)
	assert.True(t, snapshot.ApprovedCallers[0].Approved)

	// Revoking keeps the row, flips the flag, and journals a second event
	err = store.SaveCallerApproval(ctx, testIssuer, false, buildTestEvent(t, domain.EventAuthorizationChanged))
	require.NoError(t, err)

	snapshot, err = store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.ApprovedCallers, 1)
	assert.Equal(t, testIssuer, snapshot.ApprovedCallers[0].Address)
	assert.False(t, snapshot.ApprovedCallers[0].Approved)

	_, total, err := store.GetEvents(ctx, EventQueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
}

func testTypeRecords(t *testing.T, store Store) {
	ctx := context.Background()

	err := store.SaveTypeRecord(ctx, &schema.StampType{
		TypeID:          0,
		BurnableByOwner: true,
		Description:     "passport",
	})
	require.NoError(t, err)

	err = store.SaveTypeRecord(ctx, &schema.StampType{
		TypeID:       1,
		Transferable: true,
		BaseURI:      "https://meta.stampbook.example/v1/",
		Description:  "event badge",
	})
	require.NoError(t, err)

	t.Run("SaveBaseURI updates a registered type", func(t *testing.T) {
		err := store.SaveBaseURI(ctx, 0, "ipfs://QmPassports/")
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Types, 2)
		assert.Equal(t, uint64(0), snapshot.Types[0].TypeID)
		assert.Equal(t, "ipfs://QmPassports/", snapshot.Types[0].BaseURI)
		assert.True(t, snapshot.Types[0].BurnableByOwner)
		assert.Equal(t, uint64(1), snapshot.Types[1].TypeID)
		assert.True(t, snapshot.Types[1].Transferable)
	})

	t.Run("SaveBaseURI fails for an unregistered type", func(t *testing.T) {
		err := store.SaveBaseURI(ctx, 9, "ipfs://QmNowhere/")
		assert.Error(t, err)
	})

	t.Run("SaveTypeRecord overwrites an existing id in place", func(t *testing.T) {
		err := store.SaveTypeRecord(ctx, &schema.StampType{
			TypeID:           1,
			BurnableByIssuer: true,
			BaseURI:          "https://meta.stampbook.example/v2/",
			Description:      "retired badge",
		})
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Types, 2)
		assert.Equal(t, uint64(1), snapshot.Types[1].TypeID)
		assert.False(t, snapshot.Types[1].Transferable)
		assert.True(t, snapshot.Types[1].BurnableByIssuer)
		assert.Equal(t, "https://meta.stampbook.example/v2/", snapshot.Types[1].BaseURI)
		assert.Equal(t, "retired badge", snapshot.Types[1].Description)
	})
}

func testSaveOnboard(t *testing.T, store Store) {
	ctx := context.Background()

	err := store.SaveOnboard(ctx, SaveOnboardInput{
		Item:    schema.Item{ID: 0, TypeID: 0, Owner: testHolder},
		Binding: schema.HashBinding{Hash: testHashOne, Address: testHolder},
		Holding: schema.PrimaryHolding{Address: testHolder, Position: 0, ItemID: 0},
	})
	require.NoError(t, err)

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, uint64(0), snapshot.Items[0].ID)
	assert.Equal(t, uint64(0), snapshot.Items[0].TypeID)
	assert.Empty(t, snapshot.Items[0].Issuer)
	assert.Equal(t, testHolder, snapshot.Items[0].Owner)
	require.Len(t, snapshot.Bindings, 1)
	assert.Equal(t, testHashOne, snapshot.Bindings[0].Hash)
	assert.Equal(t, testHolder, snapshot.Bindings[0].Address)
	require.Len(t, snapshot.Holdings, 1)
	assert.Equal(t, uint64(0), snapshot.Holdings[0].ItemID)

	t.Run("duplicate binding aborts the whole write", func(t *testing.T) {
		err := store.SaveOnboard(ctx, SaveOnboardInput{
			Item:    schema.Item{ID: 1, TypeID: 0, Owner: testStray},
			Binding: schema.HashBinding{Hash: testHashOne, Address: testStray},
			Holding: schema.PrimaryHolding{Address: testStray, Position: 0, ItemID: 1},
		})
		assert.Error(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot.Items, 1)
		assert.Len(t, snapshot.Holdings, 1)
	})
}

func testSaveClaimCommits(t *testing.T, store Store) {
	ctx := context.Background()

	err := store.SaveClaimCommits(ctx, SaveClaimCommitsInput{
		Items: []schema.Item{
			{ID: 0, TypeID: 1, Issuer: testIssuer, CommitmentHash: testHashOne},
			{ID: 1, TypeID: 1, Issuer: testIssuer, CommitmentHash: testHashTwo},
		},
		Bindings: []schema.HashBinding{
			{Hash: testHashOne, Address: testIssuer},
			{Hash: testHashTwo, Address: testIssuer},
		},
		Events: []*schema.EventJournal{
			buildTestEvent(t, domain.EventClaimCommitted),
			buildTestEvent(t, domain.EventClaimCommitted),
		},
	})
	require.NoError(t, err)

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, testHashOne, snapshot.Items[0].CommitmentHash)
	assert.Equal(t, testHashTwo, snapshot.Items[1].CommitmentHash)
	assert.Len(t, snapshot.Bindings, 2)

	events, total, err := store.GetEvents(ctx, EventQueryFilter{EventType: string(domain.EventClaimCommitted)})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), total)
	assert.Len(t, events, 2)

	t.Run("commit against an existing binding writes no new binding row", func(t *testing.T) {
		err := store.SaveClaimCommits(ctx, SaveClaimCommitsInput{
			Items: []schema.Item{
				{ID: 2, TypeID: 1, Issuer: testStray, CommitmentHash: testHashOne},
			},
			Events: []*schema.EventJournal{buildTestEvent(t, domain.EventClaimCommitted)},
		})
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot.Items, 3)
		assert.Len(t, snapshot.Bindings, 2)
	})
}

func testSaveRedeem(t *testing.T, store Store) {
	ctx := context.Background()
	seedCommittedItem(t, store, 0, testHashOne)

	err := store.SaveRedeem(ctx, SaveRedeemInput{
		ItemID: 0,
		Owner:  testIssuer,
		Holding: &schema.PrimaryHolding{
			Address:  testIssuer,
			Position: 0,
			ItemID:   0,
		},
	})
	require.NoError(t, err)

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot.Items, 1)
	assert.Empty(t, snapshot.Items[0].CommitmentHash)
	assert.Equal(t, testIssuer, snapshot.Items[0].Owner)
	// The binding outlives the redemption
	require.Len(t, snapshot.Bindings, 1)
	require.Len(t, snapshot.Holdings, 1)
	assert.Equal(t, uint64(0), snapshot.Holdings[0].ItemID)

	t.Run("redeem of a transferable item skips the holding entry", func(t *testing.T) {
		seedCommittedItem(t, store, 1, testHashTwo)

		err := store.SaveRedeem(ctx, SaveRedeemInput{ItemID: 1, Owner: testIssuer})
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Len(t, snapshot.Holdings, 1)
	})

	t.Run("unknown item id fails", func(t *testing.T) {
		err := store.SaveRedeem(ctx, SaveRedeemInput{ItemID: 42, Owner: testIssuer})
		assert.Error(t, err)
	})
}

func testSaveBurnAndTransfer(t *testing.T, store Store) {
	ctx := context.Background()
	seedCommittedItem(t, store, 0, testHashOne)
	require.NoError(t, store.SaveRedeem(ctx, SaveRedeemInput{ItemID: 0, Owner: testIssuer}))

	t.Run("transfer rewrites the owner", func(t *testing.T) {
		err := store.SaveTransfer(ctx, 0, testHolder)
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		assert.Equal(t, testHolder, snapshot.Items[0].Owner)
	})

	t.Run("burn marks the row and clears the owner", func(t *testing.T) {
		err := store.SaveBurn(ctx, 0)
		require.NoError(t, err)

		snapshot, err := store.LoadState(ctx)
		require.NoError(t, err)
		require.Len(t, snapshot.Items, 1)
		assert.True(t, snapshot.Items[0].Burned)
		assert.Empty(t, snapshot.Items[0].Owner)
	})

	t.Run("unknown item ids fail", func(t *testing.T) {
		assert.Error(t, store.SaveTransfer(ctx, 42, testHolder))
		assert.Error(t, store.SaveBurn(ctx, 42))
	})
}

func testSnapshotRoundTrip(t *testing.T, store Store) {
	ctx := context.Background()

	// Replay a full registry lifecycle and read it back as one snapshot
	require.NoError(t, store.SaveBootstrap(ctx, testAdmin, buildTestEvent(t, domain.EventAuthorizationChanged)))
	require.NoError(t, store.SaveCallerApproval(ctx, testIssuer, true, buildTestEvent(t, domain.EventAuthorizationChanged)))
	require.NoError(t, store.SaveTypeRecord(ctx, &schema.StampType{TypeID: 0, BurnableByOwner: true}))
	require.NoError(t, store.SaveTypeRecord(ctx, &schema.StampType{TypeID: 1, BaseURI: "ipfs://QmBadges/"}))
	require.NoError(t, store.SaveOnboard(ctx, SaveOnboardInput{
		Item:    schema.Item{ID: 0, TypeID: 0, Owner: testHolder},
		Binding: schema.HashBinding{Hash: testHashOne, Address: testHolder},
		Holding: schema.PrimaryHolding{Address: testHolder, Position: 0, ItemID: 0},
	}))
	require.NoError(t, store.SaveClaimCommits(ctx, SaveClaimCommitsInput{
		Items:    []schema.Item{{ID: 1, TypeID: 1, Issuer: testIssuer, CommitmentHash: testHashTwo}},
		Bindings: []schema.HashBinding{{Hash: testHashTwo, Address: testIssuer}},
		Events:   []*schema.EventJournal{buildTestEvent(t, domain.EventClaimCommitted)},
	}))
	require.NoError(t, store.SaveRedeem(ctx, SaveRedeemInput{
		ItemID:  1,
		Owner:   testIssuer,
		Holding: &schema.PrimaryHolding{Address: testIssuer, Position: 0, ItemID: 1},
	}))

	snapshot, err := store.LoadState(ctx)
	require.NoError(t, err)

	assert.True(t, snapshot.Initialized)
	assert.Equal(t, testAdmin, snapshot.Administrator)
	assert.Len(t, snapshot.ApprovedCallers, 2)
	assert.Len(t, snapshot.Types, 2)
	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, testHolder, snapshot.Items[0].Owner)
	assert.Equal(t, testIssuer, snapshot.Items[1].Owner)
	assert.Empty(t, snapshot.Items[1].CommitmentHash)
	assert.Len(t, snapshot.Bindings, 2)

	// Holdings come back ordered by address then position
	require.Len(t, snapshot.Holdings, 2)
	for i := 1; i < len(snapshot.Holdings); i++ {
		prev, cur := snapshot.Holdings[i-1], snapshot.Holdings[i]
		if prev.Address == cur.Address {
			assert.Less(t, prev.Position, cur.Position)
		} else {
			assert.Less(t, prev.Address, cur.Address)
		}
	}

	_, total, err := store.GetEvents(ctx, EventQueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), total)
}

func testGetEvents(t *testing.T, store Store) {
	ctx := context.Background()

	require.NoError(t, store.SaveBootstrap(ctx, testAdmin, buildTestEvent(t, domain.EventAuthorizationChanged)))

	var items []schema.Item
	var events []*schema.EventJournal
	for i := 0; i < 5; i++ {
		items = append(items, schema.Item{
			ID:             uint64(i),
			TypeID:         1,
			Issuer:         testIssuer,
			CommitmentHash: fmt.Sprintf("0x%064d", i+1),
		})
		events = append(events, buildTestEvent(t, domain.EventClaimCommitted))
	}
	require.NoError(t, store.SaveClaimCommits(ctx, SaveClaimCommitsInput{Items: items, Events: events}))

	t.Run("unfiltered page in cursor order", func(t *testing.T) {
		page, total, err := store.GetEvents(ctx, EventQueryFilter{})
		require.NoError(t, err)
		assert.Equal(t, uint64(6), total)
		require.Len(t, page, 6)
		for i := 1; i < len(page); i++ {
			assert.Greater(t, page[i].Cursor, page[i-1].Cursor)
		}
	})

	t.Run("event type filter", func(t *testing.T) {
		page, total, err := store.GetEvents(ctx, EventQueryFilter{EventType: string(domain.EventAuthorizationChanged)})
		require.NoError(t, err)
		assert.Equal(t, uint64(1), total)
		require.Len(t, page, 1)
		assert.Equal(t, string(domain.EventAuthorizationChanged), page[0].EventType)
	})

	t.Run("cursor pagination", func(t *testing.T) {
		first, _, err := store.GetEvents(ctx, EventQueryFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, first, 2)

		after := first[1].Cursor
		rest, total, err := store.GetEvents(ctx, EventQueryFilter{AfterCursor: &after})
		require.NoError(t, err)
		assert.Equal(t, uint64(4), total)
		require.Len(t, rest, 4)
		assert.Greater(t, rest[0].Cursor, after)
	})

	t.Run("limit caps the page not the total", func(t *testing.T) {
		page, total, err := store.GetEvents(ctx, EventQueryFilter{Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, uint64(6), total)
		assert.Len(t, page, 3)
	})
}

func testWebhookClients(t *testing.T, store Store) {
	ctx := context.Background()

	wildcard, err := store.CreateWebhookClient(ctx, buildTestClient("client-wildcard", "*"))
	require.NoError(t, err)
	assert.NotZero(t, wildcard.ID)

	claims, err := store.CreateWebhookClient(ctx, buildTestClient("client-claims", "claim.committed"))
	require.NoError(t, err)

	_, err = store.CreateWebhookClient(ctx, buildTestClient("client-auth", "authorization.changed"))
	require.NoError(t, err)

	t.Run("GetActiveWebhookClientsByEventType matches filters and wildcard", func(t *testing.T) {
		matched, err := store.GetActiveWebhookClientsByEventType(ctx, "claim.committed")
		require.NoError(t, err)
		require.Len(t, matched, 2)

		ids := []string{matched[0].ClientID, matched[1].ClientID}
		assert.Contains(t, ids, "client-wildcard")
		assert.Contains(t, ids, "client-claims")
	})

	t.Run("GetWebhookClientByID", func(t *testing.T) {
		found, err := store.GetWebhookClientByID(ctx, claims.ClientID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, claims.WebhookURL, found.WebhookURL)
		assert.Equal(t, 3, found.RetryMaxAttempts)

		missing, err := store.GetWebhookClientByID(ctx, "client-unknown")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("ListWebhookClients returns all rows", func(t *testing.T) {
		all, err := store.ListWebhookClients(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("deactivated clients drop out of the active query", func(t *testing.T) {
		err := store.SetWebhookClientActive(ctx, "client-claims", false)
		require.NoError(t, err)

		matched, err := store.GetActiveWebhookClientsByEventType(ctx, "claim.committed")
		require.NoError(t, err)
		require.Len(t, matched, 1)
		assert.Equal(t, "client-wildcard", matched[0].ClientID)

		err = store.SetWebhookClientActive(ctx, "client-unknown", false)
		assert.Error(t, err)
	})
}

func testWebhookDeliveries(t *testing.T, store Store) {
	ctx := context.Background()

	client, err := store.CreateWebhookClient(ctx, buildTestClient("client-deliveries", "*"))
	require.NoError(t, err)

	event := buildTestEvent(t, domain.EventClaimCommitted)
	delivery := &schema.WebhookDelivery{
		ClientID:       client.ClientID,
		EventID:        event.EventID,
		EventType:      event.EventType,
		Payload:        event.Payload,
		DeliveryStatus: schema.WebhookDeliveryStatusPending,
		Attempts:       0,
	}
	err = store.CreateWebhookDelivery(ctx, delivery)
	require.NoError(t, err)
	assert.NotZero(t, delivery.ID)

	t.Run("UpdateWebhookDeliveryStatus - success", func(t *testing.T) {
		statusCode := 200
		err := store.UpdateWebhookDeliveryStatus(
			ctx,
			delivery.ID,
			schema.WebhookDeliveryStatusSuccess,
			1,
			&statusCode,
			`{"status":"received"}`,
			"",
		)
		assert.NoError(t, err)
	})

	t.Run("UpdateWebhookDeliveryStatus - failed with long error", func(t *testing.T) {
		failed := &schema.WebhookDelivery{
			ClientID:       client.ClientID,
			EventID:        ulid.Make().String(),
			EventType:      event.EventType,
			Payload:        event.Payload,
			DeliveryStatus: schema.WebhookDeliveryStatusPending,
		}
		require.NoError(t, store.CreateWebhookDelivery(ctx, failed))

		long := make([]byte, 2048)
		for i := range long {
			long[i] = 'x'
		}
		err := store.UpdateWebhookDeliveryStatus(
			ctx,
			failed.ID,
			schema.WebhookDeliveryStatusFailed,
			3,
			nil,
			"",
			string(long),
		)
		assert.NoError(t, err)
	})
}

// RunStoreTests runs the suite against a Store implementation
func RunStoreTests(t *testing.T, initDB func(t *testing.T) Store, cleanupDB func(t *testing.T)) {
	tests := []struct {
		name string
		fn   func(*testing.T, Store)
	}{
		{"LoadStateEmpty", testLoadStateEmpty},
		{"SaveBootstrap", testSaveBootstrap},
		{"SaveCallerApproval", testSaveCallerApproval},
		{"TypeRecords", testTypeRecords},
		{"SaveOnboard", testSaveOnboard},
		{"SaveClaimCommits", testSaveClaimCommits},
		{"SaveRedeem", testSaveRedeem},
		{"SaveBurnAndTransfer", testSaveBurnAndTransfer},
		{"SnapshotRoundTrip", testSnapshotRoundTrip},
		{"GetEvents", testGetEvents},
		{"WebhookClients", testWebhookClients},
		{"WebhookDeliveries", testWebhookDeliveries},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := initDB(t)
			defer cleanupDB(t)
			tt.fn(t, store)
		})
	}
}
