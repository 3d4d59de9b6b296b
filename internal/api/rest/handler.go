package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stampbook/sb-registry/internal/api/middleware"
	"github.com/stampbook/sb-registry/internal/api/rest/dto"
	"github.com/stampbook/sb-registry/internal/api/shared/constants"
	"github.com/stampbook/sb-registry/internal/domain"
	"github.com/stampbook/sb-registry/internal/ledger"
	"github.com/stampbook/sb-registry/internal/registry"
	"github.com/stampbook/sb-registry/internal/store"
	"github.com/stampbook/sb-registry/internal/store/schema"
	"github.com/stampbook/sb-registry/internal/webhook"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// Bootstrap initializes the registry, fixing the caller as administrator
	// POST /v1/registry/bootstrap
	Bootstrap(c *gin.Context)

	// TransferAdministration is permanently disabled and always fails
	// POST /v1/registry/administrator
	TransferAdministration(c *gin.Context)

	// GetRegistry returns the registry info view
	// GET /v1/registry
	GetRegistry(c *gin.Context)

	// SetApproval grants or revokes issuer approval for an address
	// PUT /v1/approvals/:address
	SetApproval(c *gin.Context)

	// GetApproval returns the approval flag of an address
	// GET /v1/approvals/:address
	GetApproval(c *gin.Context)

	// RegisterType registers a new stamp type
	// POST /v1/types
	RegisterType(c *gin.Context)

	// PutType registers or updates a stamp type at an explicit id
	// PUT /v1/types/:id
	PutType(c *gin.Context)

	// ListTypes returns every registered stamp type
	// GET /v1/types
	ListTypes(c *gin.Context)

	// GetType returns a single stamp type record
	// GET /v1/types/:id
	GetType(c *gin.Context)

	// SetBaseURI updates the base URI of a registered type
	// PUT /v1/types/:id/base-uri
	SetBaseURI(c *gin.Context)

	// Onboard mints a passport to a recipient and binds its claim hash
	// POST /v1/onboard
	Onboard(c *gin.Context)

	// CommitClaims commits a batch of claim hashes; a list of one is a single commit
	// POST /v1/claims
	CommitClaims(c *gin.Context)

	// RedeemClaim redeems a pending claim with its original hash
	// POST /v1/claims/:id/redeem
	RedeemClaim(c *gin.Context)

	// BurnItem destroys a stamp subject to its type's burn policy
	// POST /v1/items/:id/burn
	BurnItem(c *gin.Context)

	// TransferItem moves a stamp; the caller must equal the sending address
	// POST /v1/items/:id/transfer
	TransferItem(c *gin.Context)

	// GetItem returns the item view including the resolved metadata URI
	// GET /v1/items/:id
	GetItem(c *gin.Context)

	// GetItemMetadata resolves the metadata URI of an item
	// GET /v1/items/:id/metadata
	GetItemMetadata(c *gin.Context)

	// GetAddress returns the approval, onboarding, and holdings view of an address
	// GET /v1/addresses/:address
	GetAddress(c *gin.Context)

	// GetHashBinding reports whether a claim hash is bound and to whom
	// GET /v1/hashes/:hash
	GetHashBinding(c *gin.Context)

	// DeriveHash derives the canonical claim hash of a payload
	// POST /v1/hashes/derive
	DeriveHash(c *gin.Context)

	// ListEvents returns a page of the event journal
	// GET /v1/events?cursor=<cursor>&type=<event_type>&limit=<limit>
	ListEvents(c *gin.Context)

	// CreateWebhookClient registers a webhook client (administrator only)
	// POST /v1/webhooks
	CreateWebhookClient(c *gin.Context)

	// ListWebhookClients lists registered webhook clients (administrator only)
	// GET /v1/webhooks
	ListWebhookClients(c *gin.Context)

	// RemoveWebhookClient deactivates a webhook client (administrator only)
	// DELETE /v1/webhooks/:id
	RemoveWebhookClient(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug  bool
	engine *registry.Engine
	store  store.Store
}

// NewHandler creates a new REST API handler around the registry engine
func NewHandler(debug bool, engine *registry.Engine, st store.Store) Handler {
	return &handler{
		debug:  debug,
		engine: engine,
		store:  st,
	}
}

// caller returns the authenticated caller established by the auth middleware
func caller(c *gin.Context) (domain.Address, bool) {
	addr, ok := middleware.Caller(c)
	if !ok {
		respondUnauthorized(c, "Authentication required")
		return "", false
	}
	return addr, true
}

// parseIDParam parses a decimal item or type id path parameter
func parseIDParam(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		respondBadRequest(c, fmt.Sprintf("invalid id: %q", raw))
		return 0, false
	}
	return id, true
}

// parseAddressParam normalizes an address path parameter
func parseAddressParam(c *gin.Context) (domain.Address, bool) {
	addr, err := domain.NormalizeAddress(c.Param("address"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return "", false
	}
	return addr, true
}

// Bootstrap initializes the registry, fixing the caller as administrator
func (h *handler) Bootstrap(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	if err := h.engine.Bootstrap(c.Request.Context(), addr); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.engine.Info())
}

// TransferAdministration is permanently disabled: administration is fixed at
// bootstrap, so the engine refuses every call
func (h *handler) TransferAdministration(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	var req dto.TransferAdministrationRequest
	_ = c.ShouldBindJSON(&req) // body is irrelevant, the operation always fails

	err := h.engine.TransferAdministration(c.Request.Context(), addr, domain.Address(req.Successor))
	respondEngineError(c, err)
}

// GetRegistry returns the registry info view
func (h *handler) GetRegistry(c *gin.Context) {
	c.JSON(http.StatusOK, h.engine.Info())
}

// SetApproval grants or revokes issuer approval for an address
func (h *handler) SetApproval(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	subject, ok := parseAddressParam(c)
	if !ok {
		return
	}

	var req dto.SetApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	if err := h.engine.SetApproved(c.Request.Context(), addr, subject, *req.Approved); err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Address:  subject,
		Approved: *req.Approved,
	})
}

// GetApproval returns the approval flag of an address
func (h *handler) GetApproval(c *gin.Context) {
	subject, ok := parseAddressParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, dto.ApprovalResponse{
		Address:  subject,
		Approved: h.engine.IsApproved(subject),
	})
}

// RegisterType registers a new stamp type
func (h *handler) RegisterType(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	var req dto.RegisterTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	record, err := h.engine.RegisterType(c.Request.Context(), addr, registry.RegisterTypeInput{
		Transferable:     req.Transferable,
		BurnableByOwner:  req.BurnableByOwner,
		BurnableByIssuer: req.BurnableByIssuer,
		BaseURI:          req.BaseURI,
		Description:      req.Description,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// PutType registers or updates a stamp type at an explicit id. The id must
// extend the sequence or name a registered type.
func (h *handler) PutType(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.RegisterTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	record, err := h.engine.PutType(c.Request.Context(), addr, domain.TypeID(id), registry.RegisterTypeInput{
		Transferable:     req.Transferable,
		BurnableByOwner:  req.BurnableByOwner,
		BurnableByIssuer: req.BurnableByIssuer,
		BaseURI:          req.BaseURI,
		Description:      req.Description,
	})
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// ListTypes returns every registered stamp type
func (h *handler) ListTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ListTypesResponse{Types: h.engine.Types()})
}

// GetType returns a single stamp type record
func (h *handler) GetType(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	record, found := h.engine.TypeRecord(domain.TypeID(id))
	if !found {
		respondNotFound(c, "Type not found")
		return
	}

	c.JSON(http.StatusOK, record)
}

// SetBaseURI updates the base URI of a registered type
func (h *handler) SetBaseURI(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.SetBaseURIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := h.engine.SetBaseURI(c.Request.Context(), addr, domain.TypeID(id), req.BaseURI); err != nil {
		respondEngineError(c, err)
		return
	}

	record, _ := h.engine.TypeRecord(domain.TypeID(id))
	c.JSON(http.StatusOK, record)
}

// Onboard mints a passport to a recipient and binds its claim hash
func (h *handler) Onboard(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	var req dto.OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	recipient, err := domain.NormalizeAddress(req.Recipient)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	hash, err := domain.NormalizeHash(req.Hash)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	itemID, err := h.engine.Onboard(c.Request.Context(), addr, recipient, hash)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.OnboardResponse{ItemID: itemID})
}

// CommitClaims commits a batch of claim hashes against one type. The batch is
// atomic: one bad hash rejects the whole request.
func (h *handler) CommitClaims(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	var req dto.CommitClaimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	hashes := make([]domain.Hash, 0, len(req.Hashes))
	for _, raw := range req.Hashes {
		hash, err := domain.NormalizeHash(raw)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		hashes = append(hashes, hash)
	}

	ids, err := h.engine.CommitClaimBatch(c.Request.Context(), addr, domain.TypeID(*req.TypeID), hashes)
	if err != nil {
		respondEngineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.CommitClaimsResponse{ItemIDs: ids})
}

// RedeemClaim redeems a pending claim with its original hash
func (h *handler) RedeemClaim(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.RedeemClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	hash, err := domain.NormalizeHash(req.Hash)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.engine.RedeemClaim(c.Request.Context(), addr, domain.ItemID(id), hash); err != nil {
		respondEngineError(c, err)
		return
	}

	view, _ := h.engine.Item(c.Request.Context(), domain.ItemID(id))
	c.JSON(http.StatusOK, view)
}

// BurnItem destroys a stamp subject to its type's burn policy
func (h *handler) BurnItem(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.engine.Burn(c.Request.Context(), addr, domain.ItemID(id)); err != nil {
		respondEngineError(c, err)
		return
	}

	view, _ := h.engine.Item(c.Request.Context(), domain.ItemID(id))
	c.JSON(http.StatusOK, view)
}

// TransferItem moves a stamp. The caller must be the sending address; the
// engine then enforces ownership and type transferability.
func (h *handler) TransferItem(c *gin.Context) {
	addr, ok := caller(c)
	if !ok {
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req dto.TransferItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	from, err := domain.NormalizeAddress(req.From)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	to, err := domain.NormalizeAddress(req.To)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if from != addr {
		respondForbidden(c, "Caller must be the sending address")
		return
	}

	if err := h.engine.Transfer(c.Request.Context(), from, to, domain.ItemID(id)); err != nil {
		respondEngineError(c, err)
		return
	}

	view, _ := h.engine.Item(c.Request.Context(), domain.ItemID(id))
	c.JSON(http.StatusOK, view)
}

// GetItem returns the item view including the resolved metadata URI
func (h *handler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	view, found := h.engine.Item(c.Request.Context(), domain.ItemID(id))
	if !found {
		respondNotFound(c, "Item not found")
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetItemMetadata resolves the metadata URI of an item
func (h *handler) GetItemMetadata(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	uri, err := h.engine.ResolveMetadata(c.Request.Context(), domain.ItemID(id))
	if err != nil {
		if errors.Is(err, ledger.ErrUnknownItem) {
			respondNotFound(c, "Item not found")
			return
		}
		respondInternalError(c, err, "Failed to resolve metadata")
		return
	}

	c.JSON(http.StatusOK, dto.MetadataResponse{
		ItemID:      domain.ItemID(id),
		MetadataURI: uri,
	})
}

// GetAddress returns the approval, onboarding, and holdings view of an address
func (h *handler) GetAddress(c *gin.Context) {
	subject, ok := parseAddressParam(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.engine.Address(subject))
}

// GetHashBinding reports whether a claim hash is bound and to whom. An unbound
// hash is a valid lookup result, not an error.
func (h *handler) GetHashBinding(c *gin.Context) {
	hash, err := domain.NormalizeHash(c.Param("hash"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	owner, bound := h.engine.HashBinding(hash)
	c.JSON(http.StatusOK, dto.HashBindingResponse{
		Hash:  hash,
		Bound: bound,
		Owner: owner,
	})
}

// DeriveHash derives the canonical claim hash of a payload
func (h *handler) DeriveHash(c *gin.Context) {
	var req dto.DeriveHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondValidation(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeriveHashResponse{
		Payload: req.Payload,
		Hash:    domain.DeriveClaimHash(req.Payload),
	})
}

// ListEvents returns a page of the event journal
func (h *handler) ListEvents(c *gin.Context) {
	filter := store.EventQueryFilter{
		EventType: c.Query("type"),
		Limit:     constants.DEFAULT_EVENTS_LIMIT,
	}

	if raw := c.Query("cursor"); raw != "" {
		cursor, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, fmt.Sprintf("invalid cursor: %q", raw))
			return
		}
		filter.AfterCursor = &cursor
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondBadRequest(c, fmt.Sprintf("invalid limit: %q", raw))
			return
		}
		if limit > constants.MAX_EVENTS_PAGE_SIZE {
			limit = constants.MAX_EVENTS_PAGE_SIZE
		}
		filter.Limit = limit
	}

	rows, total, err := h.store.GetEvents(c.Request.Context(), filter)
	if err != nil {
		respondInternalError(c, err, "Failed to list events")
		return
	}

	response := dto.ListEventsResponse{
		Events: make([]dto.EventResponse, 0, len(rows)),
		Total:  total,
	}
	for _, row := range rows {
		response.Events = append(response.Events, dto.EventResponse{
			Cursor:    row.Cursor,
			EventID:   row.EventID,
			EventType: row.EventType,
			Payload:   json.RawMessage(row.Payload),
			EmittedAt: row.EmittedAt,
		})
	}
	if len(rows) == filter.Limit && len(rows) > 0 {
		next := rows[len(rows)-1].Cursor
		response.NextCursor = &next
	}

	c.JSON(http.StatusOK, response)
}

// requireAdministrator checks that the caller is the bootstrap administrator.
// Webhook administration is outside the engine's gate, so the check lives here.
func (h *handler) requireAdministrator(c *gin.Context) (domain.Address, bool) {
	addr, ok := caller(c)
	if !ok {
		return "", false
	}

	info := h.engine.Info()
	if !info.Initialized || addr != info.Administrator {
		respondForbidden(c, "Caller is not the registry administrator")
		return "", false
	}
	return addr, true
}

// CreateWebhookClient registers a webhook client (administrator only)
func (h *handler) CreateWebhookClient(c *gin.Context) {
	if _, ok := h.requireAdministrator(c); !ok {
		return
	}

	var req dto.CreateWebhookClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}
	if err := req.Validate(h.debug); err != nil {
		respondValidation(c, err)
		return
	}

	retryMaxAttempts := constants.DEFAULT_RETRY_MAX_ATTEMPTS
	if req.RetryMaxAttempts != nil {
		retryMaxAttempts = *req.RetryMaxAttempts
	}

	secret, err := webhook.GenerateSecret()
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	filters, err := json.Marshal(req.EventFilters)
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	client, err := h.store.CreateWebhookClient(c.Request.Context(), store.CreateWebhookClientInput{
		ClientID:         uuid.NewString(),
		Description:      req.Description,
		WebhookURL:       req.WebhookURL,
		WebhookSecret:    secret,
		EventFilters:     filters,
		IsActive:         true,
		RetryMaxAttempts: retryMaxAttempts,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to create webhook client")
		return
	}

	c.JSON(http.StatusCreated, dto.CreateWebhookClientResponse{
		ClientID:         client.ClientID,
		Description:      client.Description,
		WebhookURL:       client.WebhookURL,
		WebhookSecret:    client.WebhookSecret,
		EventFilters:     req.EventFilters,
		IsActive:         client.IsActive,
		RetryMaxAttempts: client.RetryMaxAttempts,
		CreatedAt:        client.CreatedAt,
		UpdatedAt:        client.UpdatedAt,
	})
}

// ListWebhookClients lists registered webhook clients (administrator only)
func (h *handler) ListWebhookClients(c *gin.Context) {
	if _, ok := h.requireAdministrator(c); !ok {
		return
	}

	clients, err := h.store.ListWebhookClients(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to list webhook clients")
		return
	}

	response := dto.ListWebhookClientsResponse{
		Clients: make([]dto.WebhookClientResponse, 0, len(clients)),
	}
	for _, client := range clients {
		view, err := webhookClientView(client)
		if err != nil {
			respondInternalError(c, err, "Failed to list webhook clients")
			return
		}
		response.Clients = append(response.Clients, view)
	}

	c.JSON(http.StatusOK, response)
}

// RemoveWebhookClient deactivates a webhook client (administrator only)
func (h *handler) RemoveWebhookClient(c *gin.Context) {
	if _, ok := h.requireAdministrator(c); !ok {
		return
	}

	clientID := c.Param("id")
	client, err := h.store.GetWebhookClientByID(c.Request.Context(), clientID)
	if err != nil {
		respondInternalError(c, err, "Failed to remove webhook client")
		return
	}
	if client == nil {
		respondNotFound(c, "Webhook client not found")
		return
	}

	// Render before deactivating so a corrupt row fails the whole request
	client.IsActive = false
	view, err := webhookClientView(client)
	if err != nil {
		respondInternalError(c, err, "Failed to remove webhook client")
		return
	}

	if err := h.store.SetWebhookClientActive(c.Request.Context(), clientID, false); err != nil {
		respondInternalError(c, err, "Failed to remove webhook client")
		return
	}

	c.JSON(http.StatusOK, view)
}

// webhookClientView maps a stored client to its public view, dropping the
// secret. A filters column that no longer parses is reported, not hidden.
func webhookClientView(client *schema.WebhookClient) (dto.WebhookClientResponse, error) {
	var filters []string
	if err := json.Unmarshal(client.EventFilters, &filters); err != nil {
		return dto.WebhookClientResponse{}, fmt.Errorf("failed to decode event filters of client %s: %w", client.ClientID, err)
	}

	return dto.WebhookClientResponse{
		ClientID:         client.ClientID,
		Description:      client.Description,
		WebhookURL:       client.WebhookURL,
		EventFilters:     filters,
		IsActive:         client.IsActive,
		RetryMaxAttempts: client.RetryMaxAttempts,
		CreatedAt:        client.CreatedAt,
		UpdatedAt:        client.UpdatedAt,
	}, nil
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"service": "sb-registry-api",
	})
}
