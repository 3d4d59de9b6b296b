package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/stampbook/sb-registry/internal/api/middleware"
)

// SetupRoutes configures all REST API routes. Read endpoints are public;
// every mutation requires an authenticated caller, and the engine's gate
// decides what that caller may do.
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/healthz", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Registry lifecycle
		v1.POST("/registry/bootstrap", middleware.Auth(authCfg), handler.Bootstrap)
		v1.POST("/registry/administrator", middleware.Auth(authCfg), handler.TransferAdministration)
		v1.GET("/registry", handler.GetRegistry)

		// Caller approvals
		v1.PUT("/approvals/:address", middleware.Auth(authCfg), handler.SetApproval)
		v1.GET("/approvals/:address", handler.GetApproval)

		// Stamp types
		v1.POST("/types", middleware.Auth(authCfg), handler.RegisterType)
		v1.PUT("/types/:id", middleware.Auth(authCfg), handler.PutType)
		v1.GET("/types", handler.ListTypes)
		v1.GET("/types/:id", handler.GetType)
		v1.PUT("/types/:id/base-uri", middleware.Auth(authCfg), handler.SetBaseURI)

		// Onboarding and the two-phase claim flow
		v1.POST("/onboard", middleware.Auth(authCfg), handler.Onboard)
		v1.POST("/claims", middleware.Auth(authCfg), handler.CommitClaims)
		v1.POST("/claims/:id/redeem", middleware.Auth(authCfg), handler.RedeemClaim)

		// Items
		v1.POST("/items/:id/burn", middleware.Auth(authCfg), handler.BurnItem)
		v1.POST("/items/:id/transfer", middleware.Auth(authCfg), handler.TransferItem)
		v1.GET("/items/:id", handler.GetItem)
		v1.GET("/items/:id/metadata", handler.GetItemMetadata)

		// Lookups (public read access)
		v1.GET("/addresses/:address", handler.GetAddress)
		v1.GET("/hashes/:hash", handler.GetHashBinding)
		v1.POST("/hashes/derive", handler.DeriveHash)

		// Event journal (public read access)
		v1.GET("/events", handler.ListEvents)

		// Webhook administration (administrator only, enforced in the handlers)
		v1.POST("/webhooks", middleware.Auth(authCfg), handler.CreateWebhookClient)
		v1.GET("/webhooks", middleware.Auth(authCfg), handler.ListWebhookClients)
		v1.DELETE("/webhooks/:id", middleware.Auth(authCfg), handler.RemoveWebhookClient)
	}
}
