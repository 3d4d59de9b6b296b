package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/stampbook/sb-registry/internal/api/middleware"
	apierrors "github.com/stampbook/sb-registry/internal/api/shared/errors"
)

var flagServerAddr = &cli.StringFlag{
	Name:    "server",
	Value:   "http://127.0.0.1:8080",
	Usage:   "Registry API base URL",
	EnvVars: []string{"SBR_SERVER"},
}

var flagAPIKey = &cli.StringFlag{
	Name:    "api-key",
	Usage:   "API key for mutating operations",
	EnvVars: []string{"SBR_API_KEY"},
}

var flagCaller = &cli.StringFlag{
	Name:    "caller",
	Usage:   "Acting address for mutating operations",
	EnvVars: []string{"SBR_CALLER"},
}

func main() {
	app := &cli.App{
		Name:  "sbrctl",
		Usage: "Stampbook Registry admin client",
		Flags: []cli.Flag{
			flagServerAddr,
			flagAPIKey,
			flagCaller,
		},
		Commands: []*cli.Command{
			{
				Name:  "bootstrap",
				Usage: "Initialize the registry with the caller as administrator",
				Action: func(cCtx *cli.Context) error {
					return NewClient(cCtx).post("/v1/registry/bootstrap", nil)
				},
			},
			{
				Name:      "approve",
				Usage:     "Grant (or revoke with --revoke) issuer approval for an address",
				ArgsUsage: "<address>",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "revoke", Usage: "Revoke the approval instead of granting it"},
				},
				Action: func(cCtx *cli.Context) error {
					address := cCtx.Args().Get(0)
					if address == "" {
						return fmt.Errorf("address argument is required")
					}
					return NewClient(cCtx).put("/v1/approvals/"+address, map[string]any{
						"approved": !cCtx.Bool("revoke"),
					})
				},
			},
			{
				Name:  "types",
				Usage: "Manage stamp types",
				Subcommands: []*cli.Command{
					{
						Name:  "register",
						Usage: "Register a new stamp type",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "transferable", Usage: "Stamps of this type may change hands"},
							&cli.BoolFlag{Name: "burnable-by-owner", Usage: "The holder may burn stamps of this type"},
							&cli.BoolFlag{Name: "burnable-by-issuer", Usage: "The issuer may burn stamps of this type"},
							&cli.StringFlag{Name: "base-uri", Usage: "Metadata base URI"},
							&cli.StringFlag{Name: "description", Usage: "Human-readable type description"},
						},
						Action: func(cCtx *cli.Context) error {
							return NewClient(cCtx).post("/v1/types", map[string]any{
								"transferable":       cCtx.Bool("transferable"),
								"burnable_by_owner":  cCtx.Bool("burnable-by-owner"),
								"burnable_by_issuer": cCtx.Bool("burnable-by-issuer"),
								"base_uri":           cCtx.String("base-uri"),
								"description":        cCtx.String("description"),
							})
						},
					},
					{
						Name:      "update",
						Usage:     "Register or overwrite a stamp type at an explicit id",
						ArgsUsage: "<type-id>",
						Flags: []cli.Flag{
							&cli.BoolFlag{Name: "transferable", Usage: "Stamps of this type may change hands"},
							&cli.BoolFlag{Name: "burnable-by-owner", Usage: "The holder may burn stamps of this type"},
							&cli.BoolFlag{Name: "burnable-by-issuer", Usage: "The issuer may burn stamps of this type"},
							&cli.StringFlag{Name: "base-uri", Usage: "Metadata base URI"},
							&cli.StringFlag{Name: "description", Usage: "Human-readable type description"},
						},
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "type-id")
							if err != nil {
								return err
							}
							return NewClient(cCtx).put(fmt.Sprintf("/v1/types/%d", id), map[string]any{
								"transferable":       cCtx.Bool("transferable"),
								"burnable_by_owner":  cCtx.Bool("burnable-by-owner"),
								"burnable_by_issuer": cCtx.Bool("burnable-by-issuer"),
								"base_uri":           cCtx.String("base-uri"),
								"description":        cCtx.String("description"),
							})
						},
					},
					{
						Name:  "list",
						Usage: "List registered stamp types",
						Action: func(cCtx *cli.Context) error {
							return NewClient(cCtx).get("/v1/types")
						},
					},
					{
						Name:      "set-base-uri",
						Usage:     "Update the base URI of a registered type",
						ArgsUsage: "<type-id> <base-uri>",
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "type-id")
							if err != nil {
								return err
							}
							return NewClient(cCtx).put(fmt.Sprintf("/v1/types/%d/base-uri", id), map[string]any{
								"base_uri": cCtx.Args().Get(1),
							})
						},
					},
				},
			},
			{
				Name:      "onboard",
				Usage:     "Mint a passport to a recipient with a bound claim hash",
				ArgsUsage: "<recipient> <hash>",
				Action: func(cCtx *cli.Context) error {
					recipient := cCtx.Args().Get(0)
					hash := cCtx.Args().Get(1)
					if recipient == "" || hash == "" {
						return fmt.Errorf("recipient and hash arguments are required")
					}
					return NewClient(cCtx).post("/v1/onboard", map[string]any{
						"recipient": recipient,
						"hash":      hash,
					})
				},
			},
			{
				Name:  "claims",
				Usage: "Commit and redeem stamp claims",
				Subcommands: []*cli.Command{
					{
						Name:      "commit",
						Usage:     "Commit a batch of claim hashes against a type",
						ArgsUsage: "<hash> [<hash>...]",
						Flags: []cli.Flag{
							&cli.Uint64Flag{Name: "type-id", Required: true, Usage: "Stamp type to issue against"},
						},
						Action: func(cCtx *cli.Context) error {
							if cCtx.Args().Len() == 0 {
								return fmt.Errorf("at least one hash argument is required")
							}
							return NewClient(cCtx).post("/v1/claims", map[string]any{
								"type_id": cCtx.Uint64("type-id"),
								"hashes":  cCtx.Args().Slice(),
							})
						},
					},
					{
						Name:      "redeem",
						Usage:     "Redeem a pending claim with its original hash",
						ArgsUsage: "<item-id> <hash>",
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "item-id")
							if err != nil {
								return err
							}
							hash := cCtx.Args().Get(1)
							if hash == "" {
								return fmt.Errorf("hash argument is required")
							}
							return NewClient(cCtx).post(fmt.Sprintf("/v1/claims/%d/redeem", id), map[string]any{
								"hash": hash,
							})
						},
					},
				},
			},
			{
				Name:  "items",
				Usage: "Inspect and manage stamps",
				Subcommands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Show a stamp",
						ArgsUsage: "<item-id>",
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "item-id")
							if err != nil {
								return err
							}
							return NewClient(cCtx).get(fmt.Sprintf("/v1/items/%d", id))
						},
					},
					{
						Name:      "burn",
						Usage:     "Burn a stamp, subject to its type's burn policy",
						ArgsUsage: "<item-id>",
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "item-id")
							if err != nil {
								return err
							}
							return NewClient(cCtx).post(fmt.Sprintf("/v1/items/%d/burn", id), nil)
						},
					},
					{
						Name:      "transfer",
						Usage:     "Transfer a stamp from the caller to another address",
						ArgsUsage: "<item-id> <to>",
						Action: func(cCtx *cli.Context) error {
							id, err := argUint(cCtx, 0, "item-id")
							if err != nil {
								return err
							}
							to := cCtx.Args().Get(1)
							if to == "" {
								return fmt.Errorf("to argument is required")
							}
							return NewClient(cCtx).post(fmt.Sprintf("/v1/items/%d/transfer", id), map[string]any{
								"from": cCtx.String(flagCaller.Name),
								"to":   to,
							})
						},
					},
				},
			},
			{
				Name:      "address",
				Usage:     "Show the approval, onboarding, and holdings view of an address",
				ArgsUsage: "<address>",
				Action: func(cCtx *cli.Context) error {
					address := cCtx.Args().Get(0)
					if address == "" {
						return fmt.Errorf("address argument is required")
					}
					return NewClient(cCtx).get("/v1/addresses/" + address)
				},
			},
			{
				Name:      "derive-hash",
				Usage:     "Derive the canonical claim hash of a payload",
				ArgsUsage: "<payload>",
				Action: func(cCtx *cli.Context) error {
					payload := cCtx.Args().Get(0)
					if payload == "" {
						return fmt.Errorf("payload argument is required")
					}
					return NewClient(cCtx).post("/v1/hashes/derive", map[string]any{
						"payload": payload,
					})
				},
			},
			{
				Name:  "events",
				Usage: "Page through the event journal",
				Flags: []cli.Flag{
					&cli.Uint64Flag{Name: "cursor", Usage: "Return events after this journal cursor"},
					&cli.StringFlag{Name: "type", Usage: "Filter by event type"},
					&cli.IntFlag{Name: "limit", Usage: "Page size"},
				},
				Action: func(cCtx *cli.Context) error {
					path := "/v1/events?"
					if cCtx.IsSet("cursor") {
						path += fmt.Sprintf("cursor=%d&", cCtx.Uint64("cursor"))
					}
					if cCtx.String("type") != "" {
						path += "type=" + cCtx.String("type") + "&"
					}
					if cCtx.IsSet("limit") {
						path += fmt.Sprintf("limit=%d&", cCtx.Int("limit"))
					}
					return NewClient(cCtx).get(path[:len(path)-1])
				},
			},
			{
				Name:  "webhooks",
				Usage: "Manage webhook clients (administrator only)",
				Subcommands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Register a webhook client; the secret is printed once",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "url", Required: true, Usage: "Delivery endpoint"},
							&cli.StringSliceFlag{Name: "filter", Value: cli.NewStringSlice("*"), Usage: "Event type filter (repeatable)"},
							&cli.StringFlag{Name: "description", Usage: "Human-readable label"},
							&cli.IntFlag{Name: "retry-max-attempts", Usage: "Delivery attempt budget"},
						},
						Action: func(cCtx *cli.Context) error {
							body := map[string]any{
								"webhook_url":   cCtx.String("url"),
								"event_filters": cCtx.StringSlice("filter"),
								"description":   cCtx.String("description"),
							}
							if cCtx.IsSet("retry-max-attempts") {
								body["retry_max_attempts"] = cCtx.Int("retry-max-attempts")
							}
							return NewClient(cCtx).post("/v1/webhooks", body)
						},
					},
					{
						Name:  "list",
						Usage: "List webhook clients",
						Action: func(cCtx *cli.Context) error {
							return NewClient(cCtx).get("/v1/webhooks")
						},
					},
					{
						Name:      "remove",
						Usage:     "Deactivate a webhook client",
						ArgsUsage: "<client-id>",
						Action: func(cCtx *cli.Context) error {
							clientID := cCtx.Args().Get(0)
							if clientID == "" {
								return fmt.Errorf("client-id argument is required")
							}
							return NewClient(cCtx).delete("/v1/webhooks/" + clientID)
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// argUint parses a required positional decimal argument
func argUint(cCtx *cli.Context, index int, name string) (uint64, error) {
	raw := cCtx.Args().Get(index)
	if raw == "" {
		return 0, fmt.Errorf("%s argument is required", name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// Client is a thin JSON client for the registry API
type Client struct {
	serverAddr string
	apiKey     string
	caller     string
	http       *http.Client
}

// NewClient builds a client from the global flags
func NewClient(cCtx *cli.Context) *Client {
	return &Client{
		serverAddr: cCtx.String(flagServerAddr.Name),
		apiKey:     cCtx.String(flagAPIKey.Name),
		caller:     cCtx.String(flagCaller.Name),
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(path string) error {
	return c.do(http.MethodGet, path, nil)
}

func (c *Client) post(path string, body any) error {
	return c.do(http.MethodPost, path, body)
}

func (c *Client) put(path string, body any) error {
	return c.do(http.MethodPut, path, body)
}

func (c *Client) delete(path string) error {
	return c.do(http.MethodDelete, path, nil)
}

// do performs one API request and prints the JSON response to stdout.
// Error replies are unwrapped from the shared envelope.
func (c *Client) do(method, path string, body any) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.serverAddr+path, reqBody)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(middleware.APIKeyHeader, c.apiKey)
	}
	if c.caller != "" {
		req.Header.Set(middleware.CallerHeader, c.caller)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope apierrors.Response
		if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error != nil {
			return fmt.Errorf("%s: %s", envelope.Error.Code, envelope.Error.Message)
		}
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, respBody, "", "  "); err != nil {
		fmt.Println(string(respBody))
		return nil
	}
	fmt.Println(indented.String())
	return nil
}
