// Package shopify talks to the storefront and admin GraphQL APIs of the shop.
package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"

	"github.com/mobile-app-connector/mobile-app-connector/internal/config"
)

const (
	defaultTimeout    = 20 * time.Second
	defaultAPIVersion = "2024-10"

	storefrontTokenHeader = "X-Shopify-Storefront-Access-Token" //nolint:gosec
	adminTokenHeader      = "X-Shopify-Access-Token"            //nolint:gosec
)

var (
	// ErrUpstream is returned when the platform answers with a non-2xx status.
	ErrUpstream = errors.New("shopify request failed")
	// ErrUserErrors is returned when a mutation reports user errors.
	ErrUserErrors = errors.New("shopify rejected the request")
	// ErrNoShop is returned when neither a shop domain nor a base URL is configured.
	ErrNoShop = errors.New("shopify shop domain is not configured")
)

// Request is a GraphQL request body.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type endpoint struct {
	client *resty.Client
	url    string
}

// Client holds one resty client per API. upload has no credentials, staged targets are foreign hosts.
type Client struct {
	storefront endpoint
	admin      endpoint
	upload     *resty.Client
}

// New returns a client for the configured shop.
func New(cfg config.Shopify) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		if cfg.ShopDomain == "" {
			return nil, ErrNoShop
		}

		base = "https://" + cfg.ShopDomain
	}

	version := cfg.APIVersion
	if version == "" {
		version = defaultAPIVersion
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	newClient := func() *resty.Client {
		return resty.New().
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json")
	}

	return &Client{
		storefront: endpoint{
			client: newClient().SetHeader(storefrontTokenHeader, cfg.StorefrontToken),
			url:    fmt.Sprintf("%s/api/%s/graphql.json", base, version),
		},
		admin: endpoint{
			client: newClient().SetHeader(adminTokenHeader, cfg.AdminToken),
			url:    fmt.Sprintf("%s/admin/api/%s/graphql.json", base, version),
		},
		upload: resty.New().SetTimeout(timeout),
	}, nil
}

// StorefrontQuery forwards query to the storefront API and returns the response body unchanged.
func (c *Client) StorefrontQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return post(ctx, c.storefront, query, variables)
}

// AdminQuery runs query against the admin API and returns the response body unchanged.
func (c *Client) AdminQuery(ctx context.Context, query string, variables map[string]any) (json.RawMessage, error) {
	return post(ctx, c.admin, query, variables)
}

func post(ctx context.Context, e endpoint, query string, variables map[string]any) (json.RawMessage, error) {
	if variables == nil {
		variables = map[string]any{}
	}

	resp, err := e.client.R().
		SetContext(ctx).
		SetBody(Request{Query: query, Variables: variables}).
		Post(e.url)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "graphql request")
	}

	if resp.IsError() {
		return nil, pkgerrors.Wrapf(ErrUpstream, "status %d: %s", resp.StatusCode(), truncate(resp.String()))
	}

	return resp.Body(), nil
}

// adminInto runs an admin query and decodes its data object into out.
func (c *Client) adminInto(ctx context.Context, query string, variables map[string]any, out any) error {
	raw, err := c.AdminQuery(ctx, query, variables)
	if err != nil {
		return err
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}

	if err = json.Unmarshal(raw, &envelope); err != nil {
		return pkgerrors.Wrap(err, "decode graphql response")
	}

	if len(envelope.Errors) > 0 {
		return pkgerrors.Wrap(ErrUpstream, envelope.Errors[0].Message)
	}

	return pkgerrors.Wrap(json.Unmarshal(envelope.Data, out), "decode graphql data")
}

// Collection is a selectable collection on the home page form.
type Collection struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

const collectionsQuery = `query {
  collections(first: 100) {
    edges {
      node {
        id
        title
      }
    }
  }
}`

// Collections lists the first 100 collections of the shop.
func (c *Client) Collections(ctx context.Context) ([]Collection, error) {
	var data struct {
		Collections struct {
			Edges []struct {
				Node Collection `json:"node"`
			} `json:"edges"`
		} `json:"collections"`
	}

	if err := c.adminInto(ctx, collectionsQuery, nil, &data); err != nil {
		return nil, err
	}

	out := make([]Collection, 0, len(data.Collections.Edges))
	for _, e := range data.Collections.Edges {
		out = append(out, e.Node)
	}

	return out, nil
}

const stagedUploadsCreate = `mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}`

// Upload stores a file through a staged upload target and returns its resource URL.
func (c *Client) Upload(ctx context.Context, filename, mimeType string, r io.Reader) (string, error) {
	var data struct {
		StagedUploadsCreate struct {
			StagedTargets []struct {
				URL         string `json:"url"`
				ResourceURL string `json:"resourceUrl"`
				Parameters  []struct {
					Name  string `json:"name"`
					Value string `json:"value"`
				} `json:"parameters"`
			} `json:"stagedTargets"`
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}

	variables := map[string]any{
		"input": []map[string]string{{
			"filename":   filename,
			"mimeType":   mimeType,
			"resource":   "FILE",
			"httpMethod": "POST",
		}},
	}

	if err := c.adminInto(ctx, stagedUploadsCreate, variables, &data); err != nil {
		return "", err
	}

	staged := data.StagedUploadsCreate
	if len(staged.UserErrors) > 0 {
		return "", pkgerrors.Wrap(ErrUserErrors, staged.UserErrors[0].Message)
	}

	if len(staged.StagedTargets) == 0 {
		return "", pkgerrors.Wrap(ErrUpstream, "no staged target returned")
	}

	target := staged.StagedTargets[0]

	params := make(map[string]string, len(target.Parameters))
	for _, p := range target.Parameters {
		params[p.Name] = p.Value
	}

	resp, err := c.upload.R().
		SetContext(ctx).
		SetFormData(params).
		SetFileReader("file", filename, r).
		Post(target.URL)
	if err != nil {
		return "", pkgerrors.Wrap(err, "upload to staged target")
	}

	if resp.IsError() {
		return "", pkgerrors.Wrapf(ErrUpstream, "staged upload status %d: %s", resp.StatusCode(), truncate(resp.String()))
	}

	return target.ResourceURL, nil
}

func truncate(s string) string {
	const limit = 256
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
