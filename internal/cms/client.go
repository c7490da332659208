package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"coalition_site/internal/model"
)

const pageSize = 100

// Config locates a CMS repository.
type Config struct {
	Repository  string
	AccessToken string
	// Endpoint overrides the repository's default API host.
	Endpoint string
}

// Client is a read-only client for a Prismic-style document API.
type Client struct {
	client   HTTPClient
	endpoint string
	token    string
}

// NewClient creates a Client for the repository in cfg.
func NewClient(client HTTPClient, cfg Config) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		if cfg.Repository == "" {
			return nil, errors.New("cms repository is required")
		}
		endpoint = "https://" + cfg.Repository + ".cdn.prismic.io"
	}
	return &Client{client: client, endpoint: endpoint, token: cfg.AccessToken}, nil
}

type apiInfo struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}

type apiDocument struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	Tags                 []string        `json:"tags"`
	FirstPublicationDate string          `json:"first_publication_date"`
	LastPublicationDate  string          `json:"last_publication_date"`
	Data                 json.RawMessage `json:"data"`
}

type searchResponse struct {
	Page       int           `json:"page"`
	TotalPages int           `json:"total_pages"`
	Results    []apiDocument `json:"results"`
}

// FetchAllOfType returns every published document of kind, in API order.
func (c *Client) FetchAllOfType(ctx context.Context, kind model.Kind) ([]model.Document, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`[[at(document.type,"%s")]]`, kind)
	var docs []model.Document
	for page := 1; ; page++ {
		res, err := c.search(ctx, ref, query, page)
		if err != nil {
			return nil, fmt.Errorf("fetch %s page %d: %w", kind, page, err)
		}
		for _, d := range res.Results {
			docs = append(docs, d.toModel())
		}
		if page >= res.TotalPages || len(res.Results) == 0 {
			break
		}
	}
	return docs, nil
}

// FetchByUID returns the document of kind with the given UID.
func (c *Client) FetchByUID(ctx context.Context, kind model.Kind, uid string) (*model.Document, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`[[at(my.%s.uid,"%s")]]`, kind, uid)
	res, err := c.search(ctx, ref, query, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %q: %w", kind, uid, err)
	}
	if len(res.Results) == 0 {
		return nil, fmt.Errorf("fetch %s %q: %w", kind, uid, ErrNotFound)
	}
	doc := res.Results[0].toModel()
	return &doc, nil
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	body, err := get(ctx, c.client, c.withToken(c.endpoint+"/api/v2", url.Values{}))
	if err != nil {
		return "", fmt.Errorf("fetch api info: %w", err)
	}

	var info apiInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("decode api info: %w", err)
	}
	for _, r := range info.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", errors.New("api info has no master ref")
}

func (c *Client) search(ctx context.Context, ref, query string, page int) (*searchResponse, error) {
	v := url.Values{}
	v.Set("ref", ref)
	v.Set("q", query)
	v.Set("pageSize", strconv.Itoa(pageSize))
	v.Set("page", strconv.Itoa(page))

	body, err := get(ctx, c.client, c.withToken(c.endpoint+"/api/v2/documents/search", v))
	if err != nil {
		return nil, err
	}

	var res searchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return &res, nil
}

func (c *Client) withToken(base string, v url.Values) string {
	if c.token != "" {
		v.Set("access_token", c.token)
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}

func (d apiDocument) toModel() model.Document {
	return model.Document{
		ID:                   d.ID,
		UID:                  d.UID,
		Type:                 model.Kind(d.Type),
		Tags:                 d.Tags,
		FirstPublicationDate: d.FirstPublicationDate,
		LastPublicationDate:  d.LastPublicationDate,
		Data:                 d.Data,
	}
}
