package search

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/typesense/typesense-go/v3/typesense"
	"github.com/typesense/typesense-go/v3/typesense/api"
	"github.com/typesense/typesense-go/v3/typesense/api/pointer"

	"github.com/the-connection/app-connection-api/internal/config"
	"github.com/the-connection/app-connection-api/internal/models"
	"github.com/the-connection/app-connection-api/internal/utils"
)

const (
	CommunitiesCollection = "communities"
	MicroblogsCollection  = "microblogs"
)

// Client wraps the Typesense client with the collections used for
// community and microblog search.
type Client struct {
	client *typesense.Client
}

func NewClient(cfg *config.Config) *Client {
	typesenseClient := typesense.NewClient(
		typesense.WithServer(fmt.Sprintf("%s://%s:%s", cfg.TypesenseProtocol, cfg.TypesenseHost, cfg.TypesensePort)),
		typesense.WithAPIKey(cfg.TypesenseAPIKey),
	)

	return &Client{client: typesenseClient}
}

// GetClient exposes the underlying Typesense client for health checks.
func (c *Client) GetClient() *typesense.Client {
	return c.client
}

// EnsureCollections creates the search collections if they do not exist.
// Already-existing collections are left untouched.
func (c *Client) EnsureCollections(ctx context.Context) error {
	schemas := []*api.CollectionSchema{
		{
			Name: CommunitiesCollection,
			Fields: []api.Field{
				{Name: "name", Type: "string"},
				{Name: "description", Type: "string", Optional: pointer.True()},
				{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
				{Name: "member_count", Type: "int32", Sort: pointer.True()},
				{Name: "created_at", Type: "int64", Sort: pointer.True()},
			},
		},
		{
			Name: MicroblogsCollection,
			Fields: []api.Field{
				{Name: "author_id", Type: "string", Facet: pointer.True()},
				{Name: "author_username", Type: "string"},
				{Name: "content", Type: "string"},
				{Name: "created_at", Type: "int64", Sort: pointer.True()},
			},
		},
	}

	for _, schema := range schemas {
		if _, err := c.client.Collections().Create(ctx, schema); err != nil {
			if strings.Contains(err.Error(), "already exists") {
				continue
			}
			return fmt.Errorf("create collection %s: %w", schema.Name, err)
		}
		log.Printf("Created search collection %s", schema.Name)
	}

	return nil
}

// IndexCommunity upserts a community document.
func (c *Client) IndexCommunity(ctx context.Context, community *models.Community) error {
	doc := map[string]interface{}{
		"id":           community.ID,
		"name":         community.Name,
		"description":  utils.StripMarkdown(community.Description),
		"tags":         community.InterestTags,
		"member_count": int32(community.MemberCount),
		"created_at":   community.CreatedAt.Unix(),
	}

	_, err := c.client.Collection(CommunitiesCollection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{})
	if err != nil {
		return fmt.Errorf("index community %s: %w", community.ID, err)
	}
	return nil
}

// IndexMicroblog upserts a microblog document with its markdown stripped.
func (c *Client) IndexMicroblog(ctx context.Context, blog *models.Microblog) error {
	doc := map[string]interface{}{
		"id":              blog.ID,
		"author_id":       blog.AuthorID,
		"author_username": blog.AuthorUsername,
		"content":         utils.StripMarkdown(blog.Content),
		"created_at":      blog.CreatedAt.Unix(),
	}

	_, err := c.client.Collection(MicroblogsCollection).Documents().Upsert(ctx, doc, &api.DocumentIndexParameters{})
	if err != nil {
		return fmt.Errorf("index microblog %s: %w", blog.ID, err)
	}
	return nil
}

// Hit is one search result document.
type Hit struct {
	Document  map[string]interface{} `json:"document"`
	TextMatch int64                  `json:"text_match"`
}

// Result carries the hits for one collection.
type Result struct {
	Hits       []Hit `json:"hits"`
	TotalFound int   `json:"found"`
}

// SearchCommunities runs a keyword search over community names, descriptions
// and tags.
func (c *Client) SearchCommunities(ctx context.Context, query string, page, perPage int) (*Result, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("name,description,tags"),
		Page:    pointer.Int(page),
		PerPage: pointer.Int(perPage),
		SortBy:  pointer.String("_text_match:desc,member_count:desc"),
	}
	return c.search(ctx, CommunitiesCollection, params)
}

// SearchMicroblogs runs a keyword search over microblog content.
func (c *Client) SearchMicroblogs(ctx context.Context, query string, page, perPage int) (*Result, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("content,author_username"),
		Page:    pointer.Int(page),
		PerPage: pointer.Int(perPage),
		SortBy:  pointer.String("_text_match:desc,created_at:desc"),
	}
	return c.search(ctx, MicroblogsCollection, params)
}

func (c *Client) search(ctx context.Context, collection string, params *api.SearchCollectionParams) (*Result, error) {
	raw, err := c.client.Collection(collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	result := &Result{Hits: make([]Hit, 0)}
	if raw.Found != nil {
		result.TotalFound = *raw.Found
	}
	if raw.Hits == nil {
		return result, nil
	}

	for _, hit := range *raw.Hits {
		if hit.Document == nil {
			continue
		}
		h := Hit{Document: *hit.Document}
		if hit.TextMatch != nil {
			h.TextMatch = *hit.TextMatch
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}
