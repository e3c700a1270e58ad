// Package notion implements the application-record store on top of a
// Notion database. It satisfies tracker.RecordStore.
package notion

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/jomei/notionapi"

	"github.com/apave/jobwatch/internal/tracker"
)

// Property names in the tracking database.
const (
	propCompany = "Company Name"
	propRole    = "Role / Position"
	propStatus  = "Application Status"
	propURL     = "Application Link / Portal"
	propDate    = "Application Date"
	propNotes   = "Notes"
)

// Client is a thin wrapper over the Notion API scoped to one database
type Client struct {
	api        *notionapi.Client
	databaseID notionapi.DatabaseID
	logger     *slog.Logger
}

// NewClient creates a record-store client for the given database
func NewClient(token, databaseID string, logger *slog.Logger) *Client {
	return &Client{
		api:        notionapi.NewClient(notionapi.Token(token)),
		databaseID: notionapi.DatabaseID(databaseID),
		logger:     logger.With("component", "notion"),
	}
}

// Query returns the ids of records matching every set field of q
func (c *Client) Query(ctx context.Context, q tracker.Query) ([]string, error) {
	var conditions []notionapi.Filter

	if q.URL != "" {
		conditions = append(conditions, notionapi.PropertyFilter{
			Property: propURL,
			RichText: &notionapi.TextFilterCondition{Equals: q.URL},
		})
	}
	if q.Company != "" {
		conditions = append(conditions, notionapi.PropertyFilter{
			Property: propCompany,
			RichText: &notionapi.TextFilterCondition{Equals: q.Company},
		})
	}
	if q.Role != "" {
		conditions = append(conditions, notionapi.PropertyFilter{
			Property: propRole,
			RichText: &notionapi.TextFilterCondition{Equals: q.Role},
		})
	}
	if !q.AppliedOn.IsZero() {
		date := notionapi.Date(q.AppliedOn)
		conditions = append(conditions, notionapi.PropertyFilter{
			Property: propDate,
			Date:     &notionapi.DateFilterCondition{Equals: &date},
		})
	}

	if len(conditions) == 0 {
		return nil, nil
	}

	var filter notionapi.Filter
	if len(conditions) == 1 {
		filter = conditions[0]
	} else {
		filter = notionapi.AndCompoundFilter(conditions)
	}

	resp, err := c.api.Database.Query(ctx, c.databaseID, &notionapi.DatabaseQueryRequest{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("failed to query database: %w", err)
	}

	ids := make([]string, 0, len(resp.Results))
	for _, page := range resp.Results {
		ids = append(ids, string(page.ID))
	}
	return ids, nil
}

// Create creates a new application record
func (c *Client) Create(ctx context.Context, f tracker.Fields) error {
	_, err := c.api.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: c.databaseID,
		},
		Properties: properties(f),
	})
	if err != nil {
		return fmt.Errorf("failed to create record for %q: %w", f.Company, err)
	}
	return nil
}

// Update overwrites the fields of an existing record
func (c *Client) Update(ctx context.Context, id string, f tracker.Fields) error {
	_, err := c.api.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: properties(f),
	})
	if err != nil {
		return fmt.Errorf("failed to update record for %q: %w", f.Company, err)
	}
	return nil
}

// StatusOptions returns the status vocabulary the database accepts
func (c *Client) StatusOptions(ctx context.Context) ([]string, error) {
	db, err := c.api.Database.Get(ctx, c.databaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve database schema: %w", err)
	}

	config, ok := db.Properties[propStatus]
	if !ok {
		return nil, nil
	}
	status, ok := config.(*notionapi.StatusPropertyConfig)
	if !ok {
		return nil, nil
	}

	options := make([]string, 0, len(status.Status.Options))
	for _, option := range status.Status.Options {
		options = append(options, option.Name)
	}
	return options, nil
}

// DumpSchema writes the database property names, types and options. Meant
// for diagnosing property-name mismatches from the command line.
func (c *Client) DumpSchema(ctx context.Context, w io.Writer) error {
	db, err := c.api.Database.Get(ctx, c.databaseID)
	if err != nil {
		return fmt.Errorf("failed to retrieve database schema: %w", err)
	}

	names := make([]string, 0, len(db.Properties))
	for name := range db.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		config := db.Properties[name]
		fmt.Fprintf(w, "%s: %s\n", name, config.GetType())
		switch pc := config.(type) {
		case *notionapi.StatusPropertyConfig:
			for _, option := range pc.Status.Options {
				fmt.Fprintf(w, "  option: %s\n", option.Name)
			}
		case *notionapi.SelectPropertyConfig:
			for _, option := range pc.Select.Options {
				fmt.Fprintf(w, "  option: %s\n", option.Name)
			}
		}
	}
	return nil
}

func properties(f tracker.Fields) notionapi.Properties {
	props := notionapi.Properties{
		propCompany: notionapi.TitleProperty{
			Title: richText(f.Company),
		},
		propRole: notionapi.RichTextProperty{
			RichText: richText(f.Role),
		},
		propStatus: notionapi.StatusProperty{
			Status: notionapi.Option{Name: string(f.Status)},
		},
	}
	if f.URL != "" {
		props[propURL] = notionapi.URLProperty{URL: f.URL}
	}
	if !f.AppliedOn.IsZero() {
		date := notionapi.Date(f.AppliedOn)
		props[propDate] = notionapi.DateProperty{
			Date: &notionapi.DateObject{Start: &date},
		}
	}
	if f.Notes != "" {
		props[propNotes] = notionapi.RichTextProperty{
			RichText: richText(f.Notes),
		}
	}
	return props
}

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: content}},
	}
}
