package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	pkglogger "github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/logger"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// Client is the subset of the Elasticsearch API the search feed needs
type Client struct {
	es *elasticsearch.Client
}

// NewClient connects and checks the cluster answers
func NewClient(addresses []string, username, password string) (*Client, error) {
	cfg := elasticsearch.Config{Addresses: addresses}
	if username != "" {
		cfg.Username = username
		cfg.Password = password
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	res, err := es.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch ping: %w", err)
	}
	defer res.Body.Close()
	if err := check("ping", res); err != nil {
		return nil, err
	}

	pkglogger.GetLogger().Info().Strs("addresses", addresses).Msg("connected to elasticsearch")
	return &Client{es: es}, nil
}

// check turns an error response into an error
func check(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("%s [%s]: read body: %w", op, res.Status(), err)
	}
	return fmt.Errorf("%s [%s]: %s", op, res.Status(), body)
}

// IndexDocument writes one document
func (c *Client) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	res, err := esapi.IndexRequest{
		Index:      index,
		DocumentID: docID,
		Body:       bytes.NewReader(data),
	}.Do(ctx, c.es)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return check("index "+docID, res)
}

// BulkIndex writes docs keyed by document id in one request.
// Item level failures are reported as a single error.
func (c *Client) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for id, doc := range docs {
		meta := map[string]map[string]string{"index": {"_index": index, "_id": id}}
		if err := enc.Encode(meta); err != nil {
			return fmt.Errorf("bulk meta %s: %w", id, err)
		}
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("bulk doc %s: %w", id, err)
		}
	}

	res, err := c.es.Bulk(&buf, c.es.Bulk.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if err := check("bulk", res); err != nil {
		return err
	}

	var out struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID    string          `json:"_id"`
			Error json.RawMessage `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return fmt.Errorf("bulk response: %w", err)
	}
	if !out.Errors {
		return nil
	}
	var failed []string
	for _, item := range out.Items {
		for _, r := range item {
			if len(r.Error) > 0 {
				failed = append(failed, r.ID)
			}
		}
	}
	return fmt.Errorf("bulk: %d documents failed: %s", len(failed), strings.Join(failed, ","))
}

// DeleteByQuery removes every document matching query. A missing index deletes nothing.
func (c *Client) DeleteByQuery(ctx context.Context, index string, query map[string]interface{}) (int64, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(map[string]interface{}{"query": query}); err != nil {
		return 0, fmt.Errorf("delete by query: %w", err)
	}

	res, err := c.es.DeleteByQuery([]string{index}, &buf,
		c.es.DeleteByQuery.WithContext(ctx),
		c.es.DeleteByQuery.WithConflicts("proceed"),
	)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	if res.StatusCode == 404 {
		return 0, nil
	}
	if err := check("delete by query", res); err != nil {
		return 0, err
	}

	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("delete by query response: %w", err)
	}
	return out.Deleted, nil
}

// CreateIndex creates index with mapping unless it exists
func (c *Client) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	res, err := c.es.Indices.Exists([]string{index}, c.es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	res.Body.Close()
	if res.StatusCode == 200 {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(mapping); err != nil {
		return fmt.Errorf("index mapping: %w", err)
	}
	res, err = c.es.Indices.Create(index, c.es.Indices.Create.WithBody(&buf), c.es.Indices.Create.WithContext(ctx))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	err = check("create index "+index, res)
	if err != nil && strings.Contains(err.Error(), "resource_already_exists_exception") {
		return nil
	}
	return err
}
