// Package webapp talks to a spreadsheet script deployed as a JSON web app.
//
// Reads are GET requests with an action query parameter; the write is a POST
// of the submission payload. Every response uses the envelope
// {"ok": bool, "data": ..., "error": "..."}.
package webapp

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/models"
)

const (
	actionBranches   = "getCabangOptions"
	actionLocations  = "getUlokOptions"
	actionWorkScopes = "getLingkupOptions"
	actionCreate     = "createDocument"
)

type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

type Client struct {
	url   string
	token string
	http  *resty.Client
}

var _ backend.Backend = (*Client)(nil)

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("webapp: url required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		url:   strings.TrimSpace(cfg.URL),
		token: cfg.Token,
		http:  resty.New().SetTimeout(timeout),
	}, nil
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func (c *Client) request(ctx context.Context) *resty.Request {
	r := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json")
	if c.token != "" {
		r.SetQueryParam("token", c.token)
	}
	return r
}

// unwrap checks the HTTP status and the envelope, then decodes data into out.
func unwrap(action string, resp *resty.Response, out any) error {
	if resp.IsError() {
		return errors.Errorf("webapp %s: %s; body: %s", action, resp.Status(), resp.String())
	}
	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return errors.Wrapf(err, "webapp %s: decode response", action)
	}
	if !env.OK {
		if env.Error == "" {
			env.Error = "request rejected"
		}
		// The script's message is shown to the user as is.
		return errors.New(env.Error)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	return errors.Wrapf(json.Unmarshal(env.Data, out), "webapp %s: decode data", action)
}

func (c *Client) options(ctx context.Context, action string, params map[string]string) ([]string, error) {
	resp, err := c.request(ctx).
		SetQueryParam("action", action).
		SetQueryParams(params).
		Get(c.url)
	if err != nil {
		return nil, errors.Wrapf(err, "webapp %s", action)
	}
	out := make([]string, 0)
	if err := unwrap(action, resp, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Branches(ctx context.Context) ([]string, error) {
	return c.options(ctx, actionBranches, nil)
}

func (c *Client) Locations(ctx context.Context, branch string) ([]string, error) {
	return c.options(ctx, actionLocations, map[string]string{"cabang": branch})
}

func (c *Client) WorkScopes(ctx context.Context, branch, locationCode string) ([]string, error) {
	return c.options(ctx, actionWorkScopes, map[string]string{"cabang": branch, "ulok": locationCode})
}

func (c *Client) CreateDocument(ctx context.Context, sess models.Session, payload models.SubmissionPayload) (*models.SubmissionResult, error) {
	body, err := toBody(payload)
	if err != nil {
		return nil, err
	}
	body["action"] = actionCreate
	body["createdBy"] = createdBy(sess)

	resp, err := c.request(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.url)
	if err != nil {
		return nil, errors.Wrapf(err, "webapp %s", actionCreate)
	}
	var doc models.Document
	if err := unwrap(actionCreate, resp, &doc); err != nil {
		return nil, err
	}
	// Scripts commonly answer with only an id; fill the rest from the request.
	if doc.Branch == "" {
		rec := backend.NewRecord(sess, payload, doc.FileURL)
		if doc.ID != "" {
			rec.ID = doc.ID
		}
		if doc.CreatedAt != "" {
			rec.CreatedAt = doc.CreatedAt
		}
		return rec, nil
	}
	return &doc, nil
}

// toBody turns the payload into a JSON object so request fields can be added.
func toBody(payload models.SubmissionPayload) (map[string]any, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "webapp: encode payload")
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, errors.Wrap(err, "webapp: encode payload")
	}
	return body, nil
}

func createdBy(sess models.Session) string {
	if sess.Email != "" {
		return sess.Email
	}
	return sess.UserID
}
