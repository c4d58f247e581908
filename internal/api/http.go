package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"nodeboard/internal/model"
)

const (
	statusSuccess = "success"
	statusWarning = "warning"
	statusError   = "error"

	sessionCookie = "session"
	csrfField     = "csrf_token"

	defaultTimeout = 15 * time.Second
)

// envelope is the shared response shape of every endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Title   string          `json:"title"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Config carries the connection settings for an HTTPClient. The session
// cookie and CSRF token come from an authenticated browser session; obtaining
// them is outside this client's scope.
type Config struct {
	BaseURL string
	Session string
	CSRF    string
	Timeout time.Duration
	Routes  Routes
	Logger  *zap.Logger
}

// HTTPClient talks to the real server. It satisfies Client.
type HTTPClient struct {
	base    *url.URL
	session string
	csrf    string
	routes  Routes
	http    *http.Client
	log     *zap.Logger
}

var _ Client = (*HTTPClient)(nil)

func New(cfg Config) (*HTTPClient, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("api: base url not configured")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parse base url: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPClient{
		base:    base,
		session: cfg.Session,
		csrf:    cfg.CSRF,
		routes:  cfg.Routes.withDefaults(),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

func (c *HTTPClient) GetNode(ctx context.Context, nodeID string) (model.Node, error) {
	var node model.Node
	q := url.Values{"node_id": {nodeID}}
	if err := c.get(ctx, c.routes.Node, q, &node); err != nil {
		return model.Node{}, err
	}
	return node, nil
}

func (c *HTTPClient) ListNodes(ctx context.Context) ([]model.NodeInfo, error) {
	var nodes []model.NodeInfo
	if err := c.get(ctx, c.routes.Nodes, nil, &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (c *HTTPClient) RenameNode(ctx context.Context, nodeID, name string) error {
	form := url.Values{"node_id": {nodeID}, "name": {name}}
	return c.postForm(ctx, c.routes.RenameNode, form, nil)
}

func (c *HTTPClient) ChangeLayout(ctx context.Context, nodeID string, l model.Layout) (model.Layout, error) {
	blob, err := json.Marshal(l)
	if err != nil {
		return model.Layout{}, decodeError(err)
	}
	form := url.Values{"node_id": {nodeID}, "layout": {string(blob)}}
	var out model.Layout
	if err := c.postForm(ctx, c.routes.ChangeLayout, form, &out); err != nil {
		return model.Layout{}, err
	}
	return out, nil
}

func (c *HTTPClient) AddWidget(ctx context.Context, nodeID string, e model.Entry) (model.Layout, error) {
	form, err := entryForm(e)
	if err != nil {
		return model.Layout{}, decodeError(err)
	}
	form.Set("node_id", nodeID)
	var out model.Layout
	if err := c.postForm(ctx, c.routes.AddWidget, form, &out); err != nil {
		return model.Layout{}, err
	}
	return out, nil
}

func (c *HTTPClient) RemoveWidget(ctx context.Context, nodeID, entryID string) (model.Layout, error) {
	form := url.Values{"node_id": {nodeID}, "entry_id": {entryID}}
	var out model.Layout
	if err := c.postForm(ctx, c.routes.RemoveWidget, form, &out); err != nil {
		return model.Layout{}, err
	}
	return out, nil
}

func (c *HTTPClient) EditWidgetSettings(ctx context.Context, nodeID string, e model.Entry) error {
	blob, err := json.Marshal(e)
	if err != nil {
		return decodeError(err)
	}
	form := url.Values{
		"node_id":  {nodeID},
		"entry_id": {e.ID},
		"config":   {string(blob)},
	}
	return c.postForm(ctx, c.routes.EditWidget, form, nil)
}

func (c *HTTPClient) CollectionItems(ctx context.Context, entryID string) ([]model.CollectionItem, error) {
	var items []model.CollectionItem
	q := url.Values{"entry_id": {entryID}}
	if err := c.get(ctx, c.routes.Items, q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) GetAndSetQuote(ctx context.Context, entryID string) (model.Quote, error) {
	var quote model.Quote
	q := url.Values{"entry_id": {entryID}}
	if err := c.get(ctx, c.routes.Quote, q, &quote); err != nil {
		return model.Quote{}, err
	}
	return quote, nil
}

func (c *HTTPClient) TodoTasks(ctx context.Context, nodeID string) ([]model.TodoTask, error) {
	var tasks []model.TodoTask
	q := url.Values{"node_id": {nodeID}}
	if err := c.get(ctx, c.routes.Todo, q, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) NodeInfo(ctx context.Context, nodeID string) (model.NodeInfo, error) {
	var info model.NodeInfo
	q := url.Values{"node_id": {nodeID}}
	if err := c.get(ctx, c.routes.NodeInfo, q, &info); err != nil {
		return model.NodeInfo{}, err
	}
	return info, nil
}

func (c *HTTPClient) ReorderItem(ctx context.Context, entryID, itemID string, position int) error {
	form := url.Values{
		"entry_id": {entryID},
		"item_id":  {itemID},
		"position": {strconv.Itoa(position)},
	}
	return c.postForm(ctx, c.routes.ReorderItem, form, nil)
}

func (c *HTTPClient) AddTask(ctx context.Context, nodeID, text string) ([]model.TodoTask, error) {
	form := url.Values{"node_id": {nodeID}, "text": {text}}
	var tasks []model.TodoTask
	if err := c.postForm(ctx, c.routes.AddTask, form, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) RemoveTask(ctx context.Context, nodeID, taskID string) ([]model.TodoTask, error) {
	form := url.Values{"node_id": {nodeID}, "task_id": {taskID}}
	var tasks []model.TodoTask
	if err := c.postForm(ctx, c.routes.RemoveTask, form, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) ToggleTask(ctx context.Context, nodeID, taskID string) ([]model.TodoTask, error) {
	form := url.Values{"node_id": {nodeID}, "task_id": {taskID}}
	var tasks []model.TodoTask
	if err := c.postForm(ctx, c.routes.ToggleTask, form, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) EditTask(ctx context.Context, nodeID, taskID, text string) ([]model.TodoTask, error) {
	form := url.Values{
		"node_id": {nodeID},
		"task_id": {taskID},
		"text":    {text},
	}
	var tasks []model.TodoTask
	if err := c.postForm(ctx, c.routes.EditTask, form, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) EditItemNote(ctx context.Context, entryID, itemID, note string) error {
	form := url.Values{
		"entry_id": {entryID},
		"item_id":  {itemID},
		"note":     {note},
	}
	return c.postForm(ctx, c.routes.EditItemNote, form, nil)
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.resolve(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return transportError(err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if form == nil {
		form = url.Values{}
	}
	form.Set(csrfField, c.csrf)
	u := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return transportError(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: c.session})
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("path", req.URL.Path), zap.Error(err))
		return transportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decodeError(err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("request rejected",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode))
		return httpError(resp.StatusCode)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return decodeError(err)
	}
	switch env.Status {
	case statusSuccess:
	case statusWarning:
		c.log.Warn("server warning",
			zap.String("path", req.URL.Path),
			zap.String("title", env.Title),
			zap.String("message", env.Message))
	case statusError:
		return serverError(env.Title, env.Message)
	default:
		return decodeError(fmt.Errorf("unknown envelope status %q", env.Status))
	}

	c.log.Debug("request ok",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("took", time.Since(start)))

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return decodeError(err)
	}
	return nil
}

func (c *HTTPClient) resolve(path string) *url.URL {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	return &u
}

// entryForm flattens an entry into form fields through its wire shape; the
// add endpoint takes the kind discriminator plus the kind-specific fields
// flat, the same names the JSON form uses.
func entryForm(e model.Entry) (url.Values, error) {
	blob, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(blob, &fields); err != nil {
		return nil, err
	}
	form := url.Values{}
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			if k == "id" && val == "" {
				continue
			}
			form.Set(k, val)
		case bool:
			form.Set(k, strconv.FormatBool(val))
		case float64:
			form.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		}
	}
	return form, nil
}
