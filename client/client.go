// Package client talks to the newsroom HTTP API. It attaches the stored
// bearer credential to every call and drops the session on 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

// New builds a client for the API rooted at baseURL, e.g.
// "http://localhost:5001/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		sessions: NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the signed-in session or nil.
func (c *Client) Session() (*Session, error) { return c.sessions.Load() }

// --- Auth ---

// Login exchanges credentials for a token and stores the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/login", body, &s); err != nil {
		return nil, err
	}
	if err := c.sessions.Save(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) Logout() error { return c.sessions.Clear() }

func (c *Client) Register(ctx context.Context, r Registration) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/register", r, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// --- Public reads ---

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.doJSON(ctx, http.MethodGet, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Articles(ctx context.Context, page, limit int) (*ArticlePage, error) {
	var out ArticlePage
	if err := c.doJSON(ctx, http.MethodGet, "/articles"+pageQuery(page, limit), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CategoryArticles(ctx context.Context, slug string, page, limit int) (*ArticlePage, error) {
	var out ArticlePage
	path := "/categories/" + url.PathEscape(slug) + "/articles" + pageQuery(page, limit)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Article(ctx context.Context, id int64) (*Article, error) {
	var out Article
	if err := c.doJSON(ctx, http.MethodGet, articlePath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Reporter ---

func (c *Client) CreateArticle(ctx context.Context, in NewArticle) (*Article, error) {
	fields := map[string]string{"title": in.Title, "content": in.Content}
	if in.CategoryID != 0 {
		fields["category_id"] = strconv.FormatInt(in.CategoryID, 10)
	}
	var out Article
	if err := c.doForm(ctx, http.MethodPost, "/articles", fields, in.Image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateArticle(ctx context.Context, id int64, ch ArticleChanges) (*Article, error) {
	fields := map[string]string{}
	if ch.Title != "" {
		fields["title"] = ch.Title
	}
	if ch.Content != "" {
		fields["content"] = ch.Content
	}
	switch {
	case ch.ClearCategory:
		fields["category_id"] = ""
	case ch.CategoryID != 0:
		fields["category_id"] = strconv.FormatInt(ch.CategoryID, 10)
	}
	var out Article
	if err := c.doForm(ctx, http.MethodPut, articlePath(id), fields, ch.Image, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteArticle(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, articlePath(id), nil, nil)
}

func (c *Client) MyArticles(ctx context.Context) (*ArticlePage, error) {
	var out ArticlePage
	if err := c.doJSON(ctx, http.MethodGet, "/my-articles", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Admin ---

func (c *Client) AdminArticles(ctx context.Context) (*ArticlePage, error) {
	var out ArticlePage
	if err := c.doJSON(ctx, http.MethodGet, "/admin/articles", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AdminCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := c.doJSON(ctx, http.MethodGet, "/admin/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodPost, "/admin/categories", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error) {
	var out Category
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/categories/%d", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/categories/%d", id), nil, nil)
}

// --- Transport ---

func articlePath(id int64) string { return fmt.Sprintf("/articles/%d", id) }

func pageQuery(page, limit int) string {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, body, contentType, out)
}

func (c *Client) doForm(ctx context.Context, method, path string, fields map[string]string, img *Image, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return fmt.Errorf("encode form: %w", err)
		}
	}
	if img != nil {
		part, err := w.CreateFormFile("image", img.Filename)
		if err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
		if _, err := part.Write(img.Body); err != nil {
			return fmt.Errorf("encode image: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return c.do(ctx, method, path, &buf, w.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	session, err := c.sessions.Load()
	if err != nil {
		return err
	}
	authenticated := session != nil && session.Token != ""
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, authenticated: authenticated}
		var envelope struct {
			Error string `json:"error"`
		}
		if raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); json.Unmarshal(raw, &envelope) == nil {
			apiErr.Message = envelope.Error
		}
		if resp.StatusCode == http.StatusUnauthorized && authenticated {
			if err := c.sessions.Clear(); err != nil {
				return fmt.Errorf("%w (clear session: %v)", apiErr, err)
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
