// Package api implements the HTTP client for the vault server API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/q42jaap/opvault/internal/common"
	"github.com/q42jaap/opvault/internal/item"
	"github.com/q42jaap/opvault/internal/netx"
)

// Client talks to the vault server. It holds the session token obtained
// by Login and attaches it to every subsequent request.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FieldSpec is one field assignment sent to the server.
type FieldSpec struct {
	Path  string `json:"path"`
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// CreateItemRequest mirrors the server's create payload.
type CreateItemRequest struct {
	Vault                 string      `json:"vault"`
	Category              string      `json:"category"`
	Title                 string      `json:"title"`
	URL                   string      `json:"url,omitempty"`
	Tags                  []string    `json:"tags,omitempty"`
	AdditionalInformation string      `json:"additional_information,omitempty"`
	GeneratePassword      bool        `json:"generate_password,omitempty"`
	Fields                []FieldSpec `json:"fields,omitempty"`
}

// EditItemRequest mirrors the server's edit payload. Nil pointers leave
// the corresponding attribute untouched.
type EditItemRequest struct {
	Title                 *string     `json:"title,omitempty"`
	URL                   *string     `json:"url,omitempty"`
	Tags                  []string    `json:"tags,omitempty"`
	AdditionalInformation *string     `json:"additional_information,omitempty"`
	Fields                []FieldSpec `json:"fields,omitempty"`
}

type loginRequest struct {
	AccountID string `json:"account_id"`
	Secret    string `json:"secret"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges the credentials for a session token and stores it on
// the client.
func (c *Client) Login(ctx context.Context, accountID, secret string) error {
	var res loginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/session", loginRequest{AccountID: accountID, Secret: secret}, &res)
	if err != nil {
		return err
	}
	c.token = res.Token
	return nil
}

// LoggedIn reports whether a session token is held.
func (c *Client) LoggedIn() bool {
	return c.token != ""
}

// Logout drops the session token.
func (c *Client) Logout() {
	c.token = ""
}

func (c *Client) CreateItem(ctx context.Context, req CreateItemRequest) (*item.Item, error) {
	var it item.Item
	if err := c.do(ctx, http.MethodPost, "/api/v1/items", req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (*item.Item, error) {
	var it item.Item
	if err := c.do(ctx, http.MethodGet, "/api/v1/items/"+id, nil, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// FilterFields fetches a field projection of the item. The returned
// single flag reports that the server collapsed a lone label match into
// one object.
func (c *Client) FilterFields(ctx context.Context, id string, labels, types []string) ([]item.Field, bool, error) {
	q := url.Values{}
	for _, l := range labels {
		q.Add("label", l)
	}
	for _, ty := range types {
		q.Add("type", ty)
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/v1/items/"+id+"?"+q.Encode(), nil, &raw); err != nil {
		return nil, false, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var f item.Field
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, false, err
		}
		return []item.Field{f}, true, nil
	}

	var fields []item.Field
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, false, err
	}
	return fields, false, nil
}

func (c *Client) EditItem(ctx context.Context, id string, req EditItemRequest) (*item.Item, error) {
	var it item.Item
	if err := c.do(ctx, http.MethodPut, "/api/v1/items/"+id, req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/items/"+id, nil, nil)
}

type attachFileRequest struct {
	Name        string `json:"name"`
	Content     []byte `json:"content"`
	SectionPath string `json:"section_path,omitempty"`
}

func (c *Client) AttachFile(ctx context.Context, id, name string, content []byte, sectionPath string) (*item.Item, error) {
	var it item.Item
	req := attachFileRequest{Name: name, Content: content, SectionPath: sectionPath}
	if err := c.do(ctx, http.MethodPost, "/api/v1/items/"+id+"/files", req, &it); err != nil {
		return nil, err
	}
	return &it, nil
}

type fileURLResponse struct {
	URL string `json:"url"`
}

// FileURL fetches a presigned download URL for an attachment.
func (c *Client) FileURL(ctx context.Context, id, fileID string) (string, error) {
	var res fileURLResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/items/"+id+"/files/"+fileID+"/url", nil, &res); err != nil {
		return "", err
	}
	return res.URL, nil
}

// DownloadFile fetches the attachment content through its presigned URL.
func (c *Client) DownloadFile(ctx context.Context, id, fileID string) ([]byte, error) {
	url, err := c.FileURL(ctx, id, fileID)
	if err != nil {
		return nil, err
	}
	return netx.DownloadFromPresignedURL(url)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func statusError(resp *http.Response) error {
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	text := strings.TrimSpace(string(msg))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", common.ErrNotFound, text)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, text)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, text)
	}
}
