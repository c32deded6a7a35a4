package api

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	req, err := NewRequest(method, path).WithJSON(in)
	if err != nil {
		return err
	}
	req.WithQuery(query)

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// GetJSON issues a GET and decodes the response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, nil, in, out)
}

func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.doJSON(ctx, http.MethodPut, path, nil, in, out)
}

// PatchJSON sends in with query parameters, which the booking status endpoint relies on.
func (c *Client) PatchJSON(ctx context.Context, path string, query url.Values, in, out any) error {
	return c.doJSON(ctx, http.MethodPatch, path, query, in, out)
}

// Delete issues a DELETE, decoding any response body into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil, out)
}

// PublicPostJSON posts without a bearer token and without refresh handling.
func (c *Client) PublicPostJSON(ctx context.Context, path string, in, out any) error {
	req, err := NewRequest(http.MethodPost, path).WithJSON(in)
	if err != nil {
		return err
	}
	req.Public = true

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
