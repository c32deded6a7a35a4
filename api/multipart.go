package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"

	"github.com/gabriel-vasile/mimetype"
)

// File is an upload part. ContentType is sniffed from Data when empty.
type File struct {
	Name        string
	Data        []byte
	ContentType string
}

// Form is a multipart/form-data body of string fields and optional files.
type Form struct {
	Fields map[string]string
	Files  map[string]File
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{
		Fields: make(map[string]string),
		Files:  make(map[string]File),
	}
}

// Set adds a field. Empty values are skipped so optional fields are omitted.
func (f *Form) Set(key, value string) *Form {
	if value != "" {
		f.Fields[key] = value
	}
	return f
}

// Attach adds a file part. Nil or empty data is skipped.
func (f *Form) Attach(key string, file *File) *Form {
	if file != nil && len(file.Data) > 0 {
		f.Files[key] = *file
	}
	return f
}

// Encode writes the form and returns the body and its content type.
func (f *Form) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, k := range sortedKeys(f.Fields) {
		if err := w.WriteField(k, f.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("Form.Encode field %s: %w", k, err)
		}
	}

	for _, k := range sortedKeys(f.Files) {
		file := f.Files[k]
		ct := file.ContentType
		if ct == "" {
			ct = mimetype.Detect(file.Data).String()
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, k, file.Name))
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("Form.Encode file %s: %w", k, err)
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", fmt.Errorf("Form.Encode file %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("Form.Encode: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	body, ct, err := form.Encode()
	if err != nil {
		return err
	}
	req := NewRequest(method, path)
	req.Body = body
	req.ContentType = ct

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) PostMultipart(ctx context.Context, path string, form *Form, out any) error {
	return c.doMultipart(ctx, http.MethodPost, path, form, out)
}

func (c *Client) PutMultipart(ctx context.Context, path string, form *Form, out any) error {
	return c.doMultipart(ctx, http.MethodPut, path, form, out)
}
