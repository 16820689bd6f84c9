package panel

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
)

// UploadURL asks the panel for a one-time signed file upload URL.
func (c *Client) UploadURL(ctx context.Context, serverID string) (string, error) {
	var resp struct {
		Attributes struct {
			URL string `json:"url"`
		} `json:"attributes"`
	}
	err := c.do(ctx, "upload_url", http.MethodGet,
		"/api/client/servers/"+url.PathEscape(serverID)+"/files/upload", nil, &resp)
	if err != nil {
		return "", err
	}
	if resp.Attributes.URL == "" {
		return "", fmt.Errorf("panel upload_url: empty signed url")
	}
	return resp.Attributes.URL, nil
}

// UploadFile posts one file to a signed upload URL as multipart/form-data.
// The signed URL embeds its own credentials, so no bearer header is sent.
func (c *Client) UploadFile(ctx context.Context, uploadURL, filename, contentType string, data []byte) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return &APIError{Op: "upload_file", Cause: err}
	}
	if _, err := part.Write(data); err != nil {
		return &APIError{Op: "upload_file", Cause: err}
	}
	if err := w.Close(); err != nil {
		return &APIError{Op: "upload_file", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &body)
	if err != nil {
		return &APIError{Op: "upload_file", Cause: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Op: "upload_file", Cause: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		return &APIError{Op: "upload_file", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}

// RenameFile moves a file within a server's filesystem.
func (c *Client) RenameFile(ctx context.Context, serverID, root, from, to string) error {
	body := map[string]any{
		"root":  root,
		"files": []map[string]string{{"from": from, "to": to}},
	}
	return c.do(ctx, "rename_file", http.MethodPut,
		"/api/client/servers/"+url.PathEscape(serverID)+"/files/rename", body, nil)
}
