package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/AleeDevp/italihub-app-sub003/internal/http/dto"
	"github.com/AleeDevp/italihub-app-sub003/internal/service/notify"
)

// API is the REST side of the client: backfill pages, unread count and
// read receipts. The live stream is opened separately by the Engine.
type API struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewAPI(baseURL, token string, httpc *http.Client) *API {
	if httpc == nil {
		httpc = http.DefaultClient
	}
	return &API{baseURL: baseURL, token: token, httpc: httpc}
}

// FetchPage requests one backfill page. Zero take uses the server default;
// zero cursorID fetches the newest page.
func (a *API) FetchPage(ctx context.Context, take int, cursorID int64, typ string) (notify.Page, error) {
	q := url.Values{}
	if take > 0 {
		q.Set("take", strconv.Itoa(take))
	}
	if cursorID > 0 {
		q.Set("cursorId", strconv.FormatInt(cursorID, 10))
	}
	if typ != "" {
		q.Set("type", typ)
	}
	endpoint := a.baseURL + "/api/notifications"
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var page notify.Page
	if err := a.getJSON(ctx, endpoint, &page); err != nil {
		return notify.Page{}, err
	}
	return page, nil
}

func (a *API) UnreadCount(ctx context.Context) (int64, error) {
	var out dto.UnreadCountResponse
	if err := a.getJSON(ctx, a.baseURL+"/api/notifications/unread-count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (a *API) MarkRead(ctx context.Context, ids []int64) (int64, error) {
	body, err := json.Marshal(dto.MarkReadRequest{IDs: ids})
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/notifications/read", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.token)

	res, err := a.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("mark read: unexpected status %d", res.StatusCode)
	}

	var out dto.MarkReadResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Updated, nil
}

// OpenStream starts the live channel. The caller owns the returned body and
// must close it to release the connection.
func (a *API) OpenStream(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/notifications/stream", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "text/event-stream")

	res, err := a.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		_ = res.Body.Close()
		return nil, fmt.Errorf("open stream: unexpected status %d", res.StatusCode)
	}
	return res.Body, nil
}

func (a *API) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.token)

	res, err := a.httpc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("get %s: unexpected status %d", endpoint, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
