package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

func PostJSON(ctx context.Context, url string, body interface{}, resp interface{}) error {
	r, err := post(ctx, url, body)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

// PostStream returns the raw response body; the caller owns closing it.
func PostStream(ctx context.Context, url string, body interface{}) (io.ReadCloser, error) {
	r, err := post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	return r.Body, nil
}

func post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	r, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if r.StatusCode != http.StatusOK {
		r.Body.Close()
		return nil, fmt.Errorf("bad status: %d", r.StatusCode)
	}
	return r, nil
}
