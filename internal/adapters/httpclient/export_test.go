package httpclient

import "net/http"

// NewClientForTest creates a Client with a custom http client and size limits.
func NewClientForTest(httpClient *http.Client, maxPage, maxArchive int64) *Client {
	return newClient(httpClient, maxPage, maxArchive)
}
