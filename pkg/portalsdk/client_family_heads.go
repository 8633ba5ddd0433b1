package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListFamilyHeads(ctx context.Context) ([]FamilyHead, error) {
	out, err := call[[]FamilyHead](ctx, c, http.MethodGet, "/v1/family-heads", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) GetFamilyHead(ctx context.Context, id string) (*FamilyHead, error) {
	return call[FamilyHead](ctx, c, http.MethodGet, "/v1/family-heads/"+url.PathEscape(id), nil, http.StatusOK)
}

func (c *Client) CreateFamilyHead(ctx context.Context, req FamilyHeadRequest) (*FamilyHead, error) {
	return call[FamilyHead](ctx, c, http.MethodPost, "/v1/family-heads", req, http.StatusCreated)
}

// DeleteFamilyHead fails with ErrConflict while residents still reference it.
func (c *Client) DeleteFamilyHead(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/family-heads/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
