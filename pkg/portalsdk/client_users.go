package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	out, err := call[[]User](ctx, c, http.MethodGet, "/v1/users", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	return call[User](ctx, c, http.MethodPost, "/v1/users", req, http.StatusCreated)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/users/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
