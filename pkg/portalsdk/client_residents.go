package portalsdk

import (
	"context"
	"net/http"
	"net/url"
)

func residentPath(id string) string {
	return "/v1/residents/" + url.PathEscape(id)
}

// ListResidents requires an admin token.
func (c *Client) ListResidents(ctx context.Context) ([]Resident, error) {
	out, err := call[[]Resident](ctx, c, http.MethodGet, "/v1/residents", nil, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return *out, nil
}

func (c *Client) GetResident(ctx context.Context, id string) (*Resident, error) {
	return call[Resident](ctx, c, http.MethodGet, residentPath(id), nil, http.StatusOK)
}

// GetResidentQRCode returns the PNG data URL of the resident's QR artifact.
func (c *Client) GetResidentQRCode(ctx context.Context, id string) (string, error) {
	out, err := call[QRCodeResponse](ctx, c, http.MethodGet, residentPath(id)+"/qrcode", nil, http.StatusOK)
	if err != nil {
		return "", err
	}
	return out.QRCode, nil
}

func (c *Client) CreateResident(ctx context.Context, req ResidentRequest) (*Resident, error) {
	return call[Resident](ctx, c, http.MethodPost, "/v1/residents", req, http.StatusCreated)
}

func (c *Client) UpdateResident(ctx context.Context, id string, req ResidentRequest) (*Resident, error) {
	return call[Resident](ctx, c, http.MethodPut, residentPath(id), req, http.StatusOK)
}

func (c *Client) DeleteResident(ctx context.Context, id string) (*MessageResponse, error) {
	return call[MessageResponse](ctx, c, http.MethodDelete, residentPath(id), nil, http.StatusOK)
}
