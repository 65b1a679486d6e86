package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gymflow/portal/internal/domain"
)

func (c *Client) ListInvites(ctx context.Context) ([]domain.Invite, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"admin", "invites"}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Invite](raw, "data", "invites")
}

// CreateInvite issues a new admin invite code.
func (c *Client) CreateInvite(ctx context.Context) (*domain.Invite, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: []string{"admin", "invites"}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Invite](raw, "data", "invite")
}

func (c *Client) RevokeInvite(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: []string{"admin", "invites", id.String()}, bearer: true}, nil)
}
