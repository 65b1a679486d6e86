package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gymflow/portal/internal/domain"
)

// MemberQuery filters the member list server-side.
type MemberQuery struct {
	Search string
	Status string
}

func (q MemberQuery) values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Status != "" {
		v.Set("status", q.Status)
	}
	return v
}

func (c *Client) ListMembers(ctx context.Context, q MemberQuery) ([]domain.Member, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"members"}, query: q.values(), bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeList[domain.Member](raw, "members", "data")
}

func (c *Client) GetMember(ctx context.Context, id domain.ID) (*domain.Member, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"members", id.String()}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Member](raw, "member", "data")
}

func (c *Client) CreateMember(ctx context.Context, in domain.MemberInput) (*domain.Member, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPost, path: []string{"members"}, body: in, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Member](raw, "member", "data")
}

func (c *Client) UpdateMember(ctx context.Context, id domain.ID, in domain.MemberInput) (*domain.Member, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodPut, path: []string{"members", id.String()}, body: in, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.Member](raw, "member", "data")
}

func (c *Client) DeleteMember(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: []string{"members", id.String()}, bearer: true}, nil)
}

func (c *Client) MemberStats(ctx context.Context, id domain.ID) (*domain.MemberStats, error) {
	var stats domain.MemberStats
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"members", id.String(), "stats"}, bearer: true}, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
