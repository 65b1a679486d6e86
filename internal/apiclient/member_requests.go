package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gymflow/portal/internal/domain"
)

// SubmitMemberRequest files a public membership request. No session is involved.
func (c *Client) SubmitMemberRequest(ctx context.Context, in domain.MemberRequestInput) error {
	return c.do(ctx, call{method: http.MethodPost, path: []string{"member-requests"}, body: in}, nil)
}

func (c *Client) ListMemberRequests(ctx context.Context, status domain.MemberRequestStatus) ([]domain.MemberRequest, error) {
	if status == "" {
		status = domain.MemberRequestPending
	}
	var raw json.RawMessage
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   []string{"member-requests"},
		query:  url.Values{"status": {string(status)}},
		bearer: true,
	}, &raw)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.MemberRequest](raw, "data", "requests")
}

func (c *Client) GetMemberRequest(ctx context.Context, id domain.ID) (*domain.MemberRequest, error) {
	var raw json.RawMessage
	if err := c.do(ctx, call{method: http.MethodGet, path: []string{"member-requests", id.String()}, bearer: true}, &raw); err != nil {
		return nil, err
	}
	return decodeItem[domain.MemberRequest](raw, "data", "request")
}

// ApproveMemberRequest approves the request; the API creates the member.
func (c *Client) ApproveMemberRequest(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodPut, path: []string{"member-requests", id.String(), "approve"}, bearer: true}, nil)
}

func (c *Client) RejectMemberRequest(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodPut, path: []string{"member-requests", id.String(), "reject"}, bearer: true}, nil)
}

func (c *Client) DeleteMemberRequest(ctx context.Context, id domain.ID) error {
	return c.do(ctx, call{method: http.MethodDelete, path: []string{"member-requests", id.String()}, bearer: true}, nil)
}
