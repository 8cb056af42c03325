package client

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// SubmitLeaveRequest submits a pending leave request with optional
// evidence. The absence date must be today or later; past dates are
// rejected before any network traffic.
func (c *Client) SubmitLeaveRequest(ctx context.Context, opts SubmitLeaveRequestOptions) (*LeaveRequest, error) {
	if strings.TrimSpace(opts.ClassroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	if strings.TrimSpace(opts.Reason) == "" {
		return nil, &ValidationError{Field: "reason", Message: "reason is required"}
	}
	if err := validateDate("absenceDate", opts.AbsenceDate); err != nil {
		return nil, err
	}
	if opts.AbsenceDate < time.Now().UTC().Format(absenceDateLayout) {
		return nil, &ValidationError{Field: "absenceDate", Message: "absence date must not be in the past"}
	}
	if opts.Evidence != nil && opts.Evidence.Filename == "" {
		return nil, &ValidationError{Field: "evidence", Message: "evidence filename is required"}
	}

	fields := map[string]string{
		"classroomId": opts.ClassroomID,
		"absenceDate": opts.AbsenceDate,
		"reason":      opts.Reason,
	}

	var request LeaveRequest
	if err := c.postMultipart(ctx, "/leave-request/submit", fields, "evidence", opts.Evidence, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// LeaveRequest retrieves one leave request, visible to the owning
// student and the classroom's instructor.
func (c *Client) LeaveRequest(ctx context.Context, requestID int64) (*LeaveRequest, error) {
	if requestID <= 0 {
		return nil, &ValidationError{Field: "requestID", Message: "request ID must be positive"}
	}

	var request LeaveRequest
	if err := c.get(ctx, fmt.Sprintf("/leave-request/%d", requestID), &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// MyLeaveRequests lists the calling student's requests, newest absence
// first. status optionally filters by PENDING, APPROVED or REJECTED.
func (c *Client) MyLeaveRequests(ctx context.Context, status string) ([]LeaveRequest, error) {
	return c.listRequests(ctx, "/leave-request/my-requests", status)
}

// AllLeaveRequests lists requests across every classroom the calling
// instructor teaches, newest absence first.
func (c *Client) AllLeaveRequests(ctx context.Context, status string) ([]LeaveRequest, error) {
	return c.listRequests(ctx, "/leave-request/my-all", status)
}

// ClassroomLeaveRequests lists requests for one classroom, owning
// instructor only.
func (c *Client) ClassroomLeaveRequests(ctx context.Context, classroomID, status string) ([]LeaveRequest, error) {
	if strings.TrimSpace(classroomID) == "" {
		return nil, &ValidationError{Field: "classroomID", Message: "classroom ID is required"}
	}
	return c.listRequests(ctx, "/leave-request/classroom/"+url.PathEscape(classroomID), status)
}

func (c *Client) listRequests(ctx context.Context, path, status string) ([]LeaveRequest, error) {
	if status != "" {
		status = strings.ToUpper(status)
		if status != StatusPending && status != StatusApproved && status != StatusRejected {
			return nil, &ValidationError{Field: "status", Message: "status must be PENDING, APPROVED or REJECTED"}
		}
		query := url.Values{}
		query.Set("status", status)
		path += "?" + query.Encode()
	}

	var requests []LeaveRequest
	if err := c.get(ctx, path, &requests); err != nil {
		return nil, err
	}
	sortByAbsenceDateDesc(requests)
	return requests, nil
}

// sortByAbsenceDateDesc orders requests newest absence first, with the
// request ID as a stable tiebreaker. The server already orders this
// way; sorting again keeps the contract independent of server version.
func sortByAbsenceDateDesc(requests []LeaveRequest) {
	sort.SliceStable(requests, func(i, j int) bool {
		if requests[i].AbsenceDate != requests[j].AbsenceDate {
			return requests[i].AbsenceDate > requests[j].AbsenceDate
		}
		return requests[i].ID > requests[j].ID
	})
}

// ApproveLeaveRequest marks a pending request approved. Deciding an
// already-decided request fails with a conflict.
func (c *Client) ApproveLeaveRequest(ctx context.Context, requestID int64) (*LeaveRequest, error) {
	if requestID <= 0 {
		return nil, &ValidationError{Field: "requestID", Message: "request ID must be positive"}
	}

	var request LeaveRequest
	if err := c.post(ctx, fmt.Sprintf("/leave-request/%d/approve", requestID), nil, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// DenyLeaveRequest marks a pending request rejected. The denial reason
// is mandatory and validated before any network traffic.
func (c *Client) DenyLeaveRequest(ctx context.Context, requestID int64, denialReason string) (*LeaveRequest, error) {
	if requestID <= 0 {
		return nil, &ValidationError{Field: "requestID", Message: "request ID must be positive"}
	}
	if strings.TrimSpace(denialReason) == "" {
		return nil, &ValidationError{Field: "denialReason", Message: "denial reason is required"}
	}

	body := struct {
		DenialReason string `json:"denialReason"`
	}{DenialReason: strings.TrimSpace(denialReason)}

	var request LeaveRequest
	if err := c.post(ctx, fmt.Sprintf("/leave-request/%d/deny", requestID), &body, &request); err != nil {
		return nil, err
	}
	return &request, nil
}

// WithdrawLeaveRequest deletes the calling student's own pending
// request. Decided requests cannot be withdrawn.
func (c *Client) WithdrawLeaveRequest(ctx context.Context, requestID int64) error {
	if requestID <= 0 {
		return &ValidationError{Field: "requestID", Message: "request ID must be positive"}
	}
	return c.delete(ctx, fmt.Sprintf("/leave-request/%d", requestID))
}

// LeaveRequestEvidence downloads the evidence file attached to a leave
// request.
func (c *Client) LeaveRequestEvidence(ctx context.Context, requestID int64) ([]byte, error) {
	if requestID <= 0 {
		return nil, &ValidationError{Field: "requestID", Message: "request ID must be positive"}
	}

	body, _, err := c.doRaw(ctx, "GET", fmt.Sprintf("/leave-request/evidence/%d", requestID), nil, "")
	if err != nil {
		return nil, err
	}
	return body, nil
}

// validateDate checks the YYYY-MM-DD wire format
func validateDate(field, value string) error {
	if value == "" {
		return &ValidationError{Field: field, Message: "date is required"}
	}
	if _, err := time.Parse(absenceDateLayout, value); err != nil {
		return &ValidationError{Field: field, Message: "date must be formatted as YYYY-MM-DD"}
	}
	return nil
}
