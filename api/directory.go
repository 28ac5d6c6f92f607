package api

import (
	"fmt"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"

	"github.com/sunkingbms/litmos-two/diag"
	"github.com/sunkingbms/litmos-two/logger"
	"github.com/sunkingbms/litmos-two/types"
)

const (
	pathUsersSearch  = "/users?{query}"
	pathUsersDetails = "/users/{userId}?{query}"
)

// Directory implements the user-directory operations: the row-level
// activate/deactivate action used by the batch and push paths, and the
// search/fetch/update flow used for single-user requests.
type Directory struct {
	api        *apiClient
	classifier *Classifier
	logger     logger.Logger
}

func NewDirectory(config Config) *Directory {
	client := newApiClient(config)
	return &Directory{
		api:        client,
		classifier: NewClassifier(client.logger, client.config.Diag),
		logger:     client.logger,
	}
}

type actionUser struct {
	Email string `json:"email"`
}

type actionRequest struct {
	User   actionUser `json:"user"`
	Action string     `json:"action"`
}

// ApplyRecord applies one operation to one input record: the hot path
// for both the batch engine and the push worker. It resolves the
// record's identifier, POSTs the minimal action payload with bearer
// auth, and folds the response into an Outcome. Exactly one outbound
// call per invocation; a record without an identifier never reaches the
// network. Panics are contained here so one bad record can never take
// down sibling in-flight operations.
func (d *Directory) ApplyRecord(op types.OperationKind, rec types.Record) (out types.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("ApplyRecord panic: %v", r)
			d.api.config.Diag.Record(diag.Event{
				Error: fmt.Sprint(r),
				Trace: string(debug.Stack()),
			})
			out = types.FailureOutcome(fmt.Sprint(r))
		}
	}()

	identifier := rec.Identifier()
	if identifier == "" {
		return types.FailureOutcome("missing identifier")
	}

	payload := actionRequest{
		User:   actionUser{Email: identifier},
		Action: op.Action(),
	}

	res, _ := d.api.send(http.MethodPost, d.api.config.ActionURL, payload, authBearer)
	if res == nil {
		return types.FailureOutcome("no-response")
	}
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return types.SuccessOutcome(res.StatusCode)
	}
	return types.Outcome{
		StatusCode: res.StatusCode,
		Reason:     fmt.Sprintf("%d:%s", res.StatusCode, res.BodyPreview(bodyPreviewLimit)),
	}
}

// UserOpResult is the outcome of the single-user idempotent flow.
type UserOpResult struct {
	Username string `json:"username"`
	Success  bool   `json:"success"`
	Message  string `json:"message"`
}

// ActivateUser looks the user up by username and activates them via a
// full-record update, reporting success without a write when they are
// already active.
func (d *Directory) ActivateUser(username string) UserOpResult {
	return d.setUserActive(username, true)
}

// DeactivateUser is the inverse of ActivateUser with the same
// idempotence short-circuit.
func (d *Directory) DeactivateUser(username string) UserOpResult {
	return d.setUserActive(username, false)
}

func (d *Directory) setUserActive(username string, active bool) (res UserOpResult) {
	verb := "deactivat"
	if active {
		verb = "activat"
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorf("Exception %sing user %s: %v", verb, username, r)
			res = UserOpResult{Username: username, Message: fmt.Sprint(r)}
		}
	}()

	d.logger.Infof("%sing user %s", verb, username)

	user, found := d.FindUserByUsername(username)
	if !found {
		return UserOpResult{Username: username, Message: "User not found"}
	}
	userId := user.Id()
	if userId == "" {
		return UserOpResult{Username: username, Message: "User ID not found"}
	}

	details, ok := d.GetUserDetails(userId)
	if !ok {
		return UserOpResult{Username: username, Message: "Could not fetch user details"}
	}

	if current, ok := details.Active(); ok && current == active {
		msg := "Already inactive"
		if active {
			msg = "Already active"
		}
		return UserOpResult{Username: username, Success: true, Message: msg}
	}

	updated := details.WithActive(active)
	raw, _ := d.api.send(http.MethodPut, d.detailsURL(userId), updated, authApiKey)
	if raw != nil && (raw.StatusCode == 200 || raw.StatusCode == 204) {
		return UserOpResult{
			Username: username,
			Success:  true,
			Message:  fmt.Sprintf("User %sed successfully", verb),
		}
	}

	status := "no response"
	if raw != nil {
		status = fmt.Sprint(raw.StatusCode)
	}
	failure := "Deactivation failed"
	if active {
		failure = "Activation failed"
	}
	return UserOpResult{
		Username: username,
		Message:  fmt.Sprintf("%s: %s", failure, status),
	}
}

// FindUserByUsername searches the directory and returns the user whose
// UserName matches case-insensitively (exact match, not substring).
func (d *Directory) FindUserByUsername(username string) (types.DirectoryUser, bool) {
	raw, _ := d.api.send(http.MethodGet, d.searchURL(username), nil, authApiKey)
	ok, data := d.classifier.Classify(raw)
	if !ok {
		d.logger.Debugf("FindUserByUsername non-ok for %s", username)
		return nil, false
	}

	for _, u := range extractUsers(data) {
		if strings.EqualFold(u.UserName(), username) {
			return u, true
		}
	}
	return nil, false
}

// GetUserDetails fetches the full user record by id.
func (d *Directory) GetUserDetails(userId string) (types.DirectoryUser, bool) {
	raw, _ := d.api.send(http.MethodGet, d.detailsURL(userId), nil, authApiKey)
	ok, data := d.classifier.Classify(raw)
	if !ok {
		d.logger.Debugf("GetUserDetails non-ok for %s", userId)
		return nil, false
	}

	m, ok := data.(map[string]any)
	if !ok {
		return nil, false
	}
	if inner, has := m["User"].(map[string]any); has {
		return types.DirectoryUser(inner), true
	}
	return types.DirectoryUser(m), true
}

func (d *Directory) searchURL(username string) string {
	query := url.Values{}
	query.Set("source", d.api.config.Credentials.Source)
	query.Set("search", username)
	query.Set("format", "json")
	return d.api.config.BaseURL +
		strings.Replace(pathUsersSearch, "{query}", query.Encode(), 1)
}

func (d *Directory) detailsURL(userId string) string {
	query := url.Values{}
	query.Set("source", d.api.config.Credentials.Source)
	query.Set("format", "json")
	path := strings.Replace(pathUsersDetails, "{userId}", url.PathEscape(userId), 1)
	return d.api.config.BaseURL +
		strings.Replace(path, "{query}", query.Encode(), 1)
}

// extractUsers pulls a user list out of the search response, which the
// API serves in several shapes: {"User": {...}}, {"User": [...]},
// {"Users": {"User": ...}}, a bare object, or a bare array.
func extractUsers(data any) []types.DirectoryUser {
	var items []any
	switch v := data.(type) {
	case map[string]any:
		if inner, ok := v["User"]; ok {
			items = asList(inner)
		} else if users, ok := v["Users"].(map[string]any); ok {
			if inner, ok := users["User"]; ok {
				items = asList(inner)
			}
		} else {
			items = []any{v}
		}
	case []any:
		items = v
	}

	out := make([]types.DirectoryUser, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, types.DirectoryUser(m))
		}
	}
	return out
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
