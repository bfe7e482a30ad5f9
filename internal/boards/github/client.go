// Package github implements boards.Client on GitHub Issues. Each work item is
// an issue labeled with its type; parent links are sub-issue relations.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	"boardkit.dev/boardkit/internal/boards"
	boarderrors "boardkit.dev/boardkit/internal/errors"
	"boardkit.dev/boardkit/internal/workitem"
)

const defaultHostname = "github.com"

// Options configures the GitHub backend
type Options struct {
	Owner    string
	Repo     string
	Hostname string
	Token    string

	// APIURL and GraphQLURL override the endpoints derived from Hostname
	APIURL     string
	GraphQLURL string
}

// Client implements boards.Client using the GitHub REST and GraphQL APIs
type Client struct {
	client     *github.Client
	httpClient *http.Client
	graphQLURL string
	owner      string
	repo       string
}

var _ boards.Client = (*Client)(nil)

// NewClient creates an authenticated client for opts.Owner/opts.Repo
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("GitHub token is required")
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("GitHub owner and repo are required")
	}
	hostname := opts.Hostname
	if hostname == "" {
		hostname = defaultHostname
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: opts.Token},
	)
	tc := oauth2.NewClient(ctx, ts)
	client := github.NewClient(tc)

	apiURL := opts.APIURL
	graphQLURL := opts.GraphQLURL
	if hostname != defaultHostname {
		// GitHub Enterprise API endpoints
		if apiURL == "" {
			apiURL = fmt.Sprintf("https://%s/api/v3/", hostname)
		}
		if graphQLURL == "" {
			graphQLURL = fmt.Sprintf("https://%s/api/graphql", hostname)
		}
	}
	if graphQLURL == "" {
		graphQLURL = "https://api.github.com/graphql"
	}
	if apiURL != "" {
		if !strings.HasSuffix(apiURL, "/") {
			apiURL += "/"
		}
		baseURL, err := url.Parse(apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL %s: %w", apiURL, err)
		}
		client.BaseURL = baseURL
		client.UploadURL = baseURL
	}

	return &Client{
		client:     client,
		httpClient: tc,
		graphQLURL: graphQLURL,
		owner:      opts.Owner,
		repo:       opts.Repo,
	}, nil
}

// Name identifies the backend
func (c *Client) Name() string {
	return fmt.Sprintf("GitHub Issues (%s/%s)", c.owner, c.repo)
}

// CreateItem opens an issue labeled with the work item type
func (c *Client) CreateItem(ctx context.Context, itemType workitem.Type, title string) (workitem.ID, error) {
	req := &github.IssueRequest{
		Title:  github.String(title),
		Labels: &[]string{itemType.String()},
	}
	issue, _, err := c.client.Issues.Create(ctx, c.owner, c.repo, req)
	if err != nil {
		return "", fmt.Errorf("failed to create issue: %w", err)
	}
	if issue.GetNumber() == 0 {
		return "", fmt.Errorf("GitHub returned no issue number for %s %q", itemType, title)
	}
	return workitem.ID(strconv.Itoa(issue.GetNumber())), nil
}

// LinkParentChild adds child as a sub-issue of parent
func (c *Client) LinkParentChild(ctx context.Context, child, parent workitem.ID) error {
	childNode, err := c.nodeID(ctx, child)
	if err != nil {
		return boarderrors.NewLinkError(string(child), string(parent), err)
	}
	parentNode, err := c.nodeID(ctx, parent)
	if err != nil {
		return boarderrors.NewLinkError(string(child), string(parent), err)
	}

	const mutation = `mutation AddSubIssue($issueId: ID!, $subIssueId: ID!) {
		addSubIssue(input: {issueId: $issueId, subIssueId: $subIssueId}) {
			issue { id }
		}
	}`
	if err := c.graphQL(ctx, "addSubIssue", mutation, map[string]interface{}{
		"issueId":    parentNode,
		"subIssueId": childNode,
	}); err != nil {
		return boarderrors.NewLinkError(string(child), string(parent), err)
	}
	return nil
}

// DeleteItem deletes the issue. Rejections by GitHub (missing issue,
// insufficient permission) are reported as (false, nil).
func (c *Client) DeleteItem(ctx context.Context, id workitem.ID) (bool, error) {
	if id == "" {
		return false, nil
	}
	node, err := c.nodeID(ctx, id)
	if err != nil {
		if isRejection(err) {
			return false, nil
		}
		return false, err
	}

	const mutation = `mutation DeleteIssue($issueId: ID!) {
		deleteIssue(input: {issueId: $issueId}) {
			clientMutationId
		}
	}`
	if err := c.graphQL(ctx, "deleteIssue", mutation, map[string]interface{}{"issueId": node}); err != nil {
		if isRejection(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// QueryByTypeAndTitle searches issues carrying the type label and keeps those
// whose title matches exactly.
func (c *Client) QueryByTypeAndTitle(ctx context.Context, itemType workitem.Type, title string) ([]workitem.ID, error) {
	query := fmt.Sprintf(`repo:%s/%s is:issue label:"%s" in:title "%s"`,
		c.owner, c.repo, itemType.String(), strings.ReplaceAll(title, `"`, ""))
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: 100}}

	var ids []workitem.ID
	for {
		result, resp, err := c.client.Search.Issues(ctx, query, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to search issues: %w", err)
		}
		for _, issue := range result.Issues {
			if issue.IsPullRequest() || issue.GetTitle() != title || !hasLabel(issue, itemType.String()) {
				continue
			}
			ids = append(ids, workitem.ID(strconv.Itoa(issue.GetNumber())))
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return ids, nil
}

func hasLabel(issue *github.Issue, name string) bool {
	for _, label := range issue.Labels {
		if label.GetName() == name {
			return true
		}
	}
	return false
}

// nodeID resolves an issue number to its GraphQL node id
func (c *Client) nodeID(ctx context.Context, id workitem.ID) (string, error) {
	number, err := strconv.Atoi(string(id))
	if err != nil {
		return "", &RejectedError{Operation: "lookup", Messages: []string{fmt.Sprintf("invalid issue number %q", id)}}
	}
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			return "", &RejectedError{Operation: "lookup", Status: ghErr.Response.StatusCode, Messages: []string{ghErr.Message}}
		}
		return "", fmt.Errorf("failed to get issue %d: %w", number, err)
	}
	if issue.GetNodeID() == "" {
		return "", &RejectedError{Operation: "lookup", Messages: []string{fmt.Sprintf("issue %d has no node id", number)}}
	}
	return issue.GetNodeID(), nil
}

// RejectedError is a well-formed refusal from GitHub, as opposed to a
// transport failure.
type RejectedError struct {
	Operation string
	Status    int
	Messages  []string
}

func (e *RejectedError) Error() string {
	msg := fmt.Sprintf("GitHub rejected %s", e.Operation)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if len(e.Messages) > 0 {
		msg += ": " + strings.Join(e.Messages, "; ")
	}
	return msg
}

func isRejection(err error) bool {
	var rejected *RejectedError
	return errors.As(err, &rejected)
}

// graphQL posts a query and returns a RejectedError for non-200 responses or
// GraphQL-level errors
func (c *Client) graphQL(ctx context.Context, operation, query string, variables map[string]interface{}) error {
	requestBody := map[string]interface{}{
		"query":     query,
		"variables": variables,
	}
	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return fmt.Errorf("failed to marshal GraphQL request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphQLURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create GraphQL request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("GraphQL-Features", "sub_issues")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute GraphQL request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read GraphQL response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &RejectedError{Operation: operation, Status: resp.StatusCode, Messages: []string{strings.TrimSpace(string(body))}}
	}

	var graphqlResponse struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &graphqlResponse); err != nil {
		return fmt.Errorf("failed to parse GraphQL response: %w", err)
	}
	if len(graphqlResponse.Errors) > 0 {
		messages := make([]string, len(graphqlResponse.Errors))
		for i, e := range graphqlResponse.Errors {
			messages[i] = e.Message
		}
		return &RejectedError{Operation: operation, Status: resp.StatusCode, Messages: messages}
	}
	return nil
}
