package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"

	"github.com/papercomputeco/graphchat/pkg/graph"
)

const defaultListLimit = 50

// Position is a node's placement on the canvas. A nil Width leaves the
// width unchanged.
type Position struct {
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Width *float64 `json:"width"`
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.Submit(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server reported status %q", out.Status)
	}
	return nil
}

// ListSessions returns the most recent sessions. A non-positive limit uses
// the server default of 50.
func (c *Client) ListSessions(ctx context.Context, limit int) ([]graph.Session, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var out []graph.Session
	path := fmt.Sprintf("/api/sessions?limit=%d", limit)
	if err := c.Submit(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetGraph fetches the full graph of a session.
func (c *Client) GetGraph(ctx context.Context, sessionID string) (graph.Data, error) {
	if err := validateSessionID(sessionID); err != nil {
		return graph.Data{}, err
	}

	var out graph.Data
	err := c.Submit(ctx, http.MethodGet, sessionPath(sessionID, "graph"), nil, &out)
	return out, err
}

// InitSession creates a session without streaming.
func (c *Client) InitSession(ctx context.Context, topic string) (graph.InitResult, error) {
	topic, err := validateTopic(topic)
	if err != nil {
		return graph.InitResult{}, err
	}

	var out graph.InitResult
	err = c.Submit(ctx, http.MethodPost, "/api/sessions/init", initRequest{Topic: topic}, &out)
	return out, err
}

// Ask asks a question without streaming.
func (c *Client) Ask(ctx context.Context, sessionID string, req AskRequest) (graph.AskResult, error) {
	req, err := validateAsk(sessionID, req)
	if err != nil {
		return graph.AskResult{}, err
	}

	var out graph.AskResult
	err = c.Submit(ctx, http.MethodPost, sessionPath(sessionID, "ask"), req, &out)
	return out, err
}

// UpdateNodePosition moves (and optionally resizes) a node.
func (c *Client) UpdateNodePosition(ctx context.Context, sessionID, nodeID string, pos Position) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := validateWidth(pos.Width); err != nil {
		return err
	}

	path := sessionPath(sessionID, "nodes", nodeID, "position")
	return c.Submit(ctx, http.MethodPatch, path, pos, nil)
}

// UpdateNodeMastery records how well the learner knows a node.
func (c *Client) UpdateNodeMastery(ctx context.Context, sessionID, nodeID string, mastery float64) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if err := validateMastery(mastery); err != nil {
		return err
	}

	body := struct {
		Mastery float64 `json:"mastery"`
	}{Mastery: mastery}
	return c.Submit(ctx, http.MethodPatch, sessionPath(sessionID, "nodes", nodeID, "mastery"), body, nil)
}

// UploadMaterial attaches a UTF-8 .txt or .md file to a session and returns
// the material id.
func (c *Client) UploadMaterial(ctx context.Context, sessionID, filename string, content io.Reader) (string, error) {
	if err := validateSessionID(sessionID); err != nil {
		return "", err
	}
	if err := validateUpload(filename); err != nil {
		return "", err
	}

	var out struct {
		ID string `json:"id"`
	}
	err := c.submitFile(ctx, sessionPath(sessionID, "materials"), "file", filepath.Base(filename), content, &out)
	return out.ID, err
}

// GenerateReview asks the server to review the session's graph.
func (c *Client) GenerateReview(ctx context.Context, sessionID string) (graph.Review, error) {
	if err := validateSessionID(sessionID); err != nil {
		return graph.Review{}, err
	}

	var out graph.Review
	err := c.Submit(ctx, http.MethodPost, sessionPath(sessionID, "review"), nil, &out)
	return out, err
}

// GenerateQuiz generates count quiz items from the session's graph.
func (c *Client) GenerateQuiz(ctx context.Context, sessionID string, count int) ([]graph.QuizItem, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("%w: count must be positive", ErrInvalidRequest)
	}

	body := struct {
		Count int `json:"count"`
	}{Count: count}
	var out struct {
		Items []graph.QuizItem `json:"items"`
	}
	if err := c.Submit(ctx, http.MethodPost, sessionPath(sessionID, "quiz", "generate"), body, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

// GradeQuiz grades an answer to a quiz item.
func (c *Client) GradeQuiz(ctx context.Context, sessionID, quizID, answer string) (graph.QuizGrade, error) {
	if err := validateSessionID(sessionID); err != nil {
		return graph.QuizGrade{}, err
	}

	body := struct {
		QuizID     string `json:"quiz_id"`
		UserAnswer string `json:"user_answer"`
	}{QuizID: quizID, UserAnswer: answer}
	var out graph.QuizGrade
	err := c.Submit(ctx, http.MethodPost, sessionPath(sessionID, "quiz", "grade"), body, &out)
	return out, err
}

// sessionPath builds /api/sessions/<id>/<parts...> with escaped segments.
func sessionPath(sessionID string, parts ...string) string {
	p := "/api/sessions/" + url.PathEscape(sessionID)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}
