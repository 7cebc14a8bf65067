package client

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ErrInvalidRequest is wrapped by every client-side validation failure.
// Requests failing validation are never sent.
var ErrInvalidRequest = errors.New("invalid request")

const (
	maxTopicLen    = 120
	maxQuestionLen = 1200
	minNodeWidth   = 80.0
	maxNodeWidth   = 1200.0
)

var uploadExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

func validateTopic(topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if n := utf8.RuneCountInString(topic); n == 0 || n > maxTopicLen {
		return "", fmt.Errorf("%w: topic must be 1-%d characters", ErrInvalidRequest, maxTopicLen)
	}
	return topic, nil
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", ErrInvalidRequest)
	}
	return nil
}

func validateAsk(sessionID string, req AskRequest) (AskRequest, error) {
	if err := validateSessionID(sessionID); err != nil {
		return req, err
	}

	req.Question = strings.TrimSpace(req.Question)
	if n := utf8.RuneCountInString(req.Question); n == 0 || n > maxQuestionLen {
		return req, fmt.Errorf("%w: question must be 1-%d characters", ErrInvalidRequest, maxQuestionLen)
	}

	req.NodeIDs = orEmpty(req.NodeIDs)
	req.SelectedSections = orEmpty(req.SelectedSections)

	return req, nil
}

func validateWidth(width *float64) error {
	if width == nil {
		return nil
	}
	if *width <= minNodeWidth || *width > maxNodeWidth {
		return fmt.Errorf("%w: width must be in (%g, %g]", ErrInvalidRequest, minNodeWidth, maxNodeWidth)
	}
	return nil
}

func validateMastery(mastery float64) error {
	if mastery < 0 || mastery > 1 {
		return fmt.Errorf("%w: mastery must be in [0, 1]", ErrInvalidRequest)
	}
	return nil
}

func validateUpload(filename string) error {
	if filename == "" {
		return fmt.Errorf("%w: empty filename", ErrInvalidRequest)
	}
	if !uploadExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Errorf("%w: only .txt/.md files are supported", ErrInvalidRequest)
	}
	return nil
}
