package ai

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	FallbackTitle = "Untitled"
	FallbackReply = "Sorry, I couldn't generate a response."
)

// BestEffort runs a generation call and converts any failure, or an empty
// result, into the designated fallback. Provider outages must never block
// the conversational flow, so the error is logged and absorbed here.
func BestEffort(ctx context.Context, fallback string, call func(context.Context) (string, error)) string {
	result, err := call(ctx)
	if err != nil {
		log.WithError(err).Warn("generation failed, using fallback")
		return fallback
	}
	if strings.TrimSpace(result) == "" {
		return fallback
	}
	return result
}
