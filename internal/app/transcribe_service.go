package app

import (
	"context"
	"io"
)

const defaultLanguage = "en"

// Transcriber runs the provider's upload/submit/poll lifecycle.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, language string) (string, error)
}

type TranscribeService struct {
	transcriber Transcriber
}

func NewTranscribeService(transcriber Transcriber) *TranscribeService {
	return &TranscribeService{transcriber: transcriber}
}

func (s *TranscribeService) Transcribe(ctx context.Context, audio io.Reader, language string) (string, error) {
	if language == "" {
		language = defaultLanguage
	}
	return s.transcriber.Transcribe(ctx, audio, language)
}
