package service

import "errors"

var (
	// ErrDataLoad reports a missing or malformed FAQ table or knowledge base.
	ErrDataLoad = errors.New("data load failed")
	// ErrModelUnavailable reports a transcription or embedding backend that could not be loaded or called.
	ErrModelUnavailable = errors.New("model unavailable")
	ErrIndexOutOfRange  = errors.New("row index out of range")
	// ErrMissingKnowledgeBase is returned by Compose when no knowledge base is supplied.
	ErrMissingKnowledgeBase = errors.New("knowledge base must be provided")
	// ErrSynthesis marks a speech synthesis failure. The pipeline logs it and carries on.
	ErrSynthesis = errors.New("speech synthesis failed")
	ErrInvalidK  = errors.New("k must be at least 1")
)
