package core

import "errors"

var (
	ErrBlocked                = errors.New("response blocked by provider")
	ErrEmptyResponse          = errors.New("provider returned an empty response")
	ErrServiceDisabled        = errors.New("generative language api is disabled")
	ErrUnsupportedURL         = errors.New("unsupported url")
	ErrTooLarge               = errors.New("file exceeds size limit")
	ErrUnsupportedImage       = errors.New("unsupported image")
	ErrAttachmentsUnsupported = errors.New("provider does not accept attachments")
	ErrNotFound               = errors.New("not found")
	ErrRateLimited            = errors.New("rate limited")
)

// BlockedError carries the provider's block reason.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string { return "response blocked: " + e.Reason }

func (e *BlockedError) Unwrap() error { return ErrBlocked }
