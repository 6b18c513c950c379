package services

import "errors"

var (
	// ErrInvalidQuote is returned when a quote fails the save guard
	// (blank customer name or unknown template).
	ErrInvalidQuote = errors.New("quote is not valid for saving")

	ErrQuoteNotFound   = errors.New("quote not found")
	ErrUnknownTemplate = errors.New("unknown quote template")

	// ErrRenderContext is the only expected PDF failure: the drawing
	// document could not be created or generated.
	ErrRenderContext = errors.New("pdf drawing context unavailable")

	// ErrNoPhoto marks a picked file that is not a decodable image.
	ErrNoPhoto = errors.New("not a supported image")

	ErrNoRecipients = errors.New("no mail recipients")
)
