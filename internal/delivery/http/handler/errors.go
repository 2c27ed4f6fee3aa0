package handler

import (
	"job-scraping/internal/delivery/http/middleware"
	"job-scraping/internal/pkg/serrors"
)

// Client-facing messages per resource, keyed by failure kind. The error
// middleware picks the status from the kind; kinds missing here get the
// envelope default for that status.
var (
	searchMessages = map[serrors.Kind]string{
		serrors.ErrBadRequest: "Keyword is required",
	}
	alertMessages = map[serrors.Kind]string{
		serrors.ErrBadRequest: "Invalid request payload",
		serrors.ErrNotFound:   "Alert not found",
	}
	savedJobMessages = map[serrors.Kind]string{
		serrors.ErrBadRequest:    "Invalid request payload",
		serrors.ErrConflict:      "Job already saved",
		serrors.ErrUnprocessable: "No new saved jobs to send",
		serrors.ErrNotFound:      "User not found",
		serrors.ErrTransport:     "Failed to send email",
	}
)

func usecaseError(err error, messages map[serrors.Kind]string) error {
	return middleware.Public(err, messages[serrors.KindOf(err)])
}
