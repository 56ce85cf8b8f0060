package ingest

import "github.com/scrapbird/holidayfinder/internal/apperr"

func errSourceUnavailable(msg string, cause error) error {
	return apperr.Wrap(apperr.KindSourceUnavailable, cause, msg)
}

func errInternal(msg string, cause error) error {
	return apperr.Wrap(apperr.KindInternal, cause, msg)
}
