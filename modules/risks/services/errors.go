package services

import "github.com/riskdesk/riskdesk/pkg/serrors"

var (
	ErrUnsupportedFormat = serrors.NewError("IMPORT_UNSUPPORTED_FORMAT", "unsupported file format", "")
	ErrFileTooLarge      = serrors.NewError("IMPORT_FILE_TOO_LARGE", "file exceeds the maximum allowed size", "")
	ErrEmptyFile         = serrors.NewError("IMPORT_EMPTY_FILE", "file contains no data rows", "")
)
