package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrMissingDrawing       = fmt.Errorf("%w: drawing file has not been uploaded", ErrInvalidInput)
	ErrMissingSpecification = fmt.Errorf("%w: specification file has not been uploaded", ErrInvalidInput)
	ErrMissingFileURL       = fmt.Errorf("%w: fileUrl is required", ErrInvalidInput)
	ErrUnsupportedFile      = fmt.Errorf("%w: unsupported file type", ErrInvalidInput)
	ErrEmptyFile            = fmt.Errorf("%w: file is empty", ErrInvalidInput)
	ErrFileTooLarge         = fmt.Errorf("%w: file too large", ErrInvalidInput)
	ErrForeignDocument      = fmt.Errorf("%w: document was not uploaded by this user", ErrInvalidInput)
	ErrStageFailed          = errors.New("estimate stage failed")
	ErrPlanNotFound         = errors.New("plan not found")
	ErrBoqNotCached         = errors.New("estimate for plan is no longer cached")
	ErrFetchDocument        = errors.New("fetch document failed")
)
