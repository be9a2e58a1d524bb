package storage

import (
	"fmt"
	"strings"

	"github.com/yungbote/seoportal-backend/internal/logger"
	"github.com/yungbote/seoportal-backend/internal/utils"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCS   Mode = "gcs"
)

type BootstrapError struct {
	Mode Mode
	Err  error
}

func (e *BootstrapError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("storage bootstrap failed (mode=%s): %v", e.Mode, e.Err)
}

func (e *BootstrapError) Unwrap() error { return e.Err }

// NewFromEnv selects the store implementation from FILE_STORAGE_MODE:
// "local" (default) writes under FILE_STORAGE_ROOT, "gcs" uses the bucket
// client.
func NewFromEnv(log *logger.Logger) (Store, error) {
	mode := Mode(strings.ToLower(utils.GetEnv("FILE_STORAGE_MODE", string(ModeLocal), log)))
	switch mode {
	case ModeLocal:
		root := utils.GetEnv("FILE_STORAGE_ROOT", "./media", log)
		baseURL := utils.GetEnv("FILE_STORAGE_BASE_URL", "", log)
		store, err := NewLocalStore(log, root, baseURL)
		if err != nil {
			return nil, &BootstrapError{Mode: mode, Err: err}
		}
		return store, nil
	case ModeGCS:
		store, err := NewGCSStore(log)
		if err != nil {
			return nil, &BootstrapError{Mode: mode, Err: err}
		}
		return store, nil
	default:
		return nil, &BootstrapError{Mode: mode, Err: fmt.Errorf("unknown storage mode %q", mode)}
	}
}
