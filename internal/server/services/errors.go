package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/herowall/internal/common"
	"github.com/dmitrijs2005/herowall/internal/logging"
)

// storeError passes domain sentinels through and collapses everything else
// into common.ErrorInternal after logging the cause.
func storeError(ctx context.Context, log logging.Logger, op string, err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorValidation):
		return err
	}
	log.Error(ctx, op+" failed", "error", err)
	return common.ErrorInternal
}
