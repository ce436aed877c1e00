package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"steel-ledger/mtrledger/internal/common"
	"steel-ledger/mtrledger/internal/constants"

	"github.com/go-playground/validator/v10"
)

// acquireWriteLock takes the shared writer lock. A lock held past the wait window
// surfaces as ErrWriteBusy.
func acquireWriteLock(ctx context.Context, locker common.WriteLocker) (func(), error) {
	unlock, err := locker.Lock(ctx, constants.WriteLockName)
	if err != nil {
		if errors.Is(err, common.ErrLockNotObtained) {
			return nil, ErrWriteBusy
		}
		return nil, fmt.Errorf("failed to obtain write lock: %w", err)
	}
	return unlock, nil
}

// validationSummary renders validator errors as "Field:tag" pairs for logs.
func validationSummary(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, ve := range verrs {
		parts = append(parts, ve.Field()+":"+ve.Tag())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
