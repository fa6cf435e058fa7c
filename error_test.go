package docrag_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/docrag"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := docrag.Errorf(docrag.ENOTFOUND, "object %q not found", "docs/index.html")

	assert.Equal(t, docrag.ENOTFOUND, docrag.ErrorCode(err))
	assert.Equal(t, "object \"docs/index.html\" not found", docrag.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docrag.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, docrag.ErrorMessage(nil))
}

func TestErrorCode_WrappedApplicationError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading config: %w", docrag.Errorf(docrag.ECONFIG, "MONGO_URI not set"))

	assert.Equal(t, docrag.ECONFIG, docrag.ErrorCode(err))
	assert.Equal(t, "MONGO_URI not set", docrag.ErrorMessage(err))
}

func TestErrorCode_PlainErrorIsInternal(t *testing.T) {
	t.Parallel()

	err := errors.New("connection reset")

	assert.Equal(t, docrag.EINTERNAL, docrag.ErrorCode(err))
	assert.Equal(t, "Internal error.", docrag.ErrorMessage(err))
}
