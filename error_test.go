package orgdocs_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/orgdocs"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := orgdocs.Errorf(orgdocs.ENOTFOUND, "no README found for %s/%s", "acme", "widgets")

	assert.Equal(t, orgdocs.ENOTFOUND, orgdocs.ErrorCode(err))
	assert.Equal(t, "no README found for acme/widgets", orgdocs.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, orgdocs.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, orgdocs.EINTERNAL, orgdocs.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, orgdocs.ErrorMessage(nil))
}

func TestErrorMessage_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Internal error.", orgdocs.ErrorMessage(errors.New("boom")))
}
