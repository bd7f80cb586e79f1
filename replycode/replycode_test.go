package replycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_Description(t *testing.T) {
	assert.Contains(t, NotFound.Description(), "does not exist")
	assert.Contains(t, ContentTooLarge.Description(), "may retry")
	assert.Empty(t, Code(999).Description())
}

func TestCode_String(t *testing.T) {
	assert.Equal(t, "not-found", NotFound.String())
	assert.Equal(t, "internal-error", InternalError.String())
	assert.Empty(t, Code(999).String())
}

func TestCode_Categories(t *testing.T) {
	soft := []Code{NotDelivered, ContentTooLarge, NoRoute, NoConsumers,
		AccessRefused, NotFound, ResourceLocked, PreconditionFailed}
	for _, c := range soft {
		assert.True(t, c.IsSoft(), "%s should be soft", c)
		assert.False(t, c.IsHard(), "%s should not be hard", c)
		assert.Equal(t, CategorySoft, c.Category())
	}

	hard := []Code{ConnectionForced, InvalidPath, FrameError, SyntaxError,
		CommandInvalid, ChannelError, ResourceError, NotAllowed,
		NotImplemented, InternalError}
	for _, c := range hard {
		assert.True(t, c.IsHard(), "%s should be hard", c)
		assert.Equal(t, CategoryHard, c.Category())
	}

	assert.Equal(t, CategoryUnknown, Code(999).Category())
}

func TestCodes_Complete(t *testing.T) {
	codes := Codes()
	assert.Len(t, codes, 18)

	// Ascending, and every code carries a description and a category
	for i, c := range codes {
		if i > 0 {
			assert.Greater(t, int(c), int(codes[i-1]))
		}
		assert.NotEmpty(t, c.Description(), "%d", c)
		assert.NotEmpty(t, c.String(), "%d", c)
		assert.NotEqual(t, CategoryUnknown, c.Category(), "%d", c)
	}
}
