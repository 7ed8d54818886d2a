package errors

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errKind = New("kind")

func TestMark(t *testing.T) {
	err := Mark(Wrap(io.ErrUnexpectedEOF, "read snapshot"), errKind)

	assert.True(t, Is(err, errKind))
	assert.True(t, Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "read snapshot: unexpected EOF", err.Error())
	assert.Nil(t, Mark(nil, errKind))
}

func TestWrapKeepsTarget(t *testing.T) {
	err := Wrapf(errKind, "store %d", 7)

	assert.True(t, Is(err, errKind))
	assert.Equal(t, "store 7: kind", err.Error())
}
