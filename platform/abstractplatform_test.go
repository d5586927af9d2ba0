package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbstractPlatform_Commit(t *testing.T) {
	displayed := 0
	s := newAbstractPlatform(nil, func() error {
		displayed++
		return nil
	})

	require.NoError(t, s.Allocate(2))
	assert.Equal(t, 2, s.LedsTotal())

	frame := []byte{1, 2, 3, 4, 5, 6}
	require.NoError(t, s.Commit(frame))
	assert.Equal(t, 1, displayed)

	frame[0] = 99
	s.withFrame(func(f []byte) {
		assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, f)
	})
}

func TestAbstractPlatform_CommitWrongSize(t *testing.T) {
	s := newAbstractPlatform(nil, func() error { return nil })
	require.NoError(t, s.Allocate(2))
	err := s.Commit([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestAbstractPlatform_AllocateInvalid(t *testing.T) {
	s := newAbstractPlatform(nil, func() error { return nil })
	assert.Error(t, s.Allocate(0))
}

func TestAbstractPlatform_NoDisplayAfterShutdown(t *testing.T) {
	displayed := 0
	s := newAbstractPlatform(nil, func() error {
		displayed++
		return nil
	})
	require.NoError(t, s.Allocate(1))
	s.setInShutdown()
	assert.NoError(t, s.Commit([]byte{1, 2, 3}))
	assert.Equal(t, 0, displayed)
}
