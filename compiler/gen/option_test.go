package gen

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		c := &Config{}
		l := slog.New(slog.DiscardHandler)
		require.NoError(t, WithLogger(l)(c))
		assert.Same(t, l, c.Logger)
	})

	t.Run("nil logger", func(t *testing.T) {
		c := &Config{}
		err := WithLogger(nil)(c)
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Nil(t, c.Logger)
	})
}

func TestApply(t *testing.T) {
	failing := func(*Config) error { return errors.New("first") }
	t.Run("Apply stops at first error", func(t *testing.T) {
		c := &Config{}
		l := slog.New(slog.DiscardHandler)
		err := c.Apply(failing, WithLogger(l))
		assert.EqualError(t, err, "first")
		assert.Nil(t, c.Logger)
	})

	t.Run("ApplyAll collects errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(failing, WithLogger(nil))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "first")
		assert.True(t, IsConfigError(err))
	})

	t.Run("NewRegistry reports options errors", func(t *testing.T) {
		_, err := NewRegistry(WithLogger(nil))
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.Panics(t, func() { MustNewRegistry(WithLogger(nil)) })
	})
}

func TestClassOptions(t *testing.T) {
	c := &ClassConfig{}
	hook := func(*Instance) error { return nil }
	require.NoError(t, WithPostInit(hook)(c))
	require.NoError(t, WithPostInit(hook)(c))
	assert.Len(t, c.PostInit, 2)
	assert.True(t, IsConfigError(WithPostInit(nil)(c)))
	require.NoError(t, WithPreInit(hook)(c))
	assert.Len(t, c.PreInit, 1)
	assert.True(t, IsConfigError(WithPreInit(nil)(c)))

	require.NoError(t, WithCompatible("point")(c))
	assert.Equal(t, "point", c.Group)
	assert.True(t, IsConfigError(WithCompatible("")(c)))
}

func TestPlainOptions(t *testing.T) {
	c := newPlainConfig(nil)
	assert.Equal(t, &plainConfig{}, c)
	c = newPlainConfig([]PlainOption{ByName(), Strict(), RejectUnknown()})
	assert.Equal(t, &plainConfig{byName: true, strict: true, rejectUnknown: true}, c)
}
