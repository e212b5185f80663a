package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	unwrappedErr := Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestAcquisitionError(t *testing.T) {
	cause := fmt.Errorf("http 500")
	acqErr := NewAcquisitionError(1, "generate", GenerationFailed, cause)
	assert.Equal(t, "image acquisition failed: image 1: generate: http 500", acqErr.Error())
	assert.Equal(t, 1, acqErr.Index())
	assert.Equal(t, "generate", acqErr.Stage())
	assert.Equal(t, GenerationFailed, acqErr.Kind())
	assert.Equal(t, cause, Unwrap(acqErr))

	assert.True(t, IsAcquisitionError(Wrap(acqErr, "acquirer")))
	assert.False(t, IsAcquisitionError(New("other")))
	assert.Equal(t, "image acquisition failed: image 0: download", NewAcquisitionError(0, "download", DownloadFailed, nil).Error())
}

func TestRenderError(t *testing.T) {
	renderErr := NewRenderError("cannot decode image", "/tmp/0.png", DecodeFailed, nil)
	assert.Equal(t, "cannot decode image: /tmp/0.png", renderErr.Error())
	assert.Equal(t, "/tmp/0.png", renderErr.Path())

	renderErr = NewRenderError("cannot decode image", "/tmp/0.png", DecodeFailed, errors.New("unexpected EOF"))
	assert.Equal(t, "cannot decode image: /tmp/0.png: unexpected EOF", renderErr.Error())
	assert.True(t, IsRenderError(renderErr))
	assert.False(t, IsStructural(renderErr))

	var re *RenderError
	assert.True(t, As(Wrap(renderErr, "tick"), &re))
	assert.Equal(t, "/tmp/0.png", re.Path())
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "tick_seconds", InvalidConfig, nil)
	assert.Equal(t, "invalid value: tick_seconds", configErr.Error())
	assert.Equal(t, "tick_seconds", configErr.Param())
	assert.Equal(t, InvalidConfig, configErr.Kind())

	origErr := fmt.Errorf("value out of range")
	configErr = NewConfigError("invalid value", "tick_seconds", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: tick_seconds: value out of range", configErr.Error())
	assert.Equal(t, origErr, Unwrap(configErr))

	assert.Equal(t, "invalid configuration", ErrInvalidConfig.Error())
	assert.True(t, IsInvalidConfig(configErr))
	assert.False(t, IsInvalidConfig(New("some other error")))
	assert.False(t, IsInvalidConfig(NewConfigError("missing key", "cat", PromptNotFound, nil)))
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, Unknown},
		{"plain", errors.New("plain"), Unknown},
		{"direct", NewWithKind(ThemeNotFound, "theme not found", nil), ThemeNotFound},
		{"wrapped", Wrap(NewWithKind(NoItems, "empty", nil), "startup"), NoItems},
		{"fmt wrapped", fmt.Errorf("run: %w", NewAcquisitionError(2, "download", DownloadFailed, nil)), DownloadFailed},
		{"config", NewConfigError("missing key", "cat", PromptNotFound, nil), PromptNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsStructural(t *testing.T) {
	assert.True(t, IsStructural(ErrNoItems))
	assert.True(t, IsStructural(Wrap(NewWithKind(ThemeNotFound, "theme", nil), "load")))
	assert.True(t, IsStructural(NewWithKind(SessionLocked, "locked", nil)))
	assert.False(t, IsStructural(NewAcquisitionError(0, "generate", GenerationFailed, nil)))
	assert.False(t, IsStructural(nil))
	assert.Equal(t, "theme not found", ThemeNotFound.String())
	assert.Equal(t, "kind(999)", ErrorKind(999).String())
}
