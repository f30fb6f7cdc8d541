package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("tracks_status_and_written", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ww := newResponseWriter(rec)

		assert.False(t, ww.Written())
		assert.Equal(t, 0, ww.Status())

		ww.WriteHeader(http.StatusCreated)

		assert.True(t, ww.Written())
		assert.Equal(t, http.StatusCreated, ww.Status())
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("write_defaults_to_200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ww := newResponseWriter(rec)

		n, err := ww.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.True(t, ww.Written())
		assert.Equal(t, http.StatusOK, ww.Status())
		assert.Equal(t, "hello", rec.Body.String())
	})

	t.Run("second_write_header_panics", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ww := newResponseWriter(rec)
		ww.WriteHeader(http.StatusOK)

		defer func() {
			p := recover()
			require.NotNil(t, p)
			err, ok := p.(error)
			require.True(t, ok)
			assert.ErrorIs(t, err, ErrResponseWritten)
		}()
		ww.WriteHeader(http.StatusInternalServerError)
	})

	t.Run("write_after_header_does_not_panic", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ww := newResponseWriter(rec)
		ww.WriteHeader(http.StatusAccepted)

		assert.NotPanics(t, func() {
			_, _ = ww.Write([]byte("body"))
		})
		assert.Equal(t, http.StatusAccepted, ww.Status())
		assert.Equal(t, "body", rec.Body.String())
	})

	t.Run("flush_passthrough", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		ww := newResponseWriter(rec)
		_, _ = ww.Write([]byte("chunk"))
		ww.Flush()

		assert.True(t, rec.Flushed)
	})
}
