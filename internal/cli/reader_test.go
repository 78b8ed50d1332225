package cli

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineReader_ReadLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "single answer", input: "sim\n", want: []string{"sim"}},
		{name: "surrounding whitespace", input: "  3  \n", want: []string{"3"}},
		{name: "empty line", input: "\n", want: []string{""}},
		{name: "windows line endings", input: "s\r\nn\r\n", want: []string{"s", "n"}},
		{name: "final line without newline", input: "first\nlast", want: []string{"first", "last"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLineReader(strings.NewReader(tt.input))
			ctx := context.Background()

			for _, want := range tt.want {
				got, err := r.ReadLine(ctx)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}

			_, err := r.ReadLine(ctx)
			assert.ErrorIs(t, err, io.EOF)
			_, err = r.ReadLine(ctx)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}

func TestLineReader_Cancellation(t *testing.T) {
	t.Run("already canceled", func(t *testing.T) {
		r := NewLineReader(strings.NewReader("sim\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := r.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("answer after abandoned prompt is kept", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer func() { _ = pr.Close() }()
		r := NewLineReader(pr)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := r.ReadLine(ctx)
		require.ErrorIs(t, err, ErrInputCancelled)

		go func() {
			_, _ = pw.Write([]byte("sim\n"))
			_ = pw.Close()
		}()

		got, err := r.ReadLine(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "sim", got)

		_, err = r.ReadLine(context.Background())
		assert.ErrorIs(t, err, io.EOF)
	})
}
