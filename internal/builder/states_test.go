package builder

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pipeline-builder/internal/catalog"
)

func TestSelectOperation(t *testing.T) {
	tcs := map[string]struct {
		answers  []string
		done     bool
		expected string
		messages []string
	}{
		"done": {
			answers: []string{"0"},
			done:    true,
		},
		"valid": {
			answers:  []string{"3"},
			expected: "contrast",
		},
		"padded": {
			answers:  []string{" 5 "},
			expected: "sharpen",
		},
		"retries": {
			answers:  []string{"blur", "", "6", "-1", "2.0", "2"},
			expected: "blur",
			messages: []string{
				"invalid input. please enter a number.",
				"please enter a number between 0 and 5.",
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			s := newSession(t, tc.answers, nil, nil)

			op, done, err := s.builder.selectOperation(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tc.done, done)
			assert.Equal(t, tc.expected, op.Name)
			if done {
				assert.Equal(t, Finalizing, s.builder.State())
			} else {
				assert.Equal(t, CollectingParameters, s.builder.State())
			}
			for _, msg := range tc.messages {
				assert.Contains(t, s.out.String(), msg)
			}
		})
	}
}

func TestEverySelectionReachesItsOperation(t *testing.T) {
	for idx, spec := range catalog.List() {
		s := newSession(t, []string{strconv.Itoa(idx + 1)}, nil, nil)
		op, done, err := s.builder.selectOperation(context.Background())
		require.NoError(t, err)
		assert.False(t, done)
		assert.Equal(t, spec.Name, op.Name)
	}
}

func TestEmptyAnswersUseDefaults(t *testing.T) {
	for _, op := range catalog.List() {
		t.Run(op.Name, func(t *testing.T) {
			answers := make([]string, len(op.Parameters))
			s := newSession(t, answers, nil, nil)

			params, err := s.builder.collectParameters(context.Background(), op)
			require.NoError(t, err)

			for _, spec := range op.Parameters {
				value, ok := params.Get(spec.Name)
				if spec.HasDefault() {
					require.True(t, ok, spec.Name)
					assert.Equal(t, *spec.Default, value, spec.Name)
				} else {
					assert.False(t, ok, spec.Name)
				}
			}
		})
	}
}

func TestWhitespaceAnswerIsRejected(t *testing.T) {
	op, err := catalog.Get(1)
	require.NoError(t, err)
	s := newSession(t, []string{" ", "\t", "2.5"}, nil, nil)

	params, err := s.builder.collectParameters(context.Background(), op)
	require.NoError(t, err)

	factor, ok := params.Get("factor")
	require.True(t, ok)
	assert.Equal(t, catalog.FloatValue(2.5), factor)
	assert.Equal(t, 2, strings.Count(s.out.String(), "invalid value for factor. please enter a float.\n"))
}

func TestOperationsAreCopied(t *testing.T) {
	s := newSession(t, []string{"1", "2", "0", "", "", "", "", "in.jpg", "out.jpg"}, nil, nil)

	outcome, err := s.builder.Run(context.Background())
	require.NoError(t, err)

	ops := s.builder.Operations()
	ops[0].Type = "changed"
	assert.Equal(t, "brightness", outcome.Document.Operations[0].Type)
	assert.Equal(t, "brightness", s.builder.Operations()[0].Type)
}
