package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"graft.dev/pkg/graft/internal/domain"
	m "graft.dev/pkg/graft/internal/model"
)

func TestApplyEdit_Replacement(t *testing.T) {
	out, err := domain.ApplyEdit([]byte("hello world"), m.Edit{StartByte: 6, EndByte: 11, Replacement: []byte("gopher")})

	require.NoError(t, err)
	assert.Equal(t, "hello gopher", string(out))
}

func TestApplyEdit_Deletion(t *testing.T) {
	out, err := domain.ApplyEdit([]byte("hello world"), m.Edit{StartByte: 5, EndByte: 11})

	require.NoError(t, err)
	assert.Equal(t, "hello", string(out))
}

func TestApplyEdit_Insertion(t *testing.T) {
	out, err := domain.ApplyEdit([]byte("ab"), m.Edit{StartByte: 1, EndByte: 1, Replacement: []byte("X")})

	require.NoError(t, err)
	assert.Equal(t, "aXb", string(out))
}

func TestApplyEdit_VerbatimOutsideEdit(t *testing.T) {
	text := []byte("prefix MIDDLE suffix")

	out, err := domain.ApplyEdit(text, m.Edit{StartByte: 7, EndByte: 13, Replacement: []byte("x")})

	require.NoError(t, err)
	assert.Equal(t, "prefix x suffix", string(out))
	// The input buffer stays untouched.
	assert.Equal(t, "prefix MIDDLE suffix", string(text))
}

func TestApplyEdit_OutOfBounds(t *testing.T) {
	_, err := domain.ApplyEdit([]byte("short"), m.Edit{StartByte: 0, EndByte: 99})
	assert.Error(t, err)

	_, err = domain.ApplyEdit([]byte("short"), m.Edit{StartByte: 3, EndByte: 1})
	assert.Error(t, err)
}
