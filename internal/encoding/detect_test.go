package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardledger/cardledger/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 should pass through unchanged.
	input := "Post Date,Description,Amount\n01/15/2025,CAFÉ BLEU,-12.50\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	// The UTF-8 BOM (0xEF 0xBB 0xBF) is stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Post Date,Description,Amount\n")

	r, err := encoding.NewUTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "CAFÉ MÜNCHEN": É = 0xC9, Ü = 0xDC.
	input := []byte{
		'C', 'A', 'F', 0xC9, ' ', 'M', 0xDC, 'N', 'C', 'H', 'E', 'N', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "CAFÉ MÜNCHEN\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// UTF-16 LE with BOM, "Amount\n".
	input := []byte{0xFF, 0xFE}
	for _, r := range "Amount\n" {
		input = append(input, byte(r), 0x00)
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Amount\n", string(got))
}
