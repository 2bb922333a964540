package textextract

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTXT(t *testing.T) {
	data := []byte("  Senior Backend Engineer\nRemote, full time.  \n")
	r := bytes.NewReader(data)

	out, err := Extract(r, int64(len(data)), "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer\nRemote, full time.", out)
}

func TestExtractRejectsUnknownType(t *testing.T) {
	data := []byte("x")
	_, err := Extract(bytes.NewReader(data), 1, ".exe")
	assert.Error(t, err)
}

func TestStripXMLTags(t *testing.T) {
	out := stripXMLTags("<w:p><w:t>Hello</w:t><w:t>world</w:t></w:p>")
	assert.Equal(t, "Hello world", out)
}
