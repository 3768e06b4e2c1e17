package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/equipment-config/internal/common"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return s.stdout, s.stderr, s.err
}

func TestExtractOK(t *testing.T) {
	r := &stubRunner{stdout: []byte("page one\fpage two\fpage three")}
	e := NewExtractorWithRunner(Config{}, r)

	res, err := e.Extract(context.Background(), "sheet.pdf")
	require.NoError(t, err)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Contains(t, res.Text, "page two")

	assert.Equal(t, "pdftotext", r.gotName)
	assert.Equal(t, []string{"-layout", "-enc", "UTF-8", "-eol", "unix", "sheet.pdf", "-"}, r.gotArgs)
}

func TestExtractBlankOutput(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{stdout: []byte("  \n\t")})
	_, err := e.Extract(context.Background(), "sheet.pdf")
	assert.ErrorIs(t, err, common.ErrTextExtraction)
}

func TestExtractCommandFailure(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{err: errors.New("exit status 1"), stderr: []byte("bad pdf")})
	_, err := e.Extract(context.Background(), "sheet.pdf")
	assert.ErrorIs(t, err, common.ErrTextExtraction)
}

func TestExtractWarnings(t *testing.T) {
	e := NewExtractorWithRunner(Config{}, &stubRunner{stdout: []byte("text"), stderr: []byte("Syntax Warning")})
	res, err := e.Extract(context.Background(), "sheet.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"Syntax Warning"}, res.Warnings)
}
