package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharsanguruparan/prospectscan/internal/model"
)

func sampleUpload() model.UploadResult {
	return model.UploadResult{
		SnapshotID:    "abc123",
		EmpresasCount: 3,
		Timestamp:     "2026-01-01T00:00:00Z",
		Dominios:      []string{"a.com", "b.com", "c.com"},
	}
}

func TestFormatTimestamp(t *testing.T) {
	mx := time.FixedZone("CST", -6*3600)
	assert.Equal(t, "01/01/2026, 00:00:00", FormatTimestamp("2026-01-01T00:00:00Z", time.UTC))
	assert.Equal(t, "31/12/2025, 18:00:00", FormatTimestamp("2026-01-01T00:00:00Z", mx))
	assert.Equal(t, "15/01/2026, 17:30:00", FormatTimestamp("2026-01-15T17:30:00.123456", nil))
	assert.Equal(t, "ayer", FormatTimestamp("ayer", time.UTC))
}

func TestResultViewKeepsEveryDomainInOrder(t *testing.T) {
	r := sampleUpload()
	for i := 0; i < 500; i++ {
		r.Dominios = append(r.Dominios, "extra.com")
	}
	v := NewResultView(r, time.UTC)
	assert.Len(t, v.Domains, 503)
	assert.Equal(t, []string{"a.com", "b.com", "c.com"}, v.Domains[:3])
}

func TestResultViewText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewResultView(sampleUpload(), time.UTC).WriteText(&buf))
	out := buf.String()

	assert.Contains(t, out, "abc123")
	assert.Contains(t, out, "Empresas procesadas: 3")
	assert.Contains(t, out, "01/01/2026, 00:00:00")
	assert.Equal(t, 3, strings.Count(out, "["))
	assert.Less(t, strings.Index(out, "[a.com]"), strings.Index(out, "[b.com]"))
	assert.Less(t, strings.Index(out, "[b.com]"), strings.Index(out, "[c.com]"))
	assert.Contains(t, out, "Company Name / company_name")
	assert.Contains(t, out, "- Technologies\n")
}

func TestIngestaPageRendersResult(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	rv := NewResultView(sampleUpload(), time.UTC)
	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, PageIngesta, Page{
		Title:  "Ingesta",
		Active: PageIngesta,
		Data:   IngestaPage{Result: &rv, MaxSize: "25 MiB"},
	}))
	html := buf.String()

	assert.Contains(t, html, `<code class="snapshot-id">abc123</code>`)
	assert.Contains(t, html, `<strong class="empresas-count">3</strong>`)
	assert.Equal(t, 3, strings.Count(html, `class="dominio-chip"`))
	a := strings.Index(html, `<div class="dominio-chip">a.com</div>`)
	b := strings.Index(html, `<div class="dominio-chip">b.com</div>`)
	c := strings.Index(html, `<div class="dominio-chip">c.com</div>`)
	require.True(t, a >= 0 && b >= 0 && c >= 0)
	assert.True(t, a < b && b < c)
	assert.Contains(t, html, "<code>Employee Growth (YoY)</code>")
	assert.NotContains(t, html, "upload-error")
}

func TestIngestaPageRendersErrorInline(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, PageIngesta, Page{
		Title: "Ingesta",
		Data:  IngestaPage{Error: "Error 500: Internal Server Error"},
	}))
	assert.Contains(t, buf.String(), "Error 500: Internal Server Error")
	assert.NotContains(t, buf.String(), "Snapshot Creado")
}

func TestCrucePage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, pages.Render(&buf, PageCruce, Page{Data: CrucePage{}}))
	assert.Contains(t, buf.String(), "No hay snapshot cargado")

	buf.Reset()
	require.NoError(t, pages.Render(&buf, PageCruce, Page{Data: CrucePage{SnapshotID: "abc123"}}))
	assert.Contains(t, buf.String(), "abc123")
}

func TestRenderUnknownPage(t *testing.T) {
	pages, err := NewPages()
	require.NoError(t, err)
	assert.Error(t, pages.Render(&bytes.Buffer{}, "nope", Page{}))
}
