package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

const chart = "#TITLE: Song\n#ARTIST: Band\n#BPM: 120\n#DLEVEL: 85\n#00112: 1212\n#00121: 21\n"

func newServer() *Server {
	return New(Options{Logger: log.New(io.Discard, "", 0)})
}

func do(t *testing.T, h http.Handler, method, path string, body []byte) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Result()
}

func upload(t *testing.T, h http.Handler, body string) CreatedResponse {
	t.Helper()
	resp := do(t, h, http.MethodPost, "/charts", []byte(body))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created CreatedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	return created
}

func TestHealth(t *testing.T) {
	resp := do(t, newServer().Handler(), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUploadAndFetch(t *testing.T) {
	h := newServer().Handler()
	created := upload(t, h, chart)

	assert := assert.New(t)
	assert.NotEmpty(created.ID)
	assert.Equal("Song", created.SongInfo.Title)
	assert.Equal(2, created.SongInfo.DrumNoteCount)

	resp := do(t, h, http.MethodGet, "/charts/"+created.ID, nil)
	assert.Equal(http.StatusOK, resp.StatusCode)
	var doc dtx.Chart
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Len(doc.Bars, 2)
	assert.Equal("Band", doc.SongInfo.Artist)
}

func TestUploadShiftJIS(t *testing.T) {
	raw, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte("#TITLE: 夜明け\n#BPM: 120\n#00112: 12\n"))
	require.NoError(t, err)
	h := newServer().Handler()
	resp := do(t, h, http.MethodPost, "/charts?encoding=shift_jis", raw)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created CreatedResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "夜明け", created.SongInfo.Title)
}

func TestUploadRejectsBadCharts(t *testing.T) {
	h := newServer().Handler()

	resp := do(t, h, http.MethodPost, "/charts", []byte("#ARTIST: nobody\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.NotEmpty(t, e.Error)

	resp = do(t, h, http.MethodPost, "/charts", []byte("#TITLE: x\n#00112: 12\n"))
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = do(t, h, http.MethodPost, "/charts?encoding=nope", []byte(chart))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLayout(t *testing.T) {
	h := newServer().Handler()
	id := upload(t, h, chart).ID

	resp := do(t, h, http.MethodGet, "/charts/"+id+"/layout?gameMode=Guitar&chartMode=Classic&scale=2", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var canvases []layout.Canvas
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&canvases))
	require.NotEmpty(t, canvases)
	assert.NotEmpty(t, canvases[0].NoteRects)

	resp = do(t, h, http.MethodGet, "/charts/"+id+"/layout?scale=3", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, h, http.MethodGet, "/charts/"+id+"/layout?gameMode=Keyboard", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, h, http.MethodGet, "/charts/"+id+"/layout?levelShown=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExports(t *testing.T) {
	h := newServer().Handler()
	id := upload(t, h, chart).ID

	resp := do(t, h, http.MethodGet, "/charts/"+id+"/pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	resp = do(t, h, http.MethodGet, "/charts/"+id+"/midi?gameMode=Guitar", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ = io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("MThd")))
}

func TestPDFRenderFailure(t *testing.T) {
	dir := t.TempDir()
	banner := filepath.Join(dir, layout.BannerName(layout.DefaultDrawingConfig().GameMode, layout.Master)+".png")
	require.NoError(t, os.WriteFile(banner, []byte("not an image"), 0o644))

	h := New(Options{AssetDir: dir, Logger: log.New(io.Discard, "", 0)}).Handler()
	id := upload(t, h, chart).ID

	resp := do(t, h, http.MethodGet, "/charts/"+id+"/pdf", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotEqual(t, "application/pdf", resp.Header.Get("Content-Type"))
	var e ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
	assert.NotEmpty(t, e.Error)
}

func TestDeleteAndMissing(t *testing.T) {
	h := newServer().Handler()
	id := upload(t, h, chart).ID

	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, "/charts/"+id, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/charts/"+id, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/charts/"+id, nil).StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/charts/"+id+"/layout", nil).StatusCode)
}
