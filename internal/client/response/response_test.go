package response

import (
	"testing"

	"github.com/dmitrijs2005/linkdrop/internal/client/models"
	"github.com/dmitrijs2005/linkdrop/internal/client/transport"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JSON(t *testing.T) {
	resp := &transport.Response{
		StatusCode:  200,
		ContentType: "application/json; charset=utf-8",
		Body: []byte(`{"success":false,
			"results":[{"filename":"a.txt","success":true,"message":"ok"},{"filename":"b.txt","success":false,"message":"too large"}],
			"messages":[["error","File b.txt is too large"]]}`),
	}

	got, err := Decoder{}.Decode(resp)
	require.NoError(t, err)

	want := &models.Result{
		Success: false,
		Outcomes: []models.FileOutcome{
			{Filename: "a.txt", Success: true, Message: "ok"},
			{Filename: "b.txt", Success: false, Message: "too large"},
		},
		Notices: []models.Notice{{Category: models.CategoryError, Text: "File b.txt is too large"}},
	}
	assert.Empty(t, cmp.Diff(want, got))
}

func TestDecode_JSONWithoutContentType(t *testing.T) {
	got, err := Decoder{}.Decode(&transport.Response{StatusCode: 200, Body: []byte(` {"success":true}`)})
	require.NoError(t, err)
	assert.True(t, got.Success)
	assert.Nil(t, got.Outcomes)
}

func TestDecode_BrokenJSON(t *testing.T) {
	_, err := Decoder{}.Decode(&transport.Response{ContentType: "application/json", Body: []byte(`{"success":`)})
	assert.Error(t, err)
}

func TestDecode_HTMLRequiresCapability(t *testing.T) {
	resp := &transport.Response{ContentType: "text/html", Body: []byte(`<div class="flash-messages"></div>`)}

	_, err := Decoder{AllowHTML: false}.Decode(resp)
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestDecode_HTMLNoticesBlock(t *testing.T) {
	page := `<!doctype html><html><body>
		<div class="container">
		  <div class="flash-messages">
		    <div class="flash flash-success">File a.txt Uploaded   successfully.</div>
		    <ul><li class="error">File b.txt already exists. <b>Try Again.</b></li></ul>
		    <p>plain words</p>
		  </div>
		  <form id="upload-form"></form>
		</div></body></html>`

	got, err := Decoder{AllowHTML: true}.Decode(&transport.Response{ContentType: "text/html; charset=utf-8", Body: []byte(page)})
	require.NoError(t, err)

	assert.True(t, got.Success)
	assert.False(t, got.Reload)
	assert.Equal(t, []models.Notice{
		{Category: models.CategorySuccess, Text: "File a.txt Uploaded successfully."},
		{Category: models.CategoryError, Text: "File b.txt already exists. Try Again."},
		{Category: models.CategoryInfo, Text: "plain words"},
	}, got.Notices)
}

func TestDecode_HTMLWithoutBlockAsksForReload(t *testing.T) {
	got, err := Decoder{AllowHTML: true}.Decode(&transport.Response{ContentType: "text/html", Body: []byte(`<html><body><h1>Upload</h1></body></html>`)})
	require.NoError(t, err)
	assert.True(t, got.Reload)
	assert.Empty(t, got.Notices)
}

func TestDecode_UnknownType(t *testing.T) {
	_, err := Decoder{AllowHTML: true}.Decode(&transport.Response{ContentType: "text/plain", Body: []byte("ok")})
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, err = Decoder{}.Decode(&transport.Response{ContentType: ";;;", Body: []byte("ok")})
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestDecode_JSONWithoutSuccessKey(t *testing.T) {
	for _, body := range []string{`{}`, `null`, `{"status":"ok"}`, `{"results":[],"messages":[["info","hi"]]}`} {
		_, err := Decoder{}.Decode(&transport.Response{StatusCode: 200, ContentType: "application/json", Body: []byte(body)})
		assert.ErrorIs(t, err, ErrMissingSuccess, body)
	}

	got, err := Decoder{}.Decode(&transport.Response{StatusCode: 200, ContentType: "application/json", Body: []byte(`{"success":false}`)})
	require.NoError(t, err)
	assert.False(t, got.Success)
}
