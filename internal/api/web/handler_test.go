package web

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	app "cat-eye-locator/internal/application"
	"cat-eye-locator/internal/domain/entity"
)

type stubDetector struct {
	detections []entity.Detection
	calls      int
}

func (s *stubDetector) Predict(ctx context.Context, img image.Image, confidence float64) ([]entity.Detection, error) {
	s.calls++
	return s.detections, nil
}

func (s *stubDetector) Close() error { return nil }

func newTestServer(t *testing.T, det *stubDetector) *httptest.Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	h := NewHandler(app.NewLocatorService(det, log), log)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.SetRGBA(0, 0, color.RGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, url, filename string, data []byte) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile(formField, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	resp, err := http.Post(url, writer.FormDataContentType(), body)
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestHandleIndex_Prompt(t *testing.T) {
	det := &stubDetector{}
	srv := newTestServer(t, det)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Cat Left-Eye Locator")
	require.Contains(t, body, app.MsgPrompt)
	require.Zero(t, det.calls)
}

func TestHandleUpload_NoFile(t *testing.T) {
	det := &stubDetector{}
	srv := newTestServer(t, det)

	resp := upload(t, srv.URL+"/", "", nil)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, app.MsgPrompt)
	require.Zero(t, det.calls)
}

func TestHandleUpload_Found(t *testing.T) {
	det := &stubDetector{detections: []entity.Detection{{X1: 10, Y1: 10, X2: 50, Y2: 50, Confidence: 0.7}}}
	srv := newTestServer(t, det)

	resp := upload(t, srv.URL+"/", "cat.png", pngBytes(t))
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Center = (30.0, 30.0) px")
	require.Contains(t, body, "data:image/png;base64,")
	require.Contains(t, body, app.OverlayCaption)
	require.Contains(t, body, `class="alert success"`)
	require.Equal(t, 1, det.calls)
}

func TestHandleUpload_NotFound(t *testing.T) {
	det := &stubDetector{}
	srv := newTestServer(t, det)

	resp := upload(t, srv.URL+"/", "cat.png", pngBytes(t))
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "No left-eye detected. Try a clearer cat face.")
	require.Contains(t, body, `class="alert error"`)
	require.NotContains(t, body, "data:image/png")
}

func TestHandleUpload_InvalidImage(t *testing.T) {
	det := &stubDetector{}
	srv := newTestServer(t, det)

	resp := upload(t, srv.URL+"/", "cat.jpg", []byte("definitely not a jpeg"))
	body := readBody(t, resp)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, msgInvalidImage)
	require.Zero(t, det.calls)
}

func TestHandleUpload_TooLarge(t *testing.T) {
	det := &stubDetector{}
	log := logrus.New()
	log.SetOutput(io.Discard)
	h := NewHandler(app.NewLocatorService(det, log), log)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(formField, "cat.png")
	require.NoError(t, err)
	_, err = part.Write(bytes.Repeat([]byte{0xff}, maxFileSize+1024*1024))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Contains(t, rec.Body.String(), "The image is too large (10MB max).")
	require.Zero(t, det.calls)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, &stubDetector{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body := readBody(t, resp)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ok"}`, body)
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &stubDetector{})

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
