// Parlor - Social Networking Platform
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/parlor

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartImage(t *testing.T, fieldName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(fieldName, "photo.png")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (env *testEnv) upload(t *testing.T, token, fieldName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartImage(t, fieldName, content)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func pngPayload(size int) []byte {
	b := make([]byte, size)
	copy(b, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	return b
}

func TestUploadAndServe(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice")

	rec := env.upload(t, token, "image", pngPayload(2048))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	decode(t, rec, &resp)
	require.True(t, strings.HasPrefix(resp["url"], "/uploads/"), resp["url"])
	assert.True(t, strings.HasSuffix(resp["url"], ".png"))

	// Serve it back.
	serveRec := env.do(t, http.MethodGet, resp["url"], "", nil)
	require.Equal(t, http.StatusOK, serveRec.Code)
	assert.Equal(t, 2048, serveRec.Body.Len())
}

func TestUploadRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload(t, "", "image", pngPayload(512))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadRejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice")

	rec := env.upload(t, token, "image", []byte("just some text, not an image at all"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRejectsOversized(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice")

	// Test config caps uploads at 1 MiB.
	rec := env.upload(t, token, "image", pngPayload(2<<20))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadRequiresImageField(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice")

	rec := env.upload(t, token, "file", pngPayload(512))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeUnknownUploadIs404(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/uploads/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
