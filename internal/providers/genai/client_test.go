package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
)

type captureTransport struct {
	lastRequest *http.Request
	lastBody    []byte
	status      int
	response    any
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.lastRequest = req
	if req.Body != nil {
		t.lastBody, _ = io.ReadAll(req.Body)
	}
	body, _ := json.Marshal(t.response)
	status := t.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}, nil
}

func newTestClient(t *testing.T, transport *captureTransport) *Client {
	t.Helper()
	client, err := NewClient(Options{
		APIKey:     "test-key",
		Model:      "gemini-2.5-flash",
		HTTPClient: &http.Client{Transport: transport},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestGenerateTextRequestShape(t *testing.T) {
	transport := &captureTransport{
		response: map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{map[string]any{"text": `{"productName":"Pipette Tips"}`}},
					},
				},
			},
		},
	}
	client := newTestClient(t, transport)

	image := []byte{0xde, 0xad, 0xbe, 0xef}
	text, err := client.GenerateText(context.Background(), VisionRequest{
		Instruction: "read the label",
		MIMEType:    "image/jpeg",
		ImageData:   image,
	})
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if !strings.Contains(text, "Pipette Tips") {
		t.Fatalf("text = %q, want candidate text", text)
	}

	req := transport.lastRequest
	if req == nil {
		t.Fatalf("no request captured")
	}
	if want := "/models/gemini-2.5-flash:generateContent"; !strings.HasSuffix(req.URL.Path, want) {
		t.Fatalf("path = %q, want suffix %q", req.URL.Path, want)
	}
	if got := req.URL.Query().Get("key"); got != "test-key" {
		t.Fatalf("key query = %q, want test-key", got)
	}

	var payload geminiGenerateContentRequest
	if err := json.Unmarshal(transport.lastBody, &payload); err != nil {
		t.Fatalf("decode captured body: %v", err)
	}
	if len(payload.Contents) != 1 || len(payload.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected contents shape: %+v", payload.Contents)
	}
	if payload.Contents[0].Parts[0].Text != "read the label" {
		t.Fatalf("instruction part = %q", payload.Contents[0].Parts[0].Text)
	}
	inline := payload.Contents[0].Parts[1].InlineData
	if inline == nil || inline.MimeType != "image/jpeg" {
		t.Fatalf("inline data missing or wrong mime: %+v", inline)
	}
	decoded, err := base64.StdEncoding.DecodeString(inline.Data)
	if err != nil {
		t.Fatalf("inline data not base64: %v", err)
	}
	if !bytes.Equal(decoded, image) {
		t.Fatalf("inline bytes mismatch")
	}
	if payload.GenerationConfig == nil || payload.GenerationConfig.ResponseMimeType != "application/json" {
		t.Fatalf("response mime not requested: %+v", payload.GenerationConfig)
	}
}

func TestGenerateTextDecodesAPIError(t *testing.T) {
	transport := &captureTransport{
		status: http.StatusTooManyRequests,
		response: map[string]any{
			"error": map[string]any{"code": 429, "message": "quota exceeded"},
		},
	}
	client := newTestClient(t, transport)

	_, err := client.GenerateText(context.Background(), VisionRequest{
		Instruction: "read the label",
		MIMEType:    "image/jpeg",
		ImageData:   []byte{1},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("error = %q, want status and message", err)
	}
}

func TestGenerateTextRejectsEmptyCandidates(t *testing.T) {
	transport := &captureTransport{response: map[string]any{"candidates": []any{}}}
	client := newTestClient(t, transport)

	_, err := client.GenerateText(context.Background(), VisionRequest{
		Instruction: "read the label",
		MIMEType:    "image/png",
		ImageData:   []byte{1},
	})
	if err == nil {
		t.Fatalf("expected error for empty candidates")
	}
}

func TestGenerateTextRejectsEmptyImage(t *testing.T) {
	client := newTestClient(t, &captureTransport{})

	_, err := client.GenerateText(context.Background(), VisionRequest{
		Instruction: "read the label",
		MIMEType:    "image/png",
	})
	if err == nil {
		t.Fatalf("expected error for empty image payload")
	}
}
