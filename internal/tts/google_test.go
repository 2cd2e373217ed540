package tts

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"voicebridge/internal/lang"
	"voicebridge/internal/translation"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturePlayer struct {
	paths []string
}

func (p *capturePlayer) Play(ctx context.Context, path string) error {
	p.paths = append(p.paths, path)
	return nil
}

func TestGoogleClientSpeak(t *testing.T) {
	audio := []byte("mp3-bytes")
	var captured synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		payload := map[string]string{"audioContent": base64.StdEncoding.EncodeToString(audio)}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer server.Close()

	player := &capturePlayer{}
	client := NewGoogleClient(testLogger(), "test-key", t.TempDir(), player, &GoogleOptions{BaseURL: server.URL})

	err := client.Speak(context.Background(), "Hola", lang.Spanish)
	require.NoError(t, err)

	require.Equal(t, "Hola", captured.Input.Text)
	require.Equal(t, "es-ES", captured.Voice.LanguageCode)
	require.Equal(t, "NEUTRAL", captured.Voice.SSMLGender)
	require.Equal(t, "MP3", captured.AudioConfig.AudioEncoding)

	require.Len(t, player.paths, 1)
	written, err := os.ReadFile(player.paths[0])
	require.NoError(t, err)
	require.Equal(t, audio, written)
}

func TestGoogleClientSpeakUrduVoice(t *testing.T) {
	var captured synthesizeRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		payload := map[string]string{"audioContent": base64.StdEncoding.EncodeToString([]byte("x"))}
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	}))
	defer server.Close()

	client := NewGoogleClient(testLogger(), "test-key", t.TempDir(), &capturePlayer{}, &GoogleOptions{BaseURL: server.URL})

	require.NoError(t, client.Speak(context.Background(), "text", lang.Urdu))
	require.Equal(t, "ur-PK", captured.Voice.LanguageCode)
}

func TestGoogleClientSpeakNoAudio(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{}`)
	}))
	defer server.Close()

	player := &capturePlayer{}
	client := NewGoogleClient(testLogger(), "test-key", t.TempDir(), player, &GoogleOptions{BaseURL: server.URL})

	err := client.Speak(context.Background(), "Hola", lang.Spanish)
	require.NoError(t, err)
	require.Empty(t, player.paths)
}

func TestGoogleClientSpeakServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer server.Close()

	player := &capturePlayer{}
	client := NewGoogleClient(testLogger(), "test-key", t.TempDir(), player, &GoogleOptions{BaseURL: server.URL})

	err := client.Speak(context.Background(), "Hola", lang.Spanish)
	require.ErrorIs(t, err, translation.ErrRemoteService)
	require.Empty(t, player.paths)
}
