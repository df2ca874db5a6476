package worker

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/Reaganramsarup/dubber-poc/internal/api"
	"github.com/Reaganramsarup/dubber-poc/internal/audio"
	"github.com/Reaganramsarup/dubber-poc/internal/config"
	"github.com/Reaganramsarup/dubber-poc/internal/pipeline"
)

// pcmWAV builds a minimal mono 16-bit PCM WAV with the given sample rate and
// frame count.
func pcmWAV(sampleRate, frames int) []byte {
	dataLen := frames * 2
	var b bytes.Buffer
	b.WriteString("RIFF")
	binary.Write(&b, binary.LittleEndian, uint32(36+dataLen))
	b.WriteString("WAVE")
	b.WriteString("fmt ")
	binary.Write(&b, binary.LittleEndian, uint32(16))
	binary.Write(&b, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&b, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&b, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&b, binary.LittleEndian, uint16(2))
	binary.Write(&b, binary.LittleEndian, uint16(16))
	b.WriteString("data")
	binary.Write(&b, binary.LittleEndian, uint32(dataLen))
	b.Write(make([]byte, dataLen))
	return b.Bytes()
}

// A LINEAR16 run sends the encoding to the service, measures the returned
// clip with the in-process WAV decoder, and names clips .wav.
func TestSynthesizeLanguage_Linear16(t *testing.T) {
	clip := pcmWAV(8000, 8000) // 1s, fits the 5s window at rate 1.0

	var gotEncoding string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			AudioConfig struct {
				AudioEncoding string `json:"audioEncoding"`
			} `json:"audioConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotEncoding = req.AudioConfig.AudioEncoding
		fmt.Fprintf(w, `{"audioContent":%q}`, base64.StdEncoding.EncodeToString(clip))
	}))
	defer srv.Close()

	cfg := config.Default()
	cfg.Job.AudioEncoding = api.EncodingLinear16
	client := api.New(api.Config{TTSURL: srv.URL})
	sentences := []pipeline.Sentence{
		{Text: map[string]string{"es": "hola"}, Start: 0, End: 5},
	}
	langDir := t.TempDir()

	if err := synthesizeLanguage(context.Background(), cfg, client, sentences, "es", langDir); err != nil {
		t.Fatalf("synthesizeLanguage: %v", err)
	}

	if gotEncoding != api.EncodingLinear16 {
		t.Errorf("audioEncoding = %q, want %q", gotEncoding, api.EncodingLinear16)
	}
	got, err := os.ReadFile(filepath.Join(langDir, "0.wav"))
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if !bytes.Equal(got, clip) {
		t.Error("written clip differs from synthesized bytes")
	}
}

func TestFitWithRetry_EmptyAudioFailsFast(t *testing.T) {
	calls := 0
	fitter := &audio.Fitter{
		Synthesize: func(ctx context.Context, text string, rate float64) ([]byte, error) {
			calls++
			return nil, nil
		},
	}

	_, err := fitWithRetry(context.Background(), fitter, "hola", 5.0, 0, 3)
	if !errors.Is(err, audio.ErrEmptySynthesis) {
		t.Fatalf("err = %v, want ErrEmptySynthesis", err)
	}
	if calls != 1 {
		t.Errorf("synthesize called %d times, want 1 (no retry on contract violation)", calls)
	}
}

func TestFitWithRetry_TransientErrorRetries(t *testing.T) {
	calls := 0
	fitter := &audio.Fitter{
		Synthesize: func(ctx context.Context, text string, rate float64) ([]byte, error) {
			calls++
			if calls == 1 {
				return nil, fmt.Errorf("status 503")
			}
			return []byte("clip"), nil
		},
		Probe: func(ctx context.Context, data []byte) (float64, error) {
			return 1.0, nil
		},
	}

	if _, err := fitWithRetry(context.Background(), fitter, "hola", 5.0, 0, 3); err != nil {
		t.Fatalf("fitWithRetry: %v", err)
	}
	if calls != 2 {
		t.Errorf("synthesize called %d times, want 2", calls)
	}
}
