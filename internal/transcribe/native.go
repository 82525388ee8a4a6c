package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

const (
	defaultTimeout = 5 * time.Minute
	minTimeout     = 10 * time.Second

	helperEnvVar      = "CURSORLENS_TRANSCRIBER_PATH"
	defaultHelperName = "cursorlens-transcriber"
)

// NativeBackend runs the platform transcription helper as a subprocess. The
// helper receives --input/--output/--locale flags, writes a JSON payload to
// the output path, and exits 0 on success; stdout and stderr are log-only.
type NativeBackend struct {
	timeout time.Duration

	// test seams
	goos       string
	helperPath string
}

func NewNativeBackend(timeout time.Duration) *NativeBackend {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if timeout < minTimeout {
		timeout = minTimeout
	}
	return &NativeBackend{timeout: timeout, goos: runtime.GOOS}
}

// payloadEnvelope is the schema of the helper's output file. Success and
// failure shapes share one envelope and are separated by the Success flag.
type payloadEnvelope struct {
	Success bool            `json:"success"`
	Locale  string          `json:"locale"`
	Text    string          `json:"text"`
	Words   []subtitle.Word `json:"words"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
}

func (b *NativeBackend) Transcribe(ctx context.Context, inputPath, locale string) (*Result, error) {
	if b.goos != "darwin" {
		return nil, NewError(CodeUnsupportedPlatform)
	}

	helper, err := b.resolveHelper()
	if err != nil {
		return nil, NewError(CodeExecutionFailed)
	}

	outDir, err := os.MkdirTemp("", "cursorlens-asr-*")
	if err != nil {
		return nil, NewError(CodeExecutionFailed)
	}
	defer os.RemoveAll(outDir)
	outputPath := filepath.Join(outDir, "transcript.json")

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, helper,
		"--input", inputPath,
		"--output", outputPath,
		"--locale", locale,
	)
	runErr := cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return nil, NewError(CodeTimeout)
	}

	payload, parseErr := readPayload(outputPath)
	if parseErr != nil {
		// no usable payload: any launch or exit problem is an execution
		// failure
		return nil, NewError(CodeExecutionFailed)
	}

	if !payload.Success {
		if code, ok := knownCode(payload.Code); ok {
			e := &Error{Code: code, Message: payload.Message}
			if e.Message == "" {
				e.Message = code.Message()
			}
			return nil, e
		}
		return nil, NewError(CodeTranscriptionFailed)
	}

	if runErr != nil {
		// success payload but non-zero exit; trust the exit code
		return nil, NewError(CodeExecutionFailed)
	}

	resLocale := payload.Locale
	if resLocale == "" {
		resLocale = locale
	}
	return finishResult(resLocale, payload.Text, payload.Words), nil
}

func readPayload(path string) (*payloadEnvelope, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var payload payloadEnvelope
	if err := json.Unmarshal(b, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// resolveHelper finds the helper binary: explicit override, then env, then
// next to the running executable, then PATH.
func (b *NativeBackend) resolveHelper() (string, error) {
	if b.helperPath != "" {
		return b.helperPath, nil
	}
	if p := os.Getenv(helperEnvVar); p != "" {
		return p, nil
	}
	if exe, err := os.Executable(); err == nil {
		candidate := filepath.Join(filepath.Dir(exe), defaultHelperName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	if p, err := exec.LookPath(defaultHelperName); err == nil {
		return p, nil
	}
	return "", errors.New("transcription helper not found")
}
