package transcribe

import "errors"

// FailureCode classifies why a transcription attempt failed. Codes cross the
// subprocess boundary verbatim, so they are stable strings.
type FailureCode string

const (
	CodeSpeechPermissionDenied FailureCode = "speech_permission_denied"
	CodeRecognizerUnavailable  FailureCode = "recognizer_unavailable"
	CodeTimeout                FailureCode = "transcription_timeout"
	CodeNoSpeechDetected       FailureCode = "no_speech_detected"
	CodeTranscriptionFailed    FailureCode = "transcription_failed"
	CodeAudioExportFailed      FailureCode = "audio_export_failed"
	CodeExecutionFailed        FailureCode = "transcriber_execution_failed"
	CodeUnsupportedPlatform    FailureCode = "unsupported_platform"
)

// Message returns the user-facing description for a failure code.
func (c FailureCode) Message() string {
	switch c {
	case CodeSpeechPermissionDenied:
		return "Speech recognition permission was denied. Enable it in System Settings and try again."
	case CodeRecognizerUnavailable:
		return "The speech recognizer is unavailable for this locale."
	case CodeTimeout:
		return "Transcription timed out. Try again with a shorter recording."
	case CodeNoSpeechDetected:
		return "No speech was detected in this recording."
	case CodeTranscriptionFailed:
		return "Transcription failed. Try again."
	case CodeAudioExportFailed:
		return "The recording's audio track could not be exported."
	case CodeExecutionFailed:
		return "The transcription helper could not be run."
	case CodeUnsupportedPlatform:
		return "Transcription is not supported on this platform."
	default:
		return "Transcription failed for an unknown reason."
	}
}

// knownCode reports whether a code string coming from the subprocess maps to
// a code this layer understands.
func knownCode(code string) (FailureCode, bool) {
	switch FailureCode(code) {
	case CodeSpeechPermissionDenied, CodeRecognizerUnavailable, CodeTimeout,
		CodeNoSpeechDetected, CodeTranscriptionFailed, CodeAudioExportFailed,
		CodeExecutionFailed, CodeUnsupportedPlatform:
		return FailureCode(code), true
	}
	return "", false
}

// Error is a classified transcription failure.
type Error struct {
	Code    FailureCode
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code.Message()
}

// NewError builds an Error with the code's default message.
func NewError(code FailureCode) *Error {
	return &Error{Code: code, Message: code.Message()}
}

// AsError unwraps a classified transcription failure from err.
func AsError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
