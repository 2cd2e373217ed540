package audio

import "context"

// Recording is one in-progress microphone capture. Only the caller that
// started it may stop it.
type Recording interface {
	// Stop ends the capture and returns the path of the recorded file.
	Stop(ctx context.Context) (string, error)
}

// Recorder acquires the platform microphone.
type Recorder interface {
	Start(ctx context.Context) (Recording, error)
}

// Player plays an audio file through the platform audio subsystem.
type Player interface {
	Play(ctx context.Context, path string) error
}
