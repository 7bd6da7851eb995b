package ripper_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/garbled1/ps-ripper/internal/services"
)

func TestRipAudioReturnsSortedTracks(t *testing.T) {
	scratch := t.TempDir()
	exec := &stubExecutor{}
	exec.onRun = func(workdir, binary string, args []string) error {
		for _, name := range []string{"track03.cdda.wav", "track01.cdda.wav", "track02.cdda.wav"} {
			if err := os.WriteFile(filepath.Join(workdir, name), []byte("pcm"), 0o644); err != nil {
				return err
			}
		}
		return nil
	}

	tracks, err := newClient(exec).RipAudio(context.Background(), "/dev/sr0", scratch)
	if err != nil {
		t.Fatalf("RipAudio failed: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("got %d tracks, want 3", len(tracks))
	}
	if filepath.Base(tracks[0]) != "track01.cdda.wav" || filepath.Base(tracks[2]) != "track03.cdda.wav" {
		t.Fatalf("tracks not sorted: %v", tracks)
	}
}

func TestEncodeTracksDeletesIntermediates(t *testing.T) {
	scratch := t.TempDir()
	dest := t.TempDir()

	var wavs []string
	for _, name := range []string{"track01.cdda.wav", "track02.cdda.wav", "track03.cdda.wav"} {
		path := filepath.Join(scratch, name)
		if err := os.WriteFile(path, []byte("pcm"), 0o644); err != nil {
			t.Fatal(err)
		}
		wavs = append(wavs, path)
	}

	exec := &stubExecutor{}
	exec.onRun = func(workdir, binary string, args []string) error {
		// lame's last argument is the output file.
		return os.WriteFile(args[len(args)-1], []byte("mp3"), 0o644)
	}

	encoded, err := newClient(exec).EncodeTracks(context.Background(), wavs, dest)
	if err != nil {
		t.Fatalf("EncodeTracks failed: %v", err)
	}
	if encoded != 3 {
		t.Fatalf("encoded = %d, want 3", encoded)
	}

	compressed, err := filepath.Glob(filepath.Join(dest, "*.mp3"))
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) != 3 {
		t.Fatalf("got %d mp3 files, want 3", len(compressed))
	}
	for _, want := range []string{"track01.mp3", "track02.mp3", "track03.mp3"} {
		if _, err := os.Stat(filepath.Join(dest, want)); err != nil {
			t.Errorf("missing %s: %v", want, err)
		}
	}

	leftovers, err := filepath.Glob(filepath.Join(scratch, "*.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("intermediate files remain: %v", leftovers)
	}
}

func TestEncodeTracksStopsOnToolFailure(t *testing.T) {
	scratch := t.TempDir()
	wav := filepath.Join(scratch, "track01.cdda.wav")
	if err := os.WriteFile(wav, []byte("pcm"), 0o644); err != nil {
		t.Fatal(err)
	}

	exec := &stubExecutor{failOn: "lame"}

	encoded, err := newClient(exec).EncodeTracks(context.Background(), []string{wav}, t.TempDir())
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExternalTool", err)
	}
	if encoded != 0 {
		t.Fatalf("encoded = %d, want 0", encoded)
	}
	if _, statErr := os.Stat(wav); statErr != nil {
		t.Fatalf("failed encode must keep the intermediate: %v", statErr)
	}
}
