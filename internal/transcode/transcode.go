// Package transcode shells out to ffmpeg to convert lossless sources
// into the configured lossy target format before transfer.
package transcode

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// supportedFormats gates the target format; the id3v2 tagging flags
// below are mp3-specific.
var supportedFormats = map[string]bool{"mp3": true}

// Transcoder converts audio files into scratch artifacts under TmpDir.
// Artifacts carry the source's modification time so the copy step
// lands the original timestamp on the remote, not ffmpeg's wall-clock
// run time.
type Transcoder struct {
	Format    string
	ExtraArgs []string // passed to ffmpeg verbatim, e.g. ["-b:a", "192k"]
	TmpDir    string

	ffmpegPath string
}

func New(format string, extraArgs []string, tmpDir string) (*Transcoder, error) {
	if !supportedFormats[format] {
		return nil, fmt.Errorf("unsupported transcode format %q (supported: mp3)", format)
	}
	info, err := os.Stat(tmpDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("tmp_dir %s is not a directory", tmpDir)
	}
	return &Transcoder{
		Format:     format,
		ExtraArgs:  extraArgs,
		TmpDir:     tmpDir,
		ffmpegPath: "ffmpeg",
	}, nil
}

// Convert produces a same-stem artifact in the target format and
// copies the source's modification time onto it. The caller owns the
// artifact and removes it after the transfer.
func (t *Transcoder) Convert(srcPath string) (string, error) {
	info, err := os.Stat(srcPath)
	if err != nil {
		return "", fmt.Errorf("transcode %s: %v", srcPath, err)
	}

	dst := t.artifactPath(srcPath)
	args := []string{"-y", "-loglevel", "error", "-i", srcPath, "-id3v2_version", "3", "-f", t.Format}
	args = append(args, t.ExtraArgs...)
	args = append(args, dst)

	var stderr bytes.Buffer
	cmd := exec.Command(t.ffmpegPath, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		os.Remove(dst)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("transcode %s: %v: %s", srcPath, err, msg)
		}
		return "", fmt.Errorf("transcode %s: %v", srcPath, err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("transcode %s: %v", srcPath, err)
	}
	return dst, nil
}

// artifactPath derives the scratch name from the full source path, so
// two sources sharing a stem can never collide in the scratch dir.
func (t *Transcoder) artifactPath(srcPath string) string {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(t.TmpDir, fmt.Sprintf("%016x-%s.%s", xxhash.Sum64String(srcPath), stem, t.Format))
}
