package ffmpegcodec

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"

	"github.com/user/uirecord/pkg/ports"
)

// FindFFmpeg locates the ffmpeg executable.
// Priority: 1) custom path, 2) FFMPEG_PATH env, 3) PATH, 4) common locations
func FindFFmpeg(custom string) (string, error) {
	if custom != "" {
		if _, err := os.Stat(custom); err == nil {
			return custom, nil
		}
		if path, err := exec.LookPath(custom); err == nil {
			return path, nil
		}
		return "", fmt.Errorf("%w: custom path %s not found", ErrFFmpegNotFound, custom)
	}

	if envPath := os.Getenv("FFMPEG_PATH"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
		return "", fmt.Errorf("%w: FFMPEG_PATH %s not found", ErrFFmpegNotFound, envPath)
	}

	execName := "ffmpeg"
	if runtime.GOOS == "windows" {
		execName = "ffmpeg.exe"
	}
	if path, err := exec.LookPath(execName); err == nil {
		return path, nil
	}

	var commonPaths []string
	switch runtime.GOOS {
	case "windows":
		commonPaths = []string{
			`C:\ffmpeg\bin\ffmpeg.exe`,
			`C:\Program Files\ffmpeg\bin\ffmpeg.exe`,
		}
	case "darwin":
		commonPaths = []string{
			"/opt/homebrew/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/usr/bin/ffmpeg",
		}
	default:
		commonPaths = []string{
			"/usr/bin/ffmpeg",
			"/usr/local/bin/ffmpeg",
			"/snap/bin/ffmpeg",
		}
	}
	for _, p := range commonPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", ErrFFmpegNotFound
}

// IsAvailable reports whether ffmpeg can be found.
func IsAvailable(custom string) bool {
	_, err := FindFFmpeg(custom)
	return err == nil
}

// buildArgs returns the ffmpeg arguments for a raw I420 to H.264 Annex B
// pipe. Every access unit starts with an AUD so the output can be split
// without parsing slices.
func buildArgs(format ports.MediaFormat, preset string) []string {
	fps := format.FrameRate
	if fps <= 0 {
		fps = 15
	}
	gop := fps * format.IFrameInterval
	if gop <= 0 {
		gop = fps
	}
	if preset == "" {
		preset = "veryfast"
	}

	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", format.ColorFormat.String(),
		"-s", fmt.Sprintf("%dx%d", format.Width, format.Height),
		"-framerate", strconv.Itoa(fps),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", preset,
		"-tune", "zerolatency",
		"-profile:v", "baseline",
		"-bf", "0",
		"-g", strconv.Itoa(gop),
	}
	if format.BitRate > 0 {
		rate := strconv.Itoa(format.BitRate)
		args = append(args, "-b:v", rate, "-maxrate", rate, "-bufsize", strconv.Itoa(format.BitRate*2))
	}
	args = append(args,
		"-x264-params", "aud=1",
		"-flush_packets", "1",
		"-f", "h264",
		"pipe:1",
	)
	return args
}
